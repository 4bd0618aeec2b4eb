package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdveen/streamfinder/internal/domain"
)

const requestTimeout = 30 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *Model) loadListsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return ListsLoadedMsg{Err: m.tracker.Load(ctx)}
	}
}

func (m *Model) loadDiscoverCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		items, err := m.catalog.DiscoverForUser(ctx)
		if err != nil {
			// The curated European list works without platform scoping
			items, err = m.catalog.DiscoverEuropean(ctx)
		}
		return DiscoverLoadedMsg{Items: items, Err: err}
	}
}

func (m *Model) loadPreferencesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return PreferencesLoadedMsg{Err: m.prefs.Load(ctx)}
	}
}

func (m *Model) savePreferencesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return PreferencesSavedMsg{Err: m.prefs.Save(ctx)}
	}
}

func (m *Model) refreshPreferencesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return PreferencesLoadedMsg{Err: m.prefs.Refresh(ctx)}
	}
}

func (m *Model) loadRecommendationsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		set, err := m.recs.GetRecommendations(ctx)
		return RecommendationsMsg{Set: set, Err: err}
	}
}

// searchTimerCmd starts a debounce timer for the given token
func (m *Model) searchTimerCmd(token int) tea.Cmd {
	return tea.Tick(m.search.Debounce(), func(time.Time) tea.Msg {
		return SearchTimerMsg{Token: token}
	})
}

func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		results, err := m.catalog.Search(ctx, query)
		return SearchResultsMsg{Query: query, Results: results, Err: err}
	}
}

func (m *Model) fetchDetailCmd(reqID int, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		d, err := m.catalog.GetDetail(ctx, item.Type, item.ID)
		return DetailFetchedMsg{ReqID: reqID, ItemID: item.ID, Detail: d, Err: err}
	}
}

func (m *Model) addToWatchlistCmd(item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return WatchlistChangedMsg{Err: m.tracker.AddToWatchlist(ctx, item)}
	}
}

func (m *Model) addManualCmd(title string, year int, mediaType domain.MediaType, platform string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return WatchlistChangedMsg{Err: m.tracker.AddManual(ctx, title, year, mediaType, platform)}
	}
}

func (m *Model) removeFromWatchlistCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return WatchlistChangedMsg{Err: m.tracker.RemoveFromWatchlist(ctx, id)}
	}
}

func (m *Model) removeFromWatchedCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return WatchedChangedMsg{Err: m.tracker.RemoveFromWatched(ctx, id)}
	}
}

func (m *Model) removeFromRatedCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return WatchedChangedMsg{Err: m.tracker.RemoveFromRated(ctx, id)}
	}
}

func (m *Model) submitRatingCmd(asWatched bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return RatingSubmittedMsg{Err: m.rating.Submit(ctx, asWatched)}
	}
}

// prefsSettleCmd waits out the server's genre recompute before refreshing
func (m *Model) prefsSettleCmd() tea.Cmd {
	return tea.Tick(m.rating.RefreshAfter(), func(time.Time) tea.Msg {
		return PreferencesSettledMsg{}
	})
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
