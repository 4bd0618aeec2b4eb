package tui

import (
	"github.com/mvdveen/streamfinder/internal/domain"
)

// Message types for the TUI

// ListsLoadedMsg signals that the membership lists have been loaded
type ListsLoadedMsg struct {
	Err error
}

// DiscoverLoadedMsg signals that the discovery list is ready
type DiscoverLoadedMsg struct {
	Items []domain.CatalogItem
	Err   error
}

// PreferencesLoadedMsg signals that preferences have been loaded
type PreferencesLoadedMsg struct {
	Err error
}

// PreferencesSavedMsg signals the outcome of an explicit save
type PreferencesSavedMsg struct {
	Err error
}

// PreferencesSettledMsg fires after the post-rating settle delay and
// triggers the genre refresh
type PreferencesSettledMsg struct{}

// RecommendationsMsg delivers the ranked recommendation list
type RecommendationsMsg struct {
	Set domain.RecommendationSet
	Err error
}

// SearchTimerMsg fires when a search debounce timer expires
type SearchTimerMsg struct {
	Token int
}

// SearchResultsMsg delivers remote search results
type SearchResultsMsg struct {
	Query   string
	Results []domain.CatalogItem
	Err     error
}

// DetailFetchedMsg delivers a fetched detail tile
type DetailFetchedMsg struct {
	ReqID  int
	ItemID int
	Detail *domain.Detail
	Err    error
}

// WatchlistChangedMsg signals an add/remove against the watchlist
type WatchlistChangedMsg struct {
	Err error
}

// WatchedChangedMsg signals a removal from the watched or rated sets
type WatchedChangedMsg struct {
	Err error
}

// RatingSubmittedMsg signals the outcome of a rating submission
type RatingSubmittedMsg struct {
	Err error
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
