package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mvdveen/streamfinder/internal/derive"
	"github.com/mvdveen/streamfinder/internal/domain"
	"github.com/mvdveen/streamfinder/internal/rating"
	"github.com/mvdveen/streamfinder/internal/tui/styles"
)

// View renders the active screen
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading your lists...\n")
		return b.String()
	}

	switch m.view {
	case ViewDiscover:
		b.WriteString(m.renderDiscover())
	case ViewWatchlist:
		b.WriteString(m.renderWatchlist())
	case ViewWatched:
		b.WriteString(m.renderWatched())
	case ViewStats:
		b.WriteString(m.renderStats())
	case ViewRecommendations:
		b.WriteString(m.renderRecommendations())
	case ViewPreferences:
		b.WriteString(m.renderPreferences())
	}

	if d, ok := m.detail.Open(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(d))
	}

	if m.rating.State() != rating.StateClosed {
		b.WriteString("\n")
		b.WriteString(m.renderRatingModal())
	}
	if m.manualOpen {
		b.WriteString("\n")
		b.WriteString(m.renderManualModal())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(styles.ErrorStyle.Render(m.status))
		} else {
			b.WriteString(styles.SuccessStyle.Render(m.status))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("tab: views · /: search · a: watchlist · r: rate · d: detail · x: remove · m: manual add · q: quit"))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(viewTitles))
	for i, title := range viewTitles {
		label := title
		switch View(i) {
		case ViewWatchlist:
			label = fmt.Sprintf("%s (%d)", title, len(m.tracker.Watchlist()))
		case ViewWatched:
			label = fmt.Sprintf("%s (%d)", title, len(m.tracker.Watched())+len(m.tracker.RatedOnly()))
		}
		if View(i) == m.view {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderDiscover() string {
	var b strings.Builder

	prompt := "/ "
	if m.searchFocused {
		b.WriteString(prompt + m.searchInput.View() + "\n")
	} else if q := m.search.Query(); q != "" {
		b.WriteString(prompt + q + "\n")
	}

	heading := "European picks for you"
	if m.search.Query() != "" {
		heading = "Search results"
		if m.search.Searching() {
			heading = "Searching... (showing cached matches)"
		}
	}
	b.WriteString(styles.SubtitleStyle.Render(heading))
	if f := m.search.Filter(); f != 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  [filter: %s]", [3]string{"all", "movies", "series"}[f])))
	}
	b.WriteString("\n")

	list := m.discoverList()
	if len(list) == 0 {
		b.WriteString(styles.DimStyle.Render("  nothing found\n"))
		return b.String()
	}

	for i, item := range list {
		b.WriteString(m.renderCatalogLine(i, item))
	}
	return b.String()
}

func (m *Model) renderCatalogLine(i int, item domain.CatalogItem) string {
	marker := "  "
	switch m.tracker.Membership(item.ID) {
	case domain.MembershipWatchlisted:
		marker = styles.AccentStyle.Render("• ")
	case domain.MembershipWatched:
		marker = styles.SuccessStyle.Render("✓ ")
	case domain.MembershipRatedOnly:
		marker = styles.AccentStyle.Render("★ ")
	}

	line := fmt.Sprintf("%s%s  %s", marker, item.Title, styles.DimStyle.Render(item.Description()))
	if item.CatalogRating > 0 {
		line += styles.DimStyle.Render(fmt.Sprintf("  %.1f", item.CatalogRating))
	}
	if len(item.Platforms) > 0 {
		line += "  " + styles.SubtitleStyle.Render(strings.Join(item.Platforms, ", "))
	}

	if i == m.cursor {
		return styles.SelectedStyle.Render(line) + "\n"
	}
	return line + "\n"
}

func (m *Model) renderWatchlist() string {
	list := m.tracker.Watchlist()
	if len(list) == 0 {
		return styles.DimStyle.Render("Your watchlist is empty. Add titles you still want to see.\n")
	}

	var b strings.Builder
	for i, r := range list {
		b.WriteString(m.renderCatalogLine(i, r.CatalogItem))
	}
	return b.String()
}

func (m *Model) renderWatched() string {
	watched := m.tracker.Watched()
	rated := m.tracker.RatedOnly()
	if len(watched) == 0 && len(rated) == 0 {
		return styles.DimStyle.Render("No watched titles yet. Rate what you have seen.\n")
	}

	var b strings.Builder
	for i, r := range watched {
		line := fmt.Sprintf("  %s (%d)  %s", r.Title, r.Year, styles.AccentStyle.Render(strings.Repeat("★", r.UserRating)))
		if !r.WatchedAt.IsZero() {
			line += styles.DimStyle.Render("  " + r.WatchedAt.Format("02-01-2006"))
		}
		if i == m.cursor {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(rated) > 0 {
		b.WriteString("\n" + styles.SubtitleStyle.Render("Rated without watching") + "\n")
		for i, r := range rated {
			idx := len(watched) + i
			line := fmt.Sprintf("  %s (%d)  %s", r.Title, r.Year, styles.AccentStyle.Render(strings.Repeat("★", r.UserRating)))
			if idx == m.cursor {
				line = styles.SelectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderStats() string {
	watched := m.tracker.Watched()
	summary := derive.Summarize(watched, m.tracker.Watchlist())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Watched: %s   Average rating: %s   Still to see: %s\n\n",
		styles.TitleStyle.Render(fmt.Sprintf("%d", summary.Watched)),
		styles.TitleStyle.Render(fmt.Sprintf("%.1f", summary.AverageRating)),
		styles.TitleStyle.Render(fmt.Sprintf("%d", summary.StillToSee)),
	))

	if dist := derive.PlatformDistribution(watched); len(dist) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("By platform") + "\n")
		for _, pc := range dist {
			b.WriteString(fmt.Sprintf("  %-14s %s %d\n", pc.Platform, strings.Repeat("▇", pc.Count), pc.Count))
		}
		b.WriteString("\n")
	}

	if affinity := derive.GenreAffinity(m.prefs.Current().Genres); len(affinity) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Genre affinity") + "\n")
		for _, gs := range affinity {
			b.WriteString(fmt.Sprintf("  %-14s %s\n", gs.Genre, styles.AccentStyle.Render(strings.Repeat("▇", int(gs.Score)))))
		}
		b.WriteString("\n")
	}

	if buckets := derive.DecadeHistogram(watched); len(buckets) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("By decade") + "\n")
		for _, d := range buckets {
			b.WriteString(fmt.Sprintf("  %-8s %s %d\n", d.Label, strings.Repeat("▇", d.Count), d.Count))
		}
		b.WriteString("\n")
	}

	if favs := derive.Favorites(append(watched, m.tracker.RatedOnly()...)); len(favs) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Favorites") + "\n")
		for _, f := range favs {
			b.WriteString(fmt.Sprintf("  %s (%d)\n", f.Title, f.Year))
		}
	}
	return b.String()
}

func (m *Model) renderRecommendations() string {
	recs := m.recommendations.Recommendations
	if len(recs) == 0 {
		return styles.DimStyle.Render("No recommendations yet. Rate a few titles first.\n")
	}

	onPlatform, other := derive.PartitionRecommendations(recs)

	var b strings.Builder
	if len(m.recommendations.BasedOn) > 0 {
		b.WriteString(styles.DimStyle.Render("Based on: "+strings.Join(m.recommendations.BasedOn, ", ")) + "\n\n")
	}

	// The partition is presentational; the cursor still walks the original
	// ranked order, so index back into it.
	index := make(map[int]int, len(recs))
	for i, r := range recs {
		index[r.ID] = i
	}

	renderGroup := func(title string, group []domain.Recommendation) {
		if len(group) == 0 {
			return
		}
		b.WriteString(styles.SubtitleStyle.Render(title) + "\n")
		for _, r := range group {
			line := fmt.Sprintf("  %s  %s", r.Title, styles.DimStyle.Render(r.Description()))
			if len(r.RecommendedBecause) > 0 {
				line += styles.DimStyle.Render("  (" + strings.Join(r.RecommendedBecause, ", ") + ")")
			}
			if index[r.ID] == m.cursor {
				line = styles.SelectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	renderGroup("On your platforms", onPlatform)
	renderGroup("Elsewhere", other)
	return b.String()
}

func (m *Model) renderPreferences() string {
	current := m.prefs.Current()

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Your platforms (space: toggle, s: save)") + "\n")
	for i, p := range knownPlatforms {
		check := "[ ]"
		if current.HasPlatform(p) {
			check = styles.SuccessStyle.Render("[x]")
		}
		line := fmt.Sprintf("  %s %s", check, p)
		if i == m.cursor {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.prefs.Changed() {
		b.WriteString("\n" + styles.AccentStyle.Render("unsaved changes") + "\n")
	}
	return b.String()
}

func (m *Model) renderDetail(item domain.CatalogItem) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(item.Title) + " " + styles.DimStyle.Render(item.Description()) + "\n")

	if m.detail.Loading() {
		b.WriteString(m.spinner.View() + " loading detail...\n")
		return styles.DetailStyle.Render(b.String())
	}

	if d, ok := m.detail.Detail(); ok {
		if d.Overview != "" {
			b.WriteString(d.Overview + "\n")
		}
		if len(d.Genres) > 0 {
			b.WriteString(styles.DimStyle.Render("Genres: "+strings.Join(d.Genres, ", ")) + "\n")
		}
		if len(d.Cast) > 0 {
			b.WriteString(styles.DimStyle.Render("Cast: "+strings.Join(d.Cast, ", ")) + "\n")
		}
		if len(d.StreamingPlatforms) > 0 {
			b.WriteString("Streaming: " + strings.Join(d.StreamingPlatforms, ", ") + "\n")
		}
		if len(d.RentBuyPlatforms) > 0 {
			b.WriteString("Rent/buy: " + strings.Join(d.RentBuyPlatforms, ", ") + "\n")
		}
	}
	return styles.DetailStyle.Render(b.String())
}

func (m *Model) renderRatingModal() string {
	target := m.rating.Target()

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Rate: "+target.Title) + "\n\n")

	stars := ""
	for i := 1; i <= 5; i++ {
		if i <= m.rating.Rating() {
			stars += styles.AccentStyle.Render("★ ")
		} else {
			stars += styles.DimStyle.Render("☆ ")
		}
	}
	b.WriteString(stars + "\n\n")

	if m.rating.State() == rating.StateSubmitting {
		b.WriteString(m.spinner.View() + " saving...\n")
	} else {
		b.WriteString(styles.DimStyle.Render("1-5: rating · enter: watched & rate · b: rate without watching · esc: cancel"))
	}
	return styles.ModalStyle.Render(b.String())
}

func (m *Model) renderManualModal() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Add a title by hand") + "\n\n")

	fields := []string{
		"Title:    " + m.manualTitle.View(),
		"Year:     " + m.manualYear.View(),
		"Type:     " + m.manualType.String(),
		"Platform: " + knownPlatforms[m.manualPlat],
	}
	for i, f := range fields {
		if i == m.manualField {
			b.WriteString(styles.AccentStyle.Render("> ") + f + "\n")
		} else {
			b.WriteString("  " + f + "\n")
		}
	}

	b.WriteString("\n" + styles.DimStyle.Render("tab: next field · enter: add to watchlist · esc: cancel"))
	return styles.ModalStyle.Render(b.String())
}
