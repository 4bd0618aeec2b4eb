package tui

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdveen/streamfinder/internal/detail"
	"github.com/mvdveen/streamfinder/internal/domain"
	"github.com/mvdveen/streamfinder/internal/prefs"
	"github.com/mvdveen/streamfinder/internal/rating"
	"github.com/mvdveen/streamfinder/internal/search"
	"github.com/mvdveen/streamfinder/internal/tracker"
	"github.com/mvdveen/streamfinder/internal/tui/styles"
)

// View identifies the active screen
type View int

const (
	ViewDiscover View = iota
	ViewWatchlist
	ViewWatched
	ViewStats
	ViewRecommendations
	ViewPreferences
)

var viewTitles = []string{"Discover", "Watchlist", "Watched", "Stats", "For You", "Platforms"}

// knownPlatforms are the subscription options offered in the preferences
// and manual-add screens.
var knownPlatforms = []string{"Netflix", "HBO Max", "Disney+", "Amazon Prime", "Videoland", "NPO Start"}

// Model is the bubbletea application model. It only renders engine state and
// translates key events into engine calls; the tracking semantics live in
// the engine packages.
type Model struct {
	tracker *tracker.Service
	prefs   *prefs.Service
	rating  *rating.Workflow
	search  *search.Coordinator
	detail  *detail.Selector
	catalog domain.CatalogClient
	recs    domain.RecommendationClient
	logger  *slog.Logger

	view   View
	cursor int

	discover        []domain.CatalogItem
	recommendations domain.RecommendationSet

	searchInput   textinput.Model
	searchFocused bool

	spinner spinner.Model
	loading bool

	status    string
	statusErr bool

	width  int
	height int

	// Manual add modal
	manualOpen  bool
	manualField int
	manualTitle textinput.Model
	manualYear  textinput.Model
	manualType  domain.MediaType
	manualPlat  int
}

// NewModel wires the engine services into a TUI model
func NewModel(
	trackerSvc *tracker.Service,
	prefsSvc *prefs.Service,
	catalog domain.CatalogClient,
	recs domain.RecommendationClient,
	logger *slog.Logger,
) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search movies and series..."
	searchInput.CharLimit = 100

	manualTitle := textinput.New()
	manualTitle.Placeholder = "Title"
	manualTitle.CharLimit = 100

	manualYear := textinput.New()
	manualYear.Placeholder = "Year"
	manualYear.CharLimit = 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return &Model{
		tracker:     trackerSvc,
		prefs:       prefsSvc,
		rating:      rating.NewWorkflow(trackerSvc, logger),
		search:      search.NewCoordinator(logger),
		detail:      detail.NewSelector(logger),
		catalog:     catalog,
		recs:        recs,
		logger:      logger,
		searchInput: searchInput,
		manualTitle: manualTitle,
		manualYear:  manualYear,
		manualType:  domain.MediaTypeSeries,
		spinner:     sp,
		loading:     true,
	}
}

// Init starts the initial loads
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadListsCmd(),
		m.loadDiscoverCmd(),
		m.loadPreferencesCmd(),
		m.loadRecommendationsCmd(),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.detail.Loading() && !m.search.Searching() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ListsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, m.setStatus("offline: using last known lists", true)
		}
		return m, nil

	case DiscoverLoadedMsg:
		if msg.Err != nil {
			return m, m.setStatus("could not load discovery list", true)
		}
		m.discover = msg.Items
		return m, nil

	case PreferencesLoadedMsg:
		return m, nil

	case PreferencesSavedMsg:
		if msg.Err != nil {
			return m, m.setStatus("saving platforms failed", true)
		}
		return m, m.setStatus("platforms saved", false)

	case PreferencesSettledMsg:
		return m, tea.Batch(m.refreshPreferencesCmd(), m.loadRecommendationsCmd())

	case RecommendationsMsg:
		if msg.Err != nil {
			m.logger.Debug("recommendations unavailable", "error", msg.Err)
			return m, nil
		}
		m.recommendations = msg.Set
		return m, nil

	case SearchTimerMsg:
		if query, ok := m.search.Fire(msg.Token); ok {
			return m, tea.Batch(m.searchCmd(query), m.spinner.Tick)
		}
		return m, nil

	case SearchResultsMsg:
		if msg.Err != nil {
			m.search.Fail(msg.Query, msg.Err)
			return m, nil
		}
		if m.search.Apply(msg.Query, msg.Results) {
			m.clampCursor()
		}
		return m, nil

	case DetailFetchedMsg:
		if msg.Err != nil {
			m.detail.Fail(msg.ReqID, msg.Err)
			return m, nil
		}
		m.detail.Apply(msg.ReqID, msg.ItemID, msg.Detail)
		return m, nil

	case WatchlistChangedMsg:
		if msg.Err != nil {
			// Duplicate adds are normal concurrent UI noise, stay quiet
			m.logger.Debug("watchlist change rejected", "error", msg.Err)
			return m, nil
		}
		m.clampCursor()
		return m, nil

	case WatchedChangedMsg:
		m.clampCursor()
		return m, nil

	case RatingSubmittedMsg:
		if msg.Err != nil {
			return m, m.setStatus("rating rejected", true)
		}
		m.clampCursor()
		// Genre affinity is recomputed server-side after a delay
		return m, m.prefsSettleCmd()

	case ClearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	return clearStatusCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals take precedence over everything else
	if m.rating.State() != rating.StateClosed {
		return m.handleRatingKey(msg)
	}
	if m.manualOpen {
		return m.handleManualKey(msg)
	}
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.search.Close()
		return m, tea.Quit

	case "tab":
		m.view = (m.view + 1) % View(len(viewTitles))
		m.cursor = 0
		return m, nil

	case "shift+tab":
		m.view = (m.view + View(len(viewTitles)) - 1) % View(len(viewTitles))
		m.cursor = 0
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil

	case "/":
		if m.view == ViewDiscover {
			m.searchFocused = true
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "m":
		m.openManual()
		return m, textinput.Blink

	case "a":
		if item, ok := m.selectedItem(); ok {
			return m, m.addToWatchlistCmd(item)
		}
		return m, nil

	case "r":
		if item, ok := m.selectedItem(); ok {
			m.rating.Open(item)
		}
		return m, nil

	case "x":
		return m.removeSelected()

	case "enter", "d":
		if item, ok := m.selectedItem(); ok {
			if reqID, fetch := m.detail.Toggle(item); fetch {
				return m, tea.Batch(m.fetchDetailCmd(reqID, item), m.spinner.Tick)
			}
		}
		return m, nil

	case "esc":
		m.detail.Close()
		return m, nil

	case "f":
		if m.view == ViewDiscover {
			m.search.SetFilter((m.search.Filter() + 1) % 3)
			m.clampCursor()
		}
		return m, nil

	case " ":
		if m.view == ViewPreferences && m.cursor < len(knownPlatforms) {
			m.prefs.TogglePlatform(knownPlatforms[m.cursor])
		}
		return m, nil

	case "s":
		if m.view == ViewPreferences && m.prefs.Changed() {
			return m, m.savePreferencesCmd()
		}
		return m, nil

	case "R":
		m.loading = true
		return m, tea.Batch(
			m.spinner.Tick,
			m.loadListsCmd(),
			m.loadDiscoverCmd(),
			m.loadRecommendationsCmd(),
		)
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	case "enter", "down":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if v := m.searchInput.Value(); v != before {
		token, schedule := m.search.SetQuery(v)
		m.clampCursor()
		if schedule {
			return m, tea.Batch(cmd, m.searchTimerCmd(token))
		}
	}
	return m, cmd
}

func (m *Model) handleRatingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rating.Close()
		return m, nil
	case "1", "2", "3", "4", "5":
		n, _ := strconv.Atoi(msg.String())
		m.rating.SetRating(n)
		return m, nil
	case "enter", "w":
		// "Gezien & Beoordelen": watched with rating
		return m, m.submitRatingCmd(true)
	case "b":
		// "Beoordelen zonder Gezien": rated without watching
		return m, m.submitRatingCmd(false)
	}
	return m, nil
}

func (m *Model) openManual() {
	m.manualOpen = true
	m.manualField = 0
	m.manualTitle.SetValue("")
	m.manualYear.SetValue("")
	m.manualType = domain.MediaTypeSeries
	m.manualPlat = 0
	m.manualTitle.Focus()
	m.manualYear.Blur()
}

func (m *Model) handleManualKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.manualOpen = false
		return m, nil

	case "tab":
		m.manualField = (m.manualField + 1) % 4
		m.manualTitle.Blur()
		m.manualYear.Blur()
		switch m.manualField {
		case 0:
			m.manualTitle.Focus()
		case 1:
			m.manualYear.Focus()
		}
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.manualTitle.Value())
		year, _ := strconv.Atoi(m.manualYear.Value())
		if title == "" || year == 0 {
			return m, m.setStatus("title and year are required", true)
		}
		m.manualOpen = false
		return m, m.addManualCmd(title, year, m.manualType, knownPlatforms[m.manualPlat])
	}

	switch m.manualField {
	case 0:
		var cmd tea.Cmd
		m.manualTitle, cmd = m.manualTitle.Update(msg)
		return m, cmd
	case 1:
		var cmd tea.Cmd
		m.manualYear, cmd = m.manualYear.Update(msg)
		return m, cmd
	case 2:
		if msg.String() == " " || msg.String() == "left" || msg.String() == "right" {
			if m.manualType == domain.MediaTypeSeries {
				m.manualType = domain.MediaTypeMovie
			} else {
				m.manualType = domain.MediaTypeSeries
			}
		}
	case 3:
		switch msg.String() {
		case " ", "right":
			m.manualPlat = (m.manualPlat + 1) % len(knownPlatforms)
		case "left":
			m.manualPlat = (m.manualPlat + len(knownPlatforms) - 1) % len(knownPlatforms)
		}
	}
	return m, nil
}

// discoverList is what the discover view currently shows: the curated list,
// a local fuzzy narrowing while the remote search is pending, or the remote
// results once they land.
func (m *Model) discoverList() []domain.CatalogItem {
	if m.search.Query() == "" {
		return search.FilterLocal(m.discover, "", m.search.Filter())
	}
	if m.search.Searching() {
		return search.FilterLocal(m.discover, m.search.Query(), m.search.Filter())
	}
	return m.search.Results()
}

func (m *Model) listLen() int {
	switch m.view {
	case ViewDiscover:
		return len(m.discoverList())
	case ViewWatchlist:
		return len(m.tracker.Watchlist())
	case ViewWatched:
		return len(m.tracker.Watched()) + len(m.tracker.RatedOnly())
	case ViewRecommendations:
		return len(m.recommendations.Recommendations)
	case ViewPreferences:
		return len(knownPlatforms)
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectedItem resolves the cursor to a catalog item in the current view
func (m *Model) selectedItem() (domain.CatalogItem, bool) {
	switch m.view {
	case ViewDiscover:
		list := m.discoverList()
		if m.cursor < len(list) {
			return list[m.cursor], true
		}
	case ViewWatchlist:
		list := m.tracker.Watchlist()
		if m.cursor < len(list) {
			return list[m.cursor].CatalogItem, true
		}
	case ViewWatched:
		watched := m.tracker.Watched()
		if m.cursor < len(watched) {
			return watched[m.cursor].CatalogItem, true
		}
		rated := m.tracker.RatedOnly()
		if i := m.cursor - len(watched); i < len(rated) {
			return rated[i].CatalogItem, true
		}
	case ViewRecommendations:
		if m.cursor < len(m.recommendations.Recommendations) {
			return m.recommendations.Recommendations[m.cursor].CatalogItem, true
		}
	}
	return domain.CatalogItem{}, false
}

func (m *Model) removeSelected() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}

	switch m.tracker.Membership(item.ID) {
	case domain.MembershipWatchlisted:
		return m, m.removeFromWatchlistCmd(item.ID)
	case domain.MembershipWatched:
		return m, m.removeFromWatchedCmd(item.ID)
	case domain.MembershipRatedOnly:
		return m, m.removeFromRatedCmd(item.ID)
	}
	return m, nil
}
