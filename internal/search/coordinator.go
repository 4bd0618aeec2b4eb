package search

import (
	"log/slog"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// Filter restricts search results by media type
type Filter int

const (
	FilterAll Filter = iota
	FilterMovies
	FilterSeries
)

// Allows reports whether the filter admits the given media type
func (f Filter) Allows(t domain.MediaType) bool {
	switch f {
	case FilterMovies:
		return t == domain.MediaTypeMovie
	case FilterSeries:
		return t == domain.MediaTypeSeries
	default:
		return true
	}
}

const defaultDebounce = 500 * time.Millisecond

// Coordinator debounces free-text queries so that only one remote search is
// issued per typing burst, and guards against a slow earlier response
// overwriting a later one. It is single-goroutine state: the caller owns the
// actual timer (a tea.Tick in the TUI) and feeds expiry back via Fire.
type Coordinator struct {
	logger *slog.Logger

	query    string
	filter   Filter
	seq      int
	results  []domain.CatalogItem
	active   bool // a search response is being awaited
	debounce time.Duration
}

// NewCoordinator creates a search coordinator with the default debounce
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{logger: logger, debounce: defaultDebounce}
}

// Debounce returns the interval a pending timer should wait before firing
func (c *Coordinator) Debounce() time.Duration { return c.debounce }

// Query returns the current query text
func (c *Coordinator) Query() string { return c.query }

// Filter returns the active media type filter
func (c *Coordinator) Filter() Filter { return c.filter }

// SetFilter changes the media type filter. Results already on screen are
// re-filtered by the caller; no new remote call is needed.
func (c *Coordinator) SetFilter(f Filter) { c.filter = f }

// Searching reports whether a remote search is in flight
func (c *Coordinator) Searching() bool { return c.active }

// Results returns the currently displayed results, filtered
func (c *Coordinator) Results() []domain.CatalogItem {
	if c.filter == FilterAll {
		return c.results
	}
	var out []domain.CatalogItem
	for _, item := range c.results {
		if c.filter.Allows(item.Type) {
			out = append(out, item)
		}
	}
	return out
}

// SetQuery records a query change. Every change invalidates the previous
// debounce timer; the returned token identifies the new one. An empty query
// cancels outright and clears results without a round-trip, returning
// schedule=false.
func (c *Coordinator) SetQuery(query string) (token int, schedule bool) {
	c.query = query
	c.seq++

	if query == "" {
		c.results = nil
		c.active = false
		return c.seq, false
	}
	return c.seq, true
}

// Fire is called when a debounce timer expires. It returns the query to
// search for, and ok=false when the timer was superseded by a later query
// change (only the newest timer may trigger a remote call).
func (c *Coordinator) Fire(token int) (query string, ok bool) {
	if token != c.seq || c.query == "" {
		return "", false
	}
	c.active = true
	c.logger.Debug("search fired", "query", c.query)
	return c.query, true
}

// Apply delivers a search response. The response is dropped when its query
// no longer matches the current one, so a slow earlier request can never
// overwrite the results of a later, faster one.
func (c *Coordinator) Apply(query string, results []domain.CatalogItem) bool {
	if query != c.query {
		c.logger.Debug("dropping stale search response", "query", query, "current", c.query)
		return false
	}
	c.results = results
	c.active = false
	return true
}

// Fail marks an in-flight search as finished without results. Transport
// failures surface as an empty list, never as a blocking error.
func (c *Coordinator) Fail(query string, err error) {
	if query != c.query {
		return
	}
	c.logger.Error("search failed", "error", err, "query", query)
	c.results = nil
	c.active = false
}

// Close invalidates any outstanding timer so a late callback after teardown
// cannot mutate state.
func (c *Coordinator) Close() {
	c.seq++
	c.active = false
}
