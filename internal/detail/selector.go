package detail

import (
	"log/slog"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// Selector is the single-selection toggle cache for the detail tile. At most
// one id is open; toggling the open id again closes it. Fetch responses carry
// a request id so a stale response for a since-closed selection lands in the
// last-detail slot without ever being shown.
type Selector struct {
	logger *slog.Logger

	open    bool
	openID  int
	openItm domain.CatalogItem
	loading bool
	reqSeq  int

	lastDetail   *domain.Detail
	lastDetailID int
	hasLast      bool
}

// NewSelector creates an empty detail selector
func NewSelector(logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{logger: logger}
}

// Toggle selects an item for the detail tile. Selecting the already-open id
// closes it (idempotent toggle). Selecting a different id replaces the open
// selection directly and requests a fetch identified by the returned request
// id; fetch=false means no remote call is needed.
func (s *Selector) Toggle(item domain.CatalogItem) (reqID int, fetch bool) {
	if s.open && s.openID == item.ID {
		s.Close()
		return 0, false
	}

	s.open = true
	s.openID = item.ID
	s.openItm = item
	s.reqSeq++

	// A cached detail for this id can be shown immediately
	if s.hasLast && s.lastDetailID == item.ID {
		s.loading = false
		return 0, false
	}

	s.loading = true
	return s.reqSeq, true
}

// Apply delivers a fetched detail. It is always written to the last-detail
// slot; it only clears the loading flag when the request is still current.
func (s *Selector) Apply(reqID int, id int, d *domain.Detail) {
	s.lastDetail = d
	s.lastDetailID = id
	s.hasLast = true

	if reqID == s.reqSeq && s.open && s.openID == id {
		s.loading = false
		return
	}
	s.logger.Debug("stored stale detail response", "id", id)
}

// Fail marks a fetch as finished without a detail. The tile shows the basic
// catalog attributes instead of an error.
func (s *Selector) Fail(reqID int, err error) {
	if reqID != s.reqSeq {
		return
	}
	s.logger.Error("detail fetch failed", "error", err, "id", s.openID)
	s.loading = false
}

// Close clears the selection
func (s *Selector) Close() {
	s.open = false
	s.openID = 0
	s.openItm = domain.CatalogItem{}
	s.loading = false
	s.reqSeq++
}

// Open returns the selected item, or ok=false when no detail is open
func (s *Selector) Open() (domain.CatalogItem, bool) {
	return s.openItm, s.open
}

// Loading reports whether the open selection is awaiting its detail
func (s *Selector) Loading() bool {
	return s.open && s.loading
}

// Detail returns the fetched detail for the open selection. A stale detail
// belonging to a different id is never returned.
func (s *Selector) Detail() (*domain.Detail, bool) {
	if s.open && s.hasLast && s.lastDetailID == s.openID {
		return s.lastDetail, true
	}
	return nil, false
}
