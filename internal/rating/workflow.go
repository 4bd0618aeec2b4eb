package rating

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
	"github.com/mvdveen/streamfinder/internal/tracker"
)

// State is the rating modal's lifecycle state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

// Settle delay before refreshing preferences after a new rating. The service
// recomputes genre affinity out-of-band; reading back immediately would
// observe the old ranking.
const prefsSettleDelay = 2 * time.Second

// Workflow drives the add/rate modal and decides which tracker transition a
// submitted rating produces. Submissions run on command goroutines while the
// UI reads modal state, so all state lives behind a mutex.
type Workflow struct {
	tracker *tracker.Service
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	target  domain.CatalogItem
	rating  int
	prefill int
}

// NewWorkflow creates a rating workflow over the given tracker
func NewWorkflow(t *tracker.Service, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{tracker: t, logger: logger}
}

// State returns the current modal state
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Target returns the item the open modal is rating
func (w *Workflow) Target() domain.CatalogItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// Rating returns the currently selected rating
func (w *Workflow) Rating() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rating
}

// Open opens the modal for an item, prefilling the rating from any existing
// watched or rated-only record.
func (w *Workflow) Open(item domain.CatalogItem) {
	prefill := 0
	if r, ok := w.tracker.RatingFor(item.ID); ok {
		prefill = r
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.target = item
	w.prefill = prefill
	w.rating = prefill
	w.state = StateOpen
}

// SetRating selects a rating in the open modal. Out-of-range values are
// ignored so stray key events can't produce an illegal selection.
func (w *Workflow) SetRating(rating int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateOpen || rating < 1 || rating > 5 {
		return
	}
	w.rating = rating
}

// Close abandons the modal without submitting
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeLocked()
}

func (w *Workflow) closeLocked() {
	w.state = StateClosed
	w.target = domain.CatalogItem{}
	w.rating = 0
	w.prefill = 0
}

// Submit applies the selected rating. An existing watched/rated record gets
// a rating update in place; otherwise the item is promoted into watched
// (asWatched) or rated-only. A rating outside 1..5 rejects the submission
// and keeps the modal open. The transition into StateSubmitting is atomic,
// so a repeated submit while one is in flight is a no-op.
func (w *Workflow) Submit(ctx context.Context, asWatched bool) error {
	w.mu.Lock()
	if w.state != StateOpen {
		w.mu.Unlock()
		return nil
	}
	if w.rating < 1 || w.rating > 5 {
		w.mu.Unlock()
		return domain.ErrInvalidRating
	}
	w.state = StateSubmitting
	target := w.target
	rating := w.rating
	w.mu.Unlock()

	var err error
	switch w.tracker.Membership(target.ID) {
	case domain.MembershipWatched, domain.MembershipRatedOnly:
		err = w.tracker.UpdateRating(ctx, target.ID, rating)
	default:
		dest := domain.MembershipRatedOnly
		if asWatched {
			dest = domain.MembershipWatched
		}
		err = w.tracker.Promote(ctx, target, rating, dest)
	}

	// A record that vanished or got promoted by a racing workflow closes
	// the modal quietly, matching the tracker's no-op semantics.
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) && !errors.Is(err, domain.ErrDuplicateItem) {
		w.logger.Error("rating submission failed", "error", err, "id", target.ID)
		w.mu.Lock()
		w.state = StateOpen
		w.mu.Unlock()
		return err
	}

	w.logger.Debug("rating submitted", "id", target.ID, "rating", rating, "asWatched", asWatched)
	w.mu.Lock()
	w.closeLocked()
	w.mu.Unlock()
	return nil
}

// RefreshAfter returns how long to wait before re-fetching preferences once
// a rating lands, giving the remote genre recompute time to settle.
func (w *Workflow) RefreshAfter() time.Duration {
	return prefsSettleDelay
}
