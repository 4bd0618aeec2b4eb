package rating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
	"github.com/mvdveen/streamfinder/internal/log"
	"github.com/mvdveen/streamfinder/internal/tracker"
)

type stubClient struct {
	mu         sync.Mutex
	failCreate bool
	creates    int
	deletes    int
	patches    int
	lastRating int

	// gateCreateWatched, when set, runs before CreateWatched proceeds so a
	// test can hold a submission in flight
	gateCreateWatched func()
}

func (s *stubClient) ListWatchlist(context.Context) ([]domain.MembershipRecord, error) {
	return nil, nil
}
func (s *stubClient) ListWatched(context.Context) ([]domain.MembershipRecord, error) {
	return nil, nil
}
func (s *stubClient) ListRated(context.Context) ([]domain.MembershipRecord, error) {
	return nil, nil
}

func (s *stubClient) CreateWatchlist(context.Context, domain.CatalogItem) (string, error) {
	if s.failCreate {
		return "", domain.ErrServerOffline
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return "rec-wl", nil
}

func (s *stubClient) CreateWatched(_ context.Context, _ domain.CatalogItem, rating int, _ bool) (string, time.Time, error) {
	if s.failCreate {
		return "", time.Time{}, domain.ErrServerOffline
	}
	if s.gateCreateWatched != nil {
		s.gateCreateWatched()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.lastRating = rating
	return "rec-w", time.Now(), nil
}

func (s *stubClient) DeleteWatchlist(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	return nil
}
func (s *stubClient) DeleteWatched(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	return nil
}
func (s *stubClient) PatchRating(_ context.Context, _ string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches++
	s.lastRating = rating
	return nil
}

func newWorkflow(t *testing.T) (*Workflow, *tracker.Service, *stubClient) {
	t.Helper()
	client := &stubClient{}
	svc := tracker.NewService(client, nil, log.NullLogger())
	return NewWorkflow(svc, log.NullLogger()), svc, client
}

func TestOpenPrefillsExistingRating(t *testing.T) {
	w, svc, _ := newWorkflow(t)
	ctx := context.Background()

	dark := domain.CatalogItem{ID: 42, Title: "Dark", Year: 2017}
	if err := svc.Promote(ctx, dark, 3, domain.MembershipWatched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w.Open(dark)
	if w.State() != StateOpen {
		t.Fatalf("expected open state")
	}
	if w.Rating() != 3 {
		t.Fatalf("expected prefill 3, got %d", w.Rating())
	}
}

func TestOpenWithoutRecordStartsUnrated(t *testing.T) {
	w, _, _ := newWorkflow(t)
	w.Open(domain.CatalogItem{ID: 7, Title: "Lupin"})
	if w.Rating() != 0 {
		t.Fatalf("expected no prefill, got %d", w.Rating())
	}
}

func TestSetRatingIgnoresOutOfRange(t *testing.T) {
	w, _, _ := newWorkflow(t)
	w.Open(domain.CatalogItem{ID: 7})

	w.SetRating(4)
	w.SetRating(0)
	w.SetRating(6)
	if w.Rating() != 4 {
		t.Fatalf("expected rating to stay 4, got %d", w.Rating())
	}
}

func TestSubmitWithoutRatingKeepsModalOpen(t *testing.T) {
	w, _, client := newWorkflow(t)
	w.Open(domain.CatalogItem{ID: 7, Title: "Lupin"})

	err := w.Submit(context.Background(), true)
	if !errors.Is(err, domain.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if w.State() != StateOpen {
		t.Fatalf("expected modal to stay open")
	}
	if client.creates != 0 {
		t.Fatalf("rejected submit must not reach the remote")
	}
}

func TestSubmitAsWatchedPromotesAndCloses(t *testing.T) {
	w, svc, client := newWorkflow(t)
	ctx := context.Background()

	dark := domain.CatalogItem{ID: 42, Title: "Dark", Year: 2017}
	if err := svc.AddToWatchlist(ctx, dark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w.Open(dark)
	w.SetRating(4)
	if err := w.Submit(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.State() != StateClosed {
		t.Fatalf("expected modal closed after submit")
	}
	if got := svc.Membership(42); got != domain.MembershipWatched {
		t.Fatalf("expected watched, got %s", got)
	}
	if len(svc.Watchlist()) != 0 {
		t.Fatalf("expected watchlist entry removed")
	}
	if client.lastRating != 4 {
		t.Fatalf("expected rating 4 sent, got %d", client.lastRating)
	}
}

func TestSubmitWithoutWatchingCreatesRatedOnly(t *testing.T) {
	w, svc, _ := newWorkflow(t)
	ctx := context.Background()

	lupin := domain.CatalogItem{ID: 7, Title: "Lupin", Year: 2021}
	w.Open(lupin)
	w.SetRating(5)
	if err := w.Submit(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := svc.Membership(7); got != domain.MembershipRatedOnly {
		t.Fatalf("expected rated-only, got %s", got)
	}
	if r, ok := svc.RatingFor(7); !ok || r != 5 {
		t.Fatalf("expected rating 5, got %d (ok=%v)", r, ok)
	}
}

func TestSubmitUpdatesExistingRatingInPlace(t *testing.T) {
	w, svc, client := newWorkflow(t)
	ctx := context.Background()

	dark := domain.CatalogItem{ID: 42, Title: "Dark", Year: 2017}
	if err := svc.Promote(ctx, dark, 3, domain.MembershipWatched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w.Open(dark)
	w.SetRating(5)
	if err := w.Submit(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// asWatched is irrelevant for an existing record: the set never changes
	if got := svc.Membership(42); got != domain.MembershipWatched {
		t.Fatalf("expected watched membership preserved, got %s", got)
	}
	if client.patches != 1 || client.lastRating != 5 {
		t.Fatalf("expected one patch to 5, got patches=%d rating=%d", client.patches, client.lastRating)
	}
	if client.creates != 1 {
		t.Fatalf("expected no second create, got %d", client.creates)
	}
}

func TestSubmitFailureReopensModal(t *testing.T) {
	w, _, client := newWorkflow(t)
	client.failCreate = true

	w.Open(domain.CatalogItem{ID: 7, Title: "Lupin"})
	w.SetRating(4)
	err := w.Submit(context.Background(), true)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected ErrServerOffline, got %v", err)
	}
	if w.State() != StateOpen {
		t.Fatalf("expected modal reopened after failure")
	}
	if w.Rating() != 4 {
		t.Fatalf("expected selection preserved, got %d", w.Rating())
	}
}

// A second submit while one is still in flight must be a no-op: only one
// promotion may reach the remote.
func TestRapidDoubleSubmitPromotesOnce(t *testing.T) {
	w, svc, client := newWorkflow(t)

	var arrived sync.WaitGroup
	arrived.Add(1)
	release := make(chan struct{})
	client.gateCreateWatched = func() {
		arrived.Done()
		<-release
	}

	w.Open(domain.CatalogItem{ID: 7, Title: "Lupin", Year: 2021})
	w.SetRating(4)

	done := make(chan error, 2)
	go func() { done <- w.Submit(context.Background(), true) }()
	arrived.Wait() // first submit is inside the remote create

	if w.State() != StateSubmitting {
		t.Fatalf("expected submitting state while in flight, got %v", w.State())
	}

	go func() { done <- w.Submit(context.Background(), true) }()
	if err := <-done; err != nil {
		t.Fatalf("repeated submit must be a no-op, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if client.creates != 1 {
		t.Fatalf("expected one remote create, got %d", client.creates)
	}
	if w.State() != StateClosed {
		t.Fatalf("expected modal closed, got %v", w.State())
	}
	if got := svc.Membership(7); got != domain.MembershipWatched {
		t.Fatalf("expected watched membership, got %s", got)
	}
}

func TestRefreshAfterIsPositive(t *testing.T) {
	w, _, _ := newWorkflow(t)
	if w.RefreshAfter() <= 0 {
		t.Fatalf("expected positive settle delay, got %v", w.RefreshAfter())
	}
}
