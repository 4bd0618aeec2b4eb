package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// Service owns the three membership sets and the id→membership index that
// keeps them mutually exclusive. All remote writes go through the tracking
// client; creation failures abort the local mutation, deletion and patch
// failures are logged and the local change stands.
type Service struct {
	client domain.TrackingClient
	snap   domain.Snapshot
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	watchlist []domain.MembershipRecord
	watched   []domain.MembershipRecord
	ratedOnly []domain.MembershipRecord
	index     map[int]domain.Membership
}

// NewService creates a new tracker service. snap may be nil to disable the
// local snapshot fallback.
func NewService(client domain.TrackingClient, snap domain.Snapshot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		snap:   snap,
		logger: logger,
		now:    time.Now,
		index:  make(map[int]domain.Membership),
	}
}

// Load fetches the three membership lists and rebuilds local state.
// On transport failure it falls back to the last snapshot, leaving
// whatever was loaded so far intact.
func (s *Service) Load(ctx context.Context) error {
	watchlist, err := s.client.ListWatchlist(ctx)
	if err != nil {
		s.logger.Error("failed to fetch watchlist", "error", err)
		return s.loadSnapshot(err)
	}
	watched, err := s.client.ListWatched(ctx)
	if err != nil {
		s.logger.Error("failed to fetch watched list", "error", err)
		return s.loadSnapshot(err)
	}
	rated, err := s.client.ListRated(ctx)
	if err != nil {
		s.logger.Error("failed to fetch rated list", "error", err)
		return s.loadSnapshot(err)
	}

	s.mu.Lock()
	s.rebuildLocked(watchlist, watched, rated)
	s.mu.Unlock()

	s.logger.Debug("loaded membership lists",
		"watchlist", len(watchlist), "watched", len(watched), "rated", len(rated))
	s.persistSnapshot()
	return nil
}

// loadSnapshot restores the last persisted state after a failed remote load
func (s *Service) loadSnapshot(cause error) error {
	if s.snap == nil {
		return cause
	}

	watchlist, okW := s.snap.GetWatchlist()
	watched, okD := s.snap.GetWatched()
	rated, okR := s.snap.GetRated()
	if !okW && !okD && !okR {
		return cause
	}

	s.mu.Lock()
	s.rebuildLocked(watchlist, watched, rated)
	s.mu.Unlock()

	s.logger.Info("using membership snapshot",
		"watchlist", len(watchlist), "watched", len(watched), "rated", len(rated))
	return nil
}

// rebuildLocked replaces all local state. Watched wins over rated-only wins
// over watchlist when the server hands back a conflicting id.
func (s *Service) rebuildLocked(watchlist, watched, rated []domain.MembershipRecord) {
	s.watchlist = s.watchlist[:0]
	s.watched = s.watched[:0]
	s.ratedOnly = s.ratedOnly[:0]
	s.index = make(map[int]domain.Membership)

	for _, r := range watched {
		if _, taken := s.index[r.ID]; taken {
			continue
		}
		s.watched = append(s.watched, r)
		s.index[r.ID] = domain.MembershipWatched
	}
	for _, r := range rated {
		if _, taken := s.index[r.ID]; taken {
			s.logger.Warn("dropping conflicting rated record", "id", r.ID)
			continue
		}
		s.ratedOnly = append(s.ratedOnly, r)
		s.index[r.ID] = domain.MembershipRatedOnly
	}
	for _, r := range watchlist {
		if _, taken := s.index[r.ID]; taken {
			s.logger.Warn("dropping conflicting watchlist record", "id", r.ID)
			continue
		}
		s.watchlist = append(s.watchlist, r)
		s.index[r.ID] = domain.MembershipWatchlisted
	}
}

// Membership returns the set the id currently occupies
func (s *Service) Membership(id int) domain.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[id]
}

// RatingFor returns the current rating of a watched or rated-only id
func (s *Service) RatingFor(id int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.index[id] {
	case domain.MembershipWatched:
		return findRating(s.watched, id)
	case domain.MembershipRatedOnly:
		return findRating(s.ratedOnly, id)
	}
	return 0, false
}

func findRating(records []domain.MembershipRecord, id int) (int, bool) {
	for _, r := range records {
		if r.ID == id {
			return r.UserRating, true
		}
	}
	return 0, false
}

// Watchlist returns a copy of the watchlist set in insertion order
func (s *Service) Watchlist() []domain.MembershipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MembershipRecord(nil), s.watchlist...)
}

// Watched returns a copy of the watched set, most recent first
func (s *Service) Watched() []domain.MembershipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MembershipRecord(nil), s.watched...)
}

// RatedOnly returns a copy of the rated-only set in insertion order
func (s *Service) RatedOnly() []domain.MembershipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MembershipRecord(nil), s.ratedOnly...)
}

// AddToWatchlist adds an untracked item to the watchlist. The remote create
// is load-bearing: it assigns the record id, so a failure aborts the local
// insert. Adding an id that already holds a membership is a no-op.
func (s *Service) AddToWatchlist(ctx context.Context, item domain.CatalogItem) error {
	s.mu.RLock()
	taken := s.index[item.ID] != domain.MembershipNone
	s.mu.RUnlock()
	if taken {
		s.logger.Debug("ignoring duplicate watchlist add", "id", item.ID)
		return domain.ErrDuplicateItem
	}

	remoteID, err := s.client.CreateWatchlist(ctx, item)
	if err != nil {
		s.logger.Error("watchlist create failed", "error", err, "id", item.ID)
		return err
	}

	record := domain.MembershipRecord{
		CatalogItem: item,
		RemoteID:    remoteID,
		AddedAt:     s.now(),
	}

	s.mu.Lock()
	if s.index[item.ID] != domain.MembershipNone {
		// Lost a race against a concurrent workflow; the created remote
		// record is orphaned, clean it up best-effort.
		s.mu.Unlock()
		if err := s.client.DeleteWatchlist(ctx, remoteID); err != nil {
			s.logger.Error("orphaned watchlist record cleanup failed", "error", err, "remoteID", remoteID)
		}
		return domain.ErrDuplicateItem
	}
	s.watchlist = append(s.watchlist, record)
	s.index[item.ID] = domain.MembershipWatchlisted
	s.mu.Unlock()

	s.logger.Debug("added to watchlist", "id", item.ID, "title", item.Title)
	s.persistSnapshot()
	return nil
}

// AddManual adds a hand-entered title to the watchlist. Manual entries have
// no catalog id; a synthetic negative id keeps them out of the catalog range.
func (s *Service) AddManual(ctx context.Context, title string, year int, mediaType domain.MediaType, platform string) error {
	item := domain.CatalogItem{
		ID:    -int(s.now().UnixMilli()),
		Title: title,
		Year:  year,
		Type:  mediaType,
	}
	if platform != "" {
		item.Platforms = []string{platform}
	}
	return s.AddToWatchlist(ctx, item)
}

// RemoveFromWatchlist removes an id from the watchlist. The remote delete is
// fire-and-forget: failure is logged and the local removal stands.
func (s *Service) RemoveFromWatchlist(ctx context.Context, id int) error {
	s.remove(ctx, id, domain.MembershipWatchlisted)
	return nil
}

// RemoveFromWatched removes an id from the watched set, same semantics
func (s *Service) RemoveFromWatched(ctx context.Context, id int) error {
	s.remove(ctx, id, domain.MembershipWatched)
	return nil
}

// RemoveFromRated removes an id from the rated-only set, same semantics
func (s *Service) RemoveFromRated(ctx context.Context, id int) error {
	s.remove(ctx, id, domain.MembershipRatedOnly)
	return nil
}

func (s *Service) remove(ctx context.Context, id int, from domain.Membership) {
	s.mu.Lock()
	if s.index[id] != from {
		// Already gone, possibly removed by a racing workflow
		s.mu.Unlock()
		return
	}

	var record domain.MembershipRecord
	switch from {
	case domain.MembershipWatchlisted:
		s.watchlist, record = cutRecord(s.watchlist, id)
	case domain.MembershipWatched:
		s.watched, record = cutRecord(s.watched, id)
	case domain.MembershipRatedOnly:
		s.ratedOnly, record = cutRecord(s.ratedOnly, id)
	}
	delete(s.index, id)
	s.mu.Unlock()

	if record.RemoteID != "" {
		var err error
		if from == domain.MembershipWatchlisted {
			err = s.client.DeleteWatchlist(ctx, record.RemoteID)
		} else {
			err = s.client.DeleteWatched(ctx, record.RemoteID)
		}
		if err != nil {
			s.logger.Error("remote delete failed", "error", err, "remoteID", record.RemoteID, "set", from.String())
		}
	}

	s.logger.Debug("removed record", "id", id, "set", from.String())
	s.persistSnapshot()
}

func cutRecord(records []domain.MembershipRecord, id int) ([]domain.MembershipRecord, domain.MembershipRecord) {
	for i, r := range records {
		if r.ID == id {
			return append(records[:i], records[i+1:]...), r
		}
	}
	return records, domain.MembershipRecord{}
}

// Promote creates a watched or rated-only record for an item and retires any
// watchlist membership it held. The create must succeed before anything
// changes locally; the watchlist delete is fire-and-forget. Losing a race
// against another promotion of the same id is a no-op.
func (s *Service) Promote(ctx context.Context, item domain.CatalogItem, rating int, dest domain.Membership) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	if dest != domain.MembershipWatched && dest != domain.MembershipRatedOnly {
		return fmt.Errorf("invalid promotion destination: %s", dest)
	}

	asWatched := dest == domain.MembershipWatched
	remoteID, watchedAt, err := s.client.CreateWatched(ctx, item, rating, asWatched)
	if err != nil {
		s.logger.Error("watched create failed", "error", err, "id", item.ID)
		return err
	}
	if watchedAt.IsZero() {
		watchedAt = s.now()
	}

	s.mu.Lock()
	if cur := s.index[item.ID]; cur == domain.MembershipWatched || cur == domain.MembershipRatedOnly {
		// Lost a race against another promotion; the created remote record
		// is orphaned, clean it up best-effort.
		s.mu.Unlock()
		if err := s.client.DeleteWatched(ctx, remoteID); err != nil {
			s.logger.Error("orphaned watched record cleanup failed", "error", err, "remoteID", remoteID)
		}
		return domain.ErrDuplicateItem
	}
	var former domain.MembershipRecord
	if s.index[item.ID] == domain.MembershipWatchlisted {
		s.watchlist, former = cutRecord(s.watchlist, item.ID)
	}
	record := domain.MembershipRecord{
		CatalogItem: item,
		RemoteID:    remoteID,
		WatchedAt:   watchedAt,
		UserRating:  rating,
	}
	if asWatched {
		s.watched = append([]domain.MembershipRecord{record}, s.watched...)
	} else {
		s.ratedOnly = append(s.ratedOnly, record)
	}
	s.index[item.ID] = dest
	s.mu.Unlock()

	if former.RemoteID != "" {
		if err := s.client.DeleteWatchlist(ctx, former.RemoteID); err != nil {
			s.logger.Error("watchlist cleanup after promote failed", "error", err, "remoteID", former.RemoteID)
		}
	}

	s.logger.Debug("promoted item", "id", item.ID, "dest", dest.String(), "rating", rating)
	s.persistSnapshot()
	return nil
}

// UpdateRating changes the rating of an existing watched/rated record. The
// record never changes sets. The remote patch is fire-and-forget: failure is
// logged and the local update stands.
func (s *Service) UpdateRating(ctx context.Context, id int, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}

	s.mu.Lock()
	var records []domain.MembershipRecord
	switch s.index[id] {
	case domain.MembershipWatched:
		records = s.watched
	case domain.MembershipRatedOnly:
		records = s.ratedOnly
	default:
		s.mu.Unlock()
		return domain.ErrRecordNotFound
	}

	var remoteID string
	for i := range records {
		if records[i].ID == id {
			records[i].UserRating = rating
			remoteID = records[i].RemoteID
			break
		}
	}
	s.mu.Unlock()

	if remoteID != "" {
		if err := s.client.PatchRating(ctx, remoteID, rating); err != nil {
			s.logger.Error("rating patch failed", "error", err, "remoteID", remoteID)
		}
	}

	s.logger.Debug("updated rating", "id", id, "rating", rating)
	s.persistSnapshot()
	return nil
}

// persistSnapshot mirrors the current sets to the snapshot store, best-effort
func (s *Service) persistSnapshot() {
	if s.snap == nil {
		return
	}

	s.mu.RLock()
	watchlist := append([]domain.MembershipRecord(nil), s.watchlist...)
	watched := append([]domain.MembershipRecord(nil), s.watched...)
	rated := append([]domain.MembershipRecord(nil), s.ratedOnly...)
	s.mu.RUnlock()

	if err := s.snap.SaveWatchlist(watchlist); err != nil {
		s.logger.Error("failed to save watchlist snapshot", "error", err)
	}
	if err := s.snap.SaveWatched(watched); err != nil {
		s.logger.Error("failed to save watched snapshot", "error", err)
	}
	if err := s.snap.SaveRated(rated); err != nil {
		s.logger.Error("failed to save rated snapshot", "error", err)
	}
}
