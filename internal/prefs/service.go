package prefs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// Service holds the user preferences and the deferred-save platform toggle
// state. Platform toggles mutate only the local copy until Save; the genre
// ranking is opaque and only ever replaced wholesale by a Refresh.
type Service struct {
	client domain.PreferencesClient
	snap   domain.Snapshot
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.UserPreferences
	changed bool
}

// NewService creates a preferences service. snap may be nil to disable the
// local snapshot fallback.
func NewService(client domain.PreferencesClient, snap domain.Snapshot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, snap: snap, logger: logger}
}

// Load fetches preferences, falling back to the last snapshot when offline
func (s *Service) Load(ctx context.Context) error {
	prefs, err := s.client.GetPreferences(ctx)
	if err != nil {
		s.logger.Error("failed to fetch preferences", "error", err)
		if s.snap != nil {
			if cached, ok := s.snap.GetPreferences(); ok {
				s.mu.Lock()
				s.current = cached
				s.changed = false
				s.mu.Unlock()
				s.logger.Info("using preferences snapshot")
				return nil
			}
		}
		return err
	}

	s.mu.Lock()
	s.current = prefs
	s.changed = false
	s.mu.Unlock()

	s.logger.Debug("loaded preferences", "platforms", len(prefs.Platforms), "genres", len(prefs.Genres))
	s.persistSnapshot(prefs)
	return nil
}

// Current returns a copy of the preferences as locally known
func (s *Service) Current() domain.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.UserPreferences{
		Platforms: append([]string(nil), s.current.Platforms...),
		Genres:    append([]string(nil), s.current.Genres...),
	}
}

// Changed reports whether platform toggles are pending an explicit save
func (s *Service) Changed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// TogglePlatform flips a platform subscription locally and marks the
// preferences dirty. Nothing is persisted until Save.
func (s *Service) TogglePlatform(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.current.Platforms {
		if p == name {
			s.current.Platforms = append(s.current.Platforms[:i], s.current.Platforms[i+1:]...)
			s.changed = true
			return
		}
	}
	s.current.Platforms = append(s.current.Platforms, name)
	s.changed = true
}

// Save pushes the local preferences to the service. The dirty flag clears
// only when the remote write succeeds.
func (s *Service) Save(ctx context.Context) error {
	s.mu.RLock()
	prefs := s.current
	s.mu.RUnlock()

	if err := s.client.PutPreferences(ctx, prefs); err != nil {
		s.logger.Error("failed to save preferences", "error", err)
		return err
	}

	s.mu.Lock()
	s.changed = false
	s.mu.Unlock()

	s.logger.Debug("saved preferences", "platforms", len(prefs.Platforms))
	s.persistSnapshot(prefs)
	return nil
}

// Refresh re-fetches preferences after the server recomputes genre affinity.
// Pending platform toggles survive: the refreshed genre list is taken
// wholesale, the platform set only when nothing is dirty locally.
func (s *Service) Refresh(ctx context.Context) error {
	prefs, err := s.client.GetPreferences(ctx)
	if err != nil {
		s.logger.Error("failed to refresh preferences", "error", err)
		return err
	}

	s.mu.Lock()
	s.current.Genres = prefs.Genres
	if !s.changed {
		s.current.Platforms = prefs.Platforms
	}
	snapshot := s.current
	s.mu.Unlock()

	s.logger.Debug("refreshed preferences", "genres", len(prefs.Genres))
	s.persistSnapshot(snapshot)
	return nil
}

func (s *Service) persistSnapshot(prefs domain.UserPreferences) {
	if s.snap == nil {
		return
	}
	if err := s.snap.SavePreferences(prefs); err != nil {
		s.logger.Error("failed to save preferences snapshot", "error", err)
	}
}
