package prefs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mvdveen/streamfinder/internal/domain"
	"github.com/mvdveen/streamfinder/internal/log"
)

type stubClient struct {
	failGet bool
	failPut bool

	remote domain.UserPreferences
	puts   int
}

func (s *stubClient) GetPreferences(context.Context) (domain.UserPreferences, error) {
	if s.failGet {
		return domain.UserPreferences{}, domain.ErrServerOffline
	}
	return s.remote, nil
}

func (s *stubClient) PutPreferences(_ context.Context, prefs domain.UserPreferences) error {
	if s.failPut {
		return domain.ErrServerOffline
	}
	s.remote = prefs
	s.puts++
	return nil
}

func newLoaded(t *testing.T, remote domain.UserPreferences) (*Service, *stubClient) {
	t.Helper()
	client := &stubClient{remote: remote}
	svc := NewService(client, nil, log.NullLogger())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, client
}

func TestTogglePlatformAddsAndRemoves(t *testing.T) {
	svc, _ := newLoaded(t, domain.UserPreferences{Platforms: []string{"Netflix"}})

	svc.TogglePlatform("Videoland")
	if !svc.Changed() {
		t.Fatalf("expected dirty after toggle")
	}
	got := svc.Current().Platforms
	if !reflect.DeepEqual(got, []string{"Netflix", "Videoland"}) {
		t.Fatalf("unexpected platforms: %v", got)
	}

	svc.TogglePlatform("Netflix")
	got = svc.Current().Platforms
	if !reflect.DeepEqual(got, []string{"Videoland"}) {
		t.Fatalf("unexpected platforms after removal: %v", got)
	}
}

func TestToggleDoesNotPersistUntilSave(t *testing.T) {
	svc, client := newLoaded(t, domain.UserPreferences{Platforms: []string{"Netflix"}})

	svc.TogglePlatform("Videoland")
	if client.puts != 0 {
		t.Fatalf("toggle must not write remotely, got %d puts", client.puts)
	}

	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if client.puts != 1 {
		t.Fatalf("expected one remote write, got %d", client.puts)
	}
	if svc.Changed() {
		t.Fatalf("expected dirty flag cleared after save")
	}
	if !reflect.DeepEqual(client.remote.Platforms, []string{"Netflix", "Videoland"}) {
		t.Fatalf("unexpected stored platforms: %v", client.remote.Platforms)
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	svc, client := newLoaded(t, domain.UserPreferences{Platforms: []string{"Netflix"}})

	svc.TogglePlatform("Videoland")
	client.failPut = true

	if err := svc.Save(context.Background()); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected ErrServerOffline, got %v", err)
	}
	if !svc.Changed() {
		t.Fatalf("failed save must keep the dirty flag")
	}
	// Local value survives for a retry
	got := svc.Current().Platforms
	if !reflect.DeepEqual(got, []string{"Netflix", "Videoland"}) {
		t.Fatalf("unexpected platforms: %v", got)
	}
}

func TestRefreshTakesGenresWholesale(t *testing.T) {
	svc, client := newLoaded(t, domain.UserPreferences{
		Platforms: []string{"Netflix"},
		Genres:    []string{"Drama"},
	})

	client.remote.Genres = []string{"Thriller", "Drama"}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !reflect.DeepEqual(svc.Current().Genres, []string{"Thriller", "Drama"}) {
		t.Fatalf("unexpected genres: %v", svc.Current().Genres)
	}
}

func TestRefreshPreservesDirtyPlatforms(t *testing.T) {
	svc, client := newLoaded(t, domain.UserPreferences{Platforms: []string{"Netflix"}})

	svc.TogglePlatform("Videoland")
	client.remote.Platforms = []string{"Netflix", "HBO Max"}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got := svc.Current().Platforms
	if !reflect.DeepEqual(got, []string{"Netflix", "Videoland"}) {
		t.Fatalf("dirty platforms must survive refresh, got %v", got)
	}
	if !svc.Changed() {
		t.Fatalf("expected dirty flag preserved")
	}
}

type stubSnapshot struct {
	prefs    domain.UserPreferences
	hasState bool
}

func (s *stubSnapshot) GetWatchlist() ([]domain.MembershipRecord, bool)  { return nil, false }
func (s *stubSnapshot) SaveWatchlist([]domain.MembershipRecord) error    { return nil }
func (s *stubSnapshot) GetWatched() ([]domain.MembershipRecord, bool)    { return nil, false }
func (s *stubSnapshot) SaveWatched([]domain.MembershipRecord) error      { return nil }
func (s *stubSnapshot) GetRated() ([]domain.MembershipRecord, bool)      { return nil, false }
func (s *stubSnapshot) SaveRated([]domain.MembershipRecord) error        { return nil }
func (s *stubSnapshot) GetPreferences() (domain.UserPreferences, bool)   { return s.prefs, s.hasState }
func (s *stubSnapshot) SavePreferences(p domain.UserPreferences) error {
	s.prefs = p
	s.hasState = true
	return nil
}
func (s *stubSnapshot) Close() error { return nil }

func TestLoadFallsBackToSnapshot(t *testing.T) {
	client := &stubClient{failGet: true}
	snap := &stubSnapshot{
		prefs:    domain.UserPreferences{Platforms: []string{"Netflix"}},
		hasState: true,
	}
	svc := NewService(client, snap, log.NullLogger())

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("expected snapshot fallback, got %v", err)
	}
	if !reflect.DeepEqual(svc.Current().Platforms, []string{"Netflix"}) {
		t.Fatalf("unexpected platforms: %v", svc.Current().Platforms)
	}
}

func TestLoadWithoutSnapshotSurfacesError(t *testing.T) {
	client := &stubClient{failGet: true}
	svc := NewService(client, nil, log.NullLogger())

	if err := svc.Load(context.Background()); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected ErrServerOffline, got %v", err)
	}
}
