package store

import (
	"reflect"
	"testing"

	"github.com/mvdveen/streamfinder/internal/domain"
)

func sampleRecords() []domain.MembershipRecord {
	return []domain.MembershipRecord{
		{
			CatalogItem: domain.CatalogItem{
				ID: 42, Title: "Dark", Year: 2017,
				Type: domain.MediaTypeSeries, Platforms: []string{"Netflix"},
			},
			RemoteID:   "99",
			UserRating: 4,
		},
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := NewSnapshotStore("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetWatchlist(); ok {
		t.Fatalf("expected empty store")
	}

	records := sampleRecords()
	if err := s.SaveWatchlist(records); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := s.GetWatchlist()
	if !ok {
		t.Fatalf("expected stored watchlist")
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("got %+v, want %+v", got, records)
	}
}

func TestPersistentStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := sampleRecords()
	prefs := domain.UserPreferences{Platforms: []string{"Netflix"}, Genres: []string{"Thriller"}}
	if err := s.SaveWatched(records); err != nil {
		t.Fatalf("save watched: %v", err)
	}
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.GetWatched()
	if !ok {
		t.Fatalf("expected watched records after reopen")
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("got %+v, want %+v", got, records)
	}

	gotPrefs, ok := reopened.GetPreferences()
	if !ok {
		t.Fatalf("expected preferences after reopen")
	}
	if !reflect.DeepEqual(gotPrefs, prefs) {
		t.Fatalf("got %+v, want %+v", gotPrefs, prefs)
	}
}

func TestListsAreIndependent(t *testing.T) {
	s, err := NewSnapshotStore("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := s.SaveRated(sampleRecords()); err != nil {
		t.Fatalf("save rated: %v", err)
	}
	if _, ok := s.GetWatchlist(); ok {
		t.Fatalf("rated save must not populate the watchlist")
	}
	if _, ok := s.GetRated(); !ok {
		t.Fatalf("expected rated records")
	}
}
