package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketWatchlist = []byte("watchlist")
	bucketWatched   = []byte("watched")
	bucketRated     = []byte("rated")
	bucketPrefs     = []byte("prefs")
)

// SnapshotStore implements domain.Snapshot using BoltDB. It mirrors the
// last-known membership lists and preferences so startup can fall back to
// a stale snapshot when the service is offline.
type SnapshotStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewSnapshotStore opens the snapshot database under cacheDir.
// An empty cacheDir selects memory-only mode (no persistence).
func NewSnapshotStore(cacheDir string) (*SnapshotStore, error) {
	if cacheDir == "" {
		return &SnapshotStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "streamfinder.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWatchlist, bucketWatched, bucketRated, bucketPrefs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *SnapshotStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SnapshotStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// === Membership lists ===

func (s *SnapshotStore) GetWatchlist() ([]domain.MembershipRecord, bool) {
	var records []domain.MembershipRecord
	ok := s.get(bucketWatchlist, "list", &records)
	return records, ok
}

func (s *SnapshotStore) SaveWatchlist(records []domain.MembershipRecord) error {
	return s.set(bucketWatchlist, "list", records)
}

func (s *SnapshotStore) GetWatched() ([]domain.MembershipRecord, bool) {
	var records []domain.MembershipRecord
	ok := s.get(bucketWatched, "list", &records)
	return records, ok
}

func (s *SnapshotStore) SaveWatched(records []domain.MembershipRecord) error {
	return s.set(bucketWatched, "list", records)
}

func (s *SnapshotStore) GetRated() ([]domain.MembershipRecord, bool) {
	var records []domain.MembershipRecord
	ok := s.get(bucketRated, "list", &records)
	return records, ok
}

func (s *SnapshotStore) SaveRated(records []domain.MembershipRecord) error {
	return s.set(bucketRated, "list", records)
}

// === Preferences ===

func (s *SnapshotStore) GetPreferences() (domain.UserPreferences, bool) {
	var prefs domain.UserPreferences
	ok := s.get(bucketPrefs, "current", &prefs)
	return prefs, ok
}

func (s *SnapshotStore) SavePreferences(prefs domain.UserPreferences) error {
	return s.set(bucketPrefs, "current", prefs)
}
