package store

import (
	"context"
	"sync"
	"time"

	"agridash/internal/dataset/models"
	id "agridash/pkg/domain"
	"agridash/pkg/platform/sentinel"
)

type memoryEntry struct {
	snapshot  *models.Snapshot
	expiresAt time.Time
}

// InMemorySnapshotStore is the default store: one process, snapshots held in
// a mutex-guarded map. Expiry is checked lazily on read; there is no sweeper
// because the session count of a demo dashboard never warrants one.
type InMemorySnapshotStore struct {
	mu      sync.RWMutex
	entries map[id.SessionID]memoryEntry

	// now is swappable in tests to step past TTLs without sleeping.
	now func() time.Time
}

// NewInMemory creates an empty in-memory snapshot store.
func NewInMemory() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		entries: make(map[id.SessionID]memoryEntry),
		now:     time.Now,
	}
}

func (s *InMemorySnapshotStore) Save(_ context.Context, sessionID id.SessionID, snap *models.Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{
		snapshot:  snap,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *InMemorySnapshotStore) Find(_ context.Context, sessionID id.SessionID) (*models.Snapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, sentinel.ErrExpired
	}
	return entry.snapshot, nil
}

func (s *InMemorySnapshotStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sessionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, sessionID)
	return nil
}
