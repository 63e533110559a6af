package weather

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

type entry struct {
	reading   irrigation.Conditions
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

// Get returns a fresh reading; expired entries are dropped.
func (s *MemoryStore) Get(_ context.Context, key string) (irrigation.Conditions, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return irrigation.Conditions{}, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return irrigation.Conditions{}, false, nil
	}
	return e.reading, true, nil
}

// Set stores the reading with an optional TTL.
func (s *MemoryStore) Set(_ context.Context, key string, reading irrigation.Conditions, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.entries[key] = entry{reading: reading, expiresAt: exp}
	return nil
}

var _ Store = (*MemoryStore)(nil)
