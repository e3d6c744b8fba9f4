package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/nersearch/internal/db"
)

type kvEntry struct {
	value     []byte
	expiresAt time.Time
}

type kvSet struct {
	mu      sync.Mutex
	entries map[string]kvEntry
	now     func() time.Time
}

func newKVSet(now func() time.Time) *kvSet {
	return &kvSet{entries: make(map[string]kvEntry), now: now}
}

// Get retrieves a value by key. Expired entries are evicted lazily.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.kv.mu.Lock()
	defer s.kv.mu.Unlock()

	e, ok := s.kv.entries[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.kv.now().Before(e.expiresAt) {
		delete(s.kv.entries, key)
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value that expires after ttl. Zero ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.kv.mu.Lock()
	defer s.kv.mu.Unlock()

	e := kvEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.kv.now().Add(ttl)
	}
	s.kv.entries[key] = e
	return nil
}
