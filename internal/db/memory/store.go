// Package memory is an in-process document store for local runs and tests.
// It applies the same mapping semantics as the networked drivers: analyzed
// text fields, exact keyword fields, float ranges and copy_to targets.
package memory

import (
	"context"
	"time"

	"github.com/kailas-cloud/nersearch/internal/db"
)

// Compile-time checks: Store implements db.Store and db.KVStore.
var (
	_ db.Store   = (*Store)(nil)
	_ db.KVStore = (*Store)(nil)
)

// Store keeps indexes and KV entries in memory.
type Store struct {
	indexes *indexSet
	kv      *kvSet
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		indexes: newIndexSet(),
		kv:      newKVSet(time.Now),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }
