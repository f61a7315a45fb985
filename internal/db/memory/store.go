// Package memory implements db.Store in process memory for deployments
// without an external cache. The store is bounded: when the entry cap is
// reached the oldest entry is evicted, so the cache cannot grow without
// limit under long-running service use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/campuslab/studentmatch/internal/db"
)

// DefaultMaxEntries caps the store when no explicit limit is configured.
const DefaultMaxEntries = 1024

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type item struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a bounded, concurrency-safe in-memory key-value store.
type Store struct {
	mu         sync.Mutex
	items      map[string]item
	order      []string // insertion order for eviction
	maxEntries int
	now        func() time.Time
}

// NewStore creates an in-memory store holding at most maxEntries keys.
// Non-positive maxEntries falls back to DefaultMaxEntries.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		items:      make(map[string]item, maxEntries),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value by key. Missing or expired keys return
// db.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !it.expiresAt.IsZero() && s.now().After(it.expiresAt) {
		s.remove(key)
		return nil, db.ErrKeyNotFound
	}
	return it.value, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value; ttl <= 0 means no expiry. Inserting into a full
// store evicts the oldest entry first.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		for len(s.items) >= s.maxEntries && len(s.order) > 0 {
			s.remove(s.order[0])
		}
		s.order = append(s.order, key)
	}

	it := item{value: value}
	if ttl > 0 {
		it.expiresAt = s.now().Add(ttl)
	}
	s.items[key] = it
	return nil
}

// remove deletes a key from both the map and the order slice. Caller holds mu.
func (s *Store) remove(key string) {
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady always succeeds immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Len reports the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
