package viewstate

import (
	"sync"
	"time"

	"portal/internal/domain/activity"
)

// Store holds the last successfully fetched activity collection.
// It is only written by the load path and always replaced wholesale, never merged.
type Store struct {
	mu         sync.RWMutex
	collection activity.Collection
	loaded     bool
	fetchedAt  time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Replace swaps in a freshly fetched collection.
// PRE: c is the complete payload of a successful fetch
// POST: Snapshot returns c and loaded is true
func (s *Store) Replace(c activity.Collection, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = c
	s.loaded = true
	s.fetchedAt = fetchedAt
}

// Snapshot returns the current collection and whether anything was ever loaded.
// Collections are immutable, so the result can be read without holding the lock.
func (s *Store) Snapshot() (activity.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection, s.loaded
}

// FetchedAt returns when the current collection was fetched; zero before the first load.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
