package checkpoint

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps cursors in process memory. Cursors are lost on
// restart, so the first poll after startup re-reads the lookback window.
type MemoryStore struct {
	mu      sync.RWMutex
	cursors map[string]time.Time
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cursors: make(map[string]time.Time)}
}

// Load returns the saved cursor for the key, or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context, key string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return time.Time{}, errors.New("checkpoint: store closed")
	}
	cursor, ok := s.cursors[key]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return cursor, nil
}

// Save records the cursor for the key.
func (s *MemoryStore) Save(_ context.Context, key string, cursor time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("checkpoint: store closed")
	}
	s.cursors[key] = cursor
	return nil
}

// Close marks the store as closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
