// Package memory is an in-process Persistence adapter, used by tests and
// when no database path is configured.
package memory

import (
	"context"
	"slices"
	"sync"
)

// Store keeps buckets in a map.
type Store struct {
	mu      sync.RWMutex
	buckets map[string][]byte
	saves   int
}

// New creates an empty store.
func New() *Store {
	return &Store{buckets: make(map[string][]byte)}
}

// Save implements ports.Persistence.
func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[collection] = slices.Clone(data)
	s.saves++
	return nil
}

// Load implements ports.Persistence.
func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.buckets[collection]
	if !ok {
		return nil, nil
	}
	return slices.Clone(data), nil
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
