// Package memory provides a process-local collection store used by tests and
// ephemeral runs.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"diocese/pkg/domain"
)

var _ domain.CollectionStore = (*Store)(nil)

// Store keeps collection payloads in a map guarded by a read/write mutex.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns a copy of the payload stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(payload), true, nil
}

// Set replaces the payload stored under key.
func (s *Store) Set(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(payload)
	return nil
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok, nil
}

// Keys lists the stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
