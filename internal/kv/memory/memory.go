// Package memory provides an in-memory kv.Store. It is the default backend
// for ephemeral runs and the test double for every store and service test.
package memory

import (
	"context"
	"sync"

	"budgeto/internal/kv"
)

// Store is a mutex-guarded map satisfying kv.BatchStore. Data does not
// survive a restart.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool

	// FailSet, when set, is returned by Set and SetAll. Lets tests inject
	// write failures.
	FailSet error
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", kv.ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return "", kv.ErrKeyNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	if s.FailSet != nil {
		return s.FailSet
	}
	s.data[key] = value
	return nil
}

// SetAll applies every pair inside one critical section, so readers never
// observe a partial batch.
func (s *Store) SetAll(_ context.Context, pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	if s.FailSet != nil {
		return s.FailSet
	}
	for k, v := range pairs {
		s.data[k] = v
	}
	return nil
}

func (s *Store) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
