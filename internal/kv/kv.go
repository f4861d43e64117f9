// Package kv defines the persistence adapter port: an asynchronous string
// key-value store. The stores in internal/storage speak only this interface,
// so any durable backend can be swapped in and tests run against the memory
// implementation.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Store is the narrow contract the storage layer consumes.
// Implementations must be durable across restarts (the memory adapter is the
// deliberate exception, for tests and ephemeral runs) and safe for concurrent
// use. There are no transactional guarantees across keys unless the
// implementation also provides BatchStore.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error

	// Close releases any resources held by the adapter.
	Close() error
}

// BatchStore is implemented by adapters that can commit several writes
// atomically. SetAll applies every pair or none of them.
type BatchStore interface {
	Store
	SetAll(ctx context.Context, pairs map[string]string) error
}

var (
	// ErrKeyNotFound is returned by Get when the key has never been written.
	ErrKeyNotFound = errors.New("kv: key not found")

	// ErrClosed is returned by operations on a closed adapter.
	ErrClosed = errors.New("kv: store closed")
)

// IsNotFound reports whether err indicates a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// WrapError adds adapter and operation context to an error.
func WrapError(err error, adapter, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("kv %s %s: %w", adapter, op, err)
}
