// Package backend selects and constructs the persistence adapter from
// configuration.
package backend

import (
	"fmt"

	"budgeto/internal/config"
	"budgeto/internal/kv"
	"budgeto/internal/kv/memory"
	"budgeto/internal/kv/sqlite"
)

// Type identifies a persistence adapter implementation.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{Memory, SQLite}
}

// Open constructs the kv adapter named by the config. The returned store
// must be closed by the caller.
func Open(cfg *config.Config) (kv.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	t := Type(cfg.StorageBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.StorageBackend)
	}

	switch t {
	case SQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}
