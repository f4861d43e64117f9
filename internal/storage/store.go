// Package storage implements the collection stores: one-off transactions,
// recurring definitions, and the budget record, each serialized as a whole
// under a stable key of the injected kv adapter.
//
// Read policy: a missing or corrupt collection degrades to empty (logged),
// never blocks the caller. Write policy: failures propagate. Every mutation
// is a full read-collection/apply/write-collection cycle; that pattern is not
// safe under racing callers, so all mutations are serialized through one
// store-level mutex and callers must go through this object.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budgeto/internal/cache"
	"budgeto/internal/core"
	"budgeto/internal/kv"
	applog "budgeto/internal/log"
)

// Stable keys of the persisted state layout.
const (
	KeyTransactions = "transactions"
	KeyRecurring    = "recurring"
	KeyBudget       = "budget"
)

const (
	cacheSize = 8
	cacheTTL  = 30 * time.Second
)

// Store owns the three collections. Construct exactly one per adapter and
// hand it to the engines; there is no package-level instance.
type Store struct {
	mu sync.Mutex // serializes every read-modify-write mutation
	kv kv.Store

	txCache  *cache.LRU[[]core.Transaction]
	defCache *cache.LRU[[]core.RecurringTransaction]
}

func New(adapter kv.Store) *Store {
	return &Store{
		kv:       adapter,
		txCache:  cache.NewLRU[[]core.Transaction](cacheSize, cacheTTL),
		defCache: cache.NewLRU[[]core.RecurringTransaction](cacheSize, cacheTTL),
	}
}

// Caches exposes the snapshot caches for registration with a cache.Manager.
func (s *Store) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.txCache, s.defCache}
}

// ClearAll removes every persisted key. Used by the settings reset.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, KeyTransactions, KeyRecurring, KeyBudget); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	s.txCache.Delete(KeyTransactions)
	s.defCache.Delete(KeyRecurring)
	slog.InfoContext(ctx, "All data cleared", applog.FieldOperation, applog.OpClear)
	return nil
}

// loadList reads and decodes a JSON-array collection, degrading to empty on
// any failure besides a plain missing key (which is the normal first-run
// state and stays quiet).
func loadList[T any](ctx context.Context, s *Store, key string) []T {
	raw, err := s.kv.Get(ctx, key)
	if kv.IsNotFound(err) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Collection read failed, using empty collection",
			applog.FieldKey, key, applog.FieldError, err)
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.WarnContext(ctx, "Collection is corrupt, using empty collection",
			applog.FieldKey, key, applog.FieldError, err)
		return nil
	}
	return items
}

func encodeList[T any](key string, items []T) (string, error) {
	// Encode nil as [] so a cleared collection round-trips as a list.
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	return string(data), nil
}

func (s *Store) writeList(ctx context.Context, key, encoded string) error {
	if err := s.kv.Set(ctx, key, encoded); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// PostRecurring commits a materialized transaction together with its updated
// definition. When the adapter supports batch writes the pair lands in one
// atomic commit; otherwise the transaction is written first, so a failure in
// between can at worst re-post on retry, never lose a posted entry.
func (s *Store) PostRecurring(ctx context.Context, tx core.Transaction, def core.RecurringTransaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validate recurring definition: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs := append(loadList[core.Transaction](ctx, s, KeyTransactions), tx)
	defs := loadList[core.RecurringTransaction](ctx, s, KeyRecurring)
	for i := range defs {
		if defs[i].ID == def.ID {
			defs[i] = def
			break
		}
	}

	encodedTxs, err := encodeList(KeyTransactions, txs)
	if err != nil {
		return err
	}
	encodedDefs, err := encodeList(KeyRecurring, defs)
	if err != nil {
		return err
	}

	if batch, ok := s.kv.(kv.BatchStore); ok {
		err = batch.SetAll(ctx, map[string]string{
			KeyTransactions: encodedTxs,
			KeyRecurring:    encodedDefs,
		})
		if err != nil {
			err = fmt.Errorf("post recurring batch: %w", err)
		}
	} else {
		if err = s.writeList(ctx, KeyTransactions, encodedTxs); err == nil {
			err = s.writeList(ctx, KeyRecurring, encodedDefs)
		}
	}
	if err != nil {
		// Writes may have partially landed on non-batch adapters; drop the
		// snapshots so the next read sees whatever is actually persisted.
		s.txCache.Delete(KeyTransactions)
		s.defCache.Delete(KeyRecurring)
		return err
	}

	s.txCache.Set(KeyTransactions, txs)
	s.defCache.Set(KeyRecurring, defs)
	return nil
}
