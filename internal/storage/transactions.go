package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgeto/internal/core"
	applog "budgeto/internal/log"
)

// TransactionPatch carries the fields an update may change. Nil fields are
// left untouched. The ID is immutable and has no patch field.
type TransactionPatch struct {
	Amount      *core.Money
	Type        *core.TxType
	Category    *string
	Date        *time.Time
	Description *string
}

// Transactions returns the full transaction collection. Read failures
// degrade to an empty collection per the read-soft-fail policy, so this
// never blocks a dashboard load.
func (s *Store) Transactions(ctx context.Context) []core.Transaction {
	if cached, ok := s.txCache.Get(KeyTransactions); ok {
		return cached
	}
	txs := loadList[core.Transaction](ctx, s, KeyTransactions)
	s.txCache.Set(KeyTransactions, txs)
	return txs
}

// SaveTransaction validates and appends one transaction.
func (s *Store) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs := append(loadList[core.Transaction](ctx, s, KeyTransactions), tx)
	if err := s.persistTransactions(ctx, txs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction saved",
		applog.FieldTransactionID, tx.ID,
		applog.FieldAmountCents, tx.Amount.Cents,
		applog.FieldTxType, string(tx.Type),
		applog.FieldCategory, tx.Category)
	return nil
}

// UpdateTransaction applies a partial patch to the transaction with the
// given id. An unknown id is a silent no-op, not an error.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := loadList[core.Transaction](ctx, s, KeyTransactions)
	idx := -1
	for i := range txs {
		if txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	updated := txs[idx]
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("validate transaction update: %w", err)
	}

	txs[idx] = updated
	return s.persistTransactions(ctx, txs)
}

// DeleteTransaction removes the transaction with the given id. An unknown id
// is a silent no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := loadList[core.Transaction](ctx, s, KeyTransactions)
	filtered := txs[:0:0]
	for _, tx := range txs {
		if tx.ID != id {
			filtered = append(filtered, tx)
		}
	}
	if len(filtered) == len(txs) {
		return nil
	}
	return s.persistTransactions(ctx, filtered)
}

func (s *Store) persistTransactions(ctx context.Context, txs []core.Transaction) error {
	encoded, err := encodeList(KeyTransactions, txs)
	if err != nil {
		return err
	}
	if err := s.writeList(ctx, KeyTransactions, encoded); err != nil {
		s.txCache.Delete(KeyTransactions)
		return err
	}
	s.txCache.Set(KeyTransactions, txs)
	return nil
}
