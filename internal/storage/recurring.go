package storage

import (
	"context"
	"fmt"
	"log/slog"

	"budgeto/internal/core"
	applog "budgeto/internal/log"
)

// RecurringTransactions returns the full definitions collection, empty on
// read failure.
func (s *Store) RecurringTransactions(ctx context.Context) []core.RecurringTransaction {
	if cached, ok := s.defCache.Get(KeyRecurring); ok {
		return cached
	}
	defs := loadList[core.RecurringTransaction](ctx, s, KeyRecurring)
	s.defCache.Set(KeyRecurring, defs)
	return defs
}

// SaveRecurring validates and appends one recurring definition.
func (s *Store) SaveRecurring(ctx context.Context, def core.RecurringTransaction) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validate recurring definition: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defs := append(loadList[core.RecurringTransaction](ctx, s, KeyRecurring), def)
	if err := s.persistRecurring(ctx, defs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Recurring definition saved",
		applog.FieldRecurringID, def.ID,
		applog.FieldName, def.Name,
		applog.FieldAmountCents, def.Amount.Cents,
		applog.FieldDayOfMonth, def.DayOfMonth,
		applog.FieldFrequency, string(def.Frequency))
	return nil
}

// UpdateRecurring replaces the definition with a matching id by the given
// full record. Unlike transaction updates this is not a patch: callers hand
// over the whole definition. An unknown id is a silent no-op.
func (s *Store) UpdateRecurring(ctx context.Context, def core.RecurringTransaction) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validate recurring definition: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defs := loadList[core.RecurringTransaction](ctx, s, KeyRecurring)
	found := false
	for i := range defs {
		if defs[i].ID == def.ID {
			defs[i] = def
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return s.persistRecurring(ctx, defs)
}

// DeleteRecurring removes the definition with the given id. An unknown id is
// a silent no-op.
func (s *Store) DeleteRecurring(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := loadList[core.RecurringTransaction](ctx, s, KeyRecurring)
	filtered := defs[:0:0]
	for _, def := range defs {
		if def.ID != id {
			filtered = append(filtered, def)
		}
	}
	if len(filtered) == len(defs) {
		return nil
	}
	return s.persistRecurring(ctx, filtered)
}

func (s *Store) persistRecurring(ctx context.Context, defs []core.RecurringTransaction) error {
	encoded, err := encodeList(KeyRecurring, defs)
	if err != nil {
		return err
	}
	if err := s.writeList(ctx, KeyRecurring, encoded); err != nil {
		s.defCache.Delete(KeyRecurring)
		return err
	}
	s.defCache.Set(KeyRecurring, defs)
	return nil
}
