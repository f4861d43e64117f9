package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/kv"
	applog "budgeto/internal/log"
)

// BudgetPatch carries the budget fields an update may change.
type BudgetPatch struct {
	InitialBalance *core.Money
}

// Budget returns the budget record, or a zero-value budget when none has
// been written yet or the stored record is unreadable.
func (s *Store) Budget(ctx context.Context) core.Budget {
	raw, err := s.kv.Get(ctx, KeyBudget)
	if err != nil {
		if !kv.IsNotFound(err) {
			slog.WarnContext(ctx, "Budget read failed, using zero budget",
				applog.FieldError, err)
		}
		return core.Budget{}
	}
	var budget core.Budget
	if err := json.Unmarshal([]byte(raw), &budget); err != nil {
		slog.WarnContext(ctx, "Budget record is corrupt, using zero budget",
			applog.FieldError, err)
		return core.Budget{}
	}
	return budget
}

// UpdateBudget merges the patch onto the current record (creating it on
// first use) and stamps LastUpdated.
func (s *Store) UpdateBudget(ctx context.Context, patch BudgetPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	budget := s.Budget(ctx)
	if patch.InitialBalance != nil {
		if err := patch.InitialBalance.Validate(); err != nil {
			return fmt.Errorf("validate budget: %w", err)
		}
		budget.InitialBalance = *patch.InitialBalance
	}
	budget.LastUpdated = time.Now().UTC()

	data, err := json.Marshal(budget)
	if err != nil {
		return fmt.Errorf("encode budget: %w", err)
	}
	if err := s.kv.Set(ctx, KeyBudget, string(data)); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated",
		applog.FieldAmountCents, budget.InitialBalance.Cents)
	return nil
}
