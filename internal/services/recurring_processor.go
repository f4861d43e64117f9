package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"budgeto/internal/core"
	applog "budgeto/internal/log"
	"budgeto/internal/storage"
)

// RecurringSuffix marks transactions materialized by the engine, so they are
// distinguishable from hand-entered ones in every list view.
const RecurringSuffix = " (Récurrent)"

// Processor converts due recurring definitions into posted transactions,
// idempotently with respect to repeated invocation within the same period.
type Processor struct {
	store *storage.Store
}

func NewProcessor(store *storage.Store) *Processor {
	return &Processor{store: store}
}

// ProcessDue sweeps every definition with autoAdd set, posts the due ones as
// of asOf, and marks each processed definition's lastProcessed. The posted
// transaction and the updated definition commit together through the store.
// Per-definition failures are logged and skipped; the sweep never aborts
// halfway. Returns the number of transactions posted.
func (p *Processor) ProcessDue(ctx context.Context, asOf time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	defs := p.store.RecurringTransactions(ctx)

	slog.InfoContext(ctx, "Processing recurring definitions",
		applog.FieldCount, len(defs),
		applog.FieldDate, asOf.Format("2006-01-02"))

	posted := 0
	for _, def := range defs {
		if !def.AutoAdd {
			continue
		}

		checker, err := GetDuenessChecker(def.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "No dueness checker for definition",
				applog.FieldRecurringID, def.ID,
				applog.FieldFrequency, string(def.Frequency),
				applog.FieldError, err)
			continue
		}
		if !checker.Due(def, asOf) {
			continue
		}

		tx := core.Transaction{
			ID:          uuid.NewString(),
			Amount:      def.Amount,
			Type:        def.Type,
			Category:    def.Category,
			Date:        asOf,
			Description: def.Name + RecurringSuffix,
		}

		processedAt := asOf
		def.LastProcessed = &processedAt

		if err := p.store.PostRecurring(ctx, tx, def); err != nil {
			slog.ErrorContext(ctx, "Failed to post recurring transaction",
				applog.FieldRecurringID, def.ID,
				applog.FieldName, def.Name,
				applog.FieldError, err)
			continue
		}

		posted++
		slog.InfoContext(ctx, "Posted transaction from recurring definition",
			applog.FieldRecurringID, def.ID,
			applog.FieldTransactionID, tx.ID,
			applog.FieldName, def.Name,
			applog.FieldAmountCents, def.Amount.Cents)
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		applog.FieldCount, posted)

	return posted, nil
}
