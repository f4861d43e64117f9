package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/kv/memory"
)

func testTx(id string, cents int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      core.Money{Cents: cents},
		Type:        core.Expense,
		Category:    "Alimentation",
		Date:        time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		Description: "courses",
	}
}

func testDef(id string, day int) core.RecurringTransaction {
	return core.RecurringTransaction{
		ID:         id,
		Amount:     core.Money{Cents: 2000},
		Type:       core.Expense,
		Category:   "Logement",
		Name:       "Loyer",
		Frequency:  core.Monthly,
		DayOfMonth: day,
		AutoAdd:    true,
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	tx := testTx("t1", 1234)
	if err := store.SaveTransaction(ctx, tx); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Transactions(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].ID != tx.ID || got[0].Amount != tx.Amount || got[0].Type != tx.Type ||
		got[0].Category != tx.Category || !got[0].Date.Equal(tx.Date) ||
		got[0].Description != tx.Description {
		t.Fatalf("round trip mismatch: saved %+v, got %+v", tx, got[0])
	}
}

func TestTransactionsEmptyOnFirstRun(t *testing.T) {
	store := New(memory.New())
	if got := store.Transactions(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
}

func TestTransactionsSoftFailOnCorruptData(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	if err := adapter.Set(ctx, KeyTransactions, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := New(adapter)
	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatalf("corrupt collection must degrade to empty, got %d", len(got))
	}
}

func TestSaveTransactionValidates(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	bad := testTx("t1", -5)
	if err := store.SaveTransaction(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatal("rejected transaction must not be persisted")
	}
}

func TestSaveTransactionPropagatesWriteFailure(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	adapter.FailSet = errors.New("disk full")

	store := New(adapter)
	if err := store.SaveTransaction(ctx, testTx("t1", 100)); err == nil {
		t.Fatal("expected write failure to propagate")
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	if err := store.SaveTransaction(ctx, testTx("t1", 1000)); err != nil {
		t.Fatalf("save: %v", err)
	}

	newAmount := core.Money{Cents: 2500}
	newDesc := "restaurant"
	err := store.UpdateTransaction(ctx, "t1", TransactionPatch{
		Amount:      &newAmount,
		Description: &newDesc,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := store.Transactions(ctx)
	if got[0].Amount.Cents != 2500 || got[0].Description != "restaurant" {
		t.Fatalf("patch not applied: %+v", got[0])
	}
	if got[0].Category != "Alimentation" {
		t.Fatal("unpatched field must keep its value")
	}
}

func TestUpdateTransactionUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	if err := store.SaveTransaction(ctx, testTx("t1", 1000)); err != nil {
		t.Fatalf("save: %v", err)
	}

	amount := core.Money{Cents: 42}
	if err := store.UpdateTransaction(ctx, "missing", TransactionPatch{Amount: &amount}); err != nil {
		t.Fatalf("unknown id must be a silent no-op, got %v", err)
	}
	if got := store.Transactions(ctx); got[0].Amount.Cents != 1000 {
		t.Fatal("collection must be unchanged")
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	for _, id := range []string{"t1", "t2"} {
		if err := store.SaveTransaction(ctx, testTx(id, 100)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	if err := store.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := store.Transactions(ctx)
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("expected only t2 to remain, got %+v", got)
	}

	if err := store.DeleteTransaction(ctx, "missing"); err != nil {
		t.Fatalf("unknown id must be a silent no-op, got %v", err)
	}
}

func TestRecurringRoundTripAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	d := testDef("r1", 5)
	if err := store.SaveRecurring(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Update takes a full replacement record, matched by id.
	d.Amount = core.Money{Cents: 2500}
	d.DayOfMonth = 7
	if err := store.UpdateRecurring(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := store.RecurringTransactions(ctx)
	if len(got) != 1 || got[0].Amount.Cents != 2500 || got[0].DayOfMonth != 7 {
		t.Fatalf("replacement not applied: %+v", got)
	}

	unknown := testDef("missing", 5)
	if err := store.UpdateRecurring(ctx, unknown); err != nil {
		t.Fatalf("unknown id must be a silent no-op, got %v", err)
	}
	if got := store.RecurringTransactions(ctx); len(got) != 1 {
		t.Fatal("no-op update must not append")
	}
}

func TestSaveRecurringValidatesDayOfMonth(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	bad := testDef("r1", 32)
	if err := store.SaveRecurring(ctx, bad); !errors.Is(err, core.ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
}

func TestDeleteRecurring(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	if err := store.SaveRecurring(ctx, testDef("r1", 5)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteRecurring(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := store.RecurringTransactions(ctx); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
}

func TestBudgetDefaultsToZero(t *testing.T) {
	store := New(memory.New())
	budget := store.Budget(context.Background())
	if budget.InitialBalance.Cents != 0 {
		t.Fatalf("expected zero initial balance, got %d", budget.InitialBalance.Cents)
	}
}

func TestUpdateBudget(t *testing.T) {
	ctx := context.Background()
	store := New(memory.New())

	initial := core.Money{Cents: 50000}
	if err := store.UpdateBudget(ctx, BudgetPatch{InitialBalance: &initial}); err != nil {
		t.Fatalf("update: %v", err)
	}

	budget := store.Budget(ctx)
	if budget.InitialBalance.Cents != 50000 {
		t.Fatalf("expected 50000, got %d", budget.InitialBalance.Cents)
	}
	if budget.LastUpdated.IsZero() {
		t.Fatal("LastUpdated must be stamped")
	}

	// A patch with no fields still refreshes the stamp, nothing else.
	before := budget.LastUpdated
	if err := store.UpdateBudget(ctx, BudgetPatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	budget = store.Budget(ctx)
	if budget.InitialBalance.Cents != 50000 {
		t.Fatal("empty patch must keep the balance")
	}
	if budget.LastUpdated.Before(before) {
		t.Fatal("LastUpdated must not go backwards")
	}
}

func TestPostRecurringCommitsBothOrNeither(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	store := New(adapter)

	d := testDef("r1", 15)
	if err := store.SaveRecurring(ctx, d); err != nil {
		t.Fatalf("save recurring: %v", err)
	}

	processedAt := time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)
	d.LastProcessed = &processedAt
	tx := testTx("posted", 2000)

	// Failed batch: neither write lands.
	adapter.FailSet = errors.New("io error")
	if err := store.PostRecurring(ctx, tx, d); err == nil {
		t.Fatal("expected batch failure to propagate")
	}
	adapter.FailSet = nil
	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatal("failed batch must not post the transaction")
	}
	if got := store.RecurringTransactions(ctx); got[0].LastProcessed != nil {
		t.Fatal("failed batch must not mark the definition")
	}

	// Successful batch: both land together.
	if err := store.PostRecurring(ctx, tx, d); err != nil {
		t.Fatalf("post: %v", err)
	}
	if got := store.Transactions(ctx); len(got) != 1 || got[0].ID != "posted" {
		t.Fatalf("expected the posted transaction, got %+v", got)
	}
	if got := store.RecurringTransactions(ctx); got[0].LastProcessed == nil {
		t.Fatal("definition must be marked processed")
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	store := New(adapter)

	if err := store.SaveTransaction(ctx, testTx("t1", 100)); err != nil {
		t.Fatalf("save tx: %v", err)
	}
	if err := store.SaveRecurring(ctx, testDef("r1", 5)); err != nil {
		t.Fatalf("save def: %v", err)
	}
	initial := core.Money{Cents: 100}
	if err := store.UpdateBudget(ctx, BudgetPatch{InitialBalance: &initial}); err != nil {
		t.Fatalf("budget: %v", err)
	}

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if adapter.Len() != 0 {
		t.Fatalf("expected no keys left, got %d", adapter.Len())
	}
	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatal("transactions must be empty after clear")
	}
	if got := store.RecurringTransactions(ctx); len(got) != 0 {
		t.Fatal("recurring definitions must be empty after clear")
	}
}
