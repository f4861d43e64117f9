package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"budgeto/internal/core"
	"budgeto/internal/storage"
)

// recentLimit is how many latest transactions the dashboard shows.
const recentLimit = 5

// BudgetService is the boundary the presentation layer calls: plain
// context-taking functions over the store, the recurrence engine, and the
// pure aggregations.
type BudgetService struct {
	store     *storage.Store
	processor *Processor
	now       func() time.Time
}

// Dashboard is one loaded screenful: everything the main view renders.
type Dashboard struct {
	Balance            core.Money
	PrevisionalBalance core.Money
	MonthlyExpenses    core.Money
	MonthlyIncome      core.Money
	RecentTransactions []core.Transaction
	UpcomingDeadlines  []core.RecurringTransaction
}

func NewBudgetService(store *storage.Store, processor *Processor) *BudgetService {
	return &BudgetService{
		store:     store,
		processor: processor,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Tests pin it to a fixed date.
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

// Transactions

func (s *BudgetService) GetTransactions(ctx context.Context) []core.Transaction {
	return s.store.Transactions(ctx)
}

func (s *BudgetService) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	return s.store.SaveTransaction(ctx, tx)
}

func (s *BudgetService) UpdateTransaction(ctx context.Context, id string, patch storage.TransactionPatch) error {
	return s.store.UpdateTransaction(ctx, id, patch)
}

func (s *BudgetService) DeleteTransaction(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// Recurring definitions

func (s *BudgetService) GetRecurringTransactions(ctx context.Context) []core.RecurringTransaction {
	return s.store.RecurringTransactions(ctx)
}

func (s *BudgetService) SaveRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error {
	return s.store.SaveRecurring(ctx, def)
}

func (s *BudgetService) UpdateRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error {
	return s.store.UpdateRecurring(ctx, def)
}

func (s *BudgetService) DeleteRecurringTransaction(ctx context.Context, id string) error {
	return s.store.DeleteRecurring(ctx, id)
}

// ProcessRecurringTransactions runs one recurrence sweep as of now.
func (s *BudgetService) ProcessRecurringTransactions(ctx context.Context) (int, error) {
	return s.processor.ProcessDue(ctx, s.now())
}

// Budget and balances

func (s *BudgetService) GetBudget(ctx context.Context) core.Budget {
	return s.store.Budget(ctx)
}

func (s *BudgetService) UpdateBudget(ctx context.Context, patch storage.BudgetPatch) error {
	return s.store.UpdateBudget(ctx, patch)
}

func (s *BudgetService) GetBalance(ctx context.Context) core.Money {
	return core.Balance(s.store.Transactions(ctx), s.store.Budget(ctx))
}

func (s *BudgetService) GetPrevisionalBalance(ctx context.Context) core.Money {
	balance := s.GetBalance(ctx)
	return core.PrevisionalBalance(balance, s.store.RecurringTransactions(ctx), s.now())
}

func (s *BudgetService) ClearAllData(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

// Dashboard runs the recurrence sweep, then loads the collections
// concurrently and computes everything the main view shows. Concurrent reads
// are safe; only mutations need the store's single-writer discipline.
func (s *BudgetService) Dashboard(ctx context.Context) (Dashboard, error) {
	today := s.now()

	if _, err := s.processor.ProcessDue(ctx, today); err != nil {
		return Dashboard{}, fmt.Errorf("process recurring transactions: %w", err)
	}

	var (
		txs    []core.Transaction
		defs   []core.RecurringTransaction
		budget core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs = s.store.Transactions(gctx)
		return nil
	})
	g.Go(func() error {
		defs = s.store.RecurringTransactions(gctx)
		return nil
	})
	g.Go(func() error {
		budget = s.store.Budget(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard data: %w", err)
	}

	balance := core.Balance(txs, budget)
	totals := core.MonthlyTotals(txs, today.Month(), today.Year())

	recent := append([]core.Transaction(nil), txs...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{
		Balance:            balance,
		PrevisionalBalance: core.PrevisionalBalance(balance, defs, today),
		MonthlyExpenses:    totals.Expenses,
		MonthlyIncome:      totals.Income,
		RecentTransactions: recent,
		UpcomingDeadlines:  core.UpcomingDeadlines(defs, today),
	}, nil
}
