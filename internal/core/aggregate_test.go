package core

import (
	"testing"
	"time"
)

func tx(amount int64, typ TxType, category string, d time.Time) Transaction {
	return Transaction{
		ID:       "tx-" + category,
		Amount:   Money{Cents: amount},
		Type:     typ,
		Category: category,
		Date:     d,
	}
}

func monthlyDef(day int, amount int64, typ TxType, autoAdd bool) RecurringTransaction {
	return RecurringTransaction{
		ID:         "def",
		Amount:     Money{Cents: amount},
		Type:       typ,
		Category:   "Factures",
		Name:       "def",
		Frequency:  Monthly,
		DayOfMonth: day,
		AutoAdd:    autoAdd,
	}
}

func TestBalance(t *testing.T) {
	budget := Budget{InitialBalance: Money{Cents: 10000}}
	txs := []Transaction{
		tx(5000, Income, "Salaire", date(2024, time.June, 1)),
		tx(3000, Expense, "Alimentation", date(2024, time.June, 2)),
	}

	// 100 + 50 - 30 = 120
	if got := Balance(txs, budget); got.Cents != 12000 {
		t.Fatalf("expected 12000 cents, got %d", got.Cents)
	}

	// Pure sum: invariant under reordering
	reversed := []Transaction{txs[1], txs[0]}
	if got := Balance(reversed, budget); got.Cents != 12000 {
		t.Fatalf("reordered: expected 12000 cents, got %d", got.Cents)
	}

	// Missing budget record behaves as zero initial balance
	if got := Balance(txs, Budget{}); got.Cents != 2000 {
		t.Fatalf("zero budget: expected 2000 cents, got %d", got.Cents)
	}
}

func TestMonthlyTotals(t *testing.T) {
	txs := []Transaction{
		tx(5000, Income, "Salaire", date(2024, time.June, 1)),
		tx(3000, Expense, "Alimentation", date(2024, time.June, 2)),
		tx(9999, Expense, "Alimentation", date(2024, time.May, 2)), // other month
		tx(8888, Income, "Salaire", date(2023, time.June, 1)),      // other year
	}

	totals := MonthlyTotals(txs, time.June, 2024)
	if totals.Income.Cents != 5000 {
		t.Errorf("income: expected 5000, got %d", totals.Income.Cents)
	}
	if totals.Expenses.Cents != 3000 {
		t.Errorf("expenses: expected 3000, got %d", totals.Expenses.Cents)
	}
}

func TestPrevisionalBalance(t *testing.T) {
	balance := Money{Cents: 10000}

	cases := []struct {
		name  string
		defs  []RecurringTransaction
		today time.Time
		want  int64
	}{
		{
			name: "pending expense and income later this month",
			defs: []RecurringTransaction{
				monthlyDef(20, 2000, Expense, true),
				monthlyDef(25, 5000, Income, true),
			},
			today: date(2024, time.June, 10),
			want:  13000,
		},
		{
			name:  "day already passed is not projected",
			defs:  []RecurringTransaction{monthlyDef(5, 2000, Expense, true)},
			today: date(2024, time.June, 10),
			want:  10000,
		},
		{
			name:  "today's own day is not projected",
			defs:  []RecurringTransaction{monthlyDef(10, 2000, Expense, true)},
			today: date(2024, time.June, 10),
			want:  10000,
		},
		{
			name:  "day 31 in a 30-day month projects nothing",
			defs:  []RecurringTransaction{monthlyDef(31, 2000, Expense, true)},
			today: date(2024, time.June, 10),
			want:  10000,
		},
		{
			name:  "day 31 in February projects nothing",
			defs:  []RecurringTransaction{monthlyDef(31, 2000, Expense, true)},
			today: date(2024, time.February, 10),
			want:  10000,
		},
		{
			name:  "day 31 in a 31-day month is projected",
			defs:  []RecurringTransaction{monthlyDef(31, 2000, Expense, true)},
			today: date(2024, time.July, 10),
			want:  8000,
		},
		{
			name:  "autoAdd false is inert",
			defs:  []RecurringTransaction{monthlyDef(20, 2000, Expense, false)},
			today: date(2024, time.June, 10),
			want:  10000,
		},
		{
			name: "weekly definitions are not projected",
			defs: func() []RecurringTransaction {
				d := monthlyDef(20, 2000, Expense, true)
				d.Frequency = Weekly
				return []RecurringTransaction{d}
			}(),
			today: date(2024, time.June, 10),
			want:  10000,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PrevisionalBalance(balance, tc.defs, tc.today)
			if got.Cents != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got.Cents)
			}
		})
	}
}

func TestUpcomingDeadlines(t *testing.T) {
	day5 := monthlyDef(5, 1000, Expense, true)
	day20 := monthlyDef(20, 1000, Expense, true)
	day31 := monthlyDef(31, 1000, Expense, true)

	// June has 30 days: only the day-20 definition is still pending
	got := UpcomingDeadlines([]RecurringTransaction{day31, day20, day5}, date(2024, time.June, 10))
	if len(got) != 1 || got[0].DayOfMonth != 20 {
		t.Fatalf("expected only day-20 definition, got %v", got)
	}

	// July has 31 days: day 20 then day 31, ascending
	got = UpcomingDeadlines([]RecurringTransaction{day31, day20}, date(2024, time.July, 10))
	if len(got) != 2 || got[0].DayOfMonth != 20 || got[1].DayOfMonth != 31 {
		t.Fatalf("expected [20 31], got %v", got)
	}
}

func TestExpensesByCategory(t *testing.T) {
	txs := []Transaction{
		tx(1000, Expense, "Alimentation", date(2024, time.June, 1)),
		tx(500, Expense, "Alimentation", date(2024, time.June, 5)),
		tx(2000, Expense, "Transport", date(2024, time.June, 2)),
		tx(9000, Income, "Salaire", date(2024, time.June, 1)), // income excluded
	}

	got := ExpensesByCategory(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got["Alimentation"].Cents != 1500 {
		t.Errorf("Alimentation: expected 1500, got %d", got["Alimentation"].Cents)
	}
	if got["Transport"].Cents != 2000 {
		t.Errorf("Transport: expected 2000, got %d", got["Transport"].Cents)
	}
}

func TestMonthlyExpenseTotals(t *testing.T) {
	txs := []Transaction{
		tx(1000, Expense, "a", date(2024, time.June, 1)),
		tx(500, Expense, "b", date(2024, time.June, 20)),
		tx(2000, Expense, "c", date(2023, time.December, 2)),
		tx(9000, Income, "d", date(2024, time.June, 1)),
	}

	got := MonthlyExpenseTotals(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got["2024-06"].Cents != 1500 {
		t.Errorf("2024-06: expected 1500, got %d", got["2024-06"].Cents)
	}
	if got["2023-12"].Cents != 2000 {
		t.Errorf("2023-12: expected 2000, got %d", got["2023-12"].Cents)
	}
	// Keys sort lexicographically into chronological order
	if !("2023-12" < "2024-06") {
		t.Error("month keys must be lexicographically ordered")
	}
}
