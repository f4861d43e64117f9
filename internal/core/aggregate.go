package core

import (
	"fmt"
	"sort"
	"time"
)

// MonthTotals partitions one calendar month's activity by direction.
type MonthTotals struct {
	Expenses Money
	Income   Money
}

// Balance returns the initial balance plus the signed sum of every
// transaction, over the whole collection. Order-independent.
func Balance(txs []Transaction, budget Budget) Money {
	balance := budget.InitialBalance
	for _, t := range txs {
		switch t.Type {
		case Income:
			balance = balance.Add(t.Amount)
		case Expense:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// MonthlyTotals sums income and expenses restricted to transactions dated in
// the given calendar month and year.
func MonthlyTotals(txs []Transaction, month time.Month, year int) MonthTotals {
	var totals MonthTotals
	for _, t := range txs {
		if t.Date.Month() != month || t.Date.Year() != year {
			continue
		}
		switch t.Type {
		case Income:
			totals.Income = totals.Income.Add(t.Amount)
		case Expense:
			totals.Expenses = totals.Expenses.Add(t.Amount)
		}
	}
	return totals
}

// inCurrentMonthWindow reports whether def still has a pending occurrence
// later in today's month: autoAdd monthly definitions whose day falls strictly
// after today and no later than the month's real last day. The clamp matters:
// a dayOfMonth of 31 must never project into a 30-day month or February.
func inCurrentMonthWindow(def RecurringTransaction, today time.Time) bool {
	if !def.AutoAdd || def.Frequency != Monthly {
		return false
	}
	return def.DayOfMonth > today.Day() && def.DayOfMonth <= LastDayOfMonth(today)
}

// PrevisionalBalance projects the current balance forward to the end of the
// month, assuming every still-pending recurring item posts successfully.
func PrevisionalBalance(balance Money, defs []RecurringTransaction, today time.Time) Money {
	for _, def := range defs {
		if !inCurrentMonthWindow(def, today) {
			continue
		}
		switch def.Type {
		case Income:
			balance = balance.Add(def.Amount)
		case Expense:
			balance = balance.Sub(def.Amount)
		}
	}
	return balance
}

// UpcomingDeadlines returns the recurring definitions still due later in
// today's month, ascending by day of month.
func UpcomingDeadlines(defs []RecurringTransaction, today time.Time) []RecurringTransaction {
	var upcoming []RecurringTransaction
	for _, def := range defs {
		if inCurrentMonthWindow(def, today) {
			upcoming = append(upcoming, def)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DayOfMonth < upcoming[j].DayOfMonth
	})
	return upcoming
}

// ExpensesByCategory sums expense amounts per category label.
func ExpensesByCategory(txs []Transaction) map[string]Money {
	byCategory := make(map[string]Money)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}
	return byCategory
}

// MonthlyExpenseTotals sums expense amounts per "YYYY-MM" key. The keys sort
// lexicographically into chronological order.
func MonthlyExpenseTotals(txs []Transaction) map[string]Money {
	byMonth := make(map[string]Money)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
		byMonth[key] = byMonth[key].Add(t.Amount)
	}
	return byMonth
}
