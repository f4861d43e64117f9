// Package services holds the recurrence engine and the budget service the
// presentation layer calls.
//
// This file implements the dueness strategies: one checker per frequency,
// looked up through a registry so new schedules slot in without touching the
// engine.
package services

import (
	"fmt"
	"time"

	"budgeto/internal/core"
)

// DuenessChecker decides whether a recurring definition should post on the
// evaluation date.
type DuenessChecker interface {
	// Due reports whether def qualifies for posting as of asOf.
	Due(def core.RecurringTransaction, asOf time.Time) bool
}

// MonthlyChecker posts on the exact target day, at most once per calendar
// (year, month).
type MonthlyChecker struct{}

// Due is true iff asOf falls exactly on the definition's day of month and
// the definition has not already been processed in asOf's month. Exact
// equality is deliberate: a day-31 definition never fires in a shorter
// month. LastProcessed is the sole de-duplication signal.
func (MonthlyChecker) Due(def core.RecurringTransaction, asOf time.Time) bool {
	if asOf.Day() != def.DayOfMonth {
		return false
	}
	if def.LastProcessed == nil {
		return true
	}
	return !core.SameMonth(*def.LastProcessed, asOf)
}

// WeeklyChecker is deliberately inert: the weekly frequency is declared in
// the data model but has never advanced a definition, and changing that is a
// product decision. Due always returns false.
type WeeklyChecker struct{}

func (WeeklyChecker) Due(core.RecurringTransaction, time.Time) bool {
	return false
}

// duenessStrategies maps frequencies to their checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Monthly: MonthlyChecker{},
	core.Weekly:  WeeklyChecker{},
}

// GetDuenessChecker returns the checker for a frequency, or an error for an
// unknown one.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker registers a custom checker for a frequency.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
