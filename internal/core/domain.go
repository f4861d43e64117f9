package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
)

type (
	// TxType tells whether an amount adds to or subtracts from the balance.
	// The sign always lives here, never in the amount itself.
	TxType string

	// Frequency is the schedule of a recurring definition.
	Frequency string

	// Money is an amount in integer cents. Implicitly EUR for display.
	Money struct {
		Cents int64 `json:"cents"`
	}

	// Transaction is a single posted income or expense record.
	Transaction struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Type        TxType    `json:"type"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
	}

	// RecurringTransaction is a template for periodically posted transactions.
	// It is not itself a ledger entry: the recurrence engine materializes it
	// into Transactions. LastProcessed is the sole de-duplication signal and
	// is written only by the engine.
	RecurringTransaction struct {
		ID            string     `json:"id"`
		Amount        Money      `json:"amount"`
		Type          TxType     `json:"type"`
		Category      string     `json:"category"`
		Name          string     `json:"name"`
		Frequency     Frequency  `json:"frequency"`
		DayOfMonth    int        `json:"dayOfMonth"`
		AutoAdd       bool       `json:"autoAdd"`
		LastProcessed *time.Time `json:"lastProcessed,omitempty"`
	}

	// Budget is the single starting-balance record all transaction deltas
	// accumulate against. A missing record behaves as a zero initial balance.
	Budget struct {
		InitialBalance Money     `json:"initialBalance"`
		LastUpdated    time.Time `json:"lastUpdated"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDay       = errors.New("day of month out of range")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrZeroDate         = errors.New("date cannot be zero")
)

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (f Frequency) Validate() error {
	switch f {
	case Monthly, Weekly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// Validate enforces the non-negative invariant. Zero is allowed: a zero-amount
// record is pointless but not malformed.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	return nil
}

// LastDayOfMonth returns the number of days in t's month.
func LastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// SameMonth reports whether a and b fall in the same calendar (year, month).
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
