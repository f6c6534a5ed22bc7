package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// DefaultCategory is used when a submission arrives without a category.
const DefaultCategory = "Otros"

type (
	Kind string

	// Date is a calendar day without time of day, stored at midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Date        Date
		Category    string
		Kind        Kind
		Description string
		Amount      Money
		Method      string // optional payment channel
		Note        string // optional annotation
	}
)

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
)

// Categories and Methods are the option lists offered by the entry form.
// The core does not restrict transactions to them.
var (
	Categories = []string{"Comida", "Transporte", "Entretenimiento", "Educación", "Salario", DefaultCategory}
	Methods    = []string{"Efectivo", "Débito", "Crédito", "Transferencia", "Billetera virtual"}
)

// ParseKind maps form values to a Kind. Empty input defaults to Expense.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "expense", "gasto":
		return Expense, nil
	case "income", "ingreso":
		return Income, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// Sign returns +1 for income and -1 for expenses.
func (k Kind) Sign() int64 {
	if k == Income {
		return 1
	}
	return -1
}

// Label returns the display name used by the UI.
func (k Kind) Label() string {
	if k == Income {
		return "Ingreso"
	}
	return "Gasto"
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the local calendar day of now.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO YYYY-MM-DD string. The parsed value must round-trip,
// so "2025-02-30" is rejected instead of silently normalised.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// In returns local midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, loc)
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year(), d.Month(), d.Day()+n)
}

// After reports whether d is a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Signed returns the amount carrying the sign implied by the transaction kind.
func (t Transaction) Signed() Money {
	return Money{Cents: t.Kind.Sign() * t.Amount.Cents}
}

// HasMethod reports whether a payment channel was recorded.
func (t Transaction) HasMethod() bool { return t.Method != "" }

// HasNote reports whether an annotation was recorded.
func (t Transaction) HasNote() bool { return t.Note != "" }

// Validate checks the stored-transaction invariants. It does not check the
// future-date rule, which depends on the clock and belongs to the gate.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}
