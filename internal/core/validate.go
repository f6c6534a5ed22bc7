package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	InvalidInput ErrorKind = "invalid_input"
	FutureDate   ErrorKind = "future_date"
)

// ErrorKind is the user-facing class of a rejected submission.
type ErrorKind string

// Message returns the toast text shown for the error class.
func (k ErrorKind) Message() string {
	switch k {
	case InvalidInput:
		return "Completá descripción, monto y fecha."
	case FutureDate:
		return "La fecha no puede ser futura."
	default:
		return ""
	}
}

var (
	ErrInvalidInput = errors.New("missing required field or invalid amount")
	ErrFutureDate   = errors.New("future-dated transaction")

	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrMissingDate      = fmt.Errorf("%w: missing date", ErrInvalidInput)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrInvalidKind      = fmt.Errorf("%w: invalid kind", ErrInvalidInput)
)

// ClassifyError maps a gate error to its user-facing class.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFutureDate):
		return FutureDate
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput
	default:
		return ""
	}
}

// FormInput is the raw, unstructured submission coming from the UI.
type FormInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
	Method      string
	Note        string
	Kind        string
}

// IsFuture reports whether d is strictly after the local calendar day of now.
func IsFuture(d Date, now time.Time) bool {
	return d.After(Today(now))
}

// ValidateAndBuild runs the acceptance rules in order and returns the first
// failure. On success the transaction carries the absolute amount, a trimmed
// description, and empty optional fields collapsed to absent.
func ValidateAndBuild(in FormInput, now time.Time) (Transaction, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Transaction{}, ErrEmptyDescription
	}

	cents, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, ErrInvalidAmount
	}

	if strings.TrimSpace(in.Date) == "" {
		return Transaction{}, ErrMissingDate
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, ErrInvalidDate
	}
	if IsFuture(date, now) {
		return Transaction{}, ErrFutureDate
	}

	kind, err := ParseKind(in.Kind)
	if err != nil {
		return Transaction{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Category:    category,
		Kind:        kind,
		Description: desc,
		Amount:      Money{Cents: cents},
		Method:      strings.TrimSpace(in.Method),
		Note:        strings.TrimSpace(in.Note),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
