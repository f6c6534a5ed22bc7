// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from form input
// and converting between cents and peso representations.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount caps parsed amounts so the cents conversion can never overflow int64.
var maxAmount = decimal.New(1, 15)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts raw amount input to positive cents.
//
// The sign is discarded because the transaction kind carries it. Both dot
// (12.34) and comma (12,34) decimal separators are accepted; the value is
// rounded half-up to the cent. Non-numeric input and values that round to
// zero are rejected with ErrInvalidAmount, the same class as an empty field.
//
// Examples:
//
//	ParseAmount("1500")   -> 150000, nil
//	ParseAmount("12,34")  -> 1234, nil
//	ParseAmount("-100")   -> 10000, nil
//	ParseAmount("1.005")  -> 101, nil (half-up)
//	ParseAmount("0")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot, but only when it is the sole separator
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Abs()
	if d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Units returns the value in whole currency units for charts and display.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// FormatPesos renders cents the way the UI shows them, e.g. "$ 1.500,00".
func FormatPesos(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := decimal.New(cents, -2).StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "$ " + b.String() + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// String implements fmt.Stringer using the UI currency format.
func (m Money) String() string {
	return FormatPesos(m.Cents)
}
