package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-11-02 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2025, 11, 2) {
		t.Fatalf("got %v", d)
	}
	if d.String() != "2025-11-02" {
		t.Fatalf("String() = %q", d.String())
	}

	for _, in := range []string{"", "2025-02-30", "02/11/2025", "2025-13-01", "ayer"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("%q expected error", in)
		}
	}
}

func TestTodayUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	// 01:30 UTC on the 6th is still the 5th in Buenos Aires.
	now := time.Date(2025, 11, 6, 1, 30, 0, 0, time.UTC).In(loc)
	if got := Today(now); got != NewDate(2025, 11, 5) {
		t.Fatalf("Today() = %v, want 2025-11-05", got)
	}
}

func TestDateAddDaysCrossesMonths(t *testing.T) {
	if got := NewDate(2025, 3, 1).AddDays(-1); got != NewDate(2025, 2, 28) {
		t.Fatalf("got %v", got)
	}
	if got := NewDate(2025, 12, 31).AddDays(1); got != NewDate(2026, 1, 1) {
		t.Fatalf("got %v", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":        Expense,
		"gasto":   Expense,
		"expense": Expense,
		"Ingreso": Income,
		"income":  Income,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Kind:        Expense,
		Category:    "Comida",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Kind: Expense}, // zero date
		{Date: NewDate(2025, 1, 1), Description: " ", Amount: Money{Cents: 1}, Kind: Expense},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Kind: Expense},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Kind: "transfer"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionSigned(t *testing.T) {
	in := Transaction{Kind: Income, Amount: Money{Cents: 600000}}
	out := Transaction{Kind: Expense, Amount: Money{Cents: 150000}}
	if in.Signed().Cents != 600000 || out.Signed().Cents != -150000 {
		t.Fatalf("unexpected signs: %d %d", in.Signed().Cents, out.Signed().Cents)
	}
}
