package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestor/internal/core"
	"gestor/internal/ledger"
	applog "gestor/internal/log"
)

var art = time.FixedZone("ART", -3*60*60)

// fixedClock returns 2025-11-05 15:30 ART, a Wednesday.
func fixedClock() time.Time {
	return time.Date(2025, 11, 5, 15, 30, 0, 0, art)
}

func newTracker(t *testing.T, opts ...TrackerOption) (*Tracker, *ledger.Store) {
	t.Helper()
	store := ledger.New()
	opts = append([]TrackerOption{WithClock(fixedClock), WithLogger(applog.Discard())}, opts...)
	return NewTracker(store, core.Money{Cents: 25000 * 100}, opts...), store
}

func input(desc, amount, date, kind, category string) core.FormInput {
	return core.FormInput{Description: desc, Amount: amount, Date: date, Kind: kind, Category: category}
}

func TestTracker_SubmitAndAggregate(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	for _, in := range []core.FormInput{
		input("Desayuno", "1500", "2025-11-05", "expense", "Comida"),
		input("Colectivo", "500", "2025-11-05", "expense", "Transporte"),
		input("Freelance", "6000", "2025-11-05", "income", "Salario"),
	} {
		res := tr.Submit(ctx, in)
		if !res.Accepted {
			t.Fatalf("submit %q rejected: %v", in.Description, res.Err)
		}
	}

	agg, err := tr.Aggregates(ctx, core.PeriodToday)
	if err != nil {
		t.Fatal(err)
	}
	if agg.PeriodIncome.Cents != 600000 || agg.PeriodExpense.Cents != 200000 || agg.Balance.Cents != 2900000 {
		t.Fatalf("unexpected totals: income=%v expense=%v balance=%v", agg.PeriodIncome, agg.PeriodExpense, agg.Balance)
	}
	if len(agg.Breakdown) != 2 || agg.Breakdown[0].Name != "Comida" || agg.Breakdown[1].Amount.Cents != 50000 {
		t.Fatalf("unexpected breakdown: %+v", agg.Breakdown)
	}
	// newest first
	if agg.Filtered[0].Description != "Freelance" {
		t.Fatalf("expected newest first, got %q", agg.Filtered[0].Description)
	}
}

func TestTracker_FutureDateLeavesStoreUntouched(t *testing.T) {
	tr, store := newTracker(t)
	ctx := context.Background()
	_ = store.Seed(ledger.DemoTransactions(core.Today(fixedClock()))...)
	before := store.Len()

	res := tr.Submit(ctx, input("Cena", "100", "2025-11-06", "", ""))
	if res.Accepted || res.Error != core.FutureDate || !errors.Is(res.Err, core.ErrFutureDate) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message() != "La fecha no puede ser futura." {
		t.Fatalf("unexpected message %q", res.Message())
	}
	if store.Len() != before {
		t.Fatalf("store length changed: %d -> %d", before, store.Len())
	}
}

func TestTracker_EmptyDescriptionRejected(t *testing.T) {
	tr, store := newTracker(t)
	res := tr.Submit(context.Background(), input("   ", "100", "2025-11-05", "", ""))
	if res.Accepted || res.Error != core.InvalidInput {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.Len() != 0 {
		t.Fatal("store mutated")
	}
}

func TestTracker_SuccessMessages(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	if msg := tr.Submit(ctx, input("a", "1", "2025-11-05", "gasto", "")).Message(); msg != "Gasto guardado" {
		t.Fatalf("expense message = %q", msg)
	}
	if msg := tr.Submit(ctx, input("b", "1", "2025-11-05", "ingreso", "")).Message(); msg != "Ingreso guardado" {
		t.Fatalf("income message = %q", msg)
	}
}

func TestTracker_BalanceIndependentOfPeriod(t *testing.T) {
	tr, store := newTracker(t)
	_ = store.Seed(ledger.DemoTransactions(core.Today(fixedClock()))...)
	ctx := context.Background()

	var want int64 = -1
	for _, p := range core.Periods() {
		agg, err := tr.Aggregates(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		if want == -1 {
			want = agg.Balance.Cents
		}
		if agg.Balance.Cents != want {
			t.Fatalf("%s balance = %d, want %d", p, agg.Balance.Cents, want)
		}
	}
	// 25000 + 6000 + 8000 - 1500 - 500 - 900 - 2000 - 1200
	if want != 3290000 {
		t.Fatalf("balance = %d", want)
	}
}

func TestTracker_AggregatesIdempotent(t *testing.T) {
	tr, store := newTracker(t)
	_ = store.Seed(ledger.DemoTransactions(core.Today(fixedClock()))...)
	ctx := context.Background()

	a, _ := tr.Current(ctx)
	b, _ := tr.Current(ctx)
	if a.Balance != b.Balance || a.PeriodIncome != b.PeriodIncome || a.PeriodExpense != b.PeriodExpense || len(a.Breakdown) != len(b.Breakdown) {
		t.Fatalf("repeated query differs: %+v vs %+v", a, b)
	}
	if store.Len() != 7 {
		t.Fatalf("query mutated store: %d", store.Len())
	}
}

func TestTracker_PeriodSelection(t *testing.T) {
	tr, _ := newTracker(t, WithPeriod(core.PeriodWeek))
	if tr.Period() != core.PeriodWeek {
		t.Fatalf("initial period = %s", tr.Period())
	}
	if err := tr.SetPeriod(core.PeriodYear); err != nil {
		t.Fatal(err)
	}
	if tr.Period() != core.PeriodYear {
		t.Fatalf("period = %s", tr.Period())
	}
	if err := tr.SetPeriod("decade"); err == nil {
		t.Fatal("expected error for unknown period")
	}
	if tr.Period() != core.PeriodYear {
		t.Fatal("invalid period changed selection")
	}

	def, _ := newTracker(t, WithPeriod("bogus"))
	if def.Period() != core.DefaultPeriod {
		t.Fatalf("default period = %s", def.Period())
	}
}

func TestTracker_SubscribeSignalsChanges(t *testing.T) {
	tr, _ := newTracker(t)
	ch, cancel := tr.Subscribe()
	defer cancel()

	expectSignal := func(what string) {
		t.Helper()
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("no signal after %s", what)
		}
	}
	expectNone := func(what string) {
		t.Helper()
		select {
		case <-ch:
			t.Fatalf("unexpected signal after %s", what)
		default:
		}
	}

	tr.Submit(context.Background(), input("a", "1", "2025-11-05", "", ""))
	expectSignal("submit")

	tr.Submit(context.Background(), input("", "1", "2025-11-05", "", ""))
	expectNone("rejected submit")

	_ = tr.SetPeriod(core.PeriodAll)
	expectSignal("period change")

	_ = tr.SetPeriod(core.PeriodAll)
	expectNone("same period")

	// coalescing: two changes, one pending signal
	_ = tr.SetPeriod(core.PeriodToday)
	_ = tr.SetPeriod(core.PeriodWeek)
	expectSignal("coalesced changes")
	expectNone("drained")
}

func TestTracker_UnsubscribeClosesChannel(t *testing.T) {
	tr, _ := newTracker(t)
	ch, cancel := tr.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	// notifying with no subscribers must not panic
	_ = tr.SetPeriod(core.PeriodAll)
}

func TestTracker_WithLocation(t *testing.T) {
	// 01:00 UTC on Nov 6 is still Nov 5 in ART.
	utc := func() time.Time { return time.Date(2025, 11, 6, 1, 0, 0, 0, time.UTC) }
	tr, _ := newTracker(t, WithClock(utc), WithLocation(art))

	if got := tr.Today(); got != core.NewDate(2025, 11, 5) {
		t.Fatalf("Today() = %s", got)
	}
	res := tr.Submit(context.Background(), input("a", "1", "2025-11-06", "", ""))
	if res.Error != core.FutureDate {
		t.Fatalf("expected future date rejection, got %+v", res)
	}
}
