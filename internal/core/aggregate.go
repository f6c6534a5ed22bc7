package core

import (
	"iter"
	"slices"
	"time"
)

// NoExpensesLabel names the placeholder slice of an empty category chart.
const NoExpensesLabel = "Sin gastos"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
	// Placeholder marks the synthetic entry substituted for an empty series.
	// It is not a financial value.
	Placeholder bool
}

// Breakdown is the per-category expense series used for charting.
type Breakdown []CategoryAmount

// HasData reports whether the series holds at least one real category.
func (b Breakdown) HasData() bool {
	for _, c := range b {
		if !c.Placeholder {
			return true
		}
	}
	return false
}

// Total sums the real entries, skipping placeholders.
func (b Breakdown) Total() Money {
	var total Money
	for _, c := range b {
		if c.Placeholder {
			continue
		}
		total = total.Add(c.Amount)
	}
	return total
}

// Aggregates is everything the dashboard renders for one period. All fields
// come from the same snapshot.
type Aggregates struct {
	Period        Period
	Now           time.Time
	Balance       Money
	PeriodIncome  Money
	PeriodExpense Money
	Breakdown     Breakdown
	Filtered      []Transaction
}

// Filter lazily yields the transactions inside p at now, keeping store order.
func Filter(txs []Transaction, p Period, now time.Time) iter.Seq[Transaction] {
	checker := CheckerFor(p)
	return func(yield func(Transaction) bool) {
		for _, t := range txs {
			if !checker.Contains(t.Date, now) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Balance returns initial + all income - all expenses. It deliberately ignores
// any period selection.
func Balance(txs []Transaction, initial Money) Money {
	balance := initial
	for _, t := range txs {
		balance = balance.Add(t.Signed())
	}
	return balance
}

// CategoryBreakdown sums expense amounts per category in order of first
// appearance. An empty result is replaced by a single placeholder entry so
// chart renderers always receive a non-empty series.
func CategoryBreakdown(txs iter.Seq[Transaction]) Breakdown {
	var out Breakdown
	index := map[string]int{}
	for t := range txs {
		if t.Kind != Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(out)
			out = append(out, CategoryAmount{Name: t.Category, Amount: t.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	if len(out) == 0 {
		return Breakdown{{Name: NoExpensesLabel, Amount: Money{Cents: 100}, Placeholder: true}}
	}
	return out
}

// Aggregate computes every derived value for period p at now in one pass over
// a consistent snapshot of the store.
func Aggregate(txs []Transaction, initial Money, p Period, now time.Time) Aggregates {
	filtered := slices.Collect(Filter(txs, p, now))

	agg := Aggregates{
		Period:    p,
		Now:       now,
		Balance:   Balance(txs, initial),
		Breakdown: CategoryBreakdown(slices.Values(filtered)),
		Filtered:  filtered,
	}
	for _, t := range filtered {
		switch t.Kind {
		case Income:
			agg.PeriodIncome = agg.PeriodIncome.Add(t.Amount)
		case Expense:
			agg.PeriodExpense = agg.PeriodExpense.Add(t.Amount)
		}
	}
	return agg
}
