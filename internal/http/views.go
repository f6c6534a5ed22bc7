package http

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"gestor/internal/charts"
	"gestor/internal/core"
	"gestor/internal/session"
)

var templateFuncs = template.FuncMap{
	"pesos": func(m core.Money) string { return m.String() },
}

type movementView struct {
	ID          string
	Description string
	Category    string
	Date        string
	Kind        string
	KindLabel   string
	Amount      string
	Method      string
	Note        string
	HasMethod   bool
	HasNote     bool
}

type legendView struct {
	Name   string
	Amount string
	Color  string
}

type periodTab struct {
	Value  core.Period
	Label  string
	Active bool
}

// summaryView is everything the summary partial renders. All values come from
// one Aggregates snapshot.
type summaryView struct {
	Period      core.Period
	PeriodLabel string
	Range       string
	Tabs        []periodTab
	Balance     core.Money
	Income      core.Money
	Expense     core.Money
	Negative    bool
	Movements   []movementView
	Legend      []legendView
	HasExpenses bool
	ChartURL    string
}

type userView struct {
	Name  string
	Email string
}

type dashboardView struct {
	User       userView
	Today      string
	Categories []string
	Methods    []string
	Default    string
	Summary    summaryView
	ToastMs    int64
}

type loginView struct {
	Error string
	Email string
	Name  string
}

func newSummaryView(agg core.Aggregates) summaryView {
	v := summaryView{
		Period:      agg.Period,
		PeriodLabel: agg.Period.Label(),
		Balance:     agg.Balance,
		Income:      agg.PeriodIncome,
		Expense:     agg.PeriodExpense,
		Negative:    agg.Balance.Cents < 0,
		HasExpenses: agg.Breakdown.HasData(),
		Range:       periodRange(agg.Period, agg.Now),
		ChartURL:    chartURL(agg.Period, agg.Now),
	}
	for _, p := range core.Periods() {
		v.Tabs = append(v.Tabs, periodTab{Value: p, Label: p.Label(), Active: p == agg.Period})
	}
	for _, t := range agg.Filtered {
		v.Movements = append(v.Movements, newMovementView(t))
	}
	for i, c := range agg.Breakdown {
		v.Legend = append(v.Legend, legendView{
			Name:   c.Name,
			Amount: c.Amount.String(),
			Color:  charts.SliceColor(i, c.Placeholder),
		})
	}
	if !v.HasExpenses {
		v.Legend[0].Amount = ""
	}
	return v
}

func newMovementView(t core.Transaction) movementView {
	sign := "-"
	if t.Kind == core.Income {
		sign = "+"
	}
	return movementView{
		ID:          t.ID,
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.String(),
		Kind:        string(t.Kind),
		KindLabel:   t.Kind.Label(),
		Amount:      sign + " " + t.Amount.String(),
		Method:      t.Method,
		Note:        t.Note,
		HasMethod:   t.HasMethod(),
		HasNote:     t.HasNote(),
	}
}

// periodRange renders the window covered by p, e.g. "01/11/2025 al 05/11/2025".
// The all-time window has no range.
func periodRange(p core.Period, now time.Time) string {
	from, to, ok := core.Bounds(p, now)
	if !ok {
		return ""
	}
	const layout = "02/01/2006"
	if from.Format(layout) == to.Format(layout) {
		return to.Format(layout)
	}
	return from.Format(layout) + " al " + to.Format(layout)
}

// chartURL carries the render instant so browsers never reuse a stale image.
func chartURL(p core.Period, now time.Time) string {
	q := url.Values{}
	q.Set("period", string(p))
	q.Set("v", strconv.FormatInt(now.UnixNano(), 36))
	return "/chart/categories.png?" + q.Encode()
}

func newUserView(u session.User) userView {
	return userView{Name: u.Name, Email: u.Email}
}
