// Package core provides the domain model of the tracker.
//
// This file implements the period classifier. Each period selector has its own
// checker that decides whether a calendar day falls inside the active window,
// anchored to an injected "now" so results are deterministic.

package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// DefaultPeriod is the window shown when nothing else was selected.
const DefaultPeriod = PeriodMonth

// Period is the relative time window used to scope totals and the chart.
type Period string

// Periods returns every selector in display order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
}

// ParsePeriod accepts the canonical names plus the labels used by the UI.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "hoy":
		return PeriodToday, nil
	case "week", "semana":
		return PeriodWeek, nil
	case "month", "mes":
		return PeriodMonth, nil
	case "year", "año", "ano":
		return PeriodYear, nil
	case "all", "all-time", "todo":
		return PeriodAll, nil
	default:
		return "", fmt.Errorf("unknown period: %q", s)
	}
}

func (p Period) Valid() bool {
	_, ok := periodCheckers[p]
	return ok
}

// Label returns the tab caption shown by the UI.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "Hoy"
	case PeriodWeek:
		return "Semana"
	case PeriodMonth:
		return "Mes"
	case PeriodYear:
		return "Año"
	default:
		return "Ciclo de vida"
	}
}

// PeriodChecker decides membership of a calendar day in one window.
type PeriodChecker interface {
	// Contains reports whether d lies inside the window evaluated at now.
	Contains(d Date, now time.Time) bool
	// Start returns the inclusive lower bound of the window at now.
	Start(now time.Time) time.Time
}

// startOfDay returns local midnight of now, built from its calendar triple.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// TodayChecker implements PeriodChecker for the current day.
type TodayChecker struct{}

// Contains returns true if d is not before today. Future days never reach the
// store, so this is equivalent to d == today.
func (TodayChecker) Contains(d Date, now time.Time) bool {
	return !d.In(now.Location()).Before(startOfDay(now))
}

func (TodayChecker) Start(now time.Time) time.Time { return startOfDay(now) }

// WeekChecker implements PeriodChecker for the current Monday-based week.
type WeekChecker struct{}

// Start returns Monday of the current week. Weekdays are indexed Sunday=0, so
// (weekday+6) mod 7 is the number of days elapsed since Monday.
func (WeekChecker) Start(now time.Time) time.Time {
	today := startOfDay(now)
	offset := (int(today.Weekday()) + 6) % 7
	return time.Date(today.Year(), today.Month(), today.Day()-offset, 0, 0, 0, 0, now.Location())
}

// Contains returns true if startOfWeek <= d <= now. The upper bound is the
// live instant, not midnight.
func (c WeekChecker) Contains(d Date, now time.Time) bool {
	return within(d.In(now.Location()), c.Start(now), now)
}

// MonthChecker implements PeriodChecker for the current calendar month.
type MonthChecker struct{}

func (MonthChecker) Start(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Contains returns true if the first of the month <= d <= now.
func (c MonthChecker) Contains(d Date, now time.Time) bool {
	return within(d.In(now.Location()), c.Start(now), now)
}

// YearChecker implements PeriodChecker for the current calendar year.
type YearChecker struct{}

func (YearChecker) Start(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

// Contains returns true if January 1st <= d <= now.
func (c YearChecker) Contains(d Date, now time.Time) bool {
	return within(d.In(now.Location()), c.Start(now), now)
}

// AllTimeChecker implements PeriodChecker for the whole history.
type AllTimeChecker struct{}

func (AllTimeChecker) Contains(Date, time.Time) bool { return true }

func (AllTimeChecker) Start(time.Time) time.Time { return time.Time{} }

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

var periodCheckers = map[Period]PeriodChecker{
	PeriodToday: TodayChecker{},
	PeriodWeek:  WeekChecker{},
	PeriodMonth: MonthChecker{},
	PeriodYear:  YearChecker{},
	PeriodAll:   AllTimeChecker{},
}

// CheckerFor returns the checker of p. Unknown selectors fall back to the
// all-time window.
func CheckerFor(p Period) PeriodChecker {
	if c, ok := periodCheckers[p]; ok {
		return c
	}
	return AllTimeChecker{}
}

// IsWithinPeriod reports whether the calendar day d falls inside period p
// evaluated at now. Callers pass the current local instant in production.
func IsWithinPeriod(d Date, p Period, now time.Time) bool {
	return CheckerFor(p).Contains(d, now)
}

// Bounds returns the window of p at now. ok is false for the all-time window,
// which has no lower bound.
func Bounds(p Period, now time.Time) (from, to time.Time, ok bool) {
	c := CheckerFor(p)
	if _, all := c.(AllTimeChecker); all {
		return time.Time{}, now, false
	}
	return c.Start(now), now, true
}
