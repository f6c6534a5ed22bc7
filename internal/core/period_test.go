package core

import (
	"testing"
	"time"
)

var art = time.FixedZone("ART", -3*3600)

// wednesday is 2025-11-05 15:30 local; its week starts on Monday 2025-11-03.
var wednesday = time.Date(2025, 11, 5, 15, 30, 0, 0, art)

func TestIsWithinPeriod(t *testing.T) {
	tests := []struct {
		name   string
		date   Date
		period Period
		now    time.Time
		want   bool
	}{
		{"today includes today", NewDate(2025, 11, 5), PeriodToday, wednesday, true},
		{"today excludes yesterday", NewDate(2025, 11, 4), PeriodToday, wednesday, false},

		{"week includes monday", NewDate(2025, 11, 3), PeriodWeek, wednesday, true},
		{"week includes yesterday", NewDate(2025, 11, 4), PeriodWeek, wednesday, true},
		{"week includes today", NewDate(2025, 11, 5), PeriodWeek, wednesday, true},
		{"week excludes previous sunday", NewDate(2025, 11, 2), PeriodWeek, wednesday, false},
		{"week excludes 8 days ago", NewDate(2025, 10, 28), PeriodWeek, wednesday, false},
		{"week excludes tomorrow", NewDate(2025, 11, 6), PeriodWeek, wednesday, false},

		{"month includes first day", NewDate(2025, 11, 1), PeriodMonth, wednesday, true},
		{"month excludes last month", NewDate(2025, 10, 31), PeriodMonth, wednesday, false},
		{"month excludes tomorrow", NewDate(2025, 11, 6), PeriodMonth, wednesday, false},

		{"year includes january first", NewDate(2025, 1, 1), PeriodYear, wednesday, true},
		{"year excludes last year", NewDate(2024, 12, 31), PeriodYear, wednesday, false},

		{"all includes anything", NewDate(1990, 6, 15), PeriodAll, wednesday, true},
		{"unknown period behaves as all", NewDate(1990, 6, 15), Period("decade"), wednesday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinPeriod(tt.date, tt.period, tt.now); got != tt.want {
				t.Errorf("IsWithinPeriod(%v, %s) = %v, want %v", tt.date, tt.period, got, tt.want)
			}
		})
	}
}

func TestWeekStartsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday", time.Date(2025, 11, 3, 9, 0, 0, 0, art), time.Date(2025, 11, 3, 0, 0, 0, 0, art)},
		{"wednesday", wednesday, time.Date(2025, 11, 3, 0, 0, 0, 0, art)},
		{"sunday", time.Date(2025, 11, 9, 22, 0, 0, 0, art), time.Date(2025, 11, 3, 0, 0, 0, 0, art)},
		{"across months", time.Date(2025, 10, 1, 8, 0, 0, 0, art), time.Date(2025, 9, 29, 0, 0, 0, 0, art)},
		{"across years", time.Date(2026, 1, 1, 8, 0, 0, 0, art), time.Date(2025, 12, 29, 0, 0, 0, 0, art)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (WeekChecker{}).Start(tt.now); !got.Equal(tt.want) {
				t.Errorf("Start() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekCoversSevenDaysEndingSunday(t *testing.T) {
	sunday := time.Date(2025, 11, 9, 12, 0, 0, 0, art)
	today := Today(sunday)
	for i := 0; i < 7; i++ {
		d := today.AddDays(-i)
		if !IsWithinPeriod(d, PeriodWeek, sunday) {
			t.Fatalf("%v should be inside the week", d)
		}
	}
	if IsWithinPeriod(today.AddDays(-7), PeriodWeek, sunday) {
		t.Fatalf("previous sunday should be outside the week")
	}
}

func TestWeekSpanningMonthBoundary(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, art)
	sep30 := NewDate(2025, 9, 30)
	if !IsWithinPeriod(sep30, PeriodWeek, now) {
		t.Fatalf("sep 30 is in the week of oct 1")
	}
	if IsWithinPeriod(sep30, PeriodMonth, now) {
		t.Fatalf("sep 30 is not in october")
	}
}

// The week, month and year windows close on the live instant instead of on
// today's midnight. For date-only values this still includes every day up to
// today whatever the time of day; these cases pin that down.
func TestUpperBoundUsesLiveInstant(t *testing.T) {
	day := NewDate(2025, 11, 5)
	instants := []time.Time{
		time.Date(2025, 11, 5, 0, 0, 0, 0, art),
		time.Date(2025, 11, 5, 0, 0, 0, 1, art),
		time.Date(2025, 11, 5, 23, 59, 59, 0, art),
	}
	for _, now := range instants {
		for _, p := range Periods() {
			if !IsWithinPeriod(day, p, now) {
				t.Fatalf("%s at %v should include today", p, now.Format(time.TimeOnly))
			}
			if p == PeriodToday || p == PeriodAll {
				continue
			}
			if IsWithinPeriod(day.AddDays(1), p, now) {
				t.Fatalf("%s at %v should exclude tomorrow", p, now.Format(time.TimeOnly))
			}
		}
	}
}

// Today only has a lower bound; future days never reach the store, so the
// open upper end is never observed in practice.
func TestTodayHasNoUpperBound(t *testing.T) {
	if !IsWithinPeriod(NewDate(2025, 11, 6), PeriodToday, wednesday) {
		t.Fatalf("today window is open-ended")
	}
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"today":    PeriodToday,
		"Hoy":      PeriodToday,
		"semana":   PeriodWeek,
		"mes":      PeriodMonth,
		"año":      PeriodYear,
		"all-time": PeriodAll,
		"todo":     PeriodAll,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Fatalf("ParsePeriod(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestBounds(t *testing.T) {
	from, to, ok := Bounds(PeriodMonth, wednesday)
	if !ok {
		t.Fatalf("month should have bounds")
	}
	if !from.Equal(time.Date(2025, 11, 1, 0, 0, 0, 0, art)) || !to.Equal(wednesday) {
		t.Fatalf("unexpected bounds %v - %v", from, to)
	}
	if _, _, ok := Bounds(PeriodAll, wednesday); ok {
		t.Fatalf("all-time has no lower bound")
	}
}
