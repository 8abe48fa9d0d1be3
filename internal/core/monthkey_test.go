package core

import (
	"testing"
	"time"
)

func TestPreviousMonthKey(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"2026-07", "2026-06"},
		{"2026-01", "2025-12"},
		{"2000-01", "1999-12"},
	}
	for _, tc := range cases {
		got, err := PreviousMonthKey(tc.in)
		if err != nil {
			t.Fatalf("PreviousMonthKey(%q): %v", tc.in, err)
		}
		if got != tc.out {
			t.Errorf("PreviousMonthKey(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestPreviousMonthKeyInvalid(t *testing.T) {
	for _, in := range []string{"", "2026", "2026-13", "2026-00", "26-01", "abcd-ef"} {
		if _, err := PreviousMonthKey(in); err == nil {
			t.Errorf("PreviousMonthKey(%q) expected error", in)
		}
	}
}

func TestClampDayToMonth(t *testing.T) {
	cases := []struct {
		key string
		day int
		out string
	}{
		{"2026-02", 31, "2026-02-28"},
		{"2024-02", 31, "2024-02-29"}, // leap year
		{"2026-04", 31, "2026-04-30"},
		{"2026-07", 15, "2026-07-15"},
		{"2026-07", 0, "2026-07-01"},
		{"2026-07", -3, "2026-07-01"},
	}
	for _, tc := range cases {
		got, err := ClampDayToMonth(tc.key, tc.day)
		if err != nil {
			t.Fatalf("ClampDayToMonth(%q, %d): %v", tc.key, tc.day, err)
		}
		if got != tc.out {
			t.Errorf("ClampDayToMonth(%q, %d) = %q, want %q", tc.key, tc.day, got, tc.out)
		}
	}
}

func TestMonthKeyFor(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	if got := MonthKeyFor(ts); got != "2026-03" {
		t.Fatalf("MonthKeyFor = %q", got)
	}
	if got := DateISOFor(ts); got != "2026-03-05" {
		t.Fatalf("DateISOFor = %q", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2026, 2, 28},
		{2024, 2, 29},
		{2026, 12, 31},
		{2026, 11, 30},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}
