package core

import (
	"errors"
	"testing"
)

func TestEntryValidate(t *testing.T) {
	valid := Entry{ID: "x", Name: "Chirie", AmountCents: 120000, DateISO: "2026-07-01"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"empty name", Entry{Name: "  ", AmountCents: 1, DateISO: "2026-07-01"}, ErrEmptyName},
		{"negative amount", Entry{Name: "x", AmountCents: -1, DateISO: "2026-07-01"}, ErrInvalidAmount},
		{"bad date", Entry{Name: "x", AmountCents: 1, DateISO: "2026/07/01"}, ErrInvalidDate},
		{"short date", Entry{Name: "x", AmountCents: 1, DateISO: "2026-7-1"}, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.entry.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTemplateID(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Chirie", "chirie"},
		{"  Abonament Net  ", "abonament net"},
		{"SALA", "sala"},
	}
	for _, tc := range cases {
		if got := TemplateID(tc.in); got != tc.out {
			t.Errorf("TemplateID(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
	// Same normalized name, same id: re-saving overwrites.
	if TemplateID("Chirie") != TemplateID(" chirie ") {
		t.Fatal("TemplateID should be stable across case and whitespace")
	}
}

func TestCarryEntryID(t *testing.T) {
	if got := CarryEntryID("2026-06"); got != "carry_2026-06" {
		t.Fatalf("CarryEntryID = %q", got)
	}
}

func TestIsCarryEntryID(t *testing.T) {
	if !IsCarryEntryID(CarryEntryID("2026-06")) {
		t.Fatal("carry ids must be recognized")
	}
	// A user entry wearing the carry label is still a regular entry.
	for _, id := range []string{"", "a3f1", "2026-06", "Sold luna trecută"} {
		if IsCarryEntryID(id) {
			t.Fatalf("IsCarryEntryID(%q) = true", id)
		}
	}
}

func TestMonthRecordRemove(t *testing.T) {
	r := NewMonthRecord()
	r.Append(Expense, Entry{ID: "a", Name: "x", AmountCents: 1, DateISO: "2026-07-01"})
	r.Append(Expense, Entry{ID: "b", Name: "y", AmountCents: 2, DateISO: "2026-07-02"})

	if !r.Remove(Expense, "a") {
		t.Fatal("expected removal of existing id")
	}
	if r.Remove(Expense, "a") {
		t.Fatal("second removal must be a no-op")
	}
	if len(r.Expenses) != 1 || r.Expenses[0].ID != "b" {
		t.Fatalf("unexpected expenses after remove: %v", r.Expenses)
	}
}

func TestMonthRecordClone(t *testing.T) {
	r := NewMonthRecord()
	r.Append(Income, Entry{ID: "a", Name: "x", AmountCents: 100, DateISO: "2026-07-01"})
	r.Investments = InvestmentSnapshot{InvestedCents: 50, TotalCents: 80}
	r.CarryAppliedFrom = "2026-06"

	c := r.Clone()
	c.Incomes[0].AmountCents = 999
	c.CarryAppliedFrom = "other"

	if r.Incomes[0].AmountCents != 100 {
		t.Fatal("clone aliases income slice")
	}
	if r.CarryAppliedFrom != "2026-06" {
		t.Fatal("clone aliases scalar fields")
	}
}

func TestInvestmentProfit(t *testing.T) {
	s := InvestmentSnapshot{InvestedCents: 300000, TotalCents: 255000}
	if got := s.ProfitCents(); got != -45000 {
		t.Fatalf("ProfitCents = %d, want -45000", got)
	}
}
