package core

import "testing"

func record(incomes, expenses []int64) *MonthRecord {
	r := NewMonthRecord()
	for i, c := range incomes {
		r.Incomes = append(r.Incomes, Entry{ID: "i", Name: "venit", AmountCents: c, DateISO: "2026-07-01", CreatedAt: int64(i)})
	}
	for i, c := range expenses {
		r.Expenses = append(r.Expenses, Entry{ID: "e", Name: "plata", AmountCents: c, DateISO: "2026-07-02", CreatedAt: int64(i)})
	}
	return r
}

func TestAggregation(t *testing.T) {
	r := record([]int64{1000, 500}, []int64{300})

	if got := TotalIncome(r); got != 1500 {
		t.Errorf("TotalIncome = %d, want 1500", got)
	}
	if got := TotalExpense(r); got != 300 {
		t.Errorf("TotalExpense = %d, want 300", got)
	}
	if got := Balance(r); got != 1200 {
		t.Errorf("Balance = %d, want 1200", got)
	}
	if got := SpentPercent(r); got != 20 {
		t.Errorf("SpentPercent = %d, want 20", got)
	}
	if got := Leftover(r); got != 1200 {
		t.Errorf("Leftover = %d, want 1200", got)
	}
}

func TestSpentPercentEdges(t *testing.T) {
	cases := []struct {
		name     string
		incomes  []int64
		expenses []int64
		want     int
	}{
		{"no income", nil, []int64{500}, 0},
		{"overspent goes above 100", []int64{100}, []int64{250}, 250},
		{"floors", []int64{300}, []int64{100}, 33},
		{"zero expense", []int64{100}, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SpentPercent(record(tc.incomes, tc.expenses)); got != tc.want {
				t.Fatalf("SpentPercent = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLeftoverNeverNegative(t *testing.T) {
	r := record([]int64{100}, []int64{600})
	if got := Balance(r); got != -500 {
		t.Fatalf("Balance = %d, want -500", got)
	}
	if got := Leftover(r); got != 0 {
		t.Fatalf("Leftover = %d, want 0", got)
	}
}

func TestSortForDisplay(t *testing.T) {
	entries := []Entry{
		{ID: "a", DateISO: "2026-07-01", CreatedAt: 1},
		{ID: "b", DateISO: "2026-07-15", CreatedAt: 2},
		{ID: "c", DateISO: "2026-07-15", CreatedAt: 5},
		{ID: "d", DateISO: "2026-07-03", CreatedAt: 9},
	}
	sorted := SortForDisplay(entries)
	want := []string{"c", "b", "d", "a"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("position %d: got %q, want %q (order %v)", i, sorted[i].ID, id, sorted)
		}
	}
	// Input order untouched
	if entries[0].ID != "a" {
		t.Fatalf("SortForDisplay mutated its input")
	}
}
