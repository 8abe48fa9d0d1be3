package core

import "sort"

// TotalIncome sums the income amounts of the record.
func TotalIncome(r *MonthRecord) int64 {
	return sumCents(r.Incomes)
}

// TotalExpense sums the expense amounts of the record.
func TotalExpense(r *MonthRecord) int64 {
	return sumCents(r.Expenses)
}

// Balance is total income minus total expense, signed.
func Balance(r *MonthRecord) int64 {
	return TotalIncome(r) - TotalExpense(r)
}

// Leftover is the non-negative part of the balance, used for display
// proportions only and never persisted.
func Leftover(r *MonthRecord) int64 {
	if b := Balance(r); b > 0 {
		return b
	}
	return 0
}

// SpentPercent is floor(expense/income*100), 0 when income is zero or
// negative. Deliberately not capped at 100: overspending shows as >100%.
func SpentPercent(r *MonthRecord) int {
	inc := TotalIncome(r)
	if inc <= 0 {
		return 0
	}
	p := int(TotalExpense(r) * 100 / inc)
	if p < 0 {
		return 0
	}
	return p
}

// SortForDisplay returns a copy ordered newest-first: date descending, then
// creation time descending as tie-break.
func SortForDisplay(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateISO == out[j].DateISO {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].DateISO > out[j].DateISO
	})
	return out
}

func sumCents(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.AmountCents
	}
	return total
}
