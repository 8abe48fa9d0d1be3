package core

import (
	"errors"
	"regexp"
	"strings"
)

const (
	Income  EntryKind = "income"
	Expense EntryKind = "expense"
)

// CarryEntryName labels the synthetic income carrying last month's surplus.
const CarryEntryName = "Sold luna trecută"

type (
	EntryKind string

	// Entry is a single income or expense line in a month.
	Entry struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AmountCents int64  `json:"amountCents"`
		DateISO     string `json:"dateISO"`
		CreatedAt   int64  `json:"createdAt"` // epoch millis, display tie-break
	}

	// InvestmentSnapshot holds the per-month invested vs. current totals.
	// It is replaced wholesale on every submission.
	InvestmentSnapshot struct {
		InvestedCents int64 `json:"investedCents"`
		TotalCents    int64 `json:"totalCents"`
	}

	// MonthRecord is the unit of persistence, keyed by a YYYY-MM month key.
	MonthRecord struct {
		Incomes     []Entry            `json:"incomes"`
		Expenses    []Entry            `json:"expenses"`
		Investments InvestmentSnapshot `json:"investments"`
		// CarryAppliedFrom holds the predecessor key whose balance was
		// already carried in, empty until carry-over runs.
		CarryAppliedFrom string `json:"carryAppliedFrom,omitempty"`
	}

	// QuickTemplate is a reusable expense shortcut stored outside any month.
	QuickTemplate struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AmountCents int64  `json:"amountCents"`
		DayOfMonth  int    `json:"dayOfMonth"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDay      = errors.New("invalid day of month")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidKind     = errors.New("invalid entry kind")
)

var dateISORe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (k EntryKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.AmountCents < 0 {
		return ErrInvalidAmount
	}
	if !dateISORe.MatchString(e.DateISO) {
		return ErrInvalidDate
	}
	return nil
}

func (s InvestmentSnapshot) Validate() error {
	if s.InvestedCents < 0 || s.TotalCents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ProfitCents is derived and may be negative.
func (s InvestmentSnapshot) ProfitCents() int64 {
	return s.TotalCents - s.InvestedCents
}

func (t QuickTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.AmountCents < 0 {
		return ErrInvalidAmount
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	return nil
}

// TemplateID derives the stable template id from the display name, so saving
// a template under the same name overwrites instead of duplicating.
func TemplateID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CarryEntryID derives the fixed id of the carry-over entry injected from the
// given predecessor month. Deterministic so repeated carry-over computation
// cannot produce duplicates.
func CarryEntryID(prevKey string) string {
	return "carry_" + prevKey
}

// IsCarryEntryID reports whether the id names a synthetic carry-over entry.
// The id is the carry entry's identity; a user entry may share its label.
func IsCarryEntryID(id string) bool {
	return strings.HasPrefix(id, "carry_")
}

// NewMonthRecord returns a zero-valued record for a fresh month.
func NewMonthRecord() *MonthRecord {
	return &MonthRecord{
		Incomes:  []Entry{},
		Expenses: []Entry{},
	}
}

// Entries returns the list for the given kind.
func (r *MonthRecord) Entries(kind EntryKind) []Entry {
	if kind == Income {
		return r.Incomes
	}
	return r.Expenses
}

// Append adds an entry to the list for the given kind.
func (r *MonthRecord) Append(kind EntryKind, e Entry) {
	if kind == Income {
		r.Incomes = append(r.Incomes, e)
		return
	}
	r.Expenses = append(r.Expenses, e)
}

// Find returns a pointer into the record's list, or nil when the id is absent.
func (r *MonthRecord) Find(kind EntryKind, id string) *Entry {
	list := r.Incomes
	if kind == Expense {
		list = r.Expenses
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// Remove deletes the entry with the given id. Reports whether anything was
// removed; a missing id is not an error.
func (r *MonthRecord) Remove(kind EntryKind, id string) bool {
	list := r.Entries(kind)
	out := make([]Entry, 0, len(list))
	removed := false
	for _, e := range list {
		if e.ID == id {
			removed = true
			continue
		}
		out = append(out, e)
	}
	if kind == Income {
		r.Incomes = out
	} else {
		r.Expenses = out
	}
	return removed
}

// Clone returns a deep copy, so stores can hand out records without aliasing
// their internal state.
func (r *MonthRecord) Clone() *MonthRecord {
	c := &MonthRecord{
		Incomes:          make([]Entry, len(r.Incomes)),
		Expenses:         make([]Entry, len(r.Expenses)),
		Investments:      r.Investments,
		CarryAppliedFrom: r.CarryAppliedFrom,
	}
	copy(c.Incomes, r.Incomes)
	copy(c.Expenses, r.Expenses)
	return c
}
