package http

import (
	"log/slog"
	"net/http"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

// entryRow is one displayed ledger line.
type entryRow struct {
	ID     string
	Kind   string
	Name   string
	Amount string
	Date   string
	Carry  bool
}

// quickRow is one quick-template button.
type quickRow struct {
	ID     string
	Name   string
	Amount string
	Day    int
}

// dashboardView is the data handed to the index template.
type dashboardView struct {
	MonthKey string
	TodayISO string

	TotalIncome  string
	TotalExpense string
	Balance      string
	Negative     bool
	SpentPercent int
	DonutSpent   int
	Leftover     string

	Incomes  []entryRow
	Expenses []entryRow

	Invested       string
	InvestTotal    string
	Profit         string
	ProfitNegative bool

	Quick []quickRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := core.CurrentMonthKey()
	rec, err := s.ledger.OpenMonth(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to open month",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	templates, err := s.ledger.QuickTemplates(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list quick templates", applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view := buildDashboard(key, rec, templates)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render dashboard",
			applog.FieldOperation, applog.OpRender, applog.FieldError, err)
	}
}

func buildDashboard(key string, rec *core.MonthRecord, templates []core.QuickTemplate) dashboardView {
	balance := core.Balance(rec)
	spent := core.TotalExpense(rec)
	left := core.Leftover(rec)
	profit := rec.Investments.ProfitCents()

	view := dashboardView{
		MonthKey:       key,
		TodayISO:       core.TodayISO(),
		TotalIncome:    core.FormatAmount(core.TotalIncome(rec)),
		TotalExpense:   core.FormatAmount(spent),
		Balance:        core.FormatAmount(balance),
		Negative:       balance < 0,
		SpentPercent:   core.SpentPercent(rec),
		DonutSpent:     donutSpent(spent, left),
		Leftover:       core.FormatAmount(left),
		Incomes:        entryRows(core.Income, core.SortForDisplay(rec.Incomes)),
		Expenses:       entryRows(core.Expense, core.SortForDisplay(rec.Expenses)),
		Invested:       core.FormatAmount(rec.Investments.InvestedCents),
		InvestTotal:    core.FormatAmount(rec.Investments.TotalCents),
		Profit:         core.FormatAmount(profit),
		ProfitNegative: profit < 0,
	}
	for _, tpl := range templates {
		view.Quick = append(view.Quick, quickRow{
			ID:     tpl.ID,
			Name:   tpl.Name,
			Amount: core.FormatAmount(tpl.AmountCents),
			Day:    tpl.DayOfMonth,
		})
	}
	return view
}

// donutSpent maps the spent share of spent+leftover onto the 0..100 dash
// length of the chart circle. The denominator is floored at one cent so an
// empty month renders an empty ring instead of dividing by zero.
func donutSpent(spentCents, leftoverCents int64) int {
	total := spentCents + leftoverCents
	if total < 1 {
		total = 1
	}
	p := int(spentCents * 100 / total)
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

func entryRows(kind core.EntryKind, entries []core.Entry) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow{
			ID:     e.ID,
			Kind:   string(kind),
			Name:   e.Name,
			Amount: core.FormatAmount(e.AmountCents),
			Date:   e.DateISO,
			Carry:  core.IsCarryEntryID(e.ID),
		})
	}
	return rows
}
