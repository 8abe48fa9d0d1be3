package http

import (
	"log/slog"
	"net/http"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

func (s *Server) handleSetInvestments(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
		return
	}

	investedCents, err := core.ParseAmount(r.FormValue("invested"))
	if err != nil {
		renderFormError(w, "Sumă investită invalidă")
		return
	}
	totalCents, err := core.ParseAmount(r.FormValue("total"))
	if err != nil {
		renderFormError(w, "Valoare totală invalidă")
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
	if err := s.ledger.SetInvestmentSnapshot(r.Context(), key, rec, investedCents, totalCents); err != nil {
		slog.ErrorContext(r.Context(), "Failed to set investments",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}
