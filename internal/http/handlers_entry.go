package http

import (
	"log/slog"
	"net/http"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	s.addEntry(w, r, core.Income)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	s.addEntry(w, r, core.Expense)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request, kind core.EntryKind) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
		return
	}

	name := sanitizeInput(r.FormValue("name"))
	if name == "" {
		renderFormError(w, "Numele nu poate fi gol")
		return
	}
	amountCents, err := core.ParseAmount(r.FormValue("amount"))
	if err != nil {
		renderFormError(w, "Sumă invalidă")
		return
	}
	date := r.FormValue("date")
	if date == "" {
		date = core.TodayISO()
	}

	key := core.CurrentMonthKey()
	rec, err := s.ledger.OpenMonth(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to open month",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if _, err := s.ledger.AddEntry(r.Context(), key, rec, kind, name, amountCents, date); err != nil {
		if err == core.ErrInvalidDate {
			renderFormError(w, "Dată invalidă")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to add entry",
			applog.FieldMonthKey, key,
			applog.FieldEntryKind, string(kind),
			applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// An expense can be remembered as a quick template in the same submit.
	if kind == core.Expense && r.FormValue("save_quick") == "on" {
		day := dayFromDateISO(date)
		if _, err := s.ledger.SaveQuickTemplate(r.Context(), name, amountCents, day); err != nil {
			slog.WarnContext(r.Context(), "Failed to save quick template",
				applog.FieldEntryName, name, applog.FieldError, err)
		}
	}

	redirectHome(w, r)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
		return
	}

	kind := core.EntryKind(r.FormValue("kind"))
	if err := kind.Validate(); err != nil {
		renderFormError(w, "Tip de intrare invalid")
		return
	}
	id := r.FormValue("id")
	if id == "" {
		renderFormError(w, "Intrare lipsă")
		return
	}
	amountCents, err := core.ParseAmount(r.FormValue("amount"))
	if err != nil {
		renderFormError(w, "Sumă invalidă")
		return
	}
	name := sanitizeInput(r.FormValue("name"))
	date := r.FormValue("date")

	key := core.CurrentMonthKey()
	rec, err := s.ledger.OpenMonth(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to open month",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := s.ledger.EditEntry(r.Context(), key, rec, kind, id, name, amountCents, date); err != nil {
		if err == core.ErrInvalidDate {
			renderFormError(w, "Dată invalidă")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update entry",
			applog.FieldMonthKey, key,
			applog.FieldEntryID, id,
			applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
		return
	}

	kind := core.EntryKind(r.FormValue("kind"))
	if err := kind.Validate(); err != nil {
		renderFormError(w, "Tip de intrare invalid")
		return
	}
	id := r.FormValue("id")

	key := core.CurrentMonthKey()
	rec, err := s.ledger.OpenMonth(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to open month",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := s.ledger.DeleteEntry(r.Context(), key, rec, kind, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete entry",
			applog.FieldMonthKey, key,
			applog.FieldEntryID, id,
			applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}

func (s *Server) handleResetMonth(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	key := core.CurrentMonthKey()
	if _, err := s.ledger.ResetMonth(r.Context(), key); err != nil {
		slog.ErrorContext(r.Context(), "Failed to reset month",
			applog.FieldMonthKey, key, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}
