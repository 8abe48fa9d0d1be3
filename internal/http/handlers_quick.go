package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	"github.com/mocanunicolaemarius-del/buget/internal/ledger"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

func (s *Server) handleApplyQuick(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
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
	if _, err := s.ledger.ApplyQuickTemplate(r.Context(), key, rec, id); err != nil {
		if errors.Is(err, ledger.ErrTemplateNotFound) {
			// Stale button after a delete in another tab; nothing to apply.
			redirectHome(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to apply quick template",
			applog.FieldTemplateID, id, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}

func (s *Server) handleDeleteQuick(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderFormError(w, "Formular invalid")
		return
	}

	id := r.FormValue("id")
	if err := s.ledger.DeleteQuickTemplate(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete quick template",
			applog.FieldTemplateID, id, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}
