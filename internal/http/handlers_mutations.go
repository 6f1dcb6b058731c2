package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
)

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	if err := s.svc.AddCategory(r.Context(), name); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Add category rejected", "category", name, "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, "Category added: "+name)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	if err := s.svc.DeleteCategory(r.Context(), name); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Delete category rejected", "category", name, "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, "Category deleted: "+name)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	desc := sanitizeInput(r.Form.Get("description"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	exp, err := s.svc.AddExpense(r.Context(), desc, core.Money{Cents: cents}, category)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Add expense rejected",
			"category", category, "amount_cents", cents, "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, "Expense recorded: "+exp.Description+" "+core.FormatDollars(exp.Amount.Cents))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusBadRequest, "Missing expense id")
		return
	}
	if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Delete expense rejected", "id", id, "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, "Expense deleted")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	if err := s.svc.ResetAll(r.Context()); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Reset failed", "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, "All expenses cleared")
}
