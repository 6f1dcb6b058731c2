package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"budget/internal/core"
	"budget/internal/store"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1 // remove character
		}
		return r
	}, s)
	return result
}

// filterFromRequest reads the time filter from the query string or form,
// falling back to the server default when absent or unparseable.
func (s *Server) filterFromRequest(r *http.Request) core.TimeFilter {
	v := strings.TrimSpace(r.URL.Query().Get("filter"))
	if v == "" {
		v = strings.TrimSpace(r.FormValue("filter"))
	}
	if v == "" {
		return s.defaultFilter
	}
	f, err := core.ParseTimeFilter(v)
	if err != nil {
		return s.defaultFilter
	}
	return f
}

func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccessFragment(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrEmptyCategoryName),
		errors.Is(err, store.ErrDuplicateCategory),
		errors.Is(err, store.ErrUnknownCategory),
		errors.Is(err, store.ErrInvalidSnapshot),
		errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrCategoryNotFound),
		errors.Is(err, store.ErrExpenseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
