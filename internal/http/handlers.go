package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
)

type categoryRow struct {
	Name   string
	Amount string
	Width  int
}

type overviewView struct {
	Filter string
	Total  string
	Rows   []categoryRow
}

type expenseRow struct {
	ID          string
	Description string
	Amount      string
	Date        string
}

func buildOverviewView(ov core.Overview) overviewView {
	view := overviewView{
		Filter: string(ov.Filter),
		Total:  core.FormatDollars(ov.Total.Cents),
	}

	var maxCents int64
	for _, c := range ov.ByCategory {
		if c.Amount.Cents > maxCents {
			maxCents = c.Amount.Cents
		}
	}

	for _, c := range ov.ByCategory {
		width := 0
		if maxCents > 0 && c.Amount.Cents > 0 {
			width = int((c.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		view.Rows = append(view.Rows, categoryRow{
			Name:   c.Name,
			Amount: core.FormatDollars(c.Amount.Cents),
			Width:  width,
		})
	}
	return view
}

func (s *Server) getOverview(filter core.TimeFilter) core.Overview {
	key := string(filter)
	if ov, found := s.overviewCache.Get(key); found {
		return ov
	}
	ov := s.svc.Store().Overview(filter)
	s.overviewCache.Set(key, ov)
	return ov
}

func (s *Server) getCategoryExpenses(category string) []core.Expense {
	if items, found := s.expensesCache.Get(category); found {
		out := make([]core.Expense, len(items))
		copy(out, items)
		return out
	}
	items := s.svc.Store().CategoryExpenses(category)
	s.expensesCache.Set(category, items)
	return items
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	filter := s.filterFromRequest(r)
	ov := s.getOverview(filter)

	data := struct {
		Filter     string
		Categories []string
		Overview   overviewView
	}{
		Filter:     string(filter),
		Categories: s.svc.Store().Categories(),
		Overview:   buildOverviewView(ov),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCategoriesPartial renders the per-category totals partial.
func (s *Server) handleCategoriesPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	filter := s.filterFromRequest(r)
	view := buildOverviewView(s.getOverview(filter))

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="categories" class="categories"><div class="placeholder">Total: ` + view.Total + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "categories.html", view); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution error", "error", err, "template", "categories.html", "filter", view.Filter)
		_, _ = w.Write([]byte(`<section id="categories" class="categories"><div class="placeholder">Error rendering categories</div></section>`))
	}
}

// handleExpensesPartial renders one category's expense list, newest first.
func (s *Server) handleExpensesPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	category := sanitizeInput(r.URL.Query().Get("category"))
	if category == "" {
		writeErrorFragment(w, http.StatusBadRequest, "Missing category")
		return
	}

	items := s.getCategoryExpenses(category)

	data := struct {
		Category string
		Rows     []expenseRow
	}{Category: category}
	for _, e := range items {
		data.Rows = append(data.Rows, expenseRow{
			ID:          e.ID,
			Description: e.Description,
			Amount:      core.FormatDollars(e.Amount.Cents),
			Date:        e.Date.Format("Jan 2, 2006"),
		})
	}

	if s.templates == nil {
		var b strings.Builder
		b.WriteString(`<ul class="expenses">`)
		for _, row := range data.Rows {
			b.WriteString(`<li>` + row.Description + ` ` + row.Amount + `</li>`)
		}
		b.WriteString(`</ul>`)
		_, _ = w.Write([]byte(b.String()))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "expenses.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution error", "error", err, "template", "expenses.html", "category", category)
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering expenses</div>`))
	}
}
