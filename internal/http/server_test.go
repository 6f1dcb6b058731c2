package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"budget/internal/core"
	"budget/internal/services"
	"budget/internal/storage"
	"budget/internal/store"
)

func newTestServer(t *testing.T) (*Server, *services.BudgetService) {
	t.Helper()
	st, err := store.Open(context.Background(), storage.NewMemoryRepository())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := services.NewBudgetService(st, nil)
	srv := NewServer(":0", svc, core.FilterYear, nil)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, svc
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/")
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Budget Tracker") {
		t.Fatalf("index body missing heading")
	}
	// Default categories appear in the expense form select.
	for _, name := range core.DefaultCategories() {
		if !strings.Contains(body, name) {
			t.Fatalf("index body missing default category %q", name)
		}
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(t, srv, path)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	if rr := get(t, srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status=%d, want 404", rr.Code)
	}
}

func TestCreateCategory(t *testing.T) {
	srv, svc := newTestServer(t)

	rr := postForm(t, srv, "/categories", url.Values{"name": {"Books"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("HX-Trigger") != "state:changed" {
		t.Fatalf("missing HX-Trigger header")
	}

	// Duplicate
	rr = postForm(t, srv, "/categories", url.Values{"name": {"Books"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate: expected 422, got %d", rr.Code)
	}

	// Empty
	rr = postForm(t, srv, "/categories", url.Values{"name": {"  "}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty: expected 422, got %d", rr.Code)
	}

	found := false
	for _, c := range svc.Store().Categories() {
		if c == "Books" {
			found = true
		}
	}
	if !found {
		t.Fatal("Books category not committed")
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv, svc := newTestServer(t)

	// Wrong method
	rr := get(t, srv, "/expenses")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = postForm(t, srv, "/expenses", url.Values{
		"description": {"coffee"}, "amount": {"abc"}, "category": {"Food"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad amount: expected 422, got %d", rr.Code)
	}

	// Zero amount
	rr = postForm(t, srv, "/expenses", url.Values{
		"description": {"coffee"}, "amount": {"0"}, "category": {"Food"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero amount: expected 422, got %d", rr.Code)
	}

	// Unknown category
	rr = postForm(t, srv, "/expenses", url.Values{
		"description": {"coffee"}, "amount": {"3.50"}, "category": {"Nope"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown category: expected 422, got %d", rr.Code)
	}

	// Success, blank description falls back
	rr = postForm(t, srv, "/expenses", url.Values{
		"description": {""}, "amount": {"3.50"}, "category": {"Food"},
	})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}

	items := svc.Store().CategoryExpenses("Food")
	if len(items) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(items))
	}
	if items[0].Description != core.FallbackDescription {
		t.Fatalf("description = %q", items[0].Description)
	}
	if items[0].Amount.Cents != 350 {
		t.Fatalf("cents = %d", items[0].Amount.Cents)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv, svc := newTestServer(t)

	exp, err := svc.AddExpense(context.Background(), "lunch", core.Money{Cents: 1250}, "Food")
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	rr := postForm(t, srv, "/expenses/delete", url.Values{"id": {exp.ID}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := svc.Store().CategoryExpenses("Food"); len(got) != 0 {
		t.Fatalf("expense still present: %v", got)
	}

	rr = postForm(t, srv, "/expenses/delete", url.Values{"id": {exp.ID}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", rr.Code)
	}

	rr = postForm(t, srv, "/expenses/delete", url.Values{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("no id: expected 400, got %d", rr.Code)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.AddExpense(ctx, "bus", core.Money{Cents: 300}, "Transportation"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := postForm(t, srv, "/categories/delete", url.Values{"name": {"Food"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	snap := svc.ExportAll()
	for _, c := range snap.Categories {
		if c == "Food" {
			t.Fatal("Food still in categories")
		}
	}
	if len(snap.Expenses) != 1 || snap.Expenses[0].Category != "Transportation" {
		t.Fatalf("cascade failed: %+v", snap.Expenses)
	}

	rr = postForm(t, srv, "/categories/delete", url.Values{"name": {"Food"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing category: expected 404, got %d", rr.Code)
	}
}

func TestResetClearsExpenses(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := svc.AddExpense(context.Background(), "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := postForm(t, srv, "/reset", url.Values{})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	snap := svc.ExportAll()
	if len(snap.Expenses) != 0 {
		t.Fatalf("expenses not cleared: %v", snap.Expenses)
	}
	if len(snap.Categories) == 0 {
		t.Fatal("categories should survive reset")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := svc.AddExpense(context.Background(), "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := get(t, srv, "/export")
	if rr.Code != 200 {
		t.Fatalf("export status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("export body not a snapshot: %v", err)
	}
	if len(snap.Expenses) != 1 || snap.Expenses[0].Amount.Cents != 1250 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Wipe, then import the export back.
	if err := svc.ResetAll(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rr2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(rr.Body.String()))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("import status=%d: %s", rr2.Code, rr2.Body.String())
	}

	got := svc.ExportAll()
	if len(got.Expenses) != 1 || got.Expenses[0].Description != "lunch" {
		t.Fatalf("state after import = %+v", got.Expenses)
	}
}

func TestImportRejectsBadSnapshot(t *testing.T) {
	srv, svc := newTestServer(t)
	before := svc.ExportAll()

	cases := []string{
		`{broken`,
		`{"categories": ["A"]}`,
		`{"expenses": []}`,
		`{"version": 99, "categories": ["A"], "expenses": []}`,
	}
	for _, body := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %q: status=%d, want 422", body, rr.Code)
		}
	}

	after := svc.ExportAll()
	if len(after.Categories) != len(before.Categories) || len(after.Expenses) != len(before.Expenses) {
		t.Fatal("rejected imports must not mutate state")
	}
}

func TestCategoriesPartial(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := svc.AddExpense(context.Background(), "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := get(t, srv, "/ui/categories?filter=all")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Food") || !strings.Contains(body, "$12.50") {
		t.Fatalf("partial missing data: %s", body)
	}
}

func TestExpensesPartial(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := svc.AddExpense(context.Background(), "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := get(t, srv, "/ui/expenses?category=Food")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "lunch") {
		t.Fatalf("partial missing expense: %s", rr.Body.String())
	}

	rr = get(t, srv, "/ui/expenses")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing category: status=%d, want 400", rr.Code)
	}
}

func TestMutationInvalidatesCachedPartial(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, "lunch", core.Money{Cents: 1250}, "Food"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Prime the cache.
	if rr := get(t, srv, "/ui/categories?filter=all"); !strings.Contains(rr.Body.String(), "$12.50") {
		t.Fatalf("expected primed total, got %s", rr.Body.String())
	}

	// Mutate through the handler so the cache is invalidated.
	rr := postForm(t, srv, "/expenses", url.Values{
		"description": {"snack"}, "amount": {"0.50"}, "category": {"Food"},
	})
	if rr.Code != 200 {
		t.Fatalf("mutation status=%d", rr.Code)
	}

	if rr := get(t, srv, "/ui/categories?filter=all"); !strings.Contains(rr.Body.String(), "$13.00") {
		t.Fatalf("expected refreshed total, got %s", rr.Body.String())
	}
}
