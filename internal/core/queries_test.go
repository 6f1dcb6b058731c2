package core

import (
	"testing"
	"time"
)

func expense(id, cat string, cents int64, date time.Time) Expense {
	return Expense{ID: id, Description: id, Amount: Money{Cents: cents}, Category: cat, Date: date}
}

func TestCategoryTotal(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense("a", "Food", 1250, now.AddDate(0, 0, -1)),           // this month
		expense("b", "Food", 500, now.AddDate(0, -2, 0)),            // this year, other month
		expense("c", "Food", 300, now.AddDate(-1, 0, 0)),            // last year
		expense("d", "Transportation", 999, now.AddDate(0, 0, -1)),  // other category
	}

	cases := []struct {
		filter TimeFilter
		want   int64
	}{
		{FilterMonth, 1250},
		{FilterYear, 1750},
		{FilterAll, 2050},
	}
	for _, tc := range cases {
		got := CategoryTotal(expenses, "Food", tc.filter, now)
		if got.Cents != tc.want {
			t.Fatalf("filter %q: got %d, want %d", tc.filter, got.Cents, tc.want)
		}
	}

	if got := CategoryTotal(expenses, "Missing", FilterAll, now); got.Cents != 0 {
		t.Fatalf("missing category total = %d, want 0", got.Cents)
	}
}

func TestCategoryTotalAdditive(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	base := []Expense{expense("a", "Food", 100, now)}
	before := CategoryTotal(base, "Food", FilterYear, now)

	grown := append(base,
		expense("b", "Food", 250, now),
		expense("c", "Food", 75, now))
	after := CategoryTotal(grown, "Food", FilterYear, now)

	if after.Cents != before.Cents+250+75 {
		t.Fatalf("expected %d, got %d", before.Cents+325, after.Cents)
	}
}

func TestCategoryExpensesNewestFirst(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)
	t3 := t1.AddDate(0, 2, 0)
	expenses := []Expense{
		expense("first", "Food", 1, t1),
		expense("second", "Food", 2, t2),
		expense("third", "Food", 3, t3),
		expense("other", "Utilities", 4, t3),
	}

	got := CategoryExpenses(expenses, "Food")
	if len(got) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].ID != want {
			t.Fatalf("position %d: got %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestCategoryExpensesStableOnTies(t *testing.T) {
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense("x", "Food", 1, ts),
		expense("y", "Food", 2, ts),
		expense("z", "Food", 3, ts),
	}
	for run := 0; run < 3; run++ {
		got := CategoryExpenses(expenses, "Food")
		for i, want := range []string{"x", "y", "z"} {
			if got[i].ID != want {
				t.Fatalf("run %d position %d: got %q, want %q", run, i, got[i].ID, want)
			}
		}
	}
}

func TestBuildOverview(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	categories := []string{"Food", "Transportation"}
	expenses := []Expense{
		expense("a", "Food", 1000, now),
		expense("b", "Transportation", 500, now),
		expense("c", "Food", 200, now.AddDate(-1, 0, 0)), // outside year window
	}

	ov := BuildOverview(categories, expenses, FilterYear, now)
	if ov.Total.Cents != 1500 {
		t.Fatalf("total = %d, want 1500", ov.Total.Cents)
	}
	if len(ov.ByCategory) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ov.ByCategory))
	}
	if ov.ByCategory[0].Name != "Food" || ov.ByCategory[0].Amount.Cents != 1000 {
		t.Fatalf("unexpected first row: %+v", ov.ByCategory[0])
	}
}
