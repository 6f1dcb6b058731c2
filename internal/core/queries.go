package core

import (
	"sort"
	"time"
)

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Overview is the derived view of every category with its windowed
// total. It is computed fresh on demand, never stored.
type Overview struct {
	Filter     TimeFilter
	Total      Money
	ByCategory []CategoryAmount
}

// CategoryTotal sums the amounts of the expenses that reference
// category and whose date falls in the window selected by filter,
// anchored at now.
func CategoryTotal(expenses []Expense, category string, filter TimeFilter, now time.Time) Money {
	var cents int64
	for _, e := range expenses {
		if e.Category != category {
			continue
		}
		if !filter.Matches(e.Date, now) {
			continue
		}
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// CategoryExpenses returns the expenses referencing category, newest
// first. The sort is stable: expenses with identical dates keep their
// insertion order between calls.
func CategoryExpenses(expenses []Expense, category string) []Expense {
	var out []Expense
	for _, e := range expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// BuildOverview computes the windowed total for every category in
// order, plus the grand total.
func BuildOverview(categories []string, expenses []Expense, filter TimeFilter, now time.Time) Overview {
	ov := Overview{Filter: filter}
	for _, c := range categories {
		amt := CategoryTotal(expenses, c, filter, now)
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{Name: c, Amount: amt})
		ov.Total.Cents += amt.Cents
	}
	return ov
}
