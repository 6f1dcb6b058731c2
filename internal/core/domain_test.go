package core

import (
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:          "a1",
		Description: "Lunch",
		Amount:      Money{Cents: 1250},
		Category:    "Food",
		Date:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "", Amount: Money{Cents: 1}, Category: "c", Date: good.Date},
		{Description: "a", Amount: Money{Cents: 0}, Category: "c", Date: good.Date},
		{Description: "a", Amount: Money{Cents: -5}, Category: "c", Date: good.Date},
		{Description: "a", Amount: Money{Cents: 1}, Category: "", Date: good.Date},
		{Description: "a", Amount: Money{Cents: 1}, Category: "c"}, // zero date
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNormalizeDescription(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Lunch", "Lunch"},
		{"  Lunch  ", "Lunch"},
		{"", FallbackDescription},
		{"   ", FallbackDescription},
	}
	for _, tc := range cases {
		if got := NormalizeDescription(tc.in); got != tc.out {
			t.Fatalf("NormalizeDescription(%q)=%q, want %q", tc.in, got, tc.out)
		}
	}
}
