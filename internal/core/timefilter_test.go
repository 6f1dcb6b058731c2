package core

import (
	"testing"
	"time"
)

func TestParseTimeFilter(t *testing.T) {
	cases := []struct {
		in  string
		out TimeFilter
		ok  bool
	}{
		{"", FilterYear, true},
		{"year", FilterYear, true},
		{"month", FilterMonth, true},
		{"all", FilterAll, true},
		{" Month ", FilterMonth, true},
		{"week", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTimeFilter(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestTimeFilterMatches(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		filter TimeFilter
		date   time.Time
		want   bool
	}{
		{FilterYear, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{FilterYear, time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), false},
		{FilterMonth, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), true},
		{FilterMonth, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), false},
		{FilterMonth, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), false},
		{FilterAll, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for i, tc := range cases {
		if got := tc.filter.Matches(tc.date, now); got != tc.want {
			t.Fatalf("case %d: %s.Matches(%v)=%v, want %v", i, tc.filter, tc.date, got, tc.want)
		}
	}
}
