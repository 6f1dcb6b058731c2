package core

import (
	"fmt"
	"strings"
	"time"
)

// TimeFilter selects the window an expense date must fall in for it to
// count toward a total. FilterYear is the default mode; month and
// all-time are the alternate modes.
type TimeFilter string

const (
	FilterYear  TimeFilter = "year"
	FilterMonth TimeFilter = "month"
	FilterAll   TimeFilter = "all"
)

// DefaultFilter is applied when the caller does not pick a window.
const DefaultFilter = FilterYear

// ParseTimeFilter maps user input to a filter, falling back to the
// default for empty input.
func ParseTimeFilter(s string) (TimeFilter, error) {
	switch TimeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFilter, nil
	case FilterYear:
		return FilterYear, nil
	case FilterMonth:
		return FilterMonth, nil
	case FilterAll:
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown time filter %q", s)
}

func (f TimeFilter) IsValid() bool {
	switch f {
	case FilterYear, FilterMonth, FilterAll:
		return true
	}
	return false
}

// Matches reports whether date falls inside the window anchored at now.
// The caller passes a fresh now on every query; nothing is cached.
func (f TimeFilter) Matches(date, now time.Time) bool {
	switch f {
	case FilterYear:
		return date.Year() == now.Year()
	case FilterMonth:
		return date.Year() == now.Year() && date.Month() == now.Month()
	default:
		return true
	}
}
