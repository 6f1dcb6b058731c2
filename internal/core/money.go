// Package core holds the expense/category domain model and its derived
// view computations.
//
// Money is kept as integer cents everywhere; decimal strings exist only
// at the boundaries (user input, JSON blobs, display).
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a user-supplied decimal string to cents
// with half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) separators. Only
// strictly positive amounts are valid; signs, zero, and anything
// non-numeric return ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// parseCents is the lenient decimal-to-cents conversion shared by user
// input parsing and JSON decoding. Zero is allowed here; signs are not.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits are cents; third digit rounds half-up.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Decimal returns the amount as plain decimal text, e.g. "12.50".
// This is also the wire representation inside persisted blobs.
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// FormatDollars renders cents for display, e.g. "$12.50".
func FormatDollars(cents int64) string {
	if cents < 0 {
		return "-$" + Money{Cents: -cents}.Decimal()
	}
	return "$" + Money{Cents: cents}.Decimal()
}

// MarshalJSON writes the amount as a decimal JSON number with exactly
// two fractional digits, so blobs never accumulate binary float drift.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal()), nil
}

// UnmarshalJSON reads either a JSON number or a quoted decimal string.
// Parsing is textual; the value never round-trips through float64.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	// Scientific notation would mean the blob was written by hand;
	// reject it rather than guess.
	cents, err := parseCents(s)
	if err != nil {
		return fmt.Errorf("decode amount %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}
