package core

import (
	"errors"
	"strings"
	"time"
)

// FallbackDescription replaces an empty expense description.
const FallbackDescription = "(no description)"

// SnapshotVersion is written into exports. Imports accept documents
// with or without it.
const SnapshotVersion = 1

// DefaultCategories seeds a store that has no persisted state yet.
func DefaultCategories() []string {
	return []string{"Food", "Transportation", "Entertainment", "Utilities"}
}

type (
	Money struct {
		Cents int64
	}

	// Expense is a single dated monetary record assigned to exactly one
	// category. Category is a back-reference by name, not an ownership
	// pointer; deleting the category cascades to its expenses.
	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
	}

	// Snapshot is a serializable copy of the full state, used for
	// export and import.
	Snapshot struct {
		Version    int       `json:"version,omitempty"`
		Categories []string  `json:"categories"`
		Expenses   []Expense `json:"expenses"`
		ExportDate time.Time `json:"exportDate"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category name")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsZero() {
		return errors.New("zero expense date")
	}
	return nil
}

// NormalizeDescription trims the description and substitutes the
// fallback label when nothing remains.
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return FallbackDescription
	}
	return s
}
