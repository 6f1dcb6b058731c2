// Package store owns the in-memory category and expense collections
// and keeps them in sync with a Repository after every mutation.
//
// Mutators validate first, persist the full new state, and only then
// commit it to memory, so a failed write never leaves the collections
// and the blob store disagreeing.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"budget/internal/core"

	"github.com/google/uuid"
)

// Repository persists the two collections as a unit. Implementations
// must write atomically: a concurrent Load sees either the prior full
// state or the new full state, never a mix.
type Repository interface {
	Load(ctx context.Context) (categories []string, expenses []core.Expense, err error)
	Save(ctx context.Context, categories []string, expenses []core.Expense) error
}

var (
	// ErrNoState is returned by Repository.Load when nothing has been
	// persisted yet; the store seeds the default categories.
	ErrNoState = errors.New("no persisted state")

	// ErrCorruptState is returned by Repository.Load when the persisted
	// blobs exist but cannot be decoded. The store falls back to the
	// default seed rather than crashing startup.
	ErrCorruptState = errors.New("corrupt persisted state")

	ErrEmptyCategoryName = errors.New("empty category name")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrInvalidSnapshot   = errors.New("invalid snapshot format")
)

// Store holds the live collections. The HTTP layer calls in
// concurrently, so a mutex serializes every operation.
type Store struct {
	mu         sync.Mutex
	repo       Repository
	categories []string
	expenses   []core.Expense

	now   func() time.Time
	newID func() string
}

// Open hydrates a store from repo. Missing state seeds the default
// categories; corrupt state logs a warning and does the same. Any
// other load failure propagates.
func Open(ctx context.Context, repo Repository) (*Store, error) {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}

	cats, exps, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.categories = cats
		s.expenses = exps
	case errors.Is(err, ErrNoState):
		s.categories = core.DefaultCategories()
	case errors.Is(err, ErrCorruptState):
		slog.WarnContext(ctx, "Persisted state unreadable, starting from defaults", "error", err)
		s.categories = core.DefaultCategories()
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}
	return s, nil
}

// AddCategory appends a new category name. Empty and duplicate names
// are rejected with distinct errors so the view layer can show the
// right message.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c == name {
			return ErrDuplicateCategory
		}
	}

	cats := append(copyStrings(s.categories), name)
	if err := s.persist(ctx, cats, s.expenses); err != nil {
		return err
	}
	s.categories = cats

	slog.InfoContext(ctx, "Category added", "category", name, "count", len(cats))
	return nil
}

// DeleteCategory removes the category and cascades: every expense
// referencing it is deleted too. The caller is responsible for having
// confirmed this with the user first.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.categories {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCategoryNotFound
	}

	cats := append(copyStrings(s.categories[:idx]), s.categories[idx+1:]...)
	var exps []core.Expense
	removed := 0
	for _, e := range s.expenses {
		if e.Category == name {
			removed++
			continue
		}
		exps = append(exps, e)
	}

	if err := s.persist(ctx, cats, exps); err != nil {
		return err
	}
	s.categories = cats
	s.expenses = exps

	slog.InfoContext(ctx, "Category deleted", "category", name, "cascaded_expenses", removed)
	return nil
}

// AddExpense validates the amount and category reference, stamps a
// fresh id and the current time, and appends.
func (s *Store) AddExpense(ctx context.Context, description string, amount core.Money, category string) (core.Expense, error) {
	if amount.Cents <= 0 {
		return core.Expense{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, c := range s.categories {
		if c == category {
			known = true
			break
		}
	}
	if !known {
		return core.Expense{}, ErrUnknownCategory
	}

	e := core.Expense{
		ID:          s.newID(),
		Description: core.NormalizeDescription(description),
		Amount:      amount,
		Category:    category,
		Date:        s.now().UTC(),
	}

	exps := append(copyExpenses(s.expenses), e)
	if err := s.persist(ctx, s.categories, exps); err != nil {
		return core.Expense{}, err
	}
	s.expenses = exps

	slog.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return e, nil
}

// DeleteExpense removes exactly the expense with the given id.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrExpenseNotFound
	}

	exps := append(copyExpenses(s.expenses[:idx]), s.expenses[idx+1:]...)
	if err := s.persist(ctx, s.categories, exps); err != nil {
		return err
	}
	s.expenses = exps

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// ResetAll clears every expense and keeps the categories. Irreversible;
// confirmation is the view layer's job.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, s.categories, nil); err != nil {
		return err
	}
	cleared := len(s.expenses)
	s.expenses = nil

	slog.InfoContext(ctx, "All expenses cleared", "count", cleared)
	return nil
}

// ImportAll replaces both collections wholesale. A snapshot missing
// either collection, or carrying empty or duplicate category names or
// expense ids, is rejected with no partial mutation.
func (s *Store) ImportAll(ctx context.Context, snap core.Snapshot) error {
	if snap.Categories == nil || snap.Expenses == nil {
		return ErrInvalidSnapshot
	}
	seen := make(map[string]struct{}, len(snap.Categories))
	for _, c := range snap.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty category name", ErrInvalidSnapshot)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidSnapshot, c)
		}
		seen[c] = struct{}{}
	}
	// Ids are the sole deletion key, so a snapshot reusing one would
	// make DeleteExpense ambiguous forever after.
	ids := make(map[string]struct{}, len(snap.Expenses))
	for _, e := range snap.Expenses {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: expense with empty id", ErrInvalidSnapshot)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("%w: duplicate expense id %q", ErrInvalidSnapshot, e.ID)
		}
		ids[e.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats := copyStrings(snap.Categories)
	exps := copyExpenses(snap.Expenses)
	if err := s.persist(ctx, cats, exps); err != nil {
		return err
	}
	s.categories = cats
	s.expenses = exps

	slog.InfoContext(ctx, "State imported", "categories", len(cats), "expenses", len(exps))
	return nil
}

// ExportAll returns a snapshot of the full state. Read-only.
func (s *Store) ExportAll() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return core.Snapshot{
		Version:    core.SnapshotVersion,
		Categories: copyStrings(s.categories),
		Expenses:   copyExpenses(s.expenses),
		ExportDate: s.now().UTC(),
	}
}

// Categories returns the category names in insertion order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStrings(s.categories)
}

// CategoryTotal computes the windowed total for one category against
// the current wall clock.
func (s *Store) CategoryTotal(category string, filter core.TimeFilter) core.Money {
	s.mu.Lock()
	exps := copyExpenses(s.expenses)
	s.mu.Unlock()
	return core.CategoryTotal(exps, category, filter, s.now())
}

// CategoryExpenses lists one category's expenses newest first.
func (s *Store) CategoryExpenses(category string) []core.Expense {
	s.mu.Lock()
	exps := copyExpenses(s.expenses)
	s.mu.Unlock()
	return core.CategoryExpenses(exps, category)
}

// Overview computes every category's windowed total plus the grand
// total, in category insertion order.
func (s *Store) Overview(filter core.TimeFilter) core.Overview {
	s.mu.Lock()
	cats := copyStrings(s.categories)
	exps := copyExpenses(s.expenses)
	s.mu.Unlock()
	return core.BuildOverview(cats, exps, filter, s.now())
}

// persist writes the candidate state. Called with the lock held; saves
// complete before the mutator returns so a read in the same tick
// observes the new state.
func (s *Store) persist(ctx context.Context, categories []string, expenses []core.Expense) error {
	if err := s.repo.Save(ctx, categories, expenses); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyExpenses(in []core.Expense) []core.Expense {
	if in == nil {
		return nil
	}
	out := make([]core.Expense, len(in))
	copy(out, in)
	return out
}
