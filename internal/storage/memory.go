package storage

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/store"
)

// MemoryRepository keeps the blobs in process memory. Used for tests
// and for running without any persistence configured.
type MemoryRepository struct {
	mu         sync.Mutex
	saved      bool
	categories []string
	expenses   []core.Expense
}

var _ store.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewSeededMemoryRepository starts with the given state already
// "persisted", as if a previous run had saved it.
func NewSeededMemoryRepository(categories []string, expenses []core.Expense) *MemoryRepository {
	return &MemoryRepository{
		saved:      true,
		categories: categories,
		expenses:   expenses,
	}
}

func (r *MemoryRepository) Load(ctx context.Context) ([]string, []core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return nil, nil, store.ErrNoState
	}
	return copyStrings(r.categories), copyExpenses(r.expenses), nil
}

func (r *MemoryRepository) Save(ctx context.Context, categories []string, expenses []core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = true
	r.categories = copyStrings(categories)
	r.expenses = copyExpenses(expenses)
	return nil
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyExpenses(in []core.Expense) []core.Expense {
	out := make([]core.Expense, len(in))
	copy(out, in)
	return out
}
