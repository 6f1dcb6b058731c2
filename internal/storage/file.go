package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"budget/internal/core"
	"budget/internal/store"
)

// stateDocument is the on-disk layout of the file backend: the same
// two keyed blobs, held in one JSON document.
type stateDocument struct {
	Categories []string       `json:"categories"`
	Expenses   []core.Expense `json:"expenses"`
}

// FileRepository persists the state as a single JSON file. Saves write
// a temp file in the same directory and rename it over the target, so
// a crash mid-write leaves the previous state intact.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

var _ store.Repository = (*FileRepository)(nil)

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Load(ctx context.Context) ([]string, []core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil, store.ErrNoState
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read state file: %w", err)
	}

	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", store.ErrCorruptState, r.path, err)
	}
	if doc.Categories == nil && doc.Expenses == nil {
		return nil, nil, fmt.Errorf("%w: %s: missing both collections", store.ErrCorruptState, r.path)
	}
	return doc.Categories, doc.Expenses, nil
}

func (r *FileRepository) Save(ctx context.Context, categories []string, expenses []core.Expense) error {
	doc := stateDocument{
		Categories: emptyIfNilStrings(categories),
		Expenses:   emptyIfNilExpenses(expenses),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".budget-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
