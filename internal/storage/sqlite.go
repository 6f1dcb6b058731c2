// Package storage provides the Repository implementations: a SQLite
// blob store, a JSON file store, and an in-memory store.
//
// All of them persist the same layout: two independently keyed JSON
// blobs, one for the category list and one for the expense list,
// always written as a unit.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/store"

	_ "modernc.org/sqlite"
)

const (
	keyCategories = "categories"
	keyExpenses   = "expenses"
)

// SQLiteRepository keeps both blobs in a single `state` table and
// writes them inside one transaction, so readers never observe a
// half-updated state.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]string, []core.Expense, error) {
	catBlob, catOK, err := r.readBlob(ctx, keyCategories)
	if err != nil {
		return nil, nil, err
	}
	expBlob, expOK, err := r.readBlob(ctx, keyExpenses)
	if err != nil {
		return nil, nil, err
	}
	if !catOK && !expOK {
		return nil, nil, store.ErrNoState
	}

	var categories []string
	if catOK {
		if err := json.Unmarshal(catBlob, &categories); err != nil {
			return nil, nil, fmt.Errorf("%w: categories blob: %v", store.ErrCorruptState, err)
		}
	}
	var expenses []core.Expense
	if expOK {
		if err := json.Unmarshal(expBlob, &expenses); err != nil {
			return nil, nil, fmt.Errorf("%w: expenses blob: %v", store.ErrCorruptState, err)
		}
	}
	return categories, expenses, nil
}

func (r *SQLiteRepository) readBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s blob: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, categories []string, expenses []core.Expense) error {
	catBlob, err := json.Marshal(emptyIfNilStrings(categories))
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	expBlob, err := json.Marshal(emptyIfNilExpenses(expenses))
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, upsert, keyCategories, catBlob); err != nil {
		return fmt.Errorf("write categories blob: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyExpenses, expBlob); err != nil {
		return fmt.Errorf("write expenses blob: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.DebugContext(ctx, "State saved to SQLite",
		"categories", len(categories),
		"expenses", len(expenses))
	return nil
}

func emptyIfNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyIfNilExpenses(in []core.Expense) []core.Expense {
	if in == nil {
		return []core.Expense{}
	}
	return in
}
