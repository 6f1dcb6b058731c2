package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
	"budget/internal/events"
	"budget/internal/sheets"
	"budget/internal/store"
)

// Consumer is the slice of the events client the worker needs.
type Consumer interface {
	ConsumeMutations(ctx context.Context, handler func(*events.MutationMessage) error) error
}

// BackupWorker mirrors the persisted state to an external snapshot
// writer. It reacts to mutation messages and additionally runs a
// periodic full backup so missed messages cannot leave the mirror
// stale forever.
type BackupWorker struct {
	repo     store.Repository
	writer   sheets.SnapshotWriter
	interval time.Duration
}

func NewBackupWorker(repo store.Repository, writer sheets.SnapshotWriter, interval time.Duration) *BackupWorker {
	return &BackupWorker{
		repo:     repo,
		writer:   writer,
		interval: interval,
	}
}

// HandleMutation processes a single mutation message by writing a
// fresh snapshot. The message only signals that something changed,
// the state itself comes from the repository.
func (w *BackupWorker) HandleMutation(ctx context.Context, msg *events.MutationMessage) error {
	slog.InfoContext(ctx, "Processing mutation message", "kind", msg.Kind)
	return w.Backup(ctx)
}

// Backup reads the current state and mirrors it to the writer.
func (w *BackupWorker) Backup(ctx context.Context) error {
	categories, expenses, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	snap := core.Snapshot{
		Version:    core.SnapshotVersion,
		Categories: categories,
		Expenses:   expenses,
		ExportDate: time.Now().UTC(),
	}
	if err := w.writer.WriteSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Backup completed",
		"categories", len(categories),
		"expenses", len(expenses))

	return nil
}

// Run consumes mutation messages and performs periodic full backups
// until the context is cancelled.
func (w *BackupWorker) Run(ctx context.Context, consumer Consumer) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeMutations(ctx, func(msg *events.MutationMessage) error {
			return w.HandleMutation(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Backup(ctx); err != nil {
					// Periodic backups retry on the next tick
					slog.ErrorContext(ctx, "Periodic backup failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
