package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	ports "budget/internal/sheets"
)

// Writer is an in-memory SnapshotWriter for tests and local runs.
type Writer struct {
	mu     sync.Mutex
	writes []core.Snapshot
}

var _ ports.SnapshotWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) WriteSnapshot(ctx context.Context, snap core.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, snap)
	return nil
}

// Writes returns every snapshot written so far, oldest first.
func (w *Writer) Writes() []core.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]core.Snapshot, len(w.writes))
	copy(out, w.writes)
	return out
}

// Last returns the most recent snapshot, if any.
func (w *Writer) Last() (core.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.writes) == 0 {
		return core.Snapshot{}, false
	}
	return w.writes[len(w.writes)-1], true
}
