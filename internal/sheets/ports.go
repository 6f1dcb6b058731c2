package sheets

import (
	"context"

	"budget/internal/core"
)

// Ports for outbound adapters.
type (
	// SnapshotWriter mirrors the whole state to an external backup target.
	SnapshotWriter interface {
		WriteSnapshot(ctx context.Context, snap core.Snapshot) error
	}
)
