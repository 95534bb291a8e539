package repositories

import (
	"context"

	"pagemill/internal/domain/models/conversion"
)

// JobSnapshotRepository persists registry snapshots so a restarted session
// can resume polling jobs submitted before the restart. Snapshots are never
// authoritative over the remote service; they only seed the poll set.
type JobSnapshotRepository interface {
	// Save upserts one job snapshot.
	Save(ctx context.Context, job *conversion.Job) error

	// List returns all snapshots, most recently created first.
	List(ctx context.Context) ([]conversion.Job, error)

	// Delete removes one snapshot.
	Delete(ctx context.Context, jobID string) error
}
