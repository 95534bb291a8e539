package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pagemill/internal/domain/models/conversion"
	"pagemill/internal/domain/repositories"
)

// PostgresJobSnapshotRepository implements the JobSnapshotRepository interface
type PostgresJobSnapshotRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewJobSnapshotRepository creates a new job snapshot repository
func NewJobSnapshotRepository(config *RepositoryConfig) repositories.JobSnapshotRepository {
	return &PostgresJobSnapshotRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Save upserts one job snapshot
func (r *PostgresJobSnapshotRepository) Save(ctx context.Context, job *conversion.Job) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, library_id, status, file_count, completed_count, failed_count, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_count = EXCLUDED.completed_count,
			failed_count = EXCLUDED.failed_count,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at
	`, r.tables.ConversionJobs)

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.LibraryID,
		string(job.Status),
		job.FileCount,
		job.CompletedCount,
		job.FailedCount,
		job.ErrorMessage,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save job snapshot: %w", err)
	}
	return nil
}

// List returns all snapshots, most recently created first
func (r *PostgresJobSnapshotRepository) List(ctx context.Context) ([]conversion.Job, error) {
	query := fmt.Sprintf(`
		SELECT id, library_id, status, file_count, completed_count, failed_count, error_message, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC
	`, r.tables.ConversionJobs)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list job snapshots: %w", err)
	}
	defer rows.Close()

	var jobs []conversion.Job
	for rows.Next() {
		var job conversion.Job
		var status string
		if err := rows.Scan(
			&job.ID,
			&job.LibraryID,
			&status,
			&job.FileCount,
			&job.CompletedCount,
			&job.FailedCount,
			&job.ErrorMessage,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job snapshot: %w", err)
		}
		job.Status = conversion.JobStatus(status)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job snapshots: %w", err)
	}

	return jobs, nil
}

// Delete removes one snapshot
func (r *PostgresJobSnapshotRepository) Delete(ctx context.Context, jobID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ConversionJobs)

	if _, err := r.pool.Exec(ctx, query, jobID); err != nil {
		return fmt.Errorf("delete job snapshot: %w", err)
	}
	return nil
}
