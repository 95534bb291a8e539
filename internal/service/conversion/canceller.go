package conversion

import (
	"context"
	"fmt"
	"log/slog"

	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/remote"
)

// canceller implements the JobCanceller interface
type canceller struct {
	client   remote.Client
	registry *Registry
	logger   *slog.Logger
}

// NewCanceller creates a new cancellation controller
func NewCanceller(client remote.Client, registry *Registry, logger *slog.Logger) convSvc.JobCanceller {
	return &canceller{
		client:   client,
		registry: registry,
		logger:   logger,
	}
}

// Cancel requests remote cancellation of an in-flight job. The local status
// is never set to cancelled optimistically; the authoritative cancelled
// state arrives through a later poll. If a concurrent poll lands a terminal
// status first, that status wins - a job cannot be both completed and
// cancelled, and the poller's terminal state is final.
func (c *canceller) Cancel(ctx context.Context, jobID string) error {
	if jobID == "" {
		return &domain.ValidationError{Message: "job ID is required"}
	}

	job, ok := c.registry.Get(jobID)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("job %s not found", jobID)}
	}

	// Local rejection: terminal jobs are not cancellable and no network
	// call is made for them.
	if job.Status != models.JobPending && job.Status != models.JobProcessing {
		return &domain.CancellationRejectedError{
			Message: fmt.Sprintf("job %s is %s and cannot be cancelled", jobID, job.Status),
		}
	}

	resp, err := c.client.CancelJob(ctx, jobID)
	if err != nil {
		// Local status stays untouched; the caller decides whether to retry.
		return &domain.CancellationRejectedError{
			Message: fmt.Sprintf("remote cancellation failed: %v", err),
		}
	}
	if !resp.Accepted {
		return &domain.CancellationRejectedError{
			Message: fmt.Sprintf("remote service rejected cancellation of job %s", jobID),
		}
	}

	c.logger.Info("cancellation requested",
		"job_id", jobID,
		"last_known_status", job.Status,
	)
	return nil
}
