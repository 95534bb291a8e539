package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/remote"
)

// submitter implements the JobSubmitter interface
type submitter struct {
	client    remote.Client
	validator convSvc.ConfigValidator
	registry  *Registry
	logger    *slog.Logger
}

// NewSubmitter creates a new job submitter
func NewSubmitter(client remote.Client, validator convSvc.ConfigValidator, registry *Registry, logger *slog.Logger) convSvc.JobSubmitter {
	return &submitter{
		client:    client,
		validator: validator,
		registry:  registry,
		logger:    logger,
	}
}

// Submit validates the request locally, enqueues the job remotely, and
// registers the returned handle. Validation failures never reach the
// network; remote failures never reach the registry.
func (s *submitter) Submit(ctx context.Context, req *convSvc.SubmitRequest) (*models.Job, error) {
	if req == nil || req.LibraryID == "" {
		return nil, &domain.ValidationError{Message: "library ID is required"}
	}

	fileIDs := dedupe(req.FileIDs)
	if err := s.validator.Validate(&req.Config, len(fileIDs)); err != nil {
		return nil, err
	}

	resp, err := s.client.SubmitConversion(ctx, req.LibraryID, fileIDs, &req.Config)
	if err != nil {
		return nil, &domain.SubmissionError{
			Message: fmt.Sprintf("failed to submit conversion: %v", err),
		}
	}
	if resp.JobID == "" {
		return nil, &domain.SubmissionError{Message: "remote service returned no job ID"}
	}

	status := resp.Status
	if !status.Valid() {
		status = models.JobPending
	}

	now := time.Now()
	job := &models.Job{
		ID:        resp.JobID,
		LibraryID: req.LibraryID,
		Status:    status,
		FileCount: len(fileIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registry.Insert(ctx, job); err != nil {
		// The remote job exists but we could not track it; surface the
		// conflict instead of leaving the registry inconsistent.
		return nil, fmt.Errorf("register job %s: %w", job.ID, err)
	}

	s.logger.Info("conversion job submitted",
		"job_id", job.ID,
		"library_id", req.LibraryID,
		"file_count", job.FileCount,
		"method", req.Config.Method,
	)
	return job, nil
}

// dedupe removes duplicate file IDs, preserving first-seen order. FileCount
// is fixed at creation, so duplicates must not inflate it.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
