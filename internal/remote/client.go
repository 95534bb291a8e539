package remote

import (
	"context"

	"pagemill/internal/domain/models/conversion"
)

// Client defines the operations the orchestrator consumes from the remote
// conversion service. The remote service owns the wire format and is the
// sole source of truth for job status.
type Client interface {
	// ListFiles fetches one page of a library's file listing. Pages are
	// 1-based. statusFilter narrows by process status; empty means all.
	ListFiles(ctx context.Context, libraryID string, page, pageSize int, statusFilter string) (*ListFilesResponse, error)

	// SubmitConversion enqueues server-side conversion of the given files
	// under one configuration and returns immediately with the job handle.
	SubmitConversion(ctx context.Context, libraryID string, fileIDs []string, cfg *conversion.Config) (*SubmitResponse, error)

	// GetJobStatus fetches the current status of a single job.
	GetJobStatus(ctx context.Context, jobID string) (*JobStatusResponse, error)

	// CancelJob requests cancellation of an in-flight job. Acceptance does
	// not mean the job is cancelled yet; a later status fetch confirms.
	CancelJob(ctx context.Context, jobID string) (*CancelResponse, error)

	// FetchOutput retrieves a converted file's output for download.
	FetchOutput(ctx context.Context, fileID string) (*Output, error)
}

// ListFilesResponse is one page of a paginated file listing.
type ListFilesResponse struct {
	Files      []conversion.ConvertibleFile `json:"files"`
	HasNext    bool                         `json:"has_next"`
	TotalPages int                          `json:"total_pages"`
}

// SubmitResponse is the handle returned for a newly enqueued job.
type SubmitResponse struct {
	JobID  string               `json:"job_id"`
	Status conversion.JobStatus `json:"status"`
}

// JobStatusResponse is the remote view of a job's progress.
type JobStatusResponse struct {
	Status         conversion.JobStatus `json:"status"`
	CompletedCount int                  `json:"completed_count"`
	FailedCount    int                  `json:"failed_count"`
	ErrorMessage   string               `json:"error_message,omitempty"`
}

// CancelResponse reports whether the remote service accepted a cancellation.
type CancelResponse struct {
	Accepted bool `json:"accepted"`
}

// Output is a converted file's downloadable content.
type Output struct {
	Filename    string
	ContentType string
	Data        []byte
}
