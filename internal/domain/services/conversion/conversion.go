package conversion

import (
	"context"

	models "pagemill/internal/domain/models/conversion"
)

// DiscoverRequest describes one discovery enumeration over a library.
type DiscoverRequest struct {
	LibraryID string `json:"library_id"`
	PageSize  int    `json:"page_size"`
	MaxPages  int    `json:"max_pages"`
}

// Progress is the incremental discovery position reported after every page
// fetch. TotalPages is the remote listing's claim and may be zero when the
// service does not report it.
type Progress struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// ProgressFunc receives discovery progress. It is called synchronously
// between page fetches and must not block.
type ProgressFunc func(Progress)

// FileEnumerator walks a library's paginated remote listing and collects the
// files eligible for conversion.
type FileEnumerator interface {
	// Discover runs one finite enumeration. It is restartable: every call
	// starts from the first page. At most one enumeration may be in flight
	// at a time; a concurrent call fails with domain.ErrDiscoveryBusy.
	// Any page-fetch error aborts the enumeration and discards partials.
	Discover(ctx context.Context, req *DiscoverRequest, onProgress ProgressFunc) ([]models.ConvertibleFile, error)
}

// SubmitRequest describes one job submission.
type SubmitRequest struct {
	LibraryID string        `json:"library_id"`
	FileIDs   []string      `json:"file_ids"`
	Config    models.Config `json:"config"`
}

// JobSubmitter validates a submission and enqueues it remotely.
type JobSubmitter interface {
	// Submit is fire-and-forget: it returns as soon as the remote service
	// acknowledges the job, with no guarantee any individual file succeeds.
	// On remote failure nothing is inserted into the registry.
	Submit(ctx context.Context, req *SubmitRequest) (*models.Job, error)
}

// ConfigValidator checks a conversion configuration against the chosen
// method. Pure and synchronous; it must run before any network call and
// never auto-corrects the configuration.
type ConfigValidator interface {
	Validate(cfg *models.Config, fileCount int) error
}

// ProgressPoller refreshes the status of every non-terminal registry job.
type ProgressPoller interface {
	// RefreshAll sweeps the registry. Overlapping calls coalesce onto the
	// in-flight sweep; the return value reports whether this call performed
	// the sweep (false means it was coalesced). A failure refreshing one
	// job never prevents refreshing the others.
	RefreshAll(ctx context.Context) bool
}

// JobCanceller requests cancellation of an in-flight job.
type JobCanceller interface {
	// Cancel is rejected locally, with no network call, unless the job's
	// last known status is pending or processing. Acceptance does not set
	// the local status to cancelled; a subsequent poll confirms it.
	Cancel(ctx context.Context, jobID string) error
}
