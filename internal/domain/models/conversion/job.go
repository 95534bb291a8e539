package conversion

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a conversion job.
// Transitions are monotonic: pending → processing → {completed, failed,
// cancelled}. The three terminal states admit no further transition.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status admits no further transition.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobProcessing, JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal. Staying in
// the same state is always legal (a refresh may observe no change).
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case JobPending:
		return next == JobProcessing || next.Terminal()
	case JobProcessing:
		return next.Terminal()
	default:
		// Terminal states never regress.
		return false
	}
}

// Job is the client-side handle for a server-tracked conversion job.
// FileCount is fixed at creation; CompletedCount+FailedCount never exceeds
// it. The remote service is the sole source of truth for Status - a Job is a
// read-through cache entry, never authoritative.
type Job struct {
	ID             string    `json:"id"`
	LibraryID      string    `json:"library_id"`
	Status         JobStatus `json:"status"`
	FileCount      int       `json:"file_count"`
	CompletedCount int       `json:"completed_count"`
	FailedCount    int       `json:"failed_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// StatusUpdate is a remote status observation to be applied to a Job.
type StatusUpdate struct {
	Status         JobStatus
	CompletedCount int
	FailedCount    int
	ErrorMessage   string
}

// Apply folds a remote observation into the job, enforcing the lifecycle
// invariants. It returns an error (and leaves the job untouched) when the
// update would regress a terminal state, make an illegal transition, or
// violate CompletedCount+FailedCount <= FileCount.
func (j *Job) Apply(u StatusUpdate, now time.Time) error {
	if !u.Status.Valid() {
		return fmt.Errorf("unknown job status %q", u.Status)
	}
	if !j.Status.CanTransitionTo(u.Status) {
		return fmt.Errorf("illegal transition %s -> %s", j.Status, u.Status)
	}
	if u.CompletedCount < 0 || u.FailedCount < 0 {
		return fmt.Errorf("negative progress counters (%d completed, %d failed)",
			u.CompletedCount, u.FailedCount)
	}
	if u.CompletedCount+u.FailedCount > j.FileCount {
		return fmt.Errorf("progress counters exceed file count: %d+%d > %d",
			u.CompletedCount, u.FailedCount, j.FileCount)
	}

	j.Status = u.Status
	j.CompletedCount = u.CompletedCount
	j.FailedCount = u.FailedCount
	j.ErrorMessage = u.ErrorMessage
	j.UpdatedAt = now
	return nil
}
