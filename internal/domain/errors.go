package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input, detected locally before any
	// network call is made
	ValidationError struct {
		Message string
	}

	// SubmissionError indicates a job submission failed remotely; no job
	// entry was created locally
	SubmissionError struct {
		Message string
	}

	// CancellationRejectedError indicates a cancellation was rejected,
	// either locally (job already terminal) or by the remote service
	CancellationRejectedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string             { return e.Message }
func (e *ValidationError) Error() string           { return e.Message }
func (e *SubmissionError) Error() string           { return e.Message }
func (e *CancellationRejectedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int             { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int           { return http.StatusBadRequest }
func (e *SubmissionError) StatusCode() int           { return http.StatusBadGateway }
func (e *CancellationRejectedError) StatusCode() int { return http.StatusConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrSubmission           = errors.New("submission failed")
	ErrCancellationRejected = errors.New("cancellation rejected")

	// ErrDiscoveryBusy is returned when a discovery enumeration is requested
	// while another one is already in flight on the same enumerator.
	ErrDiscoveryBusy = errors.New("discovery already in flight")
)

// Is allows errors.Is() matching against the corresponding sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }
func (e *CancellationRejectedError) Is(target error) bool {
	return target == ErrCancellationRejected
}

// DiscoveryError reports a failed page fetch during discovery enumeration.
// The whole enumeration is aborted and partial results are discarded; Page
// identifies the fetch that failed so the caller can report it.
type DiscoveryError struct {
	Page int
	Err  error
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery aborted at page %d: %v", e.Page, e.Err)
}

// Unwrap exposes the underlying fetch error
func (e *DiscoveryError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *DiscoveryError) StatusCode() int { return http.StatusBadGateway }

// PollError reports a failed status refresh for a single job. It is isolated
// to that job and never prevents sibling jobs from refreshing.
type PollError struct {
	JobID string
	Err   error
}

// Error implements the error interface
func (e *PollError) Error() string {
	return fmt.Sprintf("refresh job %s: %v", e.JobID, e.Err)
}

// Unwrap exposes the underlying fetch error
func (e *PollError) Unwrap() error { return e.Err }
