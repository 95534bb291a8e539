package config

import "time"

const (
	// DefaultPageSize is the listing page size used when a discovery
	// request does not specify one.
	DefaultPageSize = 50

	// MaxPageSize caps the listing page size; larger requests are clamped.
	MaxPageSize = 200

	// DefaultMaxPages bounds a discovery enumeration when the caller does
	// not set its own limit.
	DefaultMaxPages = 100

	// DefaultPollInterval is the period between automatic refresh sweeps.
	DefaultPollInterval = 5 * time.Second

	// MinPollInterval is the shortest accepted sweep period.
	MinPollInterval = 1 * time.Second

	// MaxSubmissionFiles caps the number of files in one job submission.
	MaxSubmissionFiles = 1000
)
