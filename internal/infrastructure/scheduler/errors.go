package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobPanicked wraps a panic recovered from a scheduled job
	ErrJobPanicked = errors.New("scheduled job panicked")

	// ErrDuplicateJob is returned when two triggers share a name
	ErrDuplicateJob = errors.New("job already registered")
)
