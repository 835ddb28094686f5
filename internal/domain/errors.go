package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNoJobAvailable  = errors.New("no job available")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProviderFailure = errors.New("provider failure")
)

// ErrorClass partitions pipeline failures into the three handling policies.
type ErrorClass int

const (
	// ErrClassRetryable covers transient generation failures: provider
	// timeouts, non-2xx responses, wrong content types, blank output.
	// The job is re-queued up to the attempt limit.
	ErrClassRetryable ErrorClass = iota
	// ErrClassValidation covers content-authoring defects. The job fails
	// immediately without consuming a retry attempt.
	ErrClassValidation
	// ErrClassConfig covers configuration errors (no model for a format,
	// no template fallback). Non-retryable; left to operational monitoring.
	ErrClassConfig
)

// PipelineError carries a failure plus its handling class through the worker.
type PipelineError struct {
	Class ErrorClass
	Err   error
}

func (e *PipelineError) Error() string { return e.Err.Error() }

func (e *PipelineError) Unwrap() error { return e.Err }

// Retryable wraps err as a transient generation failure.
func Retryable(err error) *PipelineError {
	return &PipelineError{Class: ErrClassRetryable, Err: err}
}

// NonRetryable wraps err as a validation failure.
func NonRetryable(err error) *PipelineError {
	return &PipelineError{Class: ErrClassValidation, Err: err}
}

// ConfigFailure wraps err as a fatal configuration error.
func ConfigFailure(err error) *PipelineError {
	return &PipelineError{Class: ErrClassConfig, Err: err}
}

// ClassOf extracts the handling class from an error chain. Unclassified
// errors default to retryable so infrastructure hiccups get another attempt.
func ClassOf(err error) ErrorClass {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Class
	}
	return ErrClassRetryable
}
