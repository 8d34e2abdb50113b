package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrCapability indicates that an external capability (LLM call, search backend)
	// failed after its own transport retries were exhausted
	ErrCapability = errors.New("capability failure")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)
