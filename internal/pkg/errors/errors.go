package errors

import "errors"

// Common application errors shared across layers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned for invalid input or configuration
	// (for example a competition whose start date is not before its end date).
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a uniqueness constraint is violated
	// (duplicate join, duplicate reward).
	ErrConflict = errors.New("resource already exists")

	// ErrStateConflict is returned when an operation is invalid for the
	// entity's current lifecycle state (leaving an active competition,
	// recomputing a finished one).
	ErrStateConflict = errors.New("operation invalid for current state")

	// ErrTransientData is returned when an upstream data feed fails in a
	// retryable way. Scoring skips the affected participant and the next
	// pass retries.
	ErrTransientData = errors.New("transient data error")
)
