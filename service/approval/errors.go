package approval

import "errors"

// Sentinel errors returned by Service implementations. Using sentinel
// variables allows callers to reliably detect error conditions via
// errors.Is instead of brittle string comparisons.

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("approval: request not found")

	// ErrInvalidTransition indicates that a status precondition no longer
	// holds, such as deciding a non-pending request or re-processing one.
	ErrInvalidTransition = errors.New("approval: invalid transition")

	// ErrInvalidStatus indicates a decision other than approved/rejected.
	ErrInvalidStatus = errors.New("approval: invalid status")

	// ErrInvalidID indicates an empty or malformed request id.
	ErrInvalidID = errors.New("approval: invalid id")
)
