package node

import (
	"errors"
	"fmt"
)

// Common errors used throughout the node runtime.
var (
	// ErrNoOutputBound is returned by Start when a required output channel
	// slot has not been assigned.
	ErrNoOutputBound = errors.New("no output channel bound")

	// ErrNoInputBound is returned by Start when a required input channel
	// slot has not been assigned.
	ErrNoInputBound = errors.New("no input channel bound")

	// ErrNoStepFunction is returned by Start when the user step function is
	// nil.
	ErrNoStepFunction = errors.New("no step function provided")

	// ErrEndOfStream is returned by a generator step function to signal that
	// the source is exhausted. The runtime treats it as graceful completion:
	// the task ends, owned outputs close, and the runtime returns to idle.
	ErrEndOfStream = errors.New("end of stream")
)

// ProcessingError wraps a fault raised by a user-supplied step function with
// the identity of the node it occurred in.
type ProcessingError struct {
	// NodeID is the ID of the runtime that faulted.
	NodeID string
	// Phase names the step that failed, e.g. "generate" or "transform".
	Phase string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error in node %s during %s: %v", e.NodeID, e.Phase, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewProcessingError creates a new processing error.
func NewProcessingError(nodeID, phase string, cause error) *ProcessingError {
	return &ProcessingError{NodeID: nodeID, Phase: phase, Cause: cause}
}

// IsProcessingFault checks whether an error originated in a user step
// function rather than in the runtime's own plumbing.
func IsProcessingFault(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
