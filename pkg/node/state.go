package node

// ExecutionState is the lifecycle state of a node runtime. Every runtime is
// in exactly one state at any instant; transitions are atomic with respect to
// concurrently issued control operations.
type ExecutionState int32

const (
	// StateIdle means no task is scheduled. Initial state, re-entered after
	// Stop or graceful completion.
	StateIdle ExecutionState = iota

	// StateRunning means the runtime's task is scheduled and stepping.
	StateRunning

	// StatePaused means the task is alive but cooperatively suspended before
	// its next step.
	StatePaused

	// StateError means the task ended with a processing fault and no task is
	// scheduled. Cleared by Start or Stop.
	StateError
)

// String returns the lowercase state name.
func (s ExecutionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
