package node

import "time"

// ControlConfig is the per-node control configuration supplied by the graph
// model. It is owned by the runtime and replaced as a whole via SetControl,
// never partially mutated.
type ControlConfig struct {
	// BufferCapacity is the queue size used when the runtime owns channel
	// creation. Minimum 1.
	BufferCapacity int

	// StepDelay is an artificial delay applied before each processing step,
	// for throttling and simulation. Zero disables the delay.
	StepDelay time.Duration

	// AutoResumeOnError makes a faulted runtime attempt one immediate
	// restart before settling in the error state.
	AutoResumeOnError bool

	// IndependentControl exempts the node from bulk pause/resume issued
	// through a registry; it must be controlled directly. Bulk stop is a full
	// teardown and ignores this flag.
	IndependentControl bool
}

// DefaultControlConfig returns sensible defaults for node control.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		BufferCapacity:     1,
		StepDelay:          0,
		AutoResumeOnError:  false,
		IndependentControl: false,
	}
}

// Validate applies defaults to out-of-range values.
func (c *ControlConfig) Validate() {
	if c.BufferCapacity < 1 {
		c.BufferCapacity = 1
	}
	if c.StepDelay < 0 {
		c.StepDelay = 0
	}
}

// WithBufferCapacity sets the buffer capacity.
func (c ControlConfig) WithBufferCapacity(n int) ControlConfig {
	c.BufferCapacity = n
	return c
}

// WithStepDelay sets the per-step delay.
func (c ControlConfig) WithStepDelay(d time.Duration) ControlConfig {
	c.StepDelay = d
	return c
}

// WithAutoResumeOnError sets whether a faulted runtime retries once.
func (c ControlConfig) WithAutoResumeOnError(auto bool) ControlConfig {
	c.AutoResumeOnError = auto
	return c
}

// WithIndependentControl sets whether the node opts out of bulk control.
func (c ControlConfig) WithIndependentControl(independent bool) ControlConfig {
	c.IndependentControl = independent
	return c
}
