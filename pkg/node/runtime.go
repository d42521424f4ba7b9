// Package node implements the concurrent execution runtime for flow graph
// nodes. Each runtime owns one goroutine-scheduled task, an execution state
// machine, and the channel bindings of its variant shape. Typed variants
// (Generator, Sink, Transformer, Filter, Combiner, Splitter) wrap the base
// Runtime with a step loop; pause is cooperative and honored by the loop
// before each step.
package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Task is the body of a runtime's concurrently scheduled work. It runs until
// cancelled, until a bound channel closes (return nil), or until a processing
// fault occurs (return the fault).
type Task func(ctx context.Context) error

// Runtime is the execution core shared by all node variants. It is created
// in the idle state with no task; Start schedules a task and moves to
// running, Pause/Resume toggle cooperative suspension without touching the
// task, and Stop cancels the task and closes the output channels the runtime
// owns.
type Runtime struct {
	id     string
	logger *zap.Logger
	tracer trace.Tracer

	mu      sync.Mutex
	state   ExecutionState
	control ControlConfig
	cancel  context.CancelFunc
	base    context.Context
	gen     uint64
	gate    chan struct{}
	owned   []flow.Closer
}

// New creates an idle runtime. An empty id gets a generated UUID; a nil
// logger disables logging.
func New(id string, control ControlConfig, logger *zap.Logger) *Runtime {
	if id == "" {
		id = uuid.NewString()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	control.Validate()

	gate := make(chan struct{})
	close(gate) // not paused

	return &Runtime{
		id:      id,
		logger:  logger,
		tracer:  otel.Tracer("daedalus/node"),
		state:   StateIdle,
		control: control,
		gate:    gate,
	}
}

// ID returns the node id.
func (r *Runtime) ID() string {
	return r.id
}

// State returns the current execution state.
func (r *Runtime) State() ExecutionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsIdle reports whether the runtime is idle.
func (r *Runtime) IsIdle() bool { return r.State() == StateIdle }

// IsRunning reports whether the runtime is running.
func (r *Runtime) IsRunning() bool { return r.State() == StateRunning }

// IsPaused reports whether the runtime is paused.
func (r *Runtime) IsPaused() bool { return r.State() == StatePaused }

// Control returns the current control configuration.
func (r *Runtime) Control() ControlConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.control
}

// SetControl replaces the control configuration as a whole.
func (r *Runtime) SetControl(control ControlConfig) {
	control.Validate()
	r.mu.Lock()
	r.control = control
	r.mu.Unlock()
}

// Start schedules task as the runtime's concurrent unit of work and moves to
// running. Starting an already running or paused runtime cancels the previous
// task first and replaces it (re-entrant restart). A nil task is ignored.
func (r *Runtime) Start(ctx context.Context, task Task) {
	if task == nil {
		r.logger.Warn("start ignored, nil task", zap.String("node_id", r.id))
		return
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.state == StatePaused {
		close(r.gate)
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.base = ctx
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.state = StateRunning
	r.mu.Unlock()

	r.logger.Debug("node started", zap.String("node_id", r.id))
	go r.run(runCtx, gen, task, false)
}

// Pause requests cooperative suspension. The task's current step, if already
// past its state check, is allowed to complete; no further steps start until
// Resume. A no-op unless the runtime is running.
func (r *Runtime) Pause() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.state = StatePaused
	r.gate = make(chan struct{})
	r.mu.Unlock()

	r.logger.Debug("node paused", zap.String("node_id", r.id))
}

// Resume lifts a cooperative suspension. A no-op unless the runtime is
// paused.
func (r *Runtime) Resume() {
	r.mu.Lock()
	if r.state != StatePaused {
		r.mu.Unlock()
		return
	}
	r.state = StateRunning
	close(r.gate)
	r.mu.Unlock()

	r.logger.Debug("node resumed", zap.String("node_id", r.id))
}

// Stop cancels the task, clears the task handle, closes the output channels
// the runtime owns, and moves to idle. A task blocked on a channel or a step
// delay unblocks promptly. Stopping an idle runtime is a no-op.
func (r *Runtime) Stop() {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return
	}
	r.gen++ // discard bookkeeping from the outgoing task
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.state == StatePaused {
		close(r.gate)
	}
	r.state = StateIdle
	owned := r.owned
	r.mu.Unlock()

	for _, c := range owned {
		c.Close()
	}
	r.logger.Debug("node stopped", zap.String("node_id", r.id))
}

// bindOwned records the output channels this runtime is responsible for
// closing on stop and on graceful completion.
func (r *Runtime) bindOwned(closers ...flow.Closer) {
	owned := make([]flow.Closer, 0, len(closers))
	for _, c := range closers {
		if c != nil {
			owned = append(owned, c)
		}
	}
	r.mu.Lock()
	r.owned = owned
	r.mu.Unlock()
}

// awaitRunning blocks while the runtime is paused. It returns nil once the
// state is anything other than paused, or ctx.Err() if the task is cancelled
// while waiting. Task loops call this before every step; this is the
// cooperative pause contract.
func (r *Runtime) awaitRunning(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.mu.Lock()
		if r.state != StatePaused {
			r.mu.Unlock()
			return nil
		}
		gate := r.gate
		r.mu.Unlock()

		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// stepDelay waits the configured artificial delay before a processing step.
func (r *Runtime) stepDelay(ctx context.Context) error {
	d := r.Control().StepDelay
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes one scheduled task and performs completion bookkeeping. gen
// identifies the task generation; Stop and restarts bump the generation so a
// superseded task cannot overwrite newer state.
func (r *Runtime) run(ctx context.Context, gen uint64, task Task, retried bool) {
	spanCtx, span := r.tracer.Start(ctx, "node.task",
		trace.WithAttributes(attribute.String("node.id", r.id)))

	err := r.invoke(spanCtx, task)

	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Graceful completion, or a cancellation whose bookkeeping Stop has
		// already done.
		span.End()
		r.finish(gen)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
	r.fault(gen, task, err, retried)
}

// invoke runs the task body, converting panics into processing faults.
func (r *Runtime) invoke(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return task(ctx)
}

// finish transitions to idle after graceful task completion and closes owned
// outputs so downstream consumers observe closure instead of hanging.
func (r *Runtime) finish(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.state == StatePaused {
		close(r.gate)
	}
	r.state = StateIdle
	owned := r.owned
	r.mu.Unlock()

	for _, c := range owned {
		c.Close()
	}
	r.logger.Debug("node completed", zap.String("node_id", r.id))
}

// fault transitions to the error state after a processing fault. With
// AutoResumeOnError set the task is restarted once immediately; a second
// consecutive fault settles in the error state until an explicit Start.
func (r *Runtime) fault(gen uint64, task Task, cause error, retried bool) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.state == StatePaused {
		close(r.gate)
	}

	if r.control.AutoResumeOnError && !retried {
		runCtx, cancel := context.WithCancel(r.base)
		r.cancel = cancel
		r.gen++
		gen = r.gen
		r.state = StateRunning
		r.mu.Unlock()

		r.logger.Warn("node task failed, retrying once",
			zap.String("node_id", r.id), zap.Error(cause))
		go r.run(runCtx, gen, task, true)
		return
	}

	r.state = StateError
	r.mu.Unlock()

	r.logger.Error("node task failed",
		zap.String("node_id", r.id), zap.Error(cause))
}
