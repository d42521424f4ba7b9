// Package bridge connects the static graph model to the execution engine.
// The graph model computes a desired execution state and a control
// configuration per node; this package applies those values to a live
// runtime. The propagation rules that compute the desired state live with
// the graph model, not here.
package bridge

import (
	"context"

	"github.com/wehubfusion/Daedalus/pkg/node"
)

// Descriptor is the per-node view of the static graph model consumed by the
// engine: identity, control configuration, and the desired execution state
// computed by the model's propagation rules.
type Descriptor interface {
	NodeID() string
	ControlConfig() node.ControlConfig
	DesiredState() node.ExecutionState
}

// Controllable is the runtime control surface the bridge drives. Every typed
// node variant satisfies it: the variant's Start schedules its own step loop.
type Controllable interface {
	ID() string
	State() node.ExecutionState
	SetControl(node.ControlConfig)
	Start(ctx context.Context) error
	Pause()
	Resume()
	Stop()
}

// Apply pushes a descriptor's control configuration and desired state onto a
// runtime. Desired running starts an idle or faulted runtime and resumes a
// paused one; desired paused on an idle runtime starts it poised in the
// paused state; desired idle stops. A desired error state is not commandable
// and is treated as stop.
func Apply(ctx context.Context, rt Controllable, d Descriptor) error {
	rt.SetControl(d.ControlConfig())

	switch d.DesiredState() {
	case node.StateRunning:
		switch rt.State() {
		case node.StatePaused:
			rt.Resume()
		case node.StateIdle, node.StateError:
			return rt.Start(ctx)
		}
	case node.StatePaused:
		switch rt.State() {
		case node.StateRunning:
			rt.Pause()
		case node.StateIdle, node.StateError:
			if err := rt.Start(ctx); err != nil {
				return err
			}
			rt.Pause()
		}
	case node.StateIdle, node.StateError:
		rt.Stop()
	}
	return nil
}

// StaticDescriptor is a plain-value Descriptor for hosts that do not carry a
// full graph model.
type StaticDescriptor struct {
	ID      string
	Control node.ControlConfig
	Desired node.ExecutionState
}

// NodeID returns the node id.
func (d StaticDescriptor) NodeID() string { return d.ID }

// ControlConfig returns the control configuration.
func (d StaticDescriptor) ControlConfig() node.ControlConfig { return d.Control }

// DesiredState returns the desired execution state.
func (d StaticDescriptor) DesiredState() node.ExecutionState { return d.Desired }
