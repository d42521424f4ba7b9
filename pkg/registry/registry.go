// Package registry provides a concurrency-safe directory of live node
// runtimes with bulk pause/resume/stop. The registry does not own runtime
// lifetimes; it coordinates control across whatever is registered while
// honoring per-node control independence.
package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/node"
)

// Runtime is the control surface the registry needs from a node runtime.
// *node.Runtime and every typed variant satisfy it.
type Runtime interface {
	ID() string
	State() node.ExecutionState
	Control() node.ControlConfig
	Pause()
	Resume()
	Stop()
}

// Registry is a directory of live runtimes keyed by node id. All operations
// are safe under concurrent invocation from multiple callers. Construct one
// per graph; independent graphs should not share a registry.
type Registry struct {
	logger *zap.Logger

	mu    sync.RWMutex
	nodes map[string]Runtime
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		nodes:  make(map[string]Runtime),
	}
}

// Register inserts a runtime, replacing any previous registration with the
// same id (last registration wins). Nil runtimes are ignored.
func (r *Registry) Register(rt Runtime) {
	if rt == nil {
		return
	}
	r.mu.Lock()
	r.nodes[rt.ID()] = rt
	r.mu.Unlock()

	r.logger.Debug("runtime registered", zap.String("node_id", rt.ID()))
}

// Unregister removes a runtime. A no-op if the runtime is absent or its id
// now maps to a different registration.
func (r *Registry) Unregister(rt Runtime) {
	if rt == nil {
		return
	}
	r.mu.Lock()
	if current, ok := r.nodes[rt.ID()]; ok && current == rt {
		delete(r.nodes, rt.ID())
	}
	r.mu.Unlock()
}

// Get returns the runtime registered under id.
func (r *Registry) Get(id string) (Runtime, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.nodes[id]
	return rt, ok
}

// IsRegistered reports whether a runtime is registered under id.
func (r *Registry) IsRegistered(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[id]
	return ok
}

// Count returns the number of registered runtimes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// PauseAll pauses every registered running runtime that has not opted out
// via independent control. Independent and non-running runtimes are left
// untouched.
func (r *Registry) PauseAll() {
	for _, rt := range r.snapshot() {
		if rt.Control().IndependentControl {
			continue
		}
		if rt.State() == node.StateRunning {
			rt.Pause()
		}
	}
	r.logger.Debug("bulk pause issued")
}

// ResumeAll resumes every registered paused runtime that has not opted out
// via independent control.
func (r *Registry) ResumeAll() {
	for _, rt := range r.snapshot() {
		if rt.Control().IndependentControl {
			continue
		}
		if rt.State() == node.StatePaused {
			rt.Resume()
		}
	}
	r.logger.Debug("bulk resume issued")
}

// StopAll stops every registered runtime regardless of the independence flag
// and clears the registry. Stop is a full teardown; the registry owns
// cleanup even for independently controlled nodes.
func (r *Registry) StopAll() {
	r.mu.Lock()
	stopped := make([]Runtime, 0, len(r.nodes))
	for _, rt := range r.nodes {
		stopped = append(stopped, rt)
	}
	r.nodes = make(map[string]Runtime)
	r.mu.Unlock()

	for _, rt := range stopped {
		rt.Stop()
	}
	r.logger.Debug("bulk stop issued", zap.Int("stopped", len(stopped)))
}

// Clear removes all registrations without stopping anything. Registry
// bookkeeping only; the runtimes keep running.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.nodes = make(map[string]Runtime)
	r.mu.Unlock()
}

// snapshot copies the current membership so bulk operations run without
// holding the registry lock across runtime control calls.
func (r *Registry) snapshot() []Runtime {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nodes := make([]Runtime, 0, len(r.nodes))
	for _, rt := range r.nodes {
		nodes = append(nodes, rt)
	}
	return nodes
}
