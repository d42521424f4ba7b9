// Package script builds node step functions out of embedded JavaScript.
//
// An Engine compiles a script once and exposes its entry function as a
// transform, predicate, or source step. Scripts run in a restricted VM:
// Node.js globals are removed, call stack depth is capped, and every
// invocation carries an interrupt-based time budget.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/node"
)

// ErrScriptTimeout is reported when a script call exceeds its time budget.
var ErrScriptTimeout = errors.New("script execution timed out")

// Options configures an Engine.
type Options struct {
	// Entry is the name of the script function invoked per step.
	Entry string

	// Timeout bounds a single invocation. The VM is interrupted when it
	// elapses.
	Timeout time.Duration

	// MaxCallStackSize caps recursion depth inside the VM.
	MaxCallStackSize int
}

// DefaultOptions returns the options applied when a field is zero.
func DefaultOptions() Options {
	return Options{
		Entry:            "step",
		Timeout:          5 * time.Second,
		MaxCallStackSize: 512,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Entry == "" {
		o.Entry = def.Entry
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.MaxCallStackSize <= 0 {
		o.MaxCallStackSize = def.MaxCallStackSize
	}
	return o
}

// Engine holds a compiled script and the VM it runs in. Calls are
// serialized; a single Engine instance is safe to share across goroutines.
type Engine struct {
	name   string
	opts   Options
	logger *zap.Logger

	mu    sync.Mutex
	vm    *goja.Runtime
	entry goja.Callable
}

// NewEngine compiles src and prepares the entry function. The script runs
// once at construction so it can initialize top-level state; the function
// named by opts.Entry must exist afterwards.
func NewEngine(name, src string, opts Options, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	prog, err := goja.Compile(name, src, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script %q: %w", name, err)
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(opts.MaxCallStackSize)
	if err := restrictGlobals(vm); err != nil {
		return nil, fmt.Errorf("failed to sandbox script %q: %w", name, err)
	}
	if err := installConsole(vm, name, logger); err != nil {
		return nil, fmt.Errorf("failed to install console for script %q: %w", name, err)
	}

	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("failed to initialize script %q: %w", name, err)
	}

	entry, ok := goja.AssertFunction(vm.Get(opts.Entry))
	if !ok {
		return nil, fmt.Errorf("script %q does not define function %q", name, opts.Entry)
	}

	return &Engine{name: name, opts: opts, logger: logger, vm: vm, entry: entry}, nil
}

// Name returns the name the script was compiled under.
func (e *Engine) Name() string { return e.name }

// restrictGlobals removes Node.js surface the VM should never expose.
func restrictGlobals(vm *goja.Runtime) error {
	blocked := []string{
		"require", "module", "exports", "process", "global",
		"__dirname", "__filename", "Buffer", "setImmediate", "clearImmediate",
	}
	for _, name := range blocked {
		if err := vm.Set(name, goja.Undefined()); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// installConsole routes console.log/warn/error to the structured logger.
func installConsole(vm *goja.Runtime, name string, logger *zap.Logger) error {
	emit := func(log func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, 0, len(call.Arguments))
			for _, arg := range call.Arguments {
				parts = append(parts, arg.String())
			}
			log(strings.Join(parts, " "), zap.String("script", name))
			return goja.Undefined()
		}
	}

	console := vm.NewObject()
	if err := console.Set("log", emit(logger.Info)); err != nil {
		return err
	}
	if err := console.Set("warn", emit(logger.Warn)); err != nil {
		return err
	}
	if err := console.Set("error", emit(logger.Error)); err != nil {
		return err
	}
	return vm.Set("console", console)
}

// call invokes the entry function under the engine lock with the time budget
// armed. The VM is interrupted on timeout or context cancellation.
func (e *Engine) call(ctx context.Context, args ...goja.Value) (goja.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-time.After(e.opts.Timeout):
			e.vm.Interrupt(ErrScriptTimeout)
		case <-done:
		}
	}()
	defer func() {
		close(done)
		e.vm.ClearInterrupt()
	}()

	result, err := e.entry(goja.Undefined(), args...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, fmt.Errorf("script %q interrupted: %w", e.name, cause)
			}
			return nil, fmt.Errorf("script %q interrupted: %v", e.name, interrupted.Value())
		}
		return nil, fmt.Errorf("script %q failed: %w", e.name, err)
	}
	return result, nil
}

// Transform returns a step function that feeds each value through the
// script's entry function and emits its return value.
func (e *Engine) Transform() func(ctx context.Context, v any) (any, error) {
	return func(ctx context.Context, v any) (any, error) {
		result, err := e.call(ctx, e.vm.ToValue(v))
		if err != nil {
			return nil, err
		}
		return result.Export(), nil
	}
}

// Predicate returns a step function whose truthiness decides whether a
// value passes a filter.
func (e *Engine) Predicate() func(ctx context.Context, v any) (bool, error) {
	return func(ctx context.Context, v any) (bool, error) {
		result, err := e.call(ctx, e.vm.ToValue(v))
		if err != nil {
			return false, err
		}
		return result.ToBoolean(), nil
	}
}

// Source returns a generator step function. A null or undefined return from
// the script marks the end of the stream.
func (e *Engine) Source() func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		result, err := e.call(ctx)
		if err != nil {
			return nil, err
		}
		if goja.IsNull(result) || goja.IsUndefined(result) {
			return nil, node.ErrEndOfStream
		}
		return result.Export(), nil
	}
}
