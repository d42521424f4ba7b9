package node

import (
	"context"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Transformer is a 1-input, 1-output node. Each step reads one value,
// applies the mapping function, and writes the result. The transformer owns
// its output channel; its input belongs to the upstream producer.
type Transformer[In, Out any] struct {
	*Runtime

	In  *flow.Channel[In]
	Out *flow.Channel[Out]

	// Map converts one input value to one output value.
	Map func(ctx context.Context, v In) (Out, error)
}

// NewTransformer creates an idle transformer.
func NewTransformer[In, Out any](id string, control ControlConfig, logger *zap.Logger, mapFn func(ctx context.Context, v In) (Out, error)) *Transformer[In, Out] {
	return &Transformer[In, Out]{Runtime: New(id, control, logger), Map: mapFn}
}

// Start schedules the transform loop.
func (t *Transformer[In, Out]) Start(ctx context.Context) error {
	if t.Map == nil {
		return ErrNoStepFunction
	}
	if t.In == nil {
		return ErrNoInputBound
	}
	if t.Out == nil {
		return ErrNoOutputBound
	}
	in, out, mapFn := t.In, t.Out, t.Map
	t.bindOwned(out)

	t.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := t.awaitRunning(ctx); err != nil {
				return err
			}
			if err := t.stepDelay(ctx); err != nil {
				return err
			}
			v, err := in.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			mapped, err := mapFn(ctx, v)
			if err != nil {
				return NewProcessingError(t.ID(), "transform", err)
			}
			if err := out.Put(ctx, mapped); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}

// Filter is a 1-input, 1-output node that forwards a value only when the
// predicate holds. Dropped values are not written and are not an error.
type Filter[T any] struct {
	*Runtime

	In  *flow.Channel[T]
	Out *flow.Channel[T]

	// Predicate decides whether a value is forwarded.
	Predicate func(ctx context.Context, v T) (bool, error)
}

// NewFilter creates an idle filter.
func NewFilter[T any](id string, control ControlConfig, logger *zap.Logger, predicate func(ctx context.Context, v T) (bool, error)) *Filter[T] {
	return &Filter[T]{Runtime: New(id, control, logger), Predicate: predicate}
}

// Start schedules the filter loop.
func (f *Filter[T]) Start(ctx context.Context) error {
	if f.Predicate == nil {
		return ErrNoStepFunction
	}
	if f.In == nil {
		return ErrNoInputBound
	}
	if f.Out == nil {
		return ErrNoOutputBound
	}
	in, out, predicate := f.In, f.Out, f.Predicate
	f.bindOwned(out)

	f.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := f.awaitRunning(ctx); err != nil {
				return err
			}
			if err := f.stepDelay(ctx); err != nil {
				return err
			}
			v, err := in.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			keep, err := predicate(ctx, v)
			if err != nil {
				return NewProcessingError(f.ID(), "predicate", err)
			}
			if !keep {
				continue
			}
			if err := out.Put(ctx, v); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}
