package node

import (
	"context"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Combiner2 is a 2-input, 1-output node. Each step reads one value from
// every input in lock-step, applies the join function, and writes the single
// result. No ordering is guaranteed across the two inputs; the step simply
// blocks until both have delivered.
type Combiner2[A, B, Out any] struct {
	*Runtime

	InFirst  *flow.Channel[A]
	InSecond *flow.Channel[B]
	Out      *flow.Channel[Out]

	// Join merges one value from each input into the step result.
	Join func(ctx context.Context, a A, b B) (Out, error)
}

// NewCombiner2 creates an idle two-input combiner.
func NewCombiner2[A, B, Out any](id string, control ControlConfig, logger *zap.Logger, join func(ctx context.Context, a A, b B) (Out, error)) *Combiner2[A, B, Out] {
	return &Combiner2[A, B, Out]{Runtime: New(id, control, logger), Join: join}
}

// Start schedules the combine loop.
func (c *Combiner2[A, B, Out]) Start(ctx context.Context) error {
	if c.Join == nil {
		return ErrNoStepFunction
	}
	if c.InFirst == nil || c.InSecond == nil {
		return ErrNoInputBound
	}
	if c.Out == nil {
		return ErrNoOutputBound
	}
	first, second, out, join := c.InFirst, c.InSecond, c.Out, c.Join
	c.bindOwned(out)

	c.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := c.awaitRunning(ctx); err != nil {
				return err
			}
			if err := c.stepDelay(ctx); err != nil {
				return err
			}
			a, err := first.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			b, err := second.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			merged, err := join(ctx, a, b)
			if err != nil {
				return NewProcessingError(c.ID(), "combine", err)
			}
			if err := out.Put(ctx, merged); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}

// Combiner3 is a 3-input, 1-output node with the same lock-step policy as
// Combiner2.
type Combiner3[A, B, C, Out any] struct {
	*Runtime

	InFirst  *flow.Channel[A]
	InSecond *flow.Channel[B]
	InThird  *flow.Channel[C]
	Out      *flow.Channel[Out]

	Join func(ctx context.Context, a A, b B, c C) (Out, error)
}

// NewCombiner3 creates an idle three-input combiner.
func NewCombiner3[A, B, C, Out any](id string, control ControlConfig, logger *zap.Logger, join func(ctx context.Context, a A, b B, c C) (Out, error)) *Combiner3[A, B, C, Out] {
	return &Combiner3[A, B, C, Out]{Runtime: New(id, control, logger), Join: join}
}

// Start schedules the combine loop.
func (c *Combiner3[A, B, C, Out]) Start(ctx context.Context) error {
	if c.Join == nil {
		return ErrNoStepFunction
	}
	if c.InFirst == nil || c.InSecond == nil || c.InThird == nil {
		return ErrNoInputBound
	}
	if c.Out == nil {
		return ErrNoOutputBound
	}
	first, second, third, out, join := c.InFirst, c.InSecond, c.InThird, c.Out, c.Join
	c.bindOwned(out)

	c.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := c.awaitRunning(ctx); err != nil {
				return err
			}
			if err := c.stepDelay(ctx); err != nil {
				return err
			}
			a, err := first.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			b, err := second.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			cc, err := third.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			merged, err := join(ctx, a, b, cc)
			if err != nil {
				return NewProcessingError(c.ID(), "combine", err)
			}
			if err := out.Put(ctx, merged); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}

// PairCombiner2 is a 2-input, 2-output node: lock-step reads like Combiner2,
// selective tuple distribution like PairGenerator. Other multi-input,
// multi-output combinations follow the same loop structure, one lock-step
// read per input and one tuple distribution across the outputs.
type PairCombiner2[A, B, X, Y any] struct {
	*Runtime

	InFirst   *flow.Channel[A]
	InSecond  *flow.Channel[B]
	OutFirst  *flow.Channel[X]
	OutSecond *flow.Channel[Y]

	Join func(ctx context.Context, a A, b B) (Pair[X, Y], error)
}

// NewPairCombiner2 creates an idle two-input, two-output combiner.
func NewPairCombiner2[A, B, X, Y any](id string, control ControlConfig, logger *zap.Logger, join func(ctx context.Context, a A, b B) (Pair[X, Y], error)) *PairCombiner2[A, B, X, Y] {
	return &PairCombiner2[A, B, X, Y]{Runtime: New(id, control, logger), Join: join}
}

// Start schedules the combine loop.
func (c *PairCombiner2[A, B, X, Y]) Start(ctx context.Context) error {
	if c.Join == nil {
		return ErrNoStepFunction
	}
	if c.InFirst == nil || c.InSecond == nil {
		return ErrNoInputBound
	}
	if c.OutFirst == nil || c.OutSecond == nil {
		return ErrNoOutputBound
	}
	first, second, outFirst, outSecond, join := c.InFirst, c.InSecond, c.OutFirst, c.OutSecond, c.Join
	c.bindOwned(outFirst, outSecond)

	c.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := c.awaitRunning(ctx); err != nil {
				return err
			}
			if err := c.stepDelay(ctx); err != nil {
				return err
			}
			a, err := first.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			b, err := second.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			p, err := join(ctx, a, b)
			if err != nil {
				return NewProcessingError(c.ID(), "combine", err)
			}
			if err := putPair(ctx, p, outFirst, outSecond); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}
