package node

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Generator is a 0-input, 1-output node. Its task loop waits the configured
// step delay, produces a value, and writes it to Out, until the task is
// cancelled, Out is closed by its consumer, or Next reports ErrEndOfStream.
type Generator[T any] struct {
	*Runtime

	// Out is the output channel slot, assigned before Start. The generator
	// owns it: Stop and graceful completion close it.
	Out *flow.Channel[T]

	// Next produces the value for one step.
	Next func(ctx context.Context) (T, error)
}

// NewGenerator creates an idle generator.
func NewGenerator[T any](id string, control ControlConfig, logger *zap.Logger, next func(ctx context.Context) (T, error)) *Generator[T] {
	return &Generator[T]{Runtime: New(id, control, logger), Next: next}
}

// Start schedules the generator loop. Returns an error if the step function
// or the output channel slot is unassigned.
func (g *Generator[T]) Start(ctx context.Context) error {
	if g.Next == nil {
		return ErrNoStepFunction
	}
	if g.Out == nil {
		return ErrNoOutputBound
	}
	out, next := g.Out, g.Next
	g.bindOwned(out)

	g.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := g.awaitRunning(ctx); err != nil {
				return err
			}
			if err := g.stepDelay(ctx); err != nil {
				return err
			}
			v, err := next(ctx)
			if err != nil {
				if errors.Is(err, ErrEndOfStream) {
					return nil
				}
				return NewProcessingError(g.ID(), "generate", err)
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

// PairGenerator is a 0-input, 2-output node whose step selectively populates
// a subset of its outputs via a Pair result.
type PairGenerator[A, B any] struct {
	*Runtime

	// OutFirst and OutSecond are the output channel slots, assigned before
	// Start and owned by the generator.
	OutFirst  *flow.Channel[A]
	OutSecond *flow.Channel[B]

	// Next produces the pair result for one step.
	Next func(ctx context.Context) (Pair[A, B], error)
}

// NewPairGenerator creates an idle two-output generator.
func NewPairGenerator[A, B any](id string, control ControlConfig, logger *zap.Logger, next func(ctx context.Context) (Pair[A, B], error)) *PairGenerator[A, B] {
	return &PairGenerator[A, B]{Runtime: New(id, control, logger), Next: next}
}

// Start schedules the generator loop.
func (g *PairGenerator[A, B]) Start(ctx context.Context) error {
	if g.Next == nil {
		return ErrNoStepFunction
	}
	if g.OutFirst == nil || g.OutSecond == nil {
		return ErrNoOutputBound
	}
	first, second, next := g.OutFirst, g.OutSecond, g.Next
	g.bindOwned(first, second)

	g.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := g.awaitRunning(ctx); err != nil {
				return err
			}
			if err := g.stepDelay(ctx); err != nil {
				return err
			}
			p, err := next(ctx)
			if err != nil {
				if errors.Is(err, ErrEndOfStream) {
					return nil
				}
				return NewProcessingError(g.ID(), "generate", err)
			}
			if err := putPair(ctx, p, first, second); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}

// TripleGenerator is a 0-input, 3-output node with a Triple step result.
type TripleGenerator[A, B, C any] struct {
	*Runtime

	OutFirst  *flow.Channel[A]
	OutSecond *flow.Channel[B]
	OutThird  *flow.Channel[C]

	// Next produces the triple result for one step.
	Next func(ctx context.Context) (Triple[A, B, C], error)
}

// NewTripleGenerator creates an idle three-output generator.
func NewTripleGenerator[A, B, C any](id string, control ControlConfig, logger *zap.Logger, next func(ctx context.Context) (Triple[A, B, C], error)) *TripleGenerator[A, B, C] {
	return &TripleGenerator[A, B, C]{Runtime: New(id, control, logger), Next: next}
}

// Start schedules the generator loop.
func (g *TripleGenerator[A, B, C]) Start(ctx context.Context) error {
	if g.Next == nil {
		return ErrNoStepFunction
	}
	if g.OutFirst == nil || g.OutSecond == nil || g.OutThird == nil {
		return ErrNoOutputBound
	}
	first, second, third, next := g.OutFirst, g.OutSecond, g.OutThird, g.Next
	g.bindOwned(first, second, third)

	g.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := g.awaitRunning(ctx); err != nil {
				return err
			}
			if err := g.stepDelay(ctx); err != nil {
				return err
			}
			tr, err := next(ctx)
			if err != nil {
				if errors.Is(err, ErrEndOfStream) {
					return nil
				}
				return NewProcessingError(g.ID(), "generate", err)
			}
			if err := putTriple(ctx, tr, first, second, third); err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
		}
	})
	return nil
}
