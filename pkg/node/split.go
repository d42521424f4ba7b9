package node

import (
	"context"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Splitter2 is a 1-input, 2-output node. Each step reads one value and
// routes it to a subset of the outputs via the Pair result, e.g. a
// classifier sending each value down exactly one branch.
type Splitter2[In, A, B any] struct {
	*Runtime

	In        *flow.Channel[In]
	OutFirst  *flow.Channel[A]
	OutSecond *flow.Channel[B]

	// Split maps one input value to the per-output presence decision.
	Split func(ctx context.Context, v In) (Pair[A, B], error)
}

// NewSplitter2 creates an idle two-output splitter.
func NewSplitter2[In, A, B any](id string, control ControlConfig, logger *zap.Logger, split func(ctx context.Context, v In) (Pair[A, B], error)) *Splitter2[In, A, B] {
	return &Splitter2[In, A, B]{Runtime: New(id, control, logger), Split: split}
}

// Start schedules the split loop.
func (s *Splitter2[In, A, B]) Start(ctx context.Context) error {
	if s.Split == nil {
		return ErrNoStepFunction
	}
	if s.In == nil {
		return ErrNoInputBound
	}
	if s.OutFirst == nil || s.OutSecond == nil {
		return ErrNoOutputBound
	}
	in, first, second, split := s.In, s.OutFirst, s.OutSecond, s.Split
	s.bindOwned(first, second)

	s.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := s.awaitRunning(ctx); err != nil {
				return err
			}
			if err := s.stepDelay(ctx); err != nil {
				return err
			}
			v, err := in.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			p, err := split(ctx, v)
			if err != nil {
				return NewProcessingError(s.ID(), "split", err)
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

// Splitter3 is a 1-input, 3-output node with a Triple step result.
type Splitter3[In, A, B, C any] struct {
	*Runtime

	In        *flow.Channel[In]
	OutFirst  *flow.Channel[A]
	OutSecond *flow.Channel[B]
	OutThird  *flow.Channel[C]

	Split func(ctx context.Context, v In) (Triple[A, B, C], error)
}

// NewSplitter3 creates an idle three-output splitter.
func NewSplitter3[In, A, B, C any](id string, control ControlConfig, logger *zap.Logger, split func(ctx context.Context, v In) (Triple[A, B, C], error)) *Splitter3[In, A, B, C] {
	return &Splitter3[In, A, B, C]{Runtime: New(id, control, logger), Split: split}
}

// Start schedules the split loop.
func (s *Splitter3[In, A, B, C]) Start(ctx context.Context) error {
	if s.Split == nil {
		return ErrNoStepFunction
	}
	if s.In == nil {
		return ErrNoInputBound
	}
	if s.OutFirst == nil || s.OutSecond == nil || s.OutThird == nil {
		return ErrNoOutputBound
	}
	in, first, second, third, split := s.In, s.OutFirst, s.OutSecond, s.OutThird, s.Split
	s.bindOwned(first, second, third)

	s.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := s.awaitRunning(ctx); err != nil {
				return err
			}
			if err := s.stepDelay(ctx); err != nil {
				return err
			}
			v, err := in.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			tr, err := split(ctx, v)
			if err != nil {
				return NewProcessingError(s.ID(), "split", err)
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
