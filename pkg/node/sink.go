package node

import (
	"context"

	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// Sink is a 1-input, 0-output node. Its task loop reads one value per step
// and hands it to the consumer callback, until the input channel closes.
// Sinks never close their input; closure is the producer's signal.
type Sink[T any] struct {
	*Runtime

	// In is the input channel slot, assigned before Start.
	In *flow.Channel[T]

	// Consume handles one value.
	Consume func(ctx context.Context, v T) error
}

// NewSink creates an idle sink.
func NewSink[T any](id string, control ControlConfig, logger *zap.Logger, consume func(ctx context.Context, v T) error) *Sink[T] {
	return &Sink[T]{Runtime: New(id, control, logger), Consume: consume}
}

// Start schedules the sink loop.
func (s *Sink[T]) Start(ctx context.Context) error {
	if s.Consume == nil {
		return ErrNoStepFunction
	}
	if s.In == nil {
		return ErrNoInputBound
	}
	in, consume := s.In, s.Consume

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
			if err := consume(ctx, v); err != nil {
				return NewProcessingError(s.ID(), "consume", err)
			}
		}
	})
	return nil
}

// PairSink is a 2-input, 0-output node. Each step reads one value from every
// input in lock-step (the step blocks until both are available) before the
// consumer runs. The loop ends when either input closes.
type PairSink[A, B any] struct {
	*Runtime

	InFirst  *flow.Channel[A]
	InSecond *flow.Channel[B]

	// Consume handles one zipped pair of values.
	Consume func(ctx context.Context, a A, b B) error
}

// NewPairSink creates an idle two-input sink.
func NewPairSink[A, B any](id string, control ControlConfig, logger *zap.Logger, consume func(ctx context.Context, a A, b B) error) *PairSink[A, B] {
	return &PairSink[A, B]{Runtime: New(id, control, logger), Consume: consume}
}

// Start schedules the sink loop.
func (s *PairSink[A, B]) Start(ctx context.Context) error {
	if s.Consume == nil {
		return ErrNoStepFunction
	}
	if s.InFirst == nil || s.InSecond == nil {
		return ErrNoInputBound
	}
	first, second, consume := s.InFirst, s.InSecond, s.Consume

	s.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := s.awaitRunning(ctx); err != nil {
				return err
			}
			if err := s.stepDelay(ctx); err != nil {
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
			if err := consume(ctx, a, b); err != nil {
				return NewProcessingError(s.ID(), "consume", err)
			}
		}
	})
	return nil
}

// TripleSink is a 3-input, 0-output node with the same lock-step policy as
// PairSink.
type TripleSink[A, B, C any] struct {
	*Runtime

	InFirst  *flow.Channel[A]
	InSecond *flow.Channel[B]
	InThird  *flow.Channel[C]

	Consume func(ctx context.Context, a A, b B, c C) error
}

// NewTripleSink creates an idle three-input sink.
func NewTripleSink[A, B, C any](id string, control ControlConfig, logger *zap.Logger, consume func(ctx context.Context, a A, b B, c C) error) *TripleSink[A, B, C] {
	return &TripleSink[A, B, C]{Runtime: New(id, control, logger), Consume: consume}
}

// Start schedules the sink loop.
func (s *TripleSink[A, B, C]) Start(ctx context.Context) error {
	if s.Consume == nil {
		return ErrNoStepFunction
	}
	if s.InFirst == nil || s.InSecond == nil || s.InThird == nil {
		return ErrNoInputBound
	}
	first, second, third, consume := s.InFirst, s.InSecond, s.InThird, s.Consume

	s.Runtime.Start(ctx, func(ctx context.Context) error {
		for {
			if err := s.awaitRunning(ctx); err != nil {
				return err
			}
			if err := s.stepDelay(ctx); err != nil {
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
			c, err := third.Get(ctx)
			if err != nil {
				if flow.IsClosed(err) {
					return nil
				}
				return err
			}
			if err := consume(ctx, a, b, c); err != nil {
				return NewProcessingError(s.ID(), "consume", err)
			}
		}
	})
	return nil
}
