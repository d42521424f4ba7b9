package node

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// countingSource returns a step function emitting 1, 2, 3, ...
func countingSource() func(ctx context.Context) (int64, error) {
	var n int64
	return func(ctx context.Context) (int64, error) {
		n++
		return n, nil
	}
}

func TestTickIntervalEmission(t *testing.T) {
	// With stepDelay = T and no backpressure, a counting generator emits
	// floor(elapsed/T) values, in order. T=200ms over ~700ms gives exactly 3.
	out := flow.MustChannel[int64](100)
	g := NewGenerator[int64]("ticker", DefaultControlConfig().WithStepDelay(200*time.Millisecond), nil, countingSource())
	g.Out = out
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(700 * time.Millisecond)
	g.Stop()

	var values []int64
	for {
		v, err := out.Get(context.Background())
		if err != nil {
			break
		}
		values = append(values, v)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 emissions in 700ms at 200ms intervals, got %d: %v", len(values), values)
	}
	for i, v := range values {
		if v != int64(i+1) {
			t.Fatalf("expected counting sequence [1 2 3], got %v", values)
		}
	}
}

func TestNoEmissionBeforeFirstDelayElapses(t *testing.T) {
	out := flow.MustChannel[int64](100)
	g := NewGenerator[int64]("ticker", DefaultControlConfig().WithStepDelay(500*time.Millisecond), nil, countingSource())
	g.Out = out
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer g.Stop()

	time.Sleep(100 * time.Millisecond)
	if n := out.Len(); n != 0 {
		t.Fatalf("expected no emission before the first delay elapsed, got %d", n)
	}
}

func TestBackpressureCapsProducerLead(t *testing.T) {
	// A generator with no delay writing into a capacity-2 channel, consumed
	// by a slow sink, must never run unboundedly ahead of the consumer.
	const capacity = 2
	ch := flow.MustChannel[int64](capacity)

	var emitted, consumed atomic.Int64
	g := NewGenerator[int64]("fast", DefaultControlConfig(), nil, func(ctx context.Context) (int64, error) {
		return emitted.Add(1), nil
	})
	g.Out = ch

	s := NewSink[int64]("slow", DefaultControlConfig().WithStepDelay(40*time.Millisecond), nil,
		func(ctx context.Context, v int64) error {
			consumed.Add(1)
			return nil
		})
	s.In = ch

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start sink: %v", err)
	}
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start generator: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	e, c := emitted.Load(), consumed.Load()
	g.Stop()
	s.Stop()

	if e < 3 {
		t.Fatalf("pipeline made no progress: emitted %d", e)
	}
	// Producer lead is bounded by channel capacity plus the value in the
	// sink's hands plus the one in the producer's hands.
	if lead := e - c; lead > capacity+2 {
		t.Fatalf("producer ran %d values ahead of consumer, capacity %d", lead, capacity)
	}
}

func TestGeneratorEndOfStreamClosesOutput(t *testing.T) {
	out := flow.MustChannel[int64](10)
	var n int64
	g := NewGenerator[int64]("finite", DefaultControlConfig(), nil, func(ctx context.Context) (int64, error) {
		n++
		if n > 3 {
			return 0, ErrEndOfStream
		}
		return n, nil
	})
	g.Out = out
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForState(t, g.Runtime, StateIdle)

	if !out.IsClosed() {
		t.Fatal("expected output closed after source exhaustion")
	}
	var values []int64
	for {
		v, err := out.Get(context.Background())
		if err != nil {
			break
		}
		values = append(values, v)
	}
	if len(values) != 3 || values[0] != 1 || values[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", values)
	}
}
