package node

import (
	"context"

	"github.com/wehubfusion/Daedalus/pkg/flow"
)

// putPair writes the present slots of p to the two output channels in slot
// order. Absent slots produce no write. Each write individually blocks under
// backpressure before the next is attempted; a partially written step is a
// valid transient state and is not rolled back.
func putPair[A, B any](ctx context.Context, p Pair[A, B], first *flow.Channel[A], second *flow.Channel[B]) error {
	if v, ok := p.First(); ok {
		if err := first.Put(ctx, v); err != nil {
			return err
		}
	}
	if v, ok := p.Second(); ok {
		if err := second.Put(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// putTriple is putPair for three-output steps.
func putTriple[A, B, C any](ctx context.Context, t Triple[A, B, C], first *flow.Channel[A], second *flow.Channel[B], third *flow.Channel[C]) error {
	if v, ok := t.First(); ok {
		if err := first.Put(ctx, v); err != nil {
			return err
		}
	}
	if v, ok := t.Second(); ok {
		if err := second.Put(ctx, v); err != nil {
			return err
		}
	}
	if v, ok := t.Third(); ok {
		if err := third.Put(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
