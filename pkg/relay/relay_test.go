package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wehubfusion/Daedalus/pkg/flow"
	"github.com/wehubfusion/Daedalus/pkg/node"
)

// loopbackInlet builds an inlet around its message channel without a live
// subscription, so stream semantics are testable in isolation.
func loopbackInlet(t *testing.T) *Inlet {
	t.Helper()
	in := &Inlet{subject: "events", msgs: make(chan *nats.Msg, 4)}
	in.Generator = node.NewGenerator[[]byte]("inlet", node.DefaultControlConfig(), nil, in.next)
	return in
}

func TestNewInletValidation(t *testing.T) {
	if _, err := NewInlet("in", nil, "events", node.DefaultControlConfig(), nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}

func TestNewOutletValidation(t *testing.T) {
	if _, err := NewOutlet("out", nil, "events", node.DefaultControlConfig(), nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}

func TestInletDeliversThenEndsOnClose(t *testing.T) {
	ctx := context.Background()
	in := loopbackInlet(t)
	in.Out = flow.MustChannel[[]byte](8)

	in.msgs <- &nats.Msg{Subject: in.Subject(), Data: []byte("a")}
	in.msgs <- &nats.Msg{Subject: in.Subject(), Data: []byte("b")}

	if err := in.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Closure ends the stream gracefully: buffered messages drain, the
	// generator idles, and its output closes.
	deadline := time.Now().Add(2 * time.Second)
	for in.State() != node.StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("inlet did not idle after close, state %v", in.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !in.Out.IsClosed() {
		t.Fatal("expected inlet output closed after stream end")
	}

	var got []string
	for {
		v, err := in.Out.Get(ctx)
		if err != nil {
			break
		}
		got = append(got, string(v))
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestInletNextEndOfStream(t *testing.T) {
	in := loopbackInlet(t)
	if err := in.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := in.next(context.Background()); !errors.Is(err, node.ErrEndOfStream) {
		t.Fatalf("expected end of stream after close, got %v", err)
	}
}

func TestInletNextContextCancellation(t *testing.T) {
	in := loopbackInlet(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := in.next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestInletCloseIdempotent(t *testing.T) {
	in := loopbackInlet(t)
	if err := in.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
}
