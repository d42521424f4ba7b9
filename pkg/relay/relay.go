// Package relay connects node pipelines to NATS subjects. An Inlet turns a
// subscription into a byte-stream generator; an Outlet turns a sink into a
// publisher. Both are ordinary runtimes and respect pause, resume, and stop.
package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/node"
)

// pendingLimit bounds messages buffered between the subscription and the
// generator step while the runtime is paused.
const pendingLimit = 256

// Inlet receives messages from a NATS subject and emits their payloads as a
// generator. The stream ends when the inlet is closed.
type Inlet struct {
	*node.Generator[[]byte]

	subject string
	sub     *nats.Subscription
	msgs    chan *nats.Msg
	once    sync.Once
}

// NewInlet subscribes to subject on conn and wires the subscription into a
// generator runtime. The caller binds Out and starts the runtime as usual.
func NewInlet(id string, conn *nats.Conn, subject string, control node.ControlConfig, logger *zap.Logger) (*Inlet, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}

	msgs := make(chan *nats.Msg, pendingLimit)
	sub, err := conn.ChanSubscribe(subject, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	in := &Inlet{subject: subject, sub: sub, msgs: msgs}
	in.Generator = node.NewGenerator[[]byte](id, control, logger, in.next)
	return in, nil
}

func (in *Inlet) next(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-in.msgs:
		if !ok {
			return nil, node.ErrEndOfStream
		}
		return msg.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subject returns the subscribed subject.
func (in *Inlet) Subject() string { return in.subject }

// Close unsubscribes and ends the stream. Buffered messages are still
// delivered before the generator finishes.
func (in *Inlet) Close() error {
	var err error
	in.once.Do(func() {
		if in.sub != nil {
			err = in.sub.Unsubscribe()
		}
		close(in.msgs)
	})
	return err
}

// Outlet publishes every consumed payload to a NATS subject.
type Outlet struct {
	*node.Sink[[]byte]

	subject string
}

// NewOutlet builds a sink runtime that publishes to subject on conn. The
// caller binds In and starts the runtime as usual.
func NewOutlet(id string, conn *nats.Conn, subject string, control node.ControlConfig, logger *zap.Logger) (*Outlet, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}

	out := &Outlet{subject: subject}
	out.Sink = node.NewSink[[]byte](id, control, logger, func(ctx context.Context, data []byte) error {
		if err := conn.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", subject, err)
		}
		return nil
	})
	return out, nil
}

// Subject returns the publish subject.
func (o *Outlet) Subject() string { return o.subject }
