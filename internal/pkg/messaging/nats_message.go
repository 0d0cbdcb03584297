package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
)

// natsDelivery adapts a *nats.Msg to the Message interface. Ack and
// Nack tolerate plain core NATS messages, where there is nothing to
// acknowledge.
type natsDelivery struct {
	msg        *nats.Msg
	receivedAt time.Time

	responded atomic.Bool
}

func newNATSDelivery(msg *nats.Msg, receivedAt time.Time) *natsDelivery {
	return &natsDelivery{
		msg:        msg,
		receivedAt: receivedAt,
	}
}

// hasResponded reports whether the handler already acked or nacked,
// which suppresses the consumer's auto-ack.
func (d *natsDelivery) hasResponded() bool {
	return d.responded.Load()
}

// respond runs one ack-family call at most once, swallowing the
// errors NATS returns for messages that have no reply subject.
func (d *natsDelivery) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) {
		return nil
	}
	if err := fn(); err != nil && !isNATSAckUnsupported(err) {
		return err
	}
	return nil
}

func (d *natsDelivery) Ack(ctx context.Context) error {
	return d.respond(ctx, func() error { return d.msg.Ack() })
}

func (d *natsDelivery) Nack(ctx context.Context) error {
	return d.respond(ctx, func() error { return d.msg.Nak() })
}

func (d *natsDelivery) Extend(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.msg.InProgress(); err != nil && !isNATSAckUnsupported(err) {
		return err
	}
	return nil
}

func (d *natsDelivery) Body() []byte { return d.msg.Data }
func (d *natsDelivery) Key() []byte  { return nil }

func (d *natsDelivery) Headers() []Header {
	if len(d.msg.Header) == 0 {
		return nil
	}

	var headers []Header
	for k, values := range d.msg.Header {
		for _, v := range values {
			headers = append(headers, Header{
				Key:   k,
				Value: []byte(v),
			})
		}
	}
	return headers
}

func (d *natsDelivery) Attributes() map[string]string {
	if len(d.msg.Header) == 0 {
		return nil
	}

	attrs := make(map[string]string, len(d.msg.Header))
	for k, values := range d.msg.Header {
		if len(values) > 0 {
			attrs[k] = values[0]
		}
	}
	return attrs
}

// ID is empty because core NATS assigns no broker-side message ID.
func (d *natsDelivery) ID() string { return "" }

func (d *natsDelivery) Topic() string   { return "" }
func (d *natsDelivery) Subject() string { return d.msg.Subject }

func (d *natsDelivery) Timestamp() time.Time { return d.receivedAt }

func (d *natsDelivery) Metadata() map[string]any {
	meta := map[string]any{
		"reply": d.msg.Reply,
	}

	// JetStream deliveries carry extra metadata worth logging
	if md, err := d.msg.Metadata(); err == nil && md != nil {
		meta["sequence_stream"] = md.Sequence.Stream
		meta["sequence_consumer"] = md.Sequence.Consumer
		meta["num_delivered"] = md.NumDelivered
		meta["num_pending"] = md.NumPending
		meta["timestamp"] = md.Timestamp
		meta["domain"] = md.Domain
	}

	return meta
}

func (d *natsDelivery) Raw() any { return d.msg }

func (d *natsDelivery) String() string {
	return fmt.Sprintf("nats subject=%q", d.msg.Subject)
}

func isNATSAckUnsupported(err error) bool {
	return errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound)
}
