package messaging

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// nsqDelivery adapts a *nsq.Message to the Message interface. NSQ has
// no headers or attributes, so those accessors return nil.
type nsqDelivery struct {
	topic string
	msg   *nsq.Message

	responded atomic.Bool
}

func newNSQDelivery(topic string, msg *nsq.Message) *nsqDelivery {
	return &nsqDelivery{
		topic: topic,
		msg:   msg,
	}
}

func (d *nsqDelivery) hasResponded() bool {
	return d.responded.Load()
}

// Ack finishes the message. Only the first Ack or Nack wins; the
// rest are no-ops.
func (d *nsqDelivery) Ack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) {
		return nil
	}
	d.msg.Finish()
	return nil
}

// Nack requeues the message with the broker's default delay.
func (d *nsqDelivery) Nack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) {
		return nil
	}
	d.msg.Requeue(0)
	return nil
}

func (d *nsqDelivery) Extend(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.msg.Touch()
	return nil
}

func (d *nsqDelivery) Body() []byte { return d.msg.Body }
func (d *nsqDelivery) Key() []byte  { return nil }

func (d *nsqDelivery) Headers() []Header { return nil }

func (d *nsqDelivery) Attributes() map[string]string { return nil }

// ID is the hex form of the broker-assigned message ID, which the
// idempotency layer keys on.
func (d *nsqDelivery) ID() string { return fmt.Sprintf("%x", d.msg.ID) }

func (d *nsqDelivery) Topic() string   { return d.topic }
func (d *nsqDelivery) Subject() string { return "" }

func (d *nsqDelivery) Timestamp() time.Time {
	return time.Unix(0, d.msg.Timestamp)
}

func (d *nsqDelivery) Metadata() map[string]any {
	return map[string]any{
		"attempts":      d.msg.Attempts,
		"nsqd_address":  d.msg.NSQDAddress,
		"raw_timestamp": d.msg.Timestamp,
	}
}

func (d *nsqDelivery) Raw() any { return d.msg }
