package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when the selected broker cannot perform
// the requested operation, such as delayed delivery on core NATS.
var ErrUnsupported = errors.New("pkgmessage: unsupported operation")

// Messaging is a broker client that both publishes and consumes.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher sends messages to a destination. What "destination" means
// depends on the broker: topic for NSQ, subject for NATS.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer receives messages from a source and feeds them to a
// handler.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. Whether an error triggers a
// redelivery is decided by the consumer's auto-ack setting, not by
// the handler's return value alone.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is the broker-agnostic payload handed to Publish.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is a routing or partitioning key for brokers that use one.
	Key []byte

	// Headers carry binary values and may repeat keys.
	Headers []Header

	// Attributes is for brokers that model string attributes instead
	// of headers.
	Attributes map[string]string

	// Delay defers delivery where the broker supports it.
	Delay time.Duration

	// Metadata carries broker-specific publish settings.
	Metadata map[string]any
}

// Header is one message header entry.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult reports what the broker said about an accepted
// message. Fields a broker does not provide stay zero.
type PublishResult struct {
	// MessageID is the broker-assigned message ID.
	MessageID string

	// Topic is the destination the message was published to.
	Topic string

	// Sequence is set by JetStream-style brokers.
	Sequence uint64

	// Timestamp is when the broker accepted the message.
	Timestamp time.Time

	// Raw exposes the underlying broker-specific result, if any.
	Raw any
}

// Message is a received message. Accessors for concepts a broker
// lacks return zero values.
type Message interface {
	// Body returns the message payload.
	Body() []byte
	// Key returns the routing key, when the broker has one.
	Key() []byte
	// Headers returns message headers.
	Headers() []Header
	// Attributes returns broker string attributes.
	Attributes() map[string]string

	// ID returns the broker-assigned message ID, or "".
	ID() string
	// Topic returns the topic name when applicable.
	Topic() string
	// Subject returns the subject name when applicable.
	Subject() string
	// Timestamp returns when the broker received the message.
	Timestamp() time.Time

	// Ack marks the message as successfully processed.
	Ack(ctx context.Context) error
}

// Nackable is implemented by messages that can ask for redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

// Extendable is implemented by messages whose ack deadline can be
// pushed out while processing runs long.
type Extendable interface {
	Extend(ctx context.Context, d time.Duration) error
}

// MetadataCarrier exposes broker-specific delivery metadata for
// logging.
type MetadataCarrier interface {
	Metadata() map[string]any
}

// RawCarrier exposes the underlying broker message type.
type RawCarrier interface {
	Raw() any
}
