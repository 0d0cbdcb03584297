package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported broker driver names for NewFromDriver.
const (
	DriverNSQ  = "nsq"
	DriverNATS = "nats"
)

// ErrUnknownDriver is returned when the configured driver name does
// not match any supported broker.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions bundles per-broker configuration so callers can
// build any driver from one config block.
type FactoryOptions struct {
	NSQ  NSQConfig
	NATS NATSConfig
}

// NewFromDriver picks a Messaging implementation by driver name.
func NewFromDriver(_ context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	switch strings.TrimSpace(driver) {
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverNATS:
		return NewNATS(opts.NATS)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
