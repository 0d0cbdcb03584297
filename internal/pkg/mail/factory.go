package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP selects the net/smtp backend.
	DriverSMTP = "smtp"
	// DriverAPI selects the HTTP API backend.
	DriverAPI = "api"
)

// ErrUnknownDriver indicates an unsupported mail driver.
var ErrUnknownDriver = errors.New("mail: unknown driver")

// FactoryOptions groups configuration for mail drivers.
type FactoryOptions struct {
	// SMTP configures the SMTP backend.
	SMTP SMTPConfig
	// API configures the HTTP API backend.
	API APIConfig
}

// NewFromDriver constructs a Mail implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(driver) {
	case DriverSMTP:
		return NewSMTP(opts.SMTP)
	case DriverAPI:
		return NewAPI(opts.API)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
