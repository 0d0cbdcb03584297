package clock

import "time"

// Clocker is the time source the application depends on.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the real system time.
type TimeClocker struct{}

// New returns the production clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now reports the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}
