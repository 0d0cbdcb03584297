package entity

import "time"

// OneTimeCode is a stored emailed code. CodeHash is a keyed hash of the six
// digit value; the plaintext exists only in the delivery email.
type OneTimeCode struct {
	ID        int64
	Email     string
	Purpose   Purpose
	CodeHash  string
	Attempts  int16
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is past its deadline at the given instant.
func (c OneTimeCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
