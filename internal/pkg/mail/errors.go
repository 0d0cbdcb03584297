package mail

import "errors"

// Delivery failures are classified so callers can report a precise reason
// without inspecting provider-specific responses. Any provider error that is
// not one of these sentinels is an unclassified delivery failure.
var (
	// ErrInvalidCredentials means the provider rejected the configured key
	// material (API key or SMTP login).
	ErrInvalidCredentials = errors.New("mail provider rejected credentials")

	// ErrAuthenticationFailed means authentication could not complete for a
	// reason other than bad key material (unsupported mechanism, TLS
	// required, session not authenticated).
	ErrAuthenticationFailed = errors.New("mail provider authentication failed")

	// ErrRateLimited means the provider throttled the send.
	ErrRateLimited = errors.New("mail provider rate limited")
)
