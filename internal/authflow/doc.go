// Package authflow drives the multi-step client authentication flow:
// credential entry, one-time code entry with resend cooldown and
// auto-submit, and (for password reset) new-password entry.
//
// The package is transport-agnostic: callers supply a Transport that talks
// to the backend, and the flow sequences calls and state transitions. It is
// safe for concurrent use; an in-flight network call gates re-entrant
// submissions with ErrBusy instead of firing twice.
package authflow
