// Package mail sends transactional email. The Mail interface keeps
// callers provider-agnostic; SMTP and HTTP API drivers live alongside
// it in this package.
package mail
