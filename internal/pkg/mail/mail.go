package mail

import (
	"context"
	"io"
)

// Message is a provider-agnostic email payload. Either TextBody,
// HTMLBody, or both may be set; drivers build the appropriate MIME
// structure.
type Message struct {
	// From overrides the driver's configured sender when set.
	From string
	// To lists the primary recipients and must not be empty.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the HTML body.
	HTMLBody string
}

// Mail delivers email through some provider.
type Mail interface {
	io.Closer
	// Send delivers the message, honoring ctx cancellation where the
	// driver supports it.
	Send(ctx context.Context, msg Message) error
}
