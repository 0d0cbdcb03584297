package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// SendCode emails the plaintext code. On failure the provider error is folded
// into a delivery reason so the caller can report why without unpacking
// provider responses.
func (m *Mail) SendCode(ctx context.Context, to string, purpose entity.Purpose, code string, ttl time.Duration) (entity.DeliveryReason, error) {
	ctx, span := m.ins.Tracer("otp.outbound.email").Start(ctx, "SendCode")
	defer span.End()

	subject := "Your ShiftBuddy verification code"
	intro := "Use this code to verify your email address."
	if purpose == entity.PurposePasswordReset {
		subject = "Your ShiftBuddy password reset code"
		intro = "Use this code to reset your password."
	}

	minutes := int(ttl.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	msg := mail.Message{
		To:      []string{to},
		Subject: subject,
		TextBody: fmt.Sprintf(
			"%s\n\nYour code: %s\n\nIt expires in %d minute(s). If you did not request it, ignore this email.",
			intro, code, minutes,
		),
		HTMLBody: fmt.Sprintf(
			`<p>%s</p><p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p><p>It expires in %d minute(s). If you did not request it, ignore this email.</p>`,
			intro, code, minutes,
		),
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return classify(err), err
	}

	return "", nil
}

func classify(err error) entity.DeliveryReason {
	switch {
	case errors.Is(err, mail.ErrInvalidCredentials):
		return entity.DeliveryInvalidProviderCredentials
	case errors.Is(err, mail.ErrAuthenticationFailed):
		return entity.DeliveryAuthenticationFailed
	case errors.Is(err, mail.ErrRateLimited):
		return entity.DeliveryRateLimited
	default:
		return entity.DeliveryUnknownError
	}
}
