package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
)

type ConsumeOTPIssuedInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required"`
}

// ConsumeOTPIssued records an audit log row for a code delivery that already
// happened at issue time. The event never carries the code, so there is
// nothing to send here.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if _, err := s.repoDB.CreateLog(ctx, entity.CreateLog{
		Channel:    entity.ChannelEmail,
		Recipient:  in.Email,
		TriggerKey: entity.TriggerKeyOTPIssued,
		Status:     entity.DeliveryStatusSent,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp audit log", "email", in.Email, "purpose", in.Purpose, "error", err)
		return err
	}

	return nil
}
