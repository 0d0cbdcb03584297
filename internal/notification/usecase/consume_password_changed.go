package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type ConsumePasswordChangedInput struct {
	UserID int64  `validate:"required,gt=0"`
	Email  string `validate:"required,email"`
}

// ConsumePasswordChanged mails the security notice after a password reset
// completes, so the account owner learns about a change they did not make.
func (s *Usecase) ConsumePasswordChanged(ctx context.Context, in ConsumePasswordChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordChanged")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["changed_at"] = s.clock.Now().Format("2 Jan 2006 15:04 MST")

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyPasswordChanged,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"email": in.Email,
		},
	})

	return nil
}
