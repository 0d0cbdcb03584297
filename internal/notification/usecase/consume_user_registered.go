package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type ConsumeUserRegisteredInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=2,max=100,alphaspace"`
	Role     string `validate:"required"`
}

func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["login_url"] = s.cfg.GetString("app.web") + "/login"

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyUserWelcome,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"full_name": in.FullName,
			"role":      in.Role,
		},
	})

	return nil
}
