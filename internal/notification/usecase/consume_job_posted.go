package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type ConsumeJobPostedInput struct {
	JobID          int64  `validate:"required,gt=0"`
	EmployerID     int64  `validate:"required,gt=0"`
	Title          string `validate:"required"`
	Category       string `validate:"required"`
	City           string `validate:"required"`
	HourlyRateCent int64  `validate:"gte=0"`
}

// ConsumeJobPosted fans a new job out to every published student profile
// that opted into alerts and matches the job's category or city.
func (s *Usecase) ConsumeJobPosted(ctx context.Context, in ConsumeJobPostedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeJobPosted")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	recipients, err := s.repoDB.ListJobAlertRecipients(ctx, in.Category, in.City)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list job alert recipients", "job_id", in.JobID, "error", err)
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	body := fmt.Sprintf("New job opportunity available!\n\n*%s*\nLocation: %s\nRate: %s",
		in.Title, in.City, formatHourlyRate(in.HourlyRateCent))

	for _, r := range recipients {
		s.sendWhatsAppNotification(ctx, whatsAppNotificationInput{
			UserID:      r.UserID,
			PhoneNumber: r.WhatsAppNumber,
			TriggerKey:  entity.TriggerKeyJobAlert,
			MessageType: entity.WhatsAppTypeJobAlert,
			Message:     body,
			NotificationData: valueobject.JSONMap{
				"job_id":   in.JobID,
				"title":    in.Title,
				"category": in.Category,
				"city":     in.City,
			},
		})
	}

	return nil
}

func formatHourlyRate(cent int64) string {
	return fmt.Sprintf("₹%d.%02d/hr", cent/100, cent%100)
}
