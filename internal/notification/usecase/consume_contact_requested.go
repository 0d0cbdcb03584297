package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type ConsumeContactRequestedInput struct {
	RequestID  int64  `validate:"required,gt=0"`
	StudentID  int64  `validate:"required,gt=0"`
	EmployerID int64  `validate:"required,gt=0"`
	Message    string `validate:"required"`
}

// ConsumeContactRequested tells the student an employer wants to get in
// touch, over email and, when the profile carries a number, WhatsApp too.
func (s *Usecase) ConsumeContactRequested(ctx context.Context, in ConsumeContactRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeContactRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	contact := s.getUserContact(ctx, in.StudentID)
	if contact == nil {
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = contact.FullName
	data["message"] = in.Message
	data["requests_url"] = s.cfg.GetString("app.web") + "/contact-requests"

	notificationID := s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.StudentID,
		Email:        contact.Email,
		TriggerKey:   entity.TriggerKeyContactRequested,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"request_id":  in.RequestID,
			"employer_id": in.EmployerID,
			"message":     in.Message,
		},
	})

	if contact.WhatsAppNumber != "" {
		s.sendWhatsAppNotification(ctx, whatsAppNotificationInput{
			UserID:         in.StudentID,
			PhoneNumber:    contact.WhatsAppNumber,
			TriggerKey:     entity.TriggerKeyContactRequested,
			MessageType:    entity.WhatsAppTypeApplicationUpdate,
			Message:        "An employer sent you a contact request on ShiftBuddy. Open your inbox to approve or decline it.",
			NotificationID: notificationID,
			NotificationData: valueobject.JSONMap{
				"request_id":  in.RequestID,
				"employer_id": in.EmployerID,
				"message":     in.Message,
			},
		})
	}

	return nil
}
