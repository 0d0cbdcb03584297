package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type ConsumeContactApprovedInput struct {
	RequestID  int64  `validate:"required,gt=0"`
	StudentID  int64  `validate:"required,gt=0"`
	EmployerID int64  `validate:"required,gt=0"`
	Company    string `validate:"required"`
	Phone      string `validate:"required"`
	Email      string `validate:"required,email"`
}

// ConsumeContactApproved mails the employer the student's reply channel once
// the student approves the request.
func (s *Usecase) ConsumeContactApproved(ctx context.Context, in ConsumeContactApprovedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeContactApproved")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	employer := s.getUserContact(ctx, in.EmployerID)
	if employer == nil {
		return nil
	}

	student := s.getUserContact(ctx, in.StudentID)
	if student == nil {
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = employer.FullName
	data["student_name"] = student.FullName
	data["student_email"] = student.Email
	data["student_whatsapp"] = student.WhatsAppNumber

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.EmployerID,
		Email:        employer.Email,
		TriggerKey:   entity.TriggerKeyContactApproved,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"request_id":   in.RequestID,
			"student_id":   in.StudentID,
			"student_name": student.FullName,
		},
	})

	return nil
}
