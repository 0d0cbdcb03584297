package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type emailNotificationInput struct {
	UserID           int64
	Email            string
	TriggerKey       entity.TriggerKey
	TemplateData     map[string]any
	NotificationData valueobject.JSONMap
}

// sendEmailNotification renders the trigger's email template, records an
// in-app notification plus a queued log row, then attempts the send and
// settles the log either way. It returns the in-app notification ID so a
// follow-up delivery on another channel can log against the same row.
func (s *Usecase) sendEmailNotification(ctx context.Context, in emailNotificationInput) *int64 {
	tpl := s.getTemplate(ctx, in.TriggerKey, entity.ChannelEmail)
	if tpl == nil {
		return nil
	}

	if !s.channelEnabled(ctx, in.UserID, tpl.CategoryID, entity.ChannelEmail) {
		slog.InfoContext(ctx, "email channel disabled by user", "user_id", in.UserID, "trigger_key", in.TriggerKey.String())
		return nil
	}

	body, err := s.renderTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return nil
	}

	n := entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		CategoryID: tpl.CategoryID,
		TriggerKey: in.TriggerKey,
		Data:       in.NotificationData,
		Metadata:   valueobject.JSONMap{},
	}

	l := entity.CreateLog{
		NotificationID: &n.ID,
		Channel:        entity.ChannelEmail,
		Recipient:      in.Email,
		TriggerKey:     in.TriggerKey,
		Status:         entity.DeliveryStatusQueued,
	}

	logID, err := s.repoDB.CreateNotificationWithLog(ctx, n, l)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create email notification+log", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return nil
	}

	s.publishNotification(s.buildStreamEvent(n))

	mailErr := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  tpl.Subject,
		HTMLBody: body,
	})
	if mailErr == nil {
		if err := s.repoDB.UpdateLogStatus(ctx, entity.UpdateLog{
			ID:     logID,
			Status: entity.DeliveryStatusSent,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo update log status sent", "log_id", logID, "error", err)
		}
		return &n.ID
	}

	if err := s.repoDB.UpdateLogStatus(ctx, entity.UpdateLog{
		ID:     logID,
		Status: entity.DeliveryStatusFailed,
		Error:  mailErr.Error(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send notification email", "log_id", logID, "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", mailErr)

	return &n.ID
}
