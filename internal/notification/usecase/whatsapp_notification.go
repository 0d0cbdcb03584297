package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type whatsAppNotificationInput struct {
	UserID      int64
	PhoneNumber string
	TriggerKey  entity.TriggerKey
	MessageType entity.WhatsAppMessageType
	Message     string
	// NotificationID, when set, logs the delivery against an in-app row
	// another channel already created instead of inserting a duplicate.
	NotificationID   *int64
	NotificationData valueobject.JSONMap
}

// formatWhatsAppBody wraps the message in the per-type decoration the
// gateway expects.
func formatWhatsAppBody(msgType entity.WhatsAppMessageType, message string) string {
	switch msgType {
	case entity.WhatsAppTypeJobAlert:
		return "🚨 *New Job Alert!*\n\n" + message + "\n\n💼 Apply now on ShiftBuddy!"
	case entity.WhatsAppTypeApplicationUpdate:
		return "📋 *Application Update*\n\n" + message + "\n\n✅ Check your dashboard for details."
	case entity.WhatsAppTypeInterviewReminder:
		return "⏰ *Interview Reminder*\n\n" + message + "\n\n🤝 Good luck!"
	case entity.WhatsAppTypePaymentNotification:
		return "💰 *Payment Notification*\n\n" + message + "\n\n💳 Check your earnings dashboard."
	case entity.WhatsAppTypeWeeklyDigest:
		return "📊 *Weekly Digest*\n\n" + message + "\n\n📱 Open ShiftBuddy for more details."
	case entity.WhatsAppTypeUrgentAlert:
		return "🔴 *URGENT ALERT*\n\n" + message + "\n\n⚡ Immediate action required!"
	default:
		return "📢 *ShiftBuddy Notification*\n\n" + message
	}
}

// sendWhatsAppNotification mirrors sendEmailNotification for the WhatsApp
// channel: in-app notification, queued log row, send, settle.
func (s *Usecase) sendWhatsAppNotification(ctx context.Context, in whatsAppNotificationInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey, entity.ChannelWhatsApp)
	if tpl == nil {
		return
	}

	if !s.channelEnabled(ctx, in.UserID, tpl.CategoryID, entity.ChannelWhatsApp) {
		slog.InfoContext(ctx, "whatsapp channel disabled by user", "user_id", in.UserID, "trigger_key", in.TriggerKey.String())
		return
	}

	l := entity.CreateLog{
		NotificationID: in.NotificationID,
		Channel:        entity.ChannelWhatsApp,
		Recipient:      in.PhoneNumber,
		TriggerKey:     in.TriggerKey,
		Status:         entity.DeliveryStatusQueued,
	}

	var logID int64
	var err error
	if in.NotificationID != nil {
		logID, err = s.repoDB.CreateLog(ctx, l)
	} else {
		n := entity.CreateNotification{
			ID:         s.uid.Generate(),
			UserID:     in.UserID,
			CategoryID: tpl.CategoryID,
			TriggerKey: in.TriggerKey,
			Data:       in.NotificationData,
			Metadata:   valueobject.JSONMap{},
		}
		l.NotificationID = &n.ID

		logID, err = s.repoDB.CreateNotificationWithLog(ctx, n, l)
		if err == nil {
			s.publishNotification(s.buildStreamEvent(n))
		}
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create whatsapp log", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	sendErr := s.repoWhatsApp.Send(ctx, in.PhoneNumber, formatWhatsAppBody(in.MessageType, in.Message))
	if sendErr == nil {
		if err := s.repoDB.UpdateLogStatus(ctx, entity.UpdateLog{
			ID:     logID,
			Status: entity.DeliveryStatusSent,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo update log status sent", "log_id", logID, "error", err)
		}
		return
	}

	if err := s.repoDB.UpdateLogStatus(ctx, entity.UpdateLog{
		ID:     logID,
		Status: entity.DeliveryStatusFailed,
		Error:  sendErr.Error(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send whatsapp notification", "log_id", logID, "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", sendErr)
}
