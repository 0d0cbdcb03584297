package entity

import (
	"strings"
)

type Channel int16

const (
	ChannelUnknown  Channel = 0
	ChannelInApp    Channel = 1
	ChannelEmail    Channel = 2
	ChannelWhatsApp Channel = 3
)

func ChannelFromString(raw string) Channel {
	switch strings.TrimSpace(raw) {
	case "in_app":
		return ChannelInApp
	case "email":
		return ChannelEmail
	case "whatsapp":
		return ChannelWhatsApp
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelInApp:
		return "in_app"
	case ChannelEmail:
		return "email"
	case ChannelWhatsApp:
		return "whatsapp"
	default:
		return "unknown"
	}
}

type DeliveryStatus int16

const (
	DeliveryStatusUnknown    DeliveryStatus = 0
	DeliveryStatusQueued     DeliveryStatus = 1
	DeliveryStatusProcessing DeliveryStatus = 2
	DeliveryStatusSent       DeliveryStatus = 3
	DeliveryStatusFailed     DeliveryStatus = 4
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusProcessing:
		return "processing"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TriggerKey string

const (
	TriggerKeyUserWelcome      TriggerKey = "user_welcome"
	TriggerKeyPasswordChanged  TriggerKey = "password_changed"
	TriggerKeyOTPIssued        TriggerKey = "otp_issued"
	TriggerKeyJobAlert         TriggerKey = "job_alert"
	TriggerKeyContactRequested TriggerKey = "contact_requested"
	TriggerKeyContactApproved  TriggerKey = "contact_approved"
)

func (tk TriggerKey) String() string {
	return string(tk)
}

// WhatsAppMessageType selects the decorated body format used by the WhatsApp
// gateway.
type WhatsAppMessageType string

const (
	WhatsAppTypeJobAlert            WhatsAppMessageType = "job_alert"
	WhatsAppTypeApplicationUpdate   WhatsAppMessageType = "application_update"
	WhatsAppTypeInterviewReminder   WhatsAppMessageType = "interview_reminder"
	WhatsAppTypePaymentNotification WhatsAppMessageType = "payment_notification"
	WhatsAppTypeWeeklyDigest        WhatsAppMessageType = "weekly_digest"
	WhatsAppTypeUrgentAlert         WhatsAppMessageType = "urgent_alert"
)

func (t WhatsAppMessageType) String() string {
	return string(t)
}
