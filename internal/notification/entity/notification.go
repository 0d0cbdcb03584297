package entity

import (
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

type CreateNotification struct {
	ID         int64
	UserID     int64
	CategoryID int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Metadata   valueobject.JSONMap
}

// CreateLog is a pending notification_logs row. NotificationID is nil for
// sends without an in-app counterpart (audit rows).
type CreateLog struct {
	NotificationID *int64
	Channel        Channel
	Recipient      string
	TriggerKey     TriggerKey
	Status         DeliveryStatus
}

type UpdateLog struct {
	ID     int64
	Status DeliveryStatus
	Error  string
}

type Template struct {
	ID         int64
	TriggerKey TriggerKey
	CategoryID int64
	Channel    Channel
	Subject    string
	Body       string
}

type Category struct {
	ID          int64
	Name        string
	Description string
	IsMandatory bool
}

type UserSetting struct {
	CategoryID int64
	Channel    Channel
	IsEnabled  bool
}

type NotificationItem struct {
	ID         int64
	CategoryID int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Metadata   valueobject.JSONMap
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// UserContact is the reachable identity of a user, joined with the student
// profile's WhatsApp number when one exists.
type UserContact struct {
	ID             int64
	Email          string
	FullName       string
	WhatsAppNumber string
}

// JobAlertRecipient is an opted-in student matching a posted job.
type JobAlertRecipient struct {
	UserID         int64
	WhatsAppNumber string
}
