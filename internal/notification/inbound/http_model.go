package inbound

import (
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/valueobject"
)

// Category payloads.

type NotificationCategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsMandatory bool   `json:"is_mandatory"`
}

type NotificationCategoriesResponse struct {
	Categories []NotificationCategoryResponse `json:"categories"`
}

// Per-channel preference payloads. Channel is "email", "push", or
// "whatsapp".

type NotificationSettingResponse struct {
	CategoryID int64  `json:"category_id"`
	Channel    string `json:"channel"`
	IsEnabled  bool   `json:"is_enabled"`
}

type NotificationSettingsResponse struct {
	Settings []NotificationSettingResponse `json:"settings"`
}

type NotificationSettingRequest struct {
	CategoryID int64  `json:"category_id"`
	Channel    string `json:"channel"`
	IsEnabled  bool   `json:"is_enabled"`
}

type NotificationSettingsUpdateRequest struct {
	Settings []NotificationSettingRequest `json:"settings"`
}

// Inbox payloads.

type NotificationResponse struct {
	ID         int64               `json:"id"`
	CategoryID int64               `json:"category_id"`
	TriggerKey string              `json:"trigger_key"`
	Data       valueobject.JSONMap `json:"data" swaggertype:"object"`
	Metadata   valueobject.JSONMap `json:"metadata" swaggertype:"object"`
	ReadAt     *time.Time          `json:"read_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}
