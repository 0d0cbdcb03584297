package inbound

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error
	ConsumePasswordChanged(ctx context.Context, in usecase.ConsumePasswordChangedInput) error
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
	ConsumeJobPosted(ctx context.Context, in usecase.ConsumeJobPostedInput) error
	ConsumeContactRequested(ctx context.Context, in usecase.ConsumeContactRequestedInput) error
	ConsumeContactApproved(ctx context.Context, in usecase.ConsumeContactApprovedInput) error
}

type ucStream interface {
	StreamNotifications(ctx context.Context, userID int64) <-chan usecase.StreamEvent
}

type uc interface {
	ucConsumer
	ucStream

	ListCategories(ctx context.Context) ([]entity.Category, error)
	ListSettings(ctx context.Context) ([]entity.UserSetting, error)
	UpdateSettings(ctx context.Context, in usecase.UpdateSettingsInput) error
	ListInbox(ctx context.Context, in usecase.ListInboxInput) ([]entity.NotificationItem, error)
	MarkInboxRead(ctx context.Context, in usecase.MarkInboxReadInput) error
	MarkAllInboxRead(ctx context.Context) error
	DeleteInbox(ctx context.Context, in usecase.DeleteInboxInput) error
}
