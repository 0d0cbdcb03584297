package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type UpdateSettingsInput struct {
	Settings []UpdateSettingInput `validate:"required,min=1,dive"`
}

type UpdateSettingInput struct {
	CategoryID int64  `validate:"required,gt=0"`
	Channel    string `validate:"required,lowercase,oneof=in_app email whatsapp"`
	IsEnabled  bool
}

// UpdateSettings upserts the caller's per-channel delivery
// preferences. Mandatory categories cannot be switched off, and every
// referenced category must exist, otherwise the whole batch is
// rejected before any row is written.
func (s *Usecase) UpdateSettings(ctx context.Context, in UpdateSettingsInput) error {
	ctx, span := s.startSpan(ctx, "UpdateSettings")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	categories, err := s.repoDB.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "notification: list categories query", "error", err)
		return goerror.NewServer(err)
	}

	categoryByID := make(map[int64]entity.Category, len(categories))
	for _, category := range categories {
		categoryByID[category.ID] = category
	}

	settings := make([]entity.UserSetting, 0, len(in.Settings))
	for _, setting := range in.Settings {
		category, ok := categoryByID[setting.CategoryID]
		if !ok {
			return goerror.NewBusiness("category not found for category_id = "+strconv.FormatInt(setting.CategoryID, 10), goerror.CodeNotFound)
		}
		if category.IsMandatory && !setting.IsEnabled {
			return goerror.NewBusiness("mandatory category cannot be disabled for category_id = "+strconv.FormatInt(setting.CategoryID, 10), goerror.CodeInvalidFormat)
		}

		channel := entity.ChannelFromString(setting.Channel)
		if channel == entity.ChannelUnknown {
			return goerror.NewBusiness("channel is not supported", goerror.CodeInvalidFormat)
		}

		settings = append(settings, entity.UserSetting{
			CategoryID: setting.CategoryID,
			Channel:    channel,
			IsEnabled:  setting.IsEnabled,
		})
	}

	if err := s.repoDB.UpsertUserSettings(ctx, clm.UserID, settings); err != nil {
		slog.ErrorContext(ctx, "notification: upsert settings query", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
