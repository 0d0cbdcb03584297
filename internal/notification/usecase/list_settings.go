package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

// ListSettings returns the full category x channel matrix for the
// caller. Rows the user never saved default to enabled, and mandatory
// categories always report enabled regardless of what was stored.
func (s *Usecase) ListSettings(ctx context.Context) (_ []entity.UserSetting, err error) {
	ctx, span := s.startSpan(ctx, "ListSettings")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.repoDB.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "notification: list categories query", "error", err)
		return nil, goerror.NewServer(err)
	}

	settings, err := s.repoDB.ListUserSettings(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "notification: list settings query", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	stored := make(map[int64]map[entity.Channel]bool, len(categories))
	for _, setting := range settings {
		ch := setting.Channel
		if ch == entity.ChannelUnknown {
			ch = entity.ChannelInApp
		}
		if _, ok := stored[setting.CategoryID]; !ok {
			stored[setting.CategoryID] = map[entity.Channel]bool{}
		}
		stored[setting.CategoryID][ch] = setting.IsEnabled
	}

	channels := []entity.Channel{
		entity.ChannelInApp,
		entity.ChannelEmail,
		entity.ChannelWhatsApp,
	}

	items := make([]entity.UserSetting, 0, len(categories)*len(channels))
	for _, category := range categories {
		for _, ch := range channels {
			enabled := true
			if v, ok := stored[category.ID][ch]; ok {
				enabled = v
			}
			if category.IsMandatory {
				enabled = true
			}
			items = append(items, entity.UserSetting{
				CategoryID: category.ID,
				Channel:    ch,
				IsEnabled:  enabled,
			})
		}
	}

	return items, nil
}
