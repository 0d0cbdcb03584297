package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

// defaultInboxLimit applies when the client omits a page size.
const defaultInboxLimit = 20

type ListInboxInput struct {
	Status string `validate:"omitempty,oneof=all unread read"`
	Limit  int32  `validate:"omitempty,gte=1,lte=100"`
	Offset int32  `validate:"omitempty,gte=0"`
}

// ListInbox pages through the caller's inbox, optionally filtered by
// read status. Soft-deleted rows never show up.
func (s *Usecase) ListInbox(ctx context.Context, in ListInboxInput) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = string(entity.NotificationStatusAll)
	}
	if in.Limit == 0 {
		in.Limit = defaultInboxLimit
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListNotifications(ctx, clm.UserID, entity.NotificationStatus(in.Status), in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "notification: list inbox query", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
