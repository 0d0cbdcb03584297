package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

// ListCategories returns every notification category. The catalogue
// is shared across users, but listing still requires a signed-in
// caller.
func (s *Usecase) ListCategories(ctx context.Context) (_ []entity.Category, err error) {
	ctx, span := s.startSpan(ctx, "ListCategories")
	defer span.End()

	if _, err = s.requireAuth(ctx); err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "notification: list categories query", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
