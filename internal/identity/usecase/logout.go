package usecase

import (
	"context"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type LogoutInput struct {
	RefreshToken string `validate:"required"`
}

// Logout revokes the refresh token. Unknown tokens are treated as already
// logged out.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeRefreshToken(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to revoke refresh token", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
