package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken exchanges a live refresh token for a fresh pair. The old token
// is revoked in the same transaction as the new one is written.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	ref, err := s.repoDB.GetUserRefreshToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("invalid refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if ref.Revoked || !s.clock.Now().Before(ref.ExpiresAt) {
		return nil, goerror.NewBusiness("invalid refresh token", goerror.CodeUnauthorized)
	}

	if err := s.ensureUserStatusAllowed(ctx, ref.UserID, ref.UserStatus); err != nil {
		return nil, err
	}

	access, err := s.jwt.Generate(ref.UserID, ref.UserEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", ref.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	nextToken := s.oid.Generate()
	nextHash, err := s.hmac.Hash(nextToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash next refresh token", "user_id", ref.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.RotateRefreshToken(ctx, ref.TokenID, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    ref.UserID,
		Token:     string(nextHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to rotate refresh token", "user_id", ref.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:  access,
		RefreshToken: nextToken,
	}, nil
}
