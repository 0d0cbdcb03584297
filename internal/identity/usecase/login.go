package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	UserID       int64
	Email        string
	Role         string
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserLoginInfo(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", in.Email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user login info", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if !s.password.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password does not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	access, refresh, err := s.issueTokens(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role.String(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
