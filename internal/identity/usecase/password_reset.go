package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	otpentity "github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	NewPassword string `validate:"required"`
}

// PasswordReset sets a new password after the password_reset code was
// verified. The response never reveals whether the email is registered; the
// single-use verification marker is what makes forgery impossible.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.validatePasswordPolicy(in.NewPassword); err != nil {
		return err
	}

	verified, err := s.otpVerifier.ConsumeVerification(ctx, in.Email, otpentity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if !verified {
		return goerror.NewBusiness("Code not verified, request and verify a code first", goerror.CodeForbidden)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		// Same response as success, so the endpoint cannot be used to probe
		// for registered emails.
		slog.WarnContext(ctx, "password reset for unknown email", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	newHash, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserPassword(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordChanged(ctx, PasswordChangedEvent{
		UserID: user.ID,
		Email:  user.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password changed", "user_id", user.ID, "error", err)
	}

	return nil
}
