package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	otpentity "github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type SignupInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	FullName string `validate:"required,min=2,max=100,alphaspace"`
	Role     string `validate:"required,oneof=student employer"`
}

type SignupOutput struct {
	UserID       int64
	Email        string
	FullName     string
	Role         string
	AccessToken  string
	RefreshToken string
}

// Signup completes account creation after the signup code was verified. The
// verification marker is single use, so a signup can ride each verified code
// exactly once.
func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.validatePasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	role := entity.UserRoleFromString(in.Role)
	if role.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "role", "role must be student or employer")
	}

	verified, err := s.otpVerifier.ConsumeVerification(ctx, in.Email, otpentity.PurposeSignup)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, goerror.NewBusiness("Email not verified, request and verify a code first", goerror.CodeForbidden)
	}

	passwordHash, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		FullName: in.FullName,
		Role:     role,
		Status:   entity.UserStatusActive,
	}

	if err := s.repoDB.CreateUser(ctx, newUser, string(passwordHash)); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, refresh, err := s.issueTokens(ctx, newUser.ID, newUser.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
		Role:     role,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", newUser.ID, "error", err)
	}

	return &SignupOutput{
		UserID:       newUser.ID,
		Email:        newUser.Email,
		FullName:     newUser.FullName,
		Role:         role.String(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
