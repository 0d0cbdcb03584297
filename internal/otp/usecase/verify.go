package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type VerifyInput struct {
	Email   string `validate:"required,email"`
	Code    string `validate:"required,len=6,numeric"`
	Purpose string `validate:"required,oneof=signup password_reset"`
}

type VerifyOutput struct {
	Verified bool
	Message  string
}

const (
	msgCodeExpired = "Code expired or not found, request a new one"
	msgInvalidCode = "Invalid code"
)

// Verify checks a submitted code against the latest live code for the target.
//
// The success path is a compare-and-delete on the stored row: of any number
// of concurrent submissions of the correct code, exactly one consumes the row
// and wins; the rest fall through to the failure classification. Everything
// that is not that single winning path fails closed.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.PurposeFromString(in.Purpose)
	if purpose.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "type", "type must be signup or password_reset")
	}

	codeHash, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash submitted code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	maxAttempts := s.maxAttempts()

	rec, err := s.repoDB.GetLatestCode(ctx, in.Email, purpose)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return &VerifyOutput{Verified: false, Message: msgCodeExpired}, nil
		}
		slog.ErrorContext(ctx, "failed to load latest code", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	consumed, err := s.repoDB.ConsumeCode(ctx, rec.ID, string(codeHash), now, maxAttempts)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume code", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if consumed {
		if err := s.repoCache.PutVerified(ctx, in.Email, purpose, s.verifiedTTL()); err != nil {
			// Without the marker the follow-up step cannot proceed, so
			// surface the failure instead of reporting a verified code.
			slog.ErrorContext(ctx, "failed to store verification marker", "email", in.Email, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &VerifyOutput{Verified: true}, nil
	}

	// The row was not consumable. Work out why, without ever verifying.
	switch {
	case rec.Expired(now):
		if err := s.repoDB.DeleteCode(ctx, rec.ID); err != nil {
			slog.ErrorContext(ctx, "failed to delete expired code", "email", in.Email, "error", err)
		}
		return &VerifyOutput{Verified: false, Message: msgCodeExpired}, nil

	case rec.Attempts >= maxAttempts:
		// Reported to the caller with the same message as expired so the
		// response does not reveal which condition rejected the code.
		slog.InfoContext(ctx, "code rejected, attempts exhausted", "email", in.Email)
		if err := s.repoDB.DeleteCode(ctx, rec.ID); err != nil {
			slog.ErrorContext(ctx, "failed to delete exhausted code", "email", in.Email, "error", err)
		}
		return &VerifyOutput{Verified: false, Message: msgCodeExpired}, nil

	default:
		// Wrong digits, or a concurrent winner consumed the row first. Both
		// read as an invalid code; incrementing on a consumed row is a no-op.
		if err := s.repoDB.IncrementAttempts(ctx, rec.ID); err != nil {
			slog.ErrorContext(ctx, "failed to increment attempts", "email", in.Email, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &VerifyOutput{Verified: false, Message: msgInvalidCode}, nil
	}
}

// ConsumeVerification redeems a verification marker left by a successful
// Verify. It is single use; identity flows call it to gate signup completion
// and password reset.
func (s *Usecase) ConsumeVerification(ctx context.Context, email string, purpose entity.Purpose) (bool, error) {
	ctx, span := s.startSpan(ctx, "ConsumeVerification")
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))

	ok, err := s.repoCache.TakeVerified(ctx, email, purpose)
	if err != nil {
		slog.ErrorContext(ctx, "failed to take verification marker", "email", email, "error", err)
		return false, goerror.NewServer(err)
	}
	return ok, nil
}
