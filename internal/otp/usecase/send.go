package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type SendInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required,oneof=signup password_reset"`
}

// Send issues a fresh code for the target and delivers it by email.
//
// Issuing supersedes any earlier live code for the same (email, purpose), so
// only the most recent code can ever verify. The resend throttle is held
// server side; a client-side cooldown is cosmetic.
func (s *Usecase) Send(ctx context.Context, in SendInput) error {
	ctx, span := s.startSpan(ctx, "Send")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	purpose := entity.PurposeFromString(in.Purpose)
	if purpose.IsUnknown() {
		return goerror.NewInvalidInput(nil, "type", "type must be signup or password_reset")
	}

	cooldown := s.resendCooldown()
	acquired, remaining, err := s.repoCache.AcquireThrottle(ctx, in.Email, purpose, cooldown)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire resend throttle", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if !acquired {
		secs := int(remaining.Seconds())
		if secs < 1 {
			secs = 1
		}
		return goerror.NewBusiness(
			fmt.Sprintf("Please wait %d seconds before requesting a new code", secs),
			goerror.CodeTooManyRequest,
		)
	}

	code, err := generateCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate code", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeleteCodesByTarget(ctx, in.Email, purpose); err != nil {
		slog.ErrorContext(ctx, "failed to supersede previous codes", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	ttl := s.codeTTL()
	rec := entity.OneTimeCode{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		Purpose:   purpose,
		CodeHash:  string(codeHash),
		Attempts:  0,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.repoDB.CreateCode(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to store code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if reason, err := s.repoEmail.SendCode(ctx, in.Email, purpose, code, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to deliver code email",
			"email", in.Email, "reason", string(reason), "error", err)

		// Undo, so the user can retry right away instead of waiting out the
		// cooldown for a code that never arrived.
		if dErr := s.repoDB.DeleteCode(ctx, rec.ID); dErr != nil {
			slog.ErrorContext(ctx, "failed to remove undelivered code", "email", in.Email, "error", dErr)
		}
		if tErr := s.repoCache.ReleaseThrottle(ctx, in.Email, purpose); tErr != nil {
			slog.ErrorContext(ctx, "failed to release resend throttle", "email", in.Email, "error", tErr)
		}

		return deliveryError(reason)
	}

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{Email: in.Email, Purpose: purpose}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "email", in.Email, "error", err)
	}

	return nil
}

// generateCode draws six decimal digits from crypto/rand, keeping leading
// zeros.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func deliveryError(reason entity.DeliveryReason) error {
	switch reason {
	case entity.DeliveryRateLimited:
		return goerror.NewBusiness("Email delivery failed: RateLimited", goerror.CodeTooManyRequest)
	case entity.DeliveryInvalidProviderCredentials:
		return goerror.NewBusiness("Email delivery failed: InvalidProviderCredentials", goerror.CodeInternal)
	case entity.DeliveryAuthenticationFailed:
		return goerror.NewBusiness("Email delivery failed: AuthenticationFailed", goerror.CodeInternal)
	default:
		return goerror.NewBusiness("Email delivery failed: UnknownDeliveryError", goerror.CodeInternal)
	}
}
