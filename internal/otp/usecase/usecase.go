package usecase

import (
	"context"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goroutine"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OTPIssuedEvent struct {
	Email   string
	Purpose entity.Purpose
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	GetLatestCode(ctx context.Context, email string, purpose entity.Purpose) (*entity.OneTimeCode, error)
	CreateCode(ctx context.Context, code entity.OneTimeCode) error
	// ConsumeCode deletes the row only when id, hash, freshness and the
	// attempts bound all still hold; it reports whether a row was consumed.
	ConsumeCode(ctx context.Context, id int64, codeHash string, now time.Time, maxAttempts int16) (bool, error)
	IncrementAttempts(ctx context.Context, id int64) error
	DeleteCode(ctx context.Context, id int64) error
	DeleteCodesByTarget(ctx context.Context, email string, purpose entity.Purpose) error
	DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

type repoCache interface {
	// AcquireThrottle reserves the resend slot for the target. When the slot
	// is taken it returns false plus the time left on the reservation.
	AcquireThrottle(ctx context.Context, email string, purpose entity.Purpose, ttl time.Duration) (bool, time.Duration, error)
	ReleaseThrottle(ctx context.Context, email string, purpose entity.Purpose) error
	PutVerified(ctx context.Context, email string, purpose entity.Purpose, ttl time.Duration) error
	TakeVerified(ctx context.Context, email string, purpose entity.Purpose) (bool, error)
}

type repoEmail interface {
	// SendCode delivers the plaintext code and classifies provider failures.
	SendCode(ctx context.Context, email string, purpose entity.Purpose, code string, ttl time.Duration) (entity.DeliveryReason, error)
}

type Usecase struct {
	repoDB        repoDB
	repoCache     repoCache
	repoEmail     repoEmail
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoCache     repoCache
	RepoEmail     repoEmail
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoEmail:     dep.RepoEmail,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) codeTTL() time.Duration {
	if d := s.cfg.GetSecond("modules.otp.ttl_seconds"); d > 0 {
		return d
	}
	return 2 * time.Minute
}

func (s *Usecase) resendCooldown() time.Duration {
	if d := s.cfg.GetSecond("modules.otp.resend_cooldown_seconds"); d > 0 {
		return d
	}
	return time.Minute
}

func (s *Usecase) verifiedTTL() time.Duration {
	if d := s.cfg.GetMinute("modules.otp.verified_ttl_minutes"); d > 0 {
		return d
	}
	return 10 * time.Minute
}

func (s *Usecase) maxAttempts() int16 {
	if n := s.cfg.GetInt("modules.otp.max_attempts"); n > 0 {
		return int16(n)
	}
	return 5
}
