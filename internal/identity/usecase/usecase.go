package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	otpentity "github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserRegisteredEvent struct {
	UserID   int64
	Email    string
	FullName string
	Role     entity.UserRole
}

type PasswordChangedEvent struct {
	UserID int64
	Email  string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishPasswordChanged(ctx context.Context, msg PasswordChangedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetUserRefreshToken(ctx context.Context, tokenHash string) (*entity.UserRefreshToken, error)

	CreateUser(ctx context.Context, user entity.NewUser, passwordHash string) error
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error

	UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error
	RotateRefreshToken(ctx context.Context, oldTokenID int64, next entity.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

// otpVerifier redeems single-use verification markers recorded by a
// successful code verify.
type otpVerifier interface {
	ConsumeVerification(ctx context.Context, email string, purpose otpentity.Purpose) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	otpVerifier   otpVerifier
	validator     validator.Validator
	cfg           config.Config
	password      hash.Hash
	hmac          hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTPVerifier   otpVerifier
	Validator     validator.Validator
	Config        config.Config
	Password      hash.Hash
	HMAC          hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		otpVerifier:   dep.OTPVerifier,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	default:
		return nil
	}
}

// validatePasswordPolicy reports every violated rule so clients can show the
// full checklist, not just the first miss.
func (s *Usecase) validatePasswordPolicy(password string) error {
	violated := validator.PasswordViolations(password)
	if len(violated) == 0 {
		return nil
	}

	// The field map holds one message per field, so the violated rules are
	// joined into a single deterministic list.
	return goerror.NewInvalidInput(nil, "password", strings.Join(violated, ", "))
}

func (s *Usecase) issueTokens(ctx context.Context, userID int64, email string) (access, refresh string, err error) {
	access, err = s.jwt.Generate(userID, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refresh = s.oid.Generate()
	refreshHash, err := s.hmac.Hash(refresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refreshHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return access, refresh, nil
}
