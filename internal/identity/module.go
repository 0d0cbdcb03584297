package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftbuddy/shiftbuddy/internal/identity/inbound"
	"github.com/shiftbuddy/shiftbuddy/internal/identity/outbound/db"
	"github.com/shiftbuddy/shiftbuddy/internal/identity/outbound/mq"
	"github.com/shiftbuddy/shiftbuddy/internal/identity/usecase"
	otpentity "github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
)

// OTPVerifier redeems the single-use markers left behind by a successful
// code verification. The otp module's usecase satisfies it.
type OTPVerifier interface {
	ConsumeVerification(ctx context.Context, email string, purpose otpentity.Purpose) (bool, error)
}

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	OTPVerifier OTPVerifier                `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	OID         uid.StringID               `validate:"required"`
	Password    hash.Hash                  `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbIdentity,
		RepoMessaging: repoMsg,
		OTPVerifier:   dep.OTPVerifier,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		HMAC:          dep.HMAC,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
