package otp

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/inbound"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/outbound/cache"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/outbound/db"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/outbound/email"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/outbound/mq"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goroutine"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New wires the module and returns its usecase so that identity flows can
// redeem verification markers, plus a stop function for the sweeper.
func New(dep Dependency) (*usecase.Usecase, func(), error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, nil, err
	}

	dbOTP := db.NewDB(dep.DBConn, dep.Instrument)
	cacheOTP := cache.NewCache(dep.CacheConn, dep.Instrument)
	mailOTP := email.New(dep.Mail, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbOTP,
		RepoCache:     cacheOTP,
		RepoEmail:     mailOTP,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	stop := uc.StartSweeper(dep.Ctx)

	return uc, stop, nil
}
