package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/inbound"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/outbound/db"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/outbound/email"
	outwhatsapp "github.com/shiftbuddy/shiftbuddy/internal/notification/outbound/whatsapp"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goroutine"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/idempotency"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/whatsapp"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	WhatsApp    *whatsapp.Client           `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)
	repoWhatsApp := outwhatsapp.New(dep.WhatsApp, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:       dbNotif,
		Config:       dep.Config,
		UID:          dep.UID,
		Clock:        dep.Clock,
		Validator:    dep.Validator,
		JWT:          dep.JWT,
		RepoMail:     repoMail,
		RepoWhatsApp: repoWhatsApp,
		Instrument:   dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, dep.Idempotency, uc, dep.Instrument)

	return nil
}
