package board

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftbuddy/shiftbuddy/internal/board/inbound"
	"github.com/shiftbuddy/shiftbuddy/internal/board/outbound/db"
	"github.com/shiftbuddy/shiftbuddy/internal/board/outbound/mq"
	"github.com/shiftbuddy/shiftbuddy/internal/board/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/storage"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbBoard := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbBoard,
		RepoMessaging: repoMsg,
		Storage:       dep.Storage,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
