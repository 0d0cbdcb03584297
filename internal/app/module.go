package app

import (
	"log/slog"
	"os"

	"github.com/shiftbuddy/shiftbuddy/internal/board"
	"github.com/shiftbuddy/shiftbuddy/internal/identity"
	"github.com/shiftbuddy/shiftbuddy/internal/notification"
	"github.com/shiftbuddy/shiftbuddy/internal/otp"
	otpusecase "github.com/shiftbuddy/shiftbuddy/internal/otp/usecase"
)

func (a *App) initModules() {
	var otpUC *otpusecase.Usecase

	if a.config.GetBool("modules.otp.enabled") {
		uc, stop, err := otp.New(otp.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
		})
		if err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}

		otpUC = uc
		a.otpSweeperStop = stop
	}

	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Messaging:   a.messaging,
			OTPVerifier: otpUC,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			OID:         a.oid,
			Password:    a.bcrypt,
			HMAC:        a.hmac,
			Clock:       a.clock,
			JWT:         a.jwt,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.board.enabled") {
		if err := board.New(board.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Messaging:  a.messaging,
			Storage:    a.storage,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module board", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Router:      a.router,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Idempotency: a.idemp,
			Validator:   a.validator,
			Mail:        a.mail,
			WhatsApp:    a.whatsapp,
			JWT:         a.jwt,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
