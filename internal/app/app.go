package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goroutine"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/idempotency"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/storage"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/whatsapp"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	argon2id  hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	whatsapp  *whatsapp.Client
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	// otpSweeperStop halts the expired-code sweeper, set when the otp
	// module is enabled.
	otpSweeperStop func()

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initWhatsApp()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
