package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/petget/internal/petget/http"
	"github.com/aussiebroadwan/petget/internal/petget/observability"
	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/internal/petget/store/drivers/postgres"
	"github.com/aussiebroadwan/petget/internal/petget/store/drivers/sqlite"
	"github.com/aussiebroadwan/petget/pkg/cryptox"
	"github.com/aussiebroadwan/petget/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BuildVersion is overridden at build time with -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Generated JWT secrets are this many random bytes.
const jwtSecretSize = 48

// Application owns the petget service and all of its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tracer *sdktrace.TracerProvider

	tokens       *service.TokenService
	revocations  *service.MemoryRevocations
	sessions     *service.SessionManager
	housekeeping *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "petget",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	ctx := context.Background()

	tp, err := initTracing(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.tracer = tp

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until a shutdown signal arrives or
// the server fails.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("petget starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"tenant_read_policy", app.cfg.TenantReadPolicy,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops background work and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down petget...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod.Std())
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.tracer.Shutdown(ctx); err != nil {
		app.logger.Warn("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("petget stopped")
	return nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case DriverPostgres:
		db, err = postgres.New(ctx, postgres.Config{DSN: app.cfg.PostgresDSN})
	default:
		db, err = sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// jwtSecret returns the configured signing secret, generating and persisting
// one when none is configured.
func (app *Application) jwtSecret() ([]byte, error) {
	if app.cfg.JWTSecret != "" {
		return []byte(app.cfg.JWTSecret), nil
	}

	secret, err := cryptox.LoadOrGenerateSecret(app.cfg.JWTSecretFile, jwtSecretSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT secret: %w", err)
	}
	return []byte(secret), nil
}

func (app *Application) initServices() error {
	secret, err := app.jwtSecret()
	if err != nil {
		return err
	}

	app.tokens, err = service.NewTokenService(secret, app.cfg.JWTIssuer, app.cfg.AccessTTL.Std(), app.cfg.RefreshTTL.Std())
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	app.revocations = service.NewMemoryRevocations()
	if err := observability.RegisterRevocationGauge(prometheus.DefaultRegisterer, app.revocations.Len); err != nil {
		app.logger.Warn("revocation gauge not registered", "error", err)
	}

	app.sessions = &service.SessionManager{
		Tokens:      app.tokens,
		Credentials: &service.CredentialStore{Store: app.db},
		Revoked:     app.revocations,
		ObserveLogin: func(r service.LoginResult) {
			observability.LoginsTotal.WithLabelValues(string(r)).Inc()
		},
	}

	app.housekeeping = service.NewHousekeepingService(
		app.revocations,
		app.logger,
		app.cfg.HousekeepingInterval.Std(),
	)

	return nil
}

func (app *Application) initHTTP() {
	guarded := store.Guard(app.db, store.TenantEnforcer{
		FailClosed: app.cfg.TenantReadPolicy == ReadPolicyClosed,
		Observe: func(ev store.GuardEvent) {
			observability.TenantGuardEventsTotal.WithLabelValues(string(ev)).Inc()
		},
	})

	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.TenantHeader = app.cfg.TenantHeader
	router.Tokens = app.tokens
	router.Credentials = app.sessions.Credentials
	router.Revocations = app.revocations
	router.Sessions = app.sessions
	router.Customers = &service.CustomerService{Store: guarded}
	router.Pets = &service.PetService{Store: guarded}
	router.Provisioning = &service.ProvisioningService{Store: app.db, Token: app.cfg.BootstrapToken}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
