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

	httpapi "github.com/aussiebroadwan/cms/internal/auth/http"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/cms/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/cms/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	secrets Secrets
	kit     TokenKit

	// Services
	authenticator       *service.Authenticator
	activity            *service.ActivityRecorder
	tokenService        *service.TokenService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. Nothing is
// started until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	secrets, err := LoadSecrets(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.secrets = secrets

	kit, err := NewTokenKit(secrets, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.kit = kit

	if err := app.initDatabase(context.Background()); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"token_ttl", app.cfg.TokenTTL(),
		"refresh_threshold", app.cfg.RefreshThreshold(),
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
			app.housekeepingService.Stop()
			_ = app.Close()
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
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.Close(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Close waits for pending activity writes and closes the database. It is
// used directly by one-shot commands that never call Run.
func (app *Application) Close() error {
	app.activity.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// Users exposes the user service to administrative commands.
func (app *Application) Users() *service.UserService {
	return app.userService
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// OpenStore connects to the configured database driver.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		return sqlite.NewStore(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

func (app *Application) initServices() {
	app.activity = service.NewActivityRecorder(app.db)

	app.authenticator = &service.Authenticator{
		Users:   app.db.Users(),
		Codec:   app.kit.Codec,
		Secrets: app.kit.Principals,
	}

	app.tokenService = &service.TokenService{
		Store:     app.db,
		Codec:     app.kit.Codec,
		Secrets:   app.kit.Principals,
		Passwords: app.kit.Passwords,
		Activity:  app.activity,
		Threshold: app.cfg.RefreshThreshold(),
	}

	app.userService = &service.UserService{
		Store:     app.db,
		Passwords: app.kit.Passwords,
		Tokens:    app.tokenService,
		Activity:  app.activity,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ActivityRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.cfg.RateLimits,
		app.logger,
	)

	router.Authenticator = app.authenticator
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
