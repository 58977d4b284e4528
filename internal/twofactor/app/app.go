// Package app wires configuration, the credential store, the provider
// registry and the HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	httpapi "github.com/aussiebroadwan/twofactor/internal/twofactor/http"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/provider"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/service"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store/drivers/file"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store/drivers/sqlite"
	"github.com/aussiebroadwan/twofactor/pkg/jwtx"
	"github.com/aussiebroadwan/twofactor/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the two-factor service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	attestor *jwtx.Attestor
	settings *domain.Settings

	// Services
	twoFactorService *service.TwoFactorService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "twofactor-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN must be set")
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	attestor, err := jwtx.NewAttestor(cfg.Issuer, cfg.AttestationTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attestation keys: %w", err)
	}
	app.attestor = attestor

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("twofactor service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store_driver", app.cfg.StoreDriver,
		"test_mode", app.cfg.TestMode,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down twofactor service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the credential store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("twofactor service stopped")
	return nil
}

// initStore initializes the configured credential store driver
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "file":
		app.db = file.NewStore(app.cfg.CredentialFile)
		app.logger.Info("using file credential store", "path", app.cfg.CredentialFile)
		return nil

	case "sqlite":
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.db = db
		app.logger.Info("database migrations applied successfully")
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}

// initServices initializes the provider registry and the orchestrator
func (app *Application) initServices() {
	app.settings = &domain.Settings{
		APIKey:         app.cfg.APIKey,
		TestMode:       app.cfg.TestMode,
		CredentialFile: app.cfg.CredentialFile,
	}

	registry := provider.NewRegistry(
		provider.NewTOTP(app.cfg.Issuer),
		provider.NewAuthy(app.cfg.TestMode),
	)

	app.twoFactorService = &service.TwoFactorService{
		Registry: registry,
		Store:    app.db,
		Attestor: app.attestor,
		Settings: app.settings,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.attestor,
		app.cfg.AdminToken,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TwoFactorService = app.twoFactorService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
