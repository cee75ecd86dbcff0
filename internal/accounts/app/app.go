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

	httpapi "github.com/harborline/accountd/internal/accounts/http"
	"github.com/harborline/accountd/internal/accounts/mailer"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/internal/accounts/storage"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/internal/accounts/store/drivers/sqlite"
	"github.com/harborline/accountd/pkg/cryptox"
	"github.com/harborline/accountd/pkg/jwtx"
	"github.com/harborline/accountd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	session *jwtx.HS256

	// Services
	accountService      *service.AccountService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService
	avatarStorage       service.AvatarStorage

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accountd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("ACCOUNTS_BASE_URL is required")
	}
	if cfg.ITApprovalEmail == "" {
		return nil, errors.New("ACCOUNTS_IT_APPROVAL_EMAIL is required")
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	session, err := jwtx.NewHS256([]byte(cfg.SessionSecret))
	if err != nil {
		return nil, fmt.Errorf("invalid session secret: %w", err)
	}
	app.session = session

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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
	app.logger.Info("shutting down account service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	notifier, err := mailer.New(mailer.Config{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Avatar uploads stay disabled until a bucket is configured.
	if app.cfg.S3Bucket != "" {
		s3store, err := storage.New(context.Background(), storage.Config{
			Endpoint:  app.cfg.S3Endpoint,
			Region:    app.cfg.S3Region,
			Bucket:    app.cfg.S3Bucket,
			AccessKey: app.cfg.S3AccessKey,
			SecretKey: app.cfg.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize avatar storage: %w", err)
		}
		app.avatarStorage = s3store
	} else {
		app.logger.Warn("avatar storage disabled: S3_BUCKET not set")
	}

	app.accountService = &service.AccountService{
		Store:           app.db,
		Notifier:        notifier,
		Storage:         app.avatarStorage,
		BaseURL:         app.cfg.BaseURL,
		ITApprovalEmail: app.cfg.ITApprovalEmail,
		TokenTTL:        app.cfg.TokenTTL,
	}

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Signer: app.session,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.session,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	router.Storage = app.avatarStorage
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
