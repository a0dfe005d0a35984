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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	httpapi "github.com/aussiebroadwan/hoaportal/internal/portal/http"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/postgres"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/hoaportal/internal/portal/app.BuildVersion=..."
var BuildVersion = "v0.1.0"

// Application encapsulates the portal with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	registry   *prometheus.Registry

	// Services
	identityService     *service.IdentityService
	userService         *service.UserService
	paymentService      *service.PaymentService
	announcementService *service.AnnouncementService
	mfaService          *service.MFAService
	seedService         *service.SeedService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "hoa-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	app.initServices()

	if err := app.seedAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed administrator: %w", err)
	}
	if err := app.seedAnnouncements(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed announcements: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// Handler exposes the fully wired router, for tests and embedding.
func (app *Application) Handler() http.Handler { return app.router }

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverSQLite, "":
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
	case DriverPostgres:
		if app.cfg.DatabaseURL == "" {
			return errors.New("PORTAL_DATABASE_URL is required for the postgres driver")
		}
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		return fmt.Errorf("unknown database driver %q", app.cfg.DatabaseDriver)
	}
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

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.identityService = &service.IdentityService{
		Store:      app.db,
		Signer:     app.keyManager,
		Verifier:   app.keyManager.Verifier(),
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.userService = &service.UserService{Store: app.db}
	app.paymentService = &service.PaymentService{
		Store: app.db,
		LateFees: domain.LateFeePolicy{
			Flat:      app.cfg.LateFee,
			GraceDays: app.cfg.LateFeeGraceDays,
		},
		Metrics: service.NewMetrics(app.registry),
	}
	app.announcementService = &service.AnnouncementService{Store: app.db}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: "HOA Portal",
	}
	app.seedService = &service.SeedService{Store: app.db}
}

// seedAdmin creates the first administrator on an empty database. Without a
// configured password one is generated and logged once.
func (app *Application) seedAdmin(ctx context.Context) error {
	if app.cfg.AdminEmail == "" {
		app.logger.Debug("PORTAL_ADMIN_EMAIL not set, skipping admin seed")
		return nil
	}

	password := app.cfg.AdminPassword
	generated := password == ""
	if generated {
		pw, err := cryptox.GeneratePassword(20)
		if err != nil {
			return err
		}
		password = pw
	}

	ctx = slogx.WithContext(ctx, app.logger)
	created, err := app.seedService.SeedAdmin(ctx, service.AdminSeed{
		Email:    app.cfg.AdminEmail,
		Password: password,
	})
	if err != nil {
		return err
	}
	if created && generated {
		app.logger.Warn("generated administrator password, change it after first login",
			"email", app.cfg.AdminEmail,
			"password", password,
		)
	}
	return nil
}

// seedAnnouncements publishes the sample bulletins when PORTAL_SEED_ANNOUNCEMENTS
// is set, credited to the seeded administrator.
func (app *Application) seedAnnouncements(ctx context.Context) error {
	if !app.cfg.SeedAnnouncements {
		return nil
	}
	_, err := app.seedService.SeedAnnouncements(slogx.WithContext(ctx, app.logger), app.cfg.AdminEmail)
	return err
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet(),
		BuildVersion,
		app.db,
		app.logger,
		app.registry,
		app.cfg.CORSOrigin,
	)

	// Wire services to router
	router.IdentityService = app.identityService
	router.UserService = app.userService
	router.PaymentService = app.paymentService
	router.AnnouncementService = app.announcementService
	router.MFAService = app.mfaService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
