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

	httpapi "github.com/aussiebroadwan/campaignhub/internal/hub/http"
	"github.com/aussiebroadwan/campaignhub/internal/hub/metrics"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store/drivers/sqlite"
	"github.com/aussiebroadwan/campaignhub/pkg/cryptox"
	"github.com/aussiebroadwan/campaignhub/pkg/httpx"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// limiterStore is a ratelimit.Store that owns a background sweeper.
type limiterStore interface {
	ratelimit.Store
	Close() error
}

// Application holds the hub process and everything it owns.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db           store.Store
	tokens       *jwtx.TokenService
	hasher       *cryptox.PasswordHasher
	limiterStore limiterStore
	limiter      *ratelimit.Limiter

	authService          *service.AuthService
	userService          *service.UserService
	campaignService      *service.CampaignService
	collaborationService *service.CollaborationService
	ticketService        *service.TicketService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application. Anything opened before a failing step is
// closed again.
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: "campaignhub",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSecurity(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initLimiter()
	app.initServices()

	if err := app.bootstrap(context.Background()); err != nil {
		app.closeResources()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		app.closeResources()
		return nil, err
	}
	return app, nil
}

// Handler exposes the full middleware pipeline, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts serving and blocks until a signal or a server failure.
func (app *Application) Run() error {
	app.logger.Info("campaign hub starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"ratelimit_store", app.cfg.RateLimitStore,
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
			app.closeResources()
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

// Shutdown drains in-flight requests, stops the limiter sweeper and closes
// the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down campaign hub...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("campaign hub stopped")
	return nil
}

func (app *Application) closeResources() error {
	if app.limiterStore != nil {
		if err := app.limiterStore.Close(); err != nil {
			app.logger.Error("error closing rate limit store", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initSecurity loads the pepper and the token signing secret.
func (app *Application) initSecurity() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	var secret []byte
	if app.cfg.TokenSecret == "" {
		secret, err = jwtx.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		app.logger.Warn("TOKEN_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	} else if secret, err = app.cfg.SecretBytes(); err != nil {
		return err
	}

	tokens, err := jwtx.NewTokenService(secret, app.cfg.TokenIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	tokens.AccessTTL = app.cfg.AccessTokenTTL
	tokens.RefreshTTL = app.cfg.RefreshTokenTTL
	app.tokens = tokens

	return nil
}

func (app *Application) initLimiter() {
	sweep := ratelimit.SweeperConfig{
		Interval: app.cfg.RateLimitSweepInterval,
		Grace:    app.cfg.RateLimitGrace,
		Logger:   app.logger,
		OnSweep:  metrics.ObserveSweep,
	}

	if app.cfg.RateLimitStore == RateLimitStoreSQLite {
		app.limiterStore = store.NewRateLimitStore(app.db, sweep)
	} else {
		app.limiterStore = ratelimit.NewMemoryStore(sweep)
	}

	app.limiter = ratelimit.New(app.limiterStore, ratelimit.Options{
		Window:                 app.cfg.RateLimitWindow,
		MaxRequests:            app.cfg.RateLimitMaxRequests,
		SkipSuccessfulRequests: app.cfg.RateLimitSkipSuccessful,
		Logger:                 app.logger,
	})
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Tokens: app.tokens,
		Hasher: app.hasher,
	}
	app.userService = &service.UserService{Store: app.db}
	app.campaignService = &service.CampaignService{
		Store:   app.db,
		Observe: metrics.ObserveTransition,
	}
	app.collaborationService = &service.CollaborationService{
		Store:   app.db,
		Observe: metrics.ObserveTransition,
	}
	app.ticketService = &service.TicketService{Store: app.db}
}

func (app *Application) bootstrap(ctx context.Context) error {
	if app.cfg.BootstrapAdminEmail == "" {
		return nil
	}

	created, err := app.authService.BootstrapAdmin(ctx, app.cfg.BootstrapAdminEmail, app.cfg.BootstrapAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		app.logger.Info("bootstrap admin provisioned", "email", app.cfg.BootstrapAdminEmail)
	}
	return nil
}

func (app *Application) initHTTP() error {
	clientKey, err := app.cfg.ClientKeyExtractor()
	if err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	gate := &httpx.Gate{
		Verifier:  jwtx.AccessVerifier{TokenService: app.tokens},
		OnFailure: metrics.ObserveAuthFailure,
	}

	limit := httpx.RateLimit(app.limiter, httpx.RateLimitOptions{
		KeyFunc:    clientKey,
		OnDecision: metrics.ObserveRateLimit,
	})

	loginGuard := httpx.LoginGuard(httpx.BurstConfig{
		RequestsPerWindow: app.cfg.LoginBurstRequests,
		Window:            app.cfg.LoginBurstWindow,
		Burst:             app.cfg.LoginBurstRequests,
	}, clientKey)

	router := httpapi.NewRouter(gate, limit, loginGuard, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.CampaignService = app.campaignService
	router.CollaborationService = app.collaborationService
	router.TicketService = app.ticketService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
