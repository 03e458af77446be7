// Package app wires configuration, storage, the HTTP stack, and the startup
// sequence into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/launchbox/webapi/internal/bootstrap"
	"github.com/launchbox/webapi/internal/config"
	"github.com/launchbox/webapi/internal/httpapi"
	"github.com/launchbox/webapi/internal/logging"
	"github.com/launchbox/webapi/internal/middleware"
	"github.com/launchbox/webapi/internal/platform/database"
	"github.com/launchbox/webapi/internal/platform/migrations"
	"github.com/launchbox/webapi/internal/storage/postgres"
)

// Application holds the wired dependencies and manages the service lifecycle.
type Application struct {
	cfg    *config.Config
	log    *logging.Logger
	db     *sqlx.DB
	server *httpapi.Server
}

// New constructs the application from configuration.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig constructs the application from an already loaded config.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	log, err := logging.New(cfg.ProjectName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("configure database: %w", err)
	}

	router := httpapi.NewHandler(postgres.New(db))
	router.Use(middleware.Metrics())

	var handler http.Handler = router
	handler = middleware.Logging(log)(handler)
	if len(cfg.CORSOrigins) > 0 {
		handler = middleware.NewCORS(cfg.CORSOrigins).Handler(handler)
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		handler = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log).Handler(handler)
	}

	return &Application{
		cfg:    cfg,
		log:    log,
		db:     db,
		server: httpapi.NewServer(cfg.Server, handler),
	}, nil
}

// Run executes the startup sequence and then serves HTTP until the context is
// cancelled or the server fails. The sequence is strict: the database must be
// ready and migrated before the listener binds; any step failure aborts
// startup and is returned to the caller.
func (a *Application) Run(ctx context.Context) error {
	seq := bootstrap.NewSequence(a.log,
		bootstrap.Step{Name: "wait-for-database", Run: func(ctx context.Context) error {
			return bootstrap.WaitForDatabase(ctx, a.db, a.log, a.waitPolicy())
		}},
		bootstrap.Step{Name: "migrate", Run: func(context.Context) error {
			return migrations.Up(a.db.DB)
		}},
	)
	if err := seq.Run(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.cfg.Server.Addr())
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Shutdown gracefully stops the HTTP server and closes the database pool.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	return nil
}

func (a *Application) waitPolicy() bootstrap.WaitPolicy {
	r := a.cfg.Readiness
	return bootstrap.WaitPolicy{
		MaxWait:        time.Duration(r.MaxWaitSeconds) * time.Second,
		InitialBackoff: time.Duration(r.InitialBackoffMillis) * time.Millisecond,
		MaxBackoff:     time.Duration(r.MaxBackoffMillis) * time.Millisecond,
		PingTimeout:    time.Duration(r.PingTimeoutSeconds) * time.Second,
	}
}
