// Package server initializes and runs the authentication server application.
// It opens the database, applies migrations, wires the services together,
// handles graceful shutdown, and drives the periodic inactive-user cleanup.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mkragh/socialapi/internal/logging"
	"github.com/mkragh/socialapi/internal/server/auth"
	"github.com/mkragh/socialapi/internal/server/config"
	"github.com/mkragh/socialapi/internal/server/passwords"
	"github.com/mkragh/socialapi/internal/server/repositories/repomanager"
	"github.com/mkragh/socialapi/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	userService *services.UserService
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens, err := auth.NewManager([]byte(c.JWTSecretKey), c.JWTIssuer, c.JWTAudience, c.AccessTokenTTL, c.ClockSkew)
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}
	verifier := passwords.NewVerifier(c.MinHashIterations)

	as := services.NewAuthService(db, rm, tokens, verifier, logger, c)
	us := services.NewUserService(db, rm, verifier, logger, c)

	return &App{config: c, logger: logger, db: db, authService: as, userService: us}, nil
}

// AuthService exposes the session operations to transport adapters and tools.
func (app *App) AuthService() *services.AuthService { return app.authService }

// UserService exposes the account operations to transport adapters and tools.
func (app *App) UserService() *services.UserService { return app.userService }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runInactiveUserCleanup deletes long-inactive accounts on a fixed interval
// until the context is cancelled. One pass runs immediately on startup.
func (app *App) runInactiveUserCleanup(ctx context.Context) {
	ticker := time.NewTicker(app.config.CleanupInterval)
	defer ticker.Stop()

	app.cleanupPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanupPass(ctx)
		}
	}
}

func (app *App) cleanupPass(ctx context.Context) {
	n, err := app.userService.DeleteInactiveUsers(ctx)
	if err != nil {
		app.logger.Error(ctx, "inactive user cleanup failed", "error", err)
		return
	}
	app.logger.Info(ctx, "inactive user cleanup finished", "deleted", n)
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runInactiveUserCleanup(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
