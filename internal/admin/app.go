// Package admin implements the operator command-line tool. It talks to the
// database directly through the same services the server uses, so operator
// actions leave the same audit trail as API traffic.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

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
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	tokens, err := auth.NewManager([]byte(c.JWTSecretKey), c.JWTIssuer, c.JWTAudience, c.AccessTokenTTL, c.ClockSkew)
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}
	verifier := passwords.NewVerifier(c.MinHashIterations)

	as := services.NewAuthService(db, rm, tokens, verifier, logger, c)
	us := services.NewUserService(db, rm, verifier, logger, c)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: as,
		userService: us,
		out:         os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: admin <command> [args]")
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  create-user <email> [first-name] [last-name]  create an account (prompts for password)")
	fmt.Fprintln(a.out, "  reset-password <email>                        set a new password (prompts for it)")
	fmt.Fprintln(a.out, "  grant-role <email> <role>                     assign an additional role")
	fmt.Fprintln(a.out, "  revoke-all <email> [reason]                   revoke every active session")
	fmt.Fprintln(a.out, "  sessions <email>                              list active sessions")
}

// Run dispatches a single subcommand. Args are the command-line arguments
// after the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "create-user":
		return a.createUser(ctx, rest)
	case "reset-password":
		return a.resetPassword(ctx, rest)
	case "grant-role":
		return a.grantRole(ctx, rest)
	case "revoke-all":
		return a.revokeAll(ctx, rest)
	case "sessions":
		return a.sessions(ctx, rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
