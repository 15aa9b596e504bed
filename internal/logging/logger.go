// Package logging defines the minimal structured-logging contract used by
// services and background jobs. Implementations can wrap slog, zap, etc.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are
// interpreted as alternating key-value pairs:
//
//	log.Info(ctx, "token revoked", "user_id", id, "reason", reason)
type Logger interface {
	// Debug logs fine-grained diagnostic output.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
