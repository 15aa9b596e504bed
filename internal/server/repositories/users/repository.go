// Package users declares the repository contract for user records.
package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkragh/socialapi/internal/server/models"
)

// Repository defines operations over persisted user records. Implementations
// return flat records: role names are loaded into User.Roles, never as a
// live object graph.
type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// A duplicate email yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given normalized email, or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// UpdatePassword replaces the stored password hash with a new encoding.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// AssignRole grants the named role to the user.
	AssignRole(ctx context.Context, id uuid.UUID, role string) error

	// TouchLastActive stamps the user's last-active timestamp with now.
	TouchLastActive(ctx context.Context, id uuid.UUID) error

	// DeleteInactiveSince removes users whose last activity predates cutoff
	// and returns the number of rows deleted.
	DeleteInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}
