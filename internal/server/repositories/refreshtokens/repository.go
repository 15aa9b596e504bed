// Package refreshtokens provides the repository for refresh-token records
// used in the authentication flow. Records are never deleted here; revocation
// only sets the revocation fields, and the history stays for audit.
package refreshtokens

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkragh/socialapi/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh-token record. The token string carries a
	// unique constraint; a collision yields common.ErrConflict.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a record by its exact opaque token string, returning
	// common.ErrNotFound when absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// UpdateRevocation persists the revocation fields (revoked_at,
	// revoked_by_ip, replaced_by_token, revocation_reason) of the record.
	// All other fields are immutable after creation.
	UpdateRevocation(ctx context.Context, token *models.RefreshToken) error

	// FindActiveByUser returns the user's records that are neither revoked
	// nor expired as of now.
	FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.RefreshToken, error)

	// RevokeAllForUser marks all of the user's active records revoked in a
	// single batch and returns the number of records affected. Inactive
	// records are left untouched.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedAt time.Time, ip, reason *string) (int64, error)
}
