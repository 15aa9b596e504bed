package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a persisted refresh-token record. The token string is
// globally unique (enforced by the storage layer). Revocation is monotonic:
// once RevokedAt is set the record is permanently inactive.
type RefreshToken struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Token            string
	CreatedAt        time.Time
	CreatedByIP      *string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	RevokedByIP      *string
	ReplacedByToken  *string
	RevocationReason *string
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the record can still be exchanged for a new pair.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
