// Package models holds the flat persistence records exchanged between
// repositories and services. Records carry no live associations; role names
// are loaded into a plain slice by the repository query.
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	Roles        []string
	CreatedAt    time.Time
	LastActiveAt time.Time
}
