// Package common defines shared sentinel errors and crypto-safe random
// helpers used across the application layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level taxonomy.
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")

	// Token lifecycle errors. All of these map to ErrUnauthorized at the
	// API boundary; they exist so logs and tests can tell the cases apart.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrInvalidToken = errors.New("invalid token")
)
