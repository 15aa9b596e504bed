// Package services contains the server-side business logic. This file
// implements AuthService: login, refresh-token rotation, logout, and bulk
// revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkragh/socialapi/internal/common"
	"github.com/mkragh/socialapi/internal/dbx"
	"github.com/mkragh/socialapi/internal/logging"
	"github.com/mkragh/socialapi/internal/server/auth"
	"github.com/mkragh/socialapi/internal/server/config"
	"github.com/mkragh/socialapi/internal/server/models"
	"github.com/mkragh/socialapi/internal/server/passwords"
	"github.com/mkragh/socialapi/internal/server/repositories/repomanager"
)

const refreshTokenBytes = 64

// Identity is the minimal snapshot of the authenticated user returned to
// callers alongside the token pair.
type Identity struct {
	ID    uuid.UUID
	Email string
	Roles []string
}

// Session is the result of a successful login or refresh: a signed access
// token, an opaque refresh token, and who they belong to. The caller must
// mirror RefreshExpiresAt exactly in whatever client-side storage it uses.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             Identity
}

// AuthService mints, rotates, and revokes the access/refresh token pair.
// Operations on different users are independent; the only contention point
// is the storage layer's unique constraint on the token string.
type AuthService struct {
	db          *sql.DB
	repos       repomanager.RepositoryManager
	tokens      *auth.Manager
	verifier    *passwords.Verifier
	logger      logging.Logger
	refreshTTL  time.Duration
	verboseErrs bool
}

// NewAuthService constructs an AuthService from its collaborators and the
// immutable server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager, verifier *passwords.Verifier, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repos:       m,
		tokens:      tokens,
		verifier:    verifier,
		logger:      logger,
		refreshTTL:  cfg.RefreshTokenTTL,
		verboseErrs: cfg.VerboseAuthErrors,
	}
}

// Login verifies the credentials and, on success, issues a new session.
// Unknown email and wrong password are indistinguishable to the caller
// unless verbose diagnostics were explicitly enabled in config.
func (s *AuthService) Login(ctx context.Context, email, password, sourceIP string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, s.unauthorized("empty email")
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "login failed: unknown email", "email", email)
			return nil, s.unauthorized("user not found")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		s.logger.Warn(ctx, "login failed: password mismatch", "user_id", user.ID)
		return nil, s.unauthorized("password mismatch")
	}
	if !user.IsActive {
		s.logger.Warn(ctx, "login failed: user is deactivated", "user_id", user.ID)
		return nil, fmt.Errorf("%w: user is deactivated", common.ErrUnauthorized)
	}

	record, err := s.newRefreshRecord(user.ID, sourceIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Create(ctx, record); err != nil {
			return err
		}
		return s.repos.Users(tx).TouchLastActive(ctx, user.ID)
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	session, err := s.buildSession(user, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "login", "user_id", user.ID)
	return session, nil
}

// Refresh validates the presented refresh token and rotates it: a new record
// is inserted and the presented one is revoked with a replacement pointer,
// both committed in the same transaction. Reuse of an already-rotated or
// revoked token is rejected.
func (s *AuthService) Refresh(ctx context.Context, presentedToken, sourceIP string) (*Session, error) {
	record, err := s.repos.RefreshTokens(s.db).Find(ctx, presentedToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "refresh failed: token not found", "token_prefix", tokenPrefix(presentedToken))
			return nil, s.unauthorized("refresh token not found")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	now := time.Now().UTC()
	if record.IsRevoked() {
		s.logger.Warn(ctx, "refresh failed: reuse of revoked token",
			"user_id", record.UserID, "token_prefix", tokenPrefix(presentedToken), "revoked_at", record.RevokedAt)
		return nil, s.unauthorized("refresh token revoked")
	}
	if record.IsExpired(now) {
		s.logger.Warn(ctx, "refresh failed: token expired", "user_id", record.UserID)
		return nil, s.unauthorized("refresh token expired")
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, s.unauthorized("user not found")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is deactivated", common.ErrUnauthorized)
	}

	replacement, err := s.newRefreshRecord(user.ID, sourceIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.RefreshTokens(tx)
		if err := repo.Create(ctx, replacement); err != nil {
			return err
		}
		record.RevokedAt = &now
		record.RevokedByIP = optStr(sourceIP)
		record.ReplacedByToken = &replacement.Token
		return repo.UpdateRevocation(ctx, record)
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	session, err := s.buildSession(user, replacement)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "refresh token rotated", "user_id", user.ID)
	return session, nil
}

// Logout revokes the presented refresh token. It is idempotent: an unknown
// or already-revoked token is a silent no-op, so calling it twice is safe.
func (s *AuthService) Logout(ctx context.Context, presentedToken, sourceIP string) error {
	repo := s.repos.RefreshTokens(s.db)

	record, err := repo.Find(ctx, presentedToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "logout: refresh token not found", "token_prefix", tokenPrefix(presentedToken))
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if record.IsRevoked() {
		s.logger.Warn(ctx, "logout: refresh token already revoked", "revoked_at", record.RevokedAt)
		return nil
	}

	now := time.Now().UTC()
	record.RevokedAt = &now
	record.RevokedByIP = optStr(sourceIP)
	if err := repo.UpdateRevocation(ctx, record); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "logout: token revoked", "user_id", record.UserID, "revoked_at", now)
	return nil
}

// RevokeAll revokes every active refresh token of the user in one batch.
// Used for "log out everywhere" and incident response. Idempotent.
func (s *AuthService) RevokeAll(ctx context.Context, userID uuid.UUID, reason, sourceIP string) error {
	now := time.Now().UTC()

	n, err := s.repos.RefreshTokens(s.db).RevokeAllForUser(ctx, userID, now, optStr(sourceIP), optStr(reason))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "revoked all refresh tokens", "user_id", userID, "count", n, "reason", reason)
	return nil
}

// ActiveSessions lists the user's refresh-token records that are neither
// revoked nor expired.
func (s *AuthService) ActiveSessions(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error) {
	tokens, err := s.repos.RefreshTokens(s.db).FindActiveByUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return tokens, nil
}

// --- helpers below ---

func (s *AuthService) newRefreshRecord(userID uuid.UUID, sourceIP string) (*models.RefreshToken, error) {
	token, err := common.MakeRandTokenString(refreshTokenBytes)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &models.RefreshToken{
		UserID:      userID,
		Token:       token,
		CreatedAt:   now,
		CreatedByIP: optStr(sourceIP),
		ExpiresAt:   now.Add(s.refreshTTL),
	}, nil
}

func (s *AuthService) buildSession(user *models.User, record *models.RefreshToken) (*Session, error) {
	accessToken, expiresAt, err := s.tokens.Issue(user.ID.String(), user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &Session{
		AccessToken:      accessToken,
		AccessExpiresAt:  expiresAt,
		RefreshToken:     record.Token,
		RefreshExpiresAt: record.ExpiresAt,
		User: Identity{
			ID:    user.ID,
			Email: user.Email,
			Roles: user.Roles,
		},
	}, nil
}

// unauthorized hides the failing check behind a generic error unless verbose
// diagnostics were explicitly enabled, so callers cannot enumerate accounts.
func (s *AuthService) unauthorized(detail string) error {
	if s.verboseErrs {
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
	}
	return common.ErrUnauthorized
}

func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
