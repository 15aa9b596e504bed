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
	"github.com/mkragh/socialapi/internal/server/config"
	"github.com/mkragh/socialapi/internal/server/models"
	"github.com/mkragh/socialapi/internal/server/passwords"
	"github.com/mkragh/socialapi/internal/server/repositories/repomanager"
)

const defaultRole = "user"

// UserService handles the credential side of the user lifecycle:
// registration, password changes, and cleanup of long-inactive accounts.
type UserService struct {
	db                 *sql.DB
	repos              repomanager.RepositoryManager
	verifier           *passwords.Verifier
	logger             logging.Logger
	inactiveUserMaxAge time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, verifier *passwords.Verifier, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                 db,
		repos:              m,
		verifier:           verifier,
		logger:             logger,
		inactiveUserMaxAge: cfg.InactiveUserMaxAge,
	}
}

// Register creates a new active user with a freshly hashed password and the
// default role. A duplicate email yields common.ErrConflict.
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}

	hash, err := s.verifier.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	user := &models.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)
		if _, err := repo.Create(ctx, user); err != nil {
			return err
		}
		return repo.AssignRole(ctx, user.ID, defaultRole)
	}); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	user.Roles = []string{defaultRole}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// ChangePassword verifies the current password and stores a brand-new hash
// record; the previous encoding is never mutated in place.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrInvalidInput)
	}

	repo := s.repos.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if !s.verifier.Verify(currentPassword, user.PasswordHash) {
		s.logger.Warn(ctx, "password change failed: current password mismatch", "user_id", userID)
		return common.ErrUnauthorized
	}

	hash, err := s.verifier.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// FindByEmail returns the account with the given email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return user, nil
}

// ResetPassword stores a new hash for the account with the given email without
// checking the current password. Intended for operator tooling only.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrInvalidInput)
	}

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.verifier.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if err := s.repos.Users(s.db).UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// GrantRole assigns an additional role to the account with the given email.
func (s *UserService) GrantRole(ctx context.Context, email, role string) error {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repos.Users(s.db).AssignRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "role granted", "user_id", user.ID, "role", role)
	return nil
}

// DeleteInactiveUsers removes accounts whose last activity is older than the
// configured maximum age and returns the number deleted.
func (s *UserService) DeleteInactiveUsers(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.inactiveUserMaxAge)

	n, err := s.repos.Users(s.db).DeleteInactiveSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if n > 0 {
		s.logger.Info(ctx, "inactive users deleted", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
