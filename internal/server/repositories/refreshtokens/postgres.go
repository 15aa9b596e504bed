package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mkragh/socialapi/internal/common"
	"github.com/mkragh/socialapi/internal/dbx"
	"github.com/mkragh/socialapi/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX, so the same code
// runs standalone or inside dbx.WithTx.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, created_by_ip, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.Token, token.CreatedByIP, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, created_at, created_by_ip, expires_at,
		       revoked_at, revoked_by_ip, replaced_by_token, revocation_reason
		FROM refresh_tokens
		WHERE token = $1
	`
	rt := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.CreatedAt, &rt.CreatedByIP, &rt.ExpiresAt,
		&rt.RevokedAt, &rt.RevokedByIP, &rt.ReplacedByToken, &rt.RevocationReason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return rt, nil
}

func (r *PostgresRepository) UpdateRevocation(ctx context.Context, token *models.RefreshToken) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2, revoked_by_ip = $3, replaced_by_token = $4, revocation_reason = $5
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.ID, token.RevokedAt, token.RevokedByIP, token.ReplacedByToken, token.RevocationReason); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, created_at, created_by_ip, expires_at,
		       revoked_at, revoked_by_ip, replaced_by_token, revocation_reason
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var tokens []*models.RefreshToken
	for rows.Next() {
		rt := &models.RefreshToken{}
		if err := rows.Scan(
			&rt.ID, &rt.UserID, &rt.Token, &rt.CreatedAt, &rt.CreatedByIP, &rt.ExpiresAt,
			&rt.RevokedAt, &rt.RevokedByIP, &rt.ReplacedByToken, &rt.RevocationReason); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		tokens = append(tokens, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tokens, nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedAt time.Time, ip, reason *string) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2, revoked_by_ip = $3, revocation_reason = $4
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, revokedAt, ip, reason)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n, nil
}
