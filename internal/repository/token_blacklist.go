package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type tokenBlacklistRepository struct {
	db *sqlx.DB
}

// NewTokenBlacklistRepository stores revoked tokens in Postgres. It is used
// when no Redis URL is configured.
func NewTokenBlacklistRepository(db *sqlx.DB) TokenBlacklistStore {
	return &tokenBlacklistRepository{db: db}
}

func (r *tokenBlacklistRepository) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	query := `
		INSERT INTO token_blacklist (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, jti, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *tokenBlacklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE jti = $1 AND expires_at > NOW())`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, jti); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists, nil
}

// DeleteExpired drops entries whose tokens can no longer be used anyway.
func (r *tokenBlacklistRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM token_blacklist WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired blacklist entries: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
