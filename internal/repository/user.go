package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogosphere/internal/model"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.is_active, u.is_staff, u.is_superuser,
	u.is_fabricated, u.last_login, u.created_at, u.updated_at,
	pr.id AS profile_id, pr.bio, pr.image`

// Create inserts a user. The profile is created by the caller in the same tx.
func (r *userRepository) Create(ctx context.Context, tx *sqlx.Tx, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_active, is_fabricated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsFabricated).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraintMentions(constraint, "email") {
				return model.ErrEmailExists
			}
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		JOIN profiles pr ON pr.user_id = u.id
		WHERE u.id = $1
	`
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		JOIN profiles pr ON pr.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// DeleteFabricated removes fixture users. Profiles, posts, comments and
// edges go with them through ON DELETE CASCADE.
func (r *userRepository) DeleteFabricated(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE is_fabricated`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fabricated users: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
