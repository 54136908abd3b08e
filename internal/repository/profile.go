package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	pr.id, pr.user_id, u.username, u.email, pr.bio, pr.image, pr.created_at, pr.updated_at`

const profileFrom = `FROM profiles pr JOIN users u ON u.id = pr.user_id`

func (r *profileRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		RETURNING id, user_id, bio, image, created_at, updated_at
	`
	var p model.Profile
	if err := tx.GetContext(ctx, &p, query, userID); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` ` + profileFrom + ` WHERE pr.id = $1`
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` ` + profileFrom + ` WHERE u.username = $1`
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}
	return &p, nil
}

// Update sets the non-nil fields. An empty image clears it.
func (r *profileRepository) Update(ctx context.Context, id int64, bio, image *string) error {
	query := `
		UPDATE profiles
		SET bio = COALESCE($2, bio),
		    image = CASE WHEN $3::text IS NULL THEN image ELSE NULLIF($3, '') END,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, bio, image)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, scope model.ProfileListScope, p listing.Params) (*model.Page[model.Profile], error) {
	var conds []listing.Cond
	switch {
	case scope.FollowersOf != 0:
		conds = append(conds, listing.Cond{
			SQL:  `pr.id IN (SELECT follower_id FROM profile_follows WHERE followee_id = ?)`,
			Args: []any{scope.FollowersOf},
		})
	case scope.FollowedBy != 0:
		conds = append(conds, listing.Cond{
			SQL:  `pr.id IN (SELECT followee_id FROM profile_follows WHERE follower_id = ?)`,
			Args: []any{scope.FollowedBy},
		})
	}

	q, err := profileListing.Build(p, conds...)
	if err != nil {
		return nil, err
	}

	page, err := selectPage[model.Profile](ctx, r.db, profileColumns, profileFrom, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return page, nil
}
