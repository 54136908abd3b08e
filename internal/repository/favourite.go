package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type favouriteRepository struct {
	db *sqlx.DB
}

func NewFavouriteRepository(db *sqlx.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) Create(ctx context.Context, profileID, postID int64) (bool, error) {
	query := `
		INSERT INTO profile_favourites (profile_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (profile_id, post_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, profileID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to create favourite: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *favouriteRepository) Delete(ctx context.Context, profileID, postID int64) (bool, error) {
	query := `DELETE FROM profile_favourites WHERE profile_id = $1 AND post_id = $2`
	result, err := r.db.ExecContext(ctx, query, profileID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favourite: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *favouriteRepository) Exists(ctx context.Context, profileID, postID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profile_favourites WHERE profile_id = $1 AND post_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, profileID, postID); err != nil {
		return false, fmt.Errorf("failed to check favourite existence: %w", err)
	}
	return exists, nil
}

func (r *favouriteRepository) CheckFavourites(ctx context.Context, profileID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT post_id FROM profile_favourites WHERE profile_id = $1 AND post_id = ANY($2)`
	var favourited []int64
	if err := r.db.SelectContext(ctx, &favourited, query, profileID, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("failed to check favourites: %w", err)
	}

	for _, id := range postIDs {
		result[id] = false
	}
	for _, id := range favourited {
		result[id] = true
	}
	return result, nil
}
