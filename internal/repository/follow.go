package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge follower -> followee. It reports false when the
// edge already existed.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `
		INSERT INTO profile_follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Delete removes the edge. It reports false when there was nothing to remove.
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `DELETE FROM profile_follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profile_follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followeeID); err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

func (r *followRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	query := `SELECT followee_id FROM profile_follows WHERE follower_id = $1 AND followee_id = ANY($2)`
	return r.checkEdges(ctx, query, followerID, followeeIDs)
}

func (r *followRepository) CheckFollowers(ctx context.Context, followeeID int64, followerIDs []int64) (map[int64]bool, error) {
	query := `SELECT follower_id FROM profile_follows WHERE followee_id = $1 AND follower_id = ANY($2)`
	return r.checkEdges(ctx, query, followeeID, followerIDs)
}

func (r *followRepository) checkEdges(ctx context.Context, query string, id int64, others []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(others))
	if len(others) == 0 {
		return result, nil
	}

	var matched []int64
	if err := r.db.SelectContext(ctx, &matched, query, id, pq.Array(others)); err != nil {
		return nil, fmt.Errorf("failed to check follows: %w", err)
	}

	for _, other := range others {
		result[other] = false
	}
	for _, other := range matched {
		result[other] = true
	}
	return result, nil
}
