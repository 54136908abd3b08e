package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	p.id, p.slug, p.title, p.description, p.body, p.thumbnail_url, p.thumbnail_key,
	p.is_published, p.author_id, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM profile_favourites f WHERE f.post_id = p.id) AS favourites_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	a.id AS "author.id", u.username AS "author.username", u.email AS "author.email", a.image AS "author.image"`

const postFrom = `
	FROM posts p
	JOIN profiles a ON a.id = p.author_id
	JOIN users u ON u.id = a.user_id`

// Create inserts the post row. Tags are attached separately with SetTags.
func (r *postRepository) Create(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	query := `
		INSERT INTO posts (slug, title, description, body, is_published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRowxContext(ctx, query,
		post.Slug,
		post.Title,
		post.Description,
		post.Body,
		post.IsPublished,
		post.AuthorID,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Update writes the mutable columns. Slug and title never change.
func (r *postRepository) Update(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	query := `
		UPDATE posts
		SET description = $2, body = $3, is_published = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := tx.QueryRowxContext(ctx, query, post.ID, post.Description, post.Body, post.IsPublished).
		Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := `SELECT ` + postColumns + postFrom + ` WHERE p.slug = $1`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	tags, err := r.getPostTags(ctx, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	post.Tags = tags[post.ID]
	if post.Tags == nil {
		post.Tags = []string{}
	}

	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// SetTags replaces the post's tags with tagIDs.
func (r *postRepository) SetTags(ctx context.Context, tx *sqlx.Tx, postID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO post_tags (post_id, tag_id)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, postID, pq.Array(tagIDs)); err != nil {
		return fmt.Errorf("insert post tags: %w", err)
	}
	return nil
}

func (r *postRepository) SetThumbnail(ctx context.Context, id int64, url, key *string) error {
	query := `UPDATE posts SET thumbnail_url = $2, thumbnail_key = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, url, key)
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// List returns one page of posts. Unpublished posts are only visible to
// their author.
func (r *postRepository) List(ctx context.Context, scope model.PostListScope, p listing.Params) (*model.Page[model.Post], error) {
	conds := []listing.Cond{{
		SQL:  `(p.is_published OR p.author_id = ?)`,
		Args: []any{scope.ViewerProfileID},
	}}

	switch scope.Scope {
	case model.PostScopeFeed:
		conds = append(conds, listing.Cond{
			SQL:  `p.author_id IN (SELECT followee_id FROM profile_follows WHERE follower_id = ?)`,
			Args: []any{scope.SubjectID},
		})
	case model.PostScopeFavourites:
		conds = append(conds, listing.Cond{
			SQL:  `p.id IN (SELECT post_id FROM profile_favourites WHERE profile_id = ?)`,
			Args: []any{scope.SubjectID},
		})
	}

	q, err := postListing.Build(p, conds...)
	if err != nil {
		return nil, err
	}

	page, err := selectPage[model.Post](ctx, r.db, postColumns, postFrom, q)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if len(page.Items) == 0 {
		return page, nil
	}

	ids := make([]int64, len(page.Items))
	for i, post := range page.Items {
		ids[i] = post.ID
	}
	tags, err := r.getPostTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		page.Items[i].Tags = tags[page.Items[i].ID]
		if page.Items[i].Tags == nil {
			page.Items[i].Tags = []string{}
		}
	}

	return page, nil
}

func (r *postRepository) getPostTags(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	query := `
		SELECT pt.post_id, t.tag
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.post_id, t.tag
	`
	var rows []model.PostTag
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("get post tags: %w", err)
	}

	result := make(map[int64][]string, len(postIDs))
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Tag)
	}
	return result, nil
}
