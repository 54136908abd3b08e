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

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id, c.body, c.post_id, c.author_id, c.created_at, c.updated_at, p.slug AS post_slug,
	a.id AS "author.id", u.username AS "author.username", u.email AS "author.email", a.image AS "author.image"`

const commentFrom = `
	FROM comments c
	JOIN posts p ON p.id = c.post_id
	JOIN profiles a ON a.id = c.author_id
	JOIN users u ON u.id = a.user_id`

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (body, post_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, comment.Body, comment.PostID, comment.AuthorID).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + commentFrom + ` WHERE c.id = $1`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) UpdateBody(ctx context.Context, id int64, body string) (*model.Comment, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET body = $2, updated_at = NOW() WHERE id = $1`, id, body)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrCommentNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// List returns comments on posts the viewer can see. With a post scope the
// smaller nested page size applies.
func (r *commentRepository) List(ctx context.Context, scope model.CommentListScope, p listing.Params) (*model.Page[model.Comment], error) {
	conds := []listing.Cond{{
		SQL:  `(p.is_published OR p.author_id = ?)`,
		Args: []any{scope.ViewerProfileID},
	}}

	def := commentListing
	if scope.PostID != 0 {
		def = postCommentListing
		conds = append(conds, listing.Cond{SQL: `c.post_id = ?`, Args: []any{scope.PostID}})
	}

	q, err := def.Build(p, conds...)
	if err != nil {
		return nil, err
	}

	page, err := selectPage[model.Comment](ctx, r.db, commentColumns, commentFrom, q)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return page, nil
}
