package model

import (
	"errors"
	"time"
)

// Comment is a reply to a post.
type Comment struct {
	ID        int64     `db:"id"`
	Body      string    `db:"body"`
	PostID    int64     `db:"post_id"`
	AuthorID  int64     `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Joined fields.
	PostSlug string `db:"post_slug"`
	Author   Author `db:"author"`
}

// CreateCommentRequest is the body of POST /comments/. Post is the slug.
type CreateCommentRequest struct {
	Post string `json:"post" validate:"required"`
	Body string `json:"body" validate:"required,max=1000"`
}

// UpdateCommentRequest is the body of PATCH /posts/{slug}/comments/{id}/.
type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

const MaxCommentLength = 1000

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
)

// CommentListScope narrows a comment listing. PostID 0 lists every comment.
type CommentListScope struct {
	PostID          int64
	ViewerProfileID int64
}
