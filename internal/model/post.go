package model

import (
	"errors"
	"time"
)

// Post is an article written by a profile.
type Post struct {
	ID           int64     `db:"id"`
	Slug         string    `db:"slug"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Body         string    `db:"body"`
	ThumbnailURL *string   `db:"thumbnail_url"`
	ThumbnailKey *string   `db:"thumbnail_key"`
	IsPublished  bool      `db:"is_published"`
	AuthorID     int64     `db:"author_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Computed and joined fields.
	FavouritesCount int      `db:"favourites_count"`
	CommentsCount   int      `db:"comments_count"`
	Author          Author   `db:"author"`
	Tags            []string `db:"-"`
}

// CreatePostRequest is the body of POST /posts/.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=255"`
	Body        string   `json:"body" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,required,max=255"`
	IsPublished *bool    `json:"is_published"`
}

// UpdatePostRequest is the body of PATCH /posts/{slug}/. Title and slug are
// fixed at creation and ignored here.
type UpdatePostRequest struct {
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Body        *string   `json:"body" validate:"omitempty,min=1"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required,max=255"`
	IsPublished *bool     `json:"is_published"`
}

// PostScope selects the base set a post listing starts from.
type PostScope int

const (
	PostScopeAll PostScope = iota
	PostScopeFeed
	PostScopeFavourites
)

const (
	SlugSuffixLength = 6
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
)

// PostListScope narrows a post listing before filters are applied.
type PostListScope struct {
	Scope PostScope
	// SubjectID is the profile whose feed or favourites are listed.
	SubjectID int64
	// ViewerProfileID sees their own unpublished posts; 0 for anonymous.
	ViewerProfileID int64
}
