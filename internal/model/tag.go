package model

import "time"

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Tag       string    `db:"tag" json:"tag"`
	Slug      string    `db:"slug" json:"slug"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// PostTag links a tag to a post, used when loading tags for a page of posts.
type PostTag struct {
	PostID int64  `db:"post_id"`
	Tag    string `db:"tag"`
}
