package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

const postHasTagLike = `EXISTS (
	SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
	WHERE pt.post_id = p.id AND t.tag ILIKE ?)`

var postListing = listing.Definition{
	Filters: []listing.Filter{
		{Param: "slug", Cond: "p.slug = ?", Kind: listing.Exact},
		{Param: "slug__icontains", Cond: "p.slug ILIKE ?", Kind: listing.Contains},
		{Param: "title__icontains", Cond: "p.title ILIKE ?", Kind: listing.Contains},
		{Param: "description__icontains", Cond: "p.description ILIKE ?", Kind: listing.Contains},
		{Param: "author__user__username__icontains", Cond: "u.username ILIKE ?", Kind: listing.Contains},
		{Param: "author__user__email__icontains", Cond: "u.email ILIKE ?", Kind: listing.Contains},
		{Param: "tags__tag__icontains", Cond: postHasTagLike, Kind: listing.Contains},
		{Param: "created_at__gte", Cond: "p.created_at >= ?", Kind: listing.Time},
		{Param: "created_at__lte", Cond: "p.created_at <= ?", Kind: listing.Time},
	},
	Search: []string{"p.title ILIKE ?", "p.description ILIKE ?", "u.username ILIKE ?", postHasTagLike},
	Ordering: map[string]string{
		"id":         "p.id",
		"created_at": "p.created_at",
		"updated_at": "p.updated_at",
	},
	DefaultOrdering: []string{"-created_at"},
	TieBreaker:      "p.id DESC",
	PageSize:        25,
	MaxPageSize:     100,
}

var commentListing = listing.Definition{
	Filters: []listing.Filter{
		{Param: "author", Cond: "c.author_id = ?", Kind: listing.Int},
		{Param: "post", Cond: "c.post_id = ?", Kind: listing.Int},
		{Param: "post__title__icontains", Cond: "p.title ILIKE ?", Kind: listing.Contains},
	},
	Search: []string{"c.body ILIKE ?", "u.username ILIKE ?", "p.title ILIKE ?"},
	Ordering: map[string]string{
		"created_at": "c.created_at",
		"updated_at": "c.updated_at",
	},
	DefaultOrdering: []string{"-created_at"},
	TieBreaker:      "c.id DESC",
	PageSize:        10,
	MaxPageSize:     50,
}

var postCommentListing = listing.Definition{
	Ordering: map[string]string{
		"created_at": "c.created_at",
		"updated_at": "c.updated_at",
	},
	DefaultOrdering: []string{"-created_at"},
	TieBreaker:      "c.id DESC",
	PageSize:        10,
	MaxPageSize:     10,
}

var tagListing = listing.Definition{
	Filters: []listing.Filter{
		{Param: "tag", Cond: "t.tag = ?", Kind: listing.Exact},
		{Param: "tag__icontains", Cond: "t.tag ILIKE ?", Kind: listing.Contains},
		{Param: "slug", Cond: "t.slug = ?", Kind: listing.Exact},
		{Param: "slug__icontains", Cond: "t.slug ILIKE ?", Kind: listing.Contains},
	},
	Search: []string{"t.tag ILIKE ?"},
	Ordering: map[string]string{
		"id":  "t.id",
		"tag": "t.tag",
	},
	DefaultOrdering: []string{"tag"},
	TieBreaker:      "t.id ASC",
	PageSize:        20,
	MaxPageSize:     100,
}

var profileListing = listing.Definition{
	Filters: []listing.Filter{
		{Param: "username", Cond: "LOWER(u.username) = LOWER(?)", Kind: listing.Exact},
		{Param: "username__icontains", Cond: "u.username ILIKE ?", Kind: listing.Contains},
	},
	Search: []string{"u.username ILIKE ?"},
	Ordering: map[string]string{
		"id":         "pr.id",
		"username":   "u.username",
		"created_at": "pr.created_at",
	},
	DefaultOrdering: []string{"id"},
	TieBreaker:      "pr.id ASC",
	PageSize:        25,
	MaxPageSize:     100,
}

// selectPage counts the rows matching q and loads the requested page.
// from holds the FROM clause and joins, columns the select list.
func selectPage[T any](ctx context.Context, db *sqlx.DB, columns, from string, q listing.Query) (*model.Page[T], error) {
	var count int
	countQuery := db.Rebind(`SELECT COUNT(*) ` + from + ` WHERE ` + q.Where)
	if err := db.GetContext(ctx, &count, countQuery, q.Args...); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	if err := q.CheckPage(count); err != nil {
		return nil, err
	}

	items := []T{}
	if count > 0 {
		listQuery := db.Rebind(`SELECT ` + columns + ` ` + from +
			` WHERE ` + q.Where + ` ORDER BY ` + q.OrderBy + ` LIMIT ? OFFSET ?`)
		args := append(append([]any{}, q.Args...), q.Limit(), q.Offset())
		if err := db.SelectContext(ctx, &items, listQuery, args...); err != nil {
			return nil, fmt.Errorf("select rows: %w", err)
		}
	}

	return &model.Page[T]{
		Items:    items,
		Count:    count,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}
