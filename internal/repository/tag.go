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

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindOrCreate(ctx context.Context, tx *sqlx.Tx, name, slug, color string) (*model.Tag, error) {
	var tag model.Tag
	query := `
		SELECT id, tag, slug, color, created_at, updated_at
		FROM tags
		WHERE LOWER(tag) = LOWER($1) OR LOWER(slug) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := tx.GetContext(ctx, &tag, query, name, slug)
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find tag: %w", err)
	}

	// A concurrent insert of the same slug resolves to the existing row.
	insert := `
		INSERT INTO tags (tag, slug, color)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, tag, slug, color, created_at, updated_at
	`
	if err := tx.GetContext(ctx, &tag, insert, name, slug, color); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context, p listing.Params) (*model.Page[model.Tag], error) {
	q, err := tagListing.Build(p)
	if err != nil {
		return nil, err
	}

	page, err := selectPage[model.Tag](ctx, r.db,
		`t.id, t.tag, t.slug, t.color, t.created_at, t.updated_at`, `FROM tags t`, q)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return page, nil
}
