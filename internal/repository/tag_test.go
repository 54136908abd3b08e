package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagRowColumns = []string{"id", "tag", "slug", "color", "created_at", "updated_at"}

func TestTagRepository_FindOrCreate_Existing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(tag) = LOWER($1) OR LOWER(slug) = LOWER($2)`)).
		WithArgs("test", "test").
		WillReturnRows(sqlmock.NewRows(tagRowColumns).AddRow(1, "test", "test", "#aabbcc", now, now))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	tag, err := repo.FindOrCreate(ctx, tx, "test", "test", "#000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tag.ID)
	assert.Equal(t, "#aabbcc", tag.Color, "existing colour is kept")
}

func TestTagRepository_FindOrCreate_New(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tags`)).
		WithArgs("test1", "test1").
		WillReturnRows(sqlmock.NewRows(tagRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags (tag, slug, color)`)).
		WithArgs("test1", "test1", "#123456").
		WillReturnRows(sqlmock.NewRows(tagRowColumns).AddRow(2, "test1", "test1", "#123456", now, now))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	tag, err := repo.FindOrCreate(ctx, tx, "test1", "test1", "#123456")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(2), tag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTagRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM tags t WHERE t.tag ILIKE $1`)).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.tag ASC, t.id ASC LIMIT $2 OFFSET $3`)).
		WithArgs("%go%", 20, 0).
		WillReturnRows(sqlmock.NewRows(tagRowColumns).AddRow(1, "golang", "golang", "#abcdef", now, now))

	page, err := repo.List(context.Background(), params(t, "tag__icontains=go"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "golang", page.Items[0].Tag)
	assert.NoError(t, mock.ExpectationsWereMet())
}
