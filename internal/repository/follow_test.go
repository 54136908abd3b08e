package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profile_follows`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profile_follows`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created, "second insert of the same edge is a no-op")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM profile_follows WHERE follower_id = $1 AND followee_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_CheckFollows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT followee_id FROM profile_follows WHERE follower_id = $1`)).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"followee_id"}).AddRow(2))

	got, err := repo.CheckFollows(context.Background(), 1, []int64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true, 3: false}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_CheckFollowers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT follower_id FROM profile_follows WHERE followee_id = $1`)).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"follower_id"}).AddRow(3))

	got, err := repo.CheckFollowers(context.Background(), 1, []int64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: false, 3: true}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_CheckFollows_EmptyInput(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	got, err := repo.CheckFollows(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavouriteRepository_CreateAndCheck(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFavouriteRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profile_favourites`)).
		WithArgs(4, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT post_id FROM profile_favourites`)).
		WithArgs(4, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(9))

	created, err := repo.Create(ctx, 4, 9)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.CheckFavourites(ctx, 4, []int64{9, 10})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{9: true, 10: false}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
