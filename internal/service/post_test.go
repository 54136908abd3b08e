package service

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

type postFixture struct {
	svc        *PostService
	posts      *mockPostRepository
	tags       *mockTagRepository
	follows    *mockFollowRepository
	favourites *mockFavouriteRepository
	media      *mockThumbnailStore
}

func newPostFixture(t *testing.T, txCount int, posts ...*model.Post) *postFixture {
	t.Helper()
	db, _ := newTxDB(t, txCount)
	f := &postFixture{
		posts:      newMockPostRepository(posts...),
		tags:       &mockTagRepository{},
		follows:    newMockFollowRepository(),
		favourites: newMockFavouriteRepository(),
		media:      &mockThumbnailStore{},
	}
	profiles := profilesByUsername(&model.Profile{ID: 3, Username: "reader"})
	f.svc = NewPostService(db, f.posts, f.tags, profiles, f.follows, f.favourites, f.media)
	return f
}

func publishedPost(id, authorID int64, slug string) *model.Post {
	return &model.Post{
		ID:          id,
		Slug:        slug,
		Title:       "Title",
		Description: "Description",
		Body:        "Body",
		IsPublished: true,
		AuthorID:    authorID,
		Author:      model.Author{ID: authorID, Username: "author"},
	}
}

func TestPostService_Create(t *testing.T) {
	// ARRANGE
	f := newPostFixture(t, 1)
	viewer := model.NewViewer(1, 1)
	req := &model.CreatePostRequest{
		Title:       "  Hello World ",
		Description: "An intro",
		Body:        "Some words",
		Tags:        []string{"Go", " golang "},
	}

	// ACT
	post, rel, err := f.svc.Create(context.Background(), viewer, req)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "Hello World", post.Title)
	assert.True(t, strings.HasPrefix(post.Slug, "hello-world-"), post.Slug)
	assert.Len(t, post.Slug, len("hello-world-")+model.SlugSuffixLength)
	assert.True(t, post.IsPublished)
	assert.Equal(t, int64(1), post.AuthorID)
	assert.False(t, rel.Favourited[post.ID])
	assert.Len(t, f.posts.setTagsCalls[post.ID], 2)
}

func TestPostService_Create_TagDeduplication(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		wantTags int
	}{
		{name: "distinct names", tags: []string{"Test", "test1"}, wantTags: 2},
		{name: "same name in different case", tags: []string{"Test", "test"}, wantTags: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture(t, 1)

			post, _, err := f.svc.Create(context.Background(), model.NewViewer(1, 1), &model.CreatePostRequest{
				Title:       "Tagged",
				Description: "d",
				Body:        "b",
				Tags:        tt.tags,
			})

			require.NoError(t, err)
			assert.Len(t, f.posts.setTagsCalls[post.ID], tt.wantTags)
			assert.Len(t, f.tags.tags, tt.wantTags)
		})
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	f := newPostFixture(t, 0)

	_, _, err := f.svc.Create(context.Background(), model.NewViewer(1, 1), &model.CreatePostRequest{
		Title: "No tags",
		Body:  "b",
		Tags:  []string{" ", ""},
	})

	verr, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, verr["description"])
	assert.Equal(t, []string{"This list may not be empty."}, verr["tags"])
	assert.Empty(t, f.posts.posts)
}

func TestPostService_Create_Draft(t *testing.T) {
	f := newPostFixture(t, 1)

	post, _, err := f.svc.Create(context.Background(), model.NewViewer(1, 1), &model.CreatePostRequest{
		Title:       "Draft",
		Description: "d",
		Body:        "b",
		Tags:        []string{"wip"},
		IsPublished: boolPtr(false),
	})

	require.NoError(t, err)
	assert.False(t, post.IsPublished)
}

func TestPostService_Get_HidesOthersDrafts(t *testing.T) {
	draft := publishedPost(1, 9, "draft-abcdef")
	draft.IsPublished = false
	f := newPostFixture(t, 0, draft)

	_, _, err := f.svc.Get(context.Background(), model.NewViewer(1, 1), "draft-abcdef")
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	_, _, err = f.svc.Get(context.Background(), model.AnonymousViewer(), "draft-abcdef")
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	post, _, err := f.svc.Get(context.Background(), model.NewViewer(9, 9), "draft-abcdef")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
}

func TestPostService_Update_KeepsSlug(t *testing.T) {
	// ARRANGE
	f := newPostFixture(t, 1, publishedPost(1, 1, "original-abcdef"))
	viewer := model.NewViewer(1, 1)

	// ACT
	post, _, err := f.svc.Update(context.Background(), viewer, "original-abcdef", &model.UpdatePostRequest{
		Description: strPtr(" changed "),
		IsPublished: boolPtr(false),
	})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "original-abcdef", post.Slug)
	assert.Equal(t, "Title", post.Title)
	assert.Equal(t, "changed", post.Description)
	assert.False(t, post.IsPublished)
	_, tagsReplaced := f.posts.setTagsCalls[1]
	assert.False(t, tagsReplaced)
}

func TestPostService_Update_ReplacesTags(t *testing.T) {
	f := newPostFixture(t, 1, publishedPost(1, 1, "original-abcdef"))

	_, _, err := f.svc.Update(context.Background(), model.NewViewer(1, 1), "original-abcdef", &model.UpdatePostRequest{
		Tags: &[]string{"one", "two", "ONE"},
	})

	require.NoError(t, err)
	assert.Len(t, f.posts.setTagsCalls[1], 2)
}

func TestPostService_Update_NotOwner(t *testing.T) {
	f := newPostFixture(t, 0, publishedPost(1, 2, "someone-elses"))

	_, _, err := f.svc.Update(context.Background(), model.NewViewer(1, 1), "someone-elses", &model.UpdatePostRequest{Body: strPtr("mine now")})

	assert.ErrorIs(t, err, model.ErrNotPostOwner)
	assert.Empty(t, f.posts.updateCalls)
}

func TestPostService_Update_BlankBody(t *testing.T) {
	f := newPostFixture(t, 0, publishedPost(1, 1, "mine"))

	_, _, err := f.svc.Update(context.Background(), model.NewViewer(1, 1), "mine", &model.UpdatePostRequest{Body: strPtr("   ")})

	verr, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field may not be blank."}, verr["body"])
}

func TestPostService_Delete(t *testing.T) {
	post := publishedPost(1, 1, "mine")
	post.ThumbnailKey = strPtr("thumbnails/old.jpg")
	f := newPostFixture(t, 0, post)

	err := f.svc.Delete(context.Background(), model.NewViewer(2, 2), "mine")
	assert.ErrorIs(t, err, model.ErrNotPostOwner)

	require.NoError(t, f.svc.Delete(context.Background(), model.NewViewer(1, 1), "mine"))
	assert.Equal(t, []int64{1}, f.posts.deleteCalls)
	assert.Equal(t, []string{"thumbnails/old.jpg"}, f.media.deletes)
}

func TestPostService_Favourite_Idempotent(t *testing.T) {
	f := newPostFixture(t, 0, publishedPost(1, 2, "liked"))
	viewer := model.NewViewer(1, 1)

	_, rel, err := f.svc.Favourite(context.Background(), viewer, "liked")
	require.NoError(t, err)
	assert.True(t, rel.Favourited[1])

	_, rel, err = f.svc.Favourite(context.Background(), viewer, "liked")
	require.NoError(t, err)
	assert.True(t, rel.Favourited[1])
	assert.Len(t, f.favourites.edges, 1)

	_, rel, err = f.svc.Unfavourite(context.Background(), viewer, "liked")
	require.NoError(t, err)
	assert.False(t, rel.Favourited[1])

	_, _, err = f.svc.Unfavourite(context.Background(), viewer, "liked")
	require.NoError(t, err)
	assert.Empty(t, f.favourites.edges)
}

func TestPostService_List_Scopes(t *testing.T) {
	f := newPostFixture(t, 0, publishedPost(1, 2, "a"))
	f.follows.edges[edge{1, 2}] = true
	viewer := model.NewViewer(1, 1)

	page, err := f.svc.List(context.Background(), viewer, model.PostScopeFeed, listing.Params{Page: 1})
	require.NoError(t, err)
	assert.True(t, page.Relations.Following[2])

	_, err = f.svc.ListFavouritesOf(context.Background(), viewer, "reader", listing.Params{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, []model.PostListScope{
		{Scope: model.PostScopeFeed, SubjectID: 1, ViewerProfileID: 1},
		{Scope: model.PostScopeFavourites, SubjectID: 3, ViewerProfileID: 1},
	}, f.posts.listScopes)
}

func TestPostService_SetThumbnail_ReplacesPrevious(t *testing.T) {
	post := publishedPost(1, 1, "mine")
	post.ThumbnailKey = strPtr("thumbnails/old.jpg")
	f := newPostFixture(t, 0, post)

	updated, _, err := f.svc.SetThumbnail(context.Background(), model.NewViewer(1, 1), "mine", nil, &multipart.FileHeader{Filename: "cover.png"})

	require.NoError(t, err)
	require.NotNil(t, updated.ThumbnailURL)
	assert.Equal(t, "https://cdn.example.com/thumbnails/new.jpg", *updated.ThumbnailURL)
	assert.Equal(t, []string{"thumbnails/old.jpg"}, f.media.deletes)
}

func TestPostService_RemoveThumbnail(t *testing.T) {
	post := publishedPost(1, 1, "mine")
	post.ThumbnailURL = strPtr("https://cdn.example.com/thumbnails/old.jpg")
	post.ThumbnailKey = strPtr("thumbnails/old.jpg")
	f := newPostFixture(t, 0, post)

	updated, _, err := f.svc.RemoveThumbnail(context.Background(), model.NewViewer(1, 1), "mine")

	require.NoError(t, err)
	assert.Nil(t, updated.ThumbnailURL)
	assert.Equal(t, []string{"thumbnails/old.jpg"}, f.media.deletes)
}

func TestPostService_SetThumbnail_StorageDisabled(t *testing.T) {
	db, _ := newTxDB(t, 0)
	posts := newMockPostRepository(publishedPost(1, 1, "mine"))
	svc := NewPostService(db, posts, &mockTagRepository{}, profilesByUsername(), newMockFollowRepository(), newMockFavouriteRepository(), nil)

	_, _, err := svc.SetThumbnail(context.Background(), model.NewViewer(1, 1), "mine", nil, &multipart.FileHeader{})

	assert.ErrorIs(t, err, model.ErrMediaStorageDisabled)
}
