package service

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock holds optional funcs so a test only defines the behaviour it
// cares about. Unset funcs fall back to a neutral answer.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)

	createCalls          []*model.User
	updateLastLoginCalls []int64
}

func (m *mockUserRepository) Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = int64(len(m.createCalls))
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	m.updateLastLoginCalls = append(m.updateLastLoginCalls, id)
	return nil
}

func (m *mockUserRepository) DeleteFabricated(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockProfileRepository struct {
	createFn        func(ctx context.Context, userID int64) (*model.Profile, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.Profile, error)
	listFn          func(ctx context.Context, scope model.ProfileListScope, p listing.Params) (*model.Page[model.Profile], error)

	createCalls []int64
	updateCalls []profileUpdateCall
	listScopes  []model.ProfileListScope
}

type profileUpdateCall struct {
	ID    int64
	Bio   *string
	Image *string
}

func (m *mockProfileRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.Profile, error) {
	m.createCalls = append(m.createCalls, userID)
	if m.createFn != nil {
		return m.createFn(ctx, userID)
	}
	return &model.Profile{ID: userID * 10, UserID: userID}, nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) Update(ctx context.Context, id int64, bio, image *string) error {
	m.updateCalls = append(m.updateCalls, profileUpdateCall{ID: id, Bio: bio, Image: image})
	return nil
}

func (m *mockProfileRepository) List(ctx context.Context, scope model.ProfileListScope, p listing.Params) (*model.Page[model.Profile], error) {
	m.listScopes = append(m.listScopes, scope)
	if m.listFn != nil {
		return m.listFn(ctx, scope, p)
	}
	return &model.Page[model.Profile]{Page: 1, PageSize: 25}, nil
}

type edge struct{ from, to int64 }

// mockFollowRepository keeps edges in memory so idempotency can be checked.
type mockFollowRepository struct {
	edges map[edge]bool

	checkFollowsCalls int
}

func newMockFollowRepository() *mockFollowRepository {
	return &mockFollowRepository{edges: map[edge]bool{}}
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	e := edge{followerID, followeeID}
	if m.edges[e] {
		return false, nil
	}
	m.edges[e] = true
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followeeID int64) (bool, error) {
	e := edge{followerID, followeeID}
	if !m.edges[e] {
		return false, nil
	}
	delete(m.edges, e)
	return true, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return m.edges[edge{followerID, followeeID}], nil
}

func (m *mockFollowRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	m.checkFollowsCalls++
	out := map[int64]bool{}
	for _, id := range followeeIDs {
		if m.edges[edge{followerID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func (m *mockFollowRepository) CheckFollowers(ctx context.Context, followeeID int64, followerIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range followerIDs {
		if m.edges[edge{id, followeeID}] {
			out[id] = true
		}
	}
	return out, nil
}

type mockFavouriteRepository struct {
	edges map[edge]bool
}

func newMockFavouriteRepository() *mockFavouriteRepository {
	return &mockFavouriteRepository{edges: map[edge]bool{}}
}

func (m *mockFavouriteRepository) Create(ctx context.Context, profileID, postID int64) (bool, error) {
	e := edge{profileID, postID}
	if m.edges[e] {
		return false, nil
	}
	m.edges[e] = true
	return true, nil
}

func (m *mockFavouriteRepository) Delete(ctx context.Context, profileID, postID int64) (bool, error) {
	e := edge{profileID, postID}
	if !m.edges[e] {
		return false, nil
	}
	delete(m.edges, e)
	return true, nil
}

func (m *mockFavouriteRepository) Exists(ctx context.Context, profileID, postID int64) (bool, error) {
	return m.edges[edge{profileID, postID}], nil
}

func (m *mockFavouriteRepository) CheckFavourites(ctx context.Context, profileID int64, postIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range postIDs {
		if m.edges[edge{profileID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

// mockPostRepository stores posts by slug.
type mockPostRepository struct {
	posts  map[string]*model.Post
	nextID int64

	slugExistsFn func(ctx context.Context, slug string) (bool, error)

	updateCalls       []model.Post
	setTagsCalls      map[int64][]int64
	setThumbnailCalls []thumbnailCall
	deleteCalls       []int64
	listScopes        []model.PostListScope
}

type thumbnailCall struct {
	ID  int64
	URL *string
	Key *string
}

func newMockPostRepository(posts ...*model.Post) *mockPostRepository {
	m := &mockPostRepository{posts: map[string]*model.Post{}, nextID: 100, setTagsCalls: map[int64][]int64{}}
	for _, p := range posts {
		m.posts[p.Slug] = p
	}
	return m
}

func (m *mockPostRepository) Create(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	m.nextID++
	post.ID = m.nextID
	post.Author = model.Author{ID: post.AuthorID}
	stored := *post
	m.posts[post.Slug] = &stored
	return nil
}

func (m *mockPostRepository) Update(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	m.updateCalls = append(m.updateCalls, *post)
	stored := *post
	m.posts[post.Slug] = &stored
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	for slug, p := range m.posts {
		if p.ID == id {
			delete(m.posts, slug)
			return nil
		}
	}
	return model.ErrPostNotFound
}

func (m *mockPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	p, ok := m.posts[slug]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	_, ok := m.posts[slug]
	return ok, nil
}

func (m *mockPostRepository) SetTags(ctx context.Context, tx *sqlx.Tx, postID int64, tagIDs []int64) error {
	m.setTagsCalls[postID] = tagIDs
	return nil
}

func (m *mockPostRepository) SetThumbnail(ctx context.Context, id int64, url, key *string) error {
	m.setThumbnailCalls = append(m.setThumbnailCalls, thumbnailCall{ID: id, URL: url, Key: key})
	for _, p := range m.posts {
		if p.ID == id {
			p.ThumbnailURL = url
			p.ThumbnailKey = key
		}
	}
	return nil
}

func (m *mockPostRepository) List(ctx context.Context, scope model.PostListScope, p listing.Params) (*model.Page[model.Post], error) {
	m.listScopes = append(m.listScopes, scope)
	page := &model.Page[model.Post]{Page: 1, PageSize: 25}
	for _, post := range m.posts {
		page.Items = append(page.Items, *post)
	}
	page.Count = len(page.Items)
	return page, nil
}

// mockTagRepository resolves names case-insensitively by tag or slug.
type mockTagRepository struct {
	tags []model.Tag
}

func (m *mockTagRepository) FindOrCreate(ctx context.Context, tx *sqlx.Tx, name, slug, color string) (*model.Tag, error) {
	for _, t := range m.tags {
		if strings.EqualFold(t.Tag, name) || strings.EqualFold(t.Slug, slug) {
			found := t
			return &found, nil
		}
	}
	t := model.Tag{ID: int64(len(m.tags) + 1), Tag: name, Slug: slug, Color: color}
	m.tags = append(m.tags, t)
	return &t, nil
}

func (m *mockTagRepository) List(ctx context.Context, p listing.Params) (*model.Page[model.Tag], error) {
	return &model.Page[model.Tag]{Items: m.tags, Count: len(m.tags), Page: 1, PageSize: 20}, nil
}

type mockCommentRepository struct {
	comments map[int64]*model.Comment
	nextID   int64

	deleteCalls []int64
	listScopes  []model.CommentListScope
}

func newMockCommentRepository(comments ...*model.Comment) *mockCommentRepository {
	m := &mockCommentRepository{comments: map[int64]*model.Comment{}, nextID: 500}
	for _, c := range comments {
		m.comments[c.ID] = c
	}
	return m
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	comment.Author = model.Author{ID: comment.AuthorID}
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCommentRepository) UpdateBody(ctx context.Context, id int64, body string) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	c.Body = body
	copied := *c
	return &copied, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	delete(m.comments, id)
	return nil
}

func (m *mockCommentRepository) List(ctx context.Context, scope model.CommentListScope, p listing.Params) (*model.Page[model.Comment], error) {
	m.listScopes = append(m.listScopes, scope)
	page := &model.Page[model.Comment]{Page: 1, PageSize: 10}
	for _, c := range m.comments {
		if scope.PostID == 0 || c.PostID == scope.PostID {
			page.Items = append(page.Items, *c)
		}
	}
	page.Count = len(page.Items)
	return page, nil
}

type mockBlacklist struct {
	jtis map[string]time.Time
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: map[string]time.Time{}}
}

func (m *mockBlacklist) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	m.jtis[jti] = expiresAt
	return nil
}

func (m *mockBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	_, ok := m.jtis[jti]
	return ok, nil
}

type mockThumbnailStore struct {
	uploads []string
	deletes []string
}

func (m *mockThumbnailStore) UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	key := "thumbnails/new.jpg"
	m.uploads = append(m.uploads, header.Filename)
	return &model.UploadResult{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (m *mockThumbnailStore) DeleteObject(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// newTxDB returns a sqlx handle whose transactions are expected to commit
// txCount times.
func newTxDB(t *testing.T, txCount int) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for i := 0; i < txCount; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return sqlx.NewDb(db, "postgres"), mock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
