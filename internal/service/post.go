package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"blogosphere/internal/database"
	"blogosphere/internal/listing"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

const maxSlugAttempts = 5

type PostService struct {
	db         *sqlx.DB
	posts      repository.PostRepository
	tags       repository.TagRepository
	profiles   repository.ProfileRepository
	favourites repository.FavouriteRepository
	relations  relationLoader
	media      ThumbnailStore
	log        zerolog.Logger
}

// NewPostService wires the post use cases. media may be nil, in which case
// thumbnail uploads report ErrMediaStorageDisabled.
func NewPostService(
	db *sqlx.DB,
	posts repository.PostRepository,
	tags repository.TagRepository,
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
	favourites repository.FavouriteRepository,
	media ThumbnailStore,
) *PostService {
	return &PostService{
		db:         db,
		posts:      posts,
		tags:       tags,
		profiles:   profiles,
		favourites: favourites,
		relations:  relationLoader{follows: follows, favourites: favourites},
		media:      media,
		log:        logger.Component("post_service"),
	}
}

// Create stores a post with its tags in one transaction. The slug is fixed
// here and never changes afterwards.
func (s *PostService) Create(ctx context.Context, viewer model.Viewer, req *model.CreatePostRequest) (*model.Post, model.Relations, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Body = strings.TrimSpace(req.Body)
	req.Tags = normalizeTags(req.Tags)

	if verr := validateRequest(req); verr.HasErrors() {
		return nil, model.Relations{}, verr
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, model.Relations{}, err
	}

	post := &model.Post{
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		IsPublished: true,
		AuthorID:    viewer.ProfileID,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.posts.Create(ctx, tx, post); err != nil {
			return err
		}
		tagIDs, err := resolveTags(ctx, tx, s.tags, req.Tags)
		if err != nil {
			return err
		}
		return s.posts.SetTags(ctx, tx, post.ID, tagIDs)
	})
	if err != nil {
		return nil, model.Relations{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Int64("author_id", post.AuthorID).Msg("post created")
	return s.load(ctx, viewer, slug)
}

func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		slug, err := postSlug(title, model.SlugSuffixLength)
		if err != nil {
			return "", err
		}
		exists, err := s.posts.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique slug for %q", title)
}

// Get returns a post the viewer is allowed to see.
func (s *PostService) Get(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, model.Relations, error) {
	return s.load(ctx, viewer, slug)
}

func (s *PostService) load(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, model.Relations, error) {
	post, err := s.visiblePost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}
	rel, err := s.relations.forPosts(ctx, viewer, []model.Post{*post})
	if err != nil {
		return nil, model.Relations{}, err
	}
	return post, rel, nil
}

// visiblePost hides other authors' drafts behind ErrPostNotFound.
func (s *PostService) visiblePost(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished && !viewer.Is(post.AuthorID) {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) ownPost(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, error) {
	post, err := s.visiblePost(ctx, viewer, slug)
	if err != nil {
		return nil, err
	}
	if !viewer.Is(post.AuthorID) {
		return nil, model.ErrNotPostOwner
	}
	return post, nil
}

// Update applies a partial update. Only the author may update.
func (s *PostService) Update(ctx context.Context, viewer model.Viewer, slug string, req *model.UpdatePostRequest) (*model.Post, model.Relations, error) {
	post, err := s.ownPost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}

	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
	}
	if req.Body != nil {
		trimmed := strings.TrimSpace(*req.Body)
		req.Body = &trimmed
	}
	if req.Tags != nil {
		normalized := normalizeTags(*req.Tags)
		req.Tags = &normalized
	}
	if req.Description != nil && *req.Description == "" {
		return nil, model.Relations{}, model.NewValidationError("description", "This field may not be blank.")
	}
	if req.Body != nil && *req.Body == "" {
		return nil, model.Relations{}, model.NewValidationError("body", "This field may not be blank.")
	}
	if verr := validateRequest(req); verr.HasErrors() {
		return nil, model.Relations{}, verr
	}

	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.posts.Update(ctx, tx, post); err != nil {
			return err
		}
		if req.Tags == nil {
			return nil
		}
		tagIDs, err := resolveTags(ctx, tx, s.tags, *req.Tags)
		if err != nil {
			return err
		}
		return s.posts.SetTags(ctx, tx, post.ID, tagIDs)
	})
	if err != nil {
		return nil, model.Relations{}, fmt.Errorf("failed to update post: %w", err)
	}

	return s.load(ctx, viewer, slug)
}

// Delete removes the post and, best effort, its thumbnail object.
func (s *PostService) Delete(ctx context.Context, viewer model.Viewer, slug string) error {
	post, err := s.ownPost(ctx, viewer, slug)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.log.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Msg("post deleted")
	s.deleteThumbnailObject(ctx, post.ThumbnailKey)
	return nil
}

// List returns posts in the given scope. Feed and favourites are always the
// viewer's own.
func (s *PostService) List(ctx context.Context, viewer model.Viewer, scope model.PostScope, p listing.Params) (*model.Page[model.Post], error) {
	return s.list(ctx, viewer, model.PostListScope{
		Scope:           scope,
		SubjectID:       viewer.ProfileID,
		ViewerProfileID: viewer.ProfileID,
	}, p)
}

// ListFavouritesOf lists the posts favourited by username.
func (s *PostService) ListFavouritesOf(ctx context.Context, viewer model.Viewer, username string, p listing.Params) (*model.Page[model.Post], error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, viewer, model.PostListScope{
		Scope:           model.PostScopeFavourites,
		SubjectID:       profile.ID,
		ViewerProfileID: viewer.ProfileID,
	}, p)
}

func (s *PostService) list(ctx context.Context, viewer model.Viewer, scope model.PostListScope, p listing.Params) (*model.Page[model.Post], error) {
	page, err := s.posts.List(ctx, scope, p)
	if err != nil {
		return nil, err
	}
	page.Relations, err = s.relations.forPosts(ctx, viewer, page.Items)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Favourite marks the post as a favourite of the viewer. Repeating it is a
// no-op that still returns the current state.
func (s *PostService) Favourite(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, model.Relations, error) {
	post, err := s.visiblePost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if _, err := s.favourites.Create(ctx, viewer.ProfileID, post.ID); err != nil {
		return nil, model.Relations{}, err
	}
	return s.load(ctx, viewer, slug)
}

func (s *PostService) Unfavourite(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, model.Relations, error) {
	post, err := s.visiblePost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if _, err := s.favourites.Delete(ctx, viewer.ProfileID, post.ID); err != nil {
		return nil, model.Relations{}, err
	}
	return s.load(ctx, viewer, slug)
}

// SetThumbnail uploads a new thumbnail and replaces the previous one.
func (s *PostService) SetThumbnail(ctx context.Context, viewer model.Viewer, slug string, file multipart.File, header *multipart.FileHeader) (*model.Post, model.Relations, error) {
	post, err := s.ownPost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if s.media == nil {
		return nil, model.Relations{}, model.ErrMediaStorageDisabled
	}

	upload, err := s.media.UploadThumbnail(ctx, file, header)
	if err != nil {
		return nil, model.Relations{}, err
	}

	if err := s.posts.SetThumbnail(ctx, post.ID, &upload.URL, &upload.Key); err != nil {
		s.deleteThumbnailObject(ctx, &upload.Key)
		return nil, model.Relations{}, err
	}
	s.deleteThumbnailObject(ctx, post.ThumbnailKey)

	return s.load(ctx, viewer, slug)
}

func (s *PostService) RemoveThumbnail(ctx context.Context, viewer model.Viewer, slug string) (*model.Post, model.Relations, error) {
	post, err := s.ownPost(ctx, viewer, slug)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if err := s.posts.SetThumbnail(ctx, post.ID, nil, nil); err != nil {
		return nil, model.Relations{}, err
	}
	s.deleteThumbnailObject(ctx, post.ThumbnailKey)

	return s.load(ctx, viewer, slug)
}

func (s *PostService) deleteThumbnailObject(ctx context.Context, key *string) {
	if key == nil || *key == "" || s.media == nil {
		return
	}
	if err := s.media.DeleteObject(ctx, *key); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Str("key", *key).Msg("failed to delete thumbnail object")
	}
}
