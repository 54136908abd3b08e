package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"blogosphere/internal/listing"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

type CommentService struct {
	comments  repository.CommentRepository
	posts     repository.PostRepository
	relations relationLoader
	log       zerolog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	follows repository.FollowRepository,
) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		relations: relationLoader{follows: follows},
		log:       logger.Component("comment_service"),
	}
}

// Create adds a comment to the post named by req.Post.
func (s *CommentService) Create(ctx context.Context, viewer model.Viewer, req *model.CreateCommentRequest) (*model.Comment, model.Relations, error) {
	req.Post = strings.TrimSpace(req.Post)
	req.Body = strings.TrimSpace(req.Body)

	if verr := validateRequest(req); verr.HasErrors() {
		return nil, model.Relations{}, verr
	}

	post, err := s.posts.GetBySlug(ctx, req.Post)
	if errors.Is(err, model.ErrPostNotFound) || (err == nil && !post.IsPublished && !viewer.Is(post.AuthorID)) {
		return nil, model.Relations{}, model.NewValidationError("post",
			fmt.Sprintf("Object with slug=%s does not exist.", req.Post))
	}
	if err != nil {
		return nil, model.Relations{}, err
	}

	comment := &model.Comment{
		Body:     req.Body,
		PostID:   post.ID,
		AuthorID: viewer.ProfileID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, model.Relations{}, err
	}

	s.log.Info().Int64("comment_id", comment.ID).Int64("post_id", post.ID).Msg("comment created")
	return s.load(ctx, viewer, comment.ID)
}

func (s *CommentService) load(ctx context.Context, viewer model.Viewer, id int64) (*model.Comment, model.Relations, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, model.Relations{}, err
	}
	rel, err := s.relations.forComments(ctx, viewer, []model.Comment{*comment})
	if err != nil {
		return nil, model.Relations{}, err
	}
	return comment, rel, nil
}

// GetForPost returns a comment only if it belongs to a post the viewer can see.
func (s *CommentService) GetForPost(ctx context.Context, viewer model.Viewer, slug string, id int64) (*model.Comment, model.Relations, error) {
	comment, err := s.commentOnPost(ctx, viewer, slug, id)
	if err != nil {
		return nil, model.Relations{}, err
	}
	rel, err := s.relations.forComments(ctx, viewer, []model.Comment{*comment})
	if err != nil {
		return nil, model.Relations{}, err
	}
	return comment, rel, nil
}

func (s *CommentService) commentOnPost(ctx context.Context, viewer model.Viewer, slug string, id int64) (*model.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished && !viewer.Is(post.AuthorID) {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.PostID != post.ID {
		return nil, model.ErrCommentNotFound
	}
	return comment, nil
}

// Update replaces the body. Only the comment's author may edit it.
func (s *CommentService) Update(ctx context.Context, viewer model.Viewer, slug string, id int64, req *model.UpdateCommentRequest) (*model.Comment, model.Relations, error) {
	comment, err := s.commentOnPost(ctx, viewer, slug, id)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if !viewer.Is(comment.AuthorID) {
		return nil, model.Relations{}, model.ErrNotCommentOwner
	}

	req.Body = strings.TrimSpace(req.Body)
	if verr := validateRequest(req); verr.HasErrors() {
		return nil, model.Relations{}, verr
	}

	updated, err := s.comments.UpdateBody(ctx, id, req.Body)
	if err != nil {
		return nil, model.Relations{}, err
	}
	rel, err := s.relations.forComments(ctx, viewer, []model.Comment{*updated})
	if err != nil {
		return nil, model.Relations{}, err
	}
	return updated, rel, nil
}

// Delete removes a comment. Only the comment's author may delete it.
func (s *CommentService) Delete(ctx context.Context, viewer model.Viewer, slug string, id int64) error {
	comment, err := s.commentOnPost(ctx, viewer, slug, id)
	if err != nil {
		return err
	}
	if !viewer.Is(comment.AuthorID) {
		return model.ErrNotCommentOwner
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("comment_id", id).Int64("post_id", comment.PostID).Msg("comment deleted")
	return nil
}

// List returns comments across every post the viewer can see.
func (s *CommentService) List(ctx context.Context, viewer model.Viewer, p listing.Params) (*model.Page[model.Comment], error) {
	return s.list(ctx, viewer, model.CommentListScope{ViewerProfileID: viewer.ProfileID}, p)
}

// ListForPost returns the comments on one post.
func (s *CommentService) ListForPost(ctx context.Context, viewer model.Viewer, slug string, p listing.Params) (*model.Page[model.Comment], error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished && !viewer.Is(post.AuthorID) {
		return nil, model.ErrPostNotFound
	}
	return s.list(ctx, viewer, model.CommentListScope{PostID: post.ID, ViewerProfileID: viewer.ProfileID}, p)
}

func (s *CommentService) list(ctx context.Context, viewer model.Viewer, scope model.CommentListScope, p listing.Params) (*model.Page[model.Comment], error) {
	page, err := s.comments.List(ctx, scope, p)
	if err != nil {
		return nil, err
	}
	page.Relations, err = s.relations.forComments(ctx, viewer, page.Items)
	if err != nil {
		return nil, err
	}
	return page, nil
}
