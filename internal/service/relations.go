package service

import (
	"context"

	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

// relationLoader batches the viewer's edges to everything on one page.
// Anonymous viewers get an empty snapshot without touching the database.
type relationLoader struct {
	follows    repository.FollowRepository
	favourites repository.FavouriteRepository
}

func (l relationLoader) forProfiles(ctx context.Context, viewer model.Viewer, profileIDs []int64) (model.Relations, error) {
	var rel model.Relations
	if viewer.IsAnonymous() || len(profileIDs) == 0 {
		return rel, nil
	}

	following, err := l.follows.CheckFollows(ctx, viewer.ProfileID, profileIDs)
	if err != nil {
		return rel, err
	}
	followedBy, err := l.follows.CheckFollowers(ctx, viewer.ProfileID, profileIDs)
	if err != nil {
		return rel, err
	}

	rel.Following = following
	rel.FollowedBy = followedBy
	return rel, nil
}

func (l relationLoader) forPosts(ctx context.Context, viewer model.Viewer, posts []model.Post) (model.Relations, error) {
	var rel model.Relations
	if viewer.IsAnonymous() || len(posts) == 0 {
		return rel, nil
	}

	postIDs := make([]int64, 0, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.Author.ID)
	}

	following, err := l.follows.CheckFollows(ctx, viewer.ProfileID, uniqueIDs(authorIDs))
	if err != nil {
		return rel, err
	}
	favourited, err := l.favourites.CheckFavourites(ctx, viewer.ProfileID, postIDs)
	if err != nil {
		return rel, err
	}

	rel.Following = following
	rel.Favourited = favourited
	return rel, nil
}

func (l relationLoader) forComments(ctx context.Context, viewer model.Viewer, comments []model.Comment) (model.Relations, error) {
	var rel model.Relations
	if viewer.IsAnonymous() || len(comments) == 0 {
		return rel, nil
	}

	authorIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.Author.ID)
	}

	following, err := l.follows.CheckFollows(ctx, viewer.ProfileID, uniqueIDs(authorIDs))
	if err != nil {
		return rel, err
	}
	rel.Following = following
	return rel, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
