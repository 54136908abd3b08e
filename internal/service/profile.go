package service

import (
	"context"

	"github.com/rs/zerolog"

	"blogosphere/internal/listing"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

// ProfileService owns the follow graph.
type ProfileService struct {
	profiles  repository.ProfileRepository
	follows   repository.FollowRepository
	relations relationLoader
	log       zerolog.Logger
}

func NewProfileService(
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
	favourites repository.FavouriteRepository,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		follows:   follows,
		relations: relationLoader{follows: follows, favourites: favourites},
		log:       logger.Component("profile_service"),
	}
}

func (s *ProfileService) Get(ctx context.Context, viewer model.Viewer, username string) (*model.Profile, model.Relations, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, model.Relations{}, err
	}
	rel, err := s.relations.forProfiles(ctx, viewer, []int64{profile.ID})
	if err != nil {
		return nil, model.Relations{}, err
	}
	return profile, rel, nil
}

func (s *ProfileService) List(ctx context.Context, viewer model.Viewer, p listing.Params) (*model.Page[model.Profile], error) {
	return s.list(ctx, viewer, model.ProfileListScope{}, p)
}

// Followers lists the profiles following username.
func (s *ProfileService) Followers(ctx context.Context, viewer model.Viewer, username string, p listing.Params) (*model.Page[model.Profile], error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, viewer, model.ProfileListScope{FollowersOf: profile.ID}, p)
}

// Followed lists the profiles username follows.
func (s *ProfileService) Followed(ctx context.Context, viewer model.Viewer, username string, p listing.Params) (*model.Page[model.Profile], error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, viewer, model.ProfileListScope{FollowedBy: profile.ID}, p)
}

func (s *ProfileService) list(ctx context.Context, viewer model.Viewer, scope model.ProfileListScope, p listing.Params) (*model.Page[model.Profile], error) {
	page, err := s.profiles.List(ctx, scope, p)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(page.Items))
	for i, profile := range page.Items {
		ids[i] = profile.ID
	}
	page.Relations, err = s.relations.forProfiles(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Follow makes the viewer follow username. Following twice is a no-op.
func (s *ProfileService) Follow(ctx context.Context, viewer model.Viewer, username string) (*model.Profile, model.Relations, error) {
	followee, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if viewer.Is(followee.ID) {
		return nil, model.Relations{}, model.ErrCannotFollowSelf
	}

	created, err := s.follows.Create(ctx, viewer.ProfileID, followee.ID)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if created {
		s.log.Info().Int64("follower_id", viewer.ProfileID).Int64("followee_id", followee.ID).Msg("profile followed")
	}

	return s.Get(ctx, viewer, username)
}

// Unfollow removes the edge. Unfollowing a profile not followed is a no-op.
func (s *ProfileService) Unfollow(ctx context.Context, viewer model.Viewer, username string) (*model.Profile, model.Relations, error) {
	followee, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if viewer.Is(followee.ID) {
		return nil, model.Relations{}, model.ErrCannotFollowSelf
	}

	removed, err := s.follows.Delete(ctx, viewer.ProfileID, followee.ID)
	if err != nil {
		return nil, model.Relations{}, err
	}
	if removed {
		s.log.Info().Int64("follower_id", viewer.ProfileID).Int64("followee_id", followee.ID).Msg("profile unfollowed")
	}

	return s.Get(ctx, viewer, username)
}
