// Package presenter renders domain models into response bodies for a given
// viewer. Every function that emits a viewer-relative field refuses to run
// without a viewer.
package presenter

import (
	"time"

	"blogosphere/internal/model"
)

type EmbeddedProfile struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Image           *string `json:"image"`
	IsFollowedByYou bool    `json:"is_followed_by_you"`
}

type ProfileDetail struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Bio             string  `json:"bio"`
	Image           *string `json:"image"`
	IsFollowingYou  bool    `json:"is_following_you"`
	IsFollowedByYou bool    `json:"is_followed_by_you"`
}

type ProfileListItem struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	Image           *string `json:"image"`
	IsFollowingYou  bool    `json:"is_following_you"`
	IsFollowedByYou bool    `json:"is_followed_by_you"`
}

type PostListItem struct {
	ID              int64           `json:"id"`
	Author          EmbeddedProfile `json:"author"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Body            string          `json:"body"`
	Tags            []string        `json:"tags"`
	Thumbnail       *string         `json:"thumbnail"`
	IsPublished     bool            `json:"is_published"`
	FavouritesCount int             `json:"favourites_count"`
	CommentsCount   int             `json:"comments_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type PostDetail struct {
	PostListItem
	IsFavourited bool `json:"is_favourited"`
}

type Comment struct {
	ID        int64           `json:"id"`
	Author    EmbeddedProfile `json:"author"`
	Post      string          `json:"post"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PostComment is a comment nested under its post, so the post is omitted.
type PostComment struct {
	ID        int64           `json:"id"`
	Author    EmbeddedProfile `json:"author"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func requireViewer(viewer model.Viewer) error {
	if !viewer.IsSet() {
		return model.ErrViewerContextMissing
	}
	return nil
}

// following reports whether the viewer follows profileID. Anonymous viewers
// never follow anyone, whatever the snapshot says.
func following(viewer model.Viewer, rel model.Relations, profileID int64) bool {
	return !viewer.IsAnonymous() && rel.Following[profileID]
}

func followedBy(viewer model.Viewer, rel model.Relations, profileID int64) bool {
	return !viewer.IsAnonymous() && rel.FollowedBy[profileID]
}

func RenderEmbeddedProfile(a model.Author, viewer model.Viewer, rel model.Relations) (EmbeddedProfile, error) {
	if err := requireViewer(viewer); err != nil {
		return EmbeddedProfile{}, err
	}
	return EmbeddedProfile{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		Image:           a.Image,
		IsFollowedByYou: following(viewer, rel, a.ID),
	}, nil
}

func RenderProfileDetail(p *model.Profile, viewer model.Viewer, rel model.Relations) (ProfileDetail, error) {
	if err := requireViewer(viewer); err != nil {
		return ProfileDetail{}, err
	}
	return ProfileDetail{
		ID:              p.ID,
		Username:        p.Username,
		Email:           p.Email,
		Bio:             p.Bio,
		Image:           p.Image,
		IsFollowingYou:  followedBy(viewer, rel, p.ID),
		IsFollowedByYou: following(viewer, rel, p.ID),
	}, nil
}

func RenderProfileList(profiles []model.Profile, viewer model.Viewer, rel model.Relations) ([]ProfileListItem, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	out := make([]ProfileListItem, len(profiles))
	for i, p := range profiles {
		out[i] = ProfileListItem{
			ID:              p.ID,
			Username:        p.Username,
			Image:           p.Image,
			IsFollowingYou:  followedBy(viewer, rel, p.ID),
			IsFollowedByYou: following(viewer, rel, p.ID),
		}
	}
	return out, nil
}

func RenderPostListItem(p *model.Post, viewer model.Viewer, rel model.Relations) (PostListItem, error) {
	author, err := RenderEmbeddedProfile(p.Author, viewer, rel)
	if err != nil {
		return PostListItem{}, err
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostListItem{
		ID:              p.ID,
		Author:          author,
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		Body:            p.Body,
		Tags:            tags,
		Thumbnail:       p.ThumbnailURL,
		IsPublished:     p.IsPublished,
		FavouritesCount: p.FavouritesCount,
		CommentsCount:   p.CommentsCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func RenderPostDetail(p *model.Post, viewer model.Viewer, rel model.Relations) (PostDetail, error) {
	item, err := RenderPostListItem(p, viewer, rel)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{
		PostListItem: item,
		IsFavourited: !viewer.IsAnonymous() && rel.Favourited[p.ID],
	}, nil
}

func RenderPostList(posts []model.Post, viewer model.Viewer, rel model.Relations) ([]PostListItem, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	out := make([]PostListItem, len(posts))
	for i := range posts {
		item, err := RenderPostListItem(&posts[i], viewer, rel)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func RenderComment(c *model.Comment, viewer model.Viewer, rel model.Relations) (Comment, error) {
	author, err := RenderEmbeddedProfile(c.Author, viewer, rel)
	if err != nil {
		return Comment{}, err
	}
	return Comment{
		ID:        c.ID,
		Author:    author,
		Post:      c.PostSlug,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func RenderCommentList(comments []model.Comment, viewer model.Viewer, rel model.Relations) ([]Comment, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	out := make([]Comment, len(comments))
	for i := range comments {
		c, err := RenderComment(&comments[i], viewer, rel)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func RenderPostComment(c *model.Comment, viewer model.Viewer, rel model.Relations) (PostComment, error) {
	author, err := RenderEmbeddedProfile(c.Author, viewer, rel)
	if err != nil {
		return PostComment{}, err
	}
	return PostComment{
		ID:        c.ID,
		Author:    author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func RenderPostCommentList(comments []model.Comment, viewer model.Viewer, rel model.Relations) ([]PostComment, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	out := make([]PostComment, len(comments))
	for i := range comments {
		c, err := RenderPostComment(&comments[i], viewer, rel)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Tags carry no viewer-relative fields.
func RenderTags(tags []model.Tag) []model.Tag {
	if tags == nil {
		return []model.Tag{}
	}
	return tags
}

func RenderCurrentUser(u *model.User) model.CurrentUser {
	return model.CurrentUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}

func RenderRegisteredUser(u *model.User) model.RegisteredUser {
	return model.RegisteredUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
