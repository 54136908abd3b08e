package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	DeleteFabricated(ctx context.Context) (int64, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.Profile, error)
	GetByID(ctx context.Context, id int64) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	Update(ctx context.Context, id int64, bio, image *string) error
	List(ctx context.Context, scope model.ProfileListScope, p listing.Params) (*model.Page[model.Profile], error)
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, followerID, followeeID int64) (bool, error)
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	// CheckFollows reports which of followeeIDs followerID follows.
	CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
	// CheckFollowers reports which of followerIDs follow followeeID.
	CheckFollowers(ctx context.Context, followeeID int64, followerIDs []int64) (map[int64]bool, error)
}

type FavouriteRepository interface {
	Create(ctx context.Context, profileID, postID int64) (bool, error)
	Delete(ctx context.Context, profileID, postID int64) (bool, error)
	Exists(ctx context.Context, profileID, postID int64) (bool, error)
	CheckFavourites(ctx context.Context, profileID int64, postIDs []int64) (map[int64]bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, post *model.Post) error
	Update(ctx context.Context, tx *sqlx.Tx, post *model.Post) error
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SetTags(ctx context.Context, tx *sqlx.Tx, postID int64, tagIDs []int64) error
	SetThumbnail(ctx context.Context, id int64, url, key *string) error
	List(ctx context.Context, scope model.PostListScope, p listing.Params) (*model.Page[model.Post], error)
}

type TagRepository interface {
	// FindOrCreate matches name case-insensitively against tag or slug and
	// inserts a new tag when nothing matches.
	FindOrCreate(ctx context.Context, tx *sqlx.Tx, name, slug, color string) (*model.Tag, error)
	List(ctx context.Context, p listing.Params) (*model.Page[model.Tag], error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	UpdateBody(ctx context.Context, id int64, body string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, scope model.CommentListScope, p listing.Params) (*model.Page[model.Comment], error)
}

// TokenBlacklist records revoked tokens by jti until they expire.
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// TokenBlacklistStore is the Postgres blacklist, which also needs pruning.
type TokenBlacklistStore interface {
	TokenBlacklist
	DeleteExpired(ctx context.Context) (int64, error)
}
