package model

import (
	"errors"
	"time"
)

// Profile is the public identity of a User and the subject of follow and
// favourite relations.
type Profile struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Bio       string    `db:"bio"`
	Image     *string   `db:"image"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Author is the slice of a Profile embedded in posts and comments.
type Author struct {
	ID       int64   `db:"id"`
	Username string  `db:"username"`
	Email    string  `db:"email"`
	Image    *string `db:"image"`
}

// Follow is a directed edge: Follower follows Followee.
type Follow struct {
	FollowerID int64     `db:"follower_id"`
	FolloweeID int64     `db:"followee_id"`
	CreatedAt  time.Time `db:"created_at"`
}

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

// FollowSelfMessage is returned to clients under the "followee" field.
const FollowSelfMessage = "You cannot follow/unfollow yourself!"

// ProfileListScope narrows a profile listing. At most one field is set.
type ProfileListScope struct {
	// FollowersOf lists profiles following this profile.
	FollowersOf int64
	// FollowedBy lists profiles this profile follows.
	FollowedBy int64
}
