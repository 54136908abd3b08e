package model

import (
	"errors"
	"time"
)

// User is an account. Every user owns exactly one Profile.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"-"`
	IsStaff      bool       `db:"is_staff" json:"-"`
	IsSuperuser  bool       `db:"is_superuser" json:"-"`
	IsFabricated bool       `db:"is_fabricated" json:"-"`
	LastLogin    *time.Time `db:"last_login" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"-"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`

	// Joined from profiles.
	ProfileID int64   `db:"profile_id" json:"-"`
	Bio       string  `db:"bio" json:"-"`
	Image     *string `db:"image" json:"-"`
}

// RegisterRequest is the body of POST /auth/register/.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=6,max=30"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// LoginRequest is the body of POST /auth/token/.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateMeRequest is the body of PATCH /users/me/. Nil fields are left unchanged.
type UpdateMeRequest struct {
	Bio   *string `json:"bio" validate:"omitempty,max=5000"`
	Image *string `json:"image" validate:"omitempty,url,max=2048"`
}

// RegisteredUser is the representation returned after sign-up.
type RegisteredUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CurrentUser is the representation of /users/me/.
type CurrentUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      string  `json:"bio"`
	Image    *string `json:"image"`
}

const (
	MinUsernameLength = 6
	MaxUsernameLength = 30
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
)
