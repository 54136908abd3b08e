package model

import (
	"errors"
	"time"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessCookieName is the cookie consulted when no Authorization header is sent.
const AccessCookieName = "access"

// TokenPair is returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessToken is returned by refresh. No new refresh token is issued.
type AccessToken struct {
	Access string `json:"access"`
}

// RefreshRequest is the body of refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// VerifyRequest accepts either field name.
type VerifyRequest struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
}

// TokenClaims are the validated contents of a token.
type TokenClaims struct {
	TokenType string
	UserID    int64
	Username  string
	Email     string
	JTI       string
	ExpiresAt time.Time
}

// BlacklistedToken is a revoked token kept until its own expiry.
type BlacklistedToken struct {
	JTI           string    `db:"jti"`
	UserID        int64     `db:"user_id"`
	ExpiresAt     time.Time `db:"expires_at"`
	BlacklistedAt time.Time `db:"blacklisted_at"`
}

var (
	ErrTokenInvalid     = errors.New("token is invalid or expired")
	ErrTokenWrongType   = errors.New("token has wrong type")
	ErrTokenBlacklisted = errors.New("token is blacklisted")
)
