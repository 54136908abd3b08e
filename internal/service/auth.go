package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"blogosphere/internal/config"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

// AuthService issues and validates stateless JWTs. Refresh never rotates the
// refresh token; logout blacklists it by jti.
type AuthService struct {
	users     repository.UserRepository
	blacklist repository.TokenBlacklist
	config    *config.Config
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(users repository.UserRepository, blacklist repository.TokenBlacklist, cfg *config.Config) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		config:    cfg,
		now:       time.Now,
		log:       logger.Component("auth_service"),
	}
}

type tokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Login checks credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenPair, error) {
	req.Email = strings.TrimSpace(req.Email)
	if verr := validateRequest(req); verr.HasErrors() {
		return nil, verr
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	}

	return s.IssueTokenPair(user)
}

func (s *AuthService) IssueTokenPair(user *model.User) (*model.TokenPair, error) {
	access, err := s.sign(model.TokenTypeAccess, user, s.config.AccessTokenMaxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.sign(model.TokenTypeRefresh, user, s.config.RefreshTokenMaxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*model.AccessToken, error) {
	claims, err := s.parse(raw, model.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.checkBlacklist(ctx, claims.JTI); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}

	access, err := s.sign(model.TokenTypeAccess, user, s.config.AccessTokenMaxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &model.AccessToken{Access: access}, nil
}

// Verify accepts any unexpired, unrevoked token of either type.
func (s *AuthService) Verify(ctx context.Context, raw string) error {
	claims, err := s.parse(raw, "")
	if err != nil {
		return err
	}
	return s.checkBlacklist(ctx, claims.JTI)
}

// Logout blacklists a refresh token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.parse(raw, model.TokenTypeRefresh)
	if err != nil {
		return err
	}
	if err := s.blacklist.Add(ctx, claims.JTI, claims.UserID, claims.ExpiresAt); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", claims.UserID).Msg("refresh token blacklisted")
	return nil
}

// AuthenticateAccess resolves an access token to an active user.
func (s *AuthService) AuthenticateAccess(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.parse(raw, model.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) sign(tokenType string, user *model.User, maxAge int) (string, error) {
	now := s.now()
	claims := tokenClaims{
		TokenType: tokenType,
		UserID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(maxAge) * time.Second)),
		},
	}
	if tokenType == model.TokenTypeAccess {
		claims.Username = user.Username
		claims.Email = user.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parse validates signature and expiry. wantType "" accepts either type.
func (s *AuthService) parse(raw, wantType string) (*model.TokenClaims, error) {
	if raw == "" {
		return nil, model.ErrTokenInvalid
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, model.ErrTokenInvalid
	}

	if claims.TokenType != model.TokenTypeAccess && claims.TokenType != model.TokenTypeRefresh {
		return nil, model.ErrTokenInvalid
	}
	if wantType != "" && claims.TokenType != wantType {
		return nil, model.ErrTokenWrongType
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, model.ErrTokenInvalid
	}

	return &model.TokenClaims{
		TokenType: claims.TokenType,
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) checkBlacklist(ctx context.Context, jti string) error {
	listed, err := s.blacklist.Contains(ctx, jti)
	if err != nil {
		return err
	}
	if listed {
		return model.ErrTokenBlacklisted
	}
	return nil
}
