package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"blogosphere/internal/database"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

const (
	msgUsernameTaken    = "Username is already taken."
	msgEmailTaken       = "Email is already taken."
	msgPasswordMismatch = "Password fields do not match."
)

// UserService handles registration and the current user's account.
type UserService struct {
	db       *sqlx.DB
	users    repository.UserRepository
	profiles repository.ProfileRepository
	log      zerolog.Logger
}

func NewUserService(db *sqlx.DB, users repository.UserRepository, profiles repository.ProfileRepository) *UserService {
	return &UserService{
		db:       db,
		users:    users,
		profiles: profiles,
		log:      logger.Component("user_service"),
	}
}

// Register validates the sign-up form and creates the user together with
// its profile in one transaction.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	verr := validateRequest(req)

	if _, bad := verr["username"]; !bad {
		exists, err := s.users.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			verr.Add("username", msgUsernameTaken)
		}
	}

	if _, bad := verr["email"]; !bad {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			verr.Add("email", msgEmailTaken)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if req.Password1 != req.Password2 {
		return nil, model.NewValidationError("password", msgPasswordMismatch)
	}

	if problems := validatePassword(req.Password1, req.Username, req.Email); len(problems) > 0 {
		return nil, model.NewValidationError("password", problems...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		profile, err := s.profiles.Create(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		user.ProfileID = profile.ID
		return nil
	})
	switch {
	case errors.Is(err, model.ErrUsernameExists):
		return nil, model.NewValidationError("username", msgUsernameTaken)
	case errors.Is(err, model.ErrEmailExists):
		return nil, model.NewValidationError("email", msgEmailTaken)
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Me loads the account behind the viewer.
func (s *UserService) Me(ctx context.Context, viewer model.Viewer) (*model.User, error) {
	return s.users.GetByID(ctx, viewer.UserID)
}

// UpdateMe applies a partial update to the viewer's profile fields.
func (s *UserService) UpdateMe(ctx context.Context, viewer model.Viewer, req *model.UpdateMeRequest) (*model.User, error) {
	if req.Image != nil {
		trimmed := strings.TrimSpace(*req.Image)
		req.Image = &trimmed
	}

	// An empty image clears it and is exempt from the URL rule.
	check := *req
	if check.Image != nil && *check.Image == "" {
		check.Image = nil
	}
	if verr := validateRequest(&check); verr.HasErrors() {
		return nil, verr
	}

	if req.Bio != nil || req.Image != nil {
		if err := s.profiles.Update(ctx, viewer.ProfileID, req.Bio, req.Image); err != nil {
			return nil, err
		}
	}
	return s.users.GetByID(ctx, viewer.UserID)
}
