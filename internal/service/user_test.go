package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blogosphere/internal/model"
)

func validRegisterRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Username:  "writer2025",
		Email:     "jane@example.com",
		Password1: "correct-horse-battery",
		Password2: "correct-horse-battery",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	// ARRANGE
	db, mock := newTxDB(t, 1)
	users := &mockUserRepository{}
	profiles := &mockProfileRepository{}
	svc := NewUserService(db, users, profiles)

	// ACT
	user, err := svc.Register(context.Background(), validRegisterRequest())

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "writer2025", user.Username)
	assert.Equal(t, int64(10), user.ProfileID)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")))

	require.Len(t, users.createCalls, 1)
	assert.Equal(t, []int64{user.ID}, profiles.createCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_TrimsInput(t *testing.T) {
	db, _ := newTxDB(t, 1)
	svc := NewUserService(db, &mockUserRepository{}, &mockProfileRepository{})

	req := validRegisterRequest()
	req.Username = "  writer2025 "
	req.Email = " jane@example.com  "

	user, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "writer2025", user.Username)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestUserService_Register_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.RegisterRequest)
		users   *mockUserRepository
		wantErr model.ValidationError
	}{
		{
			name:    "username too short",
			mutate:  func(r *model.RegisterRequest) { r.Username = "abc" },
			users:   &mockUserRepository{},
			wantErr: model.ValidationError{"username": {"Ensure this field has at least 6 characters."}},
		},
		{
			name:    "invalid email",
			mutate:  func(r *model.RegisterRequest) { r.Email = "not-an-email" },
			users:   &mockUserRepository{},
			wantErr: model.ValidationError{"email": {"Enter a valid email address."}},
		},
		{
			name:   "username and email taken",
			mutate: func(r *model.RegisterRequest) {},
			users: &mockUserRepository{
				existsByUsernameFn: func(ctx context.Context, username string) (bool, error) { return true, nil },
				existsByEmailFn:    func(ctx context.Context, email string) (bool, error) { return true, nil },
			},
			wantErr: model.ValidationError{
				"username": {"Username is already taken."},
				"email":    {"Email is already taken."},
			},
		},
		{
			name:    "passwords differ",
			mutate:  func(r *model.RegisterRequest) { r.Password2 = "something-else-entirely" },
			users:   &mockUserRepository{},
			wantErr: model.ValidationError{"password": {"Password fields do not match."}},
		},
		{
			name: "weak password",
			mutate: func(r *model.RegisterRequest) {
				r.Password1 = "12345678"
				r.Password2 = "12345678"
			},
			users: &mockUserRepository{},
			wantErr: model.ValidationError{"password": {
				"This password is too common.",
				"This password is entirely numeric.",
			}},
		},
		{
			name: "password similar to username",
			mutate: func(r *model.RegisterRequest) {
				r.Password1 = "writer20255"
				r.Password2 = "writer20255"
			},
			users:   &mockUserRepository{},
			wantErr: model.ValidationError{"password": {"The password is too similar to the username."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newTxDB(t, 0)
			profiles := &mockProfileRepository{}
			svc := NewUserService(db, tt.users, profiles)

			req := validRegisterRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)

			verr, ok := model.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.wantErr, verr)
			assert.Empty(t, tt.users.createCalls)
			assert.Empty(t, profiles.createCalls)
		})
	}
}

func TestUserService_Register_ProfileFailureRollsBack(t *testing.T) {
	// ARRANGE
	db, mock := newTxDB(t, 0)
	mock.ExpectBegin()
	mock.ExpectRollback()

	profiles := &mockProfileRepository{
		createFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return nil, errors.New("disk full")
		},
	}
	svc := NewUserService(db, &mockUserRepository{}, profiles)

	// ACT
	user, err := svc.Register(context.Background(), validRegisterRequest())

	// ASSERT
	assert.Nil(t, user)
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_RaceOnUniqueUsername(t *testing.T) {
	db, mock := newTxDB(t, 0)
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error { return model.ErrUsernameExists },
	}
	svc := NewUserService(db, users, &mockProfileRepository{})

	_, err := svc.Register(context.Background(), validRegisterRequest())

	verr, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Username is already taken."}, verr["username"])
}

func TestUserService_UpdateMe(t *testing.T) {
	// ARRANGE
	db, _ := newTxDB(t, 0)
	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "writer2025", Bio: "hello"}, nil
		},
	}
	profiles := &mockProfileRepository{}
	svc := NewUserService(db, users, profiles)
	viewer := model.NewViewer(1, 10)

	// ACT
	user, err := svc.UpdateMe(context.Background(), viewer, &model.UpdateMeRequest{Bio: strPtr("hello")})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "hello", user.Bio)
	require.Len(t, profiles.updateCalls, 1)
	assert.Equal(t, int64(10), profiles.updateCalls[0].ID)
	assert.Nil(t, profiles.updateCalls[0].Image)
}

func TestUserService_UpdateMe_InvalidImage(t *testing.T) {
	db, _ := newTxDB(t, 0)
	profiles := &mockProfileRepository{}
	svc := NewUserService(db, &mockUserRepository{}, profiles)

	_, err := svc.UpdateMe(context.Background(), model.NewViewer(1, 10), &model.UpdateMeRequest{Image: strPtr("not a url")})

	verr, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Enter a valid URL."}, verr["image"])
	assert.Empty(t, profiles.updateCalls)
}

func TestUserService_UpdateMe_EmptyImageClears(t *testing.T) {
	for _, image := range []string{"", " "} {
		t.Run("image="+strconv.Quote(image), func(t *testing.T) {
			db, _ := newTxDB(t, 0)
			users := &mockUserRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.User, error) { return &model.User{ID: id}, nil },
			}
			profiles := &mockProfileRepository{}
			svc := NewUserService(db, users, profiles)

			_, err := svc.UpdateMe(context.Background(), model.NewViewer(1, 10), &model.UpdateMeRequest{Image: strPtr(image)})

			require.NoError(t, err)
			require.Len(t, profiles.updateCalls, 1)
			require.NotNil(t, profiles.updateCalls[0].Image)
			assert.Equal(t, "", *profiles.updateCalls[0].Image)
		})
	}
}
