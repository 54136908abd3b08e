// Package seed fills the database with fabricated users, posts and edges for
// local development. Everything it creates is flagged so it can be cleared.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"blogosphere/internal/database"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
	"blogosphere/internal/service"
)

const (
	TestUserEmail    = "test@example.com"
	TestUserUsername = "test"
	TestUserPassword = "test"

	commentsPerPost = 3
	maxTagsPerPost  = 3
)

// Summary counts what one Fabricate run created.
type Summary struct {
	Users      int
	Posts      int
	Comments   int
	Follows    int
	Favourites int
}

type Fabricator struct {
	db         *sqlx.DB
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	posts      repository.PostRepository
	tags       repository.TagRepository
	comments   repository.CommentRepository
	follows    repository.FollowRepository
	favourites repository.FavouriteRepository
	faker      *gofakeit.Faker
	log        zerolog.Logger
}

// NewFabricator builds a fabricator. seed 0 picks a random seed.
func NewFabricator(db *sqlx.DB, seed int64) *Fabricator {
	return &Fabricator{
		db:         db,
		users:      repository.NewUserRepository(db),
		profiles:   repository.NewProfileRepository(db),
		posts:      repository.NewPostRepository(db),
		tags:       repository.NewTagRepository(db),
		comments:   repository.NewCommentRepository(db),
		follows:    repository.NewFollowRepository(db),
		favourites: repository.NewFavouriteRepository(db),
		faker:      gofakeit.New(seed),
		log:        logger.Component("seed"),
	}
}

// Fabricate ensures the test user exists and then creates n users with one
// post each, plus comments, follows and favourites between them.
func (f *Fabricator) Fabricate(ctx context.Context, n int) (*Summary, error) {
	summary := &Summary{}

	testUser, created, err := f.ensureTestUser(ctx)
	if err != nil {
		return nil, err
	}
	if created {
		summary.Users++
	}

	profileIDs := []int64{testUser.ProfileID}
	postIDs := make([]int64, 0, n)

	for i := 0; i < n; i++ {
		user, err := f.createUser(ctx, fakeUsername(f.faker), "", f.faker.Password(true, true, true, false, false, 16))
		if err != nil {
			return nil, err
		}
		summary.Users++
		profileIDs = append(profileIDs, user.ProfileID)

		post, err := f.createPost(ctx, user.ProfileID)
		if err != nil {
			return nil, err
		}
		summary.Posts++
		postIDs = append(postIDs, post.ID)
	}

	for _, postID := range postIDs {
		for j := 0; j < commentsPerPost; j++ {
			comment := &model.Comment{
				Body:     fakeCommentBody(f.faker),
				PostID:   postID,
				AuthorID: pick(f.faker, profileIDs),
			}
			if err := f.comments.Create(ctx, comment); err != nil {
				return nil, err
			}
			summary.Comments++
		}
	}

	for _, follower := range profileIDs {
		followee := pick(f.faker, profileIDs)
		if followee == follower {
			continue
		}
		added, err := f.follows.Create(ctx, follower, followee)
		if err != nil {
			return nil, err
		}
		if added {
			summary.Follows++
		}

		if len(postIDs) == 0 {
			continue
		}
		added, err = f.favourites.Create(ctx, follower, pick(f.faker, postIDs))
		if err != nil {
			return nil, err
		}
		if added {
			summary.Favourites++
		}
	}

	f.log.Info().
		Int("users", summary.Users).
		Int("posts", summary.Posts).
		Int("comments", summary.Comments).
		Int("follows", summary.Follows).
		Int("favourites", summary.Favourites).
		Msg("fabricated fixtures")
	return summary, nil
}

// Clear removes every fabricated user and, by cascade, their content.
func (f *Fabricator) Clear(ctx context.Context) (int64, error) {
	n, err := f.users.DeleteFabricated(ctx)
	if err != nil {
		return 0, err
	}
	f.log.Info().Int64("users", n).Msg("cleared fabricated fixtures")
	return n, nil
}

func (f *Fabricator) ensureTestUser(ctx context.Context) (*model.User, bool, error) {
	user, err := f.users.GetByEmail(ctx, TestUserEmail)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, false, err
	}

	user, err = f.createUser(ctx, TestUserUsername, TestUserEmail, TestUserPassword)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (f *Fabricator) createUser(ctx context.Context, username, email, password string) (*model.User, error) {
	if email == "" {
		email = username + "@example.com"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsFabricated: true,
	}
	err = database.WithTx(ctx, f.db, func(tx *sqlx.Tx) error {
		if err := f.users.Create(ctx, tx, user); err != nil {
			return err
		}
		profile, err := f.profiles.Create(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		user.ProfileID = profile.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fabricate user %s: %w", username, err)
	}

	bio := f.faker.Sentence(12)
	image := f.faker.ImageURL(256, 256)
	if err := f.profiles.Update(ctx, user.ProfileID, &bio, &image); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *Fabricator) createPost(ctx context.Context, authorID int64) (*model.Post, error) {
	title := strings.TrimSuffix(f.faker.Sentence(5), ".")
	post := &model.Post{
		Slug:        service.Slugify(title + "-" + strings.ToLower(f.faker.LetterN(model.SlugSuffixLength))),
		Title:       title,
		Description: f.faker.Sentence(14),
		Body:        f.faker.Paragraph(3, 5, 12, "\n\n"),
		IsPublished: f.faker.Number(0, 9) > 0,
		AuthorID:    authorID,
	}

	names := fakeTags(f.faker, f.faker.Number(1, maxTagsPerPost))
	err := database.WithTx(ctx, f.db, func(tx *sqlx.Tx) error {
		if err := f.posts.Create(ctx, tx, post); err != nil {
			return err
		}
		ids := make([]int64, 0, len(names))
		for _, name := range names {
			tag, err := f.tags.FindOrCreate(ctx, tx, name, name, f.faker.HexColor())
			if err != nil {
				return err
			}
			ids = append(ids, tag.ID)
		}
		return f.posts.SetTags(ctx, tx, post.ID, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fabricate post: %w", err)
	}
	return post, nil
}

// fakeUsername returns a lowercase username that passes sign-up validation.
func fakeUsername(f *gofakeit.Faker) string {
	name := strings.ToLower(service.Slugify(f.Username()))
	name = strings.ReplaceAll(name, "-", "_")
	name = fmt.Sprintf("%s%04d", name, f.Number(0, 9999))
	if len(name) > model.MaxUsernameLength {
		name = name[len(name)-model.MaxUsernameLength:]
	}
	for len(name) < model.MinUsernameLength {
		name += "x"
	}
	return name
}

func fakeTags(f *gofakeit.Faker, n int) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		word := strings.ToLower(f.Word())
		if _, ok := seen[word]; ok || word == "" {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

func fakeCommentBody(f *gofakeit.Faker) string {
	body := f.Sentence(f.Number(4, 20))
	if len(body) > model.MaxCommentLength {
		body = body[:model.MaxCommentLength]
	}
	return body
}

func pick(f *gofakeit.Faker, ids []int64) int64 {
	return ids[f.Number(0, len(ids)-1)]
}
