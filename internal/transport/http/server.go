package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"blogosphere/internal/config"
	"blogosphere/internal/database"
	"blogosphere/internal/handler"
	"blogosphere/internal/logger"
	"blogosphere/internal/model"
	"blogosphere/internal/redis"
	"blogosphere/internal/repository"
	"blogosphere/internal/service"
	"blogosphere/internal/worker"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenFlushInterval = time.Hour
)

// Run loads configuration, wires every dependency and serves HTTP until the
// process receives SIGINT or SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	router, cleanup, err := Build(ctx, cfg, db)
	defer cleanup()
	if err != nil {
		return err
	}

	// 3. Serve
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Build wires repositories, services and handlers onto a router. The
// returned cleanup releases connections opened here.
func Build(ctx context.Context, cfg *config.Config, db *sqlx.DB) (stdhttp.Handler, func(), error) {
	cleanup := func() {}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	pgBlacklist := repository.NewTokenBlacklistRepository(db)
	var blacklist repository.TokenBlacklist = pgBlacklist
	if cfg.RedisURL == "" {
		workers := worker.NewManager(worker.ManagerConfig{},
			worker.FlushExpiredTokensJob(pgBlacklist, tokenFlushInterval))
		workers.Start(ctx)
		cleanup = workers.Stop
	} else {
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, cleanup, err
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, cleanup, err
		}
		cleanup = func() { client.Close() }
		blacklist = redis.NewTokenBlacklist(client.Client)
		log.Info().Msg("using redis token blacklist")
	}

	var thumbnails service.ThumbnailStore
	media, err := service.NewMediaService(ctx, cfg)
	switch {
	case err == nil:
		thumbnails = media
	case errors.Is(err, model.ErrMediaStorageDisabled):
		log.Warn().Msg("object storage not configured, thumbnail uploads disabled")
	default:
		return nil, cleanup, err
	}

	authService := service.NewAuthService(userRepo, blacklist, cfg)
	userService := service.NewUserService(db, userRepo, profileRepo)
	profileService := service.NewProfileService(profileRepo, followRepo, favouriteRepo)
	postService := service.NewPostService(db, postRepo, tagRepo, profileRepo, followRepo, favouriteRepo, thumbnails)
	commentService := service.NewCommentService(commentRepo, postRepo, followRepo)
	tagService := service.NewTagService(tagRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, cfg),
		UserHandler:    handler.NewUserHandler(userService),
		ProfileHandler: handler.NewProfileHandler(profileService, cfg.PublicBaseURL),
		PostHandler:    handler.NewPostHandler(postService, cfg.PublicBaseURL),
		CommentHandler: handler.NewCommentHandler(commentService, cfg.PublicBaseURL),
		TagHandler:     handler.NewTagHandler(tagService, cfg.PublicBaseURL),
		Authenticator:  authService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log.Logger,
	})
	return router, cleanup, nil
}
