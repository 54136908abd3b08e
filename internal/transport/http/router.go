package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"blogosphere/internal/handler"
	"blogosphere/internal/httputil"
	authmw "blogosphere/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	TagHandler     *handler.TagHandler

	Authenticator  authmw.Authenticator
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(authmw.RequestLogger(cfg.Logger))
	r.Use(authmw.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.Authenticate(cfg.Authenticator))
		requireAuth := r.With(authmw.RequireAuth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register/", cfg.AuthHandler.Register)
			r.Post("/token/", cfg.AuthHandler.Login)
			r.Post("/token/refresh/", cfg.AuthHandler.Refresh)
			r.Post("/token/verify/", cfg.AuthHandler.Verify)
			r.Post("/logout/", cfg.AuthHandler.Logout)
		})

		requireAuth.Get("/users/me/", cfg.UserHandler.Me)
		requireAuth.Patch("/users/me/", cfg.UserHandler.UpdateMe)

		r.Route("/posts", func(r chi.Router) {
			requireAuth := r.With(authmw.RequireAuth)

			r.Get("/", cfg.PostHandler.List)
			requireAuth.Post("/", cfg.PostHandler.Create)
			requireAuth.Get("/feed/", cfg.PostHandler.Feed)
			requireAuth.Get("/favourites/", cfg.PostHandler.Favourites)

			r.Route("/{slug}", func(r chi.Router) {
				requireAuth := r.With(authmw.RequireAuth)

				r.Get("/", cfg.PostHandler.Get)
				requireAuth.Patch("/", cfg.PostHandler.Update)
				requireAuth.Delete("/", cfg.PostHandler.Delete)

				requireAuth.Post("/favourite/", cfg.PostHandler.Favourite)
				requireAuth.Delete("/favourite/", cfg.PostHandler.Unfavourite)

				requireAuth.Put("/thumbnail/", cfg.PostHandler.SetThumbnail)
				requireAuth.Delete("/thumbnail/", cfg.PostHandler.RemoveThumbnail)

				r.Get("/comments/", cfg.CommentHandler.ListForPost)
				r.Get("/comments/{id}/", cfg.CommentHandler.Get)
				requireAuth.Patch("/comments/{id}/", cfg.CommentHandler.Update)
				requireAuth.Delete("/comments/{id}/", cfg.CommentHandler.Delete)
			})
		})

		requireAuth.Get("/comments/", cfg.CommentHandler.List)
		requireAuth.Post("/comments/", cfg.CommentHandler.Create)

		r.Get("/tags/", cfg.TagHandler.List)

		r.Route("/profiles", func(r chi.Router) {
			requireAuth := r.With(authmw.RequireAuth)

			r.Get("/", cfg.ProfileHandler.List)
			r.Get("/{username}/", cfg.ProfileHandler.Get)
			requireAuth.Post("/{username}/follow/", cfg.ProfileHandler.Follow)
			requireAuth.Delete("/{username}/follow/", cfg.ProfileHandler.Unfollow)
			r.Get("/{username}/followed/", cfg.ProfileHandler.Followed)
			r.Get("/{username}/followers/", cfg.ProfileHandler.Followers)
			r.Get("/{username}/favourites/", cfg.PostHandler.ProfileFavourites)
		})
	})

	return r
}
