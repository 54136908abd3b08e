package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"blogosphere/internal/httputil"
	"blogosphere/internal/metrics"
	"blogosphere/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	viewerKey  contextKey = "viewer"
	authErrKey contextKey = "auth_error"
)

// Authenticator resolves an access token to its user.
type Authenticator interface {
	AuthenticateAccess(ctx context.Context, raw string) (*model.User, error)
}

// Authenticate resolves the caller for every request. A missing or bad token
// leaves the request anonymous; RequireAuth decides whether that is fatal.
// A present access cookie wins over the Authorization header.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := model.AnonymousViewer()
			ctx := r.Context()

			if raw := tokenFromRequest(r); raw != "" {
				user, err := auth.AuthenticateAccess(ctx, raw)
				switch {
				case err == nil:
					viewer = model.NewViewer(user.ID, user.ProfileID)
				case errors.Is(err, model.ErrTokenInvalid),
					errors.Is(err, model.ErrTokenWrongType),
					errors.Is(err, model.ErrInactiveUser):
					metrics.AuthFailuresTotal.WithLabelValues("access_token").Inc()
					ctx = context.WithValue(ctx, authErrKey, err)
				default:
					log.Ctx(ctx).Error().Err(err).Msg("failed to authenticate request")
					httputil.WriteInternalError(w)
					return
				}
			}

			ctx = context.WithValue(ctx, viewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(model.AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromContext(r.Context()).IsAnonymous() {
			next.ServeHTTP(w, r)
			return
		}

		if err, ok := r.Context().Value(authErrKey).(error); ok {
			if errors.Is(err, model.ErrInactiveUser) {
				httputil.WriteDetail(w, http.StatusUnauthorized, "User is inactive", httputil.CodeAuthenticationFailed)
				return
			}
			httputil.WriteDetail(w, http.StatusUnauthorized, "Given token not valid for any token type", httputil.CodeTokenNotValid)
			return
		}
		httputil.WriteNotAuthenticated(w)
	})
}

// ViewerFromContext returns the viewer set by Authenticate. Without the
// middleware the zero, unset viewer is returned.
func ViewerFromContext(ctx context.Context) model.Viewer {
	viewer, _ := ctx.Value(viewerKey).(model.Viewer)
	return viewer
}

// WithViewer stores a viewer in ctx.
func WithViewer(ctx context.Context, viewer model.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}
