package handler

import (
	"net/http"

	"blogosphere/internal/config"
	"blogosphere/internal/httputil"
	"blogosphere/internal/metrics"
	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
	}
}

// Register handles POST /auth/register/
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, presenter.RenderRegisteredUser(user))
}

// Login handles POST /auth/token/
// Besides the JSON pair, the access token is set as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if _, isValidation := model.AsValidationError(err); !isValidation {
			metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		}
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     model.AccessCookieName,
		Value:    pair.Access,
		Path:     "/",
		MaxAge:   h.config.AccessTokenMaxAge,
		HttpOnly: true,
		Secure:   !h.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /auth/token/refresh/
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Refresh == "" {
		httputil.WriteValidation(w, model.NewValidationError("refresh", "This field is required."))
		return
	}

	access, err := h.authService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, access)
}

// Verify handles POST /auth/token/verify/
// Either "token" or "refresh" may carry the token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	raw := req.Token
	if raw == "" {
		raw = req.Refresh
	}
	if raw == "" {
		httputil.WriteValidation(w, model.NewValidationError("token", "This field is required."))
		return
	}

	if err := h.authService.Verify(r.Context(), raw); err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct{}{})
}

// Logout handles POST /auth/logout/
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Refresh == "" {
		httputil.WriteValidation(w, model.NewValidationError("refresh", "This field is required."))
		return
	}

	if err := h.authService.Logout(r.Context(), req.Refresh); err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     model.AccessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httputil.WriteJSON(w, http.StatusOK, struct{}{})
}
