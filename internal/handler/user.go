package handler

import (
	"net/http"

	"blogosphere/internal/httputil"
	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /users/me/
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Me(r.Context(), viewerOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, presenter.RenderCurrentUser(user))
}

// UpdateMe handles PATCH /users/me/
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateMe(r.Context(), viewerOf(r), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, presenter.RenderCurrentUser(user))
}
