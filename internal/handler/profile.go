package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogosphere/internal/httputil"
	"blogosphere/internal/listing"
	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	baseURL        string
}

func NewProfileHandler(profileService *service.ProfileService, baseURL string) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, baseURL: baseURL}
}

// List handles GET /profiles/
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, func(viewer model.Viewer, p listing.Params) (*model.Page[model.Profile], error) {
		return h.profileService.List(r.Context(), viewer, p)
	})
}

// Followers handles GET /profiles/{username}/followers/
func (h *ProfileHandler) Followers(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.listWith(w, r, func(viewer model.Viewer, p listing.Params) (*model.Page[model.Profile], error) {
		return h.profileService.Followers(r.Context(), viewer, username, p)
	})
}

// Followed handles GET /profiles/{username}/followed/
func (h *ProfileHandler) Followed(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.listWith(w, r, func(viewer model.Viewer, p listing.Params) (*model.Page[model.Profile], error) {
		return h.profileService.Followed(r.Context(), viewer, username, p)
	})
}

func (h *ProfileHandler) listWith(w http.ResponseWriter, r *http.Request, fetch func(model.Viewer, listing.Params) (*model.Page[model.Profile], error)) {
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	viewer := viewerOf(r)
	page, err := fetch(viewer, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, h.baseURL, page, func(items []model.Profile) ([]presenter.ProfileListItem, error) {
		return presenter.RenderProfileList(items, viewer, page.Relations)
	})
}

// Get handles GET /profiles/{username}/
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	profile, rel, err := h.profileService.Get(r.Context(), viewer, chi.URLParam(r, "username"))
	h.writeProfile(w, r, http.StatusOK, profile, viewer, rel, err)
}

// Follow handles POST /profiles/{username}/follow/
func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	profile, rel, err := h.profileService.Follow(r.Context(), viewer, chi.URLParam(r, "username"))
	h.writeProfile(w, r, http.StatusOK, profile, viewer, rel, err)
}

// Unfollow handles DELETE /profiles/{username}/follow/
func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	profile, rel, err := h.profileService.Unfollow(r.Context(), viewer, chi.URLParam(r, "username"))
	h.writeProfile(w, r, http.StatusOK, profile, viewer, rel, err)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, status int, profile *model.Profile, viewer model.Viewer, rel model.Relations, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := presenter.RenderProfileDetail(profile, viewer, rel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, status, body)
}
