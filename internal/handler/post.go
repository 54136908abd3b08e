package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogosphere/internal/httputil"
	"blogosphere/internal/listing"
	"blogosphere/internal/metrics"
	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

type PostHandler struct {
	postService *service.PostService
	baseURL     string
}

func NewPostHandler(postService *service.PostService, baseURL string) *PostHandler {
	return &PostHandler{postService: postService, baseURL: baseURL}
}

// List handles GET /posts/
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	h.listScope(w, r, model.PostScopeAll)
}

// Feed handles GET /posts/feed/
// Posts written by the profiles the viewer follows.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.listScope(w, r, model.PostScopeFeed)
}

// Favourites handles GET /posts/favourites/
func (h *PostHandler) Favourites(w http.ResponseWriter, r *http.Request) {
	h.listScope(w, r, model.PostScopeFavourites)
}

// ProfileFavourites handles GET /profiles/{username}/favourites/
func (h *PostHandler) ProfileFavourites(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.listWith(w, r, func(viewer model.Viewer, p listing.Params) (*model.Page[model.Post], error) {
		return h.postService.ListFavouritesOf(r.Context(), viewer, username, p)
	})
}

func (h *PostHandler) listScope(w http.ResponseWriter, r *http.Request, scope model.PostScope) {
	h.listWith(w, r, func(viewer model.Viewer, p listing.Params) (*model.Page[model.Post], error) {
		return h.postService.List(r.Context(), viewer, scope, p)
	})
}

func (h *PostHandler) listWith(w http.ResponseWriter, r *http.Request, fetch func(model.Viewer, listing.Params) (*model.Page[model.Post], error)) {
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

	writePage(w, r, h.baseURL, page, func(items []model.Post) ([]presenter.PostListItem, error) {
		return presenter.RenderPostList(items, viewer, page.Relations)
	})
}

// Create handles POST /posts/
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	viewer := viewerOf(r)
	post, rel, err := h.postService.Create(r.Context(), viewer, &req)
	h.writePost(w, r, http.StatusCreated, post, viewer, rel, err)
}

// Get handles GET /posts/{slug}/
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	post, rel, err := h.postService.Get(r.Context(), viewer, chi.URLParam(r, "slug"))
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

// Update handles PATCH /posts/{slug}/
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	viewer := viewerOf(r)
	post, rel, err := h.postService.Update(r.Context(), viewer, chi.URLParam(r, "slug"), &req)
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

// Delete handles DELETE /posts/{slug}/
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Delete(r.Context(), viewerOf(r), chi.URLParam(r, "slug")); err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Favourite handles POST /posts/{slug}/favourite/
func (h *PostHandler) Favourite(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	post, rel, err := h.postService.Favourite(r.Context(), viewer, chi.URLParam(r, "slug"))
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

// Unfavourite handles DELETE /posts/{slug}/favourite/
func (h *PostHandler) Unfavourite(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	post, rel, err := h.postService.Unfavourite(r.Context(), viewer, chi.URLParam(r, "slug"))
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

// SetThumbnail handles PUT /posts/{slug}/thumbnail/ with a multipart
// "thumbnail" file.
func (h *PostHandler) SetThumbnail(w http.ResponseWriter, r *http.Request) {
	maxFormSize := int64(model.MaxThumbnailSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteDetail(w, http.StatusUnsupportedMediaType,
				"Unsupported media type in request.", httputil.CodeUnsupportedMedia)
		case errors.As(err, &tooLarge):
			writeError(w, r, model.ErrFileTooLarge)
		default:
			httputil.WriteDetail(w, http.StatusBadRequest, "Multipart form parse error.", httputil.CodeParseError)
		}
		return
	}

	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		httputil.WriteValidation(w, model.NewValidationError("thumbnail", "No file was submitted."))
		return
	}
	defer file.Close()

	viewer := viewerOf(r)
	post, rel, err := h.postService.SetThumbnail(r.Context(), viewer, chi.URLParam(r, "slug"), file, header)
	if err != nil {
		metrics.ThumbnailUploadsTotal.WithLabelValues("failed").Inc()
	} else {
		metrics.ThumbnailUploadsTotal.WithLabelValues("stored").Inc()
	}
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

// RemoveThumbnail handles DELETE /posts/{slug}/thumbnail/
func (h *PostHandler) RemoveThumbnail(w http.ResponseWriter, r *http.Request) {
	viewer := viewerOf(r)
	post, rel, err := h.postService.RemoveThumbnail(r.Context(), viewer, chi.URLParam(r, "slug"))
	h.writePost(w, r, http.StatusOK, post, viewer, rel, err)
}

func (h *PostHandler) writePost(w http.ResponseWriter, r *http.Request, status int, post *model.Post, viewer model.Viewer, rel model.Relations, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := presenter.RenderPostDetail(post, viewer, rel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, status, body)
}
