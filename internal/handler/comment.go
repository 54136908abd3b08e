package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogosphere/internal/httputil"
	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	baseURL        string
}

func NewCommentHandler(commentService *service.CommentService, baseURL string) *CommentHandler {
	return &CommentHandler{commentService: commentService, baseURL: baseURL}
}

// List handles GET /comments/
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	viewer := viewerOf(r)
	page, err := h.commentService.List(r.Context(), viewer, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, h.baseURL, page, func(items []model.Comment) ([]presenter.Comment, error) {
		return presenter.RenderCommentList(items, viewer, page.Relations)
	})
}

// Create handles POST /comments/
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	viewer := viewerOf(r)
	comment, rel, err := h.commentService.Create(r.Context(), viewer, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := presenter.RenderComment(comment, viewer, rel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, body)
}

// ListForPost handles GET /posts/{slug}/comments/
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	viewer := viewerOf(r)
	page, err := h.commentService.ListForPost(r.Context(), viewer, chi.URLParam(r, "slug"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, h.baseURL, page, func(items []model.Comment) ([]presenter.PostComment, error) {
		return presenter.RenderPostCommentList(items, viewer, page.Relations)
	})
}

// Get handles GET /posts/{slug}/comments/{id}/
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := commentIDParam(r)
	if !ok {
		httputil.WriteNotFound(w)
		return
	}

	viewer := viewerOf(r)
	comment, rel, err := h.commentService.GetForPost(r.Context(), viewer, chi.URLParam(r, "slug"), id)
	h.writePostComment(w, r, comment, viewer, rel, err)
}

// Update handles PATCH /posts/{slug}/comments/{id}/
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := commentIDParam(r)
	if !ok {
		httputil.WriteNotFound(w)
		return
	}

	var req model.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	viewer := viewerOf(r)
	comment, rel, err := h.commentService.Update(r.Context(), viewer, chi.URLParam(r, "slug"), id, &req)
	h.writePostComment(w, r, comment, viewer, rel, err)
}

// Delete handles DELETE /posts/{slug}/comments/{id}/
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := commentIDParam(r)
	if !ok {
		httputil.WriteNotFound(w)
		return
	}

	if err := h.commentService.Delete(r.Context(), viewerOf(r), chi.URLParam(r, "slug"), id); err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CommentHandler) writePostComment(w http.ResponseWriter, r *http.Request, comment *model.Comment, viewer model.Viewer, rel model.Relations, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := presenter.RenderPostComment(comment, viewer, rel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}
