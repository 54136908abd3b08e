package handler

import (
	"net/http"

	"blogosphere/internal/model"
	"blogosphere/internal/presenter"
	"blogosphere/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
	baseURL    string
}

func NewTagHandler(tagService *service.TagService, baseURL string) *TagHandler {
	return &TagHandler{tagService: tagService, baseURL: baseURL}
}

// List handles GET /tags/
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.tagService.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, h.baseURL, page, func(items []model.Tag) ([]model.Tag, error) {
		return presenter.RenderTags(items), nil
	})
}
