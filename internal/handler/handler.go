package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"blogosphere/internal/httputil"
	"blogosphere/internal/listing"
	"blogosphere/internal/model"
	"blogosphere/internal/transport/http/middleware"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. It writes a 400 parse_error
// and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httputil.WriteDetail(w, http.StatusBadRequest, fmt.Sprintf("JSON parse error - %v", err), httputil.CodeParseError)
	return false
}

func viewerOf(r *http.Request) model.Viewer {
	return middleware.ViewerFromContext(r.Context())
}

func listParams(r *http.Request) (listing.Params, error) {
	return listing.ParseParams(r.URL.Query())
}

func commentIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// writeError maps service errors onto responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := model.AsValidationError(err); ok {
		httputil.WriteValidation(w, verr)
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidPage):
		httputil.WriteDetail(w, http.StatusNotFound, "Invalid page.", httputil.CodeNotFound)
	case errors.Is(err, model.ErrPostNotFound),
		errors.Is(err, model.ErrProfileNotFound),
		errors.Is(err, model.ErrCommentNotFound),
		errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w)
	case errors.Is(err, model.ErrNotPostOwner),
		errors.Is(err, model.ErrNotCommentOwner):
		httputil.WriteForbidden(w)
	case errors.Is(err, model.ErrCannotFollowSelf):
		httputil.WriteValidation(w, model.NewValidationError("followee", model.FollowSelfMessage))
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrInactiveUser):
		httputil.WriteDetail(w, http.StatusUnauthorized, "No active account found with the given credentials", httputil.CodeNoActiveAccount)
	case errors.Is(err, model.ErrTokenBlacklisted):
		httputil.WriteDetail(w, http.StatusUnauthorized, "Token is blacklisted", httputil.CodeTokenNotValid)
	case errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenWrongType):
		httputil.WriteDetail(w, http.StatusUnauthorized, "Token is invalid or expired", httputil.CodeTokenNotValid)
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteValidation(w, model.NewValidationError("thumbnail", "The submitted file exceeds the 5MB limit."))
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteValidation(w, model.NewValidationError("thumbnail",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image."))
	case errors.Is(err, model.ErrMediaStorageDisabled):
		httputil.WriteDetail(w, http.StatusServiceUnavailable, "Image uploads are not available.", httputil.CodeError)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		httputil.WriteInternalError(w)
	}
}

// writePage renders a page into the paginated envelope.
func writePage[T, R any](w http.ResponseWriter, r *http.Request, baseURL string, page *model.Page[T], render func([]T) ([]R, error)) {
	results, err := render(page.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(r, baseURL, results, page.Count, page.Page, page.PageSize))
}
