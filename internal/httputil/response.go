package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"blogosphere/internal/model"
)

// Error codes returned in the "code" field of a detail response.
const (
	CodeNotAuthenticated     = "not_authenticated"
	CodeAuthenticationFailed = "authentication_failed"
	CodeTokenNotValid        = "token_not_valid"
	CodeNoActiveAccount      = "no_active_account"
	CodePermissionDenied     = "permission_denied"
	CodeNotFound             = "not_found"
	CodeParseError           = "parse_error"
	CodeUnsupportedMedia     = "unsupported_media_type"
	CodeError                = "error"
)

// DetailResponse is the body of every non-validation error.
type DetailResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent.
			log.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// WriteDetail writes {"detail": ..., "code": ...}.
func WriteDetail(w http.ResponseWriter, status int, detail, code string) {
	WriteJSON(w, status, DetailResponse{Detail: detail, Code: code})
}

// WriteValidation writes a 400 with a field -> messages mapping.
func WriteValidation(w http.ResponseWriter, verr model.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, verr)
}

func WriteNotAuthenticated(w http.ResponseWriter) {
	WriteDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", CodeNotAuthenticated)
}

func WriteForbidden(w http.ResponseWriter) {
	WriteDetail(w, http.StatusForbidden, "You do not have permission to perform this action.", CodePermissionDenied)
}

func WriteNotFound(w http.ResponseWriter) {
	WriteDetail(w, http.StatusNotFound, "Not found.", CodeNotFound)
}

func WriteInternalError(w http.ResponseWriter) {
	WriteDetail(w, http.StatusInternalServerError, "A server error occurred.", CodeError)
}

// WriteNoContent writes an empty 204.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
