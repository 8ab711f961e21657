package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"housepoints/internal/domain"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Code       int      `json:"code"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var denied *domain.AuthorizationError
	var validation *domain.ValidationError
	var invalidState *domain.InvalidStateError
	var duplicate *domain.DuplicateEntryError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &denied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &invalidState):
		return http.StatusConflict
	case errors.As(err, &duplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a domain error as a JSON error response. Validation
// errors additionally carry the per-field violation list.
func writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	resp := errorResponse{Code: code, Message: err.Error()}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Violations = validation.Violations
	}
	if code == http.StatusInternalServerError {
		// Do not leak internals to clients.
		resp.Message = "internal server error"
	}

	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
