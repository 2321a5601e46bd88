package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

// errorResponse is the error envelope of every failed REST call.
type errorResponse struct {
	Message string              `json:"message"`
	Data    []common.FieldError `json:"data,omitempty"`
	Status  int                 `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, data []common.FieldError) {
	writeJSON(w, status, errorResponse{Message: message, Data: data, Status: status})
}

// writeBadBody reports a body that could not be decoded. It shares the
// validation status so clients handle every rejected input one way.
func writeBadBody(w http.ResponseWriter) {
	writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", nil)
}

// writeServiceError maps service errors onto status codes. notFoundStatus and
// notFoundMessage describe the resource the endpoint serves. Anything
// unrecognised is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error,
	notFoundStatus int, notFoundMessage string) {
	if verr, ok := common.AsValidationError(err); ok {
		writeError(w, http.StatusUnprocessableEntity, verr.Message, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated.", nil)
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.", nil)
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized!", nil)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, notFoundStatus, notFoundMessage, nil)
	default:
		logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred.", nil)
	}
}
