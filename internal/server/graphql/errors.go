package graphql

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophfeed/internal/common"
)

const defaultNotFoundStatus = http.StatusNotFound

// Error is a resolver error carrying an HTTP-like code and optional field
// errors in its extensions.
type Error struct {
	Message string
	Code    int
	Data    []common.FieldError
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Data) > 0 {
		ext["data"] = e.Data
	}
	return ext
}

// toError converts a service error into an *Error. notFoundMessage names
// the resource being resolved.
func (r *Resolver) toError(ctx context.Context, err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if verr, ok := common.AsValidationError(err); ok {
		return &Error{Message: "Invalid input.", Code: http.StatusUnprocessableEntity, Data: verr.Fields}
	}

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return &Error{Message: "Not authenticated!", Code: http.StatusUnauthorized}
	case errors.Is(err, common.ErrInvalidCredentials):
		return &Error{Message: "Invalid email or password.", Code: http.StatusUnauthorized}
	case errors.Is(err, common.ErrForbidden):
		return &Error{Message: "Not authorized!", Code: http.StatusForbidden}
	case errors.Is(err, common.ErrorNotFound):
		return &Error{Message: notFoundMessage, Code: r.notFound}
	default:
		r.logger.Error(ctx, "graphql resolver failed", "error", err)
		return &Error{Message: "An internal error occurred.", Code: http.StatusInternalServerError}
	}
}
