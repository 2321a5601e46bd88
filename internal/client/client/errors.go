package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int          `json:"-"`
	Message    string       `json:"message"`
	Data       []FieldError `json:"data"`
}

func (e *APIError) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	msgs := make([]string, 0, len(e.Data))
	for _, f := range e.Data {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, strings.Join(msgs, "; "))
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}
