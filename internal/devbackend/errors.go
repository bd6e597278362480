package devbackend

import (
	"errors"
	"net/http"

	"github.com/idilsaglam/taskboard/internal/store"
)

// ErrNotFound is the store's not-found error, answered with 404.
var ErrNotFound = store.ErrNotFound

// ValidationError is a rejected request body, answered with 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func statusOf(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
