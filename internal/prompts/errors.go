package prompts

import (
	"errors"
	"net/http"

	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/repository"
)

// Domain errors for prompt operations.
var (
	ErrNotFound       = errors.New("prompt not found")
	ErrDuplicate      = errors.New("prompt name already exists")
	ErrInvalidCommand = errors.New("invalid prompt")
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
}

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, queries.ErrInvalidQueryType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
