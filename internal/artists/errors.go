package artists

import (
	"errors"
	"net/http"

	"github.com/musiclands/backend/pkg/repository"
)

// Domain errors for artist operations.
var (
	ErrNotFound       = errors.New("artist not found")
	ErrDuplicate      = errors.New("artist name already exists")
	ErrInUse          = errors.New("artist has scheduled performances")
	ErrInvalidCommand = errors.New("invalid artist")
	ErrInvalidGenre   = errors.New("unknown genre")
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Reference: ErrInUse,
}

// MapHTTPStatus maps artist domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, ErrInvalidGenre):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
