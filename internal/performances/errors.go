package performances

import (
	"errors"
	"net/http"

	"github.com/musiclands/backend/pkg/repository"
)

// Domain errors for performance operations.
var (
	ErrNotFound         = errors.New("performance not found")
	ErrUnknownReference = errors.New("artist or stage does not exist")
	ErrInvalidCommand   = errors.New("invalid performance")
	ErrInvalidWindow    = errors.New("lineup window end must be after start")
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Reference: ErrUnknownReference,
	Check:     ErrInvalidCommand,
}

// MapHTTPStatus maps performance domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, ErrInvalidWindow):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
