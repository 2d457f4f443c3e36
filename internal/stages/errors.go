package stages

import (
	"errors"
	"net/http"

	"github.com/musiclands/backend/pkg/repository"
)

// Domain errors for stage operations.
var (
	ErrNotFound       = errors.New("stage not found")
	ErrDuplicate      = errors.New("stage name already exists")
	ErrInUse          = errors.New("stage has scheduled performances")
	ErrInvalidCommand = errors.New("invalid stage")
	ErrInvalidType    = errors.New("unknown stage type")
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Reference: ErrInUse,
}

// MapHTTPStatus maps stage domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, ErrInvalidType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
