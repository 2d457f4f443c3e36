package queries

import (
	"errors"
	"net/http"
)

// Domain errors for query dispatch and batching.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidQueryType   = errors.New("query_type must be one of time_range_extraction, activity_recommendation, location_analysis, music_discovery, conversation")
	ErrEmptyBatch         = errors.New("requests list cannot be empty")
	ErrBatchTooLarge      = errors.New("maximum 50 requests per batch")
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
	ErrServiceUnavailable = errors.New("completion service is not available")
	ErrEmptyResponse      = errors.New("failed to get completion response")
	ErrParse              = errors.New("failed to parse structured response")
	ErrBatchNotFound      = errors.New("batch not found")
)

// MapHTTPStatus maps query domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidQueryType),
		errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrBatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
