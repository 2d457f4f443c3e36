package queries

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/identity"
	"github.com/musiclands/backend/pkg/handlers"
	"github.com/musiclands/backend/pkg/routes"
)

// Handler provides HTTP endpoints for query dispatch.
type Handler struct {
	sys    System
	logger *slog.Logger
	now    func() time.Time
}

// QuickRequest is the body accepted by the single-type endpoints. The
// current time is the server clock; Timezone defaults to UTC.
type QuickRequest struct {
	Query       string         `json:"query"`
	Location    *Location      `json:"location,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// NewHandler creates a Handler over sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "queries"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Routes returns the route group definition for query endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/queries",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/types", Handler: h.Types},
			{Method: "GET", Pattern: "/examples", Handler: h.Examples},
			{Method: "POST", Pattern: "/time-range", Handler: h.TimeRange},
			{Method: "POST", Pattern: "/activity", Handler: h.quick(ActivityRecommendation)},
			{Method: "POST", Pattern: "/music", Handler: h.quick(MusicDiscovery)},
			{Method: "POST", Pattern: "/location", Handler: h.quick(LocationAnalysis)},
			{Method: "POST", Pattern: "/complex", Handler: h.Complex},
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
			{Method: "GET", Pattern: "/batches/{id}", Handler: h.FindBatch},
		},
	}
}

// Types returns the known query types.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, QueryTypes())
}

// Examples returns sample queries per query type.
func (h *Handler) Examples(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Examples())
}

// TimeRange extracts a time range and responds with the extraction itself.
func (h *Handler) TimeRange(w http.ResponseWriter, r *http.Request) {
	req, err := h.quickRequest(r, TimeRangeExtraction)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result := h.sys.Dispatch(r.Context(), req)
	if result.Failed() {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, errors.New(*result.Error))
		return
	}

	extraction, err := DecodeResponse[TimeRangeReply](result)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, extraction)
}

// quick serves the single-type endpoints that respond with the full Result.
func (h *Handler) quick(t QueryType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.quickRequest(r, t)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		h.respondResult(w, h.sys.Dispatch(r.Context(), req))
	}
}

// Complex dispatches a fully specified request. The caller identity fills
// the user context when the request carries none.
func (h *Handler) Complex(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[Request](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if req.UserContext == nil {
		req.UserContext = callerContext(r)
	}

	h.respondResult(w, h.sys.Dispatch(r.Context(), req))
}

// Batch runs a batch. Per-item failures are reported inside the result;
// only a malformed batch is rejected.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	batch, err := handlers.DecodeJSON[BatchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if batch.MaxParallel < 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if caller := callerContext(r); caller != nil {
		for i := range batch.Requests {
			if batch.Requests[i].UserContext == nil {
				batch.Requests[i].UserContext = caller
			}
		}
	}

	result, err := h.sys.RunBatch(r.Context(), batch)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FindBatch returns an archived batch result by its UUID path parameter.
func (h *Handler) FindBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBatchNotFound)
		return
	}

	result, err := h.sys.FindBatch(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) quickRequest(r *http.Request, t QueryType) (Request, error) {
	body, err := handlers.DecodeJSON[QuickRequest](r)
	if err != nil {
		return Request{}, errors.Join(ErrInvalidRequest, err)
	}

	timezone := body.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	req := Request{
		Query:     body.Query,
		QueryType: t,
		Location:  body.Location,
		TimeContext: TimeContext{
			CurrentTime: h.now(),
			Timezone:    timezone,
		},
		UserContext: callerContext(r),
	}

	if len(body.Preferences) > 0 {
		if req.UserContext == nil {
			req.UserContext = &UserContext{}
		}
		req.UserContext.Preferences = body.Preferences
	}

	return req, req.Validate()
}

func (h *Handler) respondResult(w http.ResponseWriter, result Result) {
	if result.Failed() {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, errors.New(*result.Error))
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func callerContext(r *http.Request) *UserContext {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return nil
	}
	return &UserContext{
		CallerID:    id.CallerID,
		DisplayName: id.DisplayName,
	}
}
