package queries

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of dispatching one Request. Exactly one of
// ResponseData and Error is populated; a failed result carries an empty,
// non-nil ResponseData.
type Result struct {
	RequestID        uuid.UUID      `json:"request_id"`
	QueryType        QueryType      `json:"query_type"`
	ResponseData     map[string]any `json:"response_data"`
	RawResponse      *string        `json:"raw_response"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
	Error            *string        `json:"error"`
}

// Failed reports whether the dispatch produced an error.
func (r Result) Failed() bool {
	return r.Error != nil
}

func newResult(t QueryType) Result {
	return Result{
		RequestID:    uuid.New(),
		QueryType:    t,
		ResponseData: map[string]any{},
	}
}

func (r *Result) fail(err error) {
	msg := err.Error()
	r.Error = &msg
	r.ResponseData = map[string]any{}
}

// DecodeResponse converts a successful result's ResponseData into T.
func DecodeResponse[T any](r Result) (T, error) {
	var out T
	if r.Failed() {
		return out, fmt.Errorf("result %s failed: %s", r.RequestID, *r.Error)
	}
	data, err := json.Marshal(r.ResponseData)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

// BatchRequest is an ordered list of requests and the concurrency policy
// used to run them. A MaxParallel of zero selects the configured default.
type BatchRequest struct {
	Requests    []Request `json:"requests"`
	Parallel    bool      `json:"parallel"`
	MaxParallel int       `json:"max_parallel"`
}

// BatchResult aggregates the results of one batch. Responses follow input
// order in both execution modes.
type BatchResult struct {
	BatchID               uuid.UUID `json:"batch_id"`
	Responses             []Result  `json:"responses"`
	TotalProcessingTimeMS int64     `json:"total_processing_time_ms"`
	SuccessfulCount       int       `json:"successful_count"`
	FailedCount           int       `json:"failed_count"`
}

// TimeRange is a window with a strictly positive duration.
type TimeRange struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description"`
}

// NewTimeRange returns ErrInvalidTimeRange unless end is after start.
func NewTimeRange(start, end time.Time, description string) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, fmt.Errorf("%w: %s is not after %s",
			ErrInvalidTimeRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeRange{StartTime: start, EndTime: end, Description: description}, nil
}

// Duration returns the length of the range.
func (tr TimeRange) Duration() time.Duration {
	return tr.EndTime.Sub(tr.StartTime)
}

// TimeRangeReply is the structured reply to a time range query.
type TimeRangeReply struct {
	TimeRange      TimeRange `json:"time_range"`
	Reasoning      string    `json:"reasoning"`
	Confidence     float64   `json:"confidence"`
	QueryType      string    `json:"query_type"`
	RawLLMResponse *string   `json:"raw_llm_response,omitempty"`
}

func (e *TimeRangeReply) data() map[string]any {
	data := map[string]any{
		"time_range": e.TimeRange,
		"reasoning":  e.Reasoning,
		"confidence": e.Confidence,
		"query_type": e.QueryType,
	}
	if e.RawLLMResponse != nil {
		data["raw_llm_response"] = *e.RawLLMResponse
	}
	return data
}
