package queries_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/musiclands/backend/internal/completion"
	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubClient struct {
	available   bool
	reply       func(ctx context.Context, req completion.Request) (string, error)
	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu       sync.Mutex
	requests []completion.Request
}

func reply(text string) *stubClient {
	return &stubClient{
		available: true,
		reply: func(context.Context, completion.Request) (string, error) {
			return text, nil
		},
	}
}

func (s *stubClient) Available() bool { return s.available }

func (s *stubClient) Complete(ctx context.Context, req completion.Request) (string, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return s.reply(ctx, req)
}

func (s *stubClient) last() completion.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

type instructions map[queries.QueryType]string

func (i instructions) Instructions(_ context.Context, t queries.QueryType) (string, error) {
	return i[t], nil
}

var defaultInstructions = instructions{
	queries.TimeRangeExtraction:    "You determine time ranges.",
	queries.ActivityRecommendation: "You recommend activities.",
	queries.LocationAnalysis:       "You are a festival location guide.",
	queries.MusicDiscovery:         "You are a music assistant.",
}

type failingInstructions struct{}

func (failingInstructions) Instructions(context.Context, queries.QueryType) (string, error) {
	return "", errors.New("prompts table unavailable")
}

type venueSource struct {
	venues   []queries.Venue
	err      error
	from, to time.Time
}

func (v *venueSource) Venues(_ context.Context, from, to time.Time) ([]queries.Venue, error) {
	v.from, v.to = from, to
	return v.venues, v.err
}

type memoryArchive struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploadErr error
}

func newArchive() *memoryArchive {
	return &memoryArchive{blobs: map[string][]byte{}}
}

func (a *memoryArchive) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if a.uploadErr != nil {
		return a.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blobs[key] = data
	return nil
}

func (a *memoryArchive) Download(_ context.Context, key string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newSystem(t *testing.T, client completion.Client, opts ...queries.Option) queries.System {
	t.Helper()
	return queries.New(client, defaultInstructions, queries.Config{DefaultMaxParallel: 5}, discard(), opts...)
}

// tuesdayEvening is 15:30 on Tuesday 2024-01-16 in New York.
func tuesdayEvening(t *testing.T) queries.TimeContext {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return queries.TimeContext{
		CurrentTime: time.Date(2024, 1, 16, 15, 30, 0, 0, ny).UTC(),
		Timezone:    "America/New_York",
	}
}

func request(t queries.QueryType, query string, tc queries.TimeContext) queries.Request {
	return queries.Request{Query: query, QueryType: t, TimeContext: tc}
}

const tonightReply = `Here is the analysis:
{
  "time_range": {
    "start_time": "2024-01-16 18:00",
    "end_time": "2024-01-16 24:00",
    "description": "Tonight, evening hours"
  },
  "reasoning": "The user asked about tonight.",
  "confidence": 0.9,
  "query_type": "planned"
}
Enjoy!`
