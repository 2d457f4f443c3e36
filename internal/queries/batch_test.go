package queries_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/completion"
	"github.com/musiclands/backend/internal/queries"
)

// echo answers every prompt with its final message, after sleeping when the
// message mentions "slow".
func echo(delay time.Duration) *stubClient {
	return &stubClient{
		available: true,
		reply: func(ctx context.Context, req completion.Request) (string, error) {
			text := req.Messages[len(req.Messages)-1].Content
			if strings.Contains(text, "slow") {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			return text, nil
		},
	}
}

func conversations(t *testing.T, texts ...string) []queries.Request {
	t.Helper()
	tc := tuesdayEvening(t)
	reqs := make([]queries.Request, len(texts))
	for i, q := range texts {
		reqs[i] = request(queries.Conversation, q, tc)
	}
	return reqs
}

func TestRunBatchRejectsSize(t *testing.T) {
	sys := newSystem(t, reply("ok"))

	tests := []struct {
		name string
		size int
		want error
	}{
		{"empty", 0, queries.ErrEmptyBatch},
		{"over limit", queries.MaxBatchSize + 1, queries.ErrBatchTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := make([]queries.Request, tt.size)
			for i := range reqs {
				reqs[i] = request(queries.Conversation, "hi", tuesdayEvening(t))
			}

			result, err := sys.RunBatch(context.Background(), queries.BatchRequest{Requests: reqs})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if result != nil {
				t.Error("result returned with error")
			}
		})
	}
}

func TestRunBatchAtLimit(t *testing.T) {
	client := reply("ok")
	sys := newSystem(t, client)

	reqs := make([]queries.Request, queries.MaxBatchSize)
	for i := range reqs {
		reqs[i] = request(queries.Conversation, "hi", tuesdayEvening(t))
	}

	result, err := sys.RunBatch(context.Background(), queries.BatchRequest{Requests: reqs, Parallel: true, MaxParallel: 10})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.SuccessfulCount != queries.MaxBatchSize {
		t.Errorf("successful = %d", result.SuccessfulCount)
	}
}

func TestRunBatchPreservesOrder(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			sys := newSystem(t, echo(50*time.Millisecond))
			reqs := conversations(t, "slow first", "second", "third", "fourth")

			result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
				Requests:    reqs,
				Parallel:    parallel,
				MaxParallel: 4,
			})
			if err != nil {
				t.Fatalf("run batch: %v", err)
			}

			if len(result.Responses) != len(reqs) {
				t.Fatalf("responses = %d, want %d", len(result.Responses), len(reqs))
			}
			for i, r := range result.Responses {
				if got := r.ResponseData["response"]; got != reqs[i].Query {
					t.Errorf("response %d = %v, want %q", i, got, reqs[i].Query)
				}
			}
		})
	}
}

func TestRunBatchBoundsConcurrency(t *testing.T) {
	client := &stubClient{
		available: true,
		reply: func(context.Context, completion.Request) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return "ok", nil
		},
	}
	sys := newSystem(t, client)

	reqs := make([]queries.Request, 12)
	for i := range reqs {
		reqs[i] = request(queries.Conversation, "hi", tuesdayEvening(t))
	}

	tests := []struct {
		name        string
		maxParallel int
		want        int32
	}{
		{"explicit", 3, 3},
		{"configured default", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client.maxInFlight.Store(0)

			result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
				Requests:    reqs,
				Parallel:    true,
				MaxParallel: tt.maxParallel,
			})
			if err != nil {
				t.Fatalf("run batch: %v", err)
			}
			if result.SuccessfulCount != len(reqs) {
				t.Errorf("successful = %d", result.SuccessfulCount)
			}
			if got := client.maxInFlight.Load(); got > tt.want {
				t.Errorf("max in flight = %d, want at most %d", got, tt.want)
			}
		})
	}
}

func TestRunBatchSequentialIsSerial(t *testing.T) {
	client := echo(5 * time.Millisecond)
	sys := newSystem(t, client)

	_, err := sys.RunBatch(context.Background(), queries.BatchRequest{
		Requests: conversations(t, "slow a", "slow b", "slow c"),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if got := client.maxInFlight.Load(); got != 1 {
		t.Errorf("max in flight = %d, want 1", got)
	}
}

func TestRunBatchUnavailable(t *testing.T) {
	client := &stubClient{available: false}
	sys := newSystem(t, client)

	result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
		Requests: conversations(t, "a", "b", "c", "d", "e"),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}

	if result.SuccessfulCount != 0 || result.FailedCount != 5 {
		t.Errorf("counts = %d/%d, want 0/5", result.SuccessfulCount, result.FailedCount)
	}
	for i, r := range result.Responses {
		assertFailed(t, r, queries.ErrServiceUnavailable)
		if r.RawResponse != nil {
			t.Errorf("response %d has raw response", i)
		}
	}
	if client.calls.Load() != 0 {
		t.Errorf("completion calls = %d, want 0", client.calls.Load())
	}
}

func TestRunBatchMixedOutcomes(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			sys := newSystem(t, echo(0))

			result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
				Requests: conversations(t, "first", "", "third"),
				Parallel: parallel,
			})
			if err != nil {
				t.Fatalf("run batch: %v", err)
			}

			if result.SuccessfulCount != 2 || result.FailedCount != 1 {
				t.Errorf("counts = %d/%d, want 2/1", result.SuccessfulCount, result.FailedCount)
			}
			if result.SuccessfulCount+result.FailedCount != len(result.Responses) {
				t.Error("counts do not sum to response count")
			}
			assertFailed(t, result.Responses[1], queries.ErrInvalidRequest)
			if result.BatchID == uuid.Nil {
				t.Error("batch id not assigned")
			}

			seen := map[uuid.UUID]bool{}
			for _, r := range result.Responses {
				if seen[r.RequestID] {
					t.Errorf("duplicate request id %s", r.RequestID)
				}
				seen[r.RequestID] = true
			}
		})
	}
}

func TestRunBatchRecoversPanics(t *testing.T) {
	client := &stubClient{
		available: true,
		reply: func(_ context.Context, req completion.Request) (string, error) {
			if strings.Contains(req.Messages[len(req.Messages)-1].Content, "explode") {
				panic("model exploded")
			}
			return "fine", nil
		},
	}
	sys := newSystem(t, client)

	result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
		Requests: conversations(t, "ok", "explode", "ok"),
		Parallel: true,
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.SuccessfulCount != 2 || result.FailedCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", result.SuccessfulCount, result.FailedCount)
	}
	assertFailed(t, result.Responses[1], errors.New("model exploded"))
}

func TestBatchArchive(t *testing.T) {
	archive := newArchive()
	sys := newSystem(t, reply("ok"), queries.WithArchive(archive))

	result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
		Requests: conversations(t, "one", "two"),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}

	found, err := sys.FindBatch(context.Background(), result.BatchID)
	if err != nil {
		t.Fatalf("find batch: %v", err)
	}
	if found.BatchID != result.BatchID || len(found.Responses) != 2 || found.SuccessfulCount != 2 {
		t.Errorf("found = %+v", found)
	}
	if found.Responses[0].RequestID != result.Responses[0].RequestID {
		t.Error("archived responses differ")
	}

	if _, err := sys.FindBatch(context.Background(), uuid.New()); !errors.Is(err, queries.ErrBatchNotFound) {
		t.Errorf("missing batch err = %v", err)
	}
}

func TestBatchArchiveFailureIgnored(t *testing.T) {
	archive := newArchive()
	archive.uploadErr = errors.New("bucket gone")
	sys := newSystem(t, reply("ok"), queries.WithArchive(archive))

	result, err := sys.RunBatch(context.Background(), queries.BatchRequest{
		Requests: conversations(t, "one"),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.SuccessfulCount != 1 {
		t.Errorf("successful = %d", result.SuccessfulCount)
	}
}

func TestFindBatchWithoutArchive(t *testing.T) {
	sys := newSystem(t, reply("ok"))
	if _, err := sys.FindBatch(context.Background(), uuid.New()); !errors.Is(err, queries.ErrBatchNotFound) {
		t.Errorf("err = %v, want ErrBatchNotFound", err)
	}
}
