package queries_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/identity"
	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/routes"
)

func serve(t *testing.T, sys queries.System, method, target, body string, ctx ...context.Context) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if len(ctx) > 0 {
		req = req.WithContext(ctx[0])
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandlerTypes(t *testing.T) {
	rec := serve(t, newSystem(t, reply("ok")), "GET", "/queries/types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	types := decode[[]queries.QueryType](t, rec)
	if len(types) != 5 || types[0] != queries.TimeRangeExtraction {
		t.Errorf("types = %v", types)
	}
}

func TestHandlerExamples(t *testing.T) {
	rec := serve(t, newSystem(t, reply("ok")), "GET", "/queries/examples", "")
	examples := decode[map[string]map[string]queries.Example](t, rec)

	if got := examples["time_range_extraction"]["tonight_plans"]; got.ExpectedDurationHours != 6 {
		t.Errorf("tonight example = %+v", got)
	}
}

func TestExamplesReturnsCopy(t *testing.T) {
	queries.Examples()[queries.MusicDiscovery]["mood_based"] = queries.Example{Query: "changed"}
	delete(queries.Examples(), queries.LocationAnalysis)

	got := queries.Examples()
	if got[queries.MusicDiscovery]["mood_based"].Query == "changed" {
		t.Error("example set mutated through returned map")
	}
	if _, ok := got[queries.LocationAnalysis]; !ok {
		t.Error("query type removed through returned map")
	}
}

func TestHandlerTimeRange(t *testing.T) {
	rec := serve(t, newSystem(t, reply(tonightReply)), "POST", "/queries/time-range",
		`{"query": "What should I do tonight?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	ext := decode[queries.TimeRangeReply](t, rec)
	if ext.QueryType != "planned" || ext.TimeRange.Duration().Hours() != 6 {
		t.Errorf("extraction = %+v", ext)
	}
}

func TestHandlerQuickEndpoints(t *testing.T) {
	tests := []struct {
		target string
		key    string
	}{
		{"/queries/activity", "recommendation"},
		{"/queries/music", "music_response"},
		{"/queries/location", "recommendation"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(t, newSystem(t, reply("Go see the headliner.")), "POST", tt.target,
				`{"query": "what now?", "timezone": "Europe/Berlin"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
			}

			result := decode[queries.Result](t, rec)
			if result.ResponseData[tt.key] != "Go see the headliner." {
				t.Errorf("response_data = %v", result.ResponseData)
			}
		})
	}
}

func TestHandlerCallerIdentity(t *testing.T) {
	client := reply("Listen to Bonobo.")
	ctx := identity.WithIdentity(context.Background(), identity.Identity{CallerID: "u-1", DisplayName: "Ada"})

	rec := serve(t, newSystem(t, client), "POST", "/queries/music",
		`{"query": "something mellow", "preferences": {"favorite_genre": "downtempo"}}`, ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	user := client.last().Messages[len(client.last().Messages)-1].Content
	for _, want := range []string{"User name: Ada", "Favorite Genre: downtempo"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *stubClient
		method string
		target string
		body   string
		want   int
	}{
		{"quick empty query", reply("ok"), "POST", "/queries/activity", `{"query": "  "}`, http.StatusBadRequest},
		{"quick malformed body", reply("ok"), "POST", "/queries/music", `{`, http.StatusBadRequest},
		{"quick unavailable", &stubClient{}, "POST", "/queries/activity", `{"query": "hi"}`, http.StatusInternalServerError},
		{"time range unparseable", reply("no idea"), "POST", "/queries/time-range", `{"query": "tonight"}`, http.StatusInternalServerError},
		{"complex unknown type", reply("ok"), "POST", "/queries/complex",
			`{"query": "hi", "query_type": "horoscope", "time_context": {"current_time": "2024-01-16T20:30:00Z"}}`, http.StatusBadRequest},
		{"complex missing time", reply("ok"), "POST", "/queries/complex",
			`{"query": "hi", "query_type": "conversation"}`, http.StatusBadRequest},
		{"batch empty", reply("ok"), "POST", "/queries/batch", `{"requests": []}`, http.StatusBadRequest},
		{"batch negative parallel", reply("ok"), "POST", "/queries/batch",
			`{"requests": [], "parallel": true, "max_parallel": -1}`, http.StatusBadRequest},
		{"batch bad id", reply("ok"), "GET", "/queries/batches/not-a-uuid", "", http.StatusBadRequest},
		{"batch unknown id", reply("ok"), "GET", "/queries/batches/" + uuid.NewString(), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newSystem(t, tt.client), tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandlerComplex(t *testing.T) {
	rec := serve(t, newSystem(t, reply("Hi!")), "POST", "/queries/complex", `{
		"query": "hello",
		"query_type": "conversation",
		"time_context": {"current_time": "2024-01-16T20:30:00Z", "timezone": "America/New_York"}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	result := decode[queries.Result](t, rec)
	if result.ResponseData["response"] != "Hi!" || result.Error != nil {
		t.Errorf("result = %+v", result)
	}
}

func TestHandlerBatch(t *testing.T) {
	sys := newSystem(t, echo(0), queries.WithArchive(newArchive()))

	rec := serve(t, sys, "POST", "/queries/batch", `{
		"requests": [
			{"query": "one", "query_type": "conversation", "time_context": {"current_time": "2024-01-16T20:30:00Z"}},
			{"query": "", "query_type": "conversation", "time_context": {"current_time": "2024-01-16T20:30:00Z"}}
		],
		"parallel": true,
		"max_parallel": 2
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	batch := decode[queries.BatchResult](t, rec)
	if batch.SuccessfulCount != 1 || batch.FailedCount != 1 || len(batch.Responses) != 2 {
		t.Errorf("batch = %+v", batch)
	}

	found := serve(t, sys, "GET", "/queries/batches/"+batch.BatchID.String(), "")
	if found.Code != http.StatusOK {
		t.Fatalf("find status = %d body = %s", found.Code, found.Body)
	}
	if got := decode[queries.BatchResult](t, found); got.BatchID != batch.BatchID {
		t.Errorf("found batch = %s", got.BatchID)
	}
}
