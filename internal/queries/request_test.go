package queries_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/musiclands/backend/internal/queries"
)

func TestRequestValidate(t *testing.T) {
	now := time.Date(2024, 1, 16, 20, 0, 0, 0, time.UTC)
	valid := func() queries.Request {
		return queries.Request{
			Query:       "  What should I do tonight?  ",
			QueryType:   queries.TimeRangeExtraction,
			TimeContext: queries.TimeContext{CurrentTime: now},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *queries.Request)
		ok     bool
	}{
		{"valid", func(*queries.Request) {}, true},
		{"empty query", func(r *queries.Request) { r.Query = "" }, false},
		{"whitespace query", func(r *queries.Request) { r.Query = " \t\n " }, false},
		{"missing query type", func(r *queries.Request) { r.QueryType = "" }, true},
		{"zero current time", func(r *queries.Request) { r.TimeContext.CurrentTime = time.Time{} }, false},
		{"known timezone", func(r *queries.Request) { r.TimeContext.Timezone = "UTC" }, true},
		{"unknown timezone", func(r *queries.Request) { r.TimeContext.Timezone = "Mars/Olympus_Mons" }, false},
		{"bad time of day", func(r *queries.Request) { r.TimeContext.TimeOfDay = "brunch" }, false},
		{"latitude out of range", func(r *queries.Request) { r.Location = &queries.Location{Lat: 91, Lng: 0} }, false},
		{"longitude out of range", func(r *queries.Request) { r.Location = &queries.Location{Lat: 0, Lng: -181} }, false},
		{"negative accuracy", func(r *queries.Request) {
			acc := -1.0
			r.Location = &queries.Location{Lat: 40.7, Lng: -74, Accuracy: &acc}
		}, false},
		{"valid location", func(r *queries.Request) { r.Location = &queries.Location{Lat: 40.7128, Lng: -74.006} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.Query != "What should I do tonight?" {
					t.Errorf("query not trimmed: %q", req.Query)
				}
				return
			}
			if !errors.Is(err, queries.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestQueryTypeJSON(t *testing.T) {
	var req queries.Request
	err := json.Unmarshal([]byte(`{"query":"hi","query_type":"time_range_extraction","time_context":{"current_time":"2024-01-15T20:00:00Z"}}`), &req)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.QueryType != queries.TimeRangeExtraction {
		t.Errorf("query type = %q", req.QueryType)
	}

	err = json.Unmarshal([]byte(`{"query":"hi","query_type":"fortune_telling"}`), &req)
	if !errors.Is(err, queries.ErrInvalidQueryType) {
		t.Errorf("err = %v, want ErrInvalidQueryType", err)
	}

	if _, err := queries.ParseQueryType("music_discovery"); err != nil {
		t.Errorf("parse: %v", err)
	}
	if len(queries.QueryTypes()) != 5 {
		t.Errorf("query types = %v", queries.QueryTypes())
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "night"},
		{4, "night"},
		{5, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{16, "afternoon"},
		{17, "evening"},
		{20, "evening"},
		{21, "night"},
		{23, "night"},
	}

	for _, tt := range tests {
		if got := queries.TimeOfDay(tt.hour); got != tt.want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestTimeContextDerive(t *testing.T) {
	tc := tuesdayEvening(t)
	tc.Derive()

	if tc.IsWeekend == nil || *tc.IsWeekend {
		t.Errorf("is_weekend = %v, want false", tc.IsWeekend)
	}
	if tc.TimeOfDay != "afternoon" {
		t.Errorf("time_of_day = %q, want afternoon in New York", tc.TimeOfDay)
	}

	weekend := true
	preset := queries.TimeContext{CurrentTime: tc.CurrentTime, IsWeekend: &weekend, TimeOfDay: "night"}
	preset.Derive()
	if !*preset.IsWeekend || preset.TimeOfDay != "night" {
		t.Error("Derive overwrote caller-supplied values")
	}
}
