package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/musiclands/backend/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 25, MaxPageSize: 200}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		values       url.Values
		wantPage     int
		wantPageSize int
		wantSearch   string
		wantSorts    int
	}{
		{"defaults", url.Values{}, 1, 25, "", 0},
		{"explicit", url.Values{"page": {"3"}, "page_size": {"10"}}, 3, 10, "", 0},
		{"clamped", url.Values{"page": {"-2"}, "page_size": {"1000"}}, 1, 200, "", 0},
		{"search and sort", url.Values{"search": {"aurora"}, "sort": {"Name,-Popularity"}}, 1, 25, "aurora", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequestFromQuery(tt.values, cfg)

			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("page=%d size=%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
			gotSearch := ""
			if req.Search != nil {
				gotSearch = *req.Search
			}
			if gotSearch != tt.wantSearch {
				t.Errorf("search = %q, want %q", gotSearch, tt.wantSearch)
			}
			if len(req.Sort) != tt.wantSorts {
				t.Errorf("sorts = %d, want %d", len(req.Sort), tt.wantSorts)
			}
		})
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	var fromString pagination.PageRequest
	if err := json.Unmarshal([]byte(`{"sort":"-StartTime"}`), &fromString); err != nil {
		t.Fatalf("string form: %v", err)
	}
	if len(fromString.Sort) != 1 || !fromString.Sort[0].Descending {
		t.Errorf("string form = %+v", fromString.Sort)
	}

	var fromArray pagination.PageRequest
	if err := json.Unmarshal([]byte(`{"sort":[{"Field":"Name"},{"Field":"Capacity","Descending":true}]}`), &fromArray); err != nil {
		t.Fatalf("array form: %v", err)
	}
	if len(fromArray.Sort) != 2 || fromArray.Sort[1].Field != "Capacity" {
		t.Errorf("array form = %+v", fromArray.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total, size, wantPages int
	}{
		{0, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{101, 10, 11},
	}

	for _, tt := range tests {
		got := pagination.NewPageResult[int](nil, tt.total, 1, tt.size)
		if got.TotalPages != tt.wantPages {
			t.Errorf("total=%d size=%d: pages = %d, want %d", tt.total, tt.size, got.TotalPages, tt.wantPages)
		}
		if got.Data == nil {
			t.Error("data should be an empty slice, not nil")
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")

	c := pagination.Config{}
	if err := c.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if c.DefaultPageSize != 50 || c.MaxPageSize != 200 {
		t.Errorf("config = %+v", c)
	}

	bad := pagination.Config{DefaultPageSize: 300, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error when default exceeds max")
	}
}
