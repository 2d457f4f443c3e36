package stages_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/stages"
	"github.com/musiclands/backend/pkg/pagination"
	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/routes"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{stages.ErrNotFound, http.StatusNotFound},
		{stages.ErrDuplicate, http.StatusConflict},
		{stages.ErrInUse, http.StatusConflict},
		{stages.ErrInvalidCommand, http.StatusBadRequest},
		{stages.ErrInvalidType, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := stages.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCommandValidate(t *testing.T) {
	valid := func() stages.Command {
		return stages.Command{
			Name:      " Main Stage ",
			StageType: stages.TypeMainStage,
			Lat:       40.7812,
			Lng:       -73.9665,
			Capacity:  ptr(20000),
			Amenities: []string{"bar", "toilets"},
		}
	}

	tests := []struct {
		name   string
		modify func(*stages.Command)
		want   string
	}{
		{"valid", func(*stages.Command) {}, ""},
		{"blank name", func(c *stages.Command) { c.Name = " " }, "name failed required"},
		{"missing type", func(c *stages.Command) { c.StageType = "" }, "stage_type failed required"},
		{"latitude", func(c *stages.Command) { c.Lat = 95 }, "lat failed lte=90"},
		{"longitude", func(c *stages.Command) { c.Lng = -181 }, "lng failed gte=-180"},
		{"capacity", func(c *stages.Command) { c.Capacity = ptr(-5) }, "capacity failed gte=0"},
		{"empty amenity", func(c *stages.Command) { c.Amenities = []string{"bar", ""} }, "amenities[1] failed required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid()
			tt.modify(&cmd)

			err := cmd.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cmd.Name != "Main Stage" {
					t.Errorf("name = %q, want trimmed", cmd.Name)
				}
				return
			}
			if !errors.Is(err, stages.ErrInvalidCommand) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestTypeUnmarshalJSON(t *testing.T) {
	var cmd stages.Command
	if err := json.Unmarshal([]byte(`{"stage_type":"tent"}`), &cmd); err != nil || cmd.StageType != stages.TypeTent {
		t.Errorf("stage_type = %q, %v", cmd.StageType, err)
	}
	if err := json.Unmarshal([]byte(`{"stage_type":"bandstand"}`), &cmd); !errors.Is(err, stages.ErrInvalidType) {
		t.Errorf("err = %v, want ErrInvalidType", err)
	}
}

func TestFilters(t *testing.T) {
	f := stages.FiltersFromQuery(url.Values{"name": {"main"}, "stage_type": {"vip"}})
	if f.Name == nil || f.StageType == nil || *f.StageType != stages.TypeVIP {
		t.Fatalf("filters = %+v", f)
	}

	projection := query.NewProjectionMap("public", "stages", "s").
		Project("name", "Name").
		Project("stage_type", "StageType")
	b := query.NewBuilder(projection)
	f.Apply(b)

	sql, args := b.Build()
	if want := "SELECT s.name, s.stage_type FROM public.stages s WHERE s.name ILIKE $1 AND s.stage_type = $2"; sql != want {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}

	if f := stages.FiltersFromQuery(url.Values{"stage_type": {"bandstand"}}); f.StageType != nil {
		t.Errorf("unknown type kept: %v", *f.StageType)
	}
}

type mockSystem struct {
	stages.System
	list   func(pagination.PageRequest, stages.Filters) (*pagination.PageResult[stages.Stage], error)
	find   func(uuid.UUID) (*stages.Stage, error)
	create func(stages.Command) (*stages.Stage, error)
	delete func(uuid.UUID) error
}

func (m *mockSystem) List(_ context.Context, page pagination.PageRequest, f stages.Filters) (*pagination.PageResult[stages.Stage], error) {
	return m.list(page, f)
}

func (m *mockSystem) Find(_ context.Context, id uuid.UUID) (*stages.Stage, error) {
	return m.find(id)
}

func (m *mockSystem) Create(_ context.Context, cmd stages.Command) (*stages.Stage, error) {
	return m.create(cmd)
}

func (m *mockSystem) Delete(_ context.Context, id uuid.UUID) error {
	return m.delete(id)
}

func serve(sys stages.System, method, target, body string) *httptest.ResponseRecorder {
	h := stages.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandler(t *testing.T) {
	mainStage := stages.Stage{ID: uuid.New(), Name: "Main Stage", StageType: stages.TypeMainStage, Amenities: []string{}}
	sys := &mockSystem{
		list: func(_ pagination.PageRequest, f stages.Filters) (*pagination.PageResult[stages.Stage], error) {
			result := pagination.NewPageResult([]stages.Stage{mainStage}, 1, 1, 20)
			return &result, nil
		},
		find: func(id uuid.UUID) (*stages.Stage, error) {
			if id == mainStage.ID {
				return &mainStage, nil
			}
			return nil, stages.ErrNotFound
		},
		create: func(cmd stages.Command) (*stages.Stage, error) {
			if cmd.Name == mainStage.Name {
				return nil, stages.ErrDuplicate
			}
			return &stages.Stage{ID: uuid.New(), Name: cmd.Name, StageType: cmd.StageType}, nil
		},
		delete: func(uuid.UUID) error { return stages.ErrInUse },
	}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"list", "GET", "/stages?stage_type=main_stage", "", http.StatusOK},
		{"types", "GET", "/stages/types", "", http.StatusOK},
		{"find", "GET", "/stages/" + mainStage.ID.String(), "", http.StatusOK},
		{"find missing", "GET", "/stages/" + uuid.NewString(), "", http.StatusNotFound},
		{"create", "POST", "/stages", `{"name":"Forest Tent","stage_type":"tent","lat":1,"lng":2}`, http.StatusCreated},
		{"create duplicate", "POST", "/stages", `{"name":"Main Stage","stage_type":"main_stage"}`, http.StatusConflict},
		{"create unknown type", "POST", "/stages", `{"name":"x","stage_type":"bandstand"}`, http.StatusBadRequest},
		{"delete in use", "DELETE", "/stages/" + mainStage.ID.String(), "", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(sys, tt.method, tt.target, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}
