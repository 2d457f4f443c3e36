package query_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/musiclands/backend/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func performanceProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "performances", "p").
		Project("id", "ID").
		Project("start_time", "StartTime").
		Project("end_time", "EndTime").
		Join("public", "artists", "a", "JOIN", "a.id = p.artist_id").
		Project("name", "ArtistName")
}

func TestProjectionMap(t *testing.T) {
	p := performanceProjection()

	if got, want := p.Table(), "public.performances p"; got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
	if got, want := p.From(), "public.performances p JOIN public.artists a ON a.id = p.artist_id"; got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
	if got, want := p.Columns(), "p.id, p.start_time, p.end_time, a.name"; got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
	if got := p.Column("ArtistName"); got != "a.name" {
		t.Errorf("Column(ArtistName) = %q", got)
	}
	if got := p.Column("unmapped"); got != "unmapped" {
		t.Errorf("Column(unmapped) = %q", got)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{"Name", []query.SortField{{Field: "Name"}}},
		{"Name, -StartTime,", []query.SortField{{Field: "Name"}, {Field: "StartTime", Descending: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := query.ParseSortFields(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuilderConditions(t *testing.T) {
	from := time.Date(2025, 7, 18, 18, 0, 0, 0, time.UTC)
	to := from.Add(6 * time.Hour)

	sql, args := query.NewBuilder(performanceProjection(), query.SortField{Field: "StartTime"}).
		WhereEquals("ArtistName", ptr("Aurora")).
		WhereEquals("ID", (*string)(nil)).
		WhereOverlaps("StartTime", "EndTime", from, to).
		WhereSearch(ptr("aur"), "ArtistName").
		Build()

	want := "SELECT p.id, p.start_time, p.end_time, a.name " +
		"FROM public.performances p JOIN public.artists a ON a.id = p.artist_id " +
		"WHERE a.name = $1 AND p.end_time > $2 AND p.start_time < $3 AND (a.name ILIKE $4) " +
		"ORDER BY p.start_time ASC"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 4 || args[3] != "%aur%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderPageAndCount(t *testing.T) {
	b := query.NewBuilder(performanceProjection()).
		WhereIn("ID", []any{"a", "b"}).
		OrderByFields([]query.SortField{{Field: "StartTime", Descending: true}})

	count, countArgs := b.BuildCount()
	if want := "SELECT COUNT(*) FROM public.performances p JOIN public.artists a ON a.id = p.artist_id WHERE p.id IN ($1, $2)"; count != want {
		t.Errorf("count sql = %s", count)
	}
	if len(countArgs) != 2 {
		t.Errorf("count args = %v", countArgs)
	}

	page, _ := b.BuildPage(3, 10)
	if want := " ORDER BY p.start_time DESC LIMIT 10 OFFSET 20"; len(page) < len(want) || page[len(page)-len(want):] != want {
		t.Errorf("page sql = %s", page)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(performanceProjection()).BuildSingle("ID", 7)
	want := "SELECT p.id, p.start_time, p.end_time, a.name FROM public.performances p JOIN public.artists a ON a.id = p.artist_id WHERE p.id = $1"
	if sql != want {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 1 || args[0] != 7 {
		t.Errorf("args = %v", args)
	}
}

func TestNoConditions(t *testing.T) {
	sql, args := query.NewBuilder(performanceProjection()).WhereContains("ArtistName", ptr("")).BuildCount()
	if want := "SELECT COUNT(*) FROM public.performances p JOIN public.artists a ON a.id = p.artist_id"; sql != want {
		t.Errorf("sql = %s", sql)
	}
	if args != nil {
		t.Errorf("args = %v, want nil", args)
	}
}

func TestOrderByFieldsDropsUnmapped(t *testing.T) {
	b := query.NewBuilder(performanceProjection(), query.SortField{Field: "StartTime"}).
		OrderByFields(query.ParseSortFields("-end_time,1; DROP TABLE artists,ArtistName"))

	sql, _ := b.Build()
	if want := " ORDER BY p.end_time DESC, a.name ASC"; len(sql) < len(want) || sql[len(sql)-len(want):] != want {
		t.Errorf("sql = %s", sql)
	}

	b = query.NewBuilder(performanceProjection(), query.SortField{Field: "StartTime"}).
		OrderByFields([]query.SortField{{Field: "bogus"}})
	sql, _ = b.Build()
	if want := " ORDER BY p.start_time ASC"; len(sql) < len(want) || sql[len(sql)-len(want):] != want {
		t.Errorf("sql = %s, want default sort", sql)
	}
}
