package performances

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/repository"
)

var projection = performanceProjection()

// lineupProjection extends the performance columns with artist and stage names.
var lineupProjection = performanceProjection().
	Join("public", "artists", "a", "JOIN", "a.id = p.artist_id").
	Project("name", "ArtistName").
	Project("genres", "ArtistGenres").
	Join("public", "stages", "s", "JOIN", "s.id = p.stage_id").
	Project("name", "StageName")

func performanceProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "performances", "p").
		Project("id", "ID").
		Project("artist_id", "ArtistID").
		Project("stage_id", "StageID").
		Project("start_time", "StartTime").
		Project("end_time", "EndTime").
		Project("title", "Title").
		Project("description", "Description").
		Project("set_type", "SetType").
		Project("special_notes", "SpecialNotes").
		Project("ticket_required", "TicketRequired").
		Project("vip_only", "VIPOnly").
		Project("age_restriction", "AgeRestriction").
		Project("expected_attendance", "ExpectedAttendance").
		Project("created_at", "CreatedAt").
		Project("updated_at", "UpdatedAt")
}

var defaultSort = query.SortField{
	Field: "StartTime",
}

const returning = `RETURNING id, artist_id, stage_id, start_time, end_time, title,
	description, set_type, special_notes, ticket_required, vip_only,
	age_restriction, expected_attendance, created_at, updated_at`

// Filters contains optional filtering criteria for performance queries.
// From and To select performances overlapping [From, To).
type Filters struct {
	ArtistID *uuid.UUID `json:"artist_id,omitempty"`
	StageID  *uuid.UUID `json:"stage_id,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	VIPOnly  *bool      `json:"vip_only,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ArtistID", f.ArtistID).
		WhereEquals("StageID", f.StageID).
		WhereOverlaps("StartTime", "EndTime", f.From, f.To).
		WhereEquals("VIPOnly", f.VIPOnly)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Times are RFC 3339. Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("artist_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.ArtistID = &id
		}
	}

	if s := values.Get("stage_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.StageID = &id
		}
	}

	f.From = parseTime(values.Get("from"))
	f.To = parseTime(values.Get("to"))

	if s := values.Get("vip_only"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			f.VIPOnly = &v
		}
	}

	return f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func performanceFields(p *Performance) []any {
	return []any{
		&p.ID,
		&p.ArtistID,
		&p.StageID,
		&p.StartTime,
		&p.EndTime,
		&p.Title,
		&p.Description,
		&p.SetType,
		&p.SpecialNotes,
		&p.TicketRequired,
		&p.VIPOnly,
		&p.AgeRestriction,
		&p.ExpectedAttendance,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanPerformance(s repository.Scanner) (Performance, error) {
	var p Performance
	err := s.Scan(performanceFields(&p)...)
	return p, err
}

func scanSlot(s repository.Scanner) (Slot, error) {
	var slot Slot
	var genresRaw []byte

	dest := append(performanceFields(&slot.Performance), &slot.ArtistName, &genresRaw, &slot.StageName)
	if err := s.Scan(dest...); err != nil {
		return slot, err
	}

	if len(genresRaw) > 0 {
		if err := json.Unmarshal(genresRaw, &slot.ArtistGenres); err != nil {
			return slot, fmt.Errorf("unmarshal artist genres: %w", err)
		}
	}
	if slot.ArtistGenres == nil {
		slot.ArtistGenres = []string{}
	}

	return slot, nil
}
