package stages

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "stages", "s").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage_type", "StageType").
	Project("lat", "Lat").
	Project("lng", "Lng").
	Project("capacity", "Capacity").
	Project("description", "Description").
	Project("amenities", "Amenities").
	Project("accessibility", "Accessibility").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

const returning = `RETURNING id, name, stage_type, lat, lng, capacity, description,
	amenities, accessibility, created_at, updated_at`

// Filters contains optional filtering criteria for stage queries.
type Filters struct {
	Name      *string `json:"name,omitempty"`
	StageType *Type   `json:"stage_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("StageType", f.StageType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if s := values.Get("stage_type"); s != "" {
		if t, err := ParseType(s); err == nil {
			f.StageType = &t
		}
	}

	return f
}

func scanStage(s repository.Scanner) (Stage, error) {
	var st Stage
	var amenitiesRaw []byte

	err := s.Scan(
		&st.ID,
		&st.Name,
		&st.StageType,
		&st.Lat,
		&st.Lng,
		&st.Capacity,
		&st.Description,
		&amenitiesRaw,
		&st.Accessibility,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return st, err
	}

	if len(amenitiesRaw) > 0 {
		if err := json.Unmarshal(amenitiesRaw, &st.Amenities); err != nil {
			return st, fmt.Errorf("unmarshal amenities: %w", err)
		}
	}
	if st.Amenities == nil {
		st.Amenities = []string{}
	}

	return st, nil
}
