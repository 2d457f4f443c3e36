package prompts

import (
	"net/url"
	"strconv"

	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("query_type", "QueryType").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{
	Field: "name",
}

const returning = "RETURNING id, name, query_type, instructions, description, active"

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored. QueryType and Active use exact matching.
// Name uses case-insensitive contains matching.
type Filters struct {
	QueryType *queries.QueryType `json:"query_type,omitempty"`
	Name      *string            `json:"name,omitempty"`
	Active    *bool              `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("QueryType", f.QueryType).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown query types are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("query_type"); s != "" {
		if t, err := queries.ParseQueryType(s); err == nil {
			f.QueryType = &t
		}
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.QueryType,
		&p.Instructions,
		&p.Description,
		&p.Active,
	)
	return p, err
}
