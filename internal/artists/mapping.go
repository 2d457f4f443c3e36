package artists

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "artists", "a").
	Project("id", "ID").
	Project("name", "Name").
	Project("genres", "Genres").
	Project("bio", "Bio").
	Project("image_url", "ImageURL").
	Project("website", "Website").
	Project("spotify_url", "SpotifyURL").
	Project("instagram", "Instagram").
	Project("twitter", "Twitter").
	Project("popularity_score", "PopularityScore").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

const returning = `RETURNING id, name, genres, bio, image_url, website, spotify_url,
	instagram, twitter, popularity_score, created_at, updated_at`

// Filters contains optional filtering criteria for artist queries.
// Genre matches artists listed under that genre. MinPopularity is inclusive.
type Filters struct {
	Name          *string `json:"name,omitempty"`
	Genre         *Genre  `json:"genre,omitempty"`
	MinPopularity *int    `json:"min_popularity,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.Genre != nil {
		contains, _ := json.Marshal([]Genre{*f.Genre})
		b.WhereCompare("Genres", "@>", string(contains))
	}
	return b.WhereCompare("PopularityScore", ">=", f.MinPopularity)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if g := values.Get("genre"); g != "" {
		if genre, err := ParseGenre(g); err == nil {
			f.Genre = &genre
		}
	}

	if p := values.Get("min_popularity"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			f.MinPopularity = &v
		}
	}

	return f
}

func scanArtist(s repository.Scanner) (Artist, error) {
	var a Artist
	var genresRaw []byte

	err := s.Scan(
		&a.ID,
		&a.Name,
		&genresRaw,
		&a.Bio,
		&a.ImageURL,
		&a.Website,
		&a.SpotifyURL,
		&a.Instagram,
		&a.Twitter,
		&a.PopularityScore,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(genresRaw) > 0 {
		if err := json.Unmarshal(genresRaw, &a.Genres); err != nil {
			return a, fmt.Errorf("unmarshal genres: %w", err)
		}
	}
	if a.Genres == nil {
		a.Genres = []Genre{}
	}

	return a, nil
}
