// Package artists implements the festival artist catalog: performers, their
// genres, and links to their public profiles.
package artists

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/validation"
)

// Genre is a music genre an artist is listed under.
type Genre string

// Known genres.
const (
	GenreElectronic  Genre = "electronic"
	GenreHipHop      Genre = "hip-hop"
	GenreRock        Genre = "rock"
	GenreIndie       Genre = "indie"
	GenrePop         Genre = "pop"
	GenreJazz        Genre = "jazz"
	GenreReggae      Genre = "reggae"
	GenreFolk        Genre = "folk"
	GenreCountry     Genre = "country"
	GenreRnB         Genre = "r&b"
	GenreFunk        Genre = "funk"
	GenreHouse       Genre = "house"
	GenreTechno      Genre = "techno"
	GenreDubstep     Genre = "dubstep"
	GenreTrap        Genre = "trap"
	GenreAlternative Genre = "alternative"
	GenrePunk        Genre = "punk"
	GenreMetal       Genre = "metal"
	GenreClassical   Genre = "classical"
	GenreWorld       Genre = "world"
	GenreOther       Genre = "other"
)

var genres = []Genre{
	GenreElectronic, GenreHipHop, GenreRock, GenreIndie, GenrePop, GenreJazz,
	GenreReggae, GenreFolk, GenreCountry, GenreRnB, GenreFunk, GenreHouse,
	GenreTechno, GenreDubstep, GenreTrap, GenreAlternative, GenrePunk,
	GenreMetal, GenreClassical, GenreWorld, GenreOther,
}

// Genres returns the known genres.
func Genres() []Genre {
	return slices.Clone(genres)
}

// UnmarshalJSON rejects unknown genres with ErrInvalidGenre.
func (g *Genre) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseGenre(raw)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGenre validates s as a known genre.
func ParseGenre(s string) (Genre, error) {
	v := Genre(strings.ToLower(s))
	if !slices.Contains(genres, v) {
		return "", ErrInvalidGenre
	}
	return v, nil
}

// Artist is a performer in the festival catalog.
type Artist struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Genres          []Genre   `json:"genres"`
	Bio             *string   `json:"bio"`
	ImageURL        *string   `json:"image_url"`
	Website         *string   `json:"website"`
	SpotifyURL      *string   `json:"spotify_url"`
	Instagram       *string   `json:"instagram"`
	Twitter         *string   `json:"twitter"`
	PopularityScore *int      `json:"popularity_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Command carries the writable artist fields for create and update.
type Command struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Genres          []Genre `json:"genres" validate:"unique"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
	Website         *string `json:"website" validate:"omitempty,url"`
	SpotifyURL      *string `json:"spotify_url" validate:"omitempty,url"`
	Instagram       *string `json:"instagram" validate:"omitempty,max=100"`
	Twitter         *string `json:"twitter" validate:"omitempty,max=100"`
	PopularityScore *int    `json:"popularity_score" validate:"omitempty,gte=0,lte=100"`
}

// Normalize trims the name and replaces nil genres with an empty list.
func (c *Command) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Genres == nil {
		c.Genres = []Genre{}
	}
}

// Validate normalizes and checks the command. Failures wrap ErrInvalidCommand.
func (c *Command) Validate() error {
	c.Normalize()
	return validation.Struct(ErrInvalidCommand, c)
}
