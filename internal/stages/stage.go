// Package stages implements the festival stage catalog: where stages are,
// what kind they are, and what they offer.
package stages

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/validation"
)

// Type classifies a stage.
type Type string

// Known stage types.
const (
	TypeMainStage      Type = "main_stage"
	TypeSecondaryStage Type = "secondary_stage"
	TypeTent           Type = "tent"
	TypePavilion       Type = "pavilion"
	TypeOutdoor        Type = "outdoor"
	TypeIndoor         Type = "indoor"
	TypeVIP            Type = "vip"
	TypeSilentDisco    Type = "silent_disco"
	TypeComedy         Type = "comedy"
	TypeWorkshop       Type = "workshop"
)

var types = []Type{
	TypeMainStage, TypeSecondaryStage, TypeTent, TypePavilion, TypeOutdoor,
	TypeIndoor, TypeVIP, TypeSilentDisco, TypeComedy, TypeWorkshop,
}

// Types returns the known stage types.
func Types() []Type {
	return slices.Clone(types)
}

// UnmarshalJSON rejects unknown stage types with ErrInvalidType.
func (t *Type) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseType(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseType validates s as a known stage type.
func ParseType(s string) (Type, error) {
	v := Type(s)
	if !slices.Contains(types, v) {
		return "", ErrInvalidType
	}
	return v, nil
}

// Stage is a performance venue on the festival grounds.
type Stage struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	StageType     Type      `json:"stage_type"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Capacity      *int      `json:"capacity"`
	Description   *string   `json:"description"`
	Amenities     []string  `json:"amenities"`
	Accessibility *string   `json:"accessibility"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Command carries the writable stage fields for create and update.
type Command struct {
	Name          string   `json:"name" validate:"required,max=200"`
	StageType     Type     `json:"stage_type" validate:"required"`
	Lat           float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng           float64  `json:"lng" validate:"gte=-180,lte=180"`
	Capacity      *int     `json:"capacity" validate:"omitempty,gte=0"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	Amenities     []string `json:"amenities" validate:"dive,required,max=100"`
	Accessibility *string  `json:"accessibility" validate:"omitempty,max=1000"`
}

// Validate trims the name and checks the command. Failures wrap
// ErrInvalidCommand.
func (c *Command) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Amenities == nil {
		c.Amenities = []string{}
	}
	return validation.Struct(ErrInvalidCommand, c)
}
