// Package performances implements the festival schedule: which artist plays
// which stage and when. Lineup joins the schedule with artist and stage
// names for a time window.
package performances

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/validation"
)

// Performance is one scheduled set.
type Performance struct {
	ID                 uuid.UUID `json:"id"`
	ArtistID           uuid.UUID `json:"artist_id"`
	StageID            uuid.UUID `json:"stage_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	SetType            *string   `json:"set_type"`
	SpecialNotes       *string   `json:"special_notes"`
	TicketRequired     bool      `json:"ticket_required"`
	VIPOnly            bool      `json:"vip_only"`
	AgeRestriction     *int      `json:"age_restriction"`
	ExpectedAttendance *int      `json:"expected_attendance"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Slot is a performance with the names of its artist and stage.
type Slot struct {
	Performance
	ArtistName   string   `json:"artist_name"`
	ArtistGenres []string `json:"artist_genres"`
	StageName    string   `json:"stage_name"`
}

// Command carries the writable performance fields for create and update.
type Command struct {
	ArtistID           uuid.UUID `json:"artist_id" validate:"required"`
	StageID            uuid.UUID `json:"stage_id" validate:"required"`
	StartTime          time.Time `json:"start_time" validate:"required"`
	EndTime            time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Title              *string   `json:"title" validate:"omitempty,max=200"`
	Description        *string   `json:"description" validate:"omitempty,max=1000"`
	SetType            *string   `json:"set_type" validate:"omitempty,max=50"`
	SpecialNotes       *string   `json:"special_notes" validate:"omitempty,max=1000"`
	TicketRequired     bool      `json:"ticket_required"`
	VIPOnly            bool      `json:"vip_only"`
	AgeRestriction     *int      `json:"age_restriction" validate:"omitempty,gte=0,lte=21"`
	ExpectedAttendance *int      `json:"expected_attendance" validate:"omitempty,gte=0"`
}

// Validate trims the title, dropping a blank one, and checks the command.
// Failures wrap ErrInvalidCommand.
func (c *Command) Validate() error {
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		c.Title = &title
		if title == "" {
			c.Title = nil
		}
	}
	return validation.Struct(ErrInvalidCommand, c)
}
