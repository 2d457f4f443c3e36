package queries

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Venue is a festival stage with the events scheduled on it.
type Venue struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Capacity    *int     `json:"capacity,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Events      []Event  `json:"events,omitempty"`
}

// Event is a scheduled performance at a venue.
type Event struct {
	Name           string    `json:"name"`
	Artist         string    `json:"artist,omitempty"`
	Genre          string    `json:"genre,omitempty"`
	Description    string    `json:"description,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	VIPOnly        bool      `json:"vip_only"`
	AgeRestriction *int      `json:"age_restriction,omitempty"`
}

// VenueSource lists venues with the events overlapping [from, to).
type VenueSource interface {
	Venues(ctx context.Context, from, to time.Time) ([]Venue, error)
}

// LocationPrompt renders the location intelligence prompt as a single
// user message. AdditionalContext is rendered as the caller's situation
// and the caller's preferences follow it.
func LocationPrompt(req Request, instructions string, venues []Venue) Prompt {
	tc := req.TimeContext

	current := "CURRENT CONTEXT:\n" + currentTimeLine(tc)
	if tc.TimeOfDay != "" {
		current += "\nTime of day: " + tc.TimeOfDay
	}

	var position string
	if loc := req.Location; loc != nil {
		position = "USER LOCATION:\nCurrent GPS: " + coordinates(loc.Lat, loc.Lng)
		if loc.Address != "" {
			position += "\nAddress: " + loc.Address
		}
	}

	user := joinSections(
		instructions,
		current,
		position,
		`USER QUERY: "`+req.Query+`"`,
		formatVenues(venues, tc.Zone()),
		formatMapping("USER CONTEXT:", req.AdditionalContext),
		formatMapping("USER PREFERENCES:", req.UserContext.preferences()),
		ReplyFormat(LocationAnalysis),
		"Now provide your recommendation:",
	)

	return Prompt{
		User:    user,
		Options: OptionsFor(LocationAnalysis),
	}
}

func formatVenues(venues []Venue, zone *time.Location) string {
	if len(venues) == 0 {
		return "LOCATION DATA: No location data available."
	}

	lines := []string{"LOCATION & EVENT DATA:"}
	for i, v := range venues {
		lines = append(lines, "\n"+strconv.Itoa(i+1)+". "+v.Name+" (ID: "+v.ID+")")
		if v.Description != "" {
			lines = append(lines, "   Description: "+v.Description)
		}
		lines = append(lines, "   GPS: "+coordinates(v.Lat, v.Lng))
		if v.Capacity != nil {
			lines = append(lines, "   Capacity: "+strconv.Itoa(*v.Capacity))
		}
		if len(v.Amenities) > 0 {
			lines = append(lines, "   Amenities: "+strings.Join(v.Amenities, ", "))
		}

		if len(v.Events) == 0 {
			lines = append(lines, "   No events scheduled")
			continue
		}

		lines = append(lines, "   EVENTS:")
		for _, e := range v.Events {
			line := "     • " + e.Name
			if e.Artist != "" && e.Artist != e.Name {
				line += " - " + e.Artist
			}
			line += " (" + clock(e.StartTime.In(zone)) + " - " + clock(e.EndTime.In(zone)) + ")"
			lines = append(lines, line)

			if e.Genre != "" {
				lines = append(lines, "       Genre: "+e.Genre)
			}
			if e.Description != "" {
				lines = append(lines, "       Description: "+e.Description)
			}
			if e.VIPOnly {
				lines = append(lines, "       VIP ONLY")
			}
			if e.AgeRestriction != nil && *e.AgeRestriction > 0 {
				lines = append(lines, "       Age restriction: "+strconv.Itoa(*e.AgeRestriction)+"+")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func formatMapping(title string, m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	lines := []string{title}
	for _, key := range sortedKeys(m) {
		lines = append(lines, "  "+titleKey(key)+": "+formatValue(m[key]))
	}
	return strings.Join(lines, "\n")
}
