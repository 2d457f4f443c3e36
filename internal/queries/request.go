package queries

import (
	"fmt"
	"strings"
	"time"

	"github.com/musiclands/backend/pkg/validation"
)

// Request is one user query bound to a query type and its situational context.
type Request struct {
	Query             string         `json:"query"`
	QueryType         QueryType      `json:"query_type"`
	Location          *Location      `json:"location,omitempty"`
	TimeContext       TimeContext    `json:"time_context"`
	UserContext       *UserContext   `json:"user_context,omitempty"`
	AdditionalContext map[string]any `json:"additional_context,omitempty"`
}

// Location is the caller's position.
type Location struct {
	Lat      float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64  `json:"lng" validate:"gte=-180,lte=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Address  string   `json:"address,omitempty"`
	City     string   `json:"city,omitempty"`
	Country  string   `json:"country,omitempty"`
}

// TimeContext carries the instant the query was asked. IsWeekend and
// TimeOfDay are derived from CurrentTime in Timezone when unset.
type TimeContext struct {
	CurrentTime time.Time `json:"current_time" validate:"required"`
	Timezone    string    `json:"timezone,omitempty" validate:"omitempty,timezone"`
	IsWeekend   *bool     `json:"is_weekend,omitempty"`
	TimeOfDay   string    `json:"time_of_day,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`
}

// UserContext describes the caller. All fields are optional.
type UserContext struct {
	CallerID    string         `json:"user_id,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
	History     []string       `json:"history,omitempty"`
}

// Validate trims Query and checks the request. Failures wrap ErrInvalidRequest.
func (r *Request) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidRequest)
	}
	return validation.Struct(ErrInvalidRequest, r)
}

// Zone returns the named timezone, or the location of CurrentTime when
// Timezone is empty or unknown.
func (tc TimeContext) Zone() *time.Location {
	if tc.Timezone != "" {
		if loc, err := time.LoadLocation(tc.Timezone); err == nil {
			return loc
		}
	}
	return tc.CurrentTime.Location()
}

// Local returns CurrentTime in Zone.
func (tc TimeContext) Local() time.Time {
	return tc.CurrentTime.In(tc.Zone())
}

// Derive fills IsWeekend and TimeOfDay when they are unset.
func (tc *TimeContext) Derive() {
	now := tc.Local()
	if tc.IsWeekend == nil {
		weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday
		tc.IsWeekend = &weekend
	}
	if tc.TimeOfDay == "" {
		tc.TimeOfDay = TimeOfDay(now.Hour())
	}
}

// TimeOfDay buckets an hour of the day: morning 05-12, afternoon 12-17,
// evening 17-21, night otherwise.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

func (u *UserContext) displayName() string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func (u *UserContext) preferences() map[string]any {
	if u == nil {
		return nil
	}
	return u.Preferences
}
