package queries

import "maps"

// Example is a sample query for one query type. Time range examples carry
// the expected classification and window length.
type Example struct {
	Query                 string `json:"query"`
	Description           string `json:"description"`
	ExpectedType          string `json:"expected_type,omitempty"`
	ExpectedDurationHours int    `json:"expected_duration_hours,omitempty"`
}

var examples = map[QueryType]map[string]Example{
	TimeRangeExtraction: {
		"what_should_i_do":   {Query: "What should I do?", Description: "Immediate activity request", ExpectedType: "immediate", ExpectedDurationHours: 2},
		"tonight_plans":      {Query: "What should I do tonight?", Description: "Evening activity request", ExpectedType: "planned", ExpectedDurationHours: 6},
		"lunch_ideas":        {Query: "Where should I go for lunch?", Description: "Meal-specific request", ExpectedType: "immediate", ExpectedDurationHours: 2},
		"weekend_activities": {Query: "What are some fun weekend activities?", Description: "Weekend planning request", ExpectedType: "planned", ExpectedDurationHours: 48},
		"date_night":         {Query: "Date ideas for Friday night", Description: "Specific day evening request", ExpectedType: "scheduled", ExpectedDurationHours: 4},
		"morning_routine":    {Query: "What should I do tomorrow morning?", Description: "Next day morning request", ExpectedType: "planned", ExpectedDurationHours: 6},
	},
	ActivityRecommendation: {
		"indoor_activities": {Query: "What can I do indoors on a rainy day?", Description: "Indoor activity suggestions"},
		"outdoor_adventure": {Query: "I want to go on an outdoor adventure this weekend", Description: "Outdoor activity planning"},
		"date_night":        {Query: "Plan a romantic date night in the city", Description: "Date planning with location context"},
	},
	LocationAnalysis: {
		"what_should_i_do":  {Query: "What should I do right now?", Description: "Immediate recommendation from the lineup"},
		"crowd_avoidance":   {Query: "I want to avoid big crowds, what do you recommend?", Description: "Capacity-aware stage choice"},
		"time_optimization": {Query: "I have 45 minutes before the headliner, what should I do?", Description: "Planning around a fixed set time"},
		"event_planning":    {Query: "Plan my evening around electronic music", Description: "Genre-driven schedule"},
	},
	MusicDiscovery: {
		"mood_based":        {Query: "I'm feeling nostalgic, what music should I listen to?", Description: "Mood-based music recommendations"},
		"activity_based":    {Query: "What's good workout music for running?", Description: "Activity-specific music suggestions"},
		"genre_exploration": {Query: "I like indie rock, what similar genres should I explore?", Description: "Genre discovery and expansion"},
	},
}

// Examples returns sample queries keyed by query type and example name.
// The returned map is a copy.
func Examples() map[QueryType]map[string]Example {
	out := make(map[QueryType]map[string]Example, len(examples))
	for t, set := range examples {
		out[t] = maps.Clone(set)
	}
	return out
}
