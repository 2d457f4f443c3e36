// Package queries classifies natural-language festival questions, renders a
// prompt per query type, runs it through the completion client, and
// coordinates batches of such dispatches with bounded concurrency.
package queries

import (
	"encoding/json"
	"slices"
)

// QueryType tags a request with the prompt builder that serves it.
type QueryType string

// Known query types.
const (
	TimeRangeExtraction    QueryType = "time_range_extraction"
	ActivityRecommendation QueryType = "activity_recommendation"
	LocationAnalysis       QueryType = "location_analysis"
	MusicDiscovery         QueryType = "music_discovery"
	Conversation           QueryType = "conversation"
)

var queryTypes = []QueryType{
	TimeRangeExtraction,
	ActivityRecommendation,
	LocationAnalysis,
	MusicDiscovery,
	Conversation,
}

// QueryTypes returns every known query type.
func QueryTypes() []QueryType {
	return slices.Clone(queryTypes)
}

// Known reports whether t is one of the enumerated query types.
func (t QueryType) Known() bool {
	return slices.Contains(queryTypes, t)
}

// UnmarshalJSON rejects values outside the enumeration.
func (t *QueryType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseQueryType(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseQueryType validates s as a known query type.
func ParseQueryType(s string) (QueryType, error) {
	v := QueryType(s)
	if !v.Known() {
		return "", ErrInvalidQueryType
	}
	return v, nil
}
