package queries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/musiclands/backend/pkg/formatting"
)

var (
	timeRangeFields = []string{"time_range", "reasoning", "confidence", "query_type"}
	windowFields    = []string{"start_time", "end_time", "description"}
)

var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// TimeRangePrompt renders the time range extraction prompt as a single
// user message.
func TimeRangePrompt(req Request, instructions string) Prompt {
	var section strings.Builder
	section.WriteString("CONTEXT:\n")
	section.WriteString(currentTimeLine(req.TimeContext))
	if loc := req.Location; loc != nil {
		section.WriteString("\n\nLocation Context:\n")
		section.WriteString("- GPS Coordinates: " + coordinates(loc.Lat, loc.Lng) + "\n")
		section.WriteString("- This can help determine local context for activities, weather, business hours, etc.")
	}

	user := joinSections(
		instructions,
		section.String(),
		`USER QUERY: "`+req.Query+`"`,
		ReplyFormat(TimeRangeExtraction),
		"Now analyze the user query and provide the time range analysis:",
	)

	return Prompt{
		User:    user,
		Options: OptionsFor(TimeRangeExtraction),
	}
}

// ParseTimeRange decodes a time range reply. The JSON object is taken from
// the first '{' to the last '}' of raw. Every top-level and nested field
// must be present; timestamps without an offset are read in loc. A range
// whose end is not after its start fails with both ErrParse and
// ErrInvalidTimeRange.
func ParseTimeRange(raw string, loc *time.Location) (*TimeRangeReply, error) {
	obj, err := formatting.ExtractObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := requireFields(fields, timeRangeFields); err != nil {
		return nil, err
	}

	var window map[string]json.RawMessage
	if err := json.Unmarshal(fields["time_range"], &window); err != nil {
		return nil, fmt.Errorf("%w: time_range is not an object", ErrParse)
	}
	if err := requireFields(window, windowFields); err != nil {
		return nil, err
	}

	var (
		start, end, description string
		reply                   TimeRangeReply
	)
	for name, dst := range map[string]*string{
		"start_time":  &start,
		"end_time":    &end,
		"description": &description,
	} {
		if err := decodeField(window, name, dst); err != nil {
			return nil, err
		}
	}
	if err := decodeField(fields, "reasoning", &reply.Reasoning); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "query_type", &reply.QueryType); err != nil {
		return nil, err
	}
	if reply.Confidence, err = parseConfidence(fields["confidence"]); err != nil {
		return nil, err
	}

	startTime, err := parseTimestamp(start, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", ErrParse, err)
	}
	endTime, err := parseTimestamp(end, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", ErrParse, err)
	}

	reply.TimeRange, err = NewTimeRange(startTime, endTime, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &reply, nil
}

func requireFields(fields map[string]json.RawMessage, names []string) error {
	var missing []string
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrParse, strings.Join(missing, ", "))
	}
	return nil
}

func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T) error {
	if err := json.Unmarshal(fields[name], dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, name, err)
	}
	return nil
}

// parseConfidence accepts a number or a numeric string in [0, 1].
func parseConfidence(raw json.RawMessage) (float64, error) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return 0, fmt.Errorf("%w: confidence is null", ErrParse)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, fmt.Errorf("%w: confidence is not a number", ErrParse)
		}
		if v, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, fmt.Errorf("%w: confidence is not a number", ErrParse)
		}
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%w: confidence %v outside [0, 1]", ErrParse, v)
	}
	return v, nil
}

// parseTimestamp reads RFC 3339 or an offset-free "YYYY-MM-DD HH:MM[:SS]"
// (space or T separated) in loc. Hour 24:00 is read as midnight of the
// following day.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	for _, sep := range []string{" ", "T"} {
		if date, ok := strings.CutSuffix(s, sep+"24:00"); ok {
			day, err := time.ParseInLocation(time.DateOnly, date, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
			}
			return day.AddDate(0, 0, 1), nil
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
