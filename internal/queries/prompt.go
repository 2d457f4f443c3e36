package queries

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/musiclands/backend/internal/completion"
)

const currentTimeLayout = "Monday, January 02, 2006 at 03:04 PM"

// InstructionSource supplies the instruction text for a query type. The
// reply format appended after the instructions is fixed per type and not
// part of the source.
type InstructionSource interface {
	Instructions(ctx context.Context, t QueryType) (string, error)
}

// Options tunes the completion call for a prompt.
type Options struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Prompt is a rendered request ready for the completion client. An empty
// System sends the User text alone.
type Prompt struct {
	System  string  `json:"system,omitempty"`
	User    string  `json:"user"`
	Options Options `json:"options"`
}

// Messages converts the prompt into completion messages.
func (p Prompt) Messages() []completion.Message {
	return completion.Messages(p.System, p.User)
}

var options = map[QueryType]Options{
	TimeRangeExtraction:    {MaxTokens: 800, Temperature: 0.3},
	ActivityRecommendation: {MaxTokens: 800, Temperature: 0.7},
	LocationAnalysis:       {MaxTokens: 1000, Temperature: 0.7},
	MusicDiscovery:         {MaxTokens: 800, Temperature: 0.8},
	Conversation:           {MaxTokens: 600, Temperature: 0.8},
}

// OptionsFor returns the completion options for t. Unknown types use the
// conversation options.
func OptionsFor(t QueryType) Options {
	if o, ok := options[t]; ok {
		return o
	}
	return options[Conversation]
}

// ActivityPrompt embeds the rendered context in the system instruction
// and sends the query as the user message. It also returns the context.
func ActivityPrompt(req Request, instructions string) (Prompt, string) {
	rendered := activityContext(req)

	system := joinSections(
		instructions,
		"Context:\n"+rendered,
		ReplyFormat(ActivityRecommendation),
	)

	return Prompt{
		System:  system,
		User:    req.Query,
		Options: OptionsFor(ActivityRecommendation),
	}, rendered
}

func activityContext(req Request) string {
	tc := req.TimeContext
	lines := []string{currentTimeLine(tc)}

	if tc.TimeOfDay != "" {
		line := "Time of day: " + tc.TimeOfDay
		if tc.IsWeekend != nil && *tc.IsWeekend {
			line += " (weekend)"
		}
		lines = append(lines, line)
	}

	if loc := req.Location; loc != nil {
		line := "Location: " + coordinates(loc.Lat, loc.Lng)
		if loc.City != "" {
			line += " (" + loc.City + ")"
		}
		lines = append(lines, line)
	}

	if name := req.UserContext.displayName(); name != "" {
		lines = append(lines, "User: "+name)
	}

	return strings.Join(lines, "\n")
}

// MusicPrompt merges the caller's display name and preferences into a
// context map, prefixes it to the query, and returns both.
func MusicPrompt(req Request, instructions string) (Prompt, map[string]any) {
	userContext := map[string]any{}
	if name := req.UserContext.displayName(); name != "" {
		userContext["display_name"] = name
	}
	maps.Copy(userContext, req.UserContext.preferences())

	message := req.Query
	var lines []string
	if name := req.UserContext.displayName(); name != "" {
		lines = append(lines, "User name: "+name)
	}
	for _, key := range sortedKeys(req.UserContext.preferences()) {
		lines = append(lines, titleKey(key)+": "+formatValue(req.UserContext.Preferences[key]))
	}
	if len(lines) > 0 {
		message = "Context:\n" + strings.Join(lines, "\n") + "\n\nQuestion: " + req.Query
	}

	return Prompt{
		System:  joinSections(instructions, ReplyFormat(MusicDiscovery)),
		User:    message,
		Options: OptionsFor(MusicDiscovery),
	}, userContext
}

// ConversationPrompt sends the query as is. Instructions, when present,
// become the system prompt.
func ConversationPrompt(req Request, instructions string) Prompt {
	return Prompt{
		System:  strings.TrimSpace(instructions),
		User:    req.Query,
		Options: OptionsFor(Conversation),
	}
}

func currentTimeLine(tc TimeContext) string {
	line := "Current time: " + tc.Local().Format(currentTimeLayout)
	if tc.Timezone != "" {
		line += " (" + tc.Timezone + ")"
	}
	return line
}

func coordinates(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lng, 'f', -1, 64)
}

func clock(t time.Time) string {
	return t.Format("03:04 PM")
}

// joinSections joins the non-empty sections with blank lines.
func joinSections(sections ...string) string {
	kept := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func titleKey(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func formatValue(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
