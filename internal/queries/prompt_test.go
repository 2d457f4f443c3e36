package queries_test

import (
	"strings"
	"testing"
	"time"

	"github.com/musiclands/backend/internal/completion"
	"github.com/musiclands/backend/internal/queries"
)

func TestActivityPrompt(t *testing.T) {
	tc := tuesdayEvening(t)
	tc.Derive()
	req := request(queries.ActivityRecommendation, "What should I do this afternoon?", tc)
	req.Location = &queries.Location{Lat: 40.7128, Lng: -74.006, City: "New York"}
	req.UserContext = &queries.UserContext{DisplayName: "Ana"}

	p, rendered := queries.ActivityPrompt(req, "You recommend activities.")

	wantContext := strings.Join([]string{
		"Current time: Tuesday, January 16, 2024 at 03:30 PM (America/New_York)",
		"Time of day: afternoon",
		"Location: 40.7128, -74.006 (New York)",
		"User: Ana",
	}, "\n")
	if rendered != wantContext {
		t.Errorf("context =\n%s\nwant\n%s", rendered, wantContext)
	}
	if !strings.HasPrefix(p.System, "You recommend activities.") || !strings.Contains(p.System, "Context:\n"+wantContext) {
		t.Errorf("system = %q", p.System)
	}
	if !strings.HasSuffix(p.System, queries.ReplyFormat(queries.ActivityRecommendation)) {
		t.Error("system prompt missing reply guidance")
	}
	if p.User != req.Query {
		t.Errorf("user = %q", p.User)
	}

	msgs := p.Messages()
	if len(msgs) != 2 || msgs[0].Role != completion.RoleSystem || msgs[1].Role != completion.RoleUser {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestMusicPrompt(t *testing.T) {
	req := request(queries.MusicDiscovery, "Recommend some chill music", queries.TimeContext{CurrentTime: time.Now()})

	p, userContext := queries.MusicPrompt(req, "You are a music assistant.")
	if p.User != "Recommend some chill music" || len(userContext) != 0 {
		t.Errorf("anonymous prompt = %q, context = %v", p.User, userContext)
	}

	req.UserContext = &queries.UserContext{
		DisplayName: "Ana",
		Preferences: map[string]any{
			"genres": []any{"indie", "electronic"},
			"mood":   "relaxed",
		},
	}
	p, userContext = queries.MusicPrompt(req, "You are a music assistant.")

	want := "Context:\nUser name: Ana\nGenres: indie, electronic\nMood: relaxed\n\nQuestion: Recommend some chill music"
	if p.User != want {
		t.Errorf("user =\n%s\nwant\n%s", p.User, want)
	}
	if userContext["display_name"] != "Ana" || userContext["mood"] != "relaxed" {
		t.Errorf("user context = %v", userContext)
	}
	if p.Options.Temperature != 0.8 || p.Options.MaxTokens != 800 {
		t.Errorf("options = %+v", p.Options)
	}
}

func TestConversationPrompt(t *testing.T) {
	req := request(queries.Conversation, "Tell me a joke", queries.TimeContext{CurrentTime: time.Now()})

	p := queries.ConversationPrompt(req, "")
	if p.System != "" || p.User != "Tell me a joke" {
		t.Errorf("prompt = %+v", p)
	}
	if msgs := p.Messages(); len(msgs) != 1 {
		t.Errorf("messages = %+v, want user only", msgs)
	}
	if p.Options.MaxTokens != 600 || p.Options.Temperature != 0.8 {
		t.Errorf("options = %+v", p.Options)
	}
}

func TestLocationPrompt(t *testing.T) {
	tc := tuesdayEvening(t)
	req := request(queries.LocationAnalysis, "Where should I go next?", tc)
	req.Location = &queries.Location{Lat: 40.7589, Lng: -73.9851}
	req.AdditionalContext = map[string]any{"energy_level": "Medium", "group_size": 3}
	req.UserContext = &queries.UserContext{Preferences: map[string]any{"music_genres": []string{"Electronic", "Indie"}}}

	t.Run("no venues", func(t *testing.T) {
		p := queries.LocationPrompt(req, "You are a festival location guide.", nil)
		if !strings.Contains(p.User, "LOCATION DATA: No location data available.") {
			t.Error("missing no-data notice")
		}
	})

	t.Run("with venues", func(t *testing.T) {
		capacity, age := 10000, 18
		start := tc.CurrentTime.Add(5*time.Hour + 30*time.Minute)
		venues := []queries.Venue{
			{
				ID:        "main",
				Name:      "Main Stage",
				Lat:       40.7589,
				Lng:       -73.9851,
				Capacity:  &capacity,
				Amenities: []string{"Food vendors", "Restrooms"},
				Events: []queries.Event{{
					Name:           "Headliner Performance",
					Artist:         "Electric Dreams",
					Genre:          "electronic",
					StartTime:      start,
					EndTime:        start.Add(2 * time.Hour),
					AgeRestriction: &age,
				}},
			},
			{ID: "garden", Name: "Acoustic Garden", Lat: 40.7505, Lng: -73.9934},
		}

		p := queries.LocationPrompt(req, "You are a festival location guide.", venues)
		for _, want := range []string{
			"You are a festival location guide.",
			"USER LOCATION:\nCurrent GPS: 40.7589, -73.9851",
			`USER QUERY: "Where should I go next?"`,
			"1. Main Stage (ID: main)",
			"   Capacity: 10000",
			"   Amenities: Food vendors, Restrooms",
			"     • Headliner Performance - Electric Dreams (09:00 PM - 11:00 PM)",
			"       Age restriction: 18+",
			"2. Acoustic Garden (ID: garden)",
			"   No events scheduled",
			"USER CONTEXT:\n  Energy Level: Medium\n  Group Size: 3",
			"USER PREFERENCES:\n  Music Genres: Electronic, Indie",
		} {
			if !strings.Contains(p.User, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
		if !strings.HasSuffix(p.User, "Now provide your recommendation:") {
			t.Error("prompt does not end with the recommendation cue")
		}
		if p.Options.MaxTokens != 1000 {
			t.Errorf("options = %+v", p.Options)
		}
	})
}

func TestOptionsForUnknownType(t *testing.T) {
	if got := queries.OptionsFor("fortune_telling"); got != queries.OptionsFor(queries.Conversation) {
		t.Errorf("options = %+v, want conversation options", got)
	}
}
