package api_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/api"
	"github.com/musiclands/backend/internal/performances"
	"github.com/musiclands/backend/internal/stages"
)

type stubStages struct {
	all []stages.Stage
	err error
}

func (s stubStages) All(context.Context) ([]stages.Stage, error) { return s.all, s.err }

type stubLineup struct {
	slots    []performances.Slot
	err      error
	from, to time.Time
}

func (s *stubLineup) Lineup(_ context.Context, from, to time.Time) ([]performances.Slot, error) {
	s.from, s.to = from, to
	return s.slots, s.err
}

func ptr[T any](v T) *T { return &v }

func TestVenues(t *testing.T) {
	start := time.Date(2026, 7, 17, 20, 0, 0, 0, time.UTC)
	forest := stages.Stage{ID: uuid.New(), Name: "Forest Tent", Lat: 40.1, Lng: -73.2, Capacity: ptr(800), Description: ptr("Under the pines"), Amenities: []string{"bar"}}
	mainStage := stages.Stage{ID: uuid.New(), Name: "Main Stage", Lat: 40.2, Lng: -73.3}

	lineup := &stubLineup{slots: []performances.Slot{
		{
			Performance:  performances.Performance{StageID: forest.ID, StartTime: start, EndTime: start.Add(time.Hour), VIPOnly: true, AgeRestriction: ptr(18)},
			ArtistName:   "Bonobo",
			ArtistGenres: []string{"electronic", "downtempo"},
		},
		{
			Performance: performances.Performance{StageID: forest.ID, StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour), Title: ptr("Sunrise Set")},
			ArtistName:  "Khruangbin",
		},
	}}

	source := api.NewVenueSource(stubStages{all: []stages.Stage{forest, mainStage}}, lineup)

	venues, err := source.Venues(context.Background(), start, start.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("Venues() error = %v", err)
	}

	if !lineup.from.Equal(start) || lineup.to.Sub(lineup.from) != 6*time.Hour {
		t.Errorf("lineup window = %v..%v", lineup.from, lineup.to)
	}
	if len(venues) != 2 {
		t.Fatalf("venues = %d, want 2", len(venues))
	}

	v := venues[0]
	if v.ID != forest.ID.String() || v.Description != "Under the pines" || *v.Capacity != 800 {
		t.Errorf("forest venue = %+v", v)
	}
	if len(v.Events) != 2 {
		t.Fatalf("forest events = %d, want 2", len(v.Events))
	}
	if e := v.Events[0]; e.Name != "Bonobo" || e.Genre != "electronic, downtempo" || !e.VIPOnly || *e.AgeRestriction != 18 {
		t.Errorf("first event = %+v", e)
	}
	if e := v.Events[1]; e.Name != "Sunrise Set" || e.Artist != "Khruangbin" {
		t.Errorf("titled event = %+v", e)
	}

	if len(venues[1].Events) != 0 {
		t.Errorf("main stage events = %+v, want none", venues[1].Events)
	}
}

func TestVenuesErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		stages stubStages
		lineup *stubLineup
		want   string
	}{
		{"stages", stubStages{err: boom}, &stubLineup{}, "list stages: boom"},
		{"lineup", stubStages{}, &stubLineup{err: boom}, "read lineup: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := api.NewVenueSource(tt.stages, tt.lineup)
			_, err := source.Venues(context.Background(), time.Now(), time.Now().Add(time.Hour))
			if !errors.Is(err, boom) || err.Error() != tt.want {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
