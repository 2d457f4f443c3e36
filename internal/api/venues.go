package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/performances"
	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/internal/stages"
)

type stageLister interface {
	All(ctx context.Context) ([]stages.Stage, error)
}

type lineupReader interface {
	Lineup(ctx context.Context, from, to time.Time) ([]performances.Slot, error)
}

// venueSource presents stages and their lineup to location analysis.
type venueSource struct {
	stages stageLister
	lineup lineupReader
}

// NewVenueSource adapts the stage catalog and lineup to queries.VenueSource.
func NewVenueSource(stages stageLister, lineup lineupReader) queries.VenueSource {
	return &venueSource{stages: stages, lineup: lineup}
}

// Venues returns every stage, in stage order, with the performances
// overlapping [from, to) attached as events.
func (v *venueSource) Venues(ctx context.Context, from, to time.Time) ([]queries.Venue, error) {
	all, err := v.stages.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}

	slots, err := v.lineup.Lineup(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("read lineup: %w", err)
	}

	events := make(map[uuid.UUID][]queries.Event, len(all))
	for _, s := range slots {
		events[s.StageID] = append(events[s.StageID], event(s))
	}

	venues := make([]queries.Venue, 0, len(all))
	for _, st := range all {
		venues = append(venues, queries.Venue{
			ID:          st.ID.String(),
			Name:        st.Name,
			Description: deref(st.Description),
			Lat:         st.Lat,
			Lng:         st.Lng,
			Capacity:    st.Capacity,
			Amenities:   st.Amenities,
			Events:      events[st.ID],
		})
	}
	return venues, nil
}

func event(s performances.Slot) queries.Event {
	name := deref(s.Title)
	if name == "" {
		name = s.ArtistName
	}

	return queries.Event{
		Name:           name,
		Artist:         s.ArtistName,
		Genre:          strings.Join(s.ArtistGenres, ", "),
		Description:    deref(s.Description),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		VIPOnly:        s.VIPOnly,
		AgeRestriction: s.AgeRestriction,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
