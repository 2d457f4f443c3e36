package api

import (
	"github.com/musiclands/backend/internal/artists"
	"github.com/musiclands/backend/internal/config"
	"github.com/musiclands/backend/internal/performances"
	"github.com/musiclands/backend/internal/prompts"
	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/internal/stages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Artists      artists.System
	Stages       stages.System
	Performances performances.System
	Prompts      prompts.System
	Queries      queries.System
}

// NewDomain creates all domain systems from the API runtime. The query
// system reads instructions from the prompts system, venues from the
// stages and lineup, and archives batches when storage is configured and
// archiving is enabled.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	artistsSystem := artists.New(db, runtime.Logger, runtime.Pagination)
	stagesSystem := stages.New(db, runtime.Logger, runtime.Pagination)
	performancesSystem := performances.New(db, runtime.Logger, runtime.Pagination)
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)

	opts := []queries.Option{
		queries.WithVenues(NewVenueSource(stagesSystem, performancesSystem)),
		queries.WithMetrics(queries.NewMetrics(runtime.Metrics)),
		queries.WithModels(cfg.Completion.ModelFor),
	}
	if cfg.Queries.ArchiveBatches && runtime.Storage != nil {
		opts = append(opts, queries.WithArchive(runtime.Storage))
	}

	queriesSystem := queries.New(
		runtime.Completion,
		promptsSystem,
		cfg.Queries,
		runtime.Logger,
		opts...,
	)

	return &Domain{
		Artists:      artistsSystem,
		Stages:       stagesSystem,
		Performances: performancesSystem,
		Prompts:      promptsSystem,
		Queries:      queriesSystem,
	}
}
