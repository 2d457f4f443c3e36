package api

import (
	"net/http"

	"github.com/musiclands/backend/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Artists.Handler().Routes(),
		domain.Stages.Handler().Routes(),
		domain.Performances.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Queries.Handler().Routes(),
	)
}
