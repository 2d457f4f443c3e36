// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/musiclands/backend/internal/config"
	"github.com/musiclands/backend/internal/identity"
	"github.com/musiclands/backend/internal/infrastructure"
	"github.com/musiclands/backend/pkg/middleware"
	"github.com/musiclands/backend/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Identity is optional: without a provider every request is anonymous.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	if runtime.Identity != nil {
		m.Use(identity.Middleware(runtime.Identity, runtime.Logger))
	}

	return m, nil
}
