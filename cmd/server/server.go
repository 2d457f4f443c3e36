package main

import (
	"time"

	"github.com/musiclands/backend/internal/config"
	"github.com/musiclands/backend/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
	)
	logCollaborators(infra, cfg)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// logCollaborators reports which optional collaborators the query system
// runs with. An unavailable completion client is a warning, not a startup
// failure: every dispatch then answers with the unavailable error.
func logCollaborators(infra *infrastructure.Infrastructure, cfg *config.Config) {
	completionAvailable := infra.Completion != nil && infra.Completion.Available()

	infra.Logger.Info(
		"collaborators configured",
		"completion_provider", cfg.Completion.Provider,
		"completion_model", cfg.Completion.Model,
		"completion_available", completionAvailable,
		"storage", infra.Storage != nil,
		"archive_batches", cfg.Queries.ArchiveBatches && infra.Storage != nil,
		"identity", infra.Identity != nil,
	)

	if !completionAvailable {
		infra.Logger.Warn("completion client unavailable, queries will fail until an api key is configured",
			"provider", cfg.Completion.Provider,
		)
	}
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
