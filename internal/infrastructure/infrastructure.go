// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, completion,
// identity, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/musiclands/backend/internal/completion"
	"github.com/musiclands/backend/internal/config"
	"github.com/musiclands/backend/internal/identity"
	"github.com/musiclands/backend/pkg/database"
	"github.com/musiclands/backend/pkg/lifecycle"
	"github.com/musiclands/backend/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil unless a storage connection is configured, and Identity
// is nil unless identity verification is enabled.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Completion completion.Client
	Identity   identity.Provider
	Metrics    *prometheus.Registry
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var store storage.System
	if cfg.Storage.Configured() {
		store, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	}

	client, err := completion.New(lc.Context(), &cfg.Completion, logger)
	if err != nil {
		return nil, fmt.Errorf("completion init failed: %w", err)
	}

	var provider identity.Provider
	if cfg.Identity.Enabled {
		provider, err = identity.New(lc.Context(), &cfg.Identity)
		if err != nil {
			return nil, fmt.Errorf("identity init failed: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Completion: client,
		Identity:   provider,
		Metrics:    reg,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
