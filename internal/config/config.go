package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/musiclands/backend/internal/completion"
	"github.com/musiclands/backend/internal/identity"
	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/database"
	"github.com/musiclands/backend/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMusiclandsEnv             = "MUSICLANDS_ENV"
	EnvMusiclandsShutdownTimeout = "MUSICLANDS_SHUTDOWN_TIMEOUT"
	EnvMusiclandsVersion         = "MUSICLANDS_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "MUSICLANDS_DB_HOST",
	Port:            "MUSICLANDS_DB_PORT",
	Name:            "MUSICLANDS_DB_NAME",
	User:            "MUSICLANDS_DB_USER",
	Password:        "MUSICLANDS_DB_PASSWORD",
	SSLMode:         "MUSICLANDS_DB_SSL_MODE",
	MaxOpenConns:    "MUSICLANDS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MUSICLANDS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MUSICLANDS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MUSICLANDS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "MUSICLANDS_STORAGE_CONTAINER_NAME",
	ConnectionString: "MUSICLANDS_STORAGE_CONNECTION_STRING",
	ServiceURL:       "MUSICLANDS_STORAGE_SERVICE_URL",
	MaxListSize:      "MUSICLANDS_STORAGE_MAX_LIST_SIZE",
}

var completionEnv = &completion.Env{
	Provider:          "MUSICLANDS_COMPLETION_PROVIDER",
	APIKey:            "MUSICLANDS_COMPLETION_API_KEY",
	BaseURL:           "MUSICLANDS_COMPLETION_BASE_URL",
	Model:             "MUSICLANDS_COMPLETION_MODEL",
	Timeout:           "MUSICLANDS_COMPLETION_TIMEOUT",
	RequestsPerSecond: "MUSICLANDS_COMPLETION_REQUESTS_PER_SECOND",
	Burst:             "MUSICLANDS_COMPLETION_BURST",
}

var identityEnv = &identity.Env{
	Enabled:  "MUSICLANDS_IDENTITY_ENABLED",
	Issuer:   "MUSICLANDS_IDENTITY_ISSUER",
	ClientID: "MUSICLANDS_IDENTITY_CLIENT_ID",
	JWKSURL:  "MUSICLANDS_IDENTITY_JWKS_URL",
}

var queriesEnv = &queries.Env{
	DefaultMaxParallel: "MUSICLANDS_QUERIES_DEFAULT_MAX_PARALLEL",
	ArchiveBatches:     "MUSICLANDS_QUERIES_ARCHIVE_BATCHES",
	VenueWindow:        "MUSICLANDS_QUERIES_VENUE_WINDOW",
}

// Config is the root configuration for the Musiclands service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Completion      completion.Config `toml:"completion"`
	Identity        identity.Config   `toml:"identity"`
	Queries         queries.Config    `toml:"queries"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the MUSICLANDS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMusiclandsEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Completion.Merge(&overlay.Completion)
	c.Identity.Merge(&overlay.Identity)
	c.Queries.Merge(&overlay.Queries)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Completion.Finalize(completionEnv); err != nil {
		return fmt.Errorf("completion: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Queries.Finalize(queriesEnv); err != nil {
		return fmt.Errorf("queries: %w", err)
	}
	if c.Queries.ArchiveBatches && !c.Storage.Configured() {
		return fmt.Errorf("queries: archive_batches requires storage connection_string or service_url")
	}
	if write, call := c.Server.WriteTimeoutDuration(), c.Completion.TimeoutDuration(); write <= call {
		return fmt.Errorf("server: write_timeout %s must exceed completion timeout %s", write, call)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMusiclandsShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMusiclandsVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMusiclandsEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
