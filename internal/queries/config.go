package queries

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config tunes dispatch and batching.
type Config struct {
	DefaultMaxParallel int    `toml:"default_max_parallel"`
	ArchiveBatches     bool   `toml:"archive_batches"`
	VenueWindow        string `toml:"venue_window"`
}

// Env maps config fields to environment variable names.
type Env struct {
	DefaultMaxParallel string
	ArchiveBatches     string
	VenueWindow        string
}

// VenueWindowDuration returns VenueWindow as a time.Duration.
func (c *Config) VenueWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.VenueWindow)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultMaxParallel != 0 {
		c.DefaultMaxParallel = overlay.DefaultMaxParallel
	}
	if overlay.ArchiveBatches {
		c.ArchiveBatches = true
	}
	if overlay.VenueWindow != "" {
		c.VenueWindow = overlay.VenueWindow
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultMaxParallel == 0 {
		c.DefaultMaxParallel = 5
	}
	if c.VenueWindow == "" {
		c.VenueWindow = "6h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.DefaultMaxParallel); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultMaxParallel = n
		}
	}
	if v := getenv(env.ArchiveBatches); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ArchiveBatches = b
		}
	}
	if v := getenv(env.VenueWindow); v != "" {
		c.VenueWindow = v
	}
}

func (c *Config) validate() error {
	if c.DefaultMaxParallel < 1 || c.DefaultMaxParallel > MaxBatchSize {
		return fmt.Errorf("default_max_parallel must be between 1 and %d", MaxBatchSize)
	}
	if d, err := time.ParseDuration(c.VenueWindow); err != nil || d <= 0 {
		return fmt.Errorf("invalid venue_window: %q", c.VenueWindow)
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
