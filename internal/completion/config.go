package completion

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"time"
)

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and tunes the completion provider. A missing APIKey is not
// an error: the resulting client reports itself unavailable.
type Config struct {
	Provider          string            `toml:"provider"`
	APIKey            string            `toml:"api_key"`
	BaseURL           string            `toml:"base_url"`
	Model             string            `toml:"model"`
	Models            map[string]string `toml:"models"`
	Timeout           string            `toml:"timeout"`
	RequestsPerSecond float64           `toml:"requests_per_second"`
	Burst             int               `toml:"burst"`
	Breaker           BreakerConfig     `toml:"breaker"`
}

// BreakerConfig controls when the circuit breaker opens and how long it stays open.
type BreakerConfig struct {
	FailureThreshold uint32 `toml:"failure_threshold"`
	OpenTimeout      string `toml:"open_timeout"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Provider          string
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           string
	RequestsPerSecond string
	Burst             string
}

// ModelFor returns the model configured for key, falling back to Model.
func (c *Config) ModelFor(key string) string {
	if m, ok := c.Models[key]; ok && m != "" {
		return m
	}
	return c.Model
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// OpenTimeoutDuration returns Breaker.OpenTimeout as a time.Duration.
func (c *Config) OpenTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Breaker.OpenTimeout)
	return d
}

// Finalize applies environment variable overrides, defaults, and validation.
// Overrides come first so the model default follows the chosen provider.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if len(overlay.Models) > 0 {
		if c.Models == nil {
			c.Models = make(map[string]string, len(overlay.Models))
		}
		maps.Copy(c.Models, overlay.Models)
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.Breaker.FailureThreshold != 0 {
		c.Breaker.FailureThreshold = overlay.Breaker.FailureThreshold
	}
	if overlay.Breaker.OpenTimeout != "" {
		c.Breaker.OpenTimeout = overlay.Breaker.OpenTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGemini:
			c.Model = "gemini-2.0-flash"
		default:
			c.Model = "gpt-3.5-turbo"
		}
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst == 0 {
		c.Burst = 5
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}
	if c.Breaker.OpenTimeout == "" {
		c.Breaker.OpenTimeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Provider); v != "" {
		c.Provider = v
	}
	if v := getenv(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := getenv(env.RequestsPerSecond); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
	if v := getenv(env.Burst); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Burst = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.Breaker.OpenTimeout); err != nil {
		return fmt.Errorf("invalid breaker open_timeout: %w", err)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be positive")
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
