package identity

import (
	"errors"
	"os"
	"strconv"
)

// Config enables bearer token verification. Firebase ID tokens use the
// issuer https://securetoken.google.com/<project> with the project id as
// client id.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
	JWKSURL  string `toml:"jwks_url"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Enabled  string
	Issuer   string
	ClientID string
	JWKSURL  string
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Enabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := getenv(env.Issuer); v != "" {
		c.Issuer = v
	}
	if v := getenv(env.ClientID); v != "" {
		c.ClientID = v
	}
	if v := getenv(env.JWKSURL); v != "" {
		c.JWKSURL = v
	}
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return errors.New("issuer required when identity is enabled")
	}
	if c.ClientID == "" {
		return errors.New("client_id required when identity is enabled")
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
