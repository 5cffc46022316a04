package generator

import (
	"fmt"
	"os"
	"time"
)

// Config holds generative API client parameters. It is constructed once at
// startup and injected; the client never reads ambient global state.
type Config struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey  string
	Model   string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// A missing API key passes validation: startup proceeds and the first real
// generation call fails instead.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
