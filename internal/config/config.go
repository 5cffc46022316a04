package config

import (
	"fmt"
	"os"
	"time"

	"github.com/inkwell-labs/inkwell/internal/generator"
	"github.com/inkwell-labs/inkwell/pkg/kvstore"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvInkwellEnv             = "INKWELL_ENV"
	EnvInkwellShutdownTimeout = "INKWELL_SHUTDOWN_TIMEOUT"
	EnvInkwellVersion         = "INKWELL_VERSION"
)

var storeEnv = &kvstore.Env{
	Backend:          "INKWELL_STORE_BACKEND",
	Root:             "INKWELL_STORE_ROOT",
	ContainerName:    "INKWELL_STORE_CONTAINER_NAME",
	ConnectionString: "INKWELL_STORE_CONNECTION_STRING",
}

var generatorEnv = &generator.Env{
	APIKey:  "INKWELL_GENERATOR_API_KEY",
	Model:   "INKWELL_GENERATOR_MODEL",
	Timeout: "INKWELL_GENERATOR_TIMEOUT",
}

// Config is the root configuration for the Inkwell service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Store           kvstore.Config   `toml:"store"`
	Generator       generator.Config `toml:"generator"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the INKWELL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvInkwellEnv); env != "" {
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
	c.Store.Merge(&overlay.Store)
	c.Generator.Merge(&overlay.Generator)
	c.API.Merge(&overlay.API)
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
	if err := c.Store.Finalize(storeEnv); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Generator.Finalize(generatorEnv); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
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
	if v := os.Getenv(EnvInkwellShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvInkwellVersion); v != "" {
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
	if env := os.Getenv(EnvInkwellEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
