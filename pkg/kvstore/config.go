package kvstore

import (
	"fmt"
	"os"
)

// Supported storage backends.
const (
	BackendFile  = "file"
	BackendAzure = "azure"
)

// Config holds document store parameters for both backends.
type Config struct {
	Backend          string `toml:"backend"`
	Root             string `toml:"root"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	Root             string
	ContainerName    string
	ConnectionString string
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
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Root == "" {
		c.Root = "data/templates"
	}
	if c.ContainerName == "" {
		c.ContainerName = "templates"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.Root != "" {
		if v := os.Getenv(env.Root); v != "" {
			c.Root = v
		}
	}
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFile:
		if c.Root == "" {
			return fmt.Errorf("root required for file backend")
		}
	case BackendAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required for azure backend")
		}
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required for azure backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Backend)
	}
	return nil
}
