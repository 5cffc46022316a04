// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, template storage, generation) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/inkwell-labs/inkwell/internal/config"
	"github.com/inkwell-labs/inkwell/internal/generator"
	"github.com/inkwell-labs/inkwell/pkg/kvstore"
	"github.com/inkwell-labs/inkwell/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, document storage, and the generative client.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Store     kvstore.System
	Generator generator.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := kvstore.New(&cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("store init failed: %w", err)
	}

	gen, err := generator.New(&cfg.Generator, logger)
	if err != nil {
		return nil, fmt.Errorf("generator init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Store:     store,
		Generator: gen,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Store.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("store start failed: %w", err)
	}
	return nil
}
