package api

import (
	"github.com/inkwell-labs/inkwell/internal/config"
	"github.com/inkwell-labs/inkwell/internal/infrastructure"
)

// Runtime scopes Infrastructure for the API module.
type Runtime struct {
	*infrastructure.Infrastructure
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Store:     infra.Store,
			Generator: infra.Generator,
		},
	}
}
