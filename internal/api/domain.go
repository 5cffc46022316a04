package api

import (
	"github.com/inkwell-labs/inkwell/internal/generation"
	"github.com/inkwell-labs/inkwell/internal/templates"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Templates  templates.System
	Generation *generation.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	templatesSystem := templates.New(
		runtime.Store,
		runtime.Logger,
	)

	generationHandler := generation.NewHandler(
		templatesSystem,
		runtime.Generator,
		runtime.Logger,
	)

	return &Domain{
		Templates:  templatesSystem,
		Generation: generationHandler,
	}
}
