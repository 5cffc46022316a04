package api

import (
	"net/http"

	"github.com/inkwell-labs/inkwell/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Templates.Handler().Routes(),
		domain.Generation.Routes(),
	)
}
