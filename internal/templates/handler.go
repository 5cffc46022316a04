package templates

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inkwell-labs/inkwell/pkg/handlers"
	"github.com/inkwell-labs/inkwell/pkg/routes"
)

// Handler provides HTTP endpoints for template operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "templates"),
	}
}

// Routes returns the route group definition for template endpoints.
// Templates are served beneath the caption module path for compatibility
// with the original client surface.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/captions/templates",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns all templates, system partition first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single template by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	t, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

// Create processes a JSON body to create a new user template.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, t)
}

// Update merges a partial JSON body over an existing user template.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

// Delete removes a user template by its id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Template deleted",
	})
}
