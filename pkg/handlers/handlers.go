// Package handlers provides shared JSON response helpers for HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already committed; nothing left to do but log
		slog.Default().Error("encode response", "error", err)
	}
}

// RespondError logs err and writes a JSON error body with the given status code.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// RespondFailure writes the {success:false, message} envelope used by the
// generation endpoints, keeping upstream error detail out of the response.
func RespondFailure(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
