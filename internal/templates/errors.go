package templates

import (
	"errors"
	"net/http"
)

// Domain errors for template operations.
var (
	ErrNotFound    = errors.New("Template not found")
	ErrForbidden   = errors.New("System templates cannot be modified")
	ErrDuplicate   = errors.New("Template already exists")
	ErrConflict    = errors.New("Template version conflict")
	ErrInvalidKind = errors.New("type must be one of caption, letter, report, essay, email, resume, custom")
)

// ValidationError reports a structural or content problem with a template.
// The message is surfaced verbatim to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MapHTTPStatus maps template domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidKind) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
