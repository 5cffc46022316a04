package kvstore

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyKey indicates an empty document key was provided.
	ErrEmptyKey = errors.New("document key must not be empty")
	// ErrEmptyPartition indicates an empty partition name was provided.
	ErrEmptyPartition = errors.New("partition must not be empty")
	// ErrInvalidKey indicates a key or partition contains a path segment
	// that could escape the store root.
	ErrInvalidKey = errors.New("key contains invalid path segment")
)

// MapHTTPStatus maps store errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrEmptyPartition) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
