package generator

import "errors"

var (
	// ErrInvalidResponse indicates the model API returned a response with
	// no extractable text.
	ErrInvalidResponse = errors.New("invalid response format from model")
	// ErrNotConfigured indicates generation was attempted without a
	// working client (missing credential at startup).
	ErrNotConfigured = errors.New("generation client not configured")
)
