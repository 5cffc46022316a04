package generation

import "errors"

// ErrEmptyInput indicates a generation request with blank input text.
// Rejected at the handler before any store, compile, or model work.
var ErrEmptyInput = errors.New("inputText is required")
