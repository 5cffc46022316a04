// Package middleware provides an ordered HTTP middleware stack with
// request logging and CORS implementations.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	chain []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.chain = append(s.chain, fn)
}

// Apply wraps handler so the first registered middleware runs outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.chain) - 1; i >= 0; i-- {
		handler = s.chain[i](handler)
	}
	return handler
}
