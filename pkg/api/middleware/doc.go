// Package middleware provides the HTTP middleware chain of the habitat API.
//
// Every middleware has the shape func(http.Handler) http.Handler so they
// chain directly:
//
//	handler := middleware.Recovery(logger)(mux)
//	handler = middleware.Metrics(reg)(handler)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
