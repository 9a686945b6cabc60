// Package chi mounts a rivet Router onto a go-chi mux, bridging the
// rivet dispatch model onto a real HTTP listener.
//
// Example usage:
//
//	router, _ := rivet.NewRouter(container)
//
//	handler := rivetchi.Mount(router)
//	http.ListenAndServe(":8080", handler)
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rivetfw/rivet"
	"github.com/rivetfw/rivet/reactive"
)

// Config holds the configuration for the mounted handler.
type Config struct {
	// ErrorHandler is called when dispatch fails. If nil, a default
	// handler maps rivet errors onto HTTP status codes.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Logger receives dispatch errors. Defaults to slog.Default.
	Logger *slog.Logger

	// Middlewares are applied to the mux before the routes.
	Middlewares []func(http.Handler) http.Handler
}

// Option configures the mounted handler.
type Option func(*Config)

// WithErrorHandler sets the error handler for dispatch failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithLogger sets the logger for dispatch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware adds a middleware to the mux. Multiple middlewares are
// applied in the order they are added.
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	cfg := &Config{Logger: slog.Default()}
	cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			cfg.Logger.Error("dispatch failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
	}
	return cfg
}

// statusFor maps a rivet dispatch error onto an HTTP status code.
func statusFor(err error) int {
	var notFound rivet.RouteNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	var conversion rivet.ConversionError
	var body rivet.BodyParseError
	if errors.As(err, &conversion) || errors.As(err, &body) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Mount builds an http.Handler that serves the router's route table.
// rivet path templates use the same {name} placeholder syntax as chi
// patterns, so routes are registered verbatim; dispatch itself still goes
// through the rivet router so that argument binding and result
// normalization apply.
func Mount(router *rivet.Router, opts ...Option) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	mux := chiv5.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	for _, mw := range cfg.Middlewares {
		mux.Use(mw)
	}

	dispatch := dispatchHandler(router, cfg)
	// The rivet dispatcher applies first-match-wins itself, so routes
	// whose compiled patterns collide need only one chi registration;
	// chi panics on duplicates the rivet table accepts.
	seen := make(map[string]struct{})
	for _, route := range router.AllRoutes() {
		key := route.Method + " " + route.Pattern.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		mux.Method(route.Method, route.Path, dispatch)
	}
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cfg.ErrorHandler(w, r, rivet.RouteNotFoundError{Path: r.URL.Path, Method: r.Method})
	})

	return mux
}

// dispatchHandler translates an incoming request into a RequestContext,
// executes the matching route, and writes the normalized result as JSON.
func dispatchHandler(router *rivet.Router, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, err := requestContext(r)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		result, err := router.ExecuteRoute(r.URL.Path, r.Method, ctx)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		writeResult(w, r, result, cfg)
	}
}

// requestContext builds the immutable dispatch input from the request.
func requestContext(r *http.Request) (*rivet.RequestContext, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for key := range r.Header {
		headers[key] = r.Header.Get(key)
	}

	return &rivet.RequestContext{
		Path:        r.URL.Path,
		Method:      r.Method,
		Body:        string(body),
		QueryParams: query,
		Headers:     headers,
	}, nil
}

// writeResult resolves asynchronous results and encodes the value as JSON.
// A nil result becomes 204 No Content.
func writeResult(w http.ResponseWriter, r *http.Request, result any, cfg *Config) {
	switch v := result.(type) {
	case *reactive.Single:
		value, err := v.Get(r.Context())
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}
		result = value
	case *reactive.Stream:
		values, err := v.Collect(r.Context())
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}
		result = values
	}

	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		cfg.Logger.Error("failed to encode response", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}
