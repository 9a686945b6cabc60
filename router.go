package rivet

import (
	"log/slog"
	"strings"
)

// routerOptions holds router-wide configuration.
type routerOptions struct {
	strictBinding bool
	logger        *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*routerOptions)

// WithStrictBinding makes a handler parameter with no binding source an
// error instead of silently binding its zero value.
func WithStrictBinding() RouterOption {
	return func(o *routerOptions) {
		o.strictBinding = true
	}
}

// WithRouterLogger sets the logger used for route discovery diagnostics.
// Defaults to slog.Default.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

// Router owns the route table: a flat, ordered route list plus a
// method-keyed index derived from it. Discovery happens once, eagerly, at
// construction; afterwards the table is read-only and dispatch needs no
// locking. The first structurally matching route wins, with registration
// order as the tie-break.
type Router struct {
	container *Container
	routes    []*Route
	byMethod  map[string][]*Route
	strict    bool
	log       *slog.Logger
}

// RouteStats summarizes the route table.
type RouteStats struct {
	Total    int
	ByMethod map[string]int
}

// NewRouter builds the route table from the container's registered
// structural components. Each component's declared endpoints are compiled
// into routes; a component without endpoints contributes none. Any
// malformed endpoint fails router construction.
func NewRouter(c *Container, opts ...RouterOption) (*Router, error) {
	options := routerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	r := &Router{
		container: c,
		byMethod:  make(map[string][]*Route),
		strict:    options.strictBinding,
		log:       options.logger,
	}

	for _, desc := range c.registry.Components() {
		if len(desc.Endpoints) == 0 {
			continue
		}

		instance, err := c.get(desc.Type)
		if err != nil {
			return nil, err
		}

		for _, ep := range desc.Endpoints {
			route, err := newRoute(ep.Method, normalizePath(ep.Path, ep.Handler), instance, ep.Handler, ep.Hints)
			if err != nil {
				return nil, err
			}
			r.register(route)
		}
	}

	r.log.Info("router initialized", "routes", len(r.routes))
	for _, route := range r.routes {
		r.log.Debug("registered route", "route", route.Description())
	}

	return r, nil
}

// normalizePath defaults an empty template to "/" plus the lower-cased
// handler name and guarantees a leading slash.
func normalizePath(path, handler string) string {
	if path == "" {
		path = "/" + strings.ToLower(handler)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// register appends a route to the flat list and the per-verb index.
func (r *Router) register(route *Route) {
	r.routes = append(r.routes, route)
	r.byMethod[route.Method] = append(r.byMethod[route.Method], route)
}

// AddRoute manually appends a route to the table, for dynamic routes and
// tests. Not safe for use concurrently with dispatch.
func (r *Router) AddRoute(route *Route) {
	r.register(route)
}

// NewRoute compiles a standalone route for manual registration via
// AddRoute.
func NewRoute(method, path string, controller any, handler string, hints ...ParamHint) (*Route, error) {
	return newRoute(method, normalizePath(path, handler), controller, handler, hints)
}

// FindRoute returns the first route matching the path and method, in
// registration order. A missing route is not an error at this layer.
func (r *Router) FindRoute(path, method string) (*Route, bool) {
	for _, route := range r.byMethod[strings.ToUpper(method)] {
		if route.Pattern.MatchString(path) {
			return route, true
		}
	}
	return nil, false
}

// HasRoute reports whether any route matches the path and method.
func (r *Router) HasRoute(path, method string) bool {
	_, ok := r.FindRoute(path, method)
	return ok
}

// AllRoutes returns the routes in registration order.
func (r *Router) AllRoutes() []*Route {
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// RoutesByMethod returns the routes registered for an HTTP verb, in
// registration order.
func (r *Router) RoutesByMethod(method string) []*Route {
	routes := r.byMethod[strings.ToUpper(method)]
	out := make([]*Route, len(routes))
	copy(out, routes)
	return out
}

// Stats returns route table statistics.
func (r *Router) Stats() RouteStats {
	stats := RouteStats{
		Total:    len(r.routes),
		ByMethod: make(map[string]int, len(r.byMethod)),
	}
	for method, routes := range r.byMethod {
		stats.ByMethod[method] = len(routes)
	}
	return stats
}

// ClearRoutes removes all routes. Intended for tests.
func (r *Router) ClearRoutes() {
	r.routes = nil
	r.byMethod = make(map[string][]*Route)
}
