package rivet

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Route is an immutable compiled mapping from (HTTP verb, path template)
// to a handler method on a specific component instance.
type Route struct {
	// Method is the upper-cased HTTP verb.
	Method string

	// Path is the original path template, e.g. "/users/{id}".
	Path string

	// Controller is the owning component instance.
	Controller any

	// Handler is the bound handler method value.
	Handler reflect.Value

	// HandlerName is the handler method's name, for diagnostics.
	HandlerName string

	// Pattern is the compiled matcher: each {name} placeholder becomes a
	// single-segment capturing group, anchored at both ends.
	Pattern *regexp.Regexp

	// ParamNames are the template parameter names in left-to-right
	// template order.
	ParamNames []string

	hints []ParamHint
}

// templateParam matches a {name} placeholder in a path template.
var templateParam = regexp.MustCompile(`\{([^/{}]+)\}`)

// newRoute compiles a route from endpoint metadata. A malformed template
// or a missing handler method is an error; route construction failures are
// startup-time fatal, never silently skipped.
func newRoute(method, path string, controller any, handlerName string, hints []ParamHint) (*Route, error) {
	handler := reflect.ValueOf(controller).MethodByName(handlerName)
	if !handler.IsValid() {
		return nil, RouteError{
			Method:  method,
			Path:    path,
			Handler: handlerName,
			Cause:   fmt.Errorf("%w: %s has no method %s", ErrHandlerNotFound, formatType(reflect.TypeOf(controller)), handlerName),
		}
	}

	pattern, params, err := compilePathTemplate(path)
	if err != nil {
		return nil, RouteError{Method: method, Path: path, Handler: handlerName, Cause: err}
	}

	return &Route{
		Method:      strings.ToUpper(method),
		Path:        path,
		Controller:  controller,
		Handler:     handler,
		HandlerName: handlerName,
		Pattern:     pattern,
		ParamNames:  params,
		hints:       hints,
	}, nil
}

// compilePathTemplate converts a template like "/users/{id}" into an
// anchored regular expression with one capturing group per placeholder,
// and returns the placeholder names in template order.
func compilePathTemplate(path string) (*regexp.Regexp, []string, error) {
	if strings.Count(path, "{") != strings.Count(path, "}") {
		return nil, nil, fmt.Errorf("unbalanced braces in path template %q", path)
	}

	var params []string
	var b strings.Builder
	b.WriteString("^")

	last := 0
	for _, loc := range templateParam.FindAllStringSubmatchIndex(path, -1) {
		b.WriteString(regexp.QuoteMeta(path[last:loc[0]]))
		b.WriteString("([^/]+)")
		params = append(params, path[loc[2]:loc[3]])
		last = loc[1]
	}
	tail := path[last:]
	if strings.ContainsAny(tail, "{}") {
		return nil, nil, fmt.Errorf("malformed placeholder in path template %q", path)
	}
	b.WriteString(regexp.QuoteMeta(tail))
	b.WriteString("$")

	pattern, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, fmt.Errorf("compile path template %q: %w", path, err)
	}

	return pattern, params, nil
}

// Matches reports whether this route matches the given path and HTTP
// method. The method comparison is case-insensitive.
func (r *Route) Matches(path, method string) bool {
	return strings.EqualFold(r.Method, method) && r.Pattern.MatchString(path)
}

// PathVariables extracts the named path variables from a request path.
// Returns an empty map when the path does not match.
func (r *Route) PathVariables(path string) map[string]string {
	match := r.Pattern.FindStringSubmatch(path)
	if match == nil {
		return map[string]string{}
	}

	vars := make(map[string]string, len(r.ParamNames))
	for i, name := range r.ParamNames {
		vars[name] = match[i+1]
	}
	return vars
}

// HasPathParams reports whether the template declares any path variables.
func (r *Route) HasPathParams() bool {
	return len(r.ParamNames) > 0
}

// ParamCount returns the number of declared path variables.
func (r *Route) ParamCount() int {
	return len(r.ParamNames)
}

// Description renders the route for logging, e.g.
// "GET /users/{id} -> UserController.UserByID".
func (r *Route) Description() string {
	return fmt.Sprintf("%s %s -> %s.%s",
		r.Method, r.Path, simpleTypeName(reflect.TypeOf(r.Controller)), r.HandlerName)
}
