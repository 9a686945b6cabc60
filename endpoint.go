package rivet

import "net/http"

// ParamSource identifies where a handler parameter's value comes from.
type ParamSource int

const (
	// SourceAuto derives the binding from the path template: unhinted
	// parameters consume template variables in declaration order.
	SourceAuto ParamSource = iota

	// SourceBody binds the deserialized request body.
	SourceBody

	// SourcePath binds a named path variable.
	SourcePath

	// SourceQuery binds a named query parameter.
	SourceQuery
)

// ParamHint declares the binding source for one handler parameter, in
// parameter order. It carries the information an annotation-based host
// language would put on the parameter itself.
type ParamHint struct {
	Source ParamSource
	Name   string
}

// Endpoint declares one HTTP endpoint on a structural component: the verb,
// the path template, the handler method name, and optional per-parameter
// binding hints.
type Endpoint struct {
	Method  string
	Path    string
	Handler string
	Hints   []ParamHint
}

// GET declares a GET endpoint handled by the named component method.
// An empty path defaults to "/" plus the lower-cased handler name.
func GET(path, handler string) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: path, Handler: handler}
}

// POST declares a POST endpoint.
func POST(path, handler string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: path, Handler: handler}
}

// PUT declares a PUT endpoint.
func PUT(path, handler string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: path, Handler: handler}
}

// PATCH declares a PATCH endpoint.
func PATCH(path, handler string) Endpoint {
	return Endpoint{Method: http.MethodPatch, Path: path, Handler: handler}
}

// DELETE declares a DELETE endpoint.
func DELETE(path, handler string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: path, Handler: handler}
}

// Body hints that the next handler parameter receives the request body.
// Raw string parameters get the body verbatim; any other type is decoded
// from JSON.
func (e Endpoint) Body() Endpoint {
	e.Hints = append(cloneHints(e.Hints), ParamHint{Source: SourceBody})
	return e
}

// Param hints that the next handler parameter binds the named path
// variable.
func (e Endpoint) Param(name string) Endpoint {
	e.Hints = append(cloneHints(e.Hints), ParamHint{Source: SourcePath, Name: name})
	return e
}

// Query hints that the next handler parameter binds the named query
// parameter.
func (e Endpoint) Query(name string) Endpoint {
	e.Hints = append(cloneHints(e.Hints), ParamHint{Source: SourceQuery, Name: name})
	return e
}

// cloneHints copies the hint slice so that builder chains on a shared
// Endpoint value never alias each other's backing array.
func cloneHints(hints []ParamHint) []ParamHint {
	out := make([]ParamHint, len(hints))
	copy(out, hints)
	return out
}
