package rivet

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rivetfw/rivet/reactive"
)

// RequestContext carries the request information one dispatch operates on.
// All fields are immutable for the duration of the dispatch. The context is
// produced by the external transport layer; the core only reads it.
type RequestContext struct {
	Path        string
	Method      string
	Body        string
	QueryParams map[string]string
	Headers     map[string]string
}

var requestContextType = reflect.TypeOf((*RequestContext)(nil))

// ExecuteRoute resolves the matching route, binds the handler arguments
// from the request context, invokes the handler, and normalizes its
// result. A missing route fails with RouteNotFoundError; any failure
// during argument resolution or invocation is wrapped in a
// RouteExecutionError carrying the route description.
func (r *Router) ExecuteRoute(path, method string, ctx *RequestContext) (any, error) {
	route, ok := r.FindRoute(path, method)
	if !ok {
		return nil, RouteNotFoundError{Path: path, Method: method}
	}

	args, err := r.resolveArguments(route, ctx)
	if err != nil {
		return nil, RouteExecutionError{Route: route.Description(), Cause: err}
	}

	result, err := invokeHandler(route, args)
	if err != nil {
		return nil, RouteExecutionError{Route: route.Description(), Cause: err}
	}

	return normalizeResult(result), nil
}

// resolveArguments binds one value per handler parameter. Unhinted
// parameters consume the template's path variables in declaration order;
// *RequestContext parameters receive the context itself.
func (r *Router) resolveArguments(route *Route, ctx *RequestContext) ([]reflect.Value, error) {
	ht := route.Handler.Type()
	pathVars := route.PathVariables(ctx.Path)

	args := make([]reflect.Value, ht.NumIn())
	pathIdx := 0
	for i := 0; i < ht.NumIn(); i++ {
		var hint ParamHint
		if i < len(route.hints) {
			hint = route.hints[i]
		}

		v, err := r.resolveArgument(route, i, ht.In(i), hint, ctx, pathVars, &pathIdx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return args, nil
}

// resolveArgument binds a single handler parameter with this precedence:
// declared body, path variable by name, query parameter by name, the
// request context by type, then the permissive zero-value fallback (or an
// UnbindableParameterError in strict mode).
func (r *Router) resolveArgument(route *Route, index int, pt reflect.Type, hint ParamHint, ctx *RequestContext, pathVars map[string]string, pathIdx *int) (reflect.Value, error) {
	name := hint.Name

	switch hint.Source {
	case SourceBody:
		return bindBody(ctx.Body, pt)

	case SourcePath:
		if value, ok := pathVars[name]; ok {
			return convertString(value, pt)
		}

	case SourceQuery:
		if value, ok := ctx.QueryParams[name]; ok {
			return convertString(value, pt)
		}

	case SourceAuto:
		if pt == requestContextType {
			return reflect.ValueOf(ctx), nil
		}

		// Derive the parameter name from the template, left to right.
		if *pathIdx < len(route.ParamNames) {
			name = route.ParamNames[*pathIdx]
			*pathIdx++
		}

		if value, ok := pathVars[name]; ok {
			return convertString(value, pt)
		}
		if value, ok := ctx.QueryParams[name]; name != "" && ok {
			return convertString(value, pt)
		}
	}

	if pt == requestContextType {
		return reflect.ValueOf(ctx), nil
	}

	if r.strict {
		return reflect.Value{}, UnbindableParameterError{
			Route:     route.Description(),
			Index:     index,
			ParamType: pt,
		}
	}

	return reflect.Zero(pt), nil
}

// bindBody deserializes the request body into the declared parameter type.
// Raw string parameters receive the body verbatim; an empty body binds the
// zero value.
func bindBody(body string, pt reflect.Type) (reflect.Value, error) {
	if pt.Kind() == reflect.String {
		return reflect.ValueOf(body).Convert(pt), nil
	}

	if body == "" {
		return reflect.Zero(pt), nil
	}

	target := reflect.New(pt)
	if err := json.Unmarshal([]byte(body), target.Interface()); err != nil {
		return reflect.Value{}, BodyParseError{TargetType: pt, Cause: err}
	}
	return target.Elem(), nil
}

// invokeHandler calls the handler method and separates its value from a
// trailing error return, recovering from panics.
func invokeHandler(route *Route, args []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	out := route.Handler.Call(args)
	if len(out) == 0 {
		return nil, nil
	}

	if last := out[len(out)-1]; last.Type().Implements(errType) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// normalizeResult passes through values already in the asynchronous result
// shape, adapts channel results into the single-value shape, and returns
// everything else unchanged.
func normalizeResult(result any) any {
	if result == nil {
		return nil
	}

	if reactive.IsResult(result) {
		return result
	}

	if single, ok := reactive.AdaptChannel(result); ok {
		return single
	}

	return result
}
