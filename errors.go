package rivet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Base errors that are wrapped in typed errors when returned. Never
// returned bare to callers - always wrapped with context.

var (
	// Registration errors.
	ErrConstructorNil     = errors.New("constructor cannot be nil")
	ErrNotAFunction       = errors.New("constructor must be a function")
	ErrNoReturnValue      = errors.New("constructor must return a value")
	ErrUnmarkedType       = errors.New("type carries no component metadata")
	ErrAlreadyConstructed = errors.New("type already has a cached instance")

	// Resolution errors.
	ErrNotRegistered = errors.New("not registered and not auto-registrable")

	// Routing errors.
	ErrHandlerNotFound  = errors.New("handler method not found on component")
	ErrEmptyRequestBody = errors.New("request body is empty")
)

var (
	_ error = ResolutionError{}
	_ error = CircularDependencyError{}
	_ error = InstantiationError{}
	_ error = AmbiguousConstructorError{}
	_ error = IntrospectionError{}
	_ error = RegistrationError{}
	_ error = RouteNotFoundError{}
	_ error = RouteError{}
	_ error = RouteExecutionError{}
	_ error = ConversionError{}
	_ error = BodyParseError{}
	_ error = UnbindableParameterError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// ResolutionError indicates a constructor parameter type could not be
// obtained from the container or auto-registered.
type ResolutionError struct {
	ServiceType reflect.Type
	Cause       error
}

func (e ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot resolve dependency %s", formatType(e.ServiceType)))
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	b.WriteString("\nMake sure the type is registered or declared as a provider of a registered component.")
	return b.String()
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError reports a dependency cycle. Path holds the chain
// of types from the root to the type that closed the cycle.
type CircularDependencyError struct {
	ServiceType reflect.Type
	Path        []reflect.Type
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		b.WriteString(fmt.Sprintf("    %s\n", formatType(e.ServiceType)))
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", formatType(e.ServiceType)))
	} else {
		for i, t := range e.Path {
			b.WriteString(fmt.Sprintf("    %s\n", formatType(t)))
			if i < len(e.Path)-1 {
				b.WriteString("      ↓\n")
			}
		}
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", formatType(e.Path[0])))
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Use an interface binding to break the dependency\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}

// InstantiationError wraps any failure while selecting or invoking a
// constructor. The failed type is never cached.
type InstantiationError struct {
	ServiceType reflect.Type
	Cause       error
}

func (e InstantiationError) Error() string {
	return fmt.Sprintf("failed to create instance of %s: %v", formatType(e.ServiceType), e.Cause)
}

func (e InstantiationError) Unwrap() error {
	return e.Cause
}

// AmbiguousConstructorError indicates a type has multiple constructors and
// none is uniquely marked as the injection target. Only returned in strict
// mode; permissive containers fall back to the first declared constructor.
type AmbiguousConstructorError struct {
	ServiceType reflect.Type
	Count       int
}

func (e AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("ambiguous constructor selection for %s: %d constructors declared and none uniquely marked with InjectTarget",
		formatType(e.ServiceType), e.Count)
}

// IntrospectionError indicates constructor or parameter analysis failed
// partway. It is a distinct outcome from "no cycle found" so that analysis
// failures cannot mask real cycles.
type IntrospectionError struct {
	ServiceType reflect.Type
	Operation   string // "select-constructor", "analyze-parameters"
	Cause       error
}

func (e IntrospectionError) Error() string {
	return fmt.Sprintf("introspection failed for %s during %s: %v",
		formatType(e.ServiceType), e.Operation, e.Cause)
}

func (e IntrospectionError) Unwrap() error {
	return e.Cause
}

// RegistrationError wraps errors during component registration.
type RegistrationError struct {
	ServiceType reflect.Type
	Operation   string // "register", "bind", "analyze-constructor"
	Cause       error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, formatType(e.ServiceType), e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// RouteNotFoundError indicates no route matched the requested path and
// method.
type RouteNotFoundError struct {
	Path   string
	Method string
}

func (e RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// RouteError wraps a route construction failure. Malformed templates and
// missing handler methods are startup-time fatal conditions.
type RouteError struct {
	Method  string
	Path    string
	Handler string
	Cause   error
}

func (e RouteError) Error() string {
	return fmt.Sprintf("invalid route %s %s -> %s: %v", e.Method, e.Path, e.Handler, e.Cause)
}

func (e RouteError) Unwrap() error {
	return e.Cause
}

// RouteExecutionError wraps any failure during argument resolution or
// handler invocation. Route carries the route description.
type RouteExecutionError struct {
	Route string
	Cause error
}

func (e RouteExecutionError) Error() string {
	return fmt.Sprintf("failed to execute route %s: %v", e.Route, e.Cause)
}

func (e RouteExecutionError) Unwrap() error {
	return e.Cause
}

// ConversionError indicates a path or query value could not be coerced to
// the declared parameter type.
type ConversionError struct {
	Value      string
	TargetType reflect.Type
	Cause      error
}

func (e ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, formatType(e.TargetType), e.Cause)
	}
	return fmt.Sprintf("type conversion to %s is not supported (value %q)", formatType(e.TargetType), e.Value)
}

func (e ConversionError) Unwrap() error {
	return e.Cause
}

// BodyParseError indicates the request body could not be deserialized into
// the declared parameter type.
type BodyParseError struct {
	TargetType reflect.Type
	Cause      error
}

func (e BodyParseError) Error() string {
	return fmt.Sprintf("failed to parse request body into %s: %v", formatType(e.TargetType), e.Cause)
}

func (e BodyParseError) Unwrap() error {
	return e.Cause
}

// UnbindableParameterError indicates a handler parameter had no binding
// source. Only returned in strict binding mode; permissive routers bind the
// zero value instead.
type UnbindableParameterError struct {
	Route     string
	Index     int
	ParamType reflect.Type
}

func (e UnbindableParameterError) Error() string {
	return fmt.Sprintf("no binding source for parameter %d (%s) of route %s",
		e.Index, formatType(e.ParamType), e.Route)
}

// ========================================
// Error Predicates
// ========================================

// IsNotFound reports whether err indicates a missing registration or route.
func IsNotFound(err error) bool {
	var re RouteNotFoundError
	if errors.As(err, &re) {
		return true
	}
	return errors.Is(err, ErrNotRegistered)
}

// IsCircularDependency reports whether err is a circular dependency error.
func IsCircularDependency(err error) bool {
	var ce CircularDependencyError
	return errors.As(err, &ce)
}

// IsConversion reports whether err is a type conversion failure.
func IsConversion(err error) bool {
	var ce ConversionError
	return errors.As(err, &ce)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
