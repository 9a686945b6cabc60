package rivet

import (
	"reflect"
	"strings"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is an analyzed constructor function for a registered type.
type Constructor struct {
	// Func is the reflected function value.
	Func reflect.Value

	// Type is the type of the constructor function.
	Type reflect.Type

	// Params are the declared parameter types, in order. These are the
	// type's dependencies.
	Params []reflect.Type

	// InjectTarget marks this constructor as the preferred injection
	// target when a type declares more than one constructor.
	InjectTarget bool
}

// Descriptor holds the registered metadata for a constructible type.
// Descriptors are immutable once the registry publishes them;
// re-registering a type produces a merged copy that replaces the stored
// descriptor, never an in-place mutation.
type Descriptor struct {
	// Type is the service type this descriptor produces.
	Type reflect.Type

	// Kind classifies the type (injectable service or structural
	// component). KindNone descriptors are ignored by the registry.
	Kind Kind

	// Selector is the declared component selector. Empty selectors fall
	// back to the lower-cased simple type name.
	Selector string

	// Singleton determines instance caching. Defaults to true.
	Singleton bool

	// Constructors are the declared constructors, in registration order.
	Constructors []*Constructor

	// Providers are constructor functions for dependency types this
	// component declares. Provider types are auto-registrable: the
	// resolver may register them on the fly when a constructor parameter
	// requires one.
	Providers []any

	// Endpoints are the declared HTTP endpoints for structural
	// components. Ignored for injectables.
	Endpoints []Endpoint
}

// newConstructor analyzes a constructor function.
func newConstructor(ctor any, injectTarget bool) (*Constructor, error) {
	if ctor == nil {
		return nil, ErrConstructorNil
	}

	v := reflect.ValueOf(ctor)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, ErrConstructorNil
	}

	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}

	// The first return must be the produced value. A trailing error
	// return is allowed.
	if t.NumOut() == 0 || t.Out(0).Implements(errType) {
		return nil, ErrNoReturnValue
	}

	params := make([]reflect.Type, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		params[i] = t.In(i)
	}

	return &Constructor{
		Func:         v,
		Type:         t,
		Params:       params,
		InjectTarget: injectTarget,
	}, nil
}

// newDescriptor creates a descriptor from a constructor and registration
// options.
func newDescriptor(ctor any, opts ...Option) (*Descriptor, error) {
	options := &addOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	ct, err := newConstructor(ctor, options.injectTarget)
	if err != nil {
		return nil, RegistrationError{Operation: "analyze-constructor", Cause: err}
	}

	return &Descriptor{
		Type:         ct.Type.Out(0),
		Kind:         options.kind,
		Selector:     options.selector,
		Singleton:    !options.transient,
		Constructors: []*Constructor{ct},
		Providers:    options.providers,
		Endpoints:    options.endpoints,
	}, nil
}

// merged combines this descriptor with a re-registration of the same
// type and returns the combination as a new descriptor. The receiver is
// never mutated: descriptors already handed to readers stay immutable,
// and the registry swaps the merged copy in under its lock.
//
// The first registration's kind and lifetime win; a re-registration
// cannot reclassify a type. A selector is adopted only when the original
// registration declared none.
func (d *Descriptor) merged(other *Descriptor) *Descriptor {
	out := &Descriptor{
		Type:      d.Type,
		Kind:      d.Kind,
		Selector:  d.Selector,
		Singleton: d.Singleton,
	}
	if out.Selector == "" {
		out.Selector = other.Selector
	}

	out.Constructors = make([]*Constructor, 0, len(d.Constructors)+len(other.Constructors))
	out.Constructors = append(out.Constructors, d.Constructors...)
	out.Constructors = append(out.Constructors, other.Constructors...)

	out.Providers = make([]any, 0, len(d.Providers)+len(other.Providers))
	out.Providers = append(out.Providers, d.Providers...)
	out.Providers = append(out.Providers, other.Providers...)

	out.Endpoints = make([]Endpoint, 0, len(d.Endpoints)+len(other.Endpoints))
	out.Endpoints = append(out.Endpoints, d.Endpoints...)
	out.Endpoints = append(out.Endpoints, other.Endpoints...)

	return out
}

// selectConstructor applies the deterministic constructor selection policy:
//
//  1. a single declared constructor is used as-is
//  2. else the constructor uniquely marked as the injection target
//  3. else a zero-argument constructor, if one exists
//  4. else: strict mode fails with AmbiguousConstructorError; permissive
//     mode falls back to the first declared constructor
func (d *Descriptor) selectConstructor(strict bool) (*Constructor, error) {
	if len(d.Constructors) == 0 {
		return nil, IntrospectionError{
			ServiceType: d.Type,
			Operation:   "select-constructor",
			Cause:       ErrConstructorNil,
		}
	}

	if len(d.Constructors) == 1 {
		return d.Constructors[0], nil
	}

	var target *Constructor
	targets := 0
	for _, ct := range d.Constructors {
		if ct.InjectTarget {
			target = ct
			targets++
		}
	}
	if targets == 1 {
		return target, nil
	}

	for _, ct := range d.Constructors {
		if len(ct.Params) == 0 {
			return ct, nil
		}
	}

	if strict {
		return nil, AmbiguousConstructorError{
			ServiceType: d.Type,
			Count:       len(d.Constructors),
		}
	}

	return d.Constructors[0], nil
}

// dependencies returns the parameter types of the selected constructor.
func (d *Descriptor) dependencies(strict bool) ([]reflect.Type, error) {
	ct, err := d.selectConstructor(strict)
	if err != nil {
		return nil, err
	}
	return ct.Params, nil
}

// selectorOrDefault returns the declared selector, or the lower-cased
// simple type name when the selector is empty.
func (d *Descriptor) selectorOrDefault() string {
	if d.Selector != "" {
		return d.Selector
	}
	return strings.ToLower(simpleTypeName(d.Type))
}

// simpleTypeName returns the unqualified name of a type, unwrapping one
// level of pointer indirection.
func simpleTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
