package rivet

import "log/slog"

// addOptions accumulates registration metadata. This is the information
// the registry classifies descriptors by; it replaces what an
// annotation-based host language would declare on the type itself.
type addOptions struct {
	kind         Kind
	selector     string
	transient    bool
	injectTarget bool
	providers    []any
	endpoints    []Endpoint
}

// Option configures a single registration.
type Option func(*addOptions)

// AsInjectable marks the registered type as a plain injectable service.
func AsInjectable() Option {
	return func(o *addOptions) {
		o.kind = KindInjectable
	}
}

// AsComponent marks the registered type as a structural component with the
// given selector. An empty selector derives a default from the type name.
func AsComponent(selector string) Option {
	return func(o *addOptions) {
		o.kind = KindComponent
		o.selector = selector
	}
}

// Transient opts the type out of singleton caching: every resolution
// constructs a fresh instance.
func Transient() Option {
	return func(o *addOptions) {
		o.transient = true
	}
}

// InjectTarget marks this constructor as the preferred one when the type
// declares more than one constructor.
func InjectTarget() Option {
	return func(o *addOptions) {
		o.injectTarget = true
	}
}

// WithProviders declares constructor functions for dependency types of
// this component. Provider types are auto-registrable: the resolver
// registers them on demand when a constructor parameter requires one.
func WithProviders(ctors ...any) Option {
	return func(o *addOptions) {
		o.providers = append(o.providers, ctors...)
	}
}

// WithEndpoints declares the HTTP endpoints a structural component
// exposes. The route table builder compiles these into routes when the
// router is constructed.
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(o *addOptions) {
		o.endpoints = append(o.endpoints, endpoints...)
	}
}

// containerOptions holds container-wide configuration.
type containerOptions struct {
	strictConstructors bool
	logger             *slog.Logger
}

// ContainerOption configures a Container.
type ContainerOption func(*containerOptions)

// WithStrictConstructorSelection makes ambiguous constructor selection an
// error instead of falling back to the first declared constructor.
func WithStrictConstructorSelection() ContainerOption {
	return func(o *containerOptions) {
		o.strictConstructors = true
	}
}

// WithLogger sets the logger used for container diagnostics. Defaults to
// slog.Default.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(o *containerOptions) {
		o.logger = logger
	}
}
