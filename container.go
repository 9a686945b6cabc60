package rivet

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Container is the instance container: it owns the singleton cache and the
// interface-to-implementation bindings, and orchestrates the resolver and
// the metadata registry to produce or retrieve instances.
type Container struct {
	id       string
	registry *Registry
	resolver *Resolver
	cache    *singletonCache
	opts     containerOptions
	log      *slog.Logger

	// bindings maps an abstract type to its concrete implementation.
	// One level only, last write wins.
	bindingMu sync.RWMutex
	bindings  map[reflect.Type]reflect.Type

	// checked caches cycle-check results so the DFS runs at most once per
	// type between registrations.
	checkedMu sync.Mutex
	checked   map[reflect.Type]struct{}
}

// NewContainer creates an empty container.
func NewContainer(opts ...ContainerOption) *Container {
	options := containerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	c := &Container{
		id:       uuid.NewString(),
		registry: NewRegistry(),
		cache:    newSingletonCache(),
		opts:     options,
		log:      options.logger,
		bindings: make(map[reflect.Type]reflect.Type),
		checked:  make(map[reflect.Type]struct{}),
	}
	c.resolver = newResolver(c)
	return c
}

// ID returns the container's unique identity, used in log records.
func (c *Container) ID() string {
	return c.id
}

// Registry returns the metadata registry.
func (c *Container) Registry() *Registry {
	return c.registry
}

// Resolver returns the dependency resolver.
func (c *Container) Resolver() *Resolver {
	return c.resolver
}

// Register analyzes a constructor and registers its produced type with the
// metadata registry. Registrations without a kind option are a no-op, like
// registering an unmarked type.
func (c *Container) Register(ctor any, opts ...Option) error {
	desc, err := newDescriptor(ctor, opts...)
	if err != nil {
		return err
	}
	if desc.Kind == KindNone {
		return nil
	}

	if err := c.registry.Register(desc); err != nil {
		return err
	}
	c.invalidateCycleChecks()

	c.log.Debug("registered component",
		"container", c.id,
		"type", formatType(desc.Type),
		"kind", desc.Kind.String(),
		"singleton", desc.Singleton)
	return nil
}

// Bind installs a binding from the abstract type A to the concrete type
// produced by ctor, and registers the concrete type. Re-binding an already
// bound abstract type silently overwrites the previous binding.
func Bind[A any](c *Container, ctor any, opts ...Option) error {
	abstract := TypeOf[A]()

	// A bound implementation is injectable unless the registration says
	// otherwise, so that get on the abstract type always has a
	// constructible target.
	opts = append([]Option{AsInjectable()}, opts...)

	desc, err := newDescriptor(ctor, opts...)
	if err != nil {
		return RegistrationError{ServiceType: abstract, Operation: "bind", Cause: err}
	}

	if !desc.Type.AssignableTo(abstract) {
		return RegistrationError{
			ServiceType: abstract,
			Operation:   "bind",
			Cause:       fmt.Errorf("%s does not implement %s", formatType(desc.Type), formatType(abstract)),
		}
	}

	if err := c.Register(ctor, opts...); err != nil {
		return err
	}

	c.bindingMu.Lock()
	c.bindings[abstract] = desc.Type
	c.bindingMu.Unlock()
	c.invalidateCycleChecks()

	c.log.Debug("installed binding",
		"container", c.id,
		"abstract", formatType(abstract),
		"concrete", formatType(desc.Type))
	return nil
}

// bindingTarget resolves a type through any installed binding. One level,
// not chained.
func (c *Container) bindingTarget(t reflect.Type) reflect.Type {
	c.bindingMu.RLock()
	defer c.bindingMu.RUnlock()
	if target, ok := c.bindings[t]; ok {
		return target
	}
	return t
}

// IsRegistered reports whether the type is registered directly or
// reachable through a binding.
func (c *Container) IsRegistered(t reflect.Type) bool {
	if c.registry.IsRegistered(t) {
		return true
	}
	c.bindingMu.RLock()
	defer c.bindingMu.RUnlock()
	_, ok := c.bindings[t]
	return ok
}

// get resolves an instance of the requested type, constructing it and its
// dependency graph as needed.
func (c *Container) get(t reflect.Type) (any, error) {
	t = c.bindingTarget(t)

	desc, ok := c.registry.Descriptor(t)
	if !ok {
		if ctor, found := c.registry.providerFor(t); found {
			if err := c.Register(ctor, AsInjectable()); err != nil {
				return nil, err
			}
			desc, ok = c.registry.Descriptor(t)
		}
		if !ok {
			return nil, ResolutionError{ServiceType: t, Cause: ErrNotRegistered}
		}
	}

	if !desc.Singleton {
		return c.construct(desc)
	}

	return c.cache.getOrCreate(t, func() (any, error) {
		return c.construct(desc)
	})
}

// construct builds a new instance: cycle pre-check, constructor selection,
// recursive argument resolution, then invocation. Failures are wrapped as
// InstantiationError and never cached.
func (c *Container) construct(desc *Descriptor) (instance any, err error) {
	if err := c.ensureAcyclic(desc.Type); err != nil {
		return nil, err
	}

	ct, err := desc.selectConstructor(c.opts.strictConstructors)
	if err != nil {
		return nil, InstantiationError{ServiceType: desc.Type, Cause: err}
	}

	args, err := c.resolver.resolveDependencies(ct)
	if err != nil {
		return nil, InstantiationError{ServiceType: desc.Type, Cause: err}
	}

	defer func() {
		if r := recover(); r != nil {
			err = InstantiationError{
				ServiceType: desc.Type,
				Cause:       fmt.Errorf("constructor panicked: %v", r),
			}
		}
	}()

	out := ct.Func.Call(args)
	if len(out) > 1 {
		if last := out[len(out)-1]; last.Type().Implements(errType) && !last.IsNil() {
			return nil, InstantiationError{ServiceType: desc.Type, Cause: last.Interface().(error)}
		}
	}

	return out[0].Interface(), nil
}

// ensureAcyclic runs the cycle check once per type before eager
// construction. Without this guard a genuinely circular graph would
// recurse without bound.
func (c *Container) ensureAcyclic(t reflect.Type) error {
	c.checkedMu.Lock()
	if _, done := c.checked[t]; done {
		c.checkedMu.Unlock()
		return nil
	}
	c.checkedMu.Unlock()

	cycle, err := c.resolver.findCycle(t, nil)
	if err != nil {
		return InstantiationError{ServiceType: t, Cause: err}
	}
	if cycle != nil {
		return CircularDependencyError{ServiceType: t, Path: cycle}
	}

	c.checkedMu.Lock()
	c.checked[t] = struct{}{}
	c.checkedMu.Unlock()
	return nil
}

// invalidateCycleChecks discards cached cycle-check results. New
// registrations and bindings can change the dependency graph.
func (c *Container) invalidateCycleChecks() {
	c.checkedMu.Lock()
	c.checked = make(map[reflect.Type]struct{})
	c.checkedMu.Unlock()
}

// Reset discards all cached singleton instances. Descriptors and bindings
// survive; the next resolution constructs fresh instances.
func (c *Container) Reset() {
	c.cache.clear()
}

// Get resolves an instance of T from the container.
func Get[T any](c *Container) (T, error) {
	instance, err := c.get(TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, ResolutionError{
			ServiceType: TypeOf[T](),
			Cause:       fmt.Errorf("resolved instance is %T", instance),
		}
	}
	return typed, nil
}

// MustGet is like Get but panics on failure. Intended for wiring code that
// runs at startup.
func MustGet[T any](c *Container) T {
	instance, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return instance
}

// Registered reports whether T is registered directly or through a
// binding.
func Registered[T any](c *Container) bool {
	return c.IsRegistered(TypeOf[T]())
}

// TypeOf returns the reflect.Type token for T. Works for interface types
// as well as concrete ones.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
