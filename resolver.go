package rivet

import (
	"reflect"
	"slices"
)

// Resolver resolves constructor dependencies against the container and
// performs cycle detection over declared constructor parameter types.
type Resolver struct {
	container *Container
}

func newResolver(c *Container) *Resolver {
	return &Resolver{container: c}
}

// resolveDependencies returns one resolved argument per declared parameter
// of the constructor, in order.
func (r *Resolver) resolveDependencies(ct *Constructor) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(ct.Params))
	for i, pt := range ct.Params {
		instance, err := r.resolveDependency(pt)
		if err != nil {
			return nil, err
		}
		if instance == nil {
			args[i] = reflect.Zero(pt)
			continue
		}
		args[i] = reflect.ValueOf(instance)
	}
	return args, nil
}

// resolveDependency obtains a single dependency:
//
//  1. a registered or bound type is resolved through the container
//  2. a type with a declared provider constructor is registered on the
//     fly, then resolved
//  3. anything else fails with a ResolutionError
func (r *Resolver) resolveDependency(t reflect.Type) (any, error) {
	if r.container.IsRegistered(t) {
		return r.container.get(t)
	}

	if ctor, ok := r.container.registry.providerFor(t); ok {
		if err := r.container.Register(ctor, AsInjectable()); err != nil {
			return nil, err
		}
		return r.container.get(t)
	}

	return nil, ResolutionError{ServiceType: t, Cause: ErrNotRegistered}
}

// HasCircularDependency performs a depth-first traversal over declared
// constructor parameter types, carrying the active visitation path. It
// returns true the moment a type reappears in the path. A failure to
// introspect a constructor is a distinct error outcome, never silently
// treated as "no cycle".
func (r *Resolver) HasCircularDependency(t reflect.Type) (bool, error) {
	path, err := r.findCycle(t, nil)
	if err != nil {
		return false, err
	}
	return path != nil, nil
}

// findCycle returns the visitation path that closed a cycle, or nil when
// traversal completes without revisiting a type.
func (r *Resolver) findCycle(t reflect.Type, path []reflect.Type) ([]reflect.Type, error) {
	if slices.Contains(path, t) {
		return append(slices.Clone(path), t), nil
	}

	path = append(path, t)

	deps, err := r.dependenciesOf(t)
	if err != nil {
		return nil, err
	}

	for _, dep := range deps {
		dep = r.container.bindingTarget(dep)
		cycle, err := r.findCycle(dep, path)
		if err != nil || cycle != nil {
			return cycle, err
		}
	}

	return nil, nil
}

// dependenciesOf returns the declared parameter types of a type's selected
// constructor. Types with no descriptor and no declared provider are
// leaves here; resolution reports them separately.
func (r *Resolver) dependenciesOf(t reflect.Type) ([]reflect.Type, error) {
	if desc, ok := r.container.registry.Descriptor(t); ok {
		return desc.dependencies(r.container.opts.strictConstructors)
	}

	if ctor, ok := r.container.registry.providerFor(t); ok {
		ct, err := newConstructor(ctor, false)
		if err != nil {
			return nil, IntrospectionError{
				ServiceType: t,
				Operation:   "analyze-parameters",
				Cause:       err,
			}
		}
		return ct.Params, nil
	}

	return nil, nil
}

// DependencyChain returns the transitive dependency types reachable from
// the root, in depth-first order, for debugging. Analysis failures end the
// branch instead of failing the walk.
func (r *Resolver) DependencyChain(root reflect.Type) []reflect.Type {
	var chain []reflect.Type
	r.buildChain(root, &chain)
	return chain
}

func (r *Resolver) buildChain(t reflect.Type, chain *[]reflect.Type) {
	if slices.Contains(*chain, t) {
		return
	}
	*chain = append(*chain, t)

	deps, err := r.dependenciesOf(t)
	if err != nil {
		return
	}
	for _, dep := range deps {
		r.buildChain(r.container.bindingTarget(dep), chain)
	}
}
