package rivet

import (
	"reflect"
	"sync"
)

// Registry is the metadata registry: it owns the component descriptors,
// classified by kind. Membership reads return copies so that callers can
// iterate safely while other goroutines register types.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]*Descriptor

	// Registration order, preserved so that route discovery and debug
	// output are deterministic.
	order       []reflect.Type
	components  []reflect.Type
	injectables []reflect.Type

	// providers maps a dependency type to the constructor declared for
	// it via WithProviders. Types present here are auto-registrable.
	providers map[reflect.Type]any
}

// NewRegistry creates an empty metadata registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[reflect.Type]*Descriptor),
		providers:   make(map[reflect.Type]any),
	}
}

// Register classifies a descriptor by kind and adds it to the matching
// membership set. Registering a KindNone descriptor is a no-op.
// Registering a type again publishes a merged copy of the stored
// descriptor; the first registration's kind and lifetime win.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil || desc.Kind == KindNone {
		return nil
	}

	providerTypes, err := analyzeProviders(desc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.descriptors[desc.Type]
	if ok {
		// Copy-on-write: readers may hold the existing descriptor
		// outside the lock, so it is never mutated. The merged copy
		// replaces it atomically under the lock.
		r.descriptors[desc.Type] = existing.merged(desc)
	} else {
		r.descriptors[desc.Type] = desc
		r.order = append(r.order, desc.Type)
		switch desc.Kind {
		case KindComponent:
			r.components = append(r.components, desc.Type)
		case KindInjectable:
			r.injectables = append(r.injectables, desc.Type)
		}
	}

	for t, ctor := range providerTypes {
		r.providers[t] = ctor
	}

	return nil
}

// analyzeProviders maps each declared provider constructor to the type it
// produces. Invalid provider constructors fail the registration.
func analyzeProviders(desc *Descriptor) (map[reflect.Type]any, error) {
	if len(desc.Providers) == 0 {
		return nil, nil
	}

	out := make(map[reflect.Type]any, len(desc.Providers))
	for _, ctor := range desc.Providers {
		ct, err := newConstructor(ctor, false)
		if err != nil {
			return nil, RegistrationError{
				ServiceType: desc.Type,
				Operation:   "register",
				Cause:       err,
			}
		}
		out[ct.Type.Out(0)] = ctor
	}
	return out, nil
}

// Descriptor returns the descriptor for a type, if registered.
func (r *Registry) Descriptor(t reflect.Type) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return d, ok
}

// IsRegistered reports whether the type is in the registry.
func (r *Registry) IsRegistered(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[t]
	return ok
}

// IsComponent reports whether the type is a structural component.
func (r *Registry) IsComponent(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return ok && d.Kind == KindComponent
}

// IsInjectable reports whether the type is an injectable service.
func (r *Registry) IsInjectable(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return ok && d.Kind == KindInjectable
}

// Selector returns the component selector for a type: the declared
// selector, or the lower-cased simple type name when none was declared.
// The second return is false when the type is not a structural component.
func (r *Registry) Selector(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	if !ok || d.Kind != KindComponent {
		return "", false
	}
	return d.selectorOrDefault(), true
}

// Providers returns the declared provider constructors for a type, or an
// empty slice.
func (r *Registry) Providers(t reflect.Type) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	if !ok || len(d.Providers) == 0 {
		return nil
	}
	out := make([]any, len(d.Providers))
	copy(out, d.Providers)
	return out
}

// providerFor returns the auto-registrable constructor declared for a
// dependency type, if any.
func (r *Registry) providerFor(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.providers[t]
	return ctor, ok
}

// Components returns the structural component descriptors in registration
// order.
func (r *Registry) Components() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.components))
	for _, t := range r.components {
		out = append(out, r.descriptors[t])
	}
	return out
}

// Injectables returns the injectable service descriptors in registration
// order.
func (r *Registry) Injectables() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.injectables))
	for _, t := range r.injectables {
		out = append(out, r.descriptors[t])
	}
	return out
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.descriptors[t])
	}
	return out
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Clear removes all registrations. Intended for tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors = make(map[reflect.Type]*Descriptor)
	r.providers = make(map[reflect.Type]any)
	r.order = nil
	r.components = nil
	r.injectables = nil
}
