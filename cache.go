package rivet

import (
	"reflect"
	"sync"
)

// singletonCache provides thread-safe caching for singleton instances.
// Creation is guarded per type: when two callers race to resolve the same
// uncached type, exactly one constructor runs and the loser waits for its
// result. Failed constructions are never cached.
type singletonCache struct {
	mu        sync.RWMutex
	instances map[reflect.Type]any
	inflight  map[reflect.Type]*inflightCall
}

// inflightCall tracks a construction in progress for one type.
type inflightCall struct {
	done  chan struct{}
	value any
	err   error
}

// newSingletonCache creates an empty cache.
func newSingletonCache() *singletonCache {
	return &singletonCache{
		instances: make(map[reflect.Type]any),
		inflight:  make(map[reflect.Type]*inflightCall),
	}
}

// get retrieves a cached instance.
func (c *singletonCache) get(t reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[t]
	return instance, ok
}

// getOrCreate returns the cached instance for t, or runs build exactly
// once to produce it. Concurrent callers for the same type block until the
// winning build completes and share its outcome; an error outcome leaves
// the cache empty so a later call can retry.
func (c *singletonCache) getOrCreate(t reflect.Type, build func() (any, error)) (any, error) {
	c.mu.RLock()
	if instance, ok := c.instances[t]; ok {
		c.mu.RUnlock()
		return instance, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	if instance, ok := c.instances[t]; ok {
		c.mu.Unlock()
		return instance, nil
	}
	if call, ok := c.inflight[t]; ok {
		c.mu.Unlock()
		<-call.done
		return call.value, call.err
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[t] = call
	c.mu.Unlock()

	call.value, call.err = build()

	c.mu.Lock()
	if call.err == nil {
		c.instances[t] = call.value
	}
	delete(c.inflight, t)
	c.mu.Unlock()

	close(call.done)
	return call.value, call.err
}

// delete removes an instance from the cache.
func (c *singletonCache) delete(t reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, t)
}

// clear removes all cached instances.
func (c *singletonCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[reflect.Type]any)
}

// size returns the number of cached instances.
func (c *singletonCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}
