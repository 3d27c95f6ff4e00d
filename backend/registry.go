package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/graphview"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Default (first registered wins).
	backendPriority = []string{BackendPipeline, BackendRaster}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get creates a renderer from the named backend.
func Get(name string, width, height int) (graphview.Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}

	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrBackendNotAvailable)
	}
	return factory(width, height)
}

// Default creates a renderer from the best available backend.
// Priority order: pipeline > raster > any other registered backend.
func Default(width, height int) (graphview.Renderer, error) {
	registryMu.RLock()
	names := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range backends {
		if name != BackendPipeline && name != BackendRaster {
			rest = append(rest, name)
		}
	}
	registryMu.RUnlock()

	sort.Strings(rest)
	names = append(names, rest...)

	var lastErr error = ErrBackendNotAvailable
	for _, name := range names {
		r, err := Get(name, width, height)
		if err == nil {
			return r, nil
		}
		graphview.Logger().Warn("backend: unavailable, trying next", "backend", name, "err", err)
		lastErr = err
	}
	return nil, lastErr
}
