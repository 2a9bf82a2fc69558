package native

import (
	"fmt"
	"slices"
	"sync"
)

// DriverDynamic is the name of the goffi driver that dlopens libinochi2d-c.
const DriverDynamic = "dynamic"

// Loader opens a Library. The path is driver specific; an empty path asks
// the driver for its default.
type Loader func(path string) (Library, error)

// registry holds registered drivers.
var (
	registryMu sync.RWMutex
	loaders    = make(map[string]Loader)
)

// Register registers a driver loader with the given name.
// This is typically called from init() functions in driver packages.
// If a driver with the same name is already registered, it will be replaced.
func Register(name string, loader Loader) {
	registryMu.Lock()
	defer registryMu.Unlock()
	loaders[name] = loader
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(loaders, name)
}

// Available returns the registered driver names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a driver with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := loaders[name]
	return ok
}

// Open loads a Library through the named driver.
func Open(name, path string) (Library, error) {
	registryMu.RLock()
	loader, ok := loaders[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}

	lib, err := loader(path)
	if err != nil {
		return nil, fmt.Errorf("native: driver %s: %w", name, err)
	}
	Logger().Debug("native: library opened", "driver", name, "path", path)
	return lib, nil
}

// OpenDefault loads a Library through the dynamic driver.
func OpenDefault(path string) (Library, error) {
	return Open(DriverDynamic, path)
}
