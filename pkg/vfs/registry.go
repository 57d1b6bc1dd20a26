package vfs

import "sync"

// DefaultName is the driver every connection starts on.
const DefaultName = "memvfs"

var (
	registryOnce sync.Once
	registryMu   sync.RWMutex
	registry     map[string]VFS
)

// initRegistry installs the built-in driver. Computed once; the registry
// holds no owned resources, so there is no teardown.
func initRegistry() {
	registryOnce.Do(func() {
		registry = map[string]VFS{
			DefaultName: memVFS{},
		}
	})
}

// Register adds a driver under its Name. Re-registering a name replaces the
// previous driver.
func Register(v VFS) {
	initRegistry()
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[v.Name()] = v
}

// Find returns the driver registered under name, or nil if none. The empty
// name resolves to the built-in default.
func Find(name string) VFS {
	initRegistry()
	if name == "" {
		name = DefaultName
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}
