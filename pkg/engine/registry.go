package engine

import "sync"

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	Kind        Kind
	DisplayName string
	Description string
}

// Registration binds an adapter implementation to its info.
type Registration struct {
	Info    AdapterInfo
	Adapter Adapter
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Kind]Registration)
)

// Register is called by each adapter package's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Kind] = reg
}

// RegisteredAdapters returns info for all registered adapters.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// IsRegistered checks if an adapter for the engine is available.
func IsRegistered(kind Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}

func lookupAdapter(kind Kind) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[kind]
	return reg.Adapter, ok
}
