package engine

import (
	"fmt"
	"sort"
	"sync"
)

// ClientConfig describes one named engine client: which provider and model
// serve calls routed to it. Options carries provider-specific settings
// opaquely.
type ClientConfig struct {
	Provider string
	Model    string
	Options  map[string]string
}

// ClientRegistry is a thread-safe store of named engine client configs with
// an optional primary. When a primary is set, the bridge attaches it to
// every request that does not override the client itself.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]ClientConfig
	primary string
}

// NewClientRegistry creates an empty client registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]ClientConfig)}
}

// Register adds or replaces a client config under the given name.
func (r *ClientRegistry) Register(name string, cfg ClientConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = cfg
}

// Get retrieves a client config by name.
func (r *ClientRegistry) Get(name string) (ClientConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.clients[name]
	return cfg, ok
}

// SetPrimary designates a registered client as the primary.
func (r *ClientRegistry) SetPrimary(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[name]; !ok {
		return fmt.Errorf("client %q not registered", name)
	}
	r.primary = name
	return nil
}

// Primary returns the primary client config and its name. ok is false when
// no primary has been set.
func (r *ClientRegistry) Primary() (ClientConfig, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.primary == "" {
		return ClientConfig{}, "", false
	}
	cfg, ok := r.clients[r.primary]
	return cfg, r.primary, ok
}

// List returns the sorted names of all registered clients.
func (r *ClientRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered clients.
func (r *ClientRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
