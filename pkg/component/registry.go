package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-untemplate/pkg/extract"
)

// Registry stores component codecs by tag name. Lookup is case sensitive
// because tag names are: <PropertyTable /> and <propertytable /> are
// different tags, and only the capitalized form parses as a component.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*Component),
	}
}

// DefaultRegistry returns a registry preloaded with the built-in codecs:
// PropertyTable and BulletList.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(NewPropertyTable())
	registry.MustRegister(NewBulletList())
	return registry
}

// Register adds a codec under its Name(). Existing entries are replaced so
// callers can override a built-in.
func (r *Registry) Register(c *Component) error {
	if c == nil {
		return fmt.Errorf("component: component is required")
	}
	if c.Name() == "" {
		return fmt.Errorf("component: component name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.components[c.Name()] = c
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(c *Component) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a codec by tag name.
func (r *Registry) Get(name string) (*Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("component: %q not registered", name)
	}
	return c, nil
}

// List returns the sorted registered tag names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a tag name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.components[name]
	return ok
}

// Extractors snapshots the registry as the capability map an extraction
// request carries. Mutating the registry afterwards does not affect the
// returned map.
func (r *Registry) Extractors() map[string]extract.ComponentExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]extract.ComponentExtractor, len(r.components))
	for name, c := range r.components {
		out[name] = c
	}
	return out
}
