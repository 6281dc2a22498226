package export

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps format names to their exporters.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// DefaultRegistry holds every built-in format.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(XMLBIF{})
	r.Register(YAML{})
	return r
}

// Register adds an exporter. Panics on a duplicate format to surface
// misconfiguration early.
func (r *Registry) Register(e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.exporters[e.Format()]; exists {
		panic(fmt.Sprintf("export registry: duplicate format %q", e.Format()))
	}
	r.exporters[e.Format()] = e
}

// Get returns the exporter for the given format.
func (r *Registry) Get(format string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("no exporter registered for format %q", format)
	}
	return e, nil
}

// Formats returns all registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.exporters))
	for k := range r.exporters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
