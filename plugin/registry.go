package plugin

import (
	"fmt"
	"sync"
)

// Registry maintains a mapping of plugin namespaces to their classifiers.
// Plugin packages should register themselves using Register.
type Registry struct {
	mu          sync.RWMutex
	classifiers map[string]Classifier
}

// DefaultRegistry is the global plugin registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{classifiers: make(map[string]Classifier)}
}

// Register adds a classifier to the registry under its namespace.
func (r *Registry) Register(c Classifier) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classifiers[c.Namespace()] = c
}

// Lookup returns the classifier registered for the namespace.
func (r *Registry) Lookup(namespace string) (Classifier, error) {
	r.mu.RLock()
	c, ok := r.classifiers[namespace]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown plugin: %q (registered: %v)", namespace, r.Names())
	}
	return c, nil
}

// Names returns the list of registered plugin namespaces.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classifiers))
	for name := range r.classifiers {
		names = append(names, name)
	}
	return names
}

// Has returns true if a classifier is registered for the namespace.
func (r *Registry) Has(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classifiers[namespace]
	return ok
}

// Register adds a classifier to the default registry.
func Register(c Classifier) {
	DefaultRegistry.Register(c)
}

// Lookup returns a classifier from the default registry.
func Lookup(namespace string) (Classifier, error) {
	return DefaultRegistry.Lookup(namespace)
}
