package solver

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a Solver
type Factory func() Solver

// Registry maps provider names to solver constructors
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a provider; registering the same name twice is an error
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("solver name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("solver %s: factory cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("solver %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// New constructs the named provider. Unknown names wrap ErrSolverUnavailable.
func (r *Registry) New(name string) (Solver, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q (available: %v)", ErrSolverUnavailable, name, r.Names())
	}
	return factory(), nil
}

// Names returns the registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
