package verticle

import (
	"fmt"
	"log/slog"
)

// Registry maps verticle names to factories, populated at process build
// time by modules. Configuration refers to verticles purely by name.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates and initializes a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a verticle factory under a name. Registering the same name
// twice is a programmer error.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("verticle factory with name '%s' already registered", name))
	}
	slog.Debug("Registering verticle factory.", "name", name)
	r.factories[name] = f
}

// Resolve looks up the factory registered under name.
func (r *Registry) Resolve(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no verticle factory registered under name %q", name)
	}
	return f, nil
}

// Len reports how many factories are registered.
func (r *Registry) Len() int {
	return len(r.factories)
}
