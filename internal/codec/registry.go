package codec

import (
	"fmt"
	"log/slog"

	"github.com/vk/vesselgo/internal/bus"
)

// Factory constructs a fresh codec instance for registration on the bus.
type Factory func() bus.Codec

// Registry maps codec identifiers to factories. It is populated at process
// build time by modules; configuration then refers to codecs purely by name.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a codec factory under an identifier. Registering the same
// identifier twice is a programmer error.
func (r *Registry) Register(identifier string, f Factory) {
	if _, exists := r.factories[identifier]; exists {
		panic(fmt.Sprintf("codec factory with identifier '%s' already registered", identifier))
	}
	slog.Debug("Registering codec factory.", "identifier", identifier)
	r.factories[identifier] = f
}

// Resolve instantiates the codec registered under identifier.
func (r *Registry) Resolve(identifier string) (bus.Codec, error) {
	f, ok := r.factories[identifier]
	if !ok {
		return nil, fmt.Errorf("no codec factory registered under identifier %q", identifier)
	}
	return f(), nil
}

// Len reports how many factories are registered.
func (r *Registry) Len() int {
	return len(r.factories)
}
