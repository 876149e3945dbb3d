package tools

import "fmt"

// Registry is an insertion-ordered collection of tool definitions. It is
// built once during startup and read-only afterwards, so concurrent
// lookups need no locking.
type Registry struct {
	order  []string
	byName map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Definition{}}
}

// Register adds a definition. A duplicate name is a configuration error
// and fails startup rather than silently overwriting.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, exists := r.byName[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.byName[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the definition for name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// List returns the definitions in registration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
