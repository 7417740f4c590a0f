package tool

import "fmt"

// Registry holds the operation catalog in registration order. It is built
// once at startup and read-only afterwards, so no locking is needed.
type Registry struct {
	order       []string
	definitions map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]*Definition)}
}

// Register adds a definition. Duplicate names are a programming error and
// rejected outright.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool definition has no name")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, exists := r.definitions[def.Name]; exists {
		return fmt.Errorf("tool %q registered twice", def.Name)
	}
	r.order = append(r.order, def.Name)
	r.definitions[def.Name] = &def
	return nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.definitions[name].Descriptor)
	}
	return out
}

// Lookup returns the definition for an exact name match.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// Len reports the catalog size.
func (r *Registry) Len() int {
	return len(r.order)
}
