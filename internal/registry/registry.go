// Package registry is the static catalog of every operation the gateway
// can perform. Capability class and destructiveness are declared per
// descriptor, never inferred from naming conventions, so a new operation
// cannot silently land in the wrong class.
package registry

import (
	"context"
	"fmt"
)

// Class is an operation's capability class.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

// Destructiveness marks whether a write operation's effect can be undone.
// Only meaningful for ClassWrite descriptors.
type Destructiveness string

const (
	Reversible   Destructiveness = "reversible"
	Irreversible Destructiveness = "irreversible"
)

// Handler executes one operation. Input is the raw decoded argument map;
// the returned value is the caller-visible payload.
type Handler func(ctx context.Context, input map[string]any) (any, error)

// Summarizer extracts a salient identifier from a write result for the
// audit trail (e.g. the created monitor's ID). Optional per descriptor;
// an empty return simply omits the detail.
type Summarizer func(result any) string

// Descriptor describes one dispatchable operation. Immutable after
// registration.
type Descriptor struct {
	Name            string
	Class           Class
	Destructiveness Destructiveness
	Description     string
	Handler         Handler
	Summarize       Summarizer
}

// Registry maps operation names to descriptors. Built once at startup;
// read-only thereafter.
type Registry struct {
	byName map[string]Descriptor
	order  []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds a descriptor. Every operation name must map to exactly one
// descriptor, so duplicates and incomplete entries are rejected.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("registry: descriptor has empty name")
	}
	if d.Class != ClassRead && d.Class != ClassWrite {
		return fmt.Errorf("registry: operation %q has invalid class %q", d.Name, d.Class)
	}
	if d.Class == ClassWrite && d.Destructiveness != Reversible && d.Destructiveness != Irreversible {
		return fmt.Errorf("registry: write operation %q has invalid destructiveness %q", d.Name, d.Destructiveness)
	}
	if d.Handler == nil {
		return fmt.Errorf("registry: operation %q has no handler", d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("registry: duplicate operation %q", d.Name)
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor for a name. Unknown names return ok=false,
// never an error.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.order)
}
