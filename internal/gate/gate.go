// Package gate enforces the capability boundary between the resolved
// operating mode and the operation catalog.
package gate

import (
	"github.com/obsgate/obsgate/internal/mode"
	"github.com/obsgate/obsgate/internal/registry"
)

// Gate answers permission questions for the current process. The mode is
// fixed at construction and never mutated, so no locking is needed.
type Gate struct {
	reg *registry.Registry
	m   mode.Mode
}

// New builds a gate over the catalog for the resolved mode.
func New(reg *registry.Registry, m mode.Mode) *Gate {
	return &Gate{reg: reg, m: m}
}

// Mode returns the process-wide operating mode.
func (g *Gate) Mode() mode.Mode {
	return g.m
}

// Permitted reports whether the named operation may run right now.
// Unknown names fail closed.
func (g *Gate) Permitted(name string) bool {
	d, ok := g.reg.Lookup(name)
	if !ok {
		return false
	}
	if d.Class == registry.ClassRead {
		return true
	}
	return g.m == mode.ReadWrite
}

// IsWriteClass reports whether the named operation belongs to the write
// class, independent of mode. Used for audit routing: denied write
// attempts are still recorded.
func (g *Gate) IsWriteClass(name string) bool {
	d, ok := g.reg.Lookup(name)
	return ok && d.Class == registry.ClassWrite
}

// PermittedOps returns the descriptors permitted under the current mode,
// in catalog order. This is what the gateway advertises to clients.
func (g *Gate) PermittedOps() []registry.Descriptor {
	var out []registry.Descriptor
	for _, d := range g.reg.All() {
		if g.Permitted(d.Name) {
			out = append(out, d)
		}
	}
	return out
}
