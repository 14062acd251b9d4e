// Package fields provides the field-type registry, the per-record-type
// field catalogs, and the merge engine that composes the final field list
// a form renders from. The registry is populated at init time from the
// built-in catalog and optionally extended from a YAML catalog file.
package fields

import (
	"sort"

	"github.com/shearsapp/shears/internal/types"
)

// Registry holds the reusable base field-type definitions, keyed by base
// type key. It is populated once at startup and is safe for concurrent
// read access.
type Registry struct {
	defs  map[string]*types.FieldDefinition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*types.FieldDefinition)}
}

// Register adds a base definition under its field key. Re-registering a
// key replaces the definition in place.
func (r *Registry) Register(def types.FieldDefinition) {
	if _, exists := r.defs[def.Field]; !exists {
		r.order = append(r.order, def.Field)
	}
	d := def
	r.defs[def.Field] = &d
}

// Base returns the base definition for a type key, or nil if not found.
func (r *Registry) Base(key string) *types.FieldDefinition {
	return r.defs[key]
}

// Keys returns all registered base type keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Catalog pairs a registry with the record-type field lists that reference
// it. Merged lists are derived on demand and never cached across catalog
// mutations.
type Catalog struct {
	registry    *Registry
	recordTypes map[string][]types.OverrideSpec
}

// NewCatalog creates a catalog over the given registry.
func NewCatalog(reg *Registry) *Catalog {
	return &Catalog{
		registry:    reg,
		recordTypes: make(map[string][]types.OverrideSpec),
	}
}

// Registry returns the underlying base-type registry.
func (c *Catalog) Registry() *Registry {
	return c.registry
}

// SetRecordType registers (or replaces) the field list for a record type.
func (c *Catalog) SetRecordType(name string, specs []types.OverrideSpec) {
	c.recordTypes[name] = specs
}

// RecordType returns the override specs for a record type, or nil.
func (c *Catalog) RecordType(name string) []types.OverrideSpec {
	return c.recordTypes[name]
}

// RecordTypeNames returns all record-type names in sorted order.
func (c *Catalog) RecordTypeNames() []string {
	names := make([]string, 0, len(c.recordTypes))
	for n := range c.recordTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merged composes the final field list for a record type. The second
// return reports whether the record type is known.
func (c *Catalog) Merged(name string) ([]types.FieldDefinition, bool) {
	specs, ok := c.recordTypes[name]
	if !ok {
		return nil, false
	}
	return Merge(specs, c.registry), true
}
