package form

import (
	"github.com/shearsapp/shears/internal/fieldpath"
	"github.com/shearsapp/shears/internal/types"
)

// FindDefinition resolves the field definition addressed by a path within
// a merged field list. Index segments step into the array's entry config;
// key segments match field keys at the current level. Returns nil when
// the path leaves the schema — callers treat that the same as any other
// schema/data drift.
func FindDefinition(list []types.FieldDefinition, p fieldpath.Path) *types.FieldDefinition {
	var cur *types.FieldDefinition
	level := list
	for _, seg := range p {
		if seg.IsIndex() {
			if cur == nil || cur.ArrayConfig == nil {
				return nil
			}
			level = cur.ArrayConfig.Object
			continue
		}
		cur = nil
		for i := range level {
			if level[i].Field == seg.KeyName() {
				cur = &level[i]
				break
			}
		}
		if cur == nil {
			return nil
		}
		level = cur.ObjectConfig
	}
	return cur
}
