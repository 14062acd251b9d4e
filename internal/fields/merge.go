package fields

import (
	"errors"
	"log"

	"github.com/shearsapp/shears/internal/types"
)

// ErrUnknownFieldType is reported (via log) when an override spec names a
// base type key the registry does not contain. The entry is skipped so one
// bad field never takes down an entire form.
var ErrUnknownFieldType = errors.New("unknown field type")

// Merge composes the final field list for a record type by applying each
// override spec, in declaration order, onto a deep copy of its base
// definition. Declaration order is the output order; display.order is a
// within-row hint for consumers, never a sort key here.
//
// When two specs resolve to the same final field key, the later one
// replaces the earlier one's content at the earlier one's position. That
// "last override wins, first-seen order kept" behavior is relied on by
// existing catalogs, so it is preserved and logged rather than deduped.
func Merge(specs []types.OverrideSpec, reg *Registry) []types.FieldDefinition {
	out := make([]types.FieldDefinition, 0, len(specs))
	seen := make(map[string]int, len(specs))

	for _, spec := range specs {
		base := reg.Base(spec.Field)
		if base == nil {
			log.Printf("fields: %v %q; skipping entry", ErrUnknownFieldType, spec.Field)
			continue
		}
		def := cloneDefinition(base)
		applyOverride(&def, spec.Override)
		stampKinds(&def)

		if at, dup := seen[def.Field]; dup {
			log.Printf("fields: duplicate field key %q; later declaration replaces the earlier one", def.Field)
			out[at] = def
			continue
		}
		seen[def.Field] = len(out)
		out = append(out, def)
	}
	return out
}

// applyOverride shallow-overwrites top-level members present in the
// override, except display and inputConfig which are merged sub-key by
// sub-key so unrelated base configuration survives.
func applyOverride(def *types.FieldDefinition, o *types.FieldOverride) {
	if o == nil {
		return
	}
	if o.Field != "" {
		def.Field = o.Field
	}
	if o.Type != "" {
		def.Type = o.Type
	}
	if o.Input != "" {
		def.Input = o.Input
	}
	if o.Label != "" {
		def.Label = o.Label
	}
	if o.Required != nil {
		def.Required = *o.Required
	}
	if o.DisplayInList != nil {
		def.DisplayInList = *o.DisplayInList
	}
	if o.DefaultValue != nil {
		def.DefaultValue = cloneValue(o.DefaultValue)
	}
	if len(o.InputConfig) > 0 {
		if def.InputConfig == nil {
			def.InputConfig = make(map[string]any, len(o.InputConfig))
		}
		for k, v := range o.InputConfig {
			def.InputConfig[k] = cloneValue(v)
		}
	}
	if o.Display != nil {
		if def.Display == nil {
			def.Display = &types.DisplayConfig{}
		}
		if o.Display.Order != nil {
			def.Display.Order = *o.Display.Order
		}
		if o.Display.Placeholder != nil {
			def.Display.Placeholder = *o.Display.Placeholder
		}
		if o.Display.Helper != nil {
			def.Display.Helper = *o.Display.Helper
		}
	}
	if o.Layout != nil {
		l := *o.Layout
		def.Layout = &l
	}
	if len(o.ObjectConfig) > 0 {
		def.ObjectConfig = cloneDefinitions(o.ObjectConfig)
	}
	if o.ArrayConfig != nil {
		def.ArrayConfig = &types.ArrayConfig{Object: cloneDefinitions(o.ArrayConfig.Object)}
	}
}

// stampKinds computes the structural kind discriminant once, recursively,
// so every consumer dispatches on def.Kind instead of probing configs.
func stampKinds(def *types.FieldDefinition) {
	def.Kind = types.KindOf(def)
	for i := range def.ObjectConfig {
		stampKinds(&def.ObjectConfig[i])
	}
	if def.ArrayConfig != nil {
		for i := range def.ArrayConfig.Object {
			stampKinds(&def.ArrayConfig.Object[i])
		}
	}
}

func cloneDefinition(src *types.FieldDefinition) types.FieldDefinition {
	def := *src
	if src.InputConfig != nil {
		def.InputConfig = make(map[string]any, len(src.InputConfig))
		for k, v := range src.InputConfig {
			def.InputConfig[k] = cloneValue(v)
		}
	}
	if src.Display != nil {
		d := *src.Display
		def.Display = &d
	}
	if src.Layout != nil {
		l := *src.Layout
		def.Layout = &l
	}
	if src.DefaultValue != nil {
		def.DefaultValue = cloneValue(src.DefaultValue)
	}
	def.ObjectConfig = cloneDefinitions(src.ObjectConfig)
	if src.ArrayConfig != nil {
		def.ArrayConfig = &types.ArrayConfig{Object: cloneDefinitions(src.ArrayConfig.Object)}
	}
	return def
}

func cloneDefinitions(src []types.FieldDefinition) []types.FieldDefinition {
	if src == nil {
		return nil
	}
	out := make([]types.FieldDefinition, len(src))
	for i := range src {
		out[i] = cloneDefinition(&src[i])
	}
	return out
}

// cloneValue deep-copies the JSON-shaped values that appear in
// inputConfig and defaultValue.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return val
	}
}
