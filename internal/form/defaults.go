package form

import "github.com/shearsapp/shears/internal/types"

// DefaultRecord builds the initial record value for add mode: one key per
// top-level field, defaulted by type. Edit mode never calls this — an
// existing record's stored document is used as-is, and missing keys
// surface through the walker's per-read defaulting instead of being
// merged in as synthetic empty values.
func DefaultRecord(list []types.FieldDefinition) types.RecordValue {
	record := types.RecordValue{}
	for i := range list {
		record[list[i].Field] = defaultFor(&list[i])
	}
	return record
}

// DefaultEntry constructs a fresh entry object for appending to an array
// field: one key per child field, scalars defaulting to "" and link
// fields to an empty reference.
func DefaultEntry(fields []types.FieldDefinition) map[string]any {
	entry := make(map[string]any, len(fields))
	for i := range fields {
		entry[fields[i].Field] = defaultFor(&fields[i])
	}
	return entry
}

func defaultFor(def *types.FieldDefinition) any {
	if def.EffectiveInput() == "linkSelect" {
		return map[string]any{"_id": "", "name": ""}
	}
	if def.DefaultValue != nil {
		return def.DefaultValue
	}
	switch def.EffectiveKind() {
	case types.KindObject:
		return DefaultEntry(def.ObjectConfig)
	case types.KindArrayOfObject, types.KindArrayOfScalar:
		return []any{}
	default:
		if def.Type == types.FieldObject {
			return map[string]any{}
		}
		return ""
	}
}
