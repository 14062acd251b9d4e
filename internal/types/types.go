// Package types provides the shared value types for the field-schema engine.
// These are the Go representation of the declarative field descriptors that
// drive form rendering, and of the JSON documents (fields_data) they describe.
package types

import "time"

// FieldType is the semantic data kind of a field.
type FieldType string

const (
	FieldString      FieldType = "string"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldDate        FieldType = "date"
	FieldArray       FieldType = "array"
	FieldObject      FieldType = "object"
	FieldImage       FieldType = "image"
	FieldNotes       FieldType = "notes"
	FieldName        FieldType = "name"
	FieldEmail       FieldType = "email"
	FieldMultiSelect FieldType = "multiSelect"
	FieldButton      FieldType = "button"
)

// FieldKind is the structural shape of a field, computed once from the
// presence of ObjectConfig/ArrayConfig so consumers dispatch on a single
// discriminant instead of re-probing nested config at every site.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindPrimitive
	KindObject
	KindArrayOfObject
	KindArrayOfScalar
)

// String returns the schema-visible kind name.
func (k FieldKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArrayOfObject:
		return "arrayOfObject"
	case KindArrayOfScalar:
		return "arrayOfScalar"
	default:
		return "unknown"
	}
}

// DisplayConfig holds presentation hints for a field.
type DisplayConfig struct {
	Order       int    `json:"order,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Helper      string `json:"helper,omitempty"`
}

// Layout positions a field inside its parent object's row grid. Span is
// relative: a span-2 field is twice as wide as a span-1 sibling in the
// same row.
type Layout struct {
	Row  int `json:"row"`
	Span int `json:"span"`
}

// ArrayConfig describes the entries of a structured array field.
type ArrayConfig struct {
	Object []FieldDefinition `json:"object,omitempty"`
}

// FieldDefinition describes one schema node. Exactly one of the structural
// shapes holds: primitive (neither config), object (ObjectConfig),
// array-of-object (ArrayConfig.Object), array-of-scalar (type "array",
// neither config).
type FieldDefinition struct {
	Field         string            `json:"field"`
	Type          FieldType         `json:"type"`
	Input         string            `json:"input,omitempty"` // widget id, e.g. "text", "linkSelect", "currency"; defaults to Type
	Label         string            `json:"label,omitempty"`
	Required      bool              `json:"required,omitempty"`
	DisplayInList bool              `json:"displayInList,omitempty"`
	DefaultValue  any               `json:"defaultValue,omitempty"`
	InputConfig   map[string]any    `json:"inputConfig,omitempty"` // widget-specific, e.g. {maxSizeMB, maxPhotos}, {options}
	Display       *DisplayConfig    `json:"display,omitempty"`
	Layout        *Layout           `json:"layout,omitempty"` // only meaningful for children of an object field
	ObjectConfig  []FieldDefinition `json:"objectConfig,omitempty"`
	ArrayConfig   *ArrayConfig      `json:"arrayConfig,omitempty"`
	Kind          FieldKind         `json:"-"` // stamped by the merge engine; see KindOf
}

// KindOf computes the structural kind of a definition from its config.
func KindOf(d *FieldDefinition) FieldKind {
	switch {
	case len(d.ObjectConfig) > 0:
		return KindObject
	case d.ArrayConfig != nil && len(d.ArrayConfig.Object) > 0:
		return KindArrayOfObject
	case d.Type == FieldArray:
		return KindArrayOfScalar
	default:
		return KindPrimitive
	}
}

// EffectiveKind returns the stamped kind, computing it on the fly for
// definitions that never passed through the merge engine.
func (d *FieldDefinition) EffectiveKind() FieldKind {
	if d.Kind != KindUnknown {
		return d.Kind
	}
	return KindOf(d)
}

// EffectiveInput returns the widget id for the field, defaulting to the
// field's type when no explicit input is declared.
func (d *FieldDefinition) EffectiveInput() string {
	if d.Input != "" {
		return d.Input
	}
	return string(d.Type)
}

// FieldOverride is a partial FieldDefinition applied on top of a base
// definition from the registry. Nil/empty members mean "keep the base
// value"; bool members use pointers so an explicit false survives.
type FieldOverride struct {
	Field         string            `json:"field,omitempty"` // final field key when set
	Type          FieldType         `json:"type,omitempty"`
	Input         string            `json:"input,omitempty"`
	Label         string            `json:"label,omitempty"`
	Required      *bool             `json:"required,omitempty"`
	DisplayInList *bool             `json:"displayInList,omitempty"`
	DefaultValue  any               `json:"defaultValue,omitempty"`
	InputConfig   map[string]any    `json:"inputConfig,omitempty"` // sub-key merged onto the base, not replaced
	Display       *DisplayOverride  `json:"display,omitempty"`     // sub-key merged onto the base, not replaced
	Layout        *Layout           `json:"layout,omitempty"`
	ObjectConfig  []FieldDefinition `json:"objectConfig,omitempty"`
	ArrayConfig   *ArrayConfig      `json:"arrayConfig,omitempty"`
}

// DisplayOverride is the partial form of DisplayConfig used in overrides.
type DisplayOverride struct {
	Order       *int    `json:"order,omitempty"`
	Placeholder *string `json:"placeholder,omitempty"`
	Helper      *string `json:"helper,omitempty"`
}

// OverrideSpec pairs a base field-type key with the override specializing
// it for one record type.
type OverrideSpec struct {
	Field    string         `json:"field"` // base type key in the registry
	Override *FieldOverride `json:"override,omitempty"`
}

// RecordValue is the opaque JSON document holding one record's data. Its
// shape is expected to conform to a merged field list but is never
// statically bound to it.
type RecordValue = map[string]any

// LinkValue is the stored value of a link-select field: a reference to
// another record, replaced wholesale on re-selection.
type LinkValue struct {
	ID   string         `json:"_id"`
	Name string         `json:"name"`
	Raw  map[string]any `json:"raw,omitempty"`
}

// ClockDuration is a duration split into display components. Hours and
// minutes are strings because they round-trip through text inputs.
type ClockDuration struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
}

// Aggregates is the output of a derivation pass over a record value.
type Aggregates struct {
	Amount   string        `json:"amount"` // formatted currency, e.g. "$30.00"
	Duration ClockDuration `json:"duration"`
	EndTime  string        `json:"endTime,omitempty"` // "HH:mm", empty when no start time is set
}

// Record is one stored document with its envelope metadata.
type Record struct {
	ID         string      `json:"_id"`
	RecordType string      `json:"recordType"`
	FieldsData RecordValue `json:"fieldsData"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
