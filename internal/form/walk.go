// Package form implements the field tree walker: the recursive traversal
// that pairs a merged field list with a record value and produces the
// render nodes a form is built from. The walker is total — missing or
// malformed data degrades to type-appropriate defaults, it never fails a
// whole form over one bad field.
package form

import (
	"github.com/shearsapp/shears/internal/fieldpath"
	"github.com/shearsapp/shears/internal/types"
)

// Mode selects between display-only and interactive rendering. There is
// no separate "add" mode; add is an initialization policy (DefaultRecord)
// feeding the same edit-mode walk.
type Mode string

const (
	ModeRead Mode = "read"
	ModeEdit Mode = "edit"
)

// RenderNode is one resolved (path, definition, value) triple, plus the
// structure the renderer needs: object children carry row/width layout,
// array fields carry per-entry child nodes.
type RenderNode struct {
	Path  fieldpath.Path         `json:"path"`
	Def   *types.FieldDefinition `json:"def"`
	Value any                    `json:"value"`
	Mode  Mode                   `json:"mode"`

	// Row and Width are set on children of an object field. Width is the
	// child's fraction of its row, normalized so each row sums to 1.
	Row   int     `json:"row,omitempty"`
	Width float64 `json:"width,omitempty"`

	// Display is the read-mode text and Editor the edit-mode widget
	// descriptor for a leaf node; the widget resolver fills them in
	// before a form is served.
	Display string `json:"display,omitempty"`
	Editor  any    `json:"editor,omitempty"`

	// Children holds the nodes of an object field, ordered by row then
	// declaration order.
	Children []RenderNode `json:"children,omitempty"`

	// Entries holds one node slice per array entry for array-of-object
	// fields.
	Entries [][]RenderNode `json:"entries,omitempty"`
}

// Walk resolves every field in the merged list against the record and
// returns the top-level render nodes. Array fields holding a non-array
// value are healed in place: the corrupt value is replaced with an empty
// array in the record itself.
func Walk(list []types.FieldDefinition, record types.RecordValue, mode Mode) []RenderNode {
	if record == nil {
		record = types.RecordValue{}
	}
	nodes := make([]RenderNode, 0, len(list))
	for i := range list {
		nodes = append(nodes, walkField(&list[i], fieldpath.Path{}, record, mode))
	}
	return nodes
}

func walkField(def *types.FieldDefinition, parent fieldpath.Path, record types.RecordValue, mode Mode) RenderNode {
	path := parent.Child(def.Field)
	node := RenderNode{Path: path, Def: def, Mode: mode}

	switch def.EffectiveKind() {
	case types.KindObject:
		node.Value = fieldpath.GetMap(record, path)
		node.Children = walkObjectChildren(def, path, record, mode)

	case types.KindArrayOfObject:
		node.Value = healArray(record, path)
		node.Entries = walkArrayEntries(def, path, record, mode)

	case types.KindArrayOfScalar:
		node.Value = healArray(record, path)

	default:
		node.Value = primitiveValue(def, record, path)
	}
	return node
}

// walkObjectChildren walks a nested object's fields and applies the
// row/span layout.
func walkObjectChildren(def *types.FieldDefinition, path fieldpath.Path, record types.RecordValue, mode Mode) []RenderNode {
	children := make([]RenderNode, 0, len(def.ObjectConfig))
	for i := range def.ObjectConfig {
		children = append(children, walkField(&def.ObjectConfig[i], path, record, mode))
	}
	applyRowLayout(def.ObjectConfig, children)
	return children
}

// walkArrayEntries walks each array entry against arrayConfig.object with
// path field[index].
func walkArrayEntries(def *types.FieldDefinition, path fieldpath.Path, record types.RecordValue, mode Mode) [][]RenderNode {
	arr := fieldpath.GetSlice(record, path)
	entries := make([][]RenderNode, 0, len(arr))
	for i := range arr {
		entryPath := path.At(i)
		row := make([]RenderNode, 0, len(def.ArrayConfig.Object))
		for j := range def.ArrayConfig.Object {
			row = append(row, walkField(&def.ArrayConfig.Object[j], entryPath, record, mode))
		}
		entries = append(entries, row)
	}
	return entries
}

// healArray returns the array value at path, writing an empty array over
// any present non-array value so schema/data drift self-corrects instead
// of breaking the form.
func healArray(record types.RecordValue, path fieldpath.Path) []any {
	v, ok := fieldpath.Get(record, path)
	if !ok {
		return []any{}
	}
	arr, isArr := v.([]any)
	if !isArr {
		fieldpath.Set(record, path, []any{})
		return []any{}
	}
	return arr
}

// primitiveValue reads a scalar field, defaulting per the field's type.
// Link-select values pass through as their whole stored object.
func primitiveValue(def *types.FieldDefinition, record types.RecordValue, path fieldpath.Path) any {
	v, ok := fieldpath.Get(record, path)
	if ok && v != nil {
		return v
	}
	switch def.Type {
	case types.FieldArray:
		return []any{}
	case types.FieldObject:
		return map[string]any{}
	default:
		return ""
	}
}
