package form

import (
	"math"
	"reflect"
	"testing"

	"github.com/shearsapp/shears/internal/fieldpath"
	"github.com/shearsapp/shears/internal/types"
)

func TestWalk_PrimitiveDefaults(t *testing.T) {
	list := []types.FieldDefinition{
		{Field: "name", Type: types.FieldString},
		{Field: "tags", Type: types.FieldArray},
		{Field: "link", Type: types.FieldObject, Input: "linkSelect"},
	}
	nodes := Walk(list, types.RecordValue{}, ModeRead)

	if nodes[0].Value != "" {
		t.Errorf("missing string value = %v, want \"\"", nodes[0].Value)
	}
	if arr, ok := nodes[1].Value.([]any); !ok || len(arr) != 0 {
		t.Errorf("missing array value = %v, want []", nodes[1].Value)
	}
	if m, ok := nodes[2].Value.(map[string]any); !ok || len(m) != 0 {
		t.Errorf("missing object value = %v, want {}", nodes[2].Value)
	}
}

func TestWalk_ArraySelfHealing(t *testing.T) {
	list := []types.FieldDefinition{{
		Field: "services",
		Type:  types.FieldArray,
		ArrayConfig: &types.ArrayConfig{
			Object: []types.FieldDefinition{{Field: "price", Type: types.FieldNumber}},
		},
	}}
	record := types.RecordValue{"services": "oops"}

	nodes := Walk(list, record, ModeEdit)

	// The walk must not fail, and the corrupt value must be healed in
	// the record itself.
	if arr, ok := record["services"].([]any); !ok || len(arr) != 0 {
		t.Errorf("record[services] = %v, want healed empty array", record["services"])
	}
	if arr, ok := nodes[0].Value.([]any); !ok || len(arr) != 0 {
		t.Errorf("node value = %v, want empty array", nodes[0].Value)
	}
}

func TestWalk_ArrayEntries(t *testing.T) {
	list := []types.FieldDefinition{{
		Field: "services",
		Type:  types.FieldArray,
		ArrayConfig: &types.ArrayConfig{
			Object: []types.FieldDefinition{
				{Field: "name", Type: types.FieldString},
				{Field: "price", Type: types.FieldNumber},
			},
		},
	}}
	record := types.RecordValue{"services": []any{
		map[string]any{"name": "cut", "price": "$40.00"},
		map[string]any{"name": "color"},
	}}

	nodes := Walk(list, record, ModeRead)
	entries := nodes[0].Entries
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if got := entries[1][0].Path.String(); got != "services[1].name" {
		t.Errorf("entry path = %q, want services[1].name", got)
	}
	if entries[0][1].Value != "$40.00" {
		t.Errorf("entry value = %v", entries[0][1].Value)
	}
	if entries[1][1].Value != "" {
		t.Errorf("missing entry field = %v, want \"\"", entries[1][1].Value)
	}
}

func TestWalk_RowSpanRatio(t *testing.T) {
	list := []types.FieldDefinition{{
		Field: "payment",
		Type:  types.FieldObject,
		ObjectConfig: []types.FieldDefinition{
			{Field: "amt", Type: types.FieldNumber, Layout: &types.Layout{Row: 1, Span: 2}},
			{Field: "status", Type: types.FieldString, Layout: &types.Layout{Row: 1, Span: 1}},
		},
	}}
	nodes := Walk(list, types.RecordValue{}, ModeEdit)

	children := nodes[0].Children
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if math.Abs(children[0].Width-2.0/3.0) > 1e-9 {
		t.Errorf("amt width = %v, want 2/3", children[0].Width)
	}
	if math.Abs(children[1].Width-1.0/3.0) > 1e-9 {
		t.Errorf("status width = %v, want 1/3", children[1].Width)
	}
	if w := children[0].Width + children[1].Width; math.Abs(w-1.0) > 1e-9 {
		t.Errorf("row width sum = %v, want 1.0", w)
	}
}

func TestWalk_RowGroupingKeepsDeclarationOrder(t *testing.T) {
	list := []types.FieldDefinition{{
		Field: "obj",
		Type:  types.FieldObject,
		ObjectConfig: []types.FieldDefinition{
			{Field: "second", Type: types.FieldString, Layout: &types.Layout{Row: 2, Span: 1}},
			{Field: "a", Type: types.FieldString, Layout: &types.Layout{Row: 1, Span: 1}},
			{Field: "b", Type: types.FieldString}, // no layout: row 1
		},
	}}
	nodes := Walk(list, types.RecordValue{}, ModeEdit)

	var order []string
	for _, c := range nodes[0].Children {
		order = append(order, c.Def.Field)
	}
	want := []string{"a", "b", "second"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("child order = %v, want %v", order, want)
	}
	if nodes[0].Children[2].Row != 2 {
		t.Errorf("second.Row = %d, want 2", nodes[0].Children[2].Row)
	}
}

func TestWalk_PathsForNestedObject(t *testing.T) {
	list := []types.FieldDefinition{{
		Field: "time",
		Type:  types.FieldObject,
		ObjectConfig: []types.FieldDefinition{
			{Field: "startTime", Type: types.FieldString},
			{Field: "endTime", Type: types.FieldString},
		},
	}}
	record := types.RecordValue{"time": map[string]any{"startTime": "14:00"}}
	nodes := Walk(list, record, ModeRead)

	if got := nodes[0].Children[1].Path.String(); got != "time.endTime" {
		t.Errorf("path = %q, want time.endTime", got)
	}
	if nodes[0].Children[0].Value != "14:00" {
		t.Errorf("startTime value = %v", nodes[0].Children[0].Value)
	}
}

func TestDefaultEntry(t *testing.T) {
	fields := []types.FieldDefinition{
		{Field: "a", Type: types.FieldString},
		{Field: "b", Type: types.FieldString},
	}
	got := DefaultEntry(fields)
	want := map[string]any{"a": "", "b": ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultEntry = %v, want %v", got, want)
	}
}

func TestDefaultEntry_LinkField(t *testing.T) {
	fields := []types.FieldDefinition{
		{Field: "service", Type: types.FieldObject, Input: "linkSelect"},
		{Field: "quantity", Type: types.FieldNumber, DefaultValue: "1"},
	}
	got := DefaultEntry(fields)
	want := map[string]any{
		"service":  map[string]any{"_id": "", "name": ""},
		"quantity": "1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultEntry = %v, want %v", got, want)
	}
}

func TestDefaultRecord(t *testing.T) {
	list := []types.FieldDefinition{
		{Field: "name", Type: types.FieldString},
		{Field: "services", Type: types.FieldArray, ArrayConfig: &types.ArrayConfig{
			Object: []types.FieldDefinition{{Field: "price", Type: types.FieldNumber}},
		}},
		{Field: "time", Type: types.FieldObject, ObjectConfig: []types.FieldDefinition{
			{Field: "startTime", Type: types.FieldString},
		}},
	}
	got := DefaultRecord(list)
	want := types.RecordValue{
		"name":     "",
		"services": []any{},
		"time":     map[string]any{"startTime": ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultRecord = %v, want %v", got, want)
	}
}

func TestFindDefinition(t *testing.T) {
	list := []types.FieldDefinition{
		{Field: "services", Type: types.FieldArray, ArrayConfig: &types.ArrayConfig{
			Object: []types.FieldDefinition{{Field: "price", Type: types.FieldNumber}},
		}},
		{Field: "time", Type: types.FieldObject, ObjectConfig: []types.FieldDefinition{
			{Field: "startTime", Type: types.FieldString},
		}},
	}

	if def := FindDefinition(list, fieldpath.Parse("services[2].price")); def == nil || def.Field != "price" {
		t.Errorf("FindDefinition(services[2].price) = %v", def)
	}
	if def := FindDefinition(list, fieldpath.Parse("time.startTime")); def == nil || def.Field != "startTime" {
		t.Errorf("FindDefinition(time.startTime) = %v", def)
	}
	if def := FindDefinition(list, fieldpath.Parse("nope.x")); def != nil {
		t.Errorf("FindDefinition off-schema = %v, want nil", def)
	}
}
