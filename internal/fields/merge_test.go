package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearsapp/shears/internal/types"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(types.FieldDefinition{
		Field: "image",
		Type:  types.FieldImage,
		Input: "image",
		InputConfig: map[string]any{
			"maxSizeMB": 5,
			"accept":    "image/*",
		},
	})
	reg.Register(types.FieldDefinition{
		Field:   "text",
		Type:    types.FieldString,
		Input:   "text",
		Display: &types.DisplayConfig{Order: 3, Helper: "base helper"},
	})
	return reg
}

func TestMerge_OverrideComposition(t *testing.T) {
	reg := testRegistry()
	specs := []types.OverrideSpec{
		{Field: "image", Override: &types.FieldOverride{
			Field: "wigPhotos",
			Label: "Wig Photos",
			InputConfig: map[string]any{
				"maxPhotos": 3,
			},
		}},
	}

	merged := Merge(specs, reg)
	require.Len(t, merged, 1)

	got := merged[0]
	assert.Equal(t, "wigPhotos", got.Field)
	assert.Equal(t, "Wig Photos", got.Label)
	assert.Equal(t, types.FieldImage, got.Type)
	// Sub-key merge: the override's maxPhotos lands next to the base's
	// maxSizeMB and accept instead of replacing them.
	assert.Equal(t, map[string]any{
		"maxSizeMB": 5,
		"accept":    "image/*",
		"maxPhotos": 3,
	}, got.InputConfig)
}

func TestMerge_DisplaySubKeyMerge(t *testing.T) {
	reg := testRegistry()
	ph := "type here"
	specs := []types.OverrideSpec{
		{Field: "text", Override: &types.FieldOverride{
			Field:   "color",
			Display: &types.DisplayOverride{Placeholder: &ph},
		}},
	}

	merged := Merge(specs, reg)
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Display)
	assert.Equal(t, "type here", merged[0].Display.Placeholder)
	assert.Equal(t, 3, merged[0].Display.Order, "base display.order must survive")
	assert.Equal(t, "base helper", merged[0].Display.Helper, "base display.helper must survive")
}

func TestMerge_Idempotent(t *testing.T) {
	reg := testRegistry()
	specs := []types.OverrideSpec{
		{Field: "image", Override: &types.FieldOverride{Field: "wigPhotos"}},
		{Field: "text", Override: &types.FieldOverride{Field: "color"}},
	}

	first := Merge(specs, reg)
	second := Merge(specs, reg)
	assert.Equal(t, first, second)
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	reg := testRegistry()
	specs := []types.OverrideSpec{
		{Field: "image", Override: &types.FieldOverride{
			InputConfig: map[string]any{"maxPhotos": 9},
		}},
	}

	Merge(specs, reg)
	base := reg.Base("image")
	_, leaked := base.InputConfig["maxPhotos"]
	assert.False(t, leaked, "override must apply to a clone, not the registry base")
}

func TestMerge_UnknownBaseSkipped(t *testing.T) {
	reg := testRegistry()
	specs := []types.OverrideSpec{
		{Field: "nope"},
		{Field: "text", Override: &types.FieldOverride{Field: "color"}},
	}

	merged := Merge(specs, reg)
	require.Len(t, merged, 1, "one bad entry must not break the rest of the list")
	assert.Equal(t, "color", merged[0].Field)
}

func TestMerge_DuplicateKeyLastWinsInPlace(t *testing.T) {
	reg := testRegistry()
	specs := []types.OverrideSpec{
		{Field: "text", Override: &types.FieldOverride{Field: "color", Label: "First"}},
		{Field: "image", Override: &types.FieldOverride{Field: "wigPhotos"}},
		{Field: "text", Override: &types.FieldOverride{Field: "color", Label: "Second"}},
	}

	merged := Merge(specs, reg)
	require.Len(t, merged, 2)
	// The later "color" declaration wins, but at the first-seen position.
	assert.Equal(t, "color", merged[0].Field)
	assert.Equal(t, "Second", merged[0].Label)
	assert.Equal(t, "wigPhotos", merged[1].Field)
}

func TestMerge_OrderIsDeclarationOrder(t *testing.T) {
	reg := testRegistry()
	one := 1
	nine := 9
	specs := []types.OverrideSpec{
		{Field: "text", Override: &types.FieldOverride{Field: "b", Display: &types.DisplayOverride{Order: &nine}}},
		{Field: "text", Override: &types.FieldOverride{Field: "a", Display: &types.DisplayOverride{Order: &one}}},
	}

	merged := Merge(specs, reg)
	require.Len(t, merged, 2)
	// display.order never reorders the list; declaration order holds.
	assert.Equal(t, "b", merged[0].Field)
	assert.Equal(t, "a", merged[1].Field)
}

func TestMerge_StampsKinds(t *testing.T) {
	reg := DefaultRegistry()
	merged := Merge(AppointmentFields, reg)

	byField := map[string]types.FieldDefinition{}
	for _, d := range merged {
		byField[d.Field] = d
	}
	assert.Equal(t, types.KindArrayOfObject, byField["services"].Kind)
	assert.Equal(t, types.KindObject, byField["payment"].Kind)
	assert.Equal(t, types.KindPrimitive, byField["date"].Kind)
	for _, child := range byField["payment"].ObjectConfig {
		assert.Equal(t, types.KindPrimitive, child.Kind)
	}
}

func TestDefaultCatalog_AllListsResolve(t *testing.T) {
	c := DefaultCatalog()
	for _, name := range c.RecordTypeNames() {
		merged, ok := c.Merged(name)
		require.True(t, ok)
		assert.Equal(t, len(c.RecordType(name)), len(merged),
			"record type %s: every catalog entry must resolve against the registry", name)
	}
}
