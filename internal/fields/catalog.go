package fields

import "github.com/shearsapp/shears/internal/types"

// BaseTypes is the built-in catalog of reusable field-type definitions.
// Record-type lists reference these by key and specialize them via
// overrides; the definitions themselves are never handed out un-cloned.
var BaseTypes = []types.FieldDefinition{
	{Field: "text", Type: types.FieldString, Input: "text"},
	{Field: "textarea", Type: types.FieldString, Input: "textarea"},
	{Field: "number", Type: types.FieldNumber, Input: "number"},
	{
		Field: "currency",
		Type:  types.FieldNumber,
		Input: "currency",
		InputConfig: map[string]any{
			"step":   0.01,
			"prefix": "$",
		},
	},
	{Field: "boolean", Type: types.FieldBoolean, Input: "boolean"},
	{Field: "date", Type: types.FieldDate, Input: "date"},
	{Field: "time", Type: types.FieldString, Input: "time"},
	{
		Field: "image",
		Type:  types.FieldImage,
		Input: "image",
		InputConfig: map[string]any{
			"maxSizeMB": 5,
			"maxPhotos": 1,
			"accept":    "image/*",
		},
	},
	{Field: "notes", Type: types.FieldNotes, Input: "textarea", Label: "Notes"},
	{Field: "name", Type: types.FieldName, Input: "text", Label: "Name", Required: true, DisplayInList: true},
	{Field: "email", Type: types.FieldEmail, Input: "text", Label: "Email"},
	{Field: "phone", Type: types.FieldString, Input: "text", Label: "Phone"},
	{Field: "select", Type: types.FieldString, Input: "select"},
	{
		Field: "multiSelect",
		Type:  types.FieldMultiSelect,
		Input: "select",
		InputConfig: map[string]any{
			"multiple": true,
		},
	},
	// linkSelect values are whole LinkValue objects, replaced on
	// re-selection, never merged.
	{Field: "linkSelect", Type: types.FieldObject, Input: "linkSelect"},
	{
		Field: "timeWindow",
		Type:  types.FieldObject,
		Label: "Time",
		ObjectConfig: []types.FieldDefinition{
			{Field: "startTime", Type: types.FieldString, Input: "time", Label: "Start", Layout: &types.Layout{Row: 1, Span: 1}},
			{Field: "endTime", Type: types.FieldString, Input: "time", Label: "End", Layout: &types.Layout{Row: 1, Span: 1}},
		},
	},
	{
		Field: "duration",
		Type:  types.FieldObject,
		Label: "Duration",
		ObjectConfig: []types.FieldDefinition{
			{Field: "hours", Type: types.FieldNumber, Input: "number", Label: "Hours", Layout: &types.Layout{Row: 1, Span: 1}},
			{Field: "minutes", Type: types.FieldNumber, Input: "number", Label: "Minutes", Layout: &types.Layout{Row: 1, Span: 1}},
		},
	},
	{
		Field: "payment",
		Type:  types.FieldObject,
		Input: "payment",
		Label: "Payment",
		ObjectConfig: []types.FieldDefinition{
			{
				Field:  "amount",
				Type:   types.FieldNumber,
				Input:  "currency",
				Label:  "Amount",
				Layout: &types.Layout{Row: 1, Span: 2},
				InputConfig: map[string]any{
					"step":   0.01,
					"prefix": "$",
				},
			},
			{
				Field:  "status",
				Type:   types.FieldString,
				Input:  "select",
				Label:  "Status",
				Layout: &types.Layout{Row: 1, Span: 1},
				InputConfig: map[string]any{
					"options": []string{"unpaid", "deposit", "paid", "refunded"},
				},
			},
			{
				Field:  "charge",
				Type:   types.FieldButton,
				Input:  "paymentButton",
				Label:  "Charge",
				Layout: &types.Layout{Row: 2, Span: 1},
			},
		},
	},
	{
		Field: "services",
		Type:  types.FieldArray,
		Label: "Services",
		ArrayConfig: &types.ArrayConfig{
			Object: []types.FieldDefinition{
				{Field: "service", Type: types.FieldObject, Input: "linkSelect", Label: "Service"},
				{Field: "quantity", Type: types.FieldNumber, Input: "number", Label: "Qty", DefaultValue: "1"},
				{
					Field: "price",
					Type:  types.FieldNumber,
					Input: "currency",
					Label: "Price",
					InputConfig: map[string]any{
						"step":   0.01,
						"prefix": "$",
					},
				},
			},
		},
	},
}

// AppointmentFields is the field list for booking records.
var AppointmentFields = []types.OverrideSpec{
	{Field: "linkSelect", Override: &types.FieldOverride{
		Field: "client", Label: "Client", Required: boolPtr(true),
		DisplayInList: boolPtr(true),
		InputConfig:   map[string]any{"recordType": "client"},
	}},
	{Field: "date", Override: &types.FieldOverride{
		Field: "date", Label: "Date", Required: boolPtr(true), DisplayInList: boolPtr(true),
	}},
	{Field: "timeWindow", Override: &types.FieldOverride{Field: "time"}},
	{Field: "services", Override: &types.FieldOverride{
		Field: "services", Label: "Services",
		Display: &types.DisplayOverride{Helper: strPtr("Each service contributes to the total and the duration.")},
	}},
	{Field: "duration", Override: &types.FieldOverride{Field: "duration"}},
	{Field: "payment", Override: &types.FieldOverride{Field: "payment"}},
	{Field: "notes", Override: &types.FieldOverride{
		Field: "notes", Label: "Appointment Notes",
		Display: &types.DisplayOverride{Placeholder: strPtr("Color formulas, preferences, ...")},
	}},
}

// WigInventoryFields is the field list for wig inventory records.
var WigInventoryFields = []types.OverrideSpec{
	{Field: "name", Override: &types.FieldOverride{Field: "name", Label: "Wig Name"}},
	{Field: "image", Override: &types.FieldOverride{
		Field: "wigPhotos", Label: "Wig Photos",
		InputConfig: map[string]any{"maxPhotos": 3},
	}},
	{Field: "currency", Override: &types.FieldOverride{
		Field: "price", Label: "Price", DisplayInList: boolPtr(true),
	}},
	{Field: "text", Override: &types.FieldOverride{Field: "color", Label: "Color"}},
	{Field: "text", Override: &types.FieldOverride{Field: "length", Label: "Length"}},
	{Field: "boolean", Override: &types.FieldOverride{
		Field: "inStock", Label: "In Stock", DisplayInList: boolPtr(true),
	}},
	{Field: "notes", Override: &types.FieldOverride{Field: "description", Label: "Description"}},
}

// ClientProfileFields is the field list for client profile records.
var ClientProfileFields = []types.OverrideSpec{
	{Field: "name"},
	{Field: "email"},
	{Field: "phone"},
	{Field: "image", Override: &types.FieldOverride{Field: "photo", Label: "Photo"}},
	{Field: "multiSelect", Override: &types.FieldOverride{
		Field: "preferences", Label: "Preferences",
		InputConfig: map[string]any{
			"options": []string{"color", "cut", "extensions", "wigs", "braids"},
		},
	}},
	{Field: "notes"},
}

// ServiceFields is the field list for the bookable service records that
// link-select fields resolve against.
var ServiceFields = []types.OverrideSpec{
	{Field: "name", Override: &types.FieldOverride{Field: "name", Label: "Service Name"}},
	{Field: "currency", Override: &types.FieldOverride{
		Field: "price", Label: "Price", Required: boolPtr(true), DisplayInList: boolPtr(true),
	}},
	{Field: "duration", Override: &types.FieldOverride{Field: "duration"}},
	{Field: "notes", Override: &types.FieldOverride{Field: "description", Label: "Description"}},
}

// DefaultRegistry builds a registry holding the built-in base types.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, def := range BaseTypes {
		reg.Register(def)
	}
	return reg
}

// DefaultCatalog builds the full built-in catalog: base types plus the
// salon record-type field lists.
func DefaultCatalog() *Catalog {
	c := NewCatalog(DefaultRegistry())
	c.SetRecordType("appointment", AppointmentFields)
	c.SetRecordType("wig", WigInventoryFields)
	c.SetRecordType("client", ClientProfileFields)
	c.SetRecordType("service", ServiceFields)
	return c
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
