// Package widget maps input-kind identifiers to their read and edit
// renderers. Resolution never fails: unknown kinds get the fallback pair,
// which keeps the tree walker's never-throw contract intact when a
// catalog references a widget this build does not know.
package widget

import (
	"fmt"
	"strings"

	"github.com/shearsapp/shears/internal/derive"
	"github.com/shearsapp/shears/internal/types"
)

// ReadRenderer produces the display-only text for a value.
type ReadRenderer func(def *types.FieldDefinition, value any) string

// EditRenderer produces the widget descriptor a client materializes an
// interactive input from.
type EditRenderer func(def *types.FieldDefinition, value any) Descriptor

// Descriptor is the wire shape of an edit-mode widget.
type Descriptor struct {
	Widget      string         `json:"widget"`
	Label       string         `json:"label,omitempty"`
	Value       any            `json:"value"`
	Required    bool           `json:"required,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// Pair bundles the two rendering modes of one input kind.
type Pair struct {
	Read ReadRenderer
	Edit EditRenderer
}

// Resolver holds the input-kind table.
type Resolver struct {
	pairs    map[string]Pair
	fallback Pair
}

// NewResolver creates a resolver with the built-in widget kinds
// registered.
func NewResolver() *Resolver {
	r := &Resolver{
		pairs: make(map[string]Pair),
		fallback: Pair{
			Read: readText,
			Edit: editAs("text"),
		},
	}
	r.Register("text", Pair{Read: readText, Edit: editAs("text")})
	r.Register("textarea", Pair{Read: readText, Edit: editAs("textarea")})
	r.Register("number", Pair{Read: readText, Edit: editAs("number")})
	r.Register("currency", Pair{Read: readCurrency, Edit: editAs("currency")})
	r.Register("boolean", Pair{Read: readBoolean, Edit: editAs("boolean")})
	r.Register("date", Pair{Read: readText, Edit: editAs("date")})
	r.Register("time", Pair{Read: readText, Edit: editAs("time")})
	r.Register("select", Pair{Read: readText, Edit: editAs("select")})
	r.Register("linkSelect", Pair{Read: readLink, Edit: editAs("linkSelect")})
	r.Register("image", Pair{Read: readImage, Edit: editAs("image")})
	r.Register("paymentButton", Pair{Read: readNothing, Edit: editAs("paymentButton")})
	return r
}

// Register adds or replaces the renderer pair for an input kind.
func (r *Resolver) Register(kind string, p Pair) {
	r.pairs[kind] = p
}

// Resolve returns the renderer pair for an input kind, falling back to
// the plain-text pair for unknown kinds. Never returns unusable
// renderers.
func (r *Resolver) Resolve(kind string) Pair {
	if p, ok := r.pairs[kind]; ok {
		return p
	}
	return r.fallback
}

const emptyPlaceholder = "(empty)"

func readText(_ *types.FieldDefinition, value any) string {
	switch v := value.(type) {
	case nil:
		return emptyPlaceholder
	case string:
		if strings.TrimSpace(v) == "" {
			return emptyPlaceholder
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func readCurrency(def *types.FieldDefinition, value any) string {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return emptyPlaceholder
	}
	return derive.FormatCurrency(derive.ParseCurrency(s))
}

func readBoolean(_ *types.FieldDefinition, value any) string {
	if b, ok := value.(bool); ok && b {
		return "Yes"
	}
	if s, ok := value.(string); ok && s == "true" {
		return "Yes"
	}
	return "No"
}

// readLink shows the referenced record's name; a missing or empty link
// renders as a dash.
func readLink(_ *types.FieldDefinition, value any) string {
	if m, ok := value.(map[string]any); ok {
		if name, ok := m["name"].(string); ok && name != "" {
			return name
		}
	}
	return "—"
}

func readImage(_ *types.FieldDefinition, value any) string {
	if arr, ok := value.([]any); ok && len(arr) > 0 {
		if len(arr) == 1 {
			return "1 photo"
		}
		return fmt.Sprintf("%d photos", len(arr))
	}
	if s, ok := value.(string); ok && s != "" {
		return "1 photo"
	}
	return emptyPlaceholder
}

func readNothing(_ *types.FieldDefinition, _ any) string {
	return ""
}

func editAs(widget string) EditRenderer {
	return func(def *types.FieldDefinition, value any) Descriptor {
		d := Descriptor{
			Widget:   widget,
			Value:    value,
			Required: def.Required,
			Label:    def.Label,
			Config:   def.InputConfig,
		}
		if def.Display != nil {
			d.Placeholder = def.Display.Placeholder
		}
		return d
	}
}
