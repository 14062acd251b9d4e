package widget

import (
	"github.com/shearsapp/shears/internal/form"
	"github.com/shearsapp/shears/internal/types"
)

// Annotate walks a rendered node tree and attaches the resolved widget
// output to every leaf: read-mode nodes get their display text, edit-mode
// nodes their widget descriptor. Structural nodes (objects, arrays of
// objects) only recurse; the widgets live on their children.
func (r *Resolver) Annotate(nodes []form.RenderNode) {
	for i := range nodes {
		r.annotateNode(&nodes[i])
	}
}

func (r *Resolver) annotateNode(n *form.RenderNode) {
	switch n.Def.EffectiveKind() {
	case types.KindObject:
		r.Annotate(n.Children)
	case types.KindArrayOfObject:
		for _, entry := range n.Entries {
			r.Annotate(entry)
		}
	default:
		p := r.Resolve(n.Def.EffectiveInput())
		if n.Mode == form.ModeEdit {
			n.Editor = p.Edit(n.Def, n.Value)
			return
		}
		n.Display = p.Read(n.Def, n.Value)
	}
}
