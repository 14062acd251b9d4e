package form

import "github.com/shearsapp/shears/internal/types"

// applyRowLayout stamps each object child with its row and its fraction of
// that row's width. Fields without a layout default to row 1, span 1.
// Widths are normalized against the row's span sum, so a row always fills
// completely no matter how many spans its fields declare.
//
// Children are reordered by row; within a row, declaration order is kept
// (display.order is a hint for the renderer, not a sort key here).
func applyRowLayout(defs []types.FieldDefinition, children []RenderNode) {
	spanSums := make(map[int]int)
	for i := range children {
		row, span := rowSpan(&defs[i])
		children[i].Row = row
		spanSums[row] += span
	}
	for i := range children {
		_, span := rowSpan(&defs[i])
		children[i].Width = float64(span) / float64(spanSums[children[i].Row])
	}
	stableSortByRow(children)
}

func rowSpan(def *types.FieldDefinition) (row, span int) {
	row, span = 1, 1
	if def.Layout != nil {
		if def.Layout.Row > 0 {
			row = def.Layout.Row
		}
		if def.Layout.Span > 0 {
			span = def.Layout.Span
		}
	}
	return row, span
}

// stableSortByRow orders nodes by row while keeping declaration order
// within each row.
func stableSortByRow(nodes []RenderNode) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j-1].Row > nodes[j].Row; j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}
}
