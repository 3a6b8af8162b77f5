package component

import "image/color"

// RenderStyle controls how the debug views draw an entity.
type RenderStyle struct {
	Name  string
	Color color.NRGBA
	// Index sorts draw order; lower draws first.
	Index int
}

var RenderStyleComponent = NewComponent[RenderStyle]()
