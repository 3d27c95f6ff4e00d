package graphview

import "github.com/gogpu/gg"

// DefaultPadding is the margin, in pixels, kept between the fitted graph
// and the surface edge.
const DefaultPadding = 20.0

// Autofit is the base frame that places a graph on the surface.
// It maps graph space to pixel space as g*Scale + Offset.
type Autofit struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// IdentityAutofit is the autofit used for an empty graph.
func IdentityAutofit() Autofit {
	return Autofit{Scale: 1}
}

// Apply maps a graph point into the autofit frame.
func (a Autofit) Apply(p gg.Point) gg.Point {
	return gg.Pt(p.X*a.Scale+a.OffsetX, p.Y*a.Scale+a.OffsetY)
}

// ComputeAutofit fits the bounding box of g into a width x height surface
// with padding on every side, preserving aspect ratio.
//
// An axis with zero extent is treated as one unit wide. The centre of the
// bounding box lands on the centre of the surface. The result always has a
// strictly positive scale.
func ComputeAutofit(g *Graph, width, height int, padding float64) Autofit {
	b, ok := g.Bounds()
	if !ok {
		return IdentityAutofit()
	}

	w, h := float64(width), float64(height)
	bw, bh := b.Width(), b.Height()
	if bw == 0 {
		bw = 1
	}
	if bh == 0 {
		bh = 1
	}

	// A surface smaller than its padding still needs a positive scale.
	availW := max(w-2*padding, 1)
	availH := max(h-2*padding, 1)

	scale := min(availW/bw, availH/bh)
	c := b.Center()
	return Autofit{
		Scale:   scale,
		OffsetX: w/2 - c.X*scale,
		OffsetY: h/2 - c.Y*scale,
	}
}
