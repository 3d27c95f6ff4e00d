package graphview

import "github.com/gogpu/gg"

// Default hit radius policy, in screen pixels.
const (
	DefaultNodeRadius    = 10.0
	DefaultMinNodeRadius = 4.0
)

// RadiusPolicy decides the on-screen radius of a node, shared by hit
// testing and drawing so what is seen is what is hit.
//
// The radius follows the interactive scale (Base*scale) but never drops
// below Min, so nodes stay clickable when zoomed far out.
type RadiusPolicy struct {
	Base float64
	Min  float64
}

// DefaultRadiusPolicy returns the 10px base, 4px floor policy.
func DefaultRadiusPolicy() RadiusPolicy {
	return RadiusPolicy{Base: DefaultNodeRadius, Min: DefaultMinNodeRadius}
}

// Radius returns the screen radius at the given interactive scale.
func (r RadiusPolicy) Radius(scale float64) float64 {
	return max(r.Base*scale, r.Min)
}

// HitTest returns the topmost node whose screen position lies within the
// hit radius of p. Nodes later in render order are drawn on top, so the
// scan runs back to front. It does not mutate anything.
func HitTest(g *Graph, v *Viewport, p gg.Point, policy RadiusPolicy) (Node, bool) {
	if g.Len() == 0 {
		return Node{}, false
	}
	r := policy.Radius(v.Scale())
	r2 := r * r
	for i := g.Len() - 1; i >= 0; i-- {
		n := g.NodeAt(i)
		d := v.Forward(n.Point()).Sub(p)
		if d.LengthSquared() <= r2 {
			return n, true
		}
	}
	return Node{}, false
}
