package graphview

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Segment is a projected edge.
type Segment struct {
	Edge Edge
	From gg.Point
	To   gg.Point
}

// Disc is a projected node. Center is in surface units; Radius is always in
// pixels, matching the hit radius.
type Disc struct {
	ID     string
	Center gg.Point
	Radius float64
}

// Frame is the geometry of one draw, expressed in a surface convention.
// Edges come first in draw order, then nodes in render order.
type Frame struct {
	Backend    string
	Convention Convention
	Width      int
	Height     int
	Edges      []Segment
	Nodes      []Disc
	Skipped    []Edge
}

// Pixels returns a copy of f expressed in pixel space, for comparing the
// output of different backends.
func (f *Frame) Pixels() *Frame {
	out := &Frame{
		Backend:    f.Backend,
		Convention: PixelSpace,
		Width:      f.Width,
		Height:     f.Height,
		Edges:      make([]Segment, len(f.Edges)),
		Nodes:      make([]Disc, len(f.Nodes)),
		Skipped:    append([]Edge(nil), f.Skipped...),
	}
	for i, s := range f.Edges {
		out.Edges[i] = Segment{
			Edge: s.Edge,
			From: f.Convention.FromSurface(s.From, f.Width, f.Height),
			To:   f.Convention.FromSurface(s.To, f.Width, f.Height),
		}
	}
	for i, d := range f.Nodes {
		out.Nodes[i] = Disc{
			ID:     d.ID,
			Center: f.Convention.FromSurface(d.Center, f.Width, f.Height),
			Radius: d.Radius,
		}
	}
	return out
}

// Project computes the frame for g under v in convention c.
//
// Edges with a missing endpoint are left out of the frame and listed in
// Skipped; they are not an error. An invalid viewport is.
func Project(g *Graph, v *Viewport, c Convention, policy RadiusPolicy) (*Frame, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	w, h := v.Size()
	f := &Frame{
		Convention: c,
		Width:      w,
		Height:     h,
		Nodes:      make([]Disc, 0, g.Len()),
	}

	for _, e := range g.Edges() {
		src, dst, ok := g.Resolve(e)
		if !ok {
			f.Skipped = append(f.Skipped, e)
			Logger().Debug("graphview: skipping edge", "source", e.Source, "target", e.Target, "err", ErrDanglingEdge)
			continue
		}
		f.Edges = append(f.Edges, Segment{
			Edge: e,
			From: v.ToSurface(src.Point(), c),
			To:   v.ToSurface(dst.Point(), c),
		})
	}

	r := policy.Radius(v.Scale())
	for _, n := range g.Nodes() {
		f.Nodes = append(f.Nodes, Disc{ID: n.ID, Center: v.ToSurface(n.Point(), c), Radius: r})
	}
	return f, nil
}
