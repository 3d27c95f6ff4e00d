// Package raster implements the immediate-mode graphview backend.
//
// Every frame is drawn with path calls on a gg.Context in pixel space
// (origin top-left, Y down): edges are stroked lines, nodes are filled and
// outlined circles with the node id drawn above them. Label size and
// placement follow the zoom scale.
package raster

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/fonts"
)

// Style holds the colours and widths used by the raster backend.
type Style struct {
	Background  gg.RGBA
	Edge        gg.RGBA
	EdgeWidth   float64
	Node        gg.RGBA
	Outline     gg.RGBA
	OutlineSize float64
	Label       gg.RGBA
}

// DefaultStyle returns grey edges, blue nodes with a white outline and
// white labels on a dark background.
func DefaultStyle() Style {
	return Style{
		Background:  gg.Hex("#1e1e1e"),
		Edge:        gg.Hex("#aaa"),
		EdgeWidth:   2,
		Node:        gg.Hex("#0074D9"),
		Outline:     gg.Hex("#fff"),
		OutlineSize: 2,
		Label:       gg.Hex("#fff"),
	}
}

func init() {
	backend.Register(backend.BackendRaster, func(width, height int) (graphview.Renderer, error) {
		return New(width, height), nil
	})
}

// Renderer draws frames through a gg.Context.
type Renderer struct {
	dc     *gg.Context
	style  Style
	labels fonts.Cache
	noFont bool
}

// New creates a raster renderer for a width x height surface.
// Labels are skipped if the label font cannot be loaded.
func New(width, height int) *Renderer {
	r := &Renderer{
		dc:    gg.NewContext(width, height),
		style: DefaultStyle(),
	}
	if _, err := r.labels.At(1); err != nil {
		graphview.Logger().Warn("raster: label font unavailable, labels disabled", "err", err)
		r.noFont = true
	}
	return r
}

// SetStyle replaces the drawing style.
func (r *Renderer) SetStyle(s Style) {
	r.style = s
}

// Name returns the backend identifier.
func (r *Renderer) Name() string {
	return backend.BackendRaster
}

// Convention returns graphview.PixelSpace.
func (r *Renderer) Convention() graphview.Convention {
	return graphview.PixelSpace
}

// Draw clears the surface and draws edges, then nodes.
func (r *Renderer) Draw(g *graphview.Graph, v *graphview.Viewport, policy graphview.RadiusPolicy) (*graphview.Frame, error) {
	w, h := v.Size()
	if r.dc.Width() != w || r.dc.Height() != h {
		return nil, fmt.Errorf("raster: viewport %dx%d does not match surface %dx%d", w, h, r.dc.Width(), r.dc.Height())
	}
	f, err := graphview.Project(g, v, graphview.PixelSpace, policy)
	if err != nil {
		return nil, err
	}
	f.Backend = backend.BackendRaster

	dc := r.dc
	st := r.style
	dc.ClearWithColor(st.Background)

	var face text.Face
	if !r.noFont {
		if face, err = r.labels.At(v.Scale()); err != nil {
			return nil, fmt.Errorf("raster: label face: %w", err)
		}
		dc.SetFont(face)
	}

	dc.SetColor(st.Edge.Color())
	dc.SetLineWidth(st.EdgeWidth)
	for _, s := range f.Edges {
		dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("raster: stroke edge %s->%s: %w", s.Edge.Source, s.Edge.Target, err)
		}
	}

	for _, n := range f.Nodes {
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.SetColor(st.Node.Color())
		if err := dc.FillPreserve(); err != nil {
			return nil, fmt.Errorf("raster: fill node %q: %w", n.ID, err)
		}
		dc.SetColor(st.Outline.Color())
		dc.SetLineWidth(st.OutlineSize)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("raster: outline node %q: %w", n.ID, err)
		}

		if face != nil {
			dc.SetColor(st.Label.Color())
			dc.DrawStringAnchored(n.ID, n.Center.X, fonts.Baseline(n.Center.Y, v.Scale()), 0.5, 0)
		}
	}
	return f, nil
}

// Image returns the rendered surface.
func (r *Renderer) Image() image.Image {
	return r.dc.Image()
}

// SavePNG writes the rendered surface to a PNG file.
func (r *Renderer) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// Close releases the drawing context.
func (r *Renderer) Close() error {
	return r.dc.Close()
}
