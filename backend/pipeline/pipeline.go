// Package pipeline implements the vertex/fragment pipeline graphview backend.
//
// Geometry is batched once per frame into byte buffers of float32 vertices
// relative to the centre of the graph bounds: a line list for edges and an
// instance buffer of node centres. The viewport transform, with that origin
// folded in, travels as a uniform matrix applied by the vertex stage, so pan
// and zoom never touch the buffers. Output is in normalized device
// coordinates (origin centre, Y up).
//
// The WGSL modules for both passes are compiled with naga when the renderer
// is created, and the vertex inputs reflected from the IR are checked
// against each pass's gputypes buffer layout. The passes themselves run on
// the CPU against an RGBA frame buffer: vertices are fetched through the
// layout, primitives are assembled by topology and rasterized, and the
// fragment stage colours or discards each covered pixel. If compilation
// fails the renderer still draws and logs a warning.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg/text"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/fonts"
)

func init() {
	backend.Register(backend.BackendPipeline, func(width, height int) (graphview.Renderer, error) {
		r, err := New(width, height)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

// Background is the frame buffer clear colour.
var Background = color.RGBA{R: 30, G: 30, B: 30, A: 255}

// labelColor is the colour of node labels.
var labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer draws frames through the two-pass pipeline.
type Renderer struct {
	fb     *image.RGBA
	edges  Pass
	nodes  Pass
	labels fonts.Cache
	face   text.Face
	noFont bool
	last   Buffers
}

// New creates a pipeline renderer for a width x height surface. It fails
// with ErrLayoutMismatch when a pass's vertex layout does not feed its
// compiled shader.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		fb: image.NewRGBA(image.Rect(0, 0, width, height)),
		edges: Pass{
			Label:    "edges",
			Topology: gputypes.PrimitiveTopologyLineList,
			Layout:   edgeVertexLayout(),
			Module:   &ShaderModule{Label: "edge", Source: edgeShaderWGSL},
			vertex:   edgeVertex,
			fragment: edgeFragment,
		},
		nodes: Pass{
			Label:    "nodes",
			Topology: gputypes.PrimitiveTopologyTriangleList,
			Layout:   nodeVertexLayout(),
			Module:   &ShaderModule{Label: "node", Source: nodeShaderWGSL},
			vertex:   nodeVertex,
			fragment: nodeFragment,
		},
	}

	log := graphview.Logger()
	for _, p := range []*Pass{&r.edges, &r.nodes} {
		if err := p.Module.compile(); err != nil {
			if errors.Is(err, ErrLayoutMismatch) {
				return nil, err
			}
			log.Warn("pipeline: shader compilation failed, CPU execution only", "pass", p.Label, "err", err)
			continue
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		log.Debug("pipeline: shader compiled", "pass", p.Label, "words", len(p.Module.SPIRV), "inputs", len(p.Module.inputs))
	}

	if _, err := r.labels.At(1); err != nil {
		log.Warn("pipeline: label font unavailable, labels disabled", "err", err)
		r.noFont = true
	}
	return r, nil
}

// Name returns the backend identifier.
func (r *Renderer) Name() string {
	return backend.BackendPipeline
}

// Convention returns graphview.NormalizedDevice.
func (r *Renderer) Convention() graphview.Convention {
	return graphview.NormalizedDevice
}

// Passes returns the edge and node pass descriptions.
func (r *Renderer) Passes() (edges, nodes Pass) {
	return r.edges, r.nodes
}

// Buffers returns the geometry batched by the last Draw.
func (r *Renderer) Buffers() Buffers {
	return r.last
}

// Draw batches g around a per-frame origin, uploads the viewport transform
// and runs the edge pass followed by the node pass.
func (r *Renderer) Draw(g *graphview.Graph, v *graphview.Viewport, policy graphview.RadiusPolicy) (*graphview.Frame, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	w, h := v.Size()
	if b := r.fb.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("pipeline: viewport %dx%d does not match surface %dx%d", w, h, b.Dx(), b.Dy())
	}

	radius := policy.Radius(v.Scale())
	buf := batch(g)
	u := newUniforms(v, radius, buf.Origin)
	r.last = buf

	draw.Draw(r.fb, r.fb.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	edgeOut, err := r.edges.run(r.fb, &u, drawCall{
		buffers:   [][]byte{pack(buf.Edges)},
		vertices:  len(buf.Edges),
		instances: 1,
	})
	if err != nil {
		return nil, err
	}
	if _, err := r.nodes.run(r.fb, &u, drawCall{
		buffers:   [][]byte{pack(buf.Nodes), pack(quadCorners[:])},
		vertices:  len(quadCorners),
		instances: len(buf.Nodes),
	}); err != nil {
		return nil, err
	}

	f := &graphview.Frame{
		Backend:    backend.BackendPipeline,
		Convention: graphview.NormalizedDevice,
		Width:      w,
		Height:     h,
		Edges:      make([]graphview.Segment, len(buf.EdgeRefs)),
		Nodes:      make([]graphview.Disc, len(buf.NodeIDs)),
		Skipped:    buf.Skipped,
	}
	for i, e := range buf.EdgeRefs {
		f.Edges[i] = graphview.Segment{Edge: e, From: edgeOut[2*i].clip, To: edgeOut[2*i+1].clip}
	}
	for i, id := range buf.NodeIDs {
		f.Nodes[i] = graphview.Disc{ID: id, Center: u.transform(buf.Nodes[i]), Radius: radius}
	}

	if !r.noFont {
		if r.face, err = r.labels.At(v.Scale()); err != nil {
			return nil, fmt.Errorf("pipeline: label face: %w", err)
		}
		for _, n := range f.Nodes {
			p := u.toPixels(n.Center)
			tw, _ := text.Measure(n.ID, r.face)
			text.Draw(r.fb, n.ID, r.face, p.X-tw/2, fonts.Baseline(p.Y, v.Scale()), labelColor)
		}
	}
	return f, nil
}

// Image returns the frame buffer.
func (r *Renderer) Image() image.Image {
	return r.fb
}

// Close releases the compiled shader modules.
func (r *Renderer) Close() error {
	r.edges.Module.SPIRV = nil
	r.nodes.Module.SPIRV = nil
	r.last = Buffers{}
	return nil
}
