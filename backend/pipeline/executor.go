package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/graphview"
)

// Fragment colours, matching the constants in the WGSL fragment stages.
var (
	edgeColor = color.RGBA{R: 153, G: 153, B: 153, A: 255}
	nodeColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// lineHalfWidth is half the rasterized edge width in pixels.
const lineHalfWidth = 1.0

// varying is the output of a vertex stage invocation.
type varying struct {
	// clip is the position in normalized device coordinates.
	clip gg.Point
	// local is interpolated across the primitive for the fragment stage.
	local gg.Point
}

// vertexStage runs the vertex entry point on inputs keyed by location.
type vertexStage func(u *Uniforms, in map[uint32]Vertex) varying

// fragmentStage returns the fragment colour, or false to discard.
type fragmentStage func(local gg.Point) (color.RGBA, bool)

// Pass describes one render pass of the pipeline.
type Pass struct {
	Label    string
	Topology gputypes.PrimitiveTopology
	Layout   []gputypes.VertexBufferLayout
	Module   *ShaderModule

	vertex   vertexStage
	fragment fragmentStage
}

// drawCall is one instanced draw: a byte buffer per layout slot.
type drawCall struct {
	buffers   [][]byte
	vertices  int
	instances int
}

// run fetches every vertex of call through the pass layout, runs the vertex
// stage and rasterizes the assembled primitives into fb. It returns the
// vertex stage outputs in submission order.
func (p *Pass) run(fb *image.RGBA, u *Uniforms, call drawCall) ([]varying, error) {
	if len(call.buffers) != len(p.Layout) {
		return nil, fmt.Errorf("pipeline: %s pass has %d layouts, draw supplies %d buffers", p.Label, len(p.Layout), len(call.buffers))
	}
	out := make([]varying, 0, call.vertices*call.instances)
	in := make(map[uint32]Vertex)
	for i := 0; i < call.instances; i++ {
		for j := 0; j < call.vertices; j++ {
			for k, l := range p.Layout {
				var idx int
				switch l.StepMode {
				case gputypes.VertexStepModeVertex:
					idx = j
				case gputypes.VertexStepModeInstance:
					idx = i
				default:
					return nil, fmt.Errorf("pipeline: %s pass: unsupported step mode %v", p.Label, l.StepMode)
				}
				for _, a := range l.Attributes {
					v, err := fetch(call.buffers[k], l, a, idx)
					if err != nil {
						return nil, fmt.Errorf("pipeline: %s pass: %w", p.Label, err)
					}
					in[a.ShaderLocation] = v
				}
			}
			out = append(out, p.vertex(u, in))
		}
	}

	switch p.Topology {
	case gputypes.PrimitiveTopologyLineList:
		for i := 0; i+1 < len(out); i += 2 {
			rasterLine(fb, u.toPixels(out[i].clip), u.toPixels(out[i+1].clip), lineHalfWidth, p.fragment)
		}
	case gputypes.PrimitiveTopologyTriangleList:
		for i := 0; i+2 < len(out); i += 3 {
			rasterTriangle(fb, u, out[i], out[i+1], out[i+2], p.fragment)
		}
	default:
		return nil, fmt.Errorf("pipeline: %s pass: unsupported topology %v", p.Label, p.Topology)
	}
	return out, nil
}

// transform maps an origin-relative vertex to normalized device
// coordinates, in float32 like the shader.
func (u *Uniforms) transform(p Vertex) gg.Point {
	x := u.Row0[0]*p.X + u.Row0[1]*p.Y + u.Row0[2]
	y := u.Row1[0]*p.X + u.Row1[1]*p.Y + u.Row1[2]
	return gg.Pt(float64(x), float64(y))
}

// surfaceSize returns the surface width and height from the uniforms.
func (u *Uniforms) surfaceSize() (int, int) {
	return int(u.Params[0]), int(u.Params[1])
}

// toPixels is the fixed-function viewport stage.
func (u *Uniforms) toPixels(ndc gg.Point) gg.Point {
	w, h := u.surfaceSize()
	return graphview.NormalizedDevice.FromSurface(ndc, w, h)
}

// edgeVertex is vs_main of the edge shader.
func edgeVertex(u *Uniforms, in map[uint32]Vertex) varying {
	return varying{clip: u.transform(in[0])}
}

// edgeFragment is fs_main of the edge shader.
func edgeFragment(gg.Point) (color.RGBA, bool) {
	return edgeColor, true
}

// nodeVertex is vs_main of the node shader: the instance centre at
// location 0 expanded by the quad corner at location 1.
func nodeVertex(u *Uniforms, in map[uint32]Vertex) varying {
	c := u.transform(in[0])
	k := in[1]
	rx := u.Params[2] * 2 / u.Params[0]
	ry := u.Params[2] * 2 / u.Params[1]
	return varying{
		clip:  gg.Pt(c.X+float64(k.X*rx), c.Y+float64(k.Y*ry)),
		local: gg.Pt(float64(k.X), float64(k.Y)),
	}
}

// nodeFragment is fs_main of the node shader: the quad is cut to a disc.
func nodeFragment(local gg.Point) (color.RGBA, bool) {
	if local.Length() > 1 {
		return color.RGBA{}, false
	}
	return nodeColor, true
}

// rasterLine covers every pixel whose centre lies within halfWidth of the
// segment a-b.
func rasterLine(fb *image.RGBA, a, b gg.Point, halfWidth float64, frag fragmentStage) {
	minX, maxX := math.Min(a.X, b.X)-halfWidth, math.Max(a.X, b.X)+halfWidth
	minY, maxY := math.Min(a.Y, b.Y)-halfWidth, math.Max(a.Y, b.Y)+halfWidth
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	hw2 := halfWidth * halfWidth

	forEachPixel(fb, minX, minY, maxX, maxY, func(x, y int, p gg.Point) {
		t := 0.0
		if l2 > 0 {
			t = math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
		}
		if p.Sub(a.Add(ab.Mul(t))).LengthSquared() > hw2 {
			return
		}
		if c, ok := frag(gg.Point{}); ok {
			fb.SetRGBA(x, y, c)
		}
	})
}

// rasterTriangle covers the pixels whose centres lie inside the triangle
// a-b-c, interpolating local barycentrically for the fragment stage.
func rasterTriangle(fb *image.RGBA, u *Uniforms, a, b, c varying, frag fragmentStage) {
	pa, pb, pc := u.toPixels(a.clip), u.toPixels(b.clip), u.toPixels(c.clip)
	area := cross(pa, pb, pc)
	if area == 0 || math.IsNaN(area) {
		return
	}
	minX, maxX := math.Min(pa.X, math.Min(pb.X, pc.X)), math.Max(pa.X, math.Max(pb.X, pc.X))
	minY, maxY := math.Min(pa.Y, math.Min(pb.Y, pc.Y)), math.Max(pa.Y, math.Max(pb.Y, pc.Y))

	forEachPixel(fb, minX, minY, maxX, maxY, func(x, y int, p gg.Point) {
		w0 := cross(pb, pc, p) / area
		w1 := cross(pc, pa, p) / area
		w2 := cross(pa, pb, p) / area
		if w0 < 0 || w1 < 0 || w2 < 0 {
			return
		}
		local := a.local.Mul(w0).Add(b.local.Mul(w1)).Add(c.local.Mul(w2))
		if col, ok := frag(local); ok {
			fb.SetRGBA(x, y, col)
		}
	})
}

// cross is twice the signed area of the triangle p-q-r.
func cross(p, q, r gg.Point) float64 {
	return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
}

// forEachPixel visits the pixels of fb whose centres fall inside the box.
func forEachPixel(fb *image.RGBA, minX, minY, maxX, maxY float64, fn func(x, y int, centre gg.Point)) {
	b := fb.Bounds()
	// Off-surface (or NaN) boxes are rejected before any int conversion.
	if !(maxX >= float64(b.Min.X) && minX < float64(b.Max.X) &&
		maxY >= float64(b.Min.Y) && minY < float64(b.Max.Y)) {
		return
	}
	minX, maxX = math.Max(minX, float64(b.Min.X)), math.Min(maxX, float64(b.Max.X-1))
	minY, maxY = math.Max(minY, float64(b.Min.Y)), math.Min(maxY, float64(b.Max.Y-1))
	x0, x1 := int(math.Floor(minX)), int(math.Ceil(maxX))
	y0, y1 := int(math.Floor(minY)), int(math.Ceil(maxY))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(x, y, gg.Pt(float64(x)+0.5, float64(y)+0.5))
		}
	}
}
