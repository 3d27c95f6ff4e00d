package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/graphview"
)

// Vertex is a position as uploaded to the vertex buffers, relative to the
// frame origin of its Buffers.
type Vertex struct {
	X, Y float32
}

// vertexStride is the size of a Vertex in bytes.
const vertexStride = 8

// quadCorners are the two triangles covering the unit square [-1, 1]^2,
// expanded around each node centre by the node pass.
var quadCorners = [6]Vertex{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// Uniforms is the per-frame uniform block shared by both passes.
// Row0 and Row1 hold the origin-relative graph-to-NDC affine matrix; Params
// holds the surface width and height and the node radius in pixels.
type Uniforms struct {
	Row0   [4]float32
	Row1   [4]float32
	Params [4]float32
}

// newUniforms packs the viewport transform for the given surface. The
// frame origin is folded into the translation in float64 so that the
// float32 terms stay small however far the layout sits from zero.
func newUniforms(v *graphview.Viewport, radius float64, origin gg.Point) Uniforms {
	m := v.Matrix(graphview.NormalizedDevice)
	tx := m.A*origin.X + m.B*origin.Y + m.C
	ty := m.D*origin.X + m.E*origin.Y + m.F
	w, h := v.Size()
	return Uniforms{
		Row0:   [4]float32{float32(m.A), float32(m.B), float32(tx), 0},
		Row1:   [4]float32{float32(m.D), float32(m.E), float32(ty), 0},
		Params: [4]float32{float32(w), float32(h), float32(radius), 0},
	}
}

// Buffers holds the geometry batched for one frame.
type Buffers struct {
	// Origin is the graph-space point subtracted from every vertex.
	Origin gg.Point
	// Edges is a line list: vertices 2i and 2i+1 form edge i.
	Edges []Vertex
	// EdgeRefs maps each line back to its edge.
	EdgeRefs []graphview.Edge
	// Nodes holds one instance per node in render order.
	Nodes []Vertex
	// NodeIDs holds the id of each instance.
	NodeIDs []string
	// Skipped lists edges with an unresolved endpoint.
	Skipped []graphview.Edge
}

// batch builds the vertex and instance buffers for g around the centre of
// its bounds.
func batch(g *graphview.Graph) Buffers {
	var b Buffers
	if bounds, ok := g.Bounds(); ok {
		b.Origin = bounds.Center()
	}
	rel := func(n graphview.Node) Vertex {
		return Vertex{float32(n.X - b.Origin.X), float32(n.Y - b.Origin.Y)}
	}

	for _, e := range g.Edges() {
		src, dst, ok := g.Resolve(e)
		if !ok {
			b.Skipped = append(b.Skipped, e)
			graphview.Logger().Debug("pipeline: skipping edge", "source", e.Source, "target", e.Target, "err", graphview.ErrDanglingEdge)
			continue
		}
		b.Edges = append(b.Edges, rel(src), rel(dst))
		b.EdgeRefs = append(b.EdgeRefs, e)
	}

	nodes := g.Nodes()
	b.Nodes = make([]Vertex, 0, len(nodes))
	b.NodeIDs = make([]string, 0, len(nodes))
	for _, n := range nodes {
		b.Nodes = append(b.Nodes, rel(n))
		b.NodeIDs = append(b.NodeIDs, n.ID)
	}
	return b
}

// pack encodes vertices as consecutive little-endian float32 pairs.
func pack(vs []Vertex) []byte {
	out := make([]byte, 0, len(vs)*vertexStride)
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.X))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Y))
	}
	return out
}

// fetch reads attribute a of element index from a buffer laid out as l.
func fetch(buf []byte, l gputypes.VertexBufferLayout, a gputypes.VertexAttribute, index int) (Vertex, error) {
	if a.Format != gputypes.VertexFormatFloat32x2 {
		return Vertex{}, fmt.Errorf("pipeline: unsupported vertex format %v at location %d", a.Format, a.ShaderLocation)
	}
	off := uint64(index)*l.ArrayStride + a.Offset
	if end := off + a.Format.Size(); end > uint64(len(buf)) {
		return Vertex{}, fmt.Errorf("pipeline: location %d reads bytes %d..%d of a %d byte buffer", a.ShaderLocation, off, end, len(buf))
	}
	return Vertex{
		X: math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4:])),
	}, nil
}

// edgeVertexLayout returns the buffer layout of the edge pass:
// float32x2 position at location(0).
func edgeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		},
	}
}

// nodeVertexLayout returns the buffer layouts of the node pass: a
// per-instance centre and a per-vertex quad corner.
func nodeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // center
			},
		},
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // corner
			},
		},
	}
}
