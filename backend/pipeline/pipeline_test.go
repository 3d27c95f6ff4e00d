package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
)

func testGraph(t *testing.T) *graphview.Graph {
	t.Helper()
	g, err := graphview.NewGraph(
		[]graphview.Node{{ID: "A", X: 0, Y: 0}, {ID: "B", X: 100, Y: 0}},
		[]graphview.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "missing"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func fitted(t *testing.T, g *graphview.Graph, w, h int) *graphview.Viewport {
	t.Helper()
	v := graphview.NewViewport(w, h)
	if err := v.SetAutofit(graphview.ComputeAutofit(g, w, h, graphview.DefaultPadding)); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestShaderSources(t *testing.T) {
	for name, src := range map[string]string{"edge": EdgeShaderSource(), "node": NodeShaderSource()} {
		for _, want := range []string{"fn " + VertexEntry, "fn " + FragmentEntry, "@group(0) @binding(0)"} {
			if !strings.Contains(src, want) {
				t.Errorf("%s shader does not contain %q", name, want)
			}
		}
	}
	if !strings.Contains(NodeShaderSource(), "discard") {
		t.Error("node shader does not cut the quad to a disc")
	}
}

func newRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	r, err := New(w, h)
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", w, h, err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRenderer(t *testing.T) {
	if !backend.IsRegistered(backend.BackendPipeline) {
		t.Fatal("pipeline backend not registered")
	}
	r := newRenderer(t, 64, 48)
	if r.Name() != backend.BackendPipeline || r.Convention() != graphview.NormalizedDevice {
		t.Errorf("Name() = %q, Convention() = %s", r.Name(), r.Convention().Name)
	}

	edges, nodes := r.Passes()
	if edges.Topology != gputypes.PrimitiveTopologyLineList {
		t.Errorf("edge topology = %v, want line list", edges.Topology)
	}
	if nodes.Topology != gputypes.PrimitiveTopologyTriangleList {
		t.Errorf("node topology = %v, want triangle list", nodes.Topology)
	}
	if len(nodes.Layout) != 2 || nodes.Layout[0].StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("node layout = %+v, want an instance buffer first", nodes.Layout)
	}
	for _, p := range []Pass{edges, nodes} {
		if p.Module.Compiled() && len(p.Module.SPIRV) < 5 {
			t.Errorf("%s module has a truncated SPIR-V header", p.Label)
		}
	}
}

func TestBatch(t *testing.T) {
	b := batch(testGraph(t))
	if b.Origin != gg.Pt(50, 0) {
		t.Errorf("Origin = %v, want the bounds centre (50, 0)", b.Origin)
	}
	if len(b.Edges) != 2 || len(b.EdgeRefs) != 1 {
		t.Fatalf("edges = %d vertices, %d refs; want 2, 1", len(b.Edges), len(b.EdgeRefs))
	}
	if b.Edges[0] != (Vertex{-50, 0}) || b.Edges[1] != (Vertex{50, 0}) {
		t.Errorf("edge = %+v, want A-B relative to the origin", b.Edges)
	}
	if len(b.Skipped) != 1 || b.Skipped[0].Target != "missing" {
		t.Errorf("Skipped = %+v", b.Skipped)
	}
	if len(b.Nodes) != 2 || b.NodeIDs[1] != "B" {
		t.Errorf("instances = %+v %v", b.Nodes, b.NodeIDs)
	}
}

func TestUniformsTransform(t *testing.T) {
	g := testGraph(t)
	v := fitted(t, g, 200, 100)
	b := batch(g)
	u := newUniforms(v, 10, b.Origin)
	if u.Params != [4]float32{200, 100, 10, 0} {
		t.Errorf("Params = %v", u.Params)
	}
	for i, n := range g.Nodes() {
		want := v.ToSurface(n.Point(), graphview.NormalizedDevice)
		got := u.transform(b.Nodes[i])
		if math.Abs(got.X-want.X) > 1e-5 || math.Abs(got.Y-want.Y) > 1e-5 {
			t.Errorf("transform(%s) = %v, want %v", n.ID, got, want)
		}
	}
}

func TestUniformsFarFromOrigin(t *testing.T) {
	g, err := graphview.NewGraph([]graphview.Node{
		{ID: "A", X: 100000, Y: 100000},
		{ID: "B", X: 100001.3, Y: 100000.7},
		{ID: "C", X: 100000.4, Y: 100001.1},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	v := fitted(t, g, 800, 600)
	b := batch(g)
	u := newUniforms(v, 10, b.Origin)
	for i, n := range g.Nodes() {
		want := v.Forward(n.Point())
		got := u.toPixels(u.transform(b.Nodes[i]))
		if d := got.Sub(want).Length(); d > 0.01 {
			t.Errorf("%s drawn at %v, want %v (off by %.4fpx)", n.ID, got, want, d)
		}
	}
	// The float32 translation stays near the surface, not near 1e5.
	if math.Abs(float64(u.Row0[2])) > 2 || math.Abs(float64(u.Row1[2])) > 2 {
		t.Errorf("translation = (%v, %v), want NDC-sized terms", u.Row0[2], u.Row1[2])
	}
}

func TestPackFetch(t *testing.T) {
	buf := pack([]Vertex{{1, 2}, {-3.5, 4.25}})
	if len(buf) != 2*vertexStride {
		t.Fatalf("len(pack) = %d, want %d", len(buf), 2*vertexStride)
	}
	l := edgeVertexLayout()[0]
	got, err := fetch(buf, l, l.Attributes[0], 1)
	if err != nil || got != (Vertex{-3.5, 4.25}) {
		t.Errorf("fetch(1) = %+v, %v", got, err)
	}
	if _, err := fetch(buf, l, l.Attributes[0], 2); err == nil {
		t.Error("fetch() read past the end of the buffer")
	}
	bad := l.Attributes[0]
	bad.Format = gputypes.VertexFormatUint32
	if _, err := fetch(buf, l, bad, 0); err == nil {
		t.Error("fetch() accepted a non-float32x2 attribute")
	}
}

func TestPassRunDispatchesOnTopology(t *testing.T) {
	r := newRenderer(t, 20, 20)
	u := Uniforms{
		Row0:   [4]float32{0.1, 0, 0, 0},
		Row1:   [4]float32{0, -0.1, 0, 0},
		Params: [4]float32{20, 20, 5, 0},
	}
	call := drawCall{buffers: [][]byte{pack([]Vertex{{-10, 0}, {10, 0}})}, vertices: 2, instances: 1}

	tests := []struct {
		name     string
		topology gputypes.PrimitiveTopology
		wantErr  bool
		wantLine bool
	}{
		{"line list", gputypes.PrimitiveTopologyLineList, false, true},
		{"triangle list", gputypes.PrimitiveTopologyTriangleList, false, false},
		{"point list", gputypes.PrimitiveTopologyPointList, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draw.Draw(r.fb, r.fb.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
			p := r.edges
			p.Topology = tt.topology
			out, err := p.run(r.fb, &u, call)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(out) != 2 {
				t.Errorf("run() returned %d vertices, want 2", len(out))
			}
			// Two vertices assemble a line but no triangle.
			if got := r.fb.At(10, 10) == color.Color(edgeColor); got != tt.wantLine {
				t.Errorf("centre pixel drawn = %v, want %v", got, tt.wantLine)
			}
		})
	}
}

func TestPassRunRejectsBadDraws(t *testing.T) {
	r := newRenderer(t, 8, 8)
	u := newUniforms(graphview.NewViewport(8, 8), 4, gg.Point{})

	if _, err := r.nodes.run(r.fb, &u, drawCall{buffers: [][]byte{pack(quadCorners[:])}, vertices: 6, instances: 1}); err == nil {
		t.Error("run() accepted one buffer for a two-buffer layout")
	}
	short := drawCall{buffers: [][]byte{pack([]Vertex{{0, 0}}), pack(quadCorners[:3])}, vertices: 6, instances: 1}
	if _, err := r.nodes.run(r.fb, &u, short); err == nil {
		t.Error("run() read past the end of the corner buffer")
	}
	p := r.nodes
	p.Layout = nodeVertexLayout()
	p.Layout[0].StepMode = gputypes.VertexStepModeUndefined
	ok := drawCall{buffers: [][]byte{pack([]Vertex{{0, 0}}), pack(quadCorners[:])}, vertices: 6, instances: 1}
	if _, err := p.run(r.fb, &u, ok); err == nil {
		t.Error("run() accepted an undefined step mode")
	}
}

func TestReflectedInputsMatchLayouts(t *testing.T) {
	r := newRenderer(t, 8, 8)
	edges, nodes := r.Passes()
	if !edges.Module.Compiled() || !nodes.Module.Compiled() {
		t.Skip("naga did not compile the shaders")
	}
	want := map[string]map[uint32]gputypes.VertexFormat{
		"edges": {0: gputypes.VertexFormatFloat32x2},
		"nodes": {0: gputypes.VertexFormatFloat32x2, 1: gputypes.VertexFormatFloat32x2},
	}
	for _, p := range []Pass{edges, nodes} {
		got := p.Module.VertexInputs()
		if len(got) != len(want[p.Label]) {
			t.Errorf("%s inputs = %v, want %v", p.Label, got, want[p.Label])
			continue
		}
		for loc, f := range want[p.Label] {
			if got[loc] != f {
				t.Errorf("%s location %d = %v, want %v", p.Label, loc, got[loc], f)
			}
		}
	}
}

func TestValidateRejectsMismatchedLayout(t *testing.T) {
	tests := []struct {
		name   string
		source string
		layout func() []gputypes.VertexBufferLayout
	}{
		{"missing corner buffer", nodeShaderWGSL, edgeVertexLayout},
		{"wrong format", edgeShaderWGSL, func() []gputypes.VertexBufferLayout {
			l := edgeVertexLayout()
			l[0].Attributes[0].Format = gputypes.VertexFormatFloat32x4
			return l
		}},
		{"duplicate location", edgeShaderWGSL, func() []gputypes.VertexBufferLayout {
			l := nodeVertexLayout()
			l[1].Attributes[0].ShaderLocation = 0
			return l
		}},
		{"no fragment entry", "@vertex fn vs_main(@location(0) p: vec2<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(p, 0.0, 1.0); }", edgeVertexLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pass{Label: tt.name, Layout: tt.layout(), Module: &ShaderModule{Label: tt.name, Source: tt.source}}
			if err := p.Module.compile(); err != nil {
				if errors.Is(err, errShaderCompile) {
					t.Skipf("naga did not compile the shader: %v", err)
				}
				t.Fatal(err)
			}
			if err := p.validate(); !errors.Is(err, ErrLayoutMismatch) {
				t.Errorf("validate() error = %v, want ErrLayoutMismatch", err)
			}
		})
	}
}

func TestDraw(t *testing.T) {
	g := testGraph(t)
	r := newRenderer(t, 200, 100)

	f, err := r.Draw(g, fitted(t, g, 200, 100), graphview.DefaultRadiusPolicy())
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if f.Convention != graphview.NormalizedDevice {
		t.Errorf("Convention = %s", f.Convention.Name)
	}
	if len(f.Edges) != 1 || len(f.Skipped) != 1 || len(f.Nodes) != 2 {
		t.Errorf("frame = %d edges, %d skipped, %d nodes", len(f.Edges), len(f.Skipped), len(f.Nodes))
	}
	// A is at pixel (20, 50): NDC (-0.8, 0).
	if c := f.Nodes[0].Center; math.Abs(c.X+0.8) > 1e-5 || math.Abs(c.Y) > 1e-5 {
		t.Errorf("A centre = %v, want (-0.8, 0)", c)
	}

	img := r.Image()
	if got := img.At(1, 1); got != color.Color(Background) {
		t.Errorf("corner = %v, want background", got)
	}
	if got := img.At(20, 50); got != color.Color(nodeColor) {
		t.Errorf("node A centre = %v, want %v", got, nodeColor)
	}
	if got := img.At(100, 50); got != color.Color(edgeColor) {
		t.Errorf("edge midpoint = %v, want %v", got, edgeColor)
	}
	// Outside the disc but inside its quad.
	if got := img.At(20+8, 50+8); got == color.Color(nodeColor) {
		t.Error("quad corner was not discarded")
	}
}

func TestDrawRejectsSizeMismatch(t *testing.T) {
	r := newRenderer(t, 100, 100)
	if _, err := r.Draw(testGraph(t), graphview.NewViewport(50, 50), graphview.DefaultRadiusPolicy()); err == nil {
		t.Error("Draw() accepted a viewport of a different size")
	}
}

func TestForEachPixelClips(t *testing.T) {
	r := newRenderer(t, 10, 10)
	n := 0
	count := func(int, int, gg.Point) { n++ }
	forEachPixel(r.fb, -1e300, -1e300, 1e300, 1e300, count)
	if n != 100 {
		t.Errorf("visited %d pixels, want 100", n)
	}
	n = 0
	forEachPixel(r.fb, 50, 50, 60, 60, count)
	forEachPixel(r.fb, math.NaN(), 0, 5, 5, count)
	if n != 0 {
		t.Errorf("visited %d off-surface pixels", n)
	}
}

func TestDrawScalesLabels(t *testing.T) {
	g := testGraph(t)
	r := newRenderer(t, 200, 100)
	v := fitted(t, g, 200, 100)
	for _, tt := range []struct {
		factor, want float64
	}{{1, 12}, {2, 24}, {0.25, 6}} {
		if _, err := v.ZoomAt(gg.Pt(100, 50), tt.factor); err != nil {
			t.Fatal(err)
		}
		if _, err := r.Draw(g, v, graphview.DefaultRadiusPolicy()); err != nil {
			t.Fatalf("Draw() error = %v", err)
		}
		if r.face == nil {
			t.Fatal("no label face after Draw")
		}
		if got := r.face.Size(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("label size at scale %v = %v, want %v", v.Scale(), got, tt.want)
		}
	}
}
