package graphview

import (
	"testing"

	"github.com/gogpu/gg"
)

func TestHitTest(t *testing.T) {
	g := pair(t)
	v := NewViewport(800, 600)

	tests := []struct {
		name string
		p    gg.Point
		want string
	}{
		{"near A", gg.Pt(2, 2), "A"},
		{"on A edge of radius", gg.Pt(10, 0), "A"},
		{"just outside A", gg.Pt(10.01, 0), ""},
		{"on B", gg.Pt(100, 0), "B"},
		{"past B", gg.Pt(150, 0), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := HitTest(g, v, tt.p, DefaultRadiusPolicy())
			if tt.want == "" {
				if ok {
					t.Errorf("HitTest(%v) = %q, want no hit", tt.p, n.ID)
				}
				return
			}
			if !ok || n.ID != tt.want {
				t.Errorf("HitTest(%v) = %q, %v; want %q", tt.p, n.ID, ok, tt.want)
			}
		})
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	g := mustGraph(t, []Node{{ID: "under", X: 0, Y: 0}, {ID: "over", X: 3, Y: 0}}, nil)
	n, ok := HitTest(g, NewViewport(100, 100), gg.Pt(1, 0), DefaultRadiusPolicy())
	if !ok || n.ID != "over" {
		t.Errorf("HitTest() = %q, %v; want the later node", n.ID, ok)
	}
}

func TestHitTestFollowsScale(t *testing.T) {
	g := pair(t)
	v := NewViewport(800, 600)
	if _, err := v.ZoomAt(gg.Pt(0, 0), 2); err != nil {
		t.Fatal(err)
	}
	// B is now at x=200 and the radius is 20px.
	if n, ok := HitTest(g, v, gg.Pt(185, 0), DefaultRadiusPolicy()); !ok || n.ID != "B" {
		t.Errorf("HitTest at zoom 2 = %q, %v; want B", n.ID, ok)
	}
}

func TestRadiusPolicy(t *testing.T) {
	p := DefaultRadiusPolicy()
	tests := []struct {
		scale float64
		want  float64
	}{
		{1, 10},
		{2, 20},
		{0.5, 5},
		{0.1, 4},
	}
	for _, tt := range tests {
		if got := p.Radius(tt.scale); got != tt.want {
			t.Errorf("Radius(%v) = %v, want %v", tt.scale, got, tt.want)
		}
	}
}

func TestHitTestEmptyGraph(t *testing.T) {
	if _, ok := HitTest(EmptyGraph(), NewViewport(10, 10), gg.Pt(0, 0), DefaultRadiusPolicy()); ok {
		t.Error("HitTest on an empty graph reported a hit")
	}
}
