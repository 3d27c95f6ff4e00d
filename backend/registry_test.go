package backend

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/graphview"
)

// stubRenderer satisfies graphview.Renderer without drawing.
type stubRenderer struct {
	name string
	w, h int
}

func (s *stubRenderer) Name() string                     { return s.name }
func (s *stubRenderer) Convention() graphview.Convention { return graphview.PixelSpace }
func (s *stubRenderer) Image() image.Image               { return image.NewRGBA(image.Rect(0, 0, s.w, s.h)) }
func (s *stubRenderer) Close() error                     { return nil }

func (s *stubRenderer) Draw(g *graphview.Graph, v *graphview.Viewport, p graphview.RadiusPolicy) (*graphview.Frame, error) {
	return graphview.Project(g, v, graphview.PixelSpace, p)
}

func stubFactory(name string) Factory {
	return func(w, h int) (graphview.Renderer, error) {
		return &stubRenderer{name: name, w: w, h: h}, nil
	}
}

// withRegistry swaps in an empty registry for the duration of a test.
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := backends
	backends = make(map[string]Factory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	})
}

func TestRegisterAndGet(t *testing.T) {
	withRegistry(t)
	Register("stub", stubFactory("stub"))

	if !IsRegistered("stub") {
		t.Fatal("IsRegistered(stub) = false")
	}
	r, err := Get("stub", 64, 32)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if r.Name() != "stub" {
		t.Errorf("Name() = %q", r.Name())
	}
	if b := r.Image().Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("surface = %v, want 64x32", b)
	}

	Unregister("stub")
	if IsRegistered("stub") {
		t.Error("IsRegistered(stub) = true after Unregister")
	}
}

func TestGetErrors(t *testing.T) {
	withRegistry(t)
	Register("stub", stubFactory("stub"))

	if _, err := Get("missing", 10, 10); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(missing) error = %v, want ErrBackendNotAvailable", err)
	}
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := Get("stub", size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Get(stub, %d, %d) error = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestAvailableSorted(t *testing.T) {
	withRegistry(t)
	for _, name := range []string{"zeta", BackendRaster, "alpha", BackendPipeline} {
		Register(name, stubFactory(name))
	}
	got := Available()
	want := []string{"alpha", BackendPipeline, BackendRaster, "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultPriority(t *testing.T) {
	tests := []struct {
		name       string
		registered []string
		want       string
	}{
		{"pipeline first", []string{BackendRaster, BackendPipeline, "other"}, BackendPipeline},
		{"raster next", []string{"other", BackendRaster}, BackendRaster},
		{"then sorted rest", []string{"zulu", "bravo"}, "bravo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRegistry(t)
			for _, name := range tt.registered {
				Register(name, stubFactory(name))
			}
			r, err := Default(100, 100)
			if err != nil {
				t.Fatalf("Default() error = %v", err)
			}
			if r.Name() != tt.want {
				t.Errorf("Default() = %q, want %q", r.Name(), tt.want)
			}
		})
	}
}

func TestDefaultFallsBack(t *testing.T) {
	withRegistry(t)
	broken := errors.New("no device")
	Register(BackendPipeline, func(int, int) (graphview.Renderer, error) { return nil, broken })
	Register(BackendRaster, stubFactory(BackendRaster))

	r, err := Default(100, 100)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if r.Name() != BackendRaster {
		t.Errorf("Default() = %q, want fallback to raster", r.Name())
	}

	Unregister(BackendRaster)
	if _, err := Default(100, 100); !errors.Is(err, broken) {
		t.Errorf("Default() error = %v, want the last factory error", err)
	}
}

func TestDefaultEmpty(t *testing.T) {
	withRegistry(t)
	if _, err := Default(100, 100); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() error = %v, want ErrBackendNotAvailable", err)
	}
}
