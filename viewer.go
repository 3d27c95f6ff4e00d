package graphview

import (
	"context"
	"fmt"
	"time"
)

// Observer is notified of viewer activity. Implementations must be cheap;
// they run on the event/draw loop.
type Observer interface {
	FrameDrawn(f *Frame, elapsed time.Duration)
	LayoutApplied(nodes, edges int)
	LayoutRejected(err error)
	IntentHandled(it Intent)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) FrameDrawn(*Frame, time.Duration) {}
func (NopObserver) LayoutApplied(int, int)           {}
func (NopObserver) LayoutRejected(error)             {}
func (NopObserver) IntentHandled(Intent)             {}

// Viewer ties a graph, its viewport, the pointer controller and the active
// renderer together. It is the host-facing entry point.
//
// Viewer is not safe for concurrent use; all calls must come from the
// event/draw loop.
type Viewer struct {
	graph      *Graph
	viewport   *Viewport
	controller *Controller
	renderer   Renderer
	opts       options
}

// NewViewer creates a viewer for a width x height surface with an empty
// graph.
func NewViewer(width, height int, opts ...Option) *Viewer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	vp := NewViewport(width, height)
	// Limits were validated by WithZoom.
	_ = vp.SetLimits(o.limits)

	g := EmptyGraph()
	ctl := NewController(vp, g)
	ctl.SetRadiusPolicy(o.radius)
	ctl.SetZoomFactor(o.factor)

	return &Viewer{
		graph:      g,
		viewport:   vp,
		controller: ctl,
		renderer:   o.renderer,
		opts:       o,
	}
}

// Graph returns the current graph.
func (v *Viewer) Graph() *Graph { return v.graph }

// Viewport returns the viewport.
func (v *Viewer) Viewport() *Viewport { return v.viewport }

// Gesture returns the current interaction state.
func (v *Viewer) Gesture() Gesture { return v.controller.Gesture() }

// Renderer returns the active renderer, or nil.
func (v *Viewer) Renderer() Renderer { return v.renderer }

// RadiusPolicy returns the node radius policy.
func (v *Viewer) RadiusPolicy() RadiusPolicy { return v.opts.radius }

// SetRenderer switches the rendering backend and returns the previous one.
// Graph and viewport state are kept.
func (v *Viewer) SetRenderer(r Renderer) Renderer {
	prev := v.renderer
	v.renderer = r
	if r != nil {
		Logger().Info("graphview: backend switched", "backend", r.Name())
	}
	return prev
}

// SetGraph replaces the graph and recomputes the autofit frame.
// Pan and zoom are kept.
func (v *Viewer) SetGraph(g *Graph) error {
	if g == nil {
		g = EmptyGraph()
	}
	w, h := v.viewport.Size()
	if err := v.viewport.SetAutofit(ComputeAutofit(g, w, h, v.opts.padding)); err != nil {
		return err
	}
	v.graph = g
	v.controller.SetGraph(g)
	return nil
}

// ApplyLayout replaces the graph with a layout response. An invalid
// response is rejected and the prior graph retained.
func (v *Viewer) ApplyLayout(resp LayoutResponse) error {
	g, err := resp.Graph()
	if err != nil {
		Logger().Warn("graphview: layout response rejected", "err", err)
		v.opts.observer.LayoutRejected(err)
		return err
	}
	if err := v.SetGraph(g); err != nil {
		v.opts.observer.LayoutRejected(err)
		return err
	}
	Logger().Info("graphview: layout applied", "nodes", g.Len(), "edges", len(g.edges))
	v.opts.observer.LayoutApplied(g.Len(), len(g.edges))
	return nil
}

// RequestLayout sends the current graph to svc and applies the response.
// On any failure the prior graph is retained.
func (v *Viewer) RequestLayout(ctx context.Context, svc LayoutService) error {
	resp, err := svc.Layout(ctx, NewLayoutRequest(v.graph))
	if err != nil {
		Logger().Warn("graphview: layout request failed", "err", err)
		return fmt.Errorf("layout request: %w", err)
	}
	return v.ApplyLayout(resp)
}

// Refit recomputes the autofit frame for the current graph and resets
// pan and zoom.
func (v *Viewer) Refit() error {
	if err := v.SetGraph(v.graph); err != nil {
		return err
	}
	v.viewport.Reset()
	return nil
}

// Handle feeds one pointer event to the controller.
func (v *Viewer) Handle(ev Event) (Intent, error) {
	it, err := v.controller.Handle(ev)
	if err != nil {
		return it, err
	}
	if it.Kind != IntentNone {
		v.opts.observer.IntentHandled(it)
	}
	return it, nil
}

// Draw renders the current state with the active renderer.
func (v *Viewer) Draw() (*Frame, error) {
	if v.renderer == nil {
		return nil, ErrNoRenderer
	}
	start := time.Now()
	f, err := v.renderer.Draw(v.graph, v.viewport, v.opts.radius)
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", v.renderer.Name(), err)
	}
	v.opts.observer.FrameDrawn(f, time.Since(start))
	return f, nil
}
