package graphview

import (
	"fmt"

	"github.com/gogpu/gg"
)

// DefaultZoomFactor is the scale multiplier applied per wheel notch.
const DefaultZoomFactor = 1.1

// EventKind identifies a pointer event.
type EventKind int

// Pointer event kinds.
const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventPointerLeave
	EventWheel
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerLeave:
		return "pointer-leave"
	case EventWheel:
		return "wheel"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a raw pointer or wheel event in pixel space, relative to the
// top-left corner of the render surface. DeltaY is only used by wheel
// events: positive scrolls down (zoom out), negative scrolls up (zoom in).
type Event struct {
	Kind   EventKind
	X, Y   float64
	DeltaY float64
}

// Point returns the event position.
func (e Event) Point() gg.Point {
	return gg.Pt(e.X, e.Y)
}

// Gesture is the interaction state. It is exactly one of Idle, Panning or
// DraggingNode.
type Gesture interface {
	gesture()
}

// Idle means no button gesture is active.
type Idle struct{}

// Panning tracks the last pointer position of an active pan.
type Panning struct {
	Last gg.Point
}

// DraggingNode tracks the id of the node being dragged.
type DraggingNode struct {
	ID string
}

func (Idle) gesture()         {}
func (Panning) gesture()      {}
func (DraggingNode) gesture() {}

// IntentKind identifies what an event did.
type IntentKind int

// Intent kinds.
const (
	IntentNone IntentKind = iota
	IntentBeginPan
	IntentPanDelta
	IntentBeginDragNode
	IntentDragNodeTo
	IntentEndGesture
	IntentZoomAtPoint
)

// String returns the intent kind name.
func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentBeginPan:
		return "begin-pan"
	case IntentPanDelta:
		return "pan-delta"
	case IntentBeginDragNode:
		return "begin-drag-node"
	case IntentDragNodeTo:
		return "drag-node-to"
	case IntentEndGesture:
		return "end-gesture"
	case IntentZoomAtPoint:
		return "zoom-at-point"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// Intent is the high-level effect of one event.
//
// Point is the pointer position for pan, zoom and begin-drag intents and
// the new graph-space node position for drag-node-to. Delta is the pan
// step in pixels. Factor is the effective zoom multiplier after clamping.
type Intent struct {
	Kind   IntentKind
	NodeID string
	Point  gg.Point
	Delta  gg.Point
	Factor float64
}

// Controller is the pointer state machine. It mutates the viewport for
// pan and zoom and the graph for node drags.
//
// Only one gesture runs at a time: a pointer-down during a pan or drag is
// ignored. Wheel events are independent of the gesture state.
type Controller struct {
	viewport *Viewport
	graph    *Graph
	radius   RadiusPolicy
	factor   float64
	state    Gesture
}

// NewController creates an idle controller driving v and g.
func NewController(v *Viewport, g *Graph) *Controller {
	if g == nil {
		g = EmptyGraph()
	}
	return &Controller{
		viewport: v,
		graph:    g,
		radius:   DefaultRadiusPolicy(),
		factor:   DefaultZoomFactor,
		state:    Idle{},
	}
}

// SetRadiusPolicy sets the hit radius policy used by pointer-down.
func (c *Controller) SetRadiusPolicy(p RadiusPolicy) {
	c.radius = p
}

// SetZoomFactor sets the per-notch wheel factor. Values <= 1 are ignored.
func (c *Controller) SetZoomFactor(f float64) {
	if f > 1 {
		c.factor = f
	}
}

// Gesture returns the current interaction state.
func (c *Controller) Gesture() Gesture {
	return c.state
}

// SetGraph replaces the graph the controller operates on. A drag whose node
// is missing from the new graph ends.
func (c *Controller) SetGraph(g *Graph) {
	if g == nil {
		g = EmptyGraph()
	}
	c.graph = g
	if d, ok := c.state.(DraggingNode); ok {
		if _, found := g.Node(d.ID); !found {
			Logger().Debug("graphview: dragged node removed by graph replacement", "node", d.ID)
			c.state = Idle{}
		}
	}
}

// Handle dispatches a raw event.
func (c *Controller) Handle(ev Event) (Intent, error) {
	switch ev.Kind {
	case EventPointerDown:
		return c.PointerDown(ev.Point())
	case EventPointerMove:
		return c.PointerMove(ev.Point())
	case EventPointerUp:
		return c.PointerUp(), nil
	case EventPointerLeave:
		return c.PointerLeave(), nil
	case EventWheel:
		return c.Wheel(ev.Point(), ev.DeltaY)
	default:
		return Intent{}, fmt.Errorf("graphview: unknown event kind %v", ev.Kind)
	}
}

// PointerDown starts a drag if p hits a node, otherwise a pan.
// It is ignored while a gesture is active.
func (c *Controller) PointerDown(p gg.Point) (Intent, error) {
	if _, idle := c.state.(Idle); !idle {
		return Intent{}, nil
	}
	if err := c.viewport.Validate(); err != nil {
		return Intent{}, err
	}

	if n, ok := HitTest(c.graph, c.viewport, p, c.radius); ok {
		c.state = DraggingNode{ID: n.ID}
		Logger().Debug("graphview: begin drag", "node", n.ID)
		return Intent{Kind: IntentBeginDragNode, NodeID: n.ID, Point: p}, nil
	}

	c.state = Panning{Last: p}
	Logger().Debug("graphview: begin pan", "x", p.X, "y", p.Y)
	return Intent{Kind: IntentBeginPan, Point: p}, nil
}

// PointerMove pans or drags depending on the active gesture.
func (c *Controller) PointerMove(p gg.Point) (Intent, error) {
	switch st := c.state.(type) {
	case Panning:
		d := p.Sub(st.Last)
		if err := c.viewport.Pan(d.X, d.Y); err != nil {
			return Intent{}, err
		}
		c.state = Panning{Last: p}
		return Intent{Kind: IntentPanDelta, Point: p, Delta: d}, nil

	case DraggingNode:
		if err := c.viewport.Validate(); err != nil {
			return Intent{}, err
		}
		g := c.viewport.Inverse(p)
		if err := c.graph.MoveNode(st.ID, g.X, g.Y); err != nil {
			c.state = Idle{}
			return Intent{}, err
		}
		return Intent{Kind: IntentDragNodeTo, NodeID: st.ID, Point: g}, nil
	}
	return Intent{}, nil
}

// PointerUp ends the active gesture. A drag is committed as-is: the node
// already holds its final position.
func (c *Controller) PointerUp() Intent {
	return c.end()
}

// PointerLeave ends the active gesture exactly like PointerUp.
func (c *Controller) PointerLeave() Intent {
	return c.end()
}

func (c *Controller) end() Intent {
	var it Intent
	switch st := c.state.(type) {
	case Panning:
		it = Intent{Kind: IntentEndGesture, Point: st.Last}
	case DraggingNode:
		it = Intent{Kind: IntentEndGesture, NodeID: st.ID}
	default:
		return Intent{}
	}
	c.state = Idle{}
	Logger().Debug("graphview: end gesture", "node", it.NodeID)
	return it
}

// Wheel zooms about p: deltaY > 0 zooms out by 1/factor, deltaY < 0 zooms
// in by factor, zero does nothing. The gesture state is unchanged.
func (c *Controller) Wheel(p gg.Point, deltaY float64) (Intent, error) {
	var f float64
	switch {
	case deltaY > 0:
		f = 1 / c.factor
	case deltaY < 0:
		f = c.factor
	default:
		return Intent{}, nil
	}

	before := c.viewport.Scale()
	after, err := c.viewport.ZoomAt(p, f)
	if err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentZoomAtPoint, Point: p, Factor: after / before}, nil
}
