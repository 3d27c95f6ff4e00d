// Package scene loads recorded viewer sessions.
//
// A scene is a YAML document holding a layout response and a list of
// input events. Replaying it drives a Viewer exactly as a host would:
// the layout is applied first, then each event in order.
//
//	layout:
//	  nodes:
//	    - {id: A, x: 0, y: 0}
//	    - {id: B, x: 100, y: 0}
//	  edges:
//	    - {source: A, target: B}
//	events:
//	  - {type: wheel, x: 400, y: 300, delta: -1}
//	  - {type: backend, backend: pipeline}
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/graphview"
)

// ErrUnknownEvent is returned for an event type that is not recognised.
var ErrUnknownEvent = errors.New("scene: unknown event type")

// Event types accepted in a scene file. The pointer and wheel types use
// the names printed by graphview.EventKind.
const (
	TypeBackend = "backend"
	TypeRefit   = "refit"
)

// Scene is a recorded session.
type Scene struct {
	Layout graphview.LayoutResponse `yaml:"layout"`
	Events []EventSpec              `yaml:"events"`
}

// EventSpec is one recorded input.
type EventSpec struct {
	Type    string  `yaml:"type"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Delta   float64 `yaml:"delta,omitempty"`
	Backend string  `yaml:"backend,omitempty"`
}

var eventKinds = map[string]graphview.EventKind{
	graphview.EventPointerDown.String():  graphview.EventPointerDown,
	graphview.EventPointerMove.String():  graphview.EventPointerMove,
	graphview.EventPointerUp.String():    graphview.EventPointerUp,
	graphview.EventPointerLeave.String(): graphview.EventPointerLeave,
	graphview.EventWheel.String():        graphview.EventWheel,
}

// Event converts a pointer or wheel entry into a viewer event.
func (e EventSpec) Event() (graphview.Event, error) {
	kind, ok := eventKinds[e.Type]
	if !ok {
		return graphview.Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return graphview.Event{Kind: kind, X: e.X, Y: e.Y, DeltaY: e.Delta}, nil
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes scene data. Event types are checked here so that a bad
// file fails before anything is drawn.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	for i, e := range s.Events {
		switch e.Type {
		case TypeBackend:
			if e.Backend == "" {
				return nil, fmt.Errorf("scene: event %d: backend event without a backend name", i)
			}
		case TypeRefit:
		default:
			if _, err := e.Event(); err != nil {
				return nil, fmt.Errorf("scene: event %d: %w", i, err)
			}
		}
	}
	return &s, nil
}

// Switcher installs the named backend on a viewer.
type Switcher func(v *graphview.Viewer, name string) error

// Replay applies the layout and then every event to v, returning the
// intents produced by pointer and wheel events. switchTo handles backend
// events; if it is nil they are skipped.
func (s *Scene) Replay(v *graphview.Viewer, switchTo Switcher) ([]graphview.Intent, error) {
	if err := v.ApplyLayout(s.Layout); err != nil {
		return nil, err
	}
	log := graphview.Logger()
	intents := make([]graphview.Intent, 0, len(s.Events))
	for i, e := range s.Events {
		switch e.Type {
		case TypeBackend:
			if switchTo == nil {
				log.Debug("scene: backend event skipped", "index", i, "backend", e.Backend)
				continue
			}
			if err := switchTo(v, e.Backend); err != nil {
				return intents, fmt.Errorf("scene: event %d: %w", i, err)
			}
		case TypeRefit:
			if err := v.Refit(); err != nil {
				return intents, fmt.Errorf("scene: event %d: %w", i, err)
			}
		default:
			ev, err := e.Event()
			if err != nil {
				return intents, fmt.Errorf("scene: event %d: %w", i, err)
			}
			it, err := v.Handle(ev)
			if err != nil {
				return intents, fmt.Errorf("scene: event %d: %w", i, err)
			}
			intents = append(intents, it)
		}
	}
	return intents, nil
}
