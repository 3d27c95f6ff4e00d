// Package graphview provides an interactive 2D viewport for node/edge graphs.
//
// # Overview
//
// graphview maps graph-space node positions onto a fixed-size render surface
// and lets a user pan, zoom and drag nodes. The viewport math, hit-testing
// and the pointer state machine are backend-independent; rendering is
// delegated to a [Renderer] (see the backend/raster and backend/pipeline
// packages), so both backends produce the same placement for the same state.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/graphview"
//	    "github.com/gogpu/graphview/backend/raster"
//	)
//
//	v := graphview.NewViewer(800, 600, graphview.WithRenderer(raster.New(800, 600)))
//	if err := v.ApplyLayout(resp); err != nil {
//	    // prior graph retained
//	}
//	v.Handle(graphview.Event{Kind: graphview.EventPointerDown, X: 120, Y: 80})
//	frame, err := v.Draw()
//
// # Coordinate System
//
// Three spaces are involved:
//   - Graph space: authoritative node positions as returned by the layout service
//   - Pixel space: origin top-left, X right, Y down (pointer input, raster backend)
//   - Normalized device space: origin centre, Y up, range [-1, 1] (pipeline backend)
//
// A graph point g reaches pixel space through the autofit frame followed by
// the interactive pan/zoom layer:
//
//	screen = (g*autofitScale + autofitOffset)*scale + offset
//
// The interactive offset is always kept in pixels; a [Convention] converts the
// result for the active backend.
//
// # Concurrency
//
// A Viewer and everything it owns has a single writer. Events, layout
// replacement and draws must be serialized by the caller.
package graphview

// Version is the current version of the library.
const Version = "0.1.0"
