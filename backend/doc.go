// Package backend provides the rendering backend registry for graphview.
//
// Backends register a factory from an init function and are selected at
// runtime by name. Switching backends on a Viewer keeps its graph and
// viewport, so a host can offer a raster/pipeline toggle without any
// visible jump.
//
// # Backend Registration
//
// Import backend packages for their side effect:
//
//	import (
//	    _ "github.com/gogpu/graphview/backend/pipeline"
//	    _ "github.com/gogpu/graphview/backend/raster"
//	)
//
// # Backend Selection
//
//	// Best available backend
//	r, err := backend.Default(800, 600)
//
//	// A specific backend
//	r, err := backend.Get("raster", 800, 600)
//
// # Available Backends
//
//   - "raster": immediate-mode path drawing through gg.Context, pixel space
//   - "pipeline": batched vertex buffers through a vertex/fragment pipeline,
//     normalized device space
package backend
