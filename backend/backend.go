package backend

import (
	"errors"

	"github.com/gogpu/graphview"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidSize is returned for a non-positive surface size.
	ErrInvalidSize = errors.New("backend: invalid surface size")
)

// Backend name constants.
const (
	// BackendRaster is the immediate-mode raster backend.
	BackendRaster = "raster"
	// BackendPipeline is the vertex/fragment pipeline backend.
	BackendPipeline = "pipeline"
)

// Factory creates a renderer for a width x height surface.
type Factory func(width, height int) (graphview.Renderer, error)
