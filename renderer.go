package graphview

import "image"

// Renderer draws a graph through a viewport onto a fixed-size surface.
//
// Each Draw clears the surface, draws every resolvable edge as a line, then
// every node as a filled disc of the policy radius with its id as a label.
// Implementations differ only in how geometry reaches the surface; for the
// same graph and viewport the returned frames must agree once converted to
// pixel space.
type Renderer interface {
	// Name returns the backend identifier (e.g. "raster", "pipeline").
	Name() string

	// Convention returns the coordinate convention of the surface.
	Convention() Convention

	// Draw renders one frame and returns its geometry in the renderer's
	// convention. It fails with ErrNonPositiveScale on an invalid viewport
	// and draws nothing in that case.
	Draw(g *Graph, v *Viewport, policy RadiusPolicy) (*Frame, error)

	// Image returns the last rendered surface.
	Image() image.Image

	// Close releases renderer resources.
	Close() error
}
