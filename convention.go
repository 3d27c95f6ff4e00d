package graphview

import "github.com/gogpu/gg"

// Convention describes how a render surface addresses its own area.
//
// OriginX and OriginY place the origin as a fraction of the surface size
// (0,0 is top-left, 0.5,0.5 is the centre). SignX and SignY give the axis
// directions relative to pixel space (+1 right/down). Extent is the number
// of units spanning the whole surface along each axis; zero means one unit
// per pixel.
type Convention struct {
	Name    string
	OriginX float64
	OriginY float64
	SignX   float64
	SignY   float64
	Extent  float64
}

var (
	// PixelSpace is the raster convention: origin top-left, Y down, pixels.
	PixelSpace = Convention{Name: "pixel", SignX: 1, SignY: 1}

	// NormalizedDevice is the pipeline convention: origin centre, Y up,
	// both axes spanning [-1, 1].
	NormalizedDevice = Convention{Name: "ndc", OriginX: 0.5, OriginY: 0.5, SignX: 1, SignY: -1, Extent: 2}
)

// units returns convention units per pixel along each axis.
func (c Convention) units(width, height int) (ux, uy float64) {
	if c.Extent == 0 {
		return 1, 1
	}
	return c.Extent / float64(width), c.Extent / float64(height)
}

// ToSurface converts a pixel-space point into this convention.
func (c Convention) ToSurface(p gg.Point, width, height int) gg.Point {
	ux, uy := c.units(width, height)
	return gg.Pt(
		(p.X-c.OriginX*float64(width))*c.SignX*ux,
		(p.Y-c.OriginY*float64(height))*c.SignY*uy,
	)
}

// FromSurface converts a point in this convention back to pixel space.
func (c Convention) FromSurface(p gg.Point, width, height int) gg.Point {
	ux, uy := c.units(width, height)
	return gg.Pt(
		p.X/(c.SignX*ux)+c.OriginX*float64(width),
		p.Y/(c.SignY*uy)+c.OriginY*float64(height),
	)
}

// Delta converts a pixel-space displacement into convention units.
// Unlike ToSurface it ignores the origin.
func (c Convention) Delta(d gg.Point, width, height int) gg.Point {
	ux, uy := c.units(width, height)
	return gg.Pt(d.X*c.SignX*ux, d.Y*c.SignY*uy)
}

// PixelDelta converts a displacement in convention units into pixels.
func (c Convention) PixelDelta(d gg.Point, width, height int) gg.Point {
	ux, uy := c.units(width, height)
	return gg.Pt(d.X/(c.SignX*ux), d.Y/(c.SignY*uy))
}

// Matrix returns the affine map from pixel space into this convention.
func (c Convention) Matrix(width, height int) gg.Matrix {
	ux, uy := c.units(width, height)
	sx, sy := c.SignX*ux, c.SignY*uy
	return gg.Matrix{
		A: sx, B: 0, C: -c.OriginX * float64(width) * sx,
		D: 0, E: sy, F: -c.OriginY * float64(height) * sy,
	}
}
