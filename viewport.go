package graphview

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// DefaultScaleMin is the smallest interactive scale reachable by zooming.
const DefaultScaleMin = 0.1

// ViewportState is the complete transform state of a viewport.
//
// Scale and the offsets form the interactive layer; the Autofit fields form
// the base frame computed from the graph bounds. Offsets are in pixels.
type ViewportState struct {
	Scale          float64
	OffsetX        float64
	OffsetY        float64
	AutofitScale   float64
	AutofitOffsetX float64
	AutofitOffsetY float64
}

// DefaultViewportState is the identity transform.
func DefaultViewportState() ViewportState {
	return ViewportState{Scale: 1, AutofitScale: 1}
}

// Validate reports ErrNonPositiveScale if either scale is not a finite,
// strictly positive number.
func (s ViewportState) Validate() error {
	if !(s.Scale > 0) || math.IsInf(s.Scale, 1) {
		return fmt.Errorf("scale %v: %w", s.Scale, ErrNonPositiveScale)
	}
	if !(s.AutofitScale > 0) || math.IsInf(s.AutofitScale, 1) {
		return fmt.Errorf("autofit scale %v: %w", s.AutofitScale, ErrNonPositiveScale)
	}
	return nil
}

// ScaleLimits bounds the interactive scale. Max of zero means unbounded.
type ScaleLimits struct {
	Min float64
	Max float64
}

// Clamp bounds s to the limits.
func (l ScaleLimits) Clamp(s float64) float64 {
	if l.Max > 0 && s > l.Max {
		s = l.Max
	}
	if !(s >= l.Min) {
		s = l.Min
	}
	return s
}

// validate checks that clamping can only ever produce positive scales.
func (l ScaleLimits) validate() error {
	if !(l.Min > 0) {
		return fmt.Errorf("scale min %v: %w", l.Min, ErrNonPositiveScale)
	}
	if l.Max != 0 && l.Max < l.Min {
		return fmt.Errorf("graphview: scale max %v below min %v", l.Max, l.Min)
	}
	return nil
}

// Viewport maps between graph space and the render surface.
//
// The forward map is
//
//	screen = (g*AutofitScale + AutofitOffset)*Scale + Offset
//
// and Inverse is its exact algebraic inverse. The surface size is fixed at
// construction.
type Viewport struct {
	state  ViewportState
	limits ScaleLimits
	width  int
	height int

	// Low-order residuals of the pan offset, kept so that opposite pans
	// cancel exactly instead of accumulating rounding error.
	residX float64
	residY float64
}

// NewViewport creates an identity viewport for a width x height surface.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		state:  DefaultViewportState(),
		limits: ScaleLimits{Min: DefaultScaleMin},
		width:  width,
		height: height,
	}
}

// Size returns the surface size in pixels.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

// State returns a copy of the current state.
func (v *Viewport) State() ViewportState {
	return v.state
}

// Restore replaces the state after validating it.
func (v *Viewport) Restore(s ViewportState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	v.state = s
	v.residX, v.residY = 0, 0
	return nil
}

// Validate checks the current state.
func (v *Viewport) Validate() error {
	return v.state.Validate()
}

// Limits returns the interactive scale limits.
func (v *Viewport) Limits() ScaleLimits {
	return v.limits
}

// SetLimits replaces the interactive scale limits.
// The current scale is not re-clamped until the next zoom.
func (v *Viewport) SetLimits(l ScaleLimits) error {
	if err := l.validate(); err != nil {
		return err
	}
	v.limits = l
	return nil
}

// Scale returns the interactive scale.
func (v *Viewport) Scale() float64 {
	return v.state.Scale
}

// Offset returns the interactive offset in pixels.
func (v *Viewport) Offset() gg.Point {
	return gg.Pt(v.state.OffsetX, v.state.OffsetY)
}

// Autofit returns the base frame.
func (v *Viewport) Autofit() Autofit {
	return Autofit{
		Scale:   v.state.AutofitScale,
		OffsetX: v.state.AutofitOffsetX,
		OffsetY: v.state.AutofitOffsetY,
	}
}

// SetAutofit replaces the base frame, leaving pan and zoom untouched.
func (v *Viewport) SetAutofit(a Autofit) error {
	next := v.state
	next.AutofitScale = a.Scale
	next.AutofitOffsetX = a.OffsetX
	next.AutofitOffsetY = a.OffsetY
	if err := next.Validate(); err != nil {
		return err
	}
	v.state = next
	return nil
}

// Reset returns the interactive layer to scale 1 and zero offset.
func (v *Viewport) Reset() {
	v.state.Scale = 1
	v.state.OffsetX, v.state.OffsetY = 0, 0
	v.residX, v.residY = 0, 0
}

// Forward maps a graph point to pixel space.
func (v *Viewport) Forward(g gg.Point) gg.Point {
	s := v.state
	return gg.Pt(
		(g.X*s.AutofitScale+s.AutofitOffsetX)*s.Scale+s.OffsetX,
		(g.Y*s.AutofitScale+s.AutofitOffsetY)*s.Scale+s.OffsetY,
	)
}

// Inverse maps a pixel-space point to graph space.
func (v *Viewport) Inverse(p gg.Point) gg.Point {
	s := v.state
	return gg.Pt(
		((p.X-s.OffsetX)/s.Scale-s.AutofitOffsetX)/s.AutofitScale,
		((p.Y-s.OffsetY)/s.Scale-s.AutofitOffsetY)/s.AutofitScale,
	)
}

// ToSurface maps a graph point into the given surface convention.
func (v *Viewport) ToSurface(g gg.Point, c Convention) gg.Point {
	return c.ToSurface(v.Forward(g), v.width, v.height)
}

// FromSurface maps a point in the given surface convention to graph space.
func (v *Viewport) FromSurface(p gg.Point, c Convention) gg.Point {
	return v.Inverse(c.FromSurface(p, v.width, v.height))
}

// Matrix returns the graph-to-surface transform as an affine matrix.
func (v *Viewport) Matrix(c Convention) gg.Matrix {
	s := v.state
	k := s.AutofitScale * s.Scale
	toPixels := gg.Matrix{
		A: k, B: 0, C: s.AutofitOffsetX*s.Scale + s.OffsetX,
		D: 0, E: k, F: s.AutofitOffsetY*s.Scale + s.OffsetY,
	}
	return c.Matrix(v.width, v.height).Multiply(toPixels)
}

// Pan moves the view by a pixel-space delta.
func (v *Viewport) Pan(dx, dy float64) error {
	if err := v.state.Validate(); err != nil {
		return err
	}
	v.state.OffsetX, v.residX = compensatedAdd(v.state.OffsetX, v.residX, dx)
	v.state.OffsetY, v.residY = compensatedAdd(v.state.OffsetY, v.residY, dy)
	return nil
}

// PanSurface moves the view by a delta expressed in convention units.
func (v *Viewport) PanSurface(d gg.Point, c Convention) error {
	p := c.PixelDelta(d, v.width, v.height)
	return v.Pan(p.X, p.Y)
}

// ZoomAt multiplies the scale by factor, clamped to the limits, keeping the
// graph point under p fixed on screen. It returns the new scale.
func (v *Viewport) ZoomAt(p gg.Point, factor float64) (float64, error) {
	if err := v.state.Validate(); err != nil {
		return v.state.Scale, err
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v.state.Scale, fmt.Errorf("graphview: zoom factor %v is not finite", factor)
	}

	s := v.state.Scale
	next := v.limits.Clamp(s * factor)

	// Point under the cursor in the autofit frame, solved against the
	// pre-zoom transform, then pinned back under the cursor.
	ux := (p.X - v.state.OffsetX) / s
	uy := (p.Y - v.state.OffsetY) / s
	ox, oy := p.X-ux*next, p.Y-uy*next

	// Without an upper limit the product can overflow; the state is left as is.
	if math.IsInf(next, 0) || !isFinite(ox) || !isFinite(oy) {
		return s, fmt.Errorf("graphview: zoom by %v from scale %v overflows: %w", factor, s, ErrNonPositiveScale)
	}
	v.state.Scale = next
	v.state.OffsetX, v.state.OffsetY = ox, oy
	v.residX, v.residY = 0, 0
	return next, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// compensatedAdd adds d to the double-double value hi+lo and renormalizes.
func compensatedAdd(hi, lo, d float64) (float64, float64) {
	s := hi + d
	bp := s - hi
	e := (hi - (s - bp)) + (d - bp)
	e += lo
	h := s + e
	return h, e - (h - s)
}
