// Package fonts provides the label face shared by the rendering backends.
package fonts

import (
	"math"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Label metrics at zoom scale 1. Both grow and shrink with the zoom scale.
const (
	// LabelSize is the label font size in points.
	LabelSize = 12.0
	// LabelOffset is the distance from a node centre up to its label baseline.
	LabelOffset = 15.0
)

// MinLabelSize is the smallest face ever built.
const MinLabelSize = 1.0

var (
	sourceOnce sync.Once
	source     *text.FontSource
	sourceErr  error
)

// Source returns the parsed Go Regular font, loading it on first use.
func Source() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(goregular.TTF)
	})
	return source, sourceErr
}

// Label returns a face for node labels at zoom scale 1.
func Label() (text.Face, error) {
	return LabelAt(1)
}

// LabelAt returns a face for node labels at the given zoom scale.
func LabelAt(scale float64) (text.Face, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}
	return src.Face(labelSize(scale)), nil
}

// labelSize is LabelSize*scale, kept finite and at least MinLabelSize.
func labelSize(scale float64) float64 {
	size := LabelSize * scale
	if math.IsNaN(size) || size < MinLabelSize {
		return MinLabelSize
	}
	if math.IsInf(size, 1) {
		return math.MaxFloat32
	}
	return size
}

// Baseline returns the label baseline y for a node centred at y.
func Baseline(y, scale float64) float64 {
	return y - LabelOffset*scale
}

// Cache holds the label face of the most recent zoom scale, so frames drawn
// without zooming reuse one face. It is not safe for concurrent use.
type Cache struct {
	scale float64
	face  text.Face
}

// At returns the label face for scale, building it when the scale changed.
func (c *Cache) At(scale float64) (text.Face, error) {
	if c.face != nil && c.scale == scale {
		return c.face, nil
	}
	face, err := LabelAt(scale)
	if err != nil {
		return nil, err
	}
	c.scale, c.face = scale, face
	return face, nil
}
