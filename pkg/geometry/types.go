// Package geometry provides the placement arithmetic used to fit an image into
// the fixed viewport: centering, directional nudges, clamped zoom and the
// derived render transform.
package geometry

import "fmt"

// Size represents integer pixel dimensions.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// IsPositive reports whether both dimensions are greater than zero.
func (s Size) IsPositive() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Offset is a signed (top, left) position in viewport units.
type Offset struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Add returns the offset moved by a pan.
func (o Offset) Add(p Pan) Offset {
	return Offset{Top: o.Top + float64(p.Top), Left: o.Left + float64(p.Left)}
}

// Pan is the cumulative nudge applied on top of the initial centering offset.
type Pan struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Transform is the render transform of the image layer: its top-left position
// inside the viewport and the scale applied around the image center.
type Transform struct {
	Position Offset  `json:"position"`
	Scale    float64 `json:"scale"`
}

func (t Transform) String() string {
	return fmt.Sprintf("position=(%g, %g) scale=%g", t.Position.Top, t.Position.Left, t.Scale)
}

// Compose derives the render transform from its parts. Nothing is cached; the
// caller recomposes on every read.
func Compose(initial Offset, pan Pan, scale float64) Transform {
	return Transform{Position: initial.Add(pan), Scale: scale}
}
