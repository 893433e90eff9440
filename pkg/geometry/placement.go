package geometry

import (
	"math"
	"strings"
)

// Placement defaults for the 400x400 body-outline viewport.
const (
	DefaultViewportSize = 400
	DefaultNudgeStep    = 20
	DefaultZoomStep     = 0.1
	DefaultZoomMin      = -20.0
	DefaultZoomMax      = 20.0
	DefaultScale        = 1.0
)

// scalePrecision bounds the decimal places kept after a zoom step so that
// repeated 0.1 steps land on exact decimals instead of accumulating error.
const scalePrecision = 1e6

// Direction is a nudge direction.
type Direction int

const (
	DirectionNone Direction = iota // Unrecognized; nudging with it is a no-op
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection maps a direction name to a Direction. Unknown names yield
// DirectionNone rather than an error.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirectionUp
	case "down":
		return DirectionDown
	case "left":
		return DirectionLeft
	case "right":
		return DirectionRight
	default:
		return DirectionNone
	}
}

// ComputeInitialOffset returns the offset that centers an image of the given
// natural size inside the viewport. Images larger than the viewport get
// negative offsets.
func ComputeInitialOffset(natural, viewport Size) Offset {
	return Offset{
		Top:  float64(viewport.Height-natural.Height) / 2,
		Left: float64(viewport.Width-natural.Width) / 2,
	}
}

// ApplyNudge moves the pan one step in the given direction.
func ApplyNudge(current Pan, dir Direction, step int) Pan {
	switch dir {
	case DirectionUp:
		current.Top -= step
	case DirectionDown:
		current.Top += step
	case DirectionLeft:
		current.Left -= step
	case DirectionRight:
		current.Left += step
	case DirectionNone:
		// no-op
	}
	return current
}

// ApplyZoomDelta returns currentScale+delta clamped to [min, max]. A NaN or
// infinite delta leaves the scale unchanged.
func ApplyZoomDelta(currentScale, delta, min, max float64) float64 {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return currentScale
	}
	next := math.Round((currentScale+delta)*scalePrecision) / scalePrecision
	return clamp(next, min, max)
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
