package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = NewSize(DefaultViewportSize, DefaultViewportSize)

func TestComputeInitialOffset(t *testing.T) {
	tests := []struct {
		name    string
		natural Size
		want    Offset
	}{
		{"landscape larger than viewport", NewSize(800, 600), Offset{Top: -100, Left: -200}},
		{"same size as viewport", NewSize(400, 400), Offset{}},
		{"wide strip", NewSize(1000, 400), Offset{Top: 0, Left: -300}},
		{"smaller than viewport", NewSize(200, 100), Offset{Top: 150, Left: 100}},
		{"odd dimensions", NewSize(401, 403), Offset{Top: -1.5, Left: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeInitialOffset(tt.natural, viewport))
		})
	}
}

func TestComputeInitialOffset_NoNegativeZero(t *testing.T) {
	got := ComputeInitialOffset(NewSize(1000, 400), viewport)
	assert.False(t, math.Signbit(got.Top))
	assert.Equal(t, "position=(0, -300) scale=1", Compose(got, Pan{}, 1).String())
}

func TestComputeInitialOffset_MatchesFormula(t *testing.T) {
	for w := 1; w <= 1200; w += 97 {
		for h := 1; h <= 1200; h += 89 {
			got := ComputeInitialOffset(NewSize(w, h), viewport)
			assert.Equal(t, -float64(h-400)/2, got.Top)
			assert.Equal(t, -float64(w-400)/2, got.Left)
		}
	}
}

func TestApplyNudge(t *testing.T) {
	p := Pan{}
	p = ApplyNudge(p, DirectionUp, DefaultNudgeStep)
	assert.Equal(t, Pan{Top: -20}, p)
	p = ApplyNudge(p, DirectionLeft, DefaultNudgeStep)
	assert.Equal(t, Pan{Top: -20, Left: -20}, p)
	p = ApplyNudge(p, DirectionDown, DefaultNudgeStep)
	assert.Equal(t, Pan{Top: 0, Left: -20}, p)
	p = ApplyNudge(p, DirectionRight, DefaultNudgeStep)
	assert.Equal(t, Pan{}, p)
}

func TestApplyNudge_UnknownDirectionIsNoop(t *testing.T) {
	start := Pan{Top: 40, Left: -60}
	assert.Equal(t, start, ApplyNudge(start, DirectionNone, DefaultNudgeStep))
	assert.Equal(t, start, ApplyNudge(start, Direction(99), DefaultNudgeStep))
	assert.Equal(t, start, ApplyNudge(start, ParseDirection("diagonal"), DefaultNudgeStep))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionUp, ParseDirection("up"))
	assert.Equal(t, DirectionDown, ParseDirection(" Down "))
	assert.Equal(t, DirectionLeft, ParseDirection("LEFT"))
	assert.Equal(t, DirectionRight, ParseDirection("right"))
	assert.Equal(t, DirectionNone, ParseDirection(""))
	assert.Equal(t, "right", DirectionRight.String())
	assert.Equal(t, "none", Direction(42).String())
}

func TestApplyZoomDelta_ClampsAtMax(t *testing.T) {
	scale := DefaultScale
	for i := 0; i < 190; i++ {
		scale = ApplyZoomDelta(scale, DefaultZoomStep, DefaultZoomMin, DefaultZoomMax)
	}
	require.Equal(t, 20.0, scale)

	for i := 0; i < 25; i++ {
		scale = ApplyZoomDelta(scale, DefaultZoomStep, DefaultZoomMin, DefaultZoomMax)
		assert.Equal(t, 20.0, scale)
	}
}

func TestApplyZoomDelta_ClampsAtMin(t *testing.T) {
	scale := DefaultScale
	for i := 0; i < 500; i++ {
		scale = ApplyZoomDelta(scale, -DefaultZoomStep, DefaultZoomMin, DefaultZoomMax)
	}
	assert.Equal(t, -20.0, scale)
}

func TestApplyZoomDelta_ExactDecimals(t *testing.T) {
	scale := DefaultScale
	for i := 0; i < 3; i++ {
		scale = ApplyZoomDelta(scale, DefaultZoomStep, DefaultZoomMin, DefaultZoomMax)
	}
	assert.Equal(t, 1.3, scale)

	for i := 0; i < 13; i++ {
		scale = ApplyZoomDelta(scale, -DefaultZoomStep, DefaultZoomMin, DefaultZoomMax)
	}
	assert.Equal(t, 0.0, scale)
	assert.Equal(t, -0.1, ApplyZoomDelta(scale, -DefaultZoomStep, DefaultZoomMin, DefaultZoomMax))
}

func TestApplyZoomDelta_LargeDelta(t *testing.T) {
	assert.Equal(t, 20.0, ApplyZoomDelta(1, 1000, -20, 20))
	assert.Equal(t, -20.0, ApplyZoomDelta(1, -1000, -20, 20))
	assert.Equal(t, 2.5, ApplyZoomDelta(1, 1.5, 0.5, 3))
}

func TestApplyZoomDelta_NonFiniteDeltaIsNoop(t *testing.T) {
	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, 1.3, ApplyZoomDelta(1.3, delta, DefaultZoomMin, DefaultZoomMax), delta)
	}
}

func TestApplyZoomDelta_SubPrecisionDeltaIsDropped(t *testing.T) {
	assert.Equal(t, 1.0, ApplyZoomDelta(1, 1e-7, DefaultZoomMin, DefaultZoomMax))
	assert.Equal(t, 1.000001, ApplyZoomDelta(1, 1e-6, DefaultZoomMin, DefaultZoomMax))
}

func TestCompose(t *testing.T) {
	tr := Compose(Offset{Top: 0, Left: -300}, Pan{Left: 40}, 1.3)
	assert.Equal(t, Offset{Top: 0, Left: -260}, tr.Position)
	assert.Equal(t, 1.3, tr.Scale)
	assert.Equal(t, "position=(0, -260) scale=1.3", tr.String())
}
