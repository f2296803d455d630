package common

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapIsPeriodic(t *testing.T) {
	for _, v := range []float64{-3.75, -1, -0.25, 0, 0.25, 0.999, 1, 2.5, 1e6 + 0.125} {
		w := Wrap(v)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.Less(t, w, 1.0)
		assert.InDelta(t, w, Wrap(v+1), 1e-9, "Wrap(%v)", v)
	}
	assert.Equal(t, 0.0, Wrap(math.NaN()))
	assert.Equal(t, 0.0, Wrap(math.Inf(-1)))
}

func TestAbsModMirrorsNegativeProgress(t *testing.T) {
	assert.InDelta(t, 0.25, AbsMod(-0.25), 1e-12)
	assert.InDelta(t, 0.25, AbsMod(-3.25), 1e-12)
	assert.InDelta(t, 0.5, AbsMod(7.5), 1e-12)
	assert.Equal(t, 0.0, AbsMod(math.NaN()))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 0.5, Coalesce(0.0, 0.5))
}

func TestConfigurationErrorUnwraps(t *testing.T) {
	err := NewConfigurationError("segments", 0, "must be at least 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "segments", ce.Field)
	assert.Contains(t, err.Error(), "segments")
}

func TestRenderUnavailableWrapsCause(t *testing.T) {
	cause := errors.New("no adapter")
	err := RenderUnavailable("request adapter", cause)
	assert.True(t, errors.Is(err, ErrRenderUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(RenderUnavailable("surface", nil), ErrRenderUnavailable))
}

func TestManualClock(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewManualClock(start)
	assert.Equal(t, start, c.Now())
	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	eye := [3]float32{3, 4, 5}
	LookAt(view[:], eye, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	p := TransformPoint(view[:], eye)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
	assert.InDelta(t, 1, p[3], 1e-6)

	// the target lies straight ahead on -Z in view space
	target := TransformPoint(view[:], [3]float32{0, 0, 0})
	assert.InDelta(t, 0, target[0], 1e-5)
	assert.InDelta(t, 0, target[1], 1e-5)
	assert.Less(t, target[2], float32(0))
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], [3]float32{1, 2, 3}, [3]float32{0.3, 0.2, 0.1}, 2)
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
}

func TestBuildModelMatrixTranslatesAndScales(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], [3]float32{10, 0, -5}, [3]float32{}, 3)
	p := TransformPoint(m[:], [3]float32{1, 1, 1})
	assert.InDeltaSlice(t, []float32{13, 3, -2, 1}, p[:], 1e-6)
}

func TestFrustumContainsSphere(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], [3]float32{0, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0})
	Perspective(proj[:], math.Pi/2, 1, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustum(vp[:])

	assert.True(t, f.ContainsSphere([3]float32{0, 0, -10}, 0))
	assert.True(t, f.ContainsSphere([3]float32{5, 5, -10}, 0))
	assert.False(t, f.ContainsSphere([3]float32{0, 0, 10}, 0))
	assert.False(t, f.ContainsSphere([3]float32{0, 0, -200}, 0))
	assert.False(t, f.ContainsSphere([3]float32{50, 0, -10}, 1))
	assert.True(t, f.ContainsSphere([3]float32{0, 0, -101}, 2))
}

func TestColorHSL(t *testing.T) {
	red := ColorHSL(0, 1, 0.5)
	assert.InDelta(t, 1, red.R, 1e-6)
	assert.InDelta(t, 0, red.G, 1e-6)
	assert.InDelta(t, 1, red.A, 1e-6)
	// hue wraps
	assert.Equal(t, ColorHSL(120, 1, 0.5), ColorHSL(480, 1, 0.5))
	assert.Equal(t, Color{R: 1, G: 0.5, B: 0, A: 0.25}, Color{R: 0.5, G: 0.25, B: 0, A: 0.25}.Scale(2))
}
