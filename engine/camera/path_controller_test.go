package camera

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func loopPath(t *testing.T) path.Path {
	t.Helper()
	pts := path.Lift2D([][2]float64{
		{68.5, 185.5}, {1, 262.5}, {270.9, 281.9}, {345.5, 212.8},
		{178, 155.7}, {240.3, 72.3}, {153.4, 0.6}, {52.6, 53.3},
	}, 0)
	p, err := path.New(pts, path.WithClosed(true))
	require.NoError(t, err)
	return p
}

func assertVecNear(t *testing.T, want, got r3.Vector, eps float64) {
	t.Helper()
	assert.InDelta(t, 0, want.Distance(got), eps, "want %v, got %v", want, got)
}

func TestFlipsNeverBeatTheCooldown(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	for _, probability := range []float64{1, 0.5, 0.05} {
		clock := common.NewManualClock(epoch)
		pc, err := NewPathController(
			WithPath(loopPath(t)),
			WithSpeed(0.001),
			WithClock(clock),
			WithFlipGate(6*time.Second, probability),
			WithRandomSeed(42),
		)
		require.NoError(t, err)

		var flips []time.Time
		sign := pc.Direction().StepSign
		for range 3000 {
			clock.Advance(100 * time.Millisecond)
			pc.Advance()
			if d := pc.Direction(); d.StepSign != sign {
				sign = d.StepSign
				flips = append(flips, clock.Now())
			}
		}

		require.NotEmpty(t, flips, "probability %v", probability)
		assert.False(t, flips[0].Before(epoch.Add(6*time.Second)), "no flip inside the initial cooldown")
		for i := 1; i < len(flips); i++ {
			assert.GreaterOrEqual(t, flips[i].Sub(flips[i-1]), 6*time.Second)
		}
		if probability == 1 {
			// the gate flips as soon as it opens: 300s of simulated time, one flip per 6s
			assert.Len(t, flips, 50)
		}
	}
}

func TestCooldownIsReportedUntilTheDeadline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	clock := common.NewManualClock(epoch)
	pc, err := NewPathController(
		WithPath(loopPath(t)),
		WithClock(clock),
		WithFlipGate(2*time.Second, 1),
	)
	require.NoError(t, err)

	d := pc.Direction()
	assert.True(t, d.CooldownActive)
	assert.Equal(t, epoch.Add(2*time.Second), d.CooldownDeadline)
	assert.Equal(t, Forward, d.Travel())

	clock.Advance(2 * time.Second)
	assert.False(t, pc.Direction().CooldownActive)
	pc.Advance()

	d = pc.Direction()
	assert.Equal(t, Reverse, d.Travel())
	assert.True(t, d.CooldownActive)
	assert.Equal(t, epoch.Add(4*time.Second), d.CooldownDeadline)
}

func TestFlipDisabledKeepsDirection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	clock := common.NewManualClock(epoch)
	pc, err := NewPathController(
		WithPath(loopPath(t)),
		WithClock(clock),
		WithFlipGate(0, 1),
		WithFlipEnabled(false),
	)
	require.NoError(t, err)

	for range 100 {
		clock.Advance(time.Second)
		pc.Advance()
	}
	assert.Equal(t, 1.0, pc.Direction().StepSign)
	assert.Equal(t, uint64(100), pc.Frame())
}

func TestReverseTravelStaysInsideThePath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	pc, err := NewPathController(
		WithPath(p),
		WithSpeed(-0.013),
		WithLookahead(0.02),
		WithFlipEnabled(false),
	)
	require.NoError(t, err)

	for range 500 {
		pc.Advance()
		progress := pc.Progress()
		u := common.AbsMod(progress)
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)

		state := pc.State()
		assertVecNear(t, p.PointAt(u), state.Position, 1e-9)
		assertVecNear(t, p.PointAt(common.AbsMod(progress+0.02)), state.LookAt, 1e-9)
	}
	assert.InDelta(t, -6.5, pc.Progress(), 1e-9)
}

func TestFlipReversesProgressAndLookahead(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	clock := common.NewManualClock(epoch)
	pc, err := NewPathController(
		WithPath(p),
		WithSpeed(0.01),
		WithLookahead(0.05),
		WithClock(clock),
		WithFlipGate(time.Hour, 1),
		WithInitialProgress(0.5),
	)
	require.NoError(t, err)

	pc.Advance()
	assert.InDelta(t, 0.51, pc.Progress(), 1e-12)

	clock.Advance(time.Hour)
	pc.Advance() // moves forward, then flips
	pc.Advance()
	assert.InDelta(t, 0.51, pc.Progress(), 1e-12)
	assertVecNear(t, p.PointAt(0.46), pc.State().LookAt, 1e-9)
}

func TestFlipOnlyTurnsTheViewWhenProgressIgnoresDirection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	clock := common.NewManualClock(epoch)
	pc, err := NewPathController(
		WithPath(loopPath(t)),
		WithSpeed(0.01),
		WithClock(clock),
		WithFlipGate(0, 1),
		WithProgressFollowsDirection(false),
	)
	require.NoError(t, err)

	for range 10 {
		pc.Advance()
	}
	assert.InDelta(t, 0.1, pc.Progress(), 1e-12)
}

func TestKeyboardSpeedEases(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	pc, err := NewPathController(
		WithPath(loopPath(t)),
		WithSpeed(0),
		WithSpeedEasing(0.01),
		WithSpeedInputStep(0.001),
		WithFlipEnabled(false),
	)
	require.NoError(t, err)

	pc.Advance()
	assert.Equal(t, 0.0, pc.Progress(), "neutral input does not move")

	pc.SetSpeedInput(SpeedIncrease)
	pc.Advance()
	assert.InDelta(t, 0.00001, pc.Progress(), 1e-15)

	for range 2000 {
		pc.Advance()
	}
	before := pc.Progress()
	pc.Advance()
	assert.InDelta(t, 0.001, pc.Progress()-before, 1e-6, "eased speed converges on the step")

	pc.SetSpeedInput(SpeedDecrease)
	for range 2000 {
		pc.Advance()
	}
	before = pc.Progress()
	pc.Advance()
	assert.InDelta(t, -0.001, pc.Progress()-before, 1e-6)

	pc.SetSpeedInput(SpeedNeutral)
	for range 3000 {
		pc.Advance()
	}
	before = pc.Progress()
	pc.Advance()
	assert.InDelta(t, 0, pc.Progress()-before, 1e-6)
}

func TestKeyboardInputIgnoredWithoutEasing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	pc, err := NewPathController(WithPath(loopPath(t)), WithSpeed(0), WithFlipEnabled(false))
	require.NoError(t, err)

	pc.SetSpeedInput(SpeedIncrease)
	pc.Advance()
	assert.Equal(t, 0.0, pc.Progress())
}

func TestLightAnchors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	pc, err := NewPathController(
		WithPath(p),
		WithSpeed(0.002),
		WithLookahead(0.03),
		WithTargetLight(true),
		WithLightOffsets(0.06),
		WithFlipEnabled(false),
	)
	require.NoError(t, err)

	for range 7 {
		pc.Advance()
	}
	lights := pc.LightPositions()
	require.Len(t, lights, 2)
	assert.Equal(t, pc.State().LookAt, lights[0])
	assertVecNear(t, p.PointAt(common.AbsMod(pc.Progress()+0.06)), lights[1], 1e-9)

	lights[0] = r3.Vector{}
	assert.NotEqual(t, r3.Vector{}, pc.LightPositions()[0])
}

func TestJitterIsAppliedToThePosition(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	pc, err := NewPathController(
		WithPath(p),
		WithSpeed(0),
		WithJitter(JitterLifted(2, 0.45, 6.5)),
		WithFlipEnabled(false),
	)
	require.NoError(t, err)

	for range 90 {
		pc.Advance()
	}
	want := p.PointAt(0).Add(r3.Vector{X: 0.9, Y: 6.5})
	assertVecNear(t, want, pc.State().Position, 1e-9)

	x, y, z := pc.Position()
	assert.InDelta(t, want.X, float64(x), 1e-3)
	assert.InDelta(t, want.Y, float64(y), 1e-3)
	assert.InDelta(t, want.Z, float64(z), 1e-3)
}

func TestJitterOffsets(t *testing.T) {
	assert.Equal(t, r3.Vector{}, JitterNone().Offset(123))

	o := JitterOrbit(2, 0.45).Offset(0)
	assert.InDelta(t, 0, o.X, 1e-12)
	assert.InDelta(t, 0.9, o.Y, 1e-12)
	assert.InDelta(t, 0.9, o.Z, 1e-12)

	b := JitterBreathing(15, 0.45, 0.005, 0.75)
	for _, f := range []uint64{0, 10, 400, 1257} {
		off := b.Offset(f)
		assert.InDelta(t, -off.Y, off.Z, 1e-12)
		assert.LessOrEqual(t, math.Abs(off.X), 15*0.45+1e-9)
		assert.LessOrEqual(t, math.Abs(off.Y), 0.75+1e-9)
	}
}

func TestInvalidControllerOptions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	cases := map[string][]PathControllerOption{
		"no path":      {},
		"nan speed":    {WithPath(p), WithSpeed(math.NaN())},
		"inf lead":     {WithPath(p), WithLookahead(math.Inf(1))},
		"cooldown":     {WithPath(p), WithFlipGate(-time.Second, 0.5)},
		"probability":  {WithPath(p), WithFlipGate(time.Second, 1.5)},
		"easing":       {WithPath(p), WithSpeedEasing(2)},
		"light offset": {WithPath(p), WithLightOffsets(0.1, math.NaN())},
		"nil clock":    {WithPath(p), WithClock(nil)},
	}
	for name, opts := range cases {
		pc, err := NewPathController(opts...)
		assert.Nil(t, pc, name)
		assert.True(t, errors.Is(err, common.ErrConfiguration), name)
	}
}
