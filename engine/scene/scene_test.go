package scene

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/tube"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func squareConfig() config.Scene {
	return config.Scene{
		Name:      "square",
		Seed:      1,
		Segments:  4,
		Detail:    4,
		Radius:    1,
		Closed:    true,
		Points:    [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		Speed:     0.01,
		Lookahead: 0.05,
	}
}

func TestSquareScene(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	s, err := NewScene(squareConfig(), WithClock(common.NewManualClock(epoch)), WithComputeWorkers(2))
	require.NoError(t, err)

	assert.Equal(t, "square", s.Name())
	assert.True(t, s.Active())
	assert.Equal(t, 16, s.Geometry().VertexCount())
	assert.Len(t, s.Path().ControlPoints(), 4)

	a, b := s.Path().PointAt(0), s.Path().PointAt(1)
	assert.InDelta(t, 0, a.Distance(b), 1e-6)

	f := s.Snapshot()
	assert.Equal(t, uint64(0), f.Index)
	assert.Same(t, s.Geometry(), f.Geometry)
	assert.Empty(t, f.Lights)
	assert.Equal(t, float32(0.5), f.PointSize)
}

func TestTickMovesCamera(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	s, err := NewScene(squareConfig(), WithClock(common.NewManualClock(epoch)))
	require.NoError(t, err)

	before := s.Snapshot()
	for range 10 {
		s.Tick()
	}
	after := s.Snapshot()

	assert.Equal(t, uint64(10), after.Index)
	assert.InDelta(t, 0.1, after.Direction.Progress, 1e-12)
	assert.NotEqual(t, before.Eye, after.Eye)
	assert.NotEqual(t, before.ViewProjection, after.ViewProjection)

	pos := common.Vec3f(after.Camera.Position)
	assert.Equal(t, pos, after.Eye)
}

func TestResizeIgnoresZeroSizes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	s, err := NewScene(squareConfig(), WithAspect(2))
	require.NoError(t, err)
	assert.Equal(t, float32(2), s.Camera().Aspect())

	s.Resize(0, 100)
	s.Resize(100, -1)
	assert.Equal(t, float32(2), s.Camera().Aspect())

	s.Resize(300, 100)
	assert.Equal(t, float32(3), s.Camera().Aspect())
}

func TestSceneRejectsInvalidConfig(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg := squareConfig()
	cfg.Detail = 0
	_, err := NewScene(cfg)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	cfg = squareConfig()
	cfg.Points = [][]float64{{0, 0}, {10, 0}, {0, 0}}
	_, err = NewScene(cfg)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestSceneDoesNotMutateConfig(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg := squareConfig()
	_, err := NewScene(cfg)
	require.NoError(t, err)

	assert.Empty(t, cfg.Curve)
	assert.Len(t, cfg.Points, 5)
}

func TestPresetsBuild(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	presets, err := config.Presets()
	require.NoError(t, err)

	for _, cfg := range presets {
		t.Run(cfg.Name, func(t *testing.T) {
			s, err := NewScene(cfg, WithClock(common.NewManualClock(epoch)))
			require.NoError(t, err)
			assert.Equal(t, cfg.Segments*cfg.Detail, s.Geometry().VertexCount())

			s.Tick()
			f := s.Snapshot()
			assert.Equal(t, uint64(1), f.Index)
			assert.Len(t, f.Lights, len(cfg.Lights))
		})
	}
}

func TestRandomLiftIsSeeded(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg, err := config.Preset("octa")
	require.NoError(t, err)
	cfg.Segments = 50

	a, err := NewScene(cfg)
	require.NoError(t, err)
	b, err := NewScene(cfg)
	require.NoError(t, err)

	pa, pb := a.Path().ControlPoints(), b.Path().ControlPoints()
	require.Len(t, pa, 8)
	assert.Equal(t, pa, pb)
	for _, p := range pa {
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, 100.0)
	}
	assert.Equal(t, a.Geometry().Vertices(), b.Geometry().Vertices())

	cfg.Seed = 11
	c, err := NewScene(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, pa, c.Path().ControlPoints())
}

func TestLightsFollowAnchors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg, err := config.Preset("kaleidoscope")
	require.NoError(t, err)

	s, err := NewScene(cfg, WithClock(common.NewManualClock(epoch)))
	require.NoError(t, err)
	s.Tick()

	anchors := s.Controller().LightPositions()
	lights := s.Lights()
	require.Len(t, anchors, 2)
	require.Len(t, lights, 2)
	for i := range lights {
		assert.Equal(t, common.Vec3f(anchors[i]), lights[i].Position())
	}

	f := s.Snapshot()
	require.Len(t, f.Lights, 2)
	assert.Equal(t, float32(250), f.Lights[0].Range)
	assert.Equal(t, float32(350), f.Lights[1].Range)
}

func TestUnanchoredLightsAreDisabled(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg := squareConfig()
	cfg.Lights = []config.Light{{Color: 0xffffff, Range: 10}}

	s, err := NewScene(cfg)
	require.NoError(t, err)
	assert.False(t, s.Lights()[0].Enabled())
	assert.Empty(t, s.Snapshot().Lights)
}

func TestKeyboardSpeedControl(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg, err := config.Preset("rider")
	require.NoError(t, err)
	cfg.Segments = 20

	s, err := NewScene(cfg)
	require.NoError(t, err)

	s.Tick()
	assert.Equal(t, 0.0, s.Controller().Progress())

	s.HandleKey(common.KeyW, true)
	for range 5 {
		s.Tick()
	}
	forward := s.Controller().Progress()
	assert.Greater(t, forward, 0.0)

	s.HandleKey(common.KeyW, false)
	s.HandleKey(common.KeyS, true)
	for range 500 {
		s.Tick()
	}
	assert.Less(t, s.Controller().Progress(), forward)
}

func TestKeysIgnoredWithoutKeyboard(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg := squareConfig()
	cfg.Speed = 0
	cfg.Camera.Flip.Enabled = new(bool)

	s, err := NewScene(cfg)
	require.NoError(t, err)

	s.HandleKey(common.KeyW, true)
	for range 5 {
		s.Tick()
	}
	assert.Equal(t, 0.0, s.Controller().Progress())
}

func TestSurfaceSceneHasTriangles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cfg := squareConfig()
	cfg.Representation = "surface"
	s, err := NewScene(cfg)
	require.NoError(t, err)

	assert.Equal(t, tube.RepresentSurface, s.Geometry().Representation())
	assert.Len(t, s.Geometry().Triangles(), 4*4*6)
}
