package tube

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/noise"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePath(t *testing.T) path.Path {
	t.Helper()
	pts := path.Lift2D([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, 0)
	p, err := path.New(pts, path.WithClosed(true))
	require.NoError(t, err)
	return p
}

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

func TestSquareTubeHasSixteenVertices(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := squarePath(t)
	g, err := Build(p, noise.NewField(noise.WithSeed(0)),
		WithSegments(4),
		WithDetail(4),
		WithRadius(1),
	)
	require.NoError(t, err)

	assert.Equal(t, 16, g.VertexCount())
	assert.Len(t, g.Vertices(), 16)
	assert.Len(t, g.Rings(), 4)

	a, b := p.PointAt(0), p.PointAt(1)
	assert.InDelta(t, 0, a.Distance(b), 1e-6)
}

func TestVerticesLieOnTheRing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g, err := Build(loopPath(t), noise.NewField(),
		WithSegments(64),
		WithDetail(9),
		WithRadius(3),
		WithPhase(PhaseNoise(10)),
		WithCosineSign(-1),
	)
	require.NoError(t, err)

	for _, ring := range g.Rings() {
		require.Len(t, ring.Vertices, 9)
		for _, v := range ring.Vertices {
			d := v.Position.Sub(ring.Center)
			assert.InDelta(t, 3.0, d.Norm(), 1e-6)
			// offsets stay in the normal/binormal plane
			assert.InDelta(t, 0.0, d.Dot(ring.Frame.Tangent), 1e-6)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := loopPath(t)
	build := func(workers int) Geometry {
		g, err := Build(p, noise.NewField(noise.WithSeed(10)),
			WithSegments(120),
			WithDetail(12),
			WithRadius(5),
			WithPhase(PhaseSpiral(5*math.Pi)),
			WithColoring(ColorByPositionNoise(0.001, 5)),
			WithRepresentation(RepresentInstances),
			WithRotationSeed(7),
			WithInstanceSize(3),
			WithWorkers(workers),
		)
		require.NoError(t, err)
		return g
	}

	a, b, c := build(1), build(4), build(16)
	assert.Equal(t, a.Vertices(), b.Vertices())
	assert.Equal(t, a.Vertices(), c.Vertices())
	assert.Equal(t, a.Instances(), b.Instances())
	assert.Equal(t, a.Instances(), c.Instances())
	require.Len(t, a.Instances(), 120*12)
	assert.Equal(t, 3.0, a.Instances()[0].Scale)
}

func TestRotationSeedChangesOnlyInstances(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := squarePath(t)
	build := func(seed int64) Geometry {
		g, err := Build(p, nil,
			WithSegments(8),
			WithDetail(3),
			WithRepresentation(RepresentInstances),
			WithRotationSeed(seed),
		)
		require.NoError(t, err)
		return g
	}

	a, b := build(1), build(2)
	assert.Equal(t, a.Vertices(), b.Vertices())
	assert.NotEqual(t, a.Instances()[0].Rotation, b.Instances()[0].Rotation)
	for _, inst := range a.Instances() {
		for _, angle := range []float64{inst.Rotation.X, inst.Rotation.Y, inst.Rotation.Z} {
			assert.GreaterOrEqual(t, angle, 0.0)
			assert.Less(t, angle, 2*math.Pi)
		}
	}
}

func TestLineLoopsRepeatFirstVertex(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g, err := Build(squarePath(t), noise.NewField(),
		WithSegments(10),
		WithDetail(7),
		WithColoring(ColorByRingNoise(20, 300, 175, 0.5, 0.5)),
		WithRepresentation(RepresentLineLoop),
	)
	require.NoError(t, err)

	loops := g.LineLoops()
	require.Len(t, loops, 10)
	for i, loop := range loops {
		require.Len(t, loop, 8)
		assert.Equal(t, uint32(i*7), loop[0])
		assert.Equal(t, loop[0], loop[7])
	}
	assert.Nil(t, g.Instances())
	assert.Nil(t, g.Triangles())

	// one hue per ring
	for _, ring := range g.Rings() {
		for _, v := range ring.Vertices {
			assert.Equal(t, ring.Vertices[0].Color, v.Color)
		}
	}
}

func TestSurfaceStitchesRings(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g, err := Build(squarePath(t), nil,
		WithSegments(6),
		WithDetail(5),
		WithRepresentation(RepresentSurface),
	)
	require.NoError(t, err)

	tris := g.Triangles()
	// closed path: every ring connects to the next, including the last to the first
	assert.Len(t, tris, 6*5*6)
	for _, idx := range tris {
		assert.Less(t, idx, uint32(g.VertexCount()))
	}

	open, err := path.New([]r3.Vector{{X: 0}, {X: 10}, {X: 20, Z: 5}})
	require.NoError(t, err)
	g, err = Build(open, nil, WithSegments(6), WithDetail(5), WithRepresentation(RepresentSurface))
	require.NoError(t, err)
	assert.Len(t, g.Triangles(), 5*5*6)
}

func TestSurfaceSeamFollowsPathNotFrames(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// closed frames on an open path must not bridge its two ends
	open, err := path.New([]r3.Vector{{X: 0}, {X: 10}, {X: 20, Z: 5}})
	require.NoError(t, err)
	g, err := Build(open, nil, WithSegments(6), WithDetail(5), WithClosedFrames(true), WithRepresentation(RepresentSurface))
	require.NoError(t, err)
	assert.Len(t, g.Triangles(), 5*5*6)

	// open frames on a closed path still stitch the last ring to the first
	g, err = Build(squarePath(t), nil, WithSegments(6), WithDetail(5), WithClosedFrames(false), WithRepresentation(RepresentSurface))
	require.NoError(t, err)
	tris := g.Triangles()
	require.Len(t, tris, 6*5*6)
	assert.Equal(t, []uint32{25, 0, 26}, tris[len(tris)-30:len(tris)-27])
}

func TestProgressColoringIsSmooth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g, err := Build(loopPath(t), nil, WithSegments(4), WithDetail(2), WithColoring(ColorByProgress(1)))
	require.NoError(t, err)

	rings := g.Rings()
	assert.Equal(t, common.ColorHSL(0, 1, 0.5), rings[0].Vertices[0].Color)
	assert.Equal(t, common.ColorHSL(90, 1, 0.5), rings[1].Vertices[1].Color)
	assert.Equal(t, common.ColorHSL(180, 1, 0.5), rings[2].Vertices[0].Color)
}

func TestGeometryAccessorsReturnCopies(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g, err := Build(squarePath(t), nil, WithSegments(4), WithDetail(4), WithRepresentation(RepresentLineLoop))
	require.NoError(t, err)

	vs := g.Vertices()
	vs[0].Position = r3.Vector{X: 1e9}
	rings := g.Rings()
	rings[0].Vertices[0].Position = r3.Vector{X: 1e9}
	loops := g.LineLoops()
	loops[0][0] = 99

	assert.NotEqual(t, r3.Vector{X: 1e9}, g.Vertices()[0].Position)
	assert.NotEqual(t, r3.Vector{X: 1e9}, g.Rings()[0].Vertices[0].Position)
	assert.Equal(t, uint32(0), g.LineLoops()[0][0])

	lo, hi := g.Bounds()
	for _, v := range g.Vertices() {
		assert.True(t, v.Position.X >= lo.X && v.Position.X <= hi.X)
		assert.True(t, v.Position.Z >= lo.Z && v.Position.Z <= hi.Z)
	}
}

func TestInvalidConfigurationIsRejected(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := squarePath(t)
	field := noise.NewField()
	cases := map[string]struct {
		path  path.Path
		field noise.Field
		opts  []BuilderOption
	}{
		"zero segments":    {path: p, field: field, opts: []BuilderOption{WithSegments(0)}},
		"zero detail":      {path: p, field: field, opts: []BuilderOption{WithDetail(0)}},
		"zero radius":      {path: p, field: field, opts: []BuilderOption{WithRadius(0)}},
		"negative radius":  {path: p, field: field, opts: []BuilderOption{WithRadius(-2)}},
		"nan radius":       {path: p, field: field, opts: []BuilderOption{WithRadius(math.NaN())}},
		"cosine sign":      {path: p, field: field, opts: []BuilderOption{WithCosineSign(0.5)}},
		"workers":          {path: p, field: field, opts: []BuilderOption{WithWorkers(0)}},
		"nil path":         {path: nil, field: field},
		"noise phase":      {path: p, opts: []BuilderOption{WithPhase(PhaseNoise(10))}},
		"noise coloring":   {path: p, opts: []BuilderOption{WithColoring(ColorByPositionNoise(1, 1))}},
		"instance size":    {path: p, field: field, opts: []BuilderOption{WithRepresentation(RepresentInstances), WithInstanceSize(0)}},
		"representation":   {path: p, field: field, opts: []BuilderOption{WithRepresentation(Representation(9))}},
		"negative detail":  {path: p, field: field, opts: []BuilderOption{WithDetail(-3)}},
		"negative segment": {path: p, field: field, opts: []BuilderOption{WithSegments(-1)}},
	}

	for name, tc := range cases {
		g, err := Build(tc.path, tc.field, tc.opts...)
		assert.Nil(t, g, name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, common.ErrConfiguration), name)
	}
}

func TestParseRepresentation(t *testing.T) {
	for _, r := range []Representation{RepresentPoints, RepresentLineLoop, RepresentInstances, RepresentSurface} {
		got, ok := ParseRepresentation(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := ParseRepresentation("voxels")
	assert.False(t, ok)
}
