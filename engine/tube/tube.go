package tube

import (
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/noise"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.tube")
}

// Vertex is one generated point of a ring.
type Vertex struct {
	Position r3.Vector
	Color    common.Color
}

// Ring is the cross-section generated at one sample along the path.
type Ring struct {
	// Index is the ring's position in the tube, 0..segments-1.
	Index int
	// T is the path parameter the ring was sampled at (Index/segments).
	T float64
	// Center is the path point the ring is built around.
	Center r3.Vector
	// Frame is the local basis used to place the vertices.
	Frame    path.Frame
	Vertices []Vertex
}

// Instance is one oriented solid placed at a vertex when the geometry uses RepresentInstances.
// Rotation holds Euler angles in radians applied in X, Y, Z order.
type Instance struct {
	Position r3.Vector
	Rotation r3.Vector
	Scale    float64
	Color    common.Color
}

// geometryImpl is the implementation of the Geometry interface.
type geometryImpl struct {
	segments       int
	detail         int
	radius         float64
	representation Representation

	rings     []Ring
	vertices  []Vertex
	lineLoops [][]uint32
	triangles []uint32
	instances []Instance

	boundsMin r3.Vector
	boundsMax r3.Vector
}

// Geometry is the immutable result of a tube build.
// Every accessor returns a copy, so callers can never modify the built geometry.
type Geometry interface {
	// Rings returns the rings in path order.
	//
	// Returns:
	//   - []Ring: segments rings of detail vertices each
	Rings() []Ring

	// Vertices returns all vertices flattened ring-major: vertex j of ring i is at i*detail+j.
	//
	// Returns:
	//   - []Vertex: segments*detail vertices
	Vertices() []Vertex

	// VertexCount returns segments*detail.
	//
	// Returns:
	//   - int: the number of generated vertices
	VertexCount() int

	// Segments returns the number of rings.
	//
	// Returns:
	//   - int: the ring count
	Segments() int

	// Detail returns the number of vertices per ring.
	//
	// Returns:
	//   - int: the per-ring vertex count
	Detail() int

	// Radius returns the ring radius the geometry was built with.
	//
	// Returns:
	//   - float64: the radius in world units
	Radius() float64

	// LineLoops returns one closed index list per ring for RepresentLineLoop, where the first index
	// is repeated at the end. It is nil for every other representation.
	//
	// Returns:
	//   - [][]uint32: indices into Vertices()
	LineLoops() [][]uint32

	// Triangles returns the triangle list stitching neighbouring rings for RepresentSurface.
	// It is nil for every other representation.
	//
	// Returns:
	//   - []uint32: indices into Vertices(), three per triangle
	Triangles() []uint32

	// Instances returns one instance per vertex for RepresentInstances, nil otherwise.
	//
	// Returns:
	//   - []Instance: the oriented solids in vertex order
	Instances() []Instance

	// Representation returns how the rings are meant to be drawn.
	//
	// Returns:
	//   - Representation: the representation chosen at build time
	Representation() Representation

	// Bounds returns the axis-aligned box enclosing every vertex.
	//
	// Returns:
	//   - r3.Vector: the minimum corner
	//   - r3.Vector: the maximum corner
	Bounds() (r3.Vector, r3.Vector)
}

var _ Geometry = &geometryImpl{}

// Build generates the tube geometry around p.
//
// Rings are generated concurrently on a worker pool. Each ring is written to its own slot,
// so the result does not depend on scheduling and two builds with the same inputs are identical.
//
// Parameters:
//   - p: the path the tube follows
//   - field: the noise field read by noise-driven phase and coloring strategies (may be nil otherwise)
//   - options: functional options to configure the build
//
// Returns:
//   - Geometry: the generated geometry
//   - error: a ConfigurationError when the configuration is invalid; no geometry is produced then
func Build(p path.Path, field noise.Field, options ...BuilderOption) (Geometry, error) {
	b := &builder{
		segments:       100,
		detail:         16,
		radius:         1,
		phase:          PhaseNone(),
		cosineSign:     1,
		coloring:       ColorByProgress(1),
		representation: RepresentPoints,
		instanceSize:   1,
		workers:        runtime.GOMAXPROCS(0),
		closedFrames:   true,
	}
	for _, opt := range options {
		opt(b)
	}
	if err := b.validate(p, field); err != nil {
		return nil, err
	}

	frames, err := p.Frames(b.segments, b.closedFrames)
	if err != nil {
		return nil, err
	}

	g := &geometryImpl{
		segments:       b.segments,
		detail:         b.detail,
		radius:         b.radius,
		representation: b.representation,
		rings:          make([]Ring, b.segments),
	}

	b.buildRings(g.rings, p, frames, field)

	g.vertices = make([]Vertex, 0, b.segments*b.detail)
	for _, ring := range g.rings {
		g.vertices = append(g.vertices, ring.Vertices...)
	}
	g.computeBounds()

	switch b.representation {
	case RepresentLineLoop:
		g.lineLoops = lineLoops(b.segments, b.detail)
	case RepresentSurface:
		// The seam exists only where the path itself returns to its start.
		g.triangles = surfaceTriangles(b.segments, b.detail, p.Closed())
	case RepresentInstances:
		g.instances = instances(g.vertices, b.rotationSeed, b.instanceSize)
	}

	tracer().Debugf("tube built: %d rings x %d vertices, radius %.2f, %s",
		b.segments, b.detail, b.radius, b.representation)
	return g, nil
}

// buildRings fills rings using the worker pool, one contiguous chunk of rings per task.
func (b *builder) buildRings(rings []Ring, p path.Path, frames []path.Frame, field noise.Field) {
	workers := min(b.workers, b.segments)
	chunk := (b.segments + workers - 1) / workers

	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < b.segments; start += chunk {
		end := min(start+chunk, b.segments)
		from := start // capture for closure
		id := taskID
		taskID++

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := from; i < end; i++ {
					rings[i] = b.buildRing(i, p, frames[i], field)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// buildRing places detail vertices around the path point at t = i/segments.
func (b *builder) buildRing(i int, p path.Path, frame path.Frame, field noise.Field) Ring {
	t := float64(i) / float64(b.segments)
	center := p.PointAt(t)
	phase := b.phase.Offset(t, field)

	ring := Ring{
		Index:    i,
		T:        t,
		Center:   center,
		Frame:    frame,
		Vertices: make([]Vertex, b.detail),
	}
	for j := range b.detail {
		angle := 2*math.Pi*float64(j)/float64(b.detail) + phase
		sin, cos := math.Sincos(angle)
		offset := frame.Normal.Mul(b.cosineSign * cos).Add(frame.Binormal.Mul(sin)).Mul(b.radius)
		pos := center.Add(offset)
		ring.Vertices[j] = Vertex{
			Position: pos,
			Color:    b.coloring.colorAt(t, pos, field),
		}
	}
	return ring
}

func lineLoops(segments, detail int) [][]uint32 {
	loops := make([][]uint32, segments)
	for i := range segments {
		base := uint32(i * detail)
		loop := make([]uint32, detail+1)
		for j := range detail {
			loop[j] = base + uint32(j)
		}
		loop[detail] = base
		loops[i] = loop
	}
	return loops
}

func surfaceTriangles(segments, detail int, closed bool) []uint32 {
	bands := segments - 1
	if closed {
		bands = segments
	}
	tris := make([]uint32, 0, bands*detail*6)
	for i := range bands {
		a := uint32(i * detail)
		b := uint32(((i + 1) % segments) * detail)
		for j := range detail {
			k := uint32((j + 1) % detail)
			jj := uint32(j)
			tris = append(tris,
				a+jj, b+jj, a+k,
				b+jj, b+k, a+k,
			)
		}
	}
	return tris
}

// instances orients one solid per vertex. Rotations come from a PCG source seeded with seed and are
// drawn in vertex order, so they never depend on how the rings were scheduled.
func instances(vertices []Vertex, seed int64, size float64) []Instance {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x6f78795f74756265))
	out := make([]Instance, len(vertices))
	for i, v := range vertices {
		out[i] = Instance{
			Position: v.Position,
			Rotation: r3.Vector{
				X: rng.Float64() * 2 * math.Pi,
				Y: rng.Float64() * 2 * math.Pi,
				Z: rng.Float64() * 2 * math.Pi,
			},
			Scale: size,
			Color: v.Color,
		}
	}
	return out
}

func (g *geometryImpl) computeBounds() {
	if len(g.vertices) == 0 {
		return
	}
	g.boundsMin = g.vertices[0].Position
	g.boundsMax = g.vertices[0].Position
	for _, v := range g.vertices[1:] {
		g.boundsMin = r3.Vector{X: min(g.boundsMin.X, v.Position.X), Y: min(g.boundsMin.Y, v.Position.Y), Z: min(g.boundsMin.Z, v.Position.Z)}
		g.boundsMax = r3.Vector{X: max(g.boundsMax.X, v.Position.X), Y: max(g.boundsMax.Y, v.Position.Y), Z: max(g.boundsMax.Z, v.Position.Z)}
	}
}

func (g *geometryImpl) Rings() []Ring {
	out := make([]Ring, len(g.rings))
	for i, r := range g.rings {
		out[i] = r
		out[i].Vertices = slices.Clone(r.Vertices)
	}
	return out
}

func (g *geometryImpl) Vertices() []Vertex {
	return slices.Clone(g.vertices)
}

func (g *geometryImpl) VertexCount() int {
	return len(g.vertices)
}

func (g *geometryImpl) Segments() int {
	return g.segments
}

func (g *geometryImpl) Detail() int {
	return g.detail
}

func (g *geometryImpl) Radius() float64 {
	return g.radius
}

func (g *geometryImpl) LineLoops() [][]uint32 {
	if g.lineLoops == nil {
		return nil
	}
	out := make([][]uint32, len(g.lineLoops))
	for i, l := range g.lineLoops {
		out[i] = slices.Clone(l)
	}
	return out
}

func (g *geometryImpl) Triangles() []uint32 {
	return slices.Clone(g.triangles)
}

func (g *geometryImpl) Instances() []Instance {
	return slices.Clone(g.instances)
}

func (g *geometryImpl) Representation() Representation {
	return g.representation
}

func (g *geometryImpl) Bounds() (r3.Vector, r3.Vector) {
	return g.boundsMin, g.boundsMax
}
