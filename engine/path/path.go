package path

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.path")
}

// duplicateEpsilon is the distance below which a closing control point counts as a repeat of the first.
const duplicateEpsilon = 1e-9

// pathImpl is the implementation of the Path interface.
type pathImpl struct {
	mu *sync.Mutex

	points    []r3.Vector
	closed    bool
	curveType CurveType
	tension   float64
	divisions int

	curve curve

	// lengths[k] is the arc length from u=0 to u=k/divisions.
	lengths []float64

	frameCache map[frameKey][]Frame
}

type frameKey struct {
	segments int
	closed   bool
}

// Path is a smooth curve through an ordered list of control points.
//
// Positions are addressed by a normalized arc-length parameter t, so equal steps in t cover equal
// distances along the curve. A Path is immutable after construction and safe for concurrent use.
type Path interface {
	// PointAt returns the position at parameter t. Any real t is accepted: closed paths are periodic
	// with period 1, open paths use t directly inside [0, 1] and wrap it outside.
	//
	// Parameters:
	//   - t: the curve parameter
	//
	// Returns:
	//   - r3.Vector: the world-space position
	PointAt(t float64) r3.Vector

	// TangentAt returns the unit tangent at parameter t.
	//
	// Parameters:
	//   - t: the curve parameter
	//
	// Returns:
	//   - r3.Vector: the normalized tangent
	TangentAt(t float64) r3.Vector

	// Frames returns segments+1 rotation-minimizing frames sampled at t = i/segments.
	// When closed is true the accumulated twist is spread over the whole path so the last frame
	// matches the first. Results are cached per (segments, closed).
	//
	// Parameters:
	//   - segments: the number of intervals to sample (must be >= 1)
	//   - closed: whether to close the seam between the last and first frame
	//
	// Returns:
	//   - []Frame: the frames, indexed 0..segments
	//   - error: a ConfigurationError when segments < 1
	Frames(segments int, closed bool) ([]Frame, error)

	// Length returns the total arc length.
	//
	// Returns:
	//   - float64: the curve length in world units
	Length() float64

	// Closed reports whether the path wraps from its last control point back to the first.
	//
	// Returns:
	//   - bool: true for closed paths
	Closed() bool

	// CurveType returns the interpolation used between control points.
	//
	// Returns:
	//   - CurveType: the curve type
	CurveType() CurveType

	// ControlPoints returns a copy of the control points the path interpolates.
	//
	// Returns:
	//   - []r3.Vector: the control points
	ControlPoints() []r3.Vector
}

var _ Path = &pathImpl{}

// New builds a Path through the given control points.
// A closed path whose last point repeats the first drops the repeated point.
//
// Parameters:
//   - points: the ordered control points (at least 2)
//   - options: functional options to configure the path
//
// Returns:
//   - Path: the new path
//   - error: a ConfigurationError for too few, non-finite or coincident points
func New(points []r3.Vector, options ...PathBuilderOption) (Path, error) {
	p := &pathImpl{
		mu:         &sync.Mutex{},
		curveType:  CurveCentripetal,
		tension:    0.5,
		divisions:  200,
		frameCache: make(map[frameKey][]Frame),
	}
	for _, opt := range options {
		opt(p)
	}

	if len(points) < 2 {
		return nil, common.NewConfigurationError("points", len(points), "a path needs at least 2 control points")
	}
	for i, pt := range points {
		if !finite(pt) {
			return nil, common.NewConfigurationError(fmt.Sprintf("points[%d]", i), pt, "coordinates must be finite")
		}
	}
	if p.divisions < 1 {
		return nil, common.NewConfigurationError("arc_length_divisions", p.divisions, "must be at least 1")
	}

	p.points = slices.Clone(points)
	if p.closed && len(p.points) > 2 && p.points[0].Sub(p.points[len(p.points)-1]).Norm() <= duplicateEpsilon {
		p.points = p.points[:len(p.points)-1]
	}
	if p.closed && len(p.points) < 3 {
		return nil, common.NewConfigurationError("points", len(p.points), "a closed path needs at least 3 distinct control points")
	}

	switch p.curveType {
	case CurveHobby:
		h, err := newHobbyCurve(p.points, p.closed)
		if err != nil {
			return nil, err
		}
		p.curve = h
	case CurveCentripetal, CurveChordal, CurveCatmullRom:
		p.curve = &catmullRom{points: p.points, closed: p.closed, kind: p.curveType, tension: p.tension}
	default:
		return nil, common.NewConfigurationError("curve", p.curveType, "unknown curve type")
	}

	p.buildLengths()
	if p.Length() <= 0 {
		return nil, common.NewConfigurationError("points", len(points), "control points are all coincident")
	}

	tracer().Debugf("path built: %d points, closed=%v, curve=%s, length=%.3f",
		len(p.points), p.closed, p.curveType, p.Length())
	return p, nil
}

// Lift2D places 2D control points (a, b) on the horizontal plane at height y as (a, y, b).
//
// Parameters:
//   - points: 2D control points
//   - y: the height of the plane
//
// Returns:
//   - []r3.Vector: the lifted points
func Lift2D(points [][2]float64, y float64) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = r3.Vector{X: p[0], Y: y, Z: p[1]}
	}
	return out
}

func (p *pathImpl) PointAt(t float64) r3.Vector {
	return p.curve.point(p.arcToU(p.param(t)))
}

func (p *pathImpl) TangentAt(t float64) r3.Vector {
	const delta = 1e-4
	t = p.param(t)
	t1, t2 := t-delta, t+delta
	if !p.closed {
		t1 = max(t1, 0)
		t2 = min(t2, 1)
	}
	d := p.PointAt(t2).Sub(p.PointAt(t1))
	if d.Norm() == 0 {
		return r3.Vector{X: 1}
	}
	return d.Normalize()
}

func (p *pathImpl) Length() float64 {
	return p.lengths[len(p.lengths)-1]
}

func (p *pathImpl) Closed() bool {
	return p.closed
}

func (p *pathImpl) CurveType() CurveType {
	return p.curveType
}

func (p *pathImpl) ControlPoints() []r3.Vector {
	return slices.Clone(p.points)
}

func (p *pathImpl) Frames(segments int, closed bool) ([]Frame, error) {
	if segments < 1 {
		return nil, common.NewConfigurationError("segments", segments, "must be at least 1")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	key := frameKey{segments: segments, closed: closed}
	if frames, ok := p.frameCache[key]; ok {
		return slices.Clone(frames), nil
	}
	frames := computeFrames(p, segments, closed)
	p.frameCache[key] = frames
	return slices.Clone(frames), nil
}

// param normalizes t: closed paths wrap with period 1, open paths keep [0, 1] and wrap beyond it.
func (p *pathImpl) param(t float64) float64 {
	if !p.closed && t >= 0 && t <= 1 {
		return t
	}
	return common.Wrap(t)
}

// buildLengths samples the raw curve to build the cumulative arc-length table.
func (p *pathImpl) buildLengths() {
	p.lengths = make([]float64, p.divisions+1)
	prev := p.curve.point(0)
	for k := 1; k <= p.divisions; k++ {
		cur := p.curve.point(float64(k) / float64(p.divisions))
		p.lengths[k] = p.lengths[k-1] + cur.Distance(prev)
		prev = cur
	}
}

// arcToU maps a normalized arc length t in [0, 1] to the raw curve parameter u.
func (p *pathImpl) arcToU(t float64) float64 {
	n := len(p.lengths)
	target := t * p.Length()

	// last index whose cumulative length does not exceed target
	i := sortSearch(p.lengths, target)
	if i >= n-1 {
		return 1
	}
	before, after := p.lengths[i], p.lengths[i+1]
	if after == before {
		return float64(i) / float64(n-1)
	}
	frac := (target - before) / (after - before)
	return (float64(i) + frac) / float64(n-1)
}

// sortSearch returns the largest index i with lengths[i] <= target, or 0.
func sortSearch(lengths []float64, target float64) int {
	lo, hi := 0, len(lengths)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lengths[mid] <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func finite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
