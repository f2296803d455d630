package path

import (
	"math"

	"github.com/golang/geo/r3"
)

// Frame is an orthonormal basis attached to a point on a path.
type Frame struct {
	Tangent  r3.Vector
	Normal   r3.Vector
	Binormal r3.Vector
}

// computeFrames samples tangents at t = i/segments and transports the initial normal along them.
// The first normal is taken perpendicular to the axis where the first tangent is smallest, so the
// construction never starts from a vector parallel to the tangent.
func computeFrames(p Path, segments int, closed bool) []Frame {
	frames := make([]Frame, segments+1)
	for i := 0; i <= segments; i++ {
		frames[i].Tangent = p.TangentAt(float64(i) / float64(segments))
	}

	t0 := frames[0].Tangent
	axis := r3.Vector{X: 1}
	smallest := math.MaxFloat64
	if ax := math.Abs(t0.X); ax <= smallest {
		smallest = ax
		axis = r3.Vector{X: 1}
	}
	if ay := math.Abs(t0.Y); ay <= smallest {
		smallest = ay
		axis = r3.Vector{Y: 1}
	}
	if az := math.Abs(t0.Z); az <= smallest {
		axis = r3.Vector{Z: 1}
	}
	vec := t0.Cross(axis).Normalize()
	frames[0].Normal = t0.Cross(vec)
	frames[0].Binormal = t0.Cross(frames[0].Normal)

	for i := 1; i <= segments; i++ {
		frames[i].Normal = frames[i-1].Normal
		v := frames[i-1].Tangent.Cross(frames[i].Tangent)
		if v.Norm() > math.SmallestNonzeroFloat64 {
			v = v.Normalize()
			theta := math.Acos(clampCos(frames[i-1].Tangent.Dot(frames[i].Tangent)))
			frames[i].Normal = rotate(frames[i].Normal, v, theta)
		}
		frames[i].Binormal = frames[i].Tangent.Cross(frames[i].Normal)
	}

	if closed {
		theta := math.Acos(clampCos(frames[0].Normal.Dot(frames[segments].Normal))) / float64(segments)
		if frames[0].Tangent.Dot(frames[0].Normal.Cross(frames[segments].Normal)) > 0 {
			theta = -theta
		}
		for i := 1; i <= segments; i++ {
			frames[i].Normal = rotate(frames[i].Normal, frames[i].Tangent, theta*float64(i))
			frames[i].Binormal = frames[i].Tangent.Cross(frames[i].Normal)
		}
	}

	return frames
}

// rotate turns v around the unit axis by angle radians (Rodrigues' formula).
func rotate(v, axis r3.Vector, angle float64) r3.Vector {
	sin, cos := math.Sincos(angle)
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}

func clampCos(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}
