package common

import (
	"github.com/chewxy/math32"
)

// Plane represents a plane ax + by + cz + d = 0 where (a, b, c) is the unit normal.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum holds the six planes of a view frustum. The positive half-space of every plane is inside.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// ExtractFrustum extracts the frustum planes from a column-major view-projection matrix using
// the Gribb/Hartmann method, adapted to the WebGPU [0, 1] depth range (the near plane is row 2 alone).
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined view-projection matrix (16 floats)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj []float32) Frustum {
	// Element M[row][col] lives at viewProj[col*4+row].
	row := func(r int) [4]float32 {
		return [4]float32{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combine := func(a [4]float32, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   [3]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[0] = combine(r3, r0, 1)
	f.Planes[1] = combine(r3, r0, -1)
	f.Planes[2] = combine(r3, r1, 1)
	f.Planes[3] = combine(r3, r1, -1)
	f.Planes[4] = Plane{Normal: [3]float32{r2[0], r2[1], r2[2]}, Distance: r2[3]}
	f.Planes[5] = combine(r3, r2, -1)

	for i := range f.Planes {
		p := &f.Planes[i]
		length := math32.Sqrt(p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2])
		if length > 0 {
			p.Normal[0] /= length
			p.Normal[1] /= length
			p.Normal[2] /= length
			p.Distance /= length
		}
	}
	return f
}

// ContainsSphere reports whether a sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius (0 tests a single point)
//
// Returns:
//   - bool: false only when the sphere is completely outside one of the planes
func (f Frustum) ContainsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		d := p.Normal[0]*center[0] + p.Normal[1]*center[1] + p.Normal[2]*center[2] + p.Distance
		if d < -radius {
			return false
		}
	}
	return true
}
