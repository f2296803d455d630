package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/golang/geo/r3"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Vec3f narrows a double precision vector to the float32 triple used by GPU-facing types.
//
// Parameters:
//   - v: the vector to convert
//
// Returns:
//   - [3]float32: the vector components as float32
func Vec3f(v r3.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order. Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix for the WebGPU clip space (z in [0, 1]).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation and a uniform scale.
// The rotation order is Y * X * Z. The result is column-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation in world space
//   - rot: rotation angles in radians around the X, Y and Z axes
//   - scale: uniform scale factor
func BuildModelMatrix(out []float32, pos, rot [3]float32, scale float32) {
	cx := math32.Cos(rot[0])
	sx := math32.Sin(rot[0])
	cy := math32.Cos(rot[1])
	sy := math32.Sin(rot[1])
	cz := math32.Cos(rot[2])
	sz := math32.Sin(rot[2])

	out[0] = (cy*cz + sy*sx*sz) * scale
	out[1] = (cx * sz) * scale
	out[2] = (-sy*cz + cy*sx*sz) * scale
	out[3] = 0

	out[4] = (cy*-sz + sy*sx*cz) * scale
	out[5] = (cx * cz) * scale
	out[6] = (sy*sz + cy*sx*cz) * scale
	out[7] = 0

	out[8] = (sy * cx) * scale
	out[9] = (-sx) * scale
	out[10] = (cy * cx) * scale
	out[11] = 0

	out[12] = pos[0]
	out[13] = pos[1]
	out[14] = pos[2]
	out[15] = 1
}

// TransformPoint multiplies the homogeneous point (x, y, z, 1) by a column-major 4x4 matrix.
//
// Parameters:
//   - m: the matrix (16 elements)
//   - p: the point to transform
//
// Returns:
//   - [4]float32: the transformed homogeneous coordinates (x, y, z, w)
func TransformPoint(m []float32, p [3]float32) [4]float32 {
	return [4]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
		m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15],
	}
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera roll (typically 0,1,0)
func LookAt(out []float32, eye, center, up [3]float32) {
	z := normalize3f(eye[0]-center[0], eye[1]-center[1], eye[2]-center[2])
	x := normalize3f(
		up[1]*z[2]-up[2]*z[1],
		up[2]*z[0]-up[0]*z[2],
		up[0]*z[1]-up[1]*z[0],
	)
	y := [3]float32{
		z[1]*x[2] - z[2]*x[1],
		z[2]*x[0] - z[0]*x[2],
		z[0]*x[1] - z[1]*x[0],
	}

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -(x[0]*eye[0] + x[1]*eye[1] + x[2]*eye[2])
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -(y[0]*eye[0] + y[1]*eye[1] + y[2]*eye[2])
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -(z[0]*eye[0] + z[1]*eye[1] + z[2]*eye[2])
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// normalize3f returns the unit vector of (x, y, z). A zero vector is returned unchanged.
func normalize3f(x, y, z float32) [3]float32 {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return [3]float32{x, y, z}
	}
	return [3]float32{x / l, y / l, z / l}
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize3 returns the unit vector of v. A zero vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	return normalize3f(v[0], v[1], v[2])
}

// Cross3 returns the cross product a × b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
