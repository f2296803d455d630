package camera

import (
	_ "embed"
	"encoding/binary"
)

// GPUCameraUniformSource is the WGSL CameraUniform struct the tube shader includes.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// gpuCameraUniformSize is the byte size of CameraUniform: a mat4x4, a vec3 and the f32 packed
// into the vec3's trailing padding.
const gpuCameraUniformSize = 80

// GPUCameraUniform mirrors CameraUniform. Every field is a float32 with no padding in between,
// so the Go layout and the WGSL layout agree byte for byte.
type GPUCameraUniform struct {
	ViewProj       [16]float32
	CameraPosition [3]float32
	// PointSize is the world-space point sprite size. It sits at offset 76.
	PointSize float32
}

// NewGPUCameraUniform captures the current matrices of a camera.
//
// Parameters:
//   - cam: the camera to read
//   - pointSize: the point sprite size in world units
//
// Returns:
//   - GPUCameraUniform: the uniform ready to marshal
func NewGPUCameraUniform(cam Camera, pointSize float32) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       cam.ViewProjectionMatrix(),
		CameraPosition: cam.Eye(),
		PointSize:      pointSize,
	}
}

// Size returns the uniform buffer size in bytes.
func (g *GPUCameraUniform) Size() int {
	return gpuCameraUniformSize
}

// Marshal encodes the uniform little-endian for upload.
func (g *GPUCameraUniform) Marshal() []byte {
	buf, err := binary.Append(make([]byte, 0, gpuCameraUniformSize), binary.LittleEndian, g)
	if err != nil {
		// Only reachable if a field stops being fixed-size.
		panic(err)
	}
	return buf
}
