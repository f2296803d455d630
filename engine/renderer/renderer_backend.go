package renderer

import (
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
)

// RendererBackendType identifies the implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. It needs a window.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeRaster selects the offscreen software rasterizer.
	BackendTypeRaster
)

func (t RendererBackendType) String() string {
	if t == BackendTypeRaster {
		return "raster"
	}
	return "wgpu"
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the interface every backend implements. The Renderer serializes all calls.
type RendererBackend interface {
	// Upload prepares a flattened geometry for drawing. It is called once per geometry.
	Upload(mesh Mesh) error

	// Draw renders one frame of the uploaded mesh.
	Draw(f scene.Frame) error

	// Configure sets the output size in pixels.
	Configure(width, height int) error

	// Release frees every backend resource.
	Release()
}
