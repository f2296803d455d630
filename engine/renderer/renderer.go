package renderer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/tube"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/window"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.renderer")
}

// ErrClosed is returned by every call on a renderer after Close.
var ErrClosed = errors.New("renderer closed")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	geometry      tube.Geometry
	presented     uint64
	closed        bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	background           common.Color
}

// Renderer turns scene frames into pixels.
//
// A renderer receives the tube geometry once through Upload and one Frame per tick through Present.
// It never mutates either. Backend failures during initialization are reported as
// common.ErrRenderUnavailable and are not retried.
type Renderer interface {
	// Upload hands the geometry to the backend. Only the first call has an effect.
	//
	// Parameters:
	//   - g: the geometry to draw
	//
	// Returns:
	//   - error: an error if the backend could not prepare the geometry
	Upload(g tube.Geometry) error

	// Present draws one frame. When nothing was uploaded yet the frame's geometry is uploaded first.
	//
	// Parameters:
	//   - f: the frame to draw
	//
	// Returns:
	//   - error: an error if drawing failed
	Present(f scene.Frame) error

	// SetOutputSize configures the backend for a new output size. Zero or negative sizes are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	SetOutputSize(width, height int)

	// OutputSize returns the current output size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	OutputSize() (int, int)

	// Presented returns how many frames were drawn successfully.
	//
	// Returns:
	//   - uint64: the frame count
	Presented() uint64

	// BackendType returns the backend in use.
	BackendType() RendererBackendType

	// Close releases the backend. Safe to call multiple times.
	//
	// Returns:
	//   - error: always nil
	Close() error
}

// RasterRenderer is a Renderer that draws into an in-memory image.
type RasterRenderer interface {
	Renderer

	// Image returns a copy of the last presented frame.
	Image() image.Image

	// WritePNG encodes the last presented frame as PNG.
	//
	// Parameters:
	//   - w: the destination
	//
	// Returns:
	//   - error: the encoding error, if any
	WritePNG(w io.Writer) error

	// SavePNG writes the last presented frame to a PNG file.
	//
	// Parameters:
	//   - file: the destination path
	//
	// Returns:
	//   - error: the write error, if any
	SavePNG(file string) error
}

var _ Renderer = &renderer{}
var _ RasterRenderer = &rasterRenderer{}

// NewRenderer creates a Renderer with the given backend.
//
// The WebGPU backend draws into the window's surface and requires a window. The raster backend
// takes its size from the window when one is given, otherwise from WithOutputSize.
//
// Parameters:
//   - backendType: the backend to use
//   - win: the host window, may be nil for the raster backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: common.ErrRenderUnavailable when the backend cannot be initialized
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       1280,
		height:      720,
		background:  common.Color{A: 1},
	}
	if win != nil {
		r.width, r.height = win.Width(), win.Height()
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeRaster:
		b, err := newRasterRendererBackend(r.width, r.height, r.background)
		if err != nil {
			return nil, err
		}
		r.backend = b
		tracer().Infof("raster renderer %dx%d", r.width, r.height)
		return &rasterRenderer{renderer: r, raster: b}, nil
	case BackendTypeWGPU:
		if win == nil {
			return nil, common.RenderUnavailable("webgpu backend needs a window", nil)
		}
		msaa := MSAA4x
		if r.pendingMSAA != nil {
			msaa = *r.pendingMSAA
		}
		mode := PresentModeVSync
		if r.pendingPresentMode != nil {
			mode = *r.pendingPresentMode
		}
		b, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, mode, r.background)
		if err != nil {
			return nil, err
		}
		r.backend = b
		if err := b.Configure(r.width, r.height); err != nil {
			b.Release()
			return nil, common.RenderUnavailable("configure surface", err)
		}
		tracer().Infof("webgpu renderer %dx%d, msaa %d", r.width, r.height, msaa)
		return r, nil
	}
	return nil, common.RenderUnavailable(fmt.Sprintf("unknown backend %d", backendType), nil)
}

// NewRasterRenderer creates an offscreen Renderer of the given size.
//
// Parameters:
//   - width: output width in pixels
//   - height: output height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - RasterRenderer: the new renderer
//   - error: a ConfigurationError if the size is not positive
func NewRasterRenderer(width, height int, options ...RendererBuilderOption) (RasterRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, common.NewConfigurationError("size", fmt.Sprintf("%dx%d", width, height), "must be positive")
	}
	r, err := NewRenderer(BackendTypeRaster, nil, append([]RendererBuilderOption{WithOutputSize(width, height)}, options...)...)
	if err != nil {
		return nil, err
	}
	return r.(RasterRenderer), nil
}

func (r *renderer) Upload(g tube.Geometry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upload(g)
}

// upload flattens and uploads g. Caller must hold the mutex.
func (r *renderer) upload(g tube.Geometry) error {
	if r.closed {
		return ErrClosed
	}
	if r.geometry != nil {
		return nil
	}
	if g == nil {
		return errors.New("upload: no geometry")
	}
	mesh := BuildMesh(g)
	if err := r.backend.Upload(mesh); err != nil {
		return fmt.Errorf("upload %s geometry: %w", g.Representation(), err)
	}
	r.geometry = g
	tracer().Debugf("uploaded %d vertices, %d indices", len(mesh.Vertices), len(mesh.Indices))
	return nil
}

func (r *renderer) Present(f scene.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.geometry == nil {
		if err := r.upload(f.Geometry); err != nil {
			return err
		}
	}
	if err := r.backend.Draw(f); err != nil {
		return fmt.Errorf("present frame %d: %w", f.Index, err)
	}
	r.presented++
	return nil
}

func (r *renderer) SetOutputSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || (width == r.width && height == r.height) {
		return
	}
	if err := r.backend.Configure(width, height); err != nil {
		tracer().Errorf("resize to %dx%d: %v", width, height, err)
		return
	}
	r.width, r.height = width, height
}

func (r *renderer) OutputSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Presented() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presented
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.backend.Release()
	return nil
}

// rasterRenderer adds image access to a renderer backed by the raster backend.
type rasterRenderer struct {
	*renderer
	raster *rasterRendererBackendImpl
}

func (r *rasterRenderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raster.image()
}

func (r *rasterRenderer) WritePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raster.encodePNG(w)
}

func (r *rasterRenderer) SavePNG(file string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.raster.savePNG(file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	return nil
}
