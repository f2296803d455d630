package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeyCallback receives a key code from common/key_codes.go and whether the key went down or up.
type KeyCallback func(keyCode uint32, down bool)

// Window hosts the WebGPU surface of a tube and forwards resize and key events to the frame loop.
// All methods must be called from the thread that created the window.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function receiving key presses and releases. Repeats are not reported.
	//
	// Parameters:
	//   - callback: the key callback
	SetKeyCallback(callback KeyCallback)

	// Title returns the title the window was created with.
	Title() string

	// SetTitle changes the text in the title bar. The value returned by Title is unchanged.
	//
	// Parameters:
	//   - title: the new title text
	SetTitle(title string)

	// SurfaceDescriptor returns a platform surface descriptor for WebGPU, or nil when the
	// window is not open.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and no close was requested.
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: an error if the window is not open
	Close() error

	// ProcessMessages polls events and calls the update callback until the window closes.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// glfwWindow is the GLFW implementation of Window.
type glfwWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int
	width, height       int

	// escapeCloses makes Escape close the window instead of reaching the key callback.
	escapeCloses bool

	handle *glfw.Window
	closed bool

	onUpdate func()
	onResize func(width, height int)
	onKey    KeyCallback
}

var _ Window = &glfwWindow{}

// NewWindow opens a window sized for a tube preview.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: a ConfigurationError for a non-positive size, common.ErrRenderUnavailable when
//     the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &glfwWindow{
		title:        "oxy-tunnel",
		minWidth:     320,
		minHeight:    180,
		maxWidth:     glfw.DontCare,
		maxHeight:    glfw.DontCare,
		width:        1280,
		height:       720,
		escapeCloses: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width <= 0 || w.height <= 0 {
		return nil, common.NewConfigurationError("window size", fmt.Sprintf("%dx%d", w.width, w.height), "must be positive")
	}
	if err := w.open(); err != nil {
		return nil, common.RenderUnavailable("create window", err)
	}
	tracer().Infof("window %q %dx%d", w.title, w.width, w.height)
	return w, nil
}

func (w *glfwWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) SetKeyCallback(callback KeyCallback) {
	w.onKey = callback
}

func (w *glfwWindow) Title() string {
	return w.title
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}

func (w *glfwWindow) IsRunning() bool {
	return w.handle != nil && !w.closed && !w.handle.ShouldClose()
}

func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}
