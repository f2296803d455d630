package window

import "github.com/go-gl/glfw/v3.3/glfw"

// WindowBuilderOption is a functional option for configuring a window.
type WindowBuilderOption func(w *glfwWindow)

// WithTitle sets the window title. Defaults to "oxy-tunnel".
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.title = title
	}
}

// WithSize sets the initial client area size. The framebuffer may be larger on high-DPI displays.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.width = width
		w.height = height
	}
}

// WithSizeLimits bounds the size the user can resize the window to. A limit below 1 leaves that side unbounded.
//
// Parameters:
//   - minWidth: minimum width in pixels
//   - minHeight: minimum height in pixels
//   - maxWidth: maximum width in pixels
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.minWidth, w.minHeight = dontCare(minWidth), dontCare(minHeight)
		w.maxWidth, w.maxHeight = dontCare(maxWidth), dontCare(maxHeight)
	}
}

// WithEscapeCloses controls whether Escape closes the window. Enabled by default; when
// disabled Escape reaches the key callback like any other key.
//
// Parameters:
//   - closes: true to close on Escape
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithEscapeCloses(closes bool) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.escapeCloses = closes
	}
}

func dontCare(v int) int {
	if v < 1 {
		return glfw.DontCare
	}
	return v
}
