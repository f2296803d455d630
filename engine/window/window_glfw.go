package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.window")
}

// errNotOpen is returned when closing a window that is not open.
var errNotOpen = errors.New("window is not open")

// open initializes GLFW, creates the window without a client API and wires the callbacks.
// GLFW requires every call to come from the same OS thread, so the thread is locked here.
//
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func (w *glfwWindow) open() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w", err)
	}

	// WebGPU brings its own graphics API.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create GLFW window: %w", err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	handle.SetKeyCallback(w.handleKey)

	// The framebuffer size is what the surface is configured with; it differs from the
	// window size on high-DPI displays.
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	w.width, w.height = handle.GetFramebufferSize()
	w.handle = handle
	return nil
}

func (w *glfwWindow) handleKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	code := uint32(key)
	if w.escapeCloses && code == common.KeyEsc {
		if action == glfw.Press {
			w.handle.SetShouldClose(true)
		}
		return
	}
	if w.onKey == nil {
		return
	}
	switch action {
	case glfw.Press:
		w.onKey(code, true)
	case glfw.Release:
		w.onKey(code, false)
	}
}

func (w *glfwWindow) SetTitle(title string) {
	if w.handle == nil {
		return
	}
	w.handle.SetTitle(title)
}

// SurfaceDescriptor uses the wgpuglfw bridge, which covers Windows, X11, Wayland and macOS.
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func (w *glfwWindow) Close() error {
	if w.handle == nil || w.closed {
		return errNotOpen
	}
	w.closed = true
	w.handle.Destroy()
	w.handle = nil
	glfw.Terminate()
	return nil
}
