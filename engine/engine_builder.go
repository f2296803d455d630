package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithScene sets the scene the engine drives. Required.
//
// Parameters:
//   - s: the Scene to drive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithRenderer sets the renderer every tick presents to. Without one the engine only ticks the scene.
//
// Parameters:
//   - r: the Renderer to present to
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithWindow sets the host window. Run then drives ticks from the window's message loop
// and forwards its resize and key events.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithProfiling enables or disables performance profiling output on the engine tracer.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithUnthrottled runs ticks back to back instead of at the tick rate. Used for offline rendering.
//
// Parameters:
//   - unthrottled: if true, ticks are not rate limited
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUnthrottled(unthrottled bool) EngineBuilderOption {
	return func(e *engine) {
		if unthrottled {
			e.engineTickRate = 0
		}
	}
}

// WithFrameLimit stops Run after n ticks. 0 runs until Quit.
//
// Parameters:
//   - n: the number of ticks to run
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(n uint64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit = n
	}
}

// WithClock sets the clock used for tick deltas and profiling.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c common.Clock) EngineBuilderOption {
	return func(e *engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithTickCallback registers a function called at the end of every tick, after Present.
// It runs while the engine lock is held and must not call OnTick, Resize or HandleKey.
//
// Parameters:
//   - callback: receives the frame index and the delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(frame uint64, deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}
