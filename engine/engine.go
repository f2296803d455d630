package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/window"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.engine")
}

// ErrRunning is returned by Run when the engine loop is already running.
var ErrRunning = errors.New("engine already running")

// engine implements the Engine interface.
type engine struct {
	// mu serializes ticks, resizes and key events.
	mu *sync.Mutex

	scene    scene.Scene
	renderer renderer.Renderer
	window   window.Window
	clock    common.Clock

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	engineTickRate  time.Duration      // 0 = ticks run back to back
	frameLimit      uint64

	frames atomic.Uint64
	errors atomic.Uint64

	running     atomic.Bool
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(frame uint64, deltaTime float32)
}

// Engine is the frame loop controller. Every tick advances the scene's camera driver and asks the
// renderer to present the resulting frame. Ticks come from Run or from a host calling OnTick directly.
type Engine interface {
	// OnTick runs one frame: increments the frame counter, ticks the scene and presents its snapshot.
	// Present errors are traced and counted, never retried. An inactive scene is neither ticked nor presented.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick, passed through to the tick callback
	//
	// Returns:
	//   - error: the Present error of this frame, if any
	OnTick(deltaTime float32) error

	// Resize propagates a new viewport size to the camera aspect and the renderer's output size.
	// Zero or negative sizes are ignored. Geometry and direction state are untouched.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// HandleKey forwards a key event to the scene.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//   - down: true on press, false on release
	HandleKey(keyCode uint32, down bool)

	// Run drives ticks until Quit is called, the frame limit is reached, ctx is done or the window closes.
	// With a window the message loop runs on the calling goroutine, which must be the one that created
	// the window. Without one ticks come from a ticker at the tick rate.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() when ctx ended the loop, ErrRunning if Run is already active, nil otherwise
	Run(ctx context.Context) error

	// Quit stops Run. Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// SetTickRate sets the tick rate in ticks per second. Values <= 0 fall back to 60.
	// If the engine is running, the change takes effect on the next tick.
	//
	// Parameters:
	//   - fps: target ticks per second
	SetTickRate(fps float64)

	// Frames returns the number of ticks run so far.
	Frames() uint64

	// Errors returns the number of ticks whose Present failed.
	Errors() uint64

	// Scene returns the driven scene.
	Scene() scene.Scene

	// Renderer returns the renderer, nil when the engine runs without one.
	Renderer() renderer.Renderer

	// Window returns the host window, nil when headless.
	Window() window.Window
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. A scene is required. When both a renderer and a scene are set, the
// scene's geometry is uploaded right away so upload failures surface here.
//
// Parameters:
//   - options: functional options for engine configuration (scene, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: a ConfigurationError without scene, or the upload error
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:              &sync.Mutex{},
		clock:           common.SystemClock(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil {
		return nil, common.NewConfigurationError("scene", nil, "an engine needs a scene")
	}
	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler(e.clock, time.Second)
	}
	if e.renderer != nil {
		if err := e.renderer.Upload(e.scene.Geometry()); err != nil {
			return nil, err
		}
	}
	if e.window != nil {
		e.scene.Resize(e.window.Width(), e.window.Height())
	}
	tracer().Infof("engine for scene %q, tick %v, frame limit %d", e.scene.Name(), e.engineTickRate, e.frameLimit)
	return e, nil
}

func (e *engine) OnTick(deltaTime float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	frame := e.frames.Add(1)
	var err error
	if e.scene.Active() {
		e.scene.Tick()
		if e.renderer != nil {
			if err = e.renderer.Present(e.scene.Snapshot()); err != nil {
				e.errors.Add(1)
				tracer().Errorf("frame %d: %v", frame, err)
			}
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(frame, deltaTime)
	}
	if e.profilingEnabled && e.profiler != nil {
		if e.profiler.Tick(err != nil) && e.window != nil {
			e.window.SetTitle(fmt.Sprintf("%s (%.0f fps)", e.window.Title(), e.profiler.Last().FPS))
		}
	}
	if e.frameLimit > 0 && frame >= e.frameLimit {
		e.signalQuit()
	}
	return err
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scene.Resize(width, height)
	if e.renderer != nil {
		e.renderer.SetOutputSize(width, height)
	}
	tracer().Debugf("resized to %dx%d", width, height)
}

func (e *engine) HandleKey(keyCode uint32, down bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.HandleKey(keyCode, down)
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer e.running.Store(false)

	if e.window != nil {
		return e.runWindow(ctx)
	}
	return e.runHeadless(ctx)
}

// runHeadless ticks from a ticker, or back to back when the tick rate is 0.
func (e *engine) runHeadless(ctx context.Context) error {
	if e.engineTickRate <= 0 {
		last := e.clock.Now()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.quitChannel:
				return nil
			default:
			}
			now := e.clock.Now()
			_ = e.OnTick(float32(now.Sub(last).Seconds()))
			last = now
		}
	}

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()
	last := e.clock.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		case <-ticker.C:
			now := e.clock.Now()
			_ = e.OnTick(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
}

// runWindow runs the window message loop and ticks from its update callback.
func (e *engine) runWindow(ctx context.Context) error {
	w := e.window
	w.SetResizeCallback(e.Resize)
	w.SetKeyCallback(e.HandleKey)

	var ctxErr error
	last := e.clock.Now()
	w.SetUpdateCallback(func() {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			_ = w.Close()
			return
		case <-e.quitChannel:
			_ = w.Close()
			return
		case newRate := <-e.tickRateChannel:
			e.engineTickRate = newRate
		default:
		}
		now := e.clock.Now()
		if now.Sub(last) < e.engineTickRate {
			return
		}
		_ = e.OnTick(float32(now.Sub(last).Seconds()))
		last = now
	})

	w.ProcessMessages()
	if w.IsRunning() {
		_ = w.Close()
	}
	e.signalQuit()
	return ctxErr
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the loop to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Non-blocking send; a pending update is replaced.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Errors() uint64 {
	return e.errors.Load()
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Window() window.Window {
	return e.window
}
