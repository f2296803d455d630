package scene

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/noise"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/tube"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.scene")
}

// Frame is the per-frame value handed to a renderer. It is a copy; renderers may keep it
// after the scene has moved on.
type Frame struct {
	// Index is the controller frame counter this frame was taken at.
	Index uint64

	View           [16]float32
	Projection     [16]float32
	ViewProjection [16]float32
	Eye            [3]float32
	Frustum        common.Frustum

	Camera    camera.CameraState
	Direction camera.DirectionState
	Lights    []light.PointLight

	// Geometry is shared and read-only.
	Geometry tube.Geometry

	FogDensity float32
	Ambient    float32
	PointSize  float32
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name   string
	active bool
	cfg    config.Scene

	clock          common.Clock
	aspect         float32
	computeWorkers int

	field      noise.Field
	path       path.Path
	geometry   tube.Geometry
	controller camera.PathController
	camera     camera.Camera
	lights     []light.Light
}

// Scene owns everything built from one scene configuration: the noise field, the path, the tube
// geometry, the path-following camera and the lights riding along with it.
//
// The path and the geometry are built once in NewScene and never change afterwards. Tick moves
// the camera and the lights, Snapshot copies the current state into a Frame for a renderer.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Config returns the configuration the scene was built from.
	//
	// Returns:
	//   - config.Scene: the defaulted configuration
	Config() config.Scene

	// Path returns the path the tube and the camera follow.
	Path() path.Path

	// Geometry returns the tube geometry.
	Geometry() tube.Geometry

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the path controller driving the camera.
	Controller() camera.PathController

	// Lights returns the scene's lights in anchor order.
	Lights() []light.Light

	// Tick advances the controller by one frame and moves the camera and the lights to the new anchors.
	Tick()

	// Snapshot copies the current camera, direction and light state into a Frame.
	//
	// Returns:
	//   - Frame: the frame to present
	Snapshot() Frame

	// Resize updates the camera aspect for a new output size. Zero or negative sizes are ignored.
	//
	// Parameters:
	//   - width: output width in pixels
	//   - height: output height in pixels
	Resize(width, height int)

	// HandleKey maps W/S (and the up/down arrows) to speed input when keyboard control is enabled.
	// Releasing either key returns the speed input to neutral.
	//
	// Parameters:
	//   - keyCode: the window key code
	//   - down: true on key press, false on release
	HandleKey(keyCode uint32, down bool)
}

var _ Scene = &scene{}

// NewScene validates the configuration and builds the scene from it.
//
// Parameters:
//   - cfg: the scene configuration; defaults are applied to a copy
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the built scene
//   - error: a ConfigurationError when the configuration or any built component is invalid
func NewScene(cfg config.Scene, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		mu:             &sync.Mutex{},
		active:         true,
		clock:          common.SystemClock(),
		aspect:         16.0 / 9.0,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(s)
	}

	cfg.Points = clonePoints(cfg.Points)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s.cfg = cfg
	s.name = cfg.Name

	s.field = noise.NewField(noise.WithSeed(cfg.Seed))

	p, err := buildPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
	}
	s.path = p

	g, err := buildGeometry(cfg, p, s.field, s.computeWorkers)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
	}
	s.geometry = g

	pc, err := buildController(cfg, p, s.clock)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
	}
	s.controller = pc

	s.camera = camera.NewCamera(
		camera.WithLens(camera.LensDegrees(cfg.Camera.FovDeg, cfg.Camera.Near, cfg.Camera.Far)),
		camera.WithAspect(s.aspect),
		camera.WithController(pc),
	)

	for _, lc := range cfg.Lights {
		s.lights = append(s.lights, light.NewLight(
			light.WithColorHex(lc.Color),
			light.WithIntensity(float32(lc.Intensity)),
			light.WithRange(float32(lc.Range)),
		))
	}
	s.placeLights()

	tracer().Infof("scene %q built: %d rings x %d, %s, path length %.1f",
		cfg.Name, g.Segments(), g.Detail(), g.Representation(), p.Length())
	return s, nil
}

// buildPath turns the configured control points into a path. 2D points are lifted onto
// lift_y, or onto a random height per point when random_lift is set.
func buildPath(cfg config.Scene) (path.Path, error) {
	pts := cfg.Points
	// A repeated start point would be lifted to a different height than the first one.
	if cfg.Closed && len(pts) > 1 && pointsEqual(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	control := make([]r3.Vector, len(pts))
	for i, p := range pts {
		var v r3.Vector
		if len(p) == 3 {
			v = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
		} else {
			v = path.Lift2D([][2]float64{{p[0], p[1]}}, cfg.LiftY)[0]
			if cfg.RandomLift > 0 {
				v.Y = cfg.LiftY + rng.Float64()*cfg.RandomLift
			}
		}
		if cfg.PointJitter > 0 {
			v.X += (rng.Float64()*2 - 1) * cfg.PointJitter
			v.Z += (rng.Float64()*2 - 1) * cfg.PointJitter
		}
		control[i] = v
	}

	curveType, _ := path.ParseCurveType(cfg.Curve)
	return path.New(control,
		path.WithClosed(cfg.Closed),
		path.WithCurveType(curveType),
		path.WithTension(cfg.Tension),
	)
}

func buildGeometry(cfg config.Scene, p path.Path, field noise.Field, workers int) (tube.Geometry, error) {
	phase, err := cfg.PhaseStrategy()
	if err != nil {
		return nil, err
	}
	coloring, err := cfg.ColoringStrategy()
	if err != nil {
		return nil, err
	}
	representation, _ := tube.ParseRepresentation(cfg.Representation)

	return tube.Build(p, field,
		tube.WithSegments(cfg.Segments),
		tube.WithDetail(cfg.Detail),
		tube.WithRadius(cfg.Radius),
		tube.WithPhase(phase),
		tube.WithCosineSign(cfg.CosineSign),
		tube.WithColoring(coloring),
		tube.WithRepresentation(representation),
		tube.WithInstanceSize(cfg.InstanceSize),
		tube.WithRotationSeed(cfg.Seed),
		tube.WithWorkers(common.Coalesce(cfg.Workers, workers)),
		tube.WithClosedFrames(config.BoolOr(cfg.ClosedFrames, true)),
	)
}

func buildController(cfg config.Scene, p path.Path, clock common.Clock) (camera.PathController, error) {
	cc := cfg.Camera
	opts := []camera.PathControllerOption{
		camera.WithPath(p),
		camera.WithSpeed(cfg.Speed),
		camera.WithLookahead(cfg.Lookahead),
		camera.WithTargetLight(cc.TargetLight),
		camera.WithLightOffsets(cc.LightOffsets...),
		camera.WithJitter(jitterFromConfig(cc.Jitter)),
		camera.WithFlipEnabled(config.BoolOr(cc.Flip.Enabled, true)),
		camera.WithFlipGate(time.Duration(cc.Flip.CooldownMS)*time.Millisecond, cc.Flip.Probability),
		camera.WithLookaheadFollowsDirection(config.BoolOr(cc.LookaheadFollowsDirection, true)),
		camera.WithProgressFollowsDirection(config.BoolOr(cc.ProgressFollowsDirection, true)),
		camera.WithClock(clock),
		camera.WithRandomSeed(uint64(cfg.Seed)),
	}
	if cc.Keyboard.Enabled {
		opts = append(opts,
			camera.WithSpeedEasing(cc.Keyboard.Easing),
			camera.WithSpeedInputStep(cc.Keyboard.Step),
		)
	}
	return camera.NewPathController(opts...)
}

func jitterFromConfig(j config.Jitter) camera.Jitter {
	switch j.Kind {
	case "orbit":
		return camera.JitterOrbit(j.Amplitude, j.Scale)
	case "lifted":
		return camera.JitterLifted(j.Amplitude, j.Scale, j.Lift)
	case "breathing":
		return camera.JitterBreathing(j.Amplitude, j.Scale, j.Rate, j.Sway)
	default:
		return camera.JitterNone()
	}
}

// placeLights moves every light onto its anchor. Lights without an anchor are disabled.
func (s *scene) placeLights() {
	anchors := s.controller.LightPositions()
	for i, l := range s.lights {
		if i >= len(anchors) {
			l.Detach()
			continue
		}
		l.Anchor(common.Vec3f(anchors[i]))
	}
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Config() config.Scene {
	return s.cfg
}

func (s *scene) Path() path.Path {
	return s.path
}

func (s *scene) Geometry() tube.Geometry {
	return s.geometry
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Controller() camera.PathController {
	return s.controller
}

func (s *scene) Lights() []light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.Advance()
	s.camera.Update()
	s.placeLights()
}

func (s *scene) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		Index:          s.controller.Frame(),
		View:           s.camera.ViewMatrix(),
		Projection:     s.camera.ProjectionMatrix(),
		ViewProjection: s.camera.ViewProjectionMatrix(),
		Eye:            s.camera.Eye(),
		Frustum:        s.camera.Frustum(),
		Camera:         s.controller.State(),
		Direction:      s.controller.Direction(),
		Geometry:       s.geometry,
		FogDensity:     float32(s.cfg.FogDensity),
		Ambient:        float32(s.cfg.Ambient),
		PointSize:      float32(s.cfg.PointSize),
	}
	for _, l := range s.lights {
		if l.Enabled() {
			f.Lights = append(f.Lights, l.Snapshot())
		}
	}
	return f
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aspect = float32(width) / float32(height)
	s.camera.SetAspect(s.aspect)
}

func (s *scene) HandleKey(keyCode uint32, down bool) {
	if !s.cfg.Camera.Keyboard.Enabled {
		return
	}
	var input camera.SpeedInput
	switch keyCode {
	case common.KeyW, common.KeyUp:
		input = camera.SpeedIncrease
	case common.KeyS, common.KeyDown:
		input = camera.SpeedDecrease
	default:
		return
	}
	if !down {
		input = camera.SpeedNeutral
	}
	s.controller.SetSpeedInput(input)
}

func clonePoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

func pointsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
