package camera

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/golang/geo/r3"
)

// SpeedInput is the keyboard speed request handed to a PathController.
type SpeedInput int

const (
	// SpeedNeutral lets the eased speed decay towards zero.
	SpeedNeutral SpeedInput = iota
	// SpeedIncrease eases the speed towards +step.
	SpeedIncrease
	// SpeedDecrease eases the speed towards -step.
	SpeedDecrease
)

// Travel is the direction the camera currently moves along the path.
type Travel int

const (
	Forward Travel = iota
	Reverse
)

func (t Travel) String() string {
	if t == Reverse {
		return "reverse"
	}
	return "forward"
}

// CameraState is the pose written by the controller every frame.
type CameraState struct {
	Position r3.Vector
	LookAt   r3.Vector
}

// DirectionState is the controller's travel bookkeeping.
type DirectionState struct {
	// Progress is the unwrapped path parameter. It may be negative or exceed 1.
	Progress float64
	// StepSign is +1 while travelling forward and -1 in reverse.
	StepSign float64
	// CooldownActive reports whether the flip gate is still closed.
	CooldownActive bool
	// CooldownDeadline is when the flip gate opens again.
	CooldownDeadline time.Time
}

// Travel returns Forward or Reverse depending on the step sign.
//
// Returns:
//   - Travel: the current travel direction
func (d DirectionState) Travel() Travel {
	if d.StepSign < 0 {
		return Reverse
	}
	return Forward
}

// pathControllerImpl is the implementation of the PathController interface.
type pathControllerImpl struct {
	mu *sync.Mutex

	path      path.Path
	speed     float64
	lookahead float64
	jitter    Jitter

	targetLight  bool
	lightOffsets []float64

	flipEnabled     bool
	flipCooldown    time.Duration
	flipProbability float64
	clock           common.Clock
	rng             *rand.Rand

	lookaheadFollowsDirection bool
	progressFollowsDirection  bool

	speedEasing    float64
	speedInputStep float64
	speedTarget    float64
	easedSpeed     float64

	frame    uint64
	progress float64
	stepSign float64
	deadline time.Time

	state  CameraState
	lights []r3.Vector
}

// PathController drives a camera along a path.
//
// Every Advance moves the progress by one speed step in the current direction, samples the
// camera anchor and the look-at target from the path, applies the handheld jitter and finally
// consults the direction-flip gate. The gate reverses the direction at random, but never more
// than once per cooldown window measured on the injected clock.
// The controller is the only writer of its CameraState and DirectionState.
type PathController interface {
	CameraController

	// Advance moves the controller one frame forward.
	Advance()

	// SetSpeedInput sets the keyboard speed request. It only has an effect when speed easing is enabled.
	//
	// Parameters:
	//   - input: the requested speed change
	SetSpeedInput(input SpeedInput)

	// State returns the current camera pose.
	//
	// Returns:
	//   - CameraState: position and look-at point
	State() CameraState

	// Direction returns the current travel bookkeeping.
	//
	// Returns:
	//   - DirectionState: progress, step sign and cooldown state
	Direction() DirectionState

	// LightPositions returns the light anchors sampled in the last Advance.
	// When a target light is enabled it comes first, followed by one position per light offset.
	//
	// Returns:
	//   - []r3.Vector: the light positions
	LightPositions() []r3.Vector

	// Frame returns how many times Advance has been called.
	//
	// Returns:
	//   - uint64: the frame counter
	Frame() uint64

	// Progress returns the unwrapped progress value.
	//
	// Returns:
	//   - float64: the progress
	Progress() float64

	// Path returns the path being followed.
	//
	// Returns:
	//   - path.Path: the path
	Path() path.Path
}

var _ PathController = &pathControllerImpl{}

// NewPathController creates a PathController. The initial pose is sampled immediately so that a
// camera attached to the controller has a valid view before the first Advance.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - PathController: the new controller
//   - error: a ConfigurationError when the options are invalid
func NewPathController(options ...PathControllerOption) (PathController, error) {
	pc := &pathControllerImpl{
		mu:                        &sync.Mutex{},
		speed:                     0.0001,
		lookahead:                 0.01,
		jitter:                    JitterNone(),
		flipEnabled:               true,
		flipCooldown:              6 * time.Second,
		flipProbability:           1.0 / 255.0,
		clock:                     common.SystemClock(),
		lookaheadFollowsDirection: true,
		progressFollowsDirection:  true,
		speedInputStep:            0.001,
		stepSign:                  1,
	}
	for _, option := range options {
		option(pc)
	}

	if err := pc.validate(); err != nil {
		return nil, err
	}
	if pc.rng == nil {
		pc.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	pc.deadline = pc.clock.Now().Add(pc.flipCooldown)
	pc.sample()
	return pc, nil
}

func (pc *pathControllerImpl) validate() error {
	switch {
	case pc.path == nil:
		return common.NewConfigurationError("camera.path", nil, "a path is required")
	case math.IsNaN(pc.speed) || math.IsInf(pc.speed, 0):
		return common.NewConfigurationError("speed", pc.speed, "must be finite")
	case math.IsNaN(pc.lookahead) || math.IsInf(pc.lookahead, 0):
		return common.NewConfigurationError("lookahead", pc.lookahead, "must be finite")
	case pc.flipCooldown < 0:
		return common.NewConfigurationError("camera.flip.cooldown", pc.flipCooldown, "must not be negative")
	case !(pc.flipProbability >= 0 && pc.flipProbability <= 1):
		return common.NewConfigurationError("camera.flip.probability", pc.flipProbability, "must be within [0, 1]")
	case !(pc.speedEasing >= 0 && pc.speedEasing <= 1):
		return common.NewConfigurationError("camera.keyboard.easing", pc.speedEasing, "must be within [0, 1]")
	case pc.clock == nil:
		return common.NewConfigurationError("camera.clock", nil, "a clock is required")
	}
	for i, off := range pc.lightOffsets {
		if math.IsNaN(off) || math.IsInf(off, 0) {
			return common.NewConfigurationError("camera.light_offsets", i, "must be finite")
		}
	}
	return nil
}

func (pc *pathControllerImpl) Advance() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.frame++

	step := pc.speed
	if pc.speedEasing > 0 {
		pc.easedSpeed -= (pc.easedSpeed - pc.speedTarget) * pc.speedEasing
		step += pc.easedSpeed
	}
	if pc.progressFollowsDirection {
		step *= pc.stepSign
	}
	pc.progress += step

	pc.sample()

	if pc.flipEnabled {
		now := pc.clock.Now()
		if !now.Before(pc.deadline) && pc.rng.Float64() < pc.flipProbability {
			pc.stepSign = -pc.stepSign
			pc.deadline = now.Add(pc.flipCooldown)
			tracer().Infof("camera direction flipped to %s at frame %d", pc.travel(), pc.frame)
		}
	}
}

// sample derives the pose and light anchors from the current progress. Caller must hold the mutex.
func (pc *pathControllerImpl) sample() {
	lead := pc.lookahead
	if pc.lookaheadFollowsDirection {
		lead *= pc.stepSign
	}

	p1 := pc.path.PointAt(common.AbsMod(pc.progress))
	p2 := pc.path.PointAt(common.AbsMod(pc.progress + lead))

	pc.state = CameraState{
		Position: p1.Add(pc.jitter.Offset(pc.frame)),
		LookAt:   p2,
	}

	pc.lights = pc.lights[:0]
	if pc.targetLight {
		pc.lights = append(pc.lights, p2)
	}
	for _, off := range pc.lightOffsets {
		pc.lights = append(pc.lights, pc.path.PointAt(common.AbsMod(pc.progress+off)))
	}
}

func (pc *pathControllerImpl) travel() Travel {
	if pc.stepSign < 0 {
		return Reverse
	}
	return Forward
}

func (pc *pathControllerImpl) SetSpeedInput(input SpeedInput) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	switch input {
	case SpeedIncrease:
		pc.speedTarget = pc.speedInputStep
	case SpeedDecrease:
		pc.speedTarget = -pc.speedInputStep
	default:
		pc.speedTarget = 0
	}
}

func (pc *pathControllerImpl) Position() (x, y, z float32) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	v := common.Vec3f(pc.state.Position)
	return v[0], v[1], v[2]
}

func (pc *pathControllerImpl) Target() (x, y, z float32) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	v := common.Vec3f(pc.state.LookAt)
	return v[0], v[1], v[2]
}

func (pc *pathControllerImpl) State() CameraState {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.state
}

func (pc *pathControllerImpl) Direction() DirectionState {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return DirectionState{
		Progress:         pc.progress,
		StepSign:         pc.stepSign,
		CooldownActive:   pc.clock.Now().Before(pc.deadline),
		CooldownDeadline: pc.deadline,
	}
}

func (pc *pathControllerImpl) LightPositions() []r3.Vector {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return slices.Clone(pc.lights)
}

func (pc *pathControllerImpl) Frame() uint64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.frame
}

func (pc *pathControllerImpl) Progress() float64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.progress
}

func (pc *pathControllerImpl) Path() path.Path {
	return pc.path
}
