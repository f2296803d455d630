package camera

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
)

// PathControllerOption is a functional option for configuring a PathController.
type PathControllerOption func(*pathControllerImpl)

// WithPath sets the path the controller follows. Required.
//
// Parameters:
//   - p: the path
//
// Returns:
//   - PathControllerOption: option function to apply
func WithPath(p path.Path) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.path = p
	}
}

// WithSpeed sets the progress advanced per frame.
//
// Parameters:
//   - speed: the progress step (0.0001 by default)
//
// Returns:
//   - PathControllerOption: option function to apply
func WithSpeed(speed float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.speed = speed
	}
}

// WithLookahead sets how far ahead of the camera the look-at target is sampled.
//
// Parameters:
//   - lookahead: the target lead in path parameter units
//
// Returns:
//   - PathControllerOption: option function to apply
func WithLookahead(lookahead float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.lookahead = lookahead
	}
}

// WithTargetLight places a light anchor at the look-at target.
//
// Parameters:
//   - enabled: whether the target carries a light
//
// Returns:
//   - PathControllerOption: option function to apply
func WithTargetLight(enabled bool) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.targetLight = enabled
	}
}

// WithLightOffsets adds one light anchor per offset, sampled at progress+offset.
//
// Parameters:
//   - offsets: fixed leads in path parameter units
//
// Returns:
//   - PathControllerOption: option function to apply
func WithLightOffsets(offsets ...float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.lightOffsets = slices.Clone(offsets)
	}
}

// WithJitter sets the handheld sway applied to the camera position.
//
// Parameters:
//   - jitter: the jitter strategy
//
// Returns:
//   - PathControllerOption: option function to apply
func WithJitter(jitter Jitter) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.jitter = jitter
	}
}

// WithFlipGate configures the direction-flip gate. After each flip the gate stays closed for
// cooldown; while open, every frame flips with the given probability.
//
// Parameters:
//   - cooldown: the minimum time between flips (6s by default)
//   - probability: the per-frame flip chance once the gate is open (1/255 by default)
//
// Returns:
//   - PathControllerOption: option function to apply
func WithFlipGate(cooldown time.Duration, probability float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.flipCooldown = cooldown
		pc.flipProbability = probability
	}
}

// WithFlipEnabled turns the direction-flip gate on or off.
//
// Parameters:
//   - enabled: whether random flips happen
//
// Returns:
//   - PathControllerOption: option function to apply
func WithFlipEnabled(enabled bool) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.flipEnabled = enabled
	}
}

// WithLookaheadFollowsDirection mirrors the look-at lead when travelling in reverse, so the camera
// always looks where it is going. Enabled by default.
//
// Parameters:
//   - follows: whether the lead takes the step sign
//
// Returns:
//   - PathControllerOption: option function to apply
func WithLookaheadFollowsDirection(follows bool) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.lookaheadFollowsDirection = follows
	}
}

// WithProgressFollowsDirection controls whether a flip reverses the progress step. When disabled the
// camera keeps moving forward and a flip only turns the view around. Enabled by default.
//
// Parameters:
//   - follows: whether the step takes the step sign
//
// Returns:
//   - PathControllerOption: option function to apply
func WithProgressFollowsDirection(follows bool) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.progressFollowsDirection = follows
	}
}

// WithSpeedEasing enables keyboard speed control. Every frame the eased speed moves the given
// fraction of the way towards the requested speed.
//
// Parameters:
//   - rate: the easing fraction in (0, 1]; 0 disables keyboard control
//
// Returns:
//   - PathControllerOption: option function to apply
func WithSpeedEasing(rate float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.speedEasing = rate
	}
}

// WithSpeedInputStep sets the speed requested by SpeedIncrease and SpeedDecrease.
//
// Parameters:
//   - step: the requested speed magnitude (0.001 by default)
//
// Returns:
//   - PathControllerOption: option function to apply
func WithSpeedInputStep(step float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.speedInputStep = step
	}
}

// WithClock sets the clock the flip gate is measured against.
//
// Parameters:
//   - clock: the clock
//
// Returns:
//   - PathControllerOption: option function to apply
func WithClock(clock common.Clock) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.clock = clock
	}
}

// WithRandom sets the random source of the flip gate.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - PathControllerOption: option function to apply
func WithRandom(rng *rand.Rand) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.rng = rng
	}
}

// WithRandomSeed seeds the flip gate for reproducible runs.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - PathControllerOption: option function to apply
func WithRandomSeed(seed uint64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithInitialProgress sets the starting progress.
//
// Parameters:
//   - progress: the initial path parameter
//
// Returns:
//   - PathControllerOption: option function to apply
func WithInitialProgress(progress float64) PathControllerOption {
	return func(pc *pathControllerImpl) {
		pc.progress = progress
	}
}
