package scene

import (
	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

// SceneBuilderOption configures a scene before its configuration is applied by NewScene.
type SceneBuilderOption func(s *scene)

// WithClock sets the clock the direction-flip cooldown is measured on. Defaults to the system clock.
//
// Parameters:
//   - clock: the clock to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClock(clock common.Clock) SceneBuilderOption {
	return func(s *scene) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAspect sets the initial camera aspect ratio (width / height). Defaults to 16:9.
//
// Parameters:
//   - aspect: the aspect ratio, ignored when not positive
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAspect(aspect float32) SceneBuilderOption {
	return func(s *scene) {
		if aspect > 0 {
			s.aspect = aspect
		}
	}
}

// WithComputeWorkers sets how many workers sample rings in parallel. Defaults to one less than
// the CPU count; a positive workers key in the scene configuration wins over this option.
//
// Parameters:
//   - n: the worker count, raised to 1 when smaller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(n, 1)
	}
}
