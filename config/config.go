// Package config describes a tube scene as data. Scenes are read from TOML, either from a file or
// from the presets embedded in the binary, and validated before anything is built from them.
package config

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/tube"
)

// Scene is the full configuration of one tube scene.
type Scene struct {
	// Extends names a preset whose values are used for every key this scene leaves out.
	Extends     string `toml:"extends,omitempty"`
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
	Seed        int64  `toml:"seed"`

	// Tube
	Segments       int     `toml:"segments"`
	Detail         int     `toml:"detail"`
	Radius         float64 `toml:"radius"`
	CosineSign     float64 `toml:"cosine_sign,omitempty"`
	Representation string  `toml:"representation,omitempty"`
	InstanceSize   float64 `toml:"instance_size,omitempty"`
	ClosedFrames   *bool   `toml:"closed_frames,omitempty"`
	Workers        int     `toml:"workers,omitempty"`

	Phase    Phase    `toml:"phase"`
	Coloring Coloring `toml:"coloring"`

	// Path
	Closed  bool        `toml:"closed"`
	Curve   string      `toml:"curve,omitempty"`
	Tension float64     `toml:"tension,omitempty"`
	Points  [][]float64 `toml:"points"`
	// LiftY is the height 2D points are placed at.
	LiftY float64 `toml:"lift_y,omitempty"`
	// RandomLift places every 2D point at a random height in [0, RandomLift) drawn from Seed.
	RandomLift float64 `toml:"random_lift,omitempty"`
	// PointJitter moves every point by up to ±PointJitter along X and Z, drawn from Seed.
	PointJitter float64 `toml:"point_jitter,omitempty"`

	// Camera travel
	Speed     float64 `toml:"speed"`
	Lookahead float64 `toml:"lookahead"`
	Camera    Camera  `toml:"camera"`

	// Rendering
	PointSize  float64 `toml:"point_size,omitempty"`
	FogDensity float64 `toml:"fog_density,omitempty"`
	Ambient    float64 `toml:"ambient,omitempty"`
	Lights     []Light `toml:"lights,omitempty"`
}

// Phase selects the ring phase strategy: "none", "spiral" or "noise".
type Phase struct {
	Kind   string  `toml:"kind"`
	Factor float64 `toml:"factor,omitempty"`
}

// Coloring selects the vertex color strategy: "position_noise", "progress" or "ring_noise".
type Coloring struct {
	Kind          string  `toml:"kind"`
	Scale         float64 `toml:"scale,omitempty"`
	HueMultiplier float64 `toml:"hue_multiplier,omitempty"`
	Base          float64 `toml:"base,omitempty"`
	Spread        float64 `toml:"spread,omitempty"`
	Saturation    float64 `toml:"saturation,omitempty"`
	Lightness     float64 `toml:"lightness,omitempty"`
}

// Camera configures the projection and the path-follow behavior.
type Camera struct {
	FovDeg float64 `toml:"fov_deg,omitempty"`
	Near   float64 `toml:"near,omitempty"`
	Far    float64 `toml:"far,omitempty"`

	Jitter                    Jitter    `toml:"jitter"`
	TargetLight               bool      `toml:"target_light,omitempty"`
	LightOffsets              []float64 `toml:"light_offsets,omitempty"`
	LookaheadFollowsDirection *bool     `toml:"lookahead_follows_direction,omitempty"`
	ProgressFollowsDirection  *bool     `toml:"progress_follows_direction,omitempty"`
	Flip                      Flip      `toml:"flip"`
	Keyboard                  Keyboard  `toml:"keyboard"`
}

// Jitter selects the handheld sway: "none", "orbit", "lifted" or "breathing".
type Jitter struct {
	Kind      string  `toml:"kind"`
	Amplitude float64 `toml:"amplitude,omitempty"`
	Scale     float64 `toml:"scale,omitempty"`
	Lift      float64 `toml:"lift,omitempty"`
	Rate      float64 `toml:"rate,omitempty"`
	Sway      float64 `toml:"sway,omitempty"`
}

// Flip configures the random direction reversal.
type Flip struct {
	Enabled     *bool   `toml:"enabled,omitempty"`
	CooldownMS  int64   `toml:"cooldown_ms,omitempty"`
	Probability float64 `toml:"probability,omitempty"`
}

// Keyboard enables W/S speed control.
type Keyboard struct {
	Enabled bool    `toml:"enabled"`
	Step    float64 `toml:"step,omitempty"`
	Easing  float64 `toml:"easing,omitempty"`
}

// Light is a point light. The first light is placed on the camera's target light anchor when
// camera.target_light is set, the rest follow camera.light_offsets in order.
type Light struct {
	Color     uint32  `toml:"color"`
	Intensity float64 `toml:"intensity,omitempty"`
	Range     float64 `toml:"range,omitempty"`
}

// ApplyDefaults fills every optional key that was left out. Required keys (segments, detail,
// radius, points) are never defaulted so that Validate can reject them.
func (s *Scene) ApplyDefaults() {
	s.CosineSign = common.Coalesce(s.CosineSign, 1)
	s.Representation = common.Coalesce(s.Representation, tube.RepresentPoints.String())
	s.InstanceSize = common.Coalesce(s.InstanceSize, 1)
	s.Curve = common.Coalesce(s.Curve, path.CurveCentripetal.String())
	s.Tension = common.Coalesce(s.Tension, 0.5)
	s.PointSize = common.Coalesce(s.PointSize, 0.5)
	s.Ambient = common.Coalesce(s.Ambient, 1)

	s.Phase.Kind = common.Coalesce(s.Phase.Kind, "none")
	s.Coloring.Kind = common.Coalesce(s.Coloring.Kind, "progress")
	s.Coloring.HueMultiplier = common.Coalesce(s.Coloring.HueMultiplier, 1)
	s.Coloring.Saturation = common.Coalesce(s.Coloring.Saturation, 1)
	s.Coloring.Lightness = common.Coalesce(s.Coloring.Lightness, 0.5)
	s.Coloring.Scale = common.Coalesce(s.Coloring.Scale, 1)

	s.Camera.FovDeg = common.Coalesce(s.Camera.FovDeg, 45)
	s.Camera.Near = common.Coalesce(s.Camera.Near, 0.1)
	s.Camera.Far = common.Coalesce(s.Camera.Far, 10000)
	s.Camera.Jitter.Kind = common.Coalesce(s.Camera.Jitter.Kind, "none")
	s.Camera.Flip.CooldownMS = common.Coalesce(s.Camera.Flip.CooldownMS, 6000)
	s.Camera.Flip.Probability = common.Coalesce(s.Camera.Flip.Probability, 1.0/255.0)
	s.Camera.Keyboard.Step = common.Coalesce(s.Camera.Keyboard.Step, 0.001)
	s.Camera.Keyboard.Easing = common.Coalesce(s.Camera.Keyboard.Easing, 0.01)

	for i := range s.Lights {
		s.Lights[i].Intensity = common.Coalesce(s.Lights[i].Intensity, 1)
	}
}

// Validate checks the scene and returns a ConfigurationError naming the first failing key.
//
// Returns:
//   - error: nil when the scene can be built
func (s *Scene) Validate() error {
	switch {
	case s.Segments < 1:
		return common.NewConfigurationError("segments", s.Segments, "must be at least 1")
	case s.Detail < 1:
		return common.NewConfigurationError("detail", s.Detail, "must be at least 1")
	case !(s.Radius > 0):
		return common.NewConfigurationError("radius", s.Radius, "must be greater than 0")
	case len(s.Points) < 2:
		return common.NewConfigurationError("points", len(s.Points), "at least 2 control points are required")
	case s.CosineSign != 1 && s.CosineSign != -1:
		return common.NewConfigurationError("cosine_sign", s.CosineSign, "must be 1 or -1")
	case s.Workers < 0:
		return common.NewConfigurationError("workers", s.Workers, "must not be negative")
	case !finite(s.Speed):
		return common.NewConfigurationError("speed", s.Speed, "must be finite")
	case !finite(s.Lookahead):
		return common.NewConfigurationError("lookahead", s.Lookahead, "must be finite")
	case s.RandomLift < 0:
		return common.NewConfigurationError("random_lift", s.RandomLift, "must not be negative")
	case s.PointJitter < 0:
		return common.NewConfigurationError("point_jitter", s.PointJitter, "must not be negative")
	case s.FogDensity < 0:
		return common.NewConfigurationError("fog_density", s.FogDensity, "must not be negative")
	case !(s.PointSize > 0):
		return common.NewConfigurationError("point_size", s.PointSize, "must be greater than 0")
	}

	for i, p := range s.Points {
		if len(p) != 2 && len(p) != 3 {
			return common.NewConfigurationError(fmt.Sprintf("points[%d]", i), p, "must have 2 or 3 coordinates")
		}
	}
	if _, ok := path.ParseCurveType(s.Curve); !ok {
		return common.NewConfigurationError("curve", s.Curve, "unknown curve type")
	}
	if _, ok := tube.ParseRepresentation(s.Representation); !ok {
		return common.NewConfigurationError("representation", s.Representation, "unknown representation")
	}
	if _, err := s.PhaseStrategy(); err != nil {
		return err
	}
	if _, err := s.ColoringStrategy(); err != nil {
		return err
	}
	return s.Camera.validate()
}

func (c *Camera) validate() error {
	switch {
	case !(c.FovDeg > 0 && c.FovDeg < 180):
		return common.NewConfigurationError("camera.fov_deg", c.FovDeg, "must be within (0, 180)")
	case !(c.Near > 0):
		return common.NewConfigurationError("camera.near", c.Near, "must be greater than 0")
	case !(c.Far > c.Near):
		return common.NewConfigurationError("camera.far", c.Far, "must be greater than camera.near")
	case c.Flip.CooldownMS < 0:
		return common.NewConfigurationError("camera.flip.cooldown_ms", c.Flip.CooldownMS, "must not be negative")
	case !(c.Flip.Probability >= 0 && c.Flip.Probability <= 1):
		return common.NewConfigurationError("camera.flip.probability", c.Flip.Probability, "must be within [0, 1]")
	case !(c.Keyboard.Easing > 0 && c.Keyboard.Easing <= 1):
		return common.NewConfigurationError("camera.keyboard.easing", c.Keyboard.Easing, "must be within (0, 1]")
	}
	switch c.Jitter.Kind {
	case "none", "orbit", "lifted", "breathing":
	default:
		return common.NewConfigurationError("camera.jitter.kind", c.Jitter.Kind, "unknown jitter")
	}
	for i, off := range c.LightOffsets {
		if !finite(off) {
			return common.NewConfigurationError(fmt.Sprintf("camera.light_offsets[%d]", i), off, "must be finite")
		}
	}
	return nil
}

// PhaseStrategy converts the phase section into a tube.Phase.
//
// Returns:
//   - tube.Phase: the phase strategy
//   - error: a ConfigurationError for an unknown kind
func (s *Scene) PhaseStrategy() (tube.Phase, error) {
	switch s.Phase.Kind {
	case "none":
		return tube.PhaseNone(), nil
	case "spiral":
		return tube.PhaseSpiral(s.Phase.Factor), nil
	case "noise":
		return tube.PhaseNoise(s.Phase.Factor), nil
	}
	return tube.Phase{}, common.NewConfigurationError("phase.kind", s.Phase.Kind, "unknown phase")
}

// ColoringStrategy converts the coloring section into a tube.Coloring.
//
// Returns:
//   - tube.Coloring: the coloring strategy
//   - error: a ConfigurationError for an unknown kind
func (s *Scene) ColoringStrategy() (tube.Coloring, error) {
	c := s.Coloring
	switch c.Kind {
	case "position_noise":
		coloring := tube.ColorByPositionNoise(c.Scale, c.HueMultiplier)
		coloring.Saturation, coloring.Lightness = c.Saturation, c.Lightness
		return coloring, nil
	case "progress":
		coloring := tube.ColorByProgress(c.HueMultiplier)
		coloring.Saturation, coloring.Lightness = c.Saturation, c.Lightness
		return coloring, nil
	case "ring_noise":
		return tube.ColorByRingNoise(c.Scale, c.Base, c.Spread, c.Saturation, c.Lightness), nil
	}
	return tube.Coloring{}, common.NewConfigurationError("coloring.kind", c.Kind, "unknown coloring")
}

// BoolOr dereferences an optional flag.
//
// Parameters:
//   - b: the optional flag
//   - def: the value used when b is nil
//
// Returns:
//   - bool: *b or def
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
