package light

import (
	"github.com/chewxy/math32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position   [3]float32
	color      [3]float32
	intensity  float32
	lightRange float32
	enabled    bool
}

// PointLight is a plain copy of a light's state, safe to hand to a renderer.
type PointLight struct {
	Position  [3]float32
	Color     [3]float32
	Intensity float32
	Range     float32
}

// Light is a point light anchored somewhere along the path.
//
// Lights emit in all directions from their position and fade out linearly up to their range.
// The scene re-anchors them every tick to the positions sampled by the camera controller, and
// renderers only ever see PointLight snapshots of them. A light without an anchor is disabled.
type Light interface {
	Position() [3]float32
	Color() [3]float32
	Intensity() float32
	// Range is the distance at which the light's contribution reaches zero. Zero disables falloff.
	Range() float32
	Enabled() bool

	// Anchor moves the light to p and enables it.
	//
	// Parameters:
	//   - p: the world-space anchor
	Anchor(p [3]float32)

	// Detach disables the light until it is anchored again. Its position is kept.
	Detach()

	// SetRange changes the falloff distance. Negative values are treated as zero.
	SetRange(lightRange float32)

	// Snapshot copies the light's current state.
	//
	// Returns:
	//   - PointLight: the copied state
	Snapshot() PointLight
}

var _ Light = &lightImpl{}

// NewLight creates a white point light of intensity 1 and range 250, enabled at the origin.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the new light
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		color:      [3]float32{1, 1, 1},
		intensity:  1,
		lightRange: 250,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() [3]float32 { return l.position }
func (l *lightImpl) Color() [3]float32    { return l.color }
func (l *lightImpl) Intensity() float32   { return l.intensity }
func (l *lightImpl) Range() float32       { return l.lightRange }
func (l *lightImpl) Enabled() bool        { return l.enabled }

func (l *lightImpl) Anchor(p [3]float32) {
	l.position = p
	l.enabled = true
}

func (l *lightImpl) Detach() {
	l.enabled = false
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = max(lightRange, 0)
}

func (l *lightImpl) Snapshot() PointLight {
	return PointLight{
		Position:  l.position,
		Color:     l.color,
		Intensity: l.intensity,
		Range:     l.lightRange,
	}
}

// Attenuation returns the light's contribution factor at point p: intensity at the light,
// falling linearly to zero at Range. A non-positive range means the light never fades.
//
// Parameters:
//   - p: the lit point in world space
//
// Returns:
//   - float32: the factor in [0, Intensity]
func (pl PointLight) Attenuation(p [3]float32) float32 {
	if pl.Range <= 0 {
		return pl.Intensity
	}
	dx, dy, dz := p[0]-pl.Position[0], p[1]-pl.Position[1], p[2]-pl.Position[2]
	d := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if d >= pl.Range {
		return 0
	}
	return pl.Intensity * (1 - d/pl.Range)
}
