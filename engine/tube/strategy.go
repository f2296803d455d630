package tube

import (
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/noise"
	"github.com/golang/geo/r3"
)

// PhaseKind selects how a ring's angular offset is derived from its path parameter.
type PhaseKind int

const (
	// PhaseKindNone leaves every ring unrotated.
	PhaseKindNone PhaseKind = iota
	// PhaseKindSpiral rotates ring t by Factor*t radians, twisting the tube into a spiral.
	PhaseKindSpiral
	// PhaseKindNoise rotates ring t by noise.Sample2(t*Factor, 0) radians.
	PhaseKindNoise
)

// Phase is the angular offset strategy added to every vertex angle of a ring.
type Phase struct {
	Kind   PhaseKind
	Factor float64
}

// PhaseNone returns a Phase that adds no offset.
func PhaseNone() Phase {
	return Phase{Kind: PhaseKindNone}
}

// PhaseSpiral returns a Phase that adds k*t to ring t.
//
// Parameters:
//   - k: radians of twist over the whole path
//
// Returns:
//   - Phase: the spiral phase
func PhaseSpiral(k float64) Phase {
	return Phase{Kind: PhaseKindSpiral, Factor: k}
}

// PhaseNoise returns a Phase that perturbs ring t by a noise sample at (t*k, 0).
//
// Parameters:
//   - k: frequency of the perturbation along the path
//
// Returns:
//   - Phase: the noise phase
func PhaseNoise(k float64) Phase {
	return Phase{Kind: PhaseKindNoise, Factor: k}
}

// Offset returns the angular offset in radians for the ring at path parameter t.
//
// Parameters:
//   - t: the ring's path parameter in [0, 1)
//   - field: the noise field (only read by PhaseKindNoise)
//
// Returns:
//   - float64: the offset in radians
func (p Phase) Offset(t float64, field noise.Field) float64 {
	switch p.Kind {
	case PhaseKindSpiral:
		return p.Factor * t
	case PhaseKindNoise:
		return field.Sample2(t*p.Factor, 0)
	default:
		return 0
	}
}

func (p Phase) usesNoise() bool {
	return p.Kind == PhaseKindNoise
}

// ColoringKind selects how vertex colors are chosen.
type ColoringKind int

const (
	// ColoringKindPositionNoise derives the hue from noise at the final vertex position.
	ColoringKindPositionNoise ColoringKind = iota
	// ColoringKindProgress derives the hue from the ring's path parameter alone.
	ColoringKindProgress
	// ColoringKindRingNoise picks one noise-driven hue per ring.
	ColoringKindRingNoise
)

// Coloring is the vertex color strategy. Hues are in degrees and wrap.
type Coloring struct {
	Kind          ColoringKind
	Scale         float64
	HueMultiplier float64
	Base          float64
	Spread        float64
	Saturation    float64
	Lightness     float64
}

// ColorByPositionNoise colors each vertex by |noise(position*scale)|*360*hueMultiplier at full saturation.
//
// Parameters:
//   - scale: spatial frequency applied to the vertex position
//   - hueMultiplier: how many times the hue wheel is traversed over the noise range
//
// Returns:
//   - Coloring: the coloring strategy
func ColorByPositionNoise(scale, hueMultiplier float64) Coloring {
	return Coloring{
		Kind:          ColoringKindPositionNoise,
		Scale:         scale,
		HueMultiplier: hueMultiplier,
		Saturation:    1,
		Lightness:     0.5,
	}
}

// ColorByProgress colors each ring by t*360*hueMultiplier at full saturation, giving a smooth gradient.
//
// Parameters:
//   - hueMultiplier: how many times the hue wheel is traversed along the path
//
// Returns:
//   - Coloring: the coloring strategy
func ColorByProgress(hueMultiplier float64) Coloring {
	return Coloring{
		Kind:          ColoringKindProgress,
		HueMultiplier: hueMultiplier,
		Saturation:    1,
		Lightness:     0.5,
	}
}

// ColorByRingNoise gives every ring a single hue of noise(t*k, 0)*spread + base.
//
// Parameters:
//   - k: frequency of the hue change along the path
//   - base: the hue in degrees at noise 0
//   - spread: hue degrees per unit of noise
//   - saturation: saturation in [0, 1]
//   - lightness: lightness in [0, 1]
//
// Returns:
//   - Coloring: the coloring strategy
func ColorByRingNoise(k, base, spread, saturation, lightness float64) Coloring {
	return Coloring{
		Kind:       ColoringKindRingNoise,
		Scale:      k,
		Base:       base,
		Spread:     spread,
		Saturation: saturation,
		Lightness:  lightness,
	}
}

// colorAt returns the color for a vertex at position pos on the ring at parameter t.
func (c Coloring) colorAt(t float64, pos r3.Vector, field noise.Field) common.Color {
	var hue float64
	switch c.Kind {
	case ColoringKindPositionNoise:
		n := math.Abs(field.Sample3(pos.X*c.Scale, pos.Y*c.Scale, pos.Z*c.Scale))
		hue = n * 360 * c.HueMultiplier
	case ColoringKindProgress:
		hue = t * 360 * c.HueMultiplier
	case ColoringKindRingNoise:
		hue = field.Sample2(t*c.Scale, 0)*c.Spread + c.Base
	}
	return common.ColorHSL(hue, c.Saturation, c.Lightness)
}

func (c Coloring) usesNoise() bool {
	return c.Kind == ColoringKindPositionNoise || c.Kind == ColoringKindRingNoise
}

// Representation selects how the rings are handed to the renderer.
type Representation int

const (
	// RepresentPoints draws every vertex as a point sprite.
	RepresentPoints Representation = iota
	// RepresentLineLoop draws every ring as a closed polyline.
	RepresentLineLoop
	// RepresentInstances places one oriented unit solid at every vertex.
	RepresentInstances
	// RepresentSurface stitches neighbouring rings into a triangle mesh.
	RepresentSurface
)

var representationNames = map[Representation]string{
	RepresentPoints:    "points",
	RepresentLineLoop:  "line_loop",
	RepresentInstances: "instances",
	RepresentSurface:   "surface",
}

func (r Representation) String() string {
	if name, ok := representationNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRepresentation looks up a Representation by its String() name.
//
// Parameters:
//   - s: the name, e.g. "line_loop"
//
// Returns:
//   - Representation: the matching representation, RepresentPoints if none matches
//   - bool: whether s named a known representation
func ParseRepresentation(s string) (Representation, bool) {
	for r, name := range representationNames {
		if name == s {
			return r, true
		}
	}
	return RepresentPoints, false
}
