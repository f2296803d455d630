// package common contains plain value types and math helpers shared by every engine package.
// Nothing in here is interface-wrapped.
package common

import (
	"github.com/gogpu/gg"
)

// Color is a linear RGBA color with components in [0, 1].
// The layout matches a WGSL vec4<f32> so slices of Color can be uploaded directly.
type Color struct {
	R, G, B, A float32
}

// ColorHSL converts hue/saturation/lightness to an opaque Color.
// Hue is in degrees and wraps, so any real value is accepted.
//
// Parameters:
//   - hue: hue in degrees
//   - saturation: saturation in [0, 1]
//   - lightness: lightness in [0, 1]
//
// Returns:
//   - Color: the converted color with alpha 1
func ColorHSL(hue, saturation, lightness float64) Color {
	return ColorFromRGBA(gg.HSL(hue, saturation, lightness))
}

// ColorFromRGBA converts a gg color into a Color.
//
// Parameters:
//   - c: the gg color
//
// Returns:
//   - Color: the same color as float32 components
func ColorFromRGBA(c gg.RGBA) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(c.A)}
}

// RGBA converts the color into the gg representation used by the raster backend.
//
// Returns:
//   - gg.RGBA: the same color with float64 components
func (c Color) RGBA() gg.RGBA {
	return gg.RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// Scale multiplies the RGB channels by f, leaving alpha untouched. Results are clamped to [0, 1].
//
// Parameters:
//   - f: the brightness factor
//
// Returns:
//   - Color: the scaled color
func (c Color) Scale(f float32) Color {
	clamp := func(v float32) float32 {
		return min(max(v, 0), 1)
	}
	return Color{R: clamp(c.R * f), G: clamp(c.G * f), B: clamp(c.B * f), A: c.A}
}
