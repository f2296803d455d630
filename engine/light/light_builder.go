package light

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition places the light before the scene moves it to its first anchor.
//
// Parameters:
//   - p: the world-space position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithColorHex sets the color from a 0xRRGGBB value, e.g. 0x888888. Bits above the low 24 are ignored.
//
// Parameters:
//   - hex: the packed color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColorHex(hex uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{
			float32((hex>>16)&0xff) / 255,
			float32((hex>>8)&0xff) / 255,
			float32(hex&0xff) / 255,
		}
	}
}

// WithIntensity scales the light. Negative values are clamped to zero.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = max(intensity, 0)
	}
}

// WithRange sets the distance at which the light fades out. Zero means no falloff;
// negative values are treated as zero.
//
// Parameters:
//   - lightRange: the range in world units
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = max(lightRange, 0)
	}
}
