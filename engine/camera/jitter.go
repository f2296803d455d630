package camera

import (
	"math"

	"github.com/golang/geo/r3"
)

// JitterKind selects the handheld sway added to the camera anchor.
type JitterKind int

const (
	// JitterKindNone keeps the camera exactly on the path.
	JitterKindNone JitterKind = iota
	// JitterKindOrbit circles the anchor once every 360 frames.
	JitterKindOrbit
	// JitterKindLifted circles the anchor in XZ and holds a constant height above it.
	JitterKindLifted
	// JitterKindBreathing swings with an amplitude that itself oscillates slowly.
	JitterKindBreathing
)

// Jitter is a deterministic sway applied to the camera position as a function of the frame counter.
type Jitter struct {
	Kind      JitterKind
	Amplitude float64
	Scale     float64
	// Lift is the constant height offset of JitterKindLifted.
	Lift float64
	// Rate is the per-frame phase step of JitterKindBreathing.
	Rate float64
	// Sway is the vertical swing of JitterKindBreathing.
	Sway float64
}

// JitterNone returns a Jitter that adds no offset.
func JitterNone() Jitter {
	return Jitter{Kind: JitterKindNone}
}

// JitterOrbit sways the camera by (a·sin φ·s, a·cos φ·s, a·cos φ·s) with φ = frame degrees.
//
// Parameters:
//   - amplitude: the sway amplitude
//   - scale: a factor applied on top of the amplitude
//
// Returns:
//   - Jitter: the orbit jitter
func JitterOrbit(amplitude, scale float64) Jitter {
	return Jitter{Kind: JitterKindOrbit, Amplitude: amplitude, Scale: scale}
}

// JitterLifted sways the camera by (a·sin φ·s, lift, a·cos φ·s) with φ = frame degrees.
//
// Parameters:
//   - amplitude: the sway amplitude
//   - scale: a factor applied on top of the amplitude
//   - lift: the constant height above the path
//
// Returns:
//   - Jitter: the lifted jitter
func JitterLifted(amplitude, scale, lift float64) Jitter {
	return Jitter{Kind: JitterKindLifted, Amplitude: amplitude, Scale: scale, Lift: lift}
}

// JitterBreathing sways the camera sideways with an amplitude of a·sin(frame·rate) and a vertical
// swing of sway·sin(frame·rate), mirrored on Z.
//
// Parameters:
//   - amplitude: peak sideways amplitude
//   - scale: a factor applied to the sideways swing
//   - rate: phase advance per frame in radians
//   - sway: peak vertical swing
//
// Returns:
//   - Jitter: the breathing jitter
func JitterBreathing(amplitude, scale, rate, sway float64) Jitter {
	return Jitter{Kind: JitterKindBreathing, Amplitude: amplitude, Scale: scale, Rate: rate, Sway: sway}
}

// Offset returns the sway for the given frame.
//
// Parameters:
//   - frame: the controller's frame counter
//
// Returns:
//   - r3.Vector: the offset added to the camera anchor
func (j Jitter) Offset(frame uint64) r3.Vector {
	switch j.Kind {
	case JitterKindOrbit:
		sin, cos := math.Sincos(float64(frame) * math.Pi / 180)
		return r3.Vector{X: j.Amplitude * sin * j.Scale, Y: j.Amplitude * cos * j.Scale, Z: j.Amplitude * cos * j.Scale}
	case JitterKindLifted:
		sin, cos := math.Sincos(float64(frame) * math.Pi / 180)
		return r3.Vector{X: j.Amplitude * sin * j.Scale, Y: j.Lift, Z: j.Amplitude * cos * j.Scale}
	case JitterKindBreathing:
		sin, cos := math.Sincos(float64(frame)*j.Rate + math.Pi/180)
		amp := j.Amplitude * sin
		y := j.Sway * sin
		return r3.Vector{X: amp * cos * j.Scale, Y: y, Z: -y}
	default:
		return r3.Vector{}
	}
}
