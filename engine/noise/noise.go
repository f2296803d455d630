package noise

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/ojrac/opensimplex-go"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.noise")
}

// fieldImpl is the implementation of the Field interface.
// All fields are set at construction and never written again, so concurrent reads need no lock.
type fieldImpl struct {
	noise opensimplex.Noise

	seed        int64
	frequency   float64
	octaves     int
	persistence float64
	lacunarity  float64
	amplitudes  float64 // sum of octave amplitudes, used to renormalize fBm into [-1, 1]
}

// Field is a deterministic, seedable source of coherent noise.
//
// Samples are continuous in their inputs and always lie in [-1, 1]. Two fields built with the same
// options produce identical samples. A Field has no mutable state and may be shared between goroutines.
type Field interface {
	// Sample2 evaluates the field at a 2D coordinate.
	//
	// Parameters:
	//   - x, y: sample coordinates
	//
	// Returns:
	//   - float64: noise value in [-1, 1]
	Sample2(x, y float64) float64

	// Sample3 evaluates the field at a 3D coordinate.
	//
	// Parameters:
	//   - x, y, z: sample coordinates
	//
	// Returns:
	//   - float64: noise value in [-1, 1]
	Sample3(x, y, z float64) float64

	// Seed returns the construction seed.
	//
	// Returns:
	//   - int64: the seed
	Seed() int64
}

var _ Field = &fieldImpl{}

// NewField creates a Field backed by OpenSimplex noise.
// Defaults: seed 0, frequency 1, a single octave.
//
// Parameters:
//   - options: functional options to configure the field
//
// Returns:
//   - Field: the newly created field
func NewField(options ...FieldBuilderOption) Field {
	f := &fieldImpl{
		seed:        0,
		frequency:   1,
		octaves:     1,
		persistence: 0.5,
		lacunarity:  2,
	}
	for _, opt := range options {
		opt(f)
	}
	f.noise = opensimplex.New(f.seed)

	amplitude := 1.0
	for range f.octaves {
		f.amplitudes += amplitude
		amplitude *= f.persistence
	}
	tracer().Debugf("noise field seed=%d frequency=%g octaves=%d", f.seed, f.frequency, f.octaves)
	return f
}

func (f *fieldImpl) Seed() int64 {
	return f.seed
}

func (f *fieldImpl) Sample2(x, y float64) float64 {
	if f.octaves == 1 {
		return clampUnit(f.noise.Eval2(x*f.frequency, y*f.frequency))
	}
	var total float64
	frequency, amplitude := f.frequency, 1.0
	for range f.octaves {
		total += f.noise.Eval2(x*frequency, y*frequency) * amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return clampUnit(total / f.amplitudes)
}

func (f *fieldImpl) Sample3(x, y, z float64) float64 {
	if f.octaves == 1 {
		return clampUnit(f.noise.Eval3(x*f.frequency, y*f.frequency, z*f.frequency))
	}
	var total float64
	frequency, amplitude := f.frequency, 1.0
	for range f.octaves {
		total += f.noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return clampUnit(total / f.amplitudes)
}

// clampUnit pins v to [-1, 1]; OpenSimplex can overshoot by a hair at its extrema.
func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
