package noise

// FieldBuilderOption is a functional option for configuring a Field.
type FieldBuilderOption func(*fieldImpl)

// WithSeed sets the seed that makes the field deterministic.
//
// Parameters:
//   - seed: the construction seed
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSeed(seed int64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.seed = seed
	}
}

// WithFrequency scales every input coordinate before sampling. Values <= 0 are ignored.
//
// Parameters:
//   - frequency: input scale factor
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithFrequency(frequency float64) FieldBuilderOption {
	return func(f *fieldImpl) {
		if frequency > 0 {
			f.frequency = frequency
		}
	}
}

// WithOctaves layers n octaves of noise (fractal Brownian motion). Values < 1 are ignored.
//
// Parameters:
//   - n: octave count
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithOctaves(n int) FieldBuilderOption {
	return func(f *fieldImpl) {
		if n >= 1 {
			f.octaves = n
		}
	}
}

// WithPersistence sets the amplitude falloff between octaves. Values outside (0, 1] are ignored.
//
// Parameters:
//   - p: amplitude multiplier per octave
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithPersistence(p float64) FieldBuilderOption {
	return func(f *fieldImpl) {
		if p > 0 && p <= 1 {
			f.persistence = p
		}
	}
}
