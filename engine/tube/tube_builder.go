package tube

import (
	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/noise"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
)

// builder collects the options of a single Build call.
type builder struct {
	segments       int
	detail         int
	radius         float64
	phase          Phase
	cosineSign     float64
	coloring       Coloring
	representation Representation
	rotationSeed   int64
	instanceSize   float64
	workers        int
	closedFrames   bool
}

// BuilderOption is a functional option for configuring a tube build.
type BuilderOption func(*builder)

// WithSegments sets the number of rings sampled along the path.
//
// Parameters:
//   - segments: the ring count (must be >= 1)
//
// Returns:
//   - BuilderOption: option function to apply
func WithSegments(segments int) BuilderOption {
	return func(b *builder) {
		b.segments = segments
	}
}

// WithDetail sets the number of vertices per ring.
//
// Parameters:
//   - detail: the per-ring vertex count (must be >= 1)
//
// Returns:
//   - BuilderOption: option function to apply
func WithDetail(detail int) BuilderOption {
	return func(b *builder) {
		b.detail = detail
	}
}

// WithRadius sets the distance from the path to every ring vertex.
//
// Parameters:
//   - radius: the ring radius (must be > 0)
//
// Returns:
//   - BuilderOption: option function to apply
func WithRadius(radius float64) BuilderOption {
	return func(b *builder) {
		b.radius = radius
	}
}

// WithPhase sets the angular offset strategy. Defaults to PhaseNone.
//
// Parameters:
//   - phase: the phase strategy
//
// Returns:
//   - BuilderOption: option function to apply
func WithPhase(phase Phase) BuilderOption {
	return func(b *builder) {
		b.phase = phase
	}
}

// WithCosineSign sets the sign applied to the cosine (normal) term of every ring offset.
// Use -1 to mirror the ring across the binormal axis.
//
// Parameters:
//   - sign: 1 or -1
//
// Returns:
//   - BuilderOption: option function to apply
func WithCosineSign(sign float64) BuilderOption {
	return func(b *builder) {
		b.cosineSign = sign
	}
}

// WithColoring sets the vertex color strategy. Defaults to ColorByProgress(1).
//
// Parameters:
//   - coloring: the coloring strategy
//
// Returns:
//   - BuilderOption: option function to apply
func WithColoring(coloring Coloring) BuilderOption {
	return func(b *builder) {
		b.coloring = coloring
	}
}

// WithRepresentation sets how the rings are meant to be drawn. Defaults to RepresentPoints.
//
// Parameters:
//   - representation: the representation
//
// Returns:
//   - BuilderOption: option function to apply
func WithRepresentation(representation Representation) BuilderOption {
	return func(b *builder) {
		b.representation = representation
	}
}

// WithRotationSeed seeds the per-instance rotations of RepresentInstances.
//
// Parameters:
//   - seed: the rotation seed
//
// Returns:
//   - BuilderOption: option function to apply
func WithRotationSeed(seed int64) BuilderOption {
	return func(b *builder) {
		b.rotationSeed = seed
	}
}

// WithInstanceSize sets the edge length of every instanced solid.
//
// Parameters:
//   - size: the instance scale (must be > 0 for RepresentInstances)
//
// Returns:
//   - BuilderOption: option function to apply
func WithInstanceSize(size float64) BuilderOption {
	return func(b *builder) {
		b.instanceSize = size
	}
}

// WithWorkers sets how many workers generate rings concurrently. Defaults to GOMAXPROCS.
//
// Parameters:
//   - workers: the worker count (must be >= 1)
//
// Returns:
//   - BuilderOption: option function to apply
func WithWorkers(workers int) BuilderOption {
	return func(b *builder) {
		b.workers = workers
	}
}

// WithClosedFrames controls whether the frame twist is closed over the path before the rings
// are placed. Defaults to true for open and closed paths alike. It never affects whether a
// surface wraps from the last ring to the first; only a closed path does.
//
// Parameters:
//   - closed: whether to close the frames
//
// Returns:
//   - BuilderOption: option function to apply
func WithClosedFrames(closed bool) BuilderOption {
	return func(b *builder) {
		b.closedFrames = closed
	}
}

func (b *builder) validate(p path.Path, field noise.Field) error {
	switch {
	case p == nil:
		return common.NewConfigurationError("path", nil, "a path is required")
	case b.segments < 1:
		return common.NewConfigurationError("segments", b.segments, "must be at least 1")
	case b.detail < 1:
		return common.NewConfigurationError("detail", b.detail, "must be at least 1")
	case !(b.radius > 0):
		return common.NewConfigurationError("radius", b.radius, "must be greater than 0")
	case b.cosineSign != 1 && b.cosineSign != -1:
		return common.NewConfigurationError("cosine_sign", b.cosineSign, "must be 1 or -1")
	case b.workers < 1:
		return common.NewConfigurationError("workers", b.workers, "must be at least 1")
	case b.representation == RepresentInstances && !(b.instanceSize > 0):
		return common.NewConfigurationError("instance_size", b.instanceSize, "must be greater than 0")
	case field == nil && b.phase.usesNoise():
		return common.NewConfigurationError("phase", "noise", "a noise field is required")
	case field == nil && b.coloring.usesNoise():
		return common.NewConfigurationError("coloring", b.coloring.Kind, "a noise field is required")
	}
	if _, ok := representationNames[b.representation]; !ok {
		return common.NewConfigurationError("representation", int(b.representation), "unknown representation")
	}
	return nil
}
