package path

// PathBuilderOption is a functional option for configuring a Path.
type PathBuilderOption func(*pathImpl)

// WithClosed marks the path as closed so that it wraps from the last control point to the first.
//
// Parameters:
//   - closed: true for a closed loop
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithClosed(closed bool) PathBuilderOption {
	return func(p *pathImpl) {
		p.closed = closed
	}
}

// WithCurveType selects the interpolation between control points. Defaults to CurveCentripetal.
//
// Parameters:
//   - curveType: the interpolation to use
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithCurveType(curveType CurveType) PathBuilderOption {
	return func(p *pathImpl) {
		p.curveType = curveType
	}
}

// WithTension sets the tension of a uniform CurveCatmullRom spline. Ignored by the other curve types.
//
// Parameters:
//   - tension: the tangent scale, 0.5 gives the classic Catmull-Rom spline
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithTension(tension float64) PathBuilderOption {
	return func(p *pathImpl) {
		p.tension = tension
	}
}

// WithArcLengthDivisions sets how many raw samples build the arc-length table. Defaults to 200.
// More divisions make equal t steps more uniform in distance on long paths.
//
// Parameters:
//   - divisions: sample count
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithArcLengthDivisions(divisions int) PathBuilderOption {
	return func(p *pathImpl) {
		p.divisions = divisions
	}
}
