package camera

import (
	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithLens sets the perspective lens. An invalid lens keeps the default one.
//
// Parameters:
//   - lens: field of view and clip planes
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's lens
func WithLens(lens Lens) CameraBuilderOption {
	return func(c *cameraImpl) {
		if lens.Valid() {
			c.lens = lens
		}
	}
}

// WithAspect sets the camera's aspect ratio (width / height). Non-positive values are ignored.
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if validAspect(aspect) {
			c.aspect = aspect
		}
	}
}

// WithUp sets the preferred up vector. Defaults to +Y, the axis the tube paths are lifted along.
//
// Parameters:
//   - up: the up direction, need not be normalized
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if common.Length3(up) > 0 {
			c.up = common.Normalize3(up)
		}
	}
}

// WithController attaches the controller the camera follows.
// After all options are applied the camera computes its matrices from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
