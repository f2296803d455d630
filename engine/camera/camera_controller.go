package camera

// CameraController supplies the eye and look-at points a Camera builds its view matrix from.
// A controller is the only writer of those points; the camera reads them once per Update.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)
}

// StaticController holds a fixed eye and target. Useful for stills of a tube and in tests.
type StaticController struct {
	Eye    [3]float32
	LookAt [3]float32
}

var _ CameraController = &StaticController{}

// NewStaticController creates a controller that always reports the same eye and target.
//
// Parameters:
//   - eye: world-space camera position
//   - target: world-space look-at point
//
// Returns:
//   - *StaticController: the controller
func NewStaticController(eye, target [3]float32) *StaticController {
	return &StaticController{Eye: eye, LookAt: target}
}

func (s *StaticController) Position() (x, y, z float32) {
	return s.Eye[0], s.Eye[1], s.Eye[2]
}

func (s *StaticController) Target() (x, y, z float32) {
	return s.LookAt[0], s.LookAt[1], s.LookAt[2]
}
