package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/chewxy/math32"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.camera")
}

// parallelUp is the sine of the smallest angle allowed between the view direction and the up
// vector before the camera switches to its fallback up axis.
const parallelUp = 1e-3

// Lens is the perspective projection of a Camera.
type Lens struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	// Near and Far are the clip plane distances, 0 < Near < Far.
	Near float32
	Far  float32
}

// DefaultLens is a 45° lens reaching far enough for the preset tubes.
var DefaultLens = Lens{FovY: 45 * math32.Pi / 180, Near: 0.1, Far: 10000}

// LensDegrees builds a Lens from a field of view in degrees.
//
// Parameters:
//   - fovDeg: vertical field of view in degrees
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - Lens: the lens
func LensDegrees(fovDeg, near, far float64) Lens {
	return Lens{FovY: float32(fovDeg) * math32.Pi / 180, Near: float32(near), Far: float32(far)}
}

// Valid reports whether the lens can build a projection matrix.
func (l Lens) Valid() bool {
	return l.FovY > 0 && l.FovY < math32.Pi && l.Near > 0 && l.Far > l.Near && !math32.IsInf(l.Far, 0)
}

type cameraImpl struct {
	mu sync.Mutex

	lens   Lens
	aspect float32
	up     [3]float32

	eye    [3]float32
	target [3]float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera turns the eye and target of a CameraController into view and projection matrices.
//
// The camera keeps the last valid view when the controller reports an eye equal to its target,
// and swaps to a fallback up axis while the view direction runs parallel to the preferred one,
// so a path climbing straight up never produces a degenerate matrix.
type Camera interface {
	// Lens returns the current lens.
	Lens() Lens

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix (column-major).
	ViewProjectionMatrix() [16]float32

	// Eye returns the position the current view matrix was built from.
	Eye() [3]float32

	// Target returns the look-at point the current view matrix was built from.
	Target() [3]float32

	// Frustum returns the view frustum of the current view-projection matrix.
	Frustum() common.Frustum

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// Update reads position and target from the controller and recomputes the matrices.
	// It does nothing without a controller.
	Update()

	// SetLens replaces the lens and recomputes the projection. Invalid lenses are ignored.
	//
	// Parameters:
	//   - lens: the new lens
	SetLens(lens Lens)

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	// Non-positive or non-finite ratios are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a CameraController. The matrices follow it from the next Update.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with DefaultLens, aspect 1 and +Y up.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		lens:   DefaultLens,
		aspect: 1,
		up:     [3]float32{0, 1, 0},
	}
	common.Identity(c.viewMatrix[:])
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.updateView()
	return c
}

func validAspect(aspect float32) bool {
	return aspect > 0 && !math32.IsInf(aspect, 0)
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Eye() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix[:])
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateView()
}

func (c *cameraImpl) SetLens(lens Lens) {
	if !lens.Valid() {
		tracer().Infof("ignoring invalid lens %+v", lens)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens = lens
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if !validAspect(aspect) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// updateProjection rebuilds the projection and the combined matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], c.lens.FovY, c.aspect, c.lens.Near, c.lens.Far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

// updateView rebuilds the view from the controller. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	if c.controller == nil {
		return
	}
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	eye, target := [3]float32{px, py, pz}, [3]float32{tx, ty, tz}

	dir := [3]float32{target[0] - eye[0], target[1] - eye[1], target[2] - eye[2]}
	length := common.Length3(dir)
	if length == 0 || math32.IsNaN(length) || math32.IsInf(length, 0) {
		tracer().Debugf("eye %v has no view direction, keeping the last view", eye)
		return
	}

	up := c.up
	if common.Length3(common.Cross3(common.Normalize3(dir), up)) < parallelUp {
		// Looking along the up axis: borrow the next axis so the basis stays defined.
		up = [3]float32{up[1], up[2], up[0]}
	}

	c.eye, c.target = eye, target
	common.LookAt(c.viewMatrix[:], eye, target, up)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	tracer().Debugf("camera at (%.2f, %.2f, %.2f) looking at (%.2f, %.2f, %.2f)", px, py, pz, tx, ty, tz)
}
