package path

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/arithm"
	"github.com/npillmayer/arithm/jhobby"
)

// hobbyCurve is a chain of cubic Bézier segments whose control points come from Hobby's algorithm.
// The solver works in 2D, so the path lives in the XZ plane at a fixed height.
type hobbyCurve struct {
	skeleton *jhobby.Path
	controls *jhobby.Controls
	height   float64
	segments int
}

// newHobbyCurve solves the Hobby controls for points lying in one horizontal plane.
func newHobbyCurve(points []r3.Vector, closed bool) (*hobbyCurve, error) {
	height := points[0].Y
	for i, p := range points {
		if math.Abs(p.Y-height) > 1e-9 {
			return nil, common.NewConfigurationError(fmt.Sprintf("points[%d].y", i), p.Y,
				"hobby curves need every control point at the same height")
		}
	}

	skeleton := jhobby.Nullpath()
	for i, p := range points {
		skeleton = skeleton.Knot(arithm.P(p.X, p.Z))
		if i < len(points)-1 || closed {
			skeleton = skeleton.Curve()
		}
	}
	if closed {
		skeleton = skeleton.Cycle()
	} else {
		skeleton = skeleton.End()
	}

	controls, err := jhobby.FindHobbyControls(skeleton, skeleton.Controls)
	if err != nil {
		return nil, common.NewConfigurationError("points", len(points), err.Error())
	}

	segments := skeleton.N() - 1
	if skeleton.IsCycle() {
		segments = skeleton.N()
	}
	tracer().Debugf("hobby curve solved: %d knots, %d segments", skeleton.N(), segments)
	return &hobbyCurve{skeleton: skeleton, controls: controls, height: height, segments: segments}, nil
}

func (h *hobbyCurve) point(u float64) r3.Vector {
	s := u * float64(h.segments)
	i := int(math.Floor(s))
	if i >= h.segments {
		i = h.segments - 1
	}
	if i < 0 {
		i = 0
	}
	w := s - float64(i)
	j := (i + 1) % h.skeleton.N()

	z0 := h.skeleton.Z(i)
	c0 := h.controls.PostControl(i)
	c1 := h.controls.PreControl(j)
	z1 := h.skeleton.Z(j)

	mt := 1 - w
	b0, b1, b2, b3 := mt*mt*mt, 3*mt*mt*w, 3*mt*w*w, w*w*w
	return r3.Vector{
		X: b0*z0.X() + b1*c0.X() + b2*c1.X() + b3*z1.X(),
		Y: h.height,
		Z: b0*z0.Y() + b1*c0.Y() + b2*c1.Y() + b3*z1.Y(),
	}
}
