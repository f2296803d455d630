package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraLooksAtTarget(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	ctrl := NewStaticController([3]float32{10, 5, 10}, [3]float32{0, 0, 0})
	cam := NewCamera(
		WithLens(LensDegrees(45, 0.1, 1000)),
		WithAspect(16.0/9.0),
		WithController(ctrl),
	)

	view := cam.ViewMatrix()
	p := common.TransformPoint(view[:], ctrl.LookAt)
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 0, p[1], 1e-4)
	assert.Less(t, p[2], float32(0), "target lies in front of the camera")
	assert.Equal(t, ctrl.Eye, cam.Eye())
	assert.Equal(t, ctrl.LookAt, cam.Target())

	vp := cam.ViewProjectionMatrix()
	clip := common.TransformPoint(vp[:], ctrl.LookAt)
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-4)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-4)
	assert.True(t, cam.Frustum().ContainsSphere(ctrl.LookAt, 1))
	assert.False(t, cam.Frustum().ContainsSphere([3]float32{20, 10, 20}, 1), "behind the camera")
}

func TestCameraFollowsControllerOnUpdate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	ctrl := NewStaticController([3]float32{0, 0, 10}, [3]float32{})
	cam := NewCamera(WithController(ctrl))
	before := cam.ViewMatrix()

	ctrl.Eye = [3]float32{0, 0, 20}
	assert.Equal(t, before, cam.ViewMatrix(), "matrices only change on Update")
	cam.Update()
	assert.NotEqual(t, before, cam.ViewMatrix())
	assert.Equal(t, [3]float32{0, 0, 20}, cam.Eye())
}

func TestCameraLookingStraightUp(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cam := NewCamera(WithController(NewStaticController([3]float32{0, 0, 0}, [3]float32{0, 10, 0})))
	view := cam.ViewMatrix()
	for i, v := range view {
		assert.False(t, math.IsNaN(float64(v)), "view[%d]", i)
	}
	p := common.TransformPoint(view[:], [3]float32{0, 10, 0})
	assert.InDelta(t, -10, p[2], 1e-4)
}

func TestCameraKeepsViewWithoutDirection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	ctrl := NewStaticController([3]float32{0, 0, 5}, [3]float32{})
	cam := NewCamera(WithController(ctrl))
	before := cam.ViewMatrix()

	ctrl.Eye = [3]float32{1, 1, 1}
	ctrl.LookAt = [3]float32{1, 1, 1}
	cam.Update()
	assert.Equal(t, before, cam.ViewMatrix())
	assert.Equal(t, [3]float32{0, 0, 5}, cam.Eye())
}

func TestSetAspectIgnoresDegenerateSizes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cam := NewCamera(WithController(NewStaticController([3]float32{0, 0, 5}, [3]float32{})))
	cam.SetAspect(2)
	require.Equal(t, float32(2), cam.Aspect())

	cam.SetAspect(0)
	cam.SetAspect(-1)
	cam.SetAspect(float32(math.NaN()))
	cam.SetAspect(float32(math.Inf(1)))
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestLens(t *testing.T) {
	assert.True(t, DefaultLens.Valid())
	assert.InDelta(t, math.Pi/2, LensDegrees(90, 1, 2).FovY, 1e-6)
	assert.False(t, Lens{FovY: 1, Near: 0, Far: 1}.Valid())
	assert.False(t, Lens{FovY: 1, Near: 2, Far: 1}.Valid())
	assert.False(t, Lens{FovY: 4, Near: 1, Far: 2}.Valid())

	cam := NewCamera(WithLens(Lens{FovY: 1, Near: 5, Far: 1}))
	assert.Equal(t, DefaultLens, cam.Lens(), "invalid lens options are ignored")

	before := cam.ProjectionMatrix()
	cam.SetLens(LensDegrees(90, 0.5, 50))
	assert.NotEqual(t, before, cam.ProjectionMatrix())
	cam.SetLens(Lens{})
	assert.Equal(t, LensDegrees(90, 0.5, 50), cam.Lens())
}

func TestCameraUniformLayout(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	cam := NewCamera(WithController(NewStaticController([3]float32{1, 2, 3}, [3]float32{})))
	u := NewGPUCameraUniform(cam, 0.5)
	buf := u.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, 80, u.Size())
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[72:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[76:])))
	assert.Contains(t, GPUCameraUniformSource, "point_size")
}
