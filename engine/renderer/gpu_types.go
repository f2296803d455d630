package renderer

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/shader"
)

//go:embed assets/tube.wgsl
var tubeShaderBody string

// GPUSceneParamsSource is the canonical WGSL definition of the SceneParams struct.
//
//go:embed assets/scene_params.wgsl
var GPUSceneParamsSource string

const annotationArgScene shader.AnnotationArg = "scene"

// Bindings of the single bind group shared by every tube pipeline.
const (
	bindingCamera = 0
	bindingLights = 1
	bindingScene  = 2
)

// uniformSizes maps every binding the backend can serve to its buffer size.
var uniformSizes = map[int]uint64{
	bindingCamera: uint64((&camera.GPUCameraUniform{}).Size()),
	bindingLights: uint64((&light.GPULightBlock{}).Size()),
	bindingScene:  uint64((&GPUSceneParams{}).Size()),
}

// tubeShader expands the annotated tube shader and returns the group 0 bindings it declares.
// Every declared binding must be one the backend has a uniform buffer for.
//
// Returns:
//   - string: the complete WGSL module
//   - []int: the declared bindings in source order
//   - error: an error if the shader is malformed or declares an unknown binding
func tubeShader() (string, []int, error) {
	pp := shader.NewPreProcessor(shader.WithStruct(annotationArgScene, "SceneParams", GPUSceneParamsSource))
	src, err := pp.Process(tubeShaderBody)
	if err != nil {
		return "", nil, err
	}
	var bindings []int
	for _, d := range pp.Declarations() {
		if d.Group != 0 {
			return "", nil, fmt.Errorf("line %d: tube shader only uses group 0, got %d", d.Line, d.Group)
		}
		if _, ok := uniformSizes[d.Binding]; !ok {
			return "", nil, fmt.Errorf("line %d: no uniform buffer for binding %d", d.Line, d.Binding)
		}
		bindings = append(bindings, d.Binding)
	}
	return src, bindings, nil
}

// GPUSceneParams is the GPU-aligned representation of the per-frame fog settings.
// Size: 32 bytes.
type GPUSceneParams struct {
	FogColor   [4]float32 // offset  0: background color the fog fades to
	FogDensity float32    // offset 16: exponential-squared fog density, 0 disables fog
	_pad       [3]float32 // offset 20: padding to 32 bytes
}

// NewGPUSceneParams packs the fog settings of a frame.
//
// Parameters:
//   - background: the clear color
//   - fogDensity: the fog density
//
// Returns:
//   - GPUSceneParams: the packed parameters
func NewGPUSceneParams(background common.Color, fogDensity float32) GPUSceneParams {
	return GPUSceneParams{
		FogColor:   [4]float32{background.R, background.G, background.B, background.A},
		FogDensity: fogDensity,
	}
}

// Size returns the size of the GPUSceneParams struct in bytes.
func (g *GPUSceneParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUSceneParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.FogColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.FogDensity))
	return buf
}
