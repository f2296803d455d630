package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the number of light slots in the GPU light block. Lights beyond it are dropped.
const MaxGPULights = 4

// GPULightSource is the canonical WGSL definition of the Light and LightBlock structs.
// Matches GPULight and GPULightBlock layout exactly.
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single point light.
// Size: 32 bytes (WGSL uniform aligned).
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position
	Intensity  float32    // offset 12: scalar multiplier
	Color      [3]float32 // offset 16: RGB color
	LightRange float32    // offset 28: attenuation cutoff distance
}

// GPULightBlock is the uniform block holding every light of a frame.
// Size: 144 bytes.
type GPULightBlock struct {
	Lights  [MaxGPULights]GPULight // offset   0
	Count   uint32                 // offset 128: number of valid entries in Lights
	Ambient float32                // offset 132: ambient term added before the lights
	_pad    [2]uint32              // offset 136: padding to 144 bytes
}

// NewGPULightBlock packs up to MaxGPULights point lights into a uniform block.
//
// Parameters:
//   - lights: the lights of the frame
//   - ambient: the ambient light level
//
// Returns:
//   - GPULightBlock: the packed block
func NewGPULightBlock(lights []PointLight, ambient float32) GPULightBlock {
	var b GPULightBlock
	for i, l := range lights {
		if i == MaxGPULights {
			break
		}
		b.Lights[i] = GPULight{
			Position:   l.Position,
			Intensity:  l.Intensity,
			Color:      l.Color,
			LightRange: l.Range,
		}
		b.Count++
	}
	b.Ambient = ambient
	return b
}

// Size returns the size of the GPULightBlock struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (b *GPULightBlock) Size() int {
	return int(unsafe.Sizeof(*b))
}

// Marshal serializes the GPULightBlock into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload
func (b *GPULightBlock) Marshal() []byte {
	buf := make([]byte, b.Size())
	putF := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i, l := range b.Lights {
		off := i * 32
		putF(off+0, l.Position[0])
		putF(off+4, l.Position[1])
		putF(off+8, l.Position[2])
		putF(off+12, l.Intensity)
		putF(off+16, l.Color[0])
		putF(off+20, l.Color[1])
		putF(off+24, l.Color[2])
		putF(off+28, l.LightRange)
	}
	binary.LittleEndian.PutUint32(buf[128:], b.Count)
	putF(132, b.Ambient)
	return buf
}
