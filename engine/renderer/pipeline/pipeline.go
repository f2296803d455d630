package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state used to create the underlying WebGPU render pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// source is the complete WGSL module holding both entry points
	source                     string
	vertexEntry, fragmentEntry string
	vertexStride               uint64
	vertexAttributes           []wgpu.VertexAttribute
	renderPipeline             *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendMode         BlendMode
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
}

// BlendMode selects how fragments combine with the color target.
type BlendMode int

const (
	// BlendOpaque overwrites the target.
	BlendOpaque BlendMode = iota
	// BlendAlpha mixes by source alpha, for translucent point and line tubes.
	BlendAlpha
	// BlendAdditive adds the weighted source, so overlapping rings glow.
	BlendAdditive
)

func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	}
	return "opaque"
}

// state returns the WebGPU blend state of the mode, nil for BlendOpaque.
func (m BlendMode) state() *wgpu.BlendState {
	alpha := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	switch m {
	case BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: alpha,
		}
	case BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: alpha,
		}
	}
	return nil
}

// Pipeline describes a WebGPU render pipeline: its WGSL module, vertex layout and fixed-function state.
// The description is immutable after NewPipeline. Build creates the GPU object once.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Source returns the WGSL source of the pipeline's shader module.
	Source() string

	// EntryPoints returns the vertex and fragment entry point names.
	//
	// Returns:
	//   - string: the vertex entry point
	//   - string: the fragment entry point
	EntryPoints() (string, string)

	// VertexLayout returns the layout of the single vertex buffer.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the vertex buffer layout
	VertexLayout() wgpu.VertexBufferLayout

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// Blend returns the blend mode of the color target.
	Blend() BlendMode

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// Build compiles the shader module and creates the render pipeline. Later calls return the same object.
	//
	// Parameters:
	//   - device: the device to create the pipeline on
	//   - layout: the pipeline layout holding the bind group layouts
	//   - format: the color target format
	//   - sampleCount: the multisample count of the color target
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	//   - error: an error if the shader or pipeline could not be created
	Build(device *wgpu.Device, layout *wgpu.PipelineLayout, format wgpu.TextureFormat, sampleCount uint32) (*wgpu.RenderPipeline, error)

	// RenderPipeline returns the pipeline created by Build, nil before.
	RenderPipeline() *wgpu.RenderPipeline

	// Release frees the GPU pipeline. The description can be built again afterwards.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new render Pipeline description.
// Defaults: depth test and write on, opaque, no culling, triangle list, counter-clockwise
// front faces and entry points "vs_main" and "fs_main".
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - source: the WGSL module source
//   - opts: variadic list of PipelineBuilderOption functions to configure the Pipeline
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(pipelineKey, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendMode:         BlendOpaque,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) EntryPoints() (string, string) {
	return p.vertexEntry, p.fragmentEntry
}

func (p *pipeline) VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: p.vertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  p.vertexAttributes,
	}
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) Blend() BlendMode {
	return p.blendMode
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Build(device *wgpu.Device, layout *wgpu.PipelineLayout, format wgpu.TextureFormat, sampleCount uint32) (*wgpu.RenderPipeline, error) {
	if p.renderPipeline != nil {
		return p.renderPipeline, nil
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          p.pipelineKey + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: p.source},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: shader module: %w", p.pipelineKey, err)
	}
	defer module.Release()

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
		Blend:     p.blendMode.state(),
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{p.VertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	desc.DepthStencil = &wgpu.DepthStencilState{
		Format:            wgpu.TextureFormatDepth24Plus,
		DepthWriteEnabled: p.depthWriteEnabled,
		DepthCompare:      depthCompare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}

	rp, err := device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	p.renderPipeline = rp
	return rp, nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
