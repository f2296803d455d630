package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithEntryPoints sets the vertex and fragment entry point names. Empty names keep the defaults.
//
// Parameters:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
//
// Returns:
//   - PipelineBuilderOption: a function that sets the entry points for this pipeline
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		if vertex != "" {
			p.vertexEntry = vertex
		}
		if fragment != "" {
			p.fragmentEntry = fragment
		}
	}
}

// WithVertexLayout sets the stride and attributes of the single vertex buffer.
//
// Parameters:
//   - stride: the byte stride between vertices
//   - attributes: the vertex attributes
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(stride uint64, attributes ...wgpu.VertexAttribute) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexStride = stride
		p.vertexAttributes = attributes
	}
}

// WithDepth sets depth testing and depth writing. Translucent tubes usually test without writing
// so rings behind them still show.
//
// Parameters:
//   - test: compare fragments against the depth buffer
//   - write: store fragment depth
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth state for this pipeline
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = test
		p.depthWriteEnabled = write
	}
}

// WithBlend sets the blend mode of the color target.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend mode for this pipeline
func WithBlend(mode BlendMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendMode = mode
	}
}

// WithCullMode sets the face culling mode. Tube surfaces are seen from inside, so the default is none.
//
// Parameters:
//   - mode: the cull mode to use
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
//
// Parameters:
//   - topology: the primitive topology to use
//
// Returns:
//   - PipelineBuilderOption: a function that sets the topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}
