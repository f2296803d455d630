package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := NewPipeline("tube", "// wgsl")
	vs, fs := p.EntryPoints()
	assert.Equal(t, "tube", p.PipelineKey())
	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, "vs_main", vs)
	assert.Equal(t, "fs_main", fs)
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, BlendOpaque, p.Blend())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Nil(t, p.RenderPipeline())
}

func TestPipelineOptions(t *testing.T) {
	attrs := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
	}
	p := NewPipeline("lines", "",
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithVertexLayout(28, attrs...),
		WithEntryPoints("vert", ""),
		WithBlend(BlendAdditive),
		WithDepth(true, false),
		WithCullMode(wgpu.CullModeBack),
	)
	layout := p.VertexLayout()
	assert.Equal(t, uint64(28), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	assert.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, BlendAdditive, p.Blend())
	assert.True(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	vs, fs := p.EntryPoints()
	assert.Equal(t, "vert", vs)
	assert.Equal(t, "fs_main", fs, "empty entry points keep the default")

	p.Release()
	assert.Nil(t, p.RenderPipeline())
}

func TestBlendStates(t *testing.T) {
	assert.Nil(t, BlendOpaque.state())
	alpha := BlendAlpha.state()
	if assert.NotNil(t, alpha) {
		assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, alpha.Color.DstFactor)
	}
	additive := BlendAdditive.state()
	if assert.NotNil(t, additive) {
		assert.Equal(t, wgpu.BlendFactorOne, additive.Color.DstFactor)
	}
	assert.Equal(t, "additive", BlendAdditive.String())
	assert.Equal(t, "opaque", BlendMode(42).String())
}
