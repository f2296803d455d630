package bind_group_provider

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup is the GPU bind group created for this provider, or nil before the backend initialized it.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the layout the bind group and the pipeline layout were created from.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the uniform buffers, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	// indexCount is the number of indices passed to DrawIndexed.
	indexCount int
}

// BindGroupProvider owns the GPU resources one draw needs: the uniform buffers and their bind group,
// plus the vertex and index buffers of the mesh. The WebGPU backend fills it during Upload and reads
// it on every Draw.
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider. The provider can be refilled afterwards.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, nil before initialization.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, nil before initialization.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform buffer at the given binding, nil when absent.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Bindings returns the binding indices that hold a buffer, in ascending order.
	//
	// Returns:
	//   - []int: the sorted binding indices
	Bindings() []int

	// VertexBuffer returns the mesh vertex buffer.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices to draw.
	IndexCount() int

	// Ready reports whether the provider holds everything a draw call needs.
	//
	// Returns:
	//   - bool: true when the bind group and both mesh buffers exist and there is something to draw
	Ready() bool

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty BindGroupProvider. The backend fills it as it creates resources.
//
// Parameters:
//   - label: the debug label used for every GPU resource created for the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string) BindGroupProvider {
	return &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Bindings() []int {
	out := make([]int, 0, len(p.buffers))
	for k, buf := range p.buffers {
		if buf != nil {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Ready() bool {
	return p.bindGroup != nil && p.vertexBuffer != nil && p.indexBuffer != nil && p.indexCount > 0
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
