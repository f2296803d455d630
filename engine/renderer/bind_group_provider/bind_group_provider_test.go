package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestProviderStartsEmpty(t *testing.T) {
	p := NewBindGroupProvider("tube")
	p.SetIndexCount(12)
	assert.Equal(t, "tube", p.Label())
	assert.Equal(t, 12, p.IndexCount())
	assert.Empty(t, p.Bindings())
	assert.False(t, p.Ready(), "no bind group or buffers yet")
	assert.Nil(t, p.Buffer(0))
}

func TestBindingsSorted(t *testing.T) {
	// Zero-value handles stand in for real buffers; they are never released here.
	p := NewBindGroupProvider("tube")
	p.SetBuffer(2, &wgpu.Buffer{})
	p.SetBuffer(0, &wgpu.Buffer{})
	p.SetBuffer(1, nil)
	assert.Equal(t, []int{0, 2}, p.Bindings())
}

func TestBufferWriteSkip(t *testing.T) {
	p := NewBindGroupProvider("tube")
	p.SetBuffer(0, &wgpu.Buffer{})
	assert.True(t, BufferWrite{}.Skip())
	assert.True(t, BufferWrite{Provider: p, Binding: 0}.Skip(), "no data")
	assert.True(t, BufferWrite{Provider: p, Binding: 1, Data: []byte{1}}.Skip(), "no buffer")
	assert.False(t, BufferWrite{Provider: p, Binding: 0, Data: []byte{1}}.Skip())
}

func TestWriteAllSkipsEverythingWithoutTargets(t *testing.T) {
	p := NewBindGroupProvider("tube")
	// No write has a buffer, so the nil queue is never touched.
	n := WriteAll(nil, []BufferWrite{
		{Provider: p, Binding: 0, Data: []byte{1}},
		{Provider: nil, Data: []byte{1}},
	})
	assert.Equal(t, 0, n)
}
