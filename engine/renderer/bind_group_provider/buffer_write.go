package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite is one upload into the uniform buffer at Binding of Provider.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Skip reports whether the write has no target buffer or no data.
//
// Returns:
//   - bool: true when the write should be dropped
func (w BufferWrite) Skip() bool {
	return w.Provider == nil || len(w.Data) == 0 || w.Provider.Buffer(w.Binding) == nil
}

// WriteAll stages the writes on the queue in order, dropping the ones Skip rejects.
//
// Parameters:
//   - queue: the device queue
//   - writes: the writes to stage
//
// Returns:
//   - int: the number of writes staged
func WriteAll(queue *wgpu.Queue, writes []BufferWrite) int {
	n := 0
	for _, w := range writes {
		if w.Skip() {
			continue
		}
		queue.WriteBuffer(w.Provider.Buffer(w.Binding), w.Offset, w.Data)
		n++
	}
	return n
}
