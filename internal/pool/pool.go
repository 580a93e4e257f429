// Package pool provides a fixed-size buffer pool for received frames. The
// admission core never allocates; the capture front-end draws buffers here
// and returns them once a verdict is reached.
package pool

import (
	"sync"

	"firestige.xyz/strix/internal/core"
)

// DefaultBufferSize fits a standard Ethernet frame with headroom.
const DefaultBufferSize = 2048

// BufferPool hands out NetworkBuffers with pooled backing storage of a
// fixed size.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool of buffers with the given backing size.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = DefaultBufferSize
	}
	p := &BufferPool{size: size}
	p.pool.New = func() any {
		return &core.NetworkBuffer{Data: make([]byte, size)}
	}
	return p
}

// BufferSize returns the backing storage size of pooled buffers.
func (p *BufferPool) BufferSize() int { return p.size }

// Get returns an empty buffer with DataLength zero.
func (p *BufferPool) Get() *core.NetworkBuffer {
	return p.pool.Get().(*core.NetworkBuffer)
}

// Put returns a buffer to the pool. Buffers whose backing storage was
// swapped or shrunk are dropped rather than pooled.
func (p *BufferPool) Put(buf *core.NetworkBuffer) {
	if buf == nil || cap(buf.Data) < p.size {
		return
	}
	buf.Data = buf.Data[:p.size]
	buf.Reset()
	p.pool.Put(buf)
}
