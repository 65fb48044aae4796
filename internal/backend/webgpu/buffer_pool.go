//go:build windows

package webgpu

import (
	"math/bits"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

const (
	// minBufferClass is the smallest pooled allocation (256 bytes).
	minBufferClass = 8
	// maxPerClass caps idle buffers kept per (usage, size class).
	maxPerClass = 16
)

// poolKey identifies interchangeable buffers.
type poolKey struct {
	usage wgpu.BufferUsage
	class int
}

// BufferPool recycles result and staging buffers between dispatches.
//
// Requests are rounded up to a power-of-two size class, so any idle buffer
// of the same usage and class can serve them. A solver step issues the same
// handful of buffer sizes over and over, so the pool settles after the
// first step.
type BufferPool struct {
	device *wgpu.Device
	idle   map[poolKey][]*wgpu.Buffer
	mu     sync.Mutex

	// Statistics
	totalAllocated uint64
	totalReleased  uint64
	poolHits       uint64
	poolMisses     uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		idle:   make(map[poolKey][]*wgpu.Buffer),
	}
}

// sizeClass returns the power-of-two class that holds size bytes.
func sizeClass(size uint64) int {
	if size <= 1<<minBufferClass {
		return minBufferClass
	}
	return bits.Len64(size - 1)
}

// Acquire returns a buffer of at least size bytes with the given usage.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	key := poolKey{usage: usage, class: sizeClass(size)}

	p.mu.Lock()
	defer p.mu.Unlock()

	if list := p.idle[key]; len(list) > 0 {
		buffer := list[len(list)-1]
		p.idle[key] = list[:len(list)-1]
		p.poolHits++
		return buffer
	}

	p.poolMisses++
	p.totalAllocated++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  1 << key.class,
	})
}

// Release returns a buffer acquired for size bytes to the pool.
// If the class is full, the buffer is released immediately.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	key := poolKey{usage: usage, class: sizeClass(size)}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalReleased++
	if len(p.idle[key]) >= maxPerClass {
		buffer.Release()
		return
	}
	p.idle[key] = append(p.idle[key], buffer)
}

// Clear releases all pooled buffers.
// Should be called when the backend is released.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, list := range p.idle {
		for _, buffer := range list {
			buffer.Release()
		}
		delete(p.idle, key)
	}
}

// Stats returns statistics about buffer pool usage.
func (p *BufferPool) Stats() (allocated, released, hits, misses uint64, pooledCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, list := range p.idle {
		pooledCount += len(list)
	}
	return p.totalAllocated, p.totalReleased, p.poolHits, p.poolMisses, pooledCount
}
