// Package pool provides pooled byte buffers shared by the json and snapshot
// packages, so repeated Marshal/Encode calls don't pay a fresh allocation
// for their output buffer every time.
package pool

import (
	"io"
	"sync"
)

// Default buffer sizes for the two pools below. Snapshot payloads (whole
// value graphs) tend to run larger than single json.Marshal outputs, hence
// the separate pool with a bigger default and ceiling.
const (
	DefaultBufferSize  = 1024 * 4        // 4KiB
	DefaultMaxThreshold = 1024 * 64       // 64KiB
	LargeBufferSize    = 1024 * 256      // 256KiB
	LargeMaxThreshold  = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte slice wrapper sized for repeated reuse via
// a sync.Pool, instead of relying on bytes.Buffer's own internal growth.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can hold requiredBytes more bytes without a further
// reallocation. Small buffers grow by a fixed step; larger ones grow by a
// quarter of their current capacity, amortizing reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := DefaultBufferSize
	if cap(bb.B) > 4*DefaultBufferSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed. It implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends a single byte to the buffer, growing it as needed.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Grow(1)
	bb.B = append(bb.B, c)
	return nil
}

// WriteString appends s to the buffer, growing it as needed.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.Grow(len(s))
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// BufferPool is a pool of ByteBuffers to minimize allocations across repeated
// Marshal/Encode calls. Buffers that grew past maxThreshold are discarded
// rather than retained, so one oversized payload doesn't bloat the pool.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a new BufferPool with buffers of the specified default size.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *BufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *BufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	defaultPool = NewBufferPool(DefaultBufferSize, DefaultMaxThreshold)
	largePool   = NewBufferPool(LargeBufferSize, LargeMaxThreshold)
)

// Get retrieves a ByteBuffer from the default pool, sized for json.Marshal output.
func Get() *ByteBuffer { return defaultPool.Get() }

// Put returns a ByteBuffer to the default pool.
func Put(bb *ByteBuffer) { defaultPool.Put(bb) }

// GetLarge retrieves a ByteBuffer from the pool sized for whole-graph snapshot encoding.
func GetLarge() *ByteBuffer { return largePool.Get() }

// PutLarge returns a ByteBuffer to the large pool.
func PutLarge(bb *ByteBuffer) { largePool.Put(bb) }
