// Package pool provides pooled byte buffers for transient accumulation work:
// parent-node string value concatenation and snapshot assembly.
package pool

import "sync"

const (
	// StringBufferDefaultSize is the default capacity of buffers used to
	// accumulate parent-node string values. Most mixed-content elements
	// concatenate well under 1KiB of text.
	StringBufferDefaultSize  = 1024
	StringBufferMaxThreshold = 1024 * 64 // 64KiB

	// SnapshotBufferDefaultSize is the default capacity of buffers used to
	// assemble snapshot payloads (all columns of one tree).
	SnapshotBufferDefaultSize  = 1024 * 64       // 64KiB
	SnapshotBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

type ByteBuffer struct {
	// B is the underlying byte slice.
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

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
//
// Small buffers grow by StringBufferDefaultSize to minimize reallocations;
// larger buffers grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	growBy := StringBufferDefaultSize
	if cap(bb.B) > 4*StringBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers. The pool can be
// configured with a maximum size threshold to avoid retaining overly large
// buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // Optional maximum size threshold for buffers
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && bb.Cap() > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	stringDefaultPool   = NewByteBufferPool(StringBufferDefaultSize, StringBufferMaxThreshold)
	snapshotDefaultPool = NewByteBufferPool(SnapshotBufferDefaultSize, SnapshotBufferMaxThreshold)
)

// GetStringBuffer retrieves a ByteBuffer from the default string value pool.
func GetStringBuffer() *ByteBuffer {
	return stringDefaultPool.Get()
}

// PutStringBuffer returns a ByteBuffer to the default string value pool.
func PutStringBuffer(bb *ByteBuffer) {
	stringDefaultPool.Put(bb)
}

// GetSnapshotBuffer retrieves a ByteBuffer from the default snapshot pool.
func GetSnapshotBuffer() *ByteBuffer {
	return snapshotDefaultPool.Get()
}

// PutSnapshotBuffer returns a ByteBuffer to the default snapshot pool.
func PutSnapshotBuffer(bb *ByteBuffer) {
	snapshotDefaultPool.Put(bb)
}
