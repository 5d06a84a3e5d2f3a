package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ==============================================================================
// ByteBuffer Tests
// ==============================================================================

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(StringBufferDefaultSize)

	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
	require.Equal(t, StringBufferDefaultSize, bb.Cap())
}

func TestByteBuffer_BytesSharesBacking(t *testing.T) {
	bb := NewByteBuffer(StringBufferDefaultSize)
	bb.MustWrite([]byte("hello"))

	got := bb.Bytes()
	require.Equal(t, []byte("hello"), got)
	require.True(t, &bb.B[0] == &got[0], "Bytes must return the underlying slice")
}

func TestByteBuffer_ResetPreservesCapacity(t *testing.T) {
	bb := NewByteBuffer(StringBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, originalCap, bb.Cap())
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("longer than the initial capacity"))

	require.Equal(t, []byte("longer than the initial capacity"), bb.Bytes())
	require.Equal(t, 32, bb.Len())
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abcd"))

	// Growing within capacity is a no-op.
	capBefore := bb.Cap()
	bb.Grow(2)
	require.Equal(t, capBefore, bb.Cap())
	require.Equal(t, 4, bb.Len())

	// Growing past capacity keeps the contents and guarantees the requested
	// headroom; small buffers grow by at least the default chunk.
	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.GreaterOrEqual(t, bb.Cap(), StringBufferDefaultSize)
	require.Equal(t, []byte("abcd"), bb.Bytes())

	// Large full buffers grow by a quarter of their capacity at minimum.
	big := NewByteBuffer(8 * StringBufferDefaultSize)
	big.B = big.B[:big.Cap()]
	big.Grow(100)
	require.GreaterOrEqual(t, big.Cap(), 10*StringBufferDefaultSize)
}

// ==============================================================================
// Pool Tests
// ==============================================================================

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(64, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())

	bb.MustWrite([]byte("payload"))
	p.Put(bb)

	// A buffer fetched after Put is always empty, whether or not it was
	// recycled.
	again := p.Get()
	require.Zero(t, again.Len())

	// Nil and over-threshold buffers are both absorbed without effect.
	p.Put(nil)
	huge := NewByteBuffer(4096)
	p.Put(huge)
}

func TestDefaultPools(t *testing.T) {
	sb := GetStringBuffer()
	require.NotNil(t, sb)
	require.Zero(t, sb.Len())
	sb.MustWrite([]byte("value"))
	PutStringBuffer(sb)

	snap := GetSnapshotBuffer()
	require.NotNil(t, snap)
	require.Zero(t, snap.Len())
	snap.Grow(1024)
	PutSnapshotBuffer(snap)
}
