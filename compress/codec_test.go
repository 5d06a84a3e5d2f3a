package compress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/doctree/format"
)

// samplePayload mimics a snapshot payload: long uniform column runs followed
// by name and character data.
func samplePayload() []byte {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x02}, 256))
	buf.WriteString(strings.Repeat("urn:example/catalog\x00item\x00", 32))

	return buf.Bytes()
}

// ==============================================================================
// Codec Factory Tests
// ==============================================================================

func TestGetCodec(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	for _, typ := range types {
		codec, err := GetCodec(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0x99))
	require.Error(t, err)
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(format.CompressionLZ4, "snapshot")
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = CreateCodec(format.CompressionType(0x99), "snapshot")
	require.Error(t, err)
	require.Contains(t, err.Error(), "snapshot")
}

// ==============================================================================
// Round-Trip Tests
// ==============================================================================

func TestCodecs_RoundTrip(t *testing.T) {
	payload := samplePayload()

	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestNoOp_SharesMemory(t *testing.T) {
	codec := NewNoOpCompressor()
	payload := samplePayload()

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.True(t, &payload[0] == &compressed[0], "no-op must pass the slice through unchanged")
}

// ==============================================================================
// LZ4 Tests
// ==============================================================================

func TestLZ4_AdaptiveDecompressBuffer(t *testing.T) {
	// A megabyte of zeros compresses to a few kilobytes, so the initial
	// 4x-compressed-size guess is far too small and the decompressor has to
	// double its buffer several times before the block fits.
	codec := NewLZ4Compressor()
	payload := make([]byte, 1<<20)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Less(t, len(compressed)*4, len(payload))

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}

func TestLZ4_EmptyInput(t *testing.T) {
	codec := NewLZ4Compressor()

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)
	require.Nil(t, compressed)

	decompressed, err := codec.Decompress(nil)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}

// ==============================================================================
// Corruption Tests
// ==============================================================================

func TestZstd_RejectsGarbage(t *testing.T) {
	codec := NewZstdCompressor()

	_, err := codec.Decompress([]byte("definitely not a zstd frame"))
	require.Error(t, err)
}

func TestS2_RejectsGarbage(t *testing.T) {
	codec := NewS2Compressor()

	_, err := codec.Decompress([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	require.Error(t, err)
}
