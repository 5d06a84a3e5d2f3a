package compress

// ZstdCompressor provides Zstandard compression for snapshot payloads.
//
// Zstd gives the best ratio of the supported algorithms and is the right
// choice when snapshots are written once and read rarely (archival document
// stores, cold caches). Two implementations are provided behind build tags:
// a cgo binding (valyala/gozstd) when cgo is available, and a pure-Go
// fallback (klauspost/compress/zstd) otherwise.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
