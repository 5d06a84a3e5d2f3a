package codec

// Snapshot layout constants.
//
// A snapshot is a fixed 32-byte header followed by one payload section. The
// payload serializes the tree columns (depth, kind, payloadA, payloadB), the
// character buffer, the name pool and the auxiliary value spans, in that
// order, and is compressed as a single unit.
const (
	// Bit masks for the flag word (bytes 0-1 of the header)
	EndiannessMask   = 0x0001 // endianness bit (0 = little, 1 = big)
	ReservedBitsMask = 0x000E // reserved bits (must be zero)
	MagicNumberMask  = 0xFFF0 // magic number (bits 4-15)

	// MagicSnapshotV1 is the version 1 magic number for tree snapshots.
	MagicSnapshotV1 = 0xD710

	// HeaderSize is the fixed header size in bytes.
	HeaderSize = 32

	// Header field offsets
	flagOffset        = 0  // uint16: flags + magic
	compressionOffset = 2  // uint8: compression type
	nodeCountOffset   = 4  // uint32: populated slots, excluding the stopper
	nameCountOffset   = 8  // uint32: distinct names in the pool
	charLenOffset     = 12 // uint32: character buffer length
	extraCountOffset  = 16 // uint32: auxiliary value spans
	payloadLenOffset  = 20 // uint32: compressed payload length
	checksumOffset    = 24 // uint64: xxHash64 of the compressed payload
)
