package codec

import (
	"github.com/arloliu/doctree/compress"
	"github.com/arloliu/doctree/endian"
	"github.com/arloliu/doctree/format"
	"github.com/arloliu/doctree/internal/options"
)

// config holds the marshalling configuration. Unmarshal reads its
// configuration from the snapshot header instead.
type config struct {
	engine      endian.EndianEngine
	compression format.CompressionType
}

func newConfig() *config {
	return &config{
		engine:      endian.GetLittleEndianEngine(),
		compression: format.CompressionZstd,
	}
}

// Option configures Marshal.
type Option = options.Option[*config]

// WithLittleEndian encodes snapshot integers in little-endian byte order.
// This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian encodes snapshot integers in big-endian byte order, for
// interoperability with big-endian consumers.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithNativeEndian encodes snapshot integers in the host's native byte
// order. Snapshots stay self-describing either way; this only avoids byte
// swapping when the snapshot is produced and consumed on the same
// architecture.
func WithNativeEndian() Option {
	return options.NoError(func(c *config) {
		if endian.IsNativeBigEndian() {
			c.engine = endian.GetBigEndianEngine()
		} else {
			c.engine = endian.GetLittleEndianEngine()
		}
	})
}

// WithCompression selects the payload compression algorithm.
// The default is Zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.CreateCodec(compression, "snapshot"); err != nil {
			return err
		}
		c.compression = compression

		return nil
	})
}
