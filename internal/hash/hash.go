// Package hash provides the xxHash64 fingerprints used for name pool
// deduplication and snapshot checksums.
package hash

import "github.com/cespare/xxhash/v2"

// Name computes the xxHash64 fingerprint of a (namespace URI, local name)
// pair without allocating a composite key string. A NUL separator keeps
// ("ab", "c") and ("a", "bc") distinct; NUL cannot occur inside an XML name.
func Name(uri, local string) uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.WriteString(uri)
	_, _ = d.Write(nameSep)
	_, _ = d.WriteString(local)

	return d.Sum64()
}

var nameSep = []byte{0}

// Sum64 computes the xxHash64 checksum of the given bytes.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}
