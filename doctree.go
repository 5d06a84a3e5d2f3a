// Package doctree provides a compact, immutable, array-based store for XML
// (and XML-like) documents with XPath-style axis navigation.
//
// A parsed document is held as a set of parallel columns (kind, depth, two
// payload words) indexed by a dense integer node number, instead of a graph
// of per-node heap objects. Navigation axes (children, descendants,
// ancestors, siblings, ...) are derived entirely from the depth column, so a
// million-node document is a handful of flat arrays with O(1) random access
// and stable integer node identities usable as map keys.
//
// # Core Features
//
//   - Columnar arena storage: no per-node objects, no stored pointers
//   - O(1) node access and O(depth) parent lookup from the depth column
//   - Run-length packing of whitespace-only text into 64-bit codes
//   - Name pool with xxHash64-fingerprinted deduplication
//   - Freeze discipline: immutable after construction, lock-free shared reads
//   - Restartable axis cursors with caller-supplied node tests
//   - Optional binary snapshots with compression (Zstd, S2, LZ4) and checksums
//
// # Basic Usage
//
// Building a document and walking it:
//
//	b, _ := doctree.NewBuilder()
//	_ = b.StartElement("", "a")
//	_ = b.StartElement("", "b")
//	_ = b.Text("x")
//	_ = b.EndElement()
//	_ = b.Text("text")
//	_ = b.EndElement()
//	t, _ := b.Build()
//
//	root := t.Root()
//	for n := range root.Descendants(nil).All() {
//	    fmt.Println(n.Kind(), n.StringValue())
//	}
//
// Persisting and restoring:
//
//	data, _ := doctree.Marshal(t, codec.WithCompression(format.CompressionS2))
//	restored, _ := doctree.Unmarshal(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the tree and
// codec packages, simplifying the most common use cases. For fine-grained
// control (axis selection, node tests, low-level table construction), use
// the tree package directly.
package doctree

import (
	"github.com/arloliu/doctree/codec"
	"github.com/arloliu/doctree/tree"
)

// NewBuilder creates a document builder with custom options.
//
// Available options:
//   - tree.WithInitialCapacity(n)
//   - tree.WithWhitespacePacking(true|false)
//
// Returns an error if the configuration is invalid.
func NewBuilder(opts ...tree.BuilderOption) (*tree.Builder, error) {
	return tree.NewBuilder(opts...)
}

// Marshal serializes a frozen tree into a binary snapshot.
//
// Available options:
//   - codec.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - codec.WithLittleEndian() / codec.WithBigEndian() / codec.WithNativeEndian()
func Marshal(t *tree.Tree, opts ...codec.Option) ([]byte, error) {
	return codec.Marshal(t, opts...)
}

// Unmarshal rebuilds a frozen tree from snapshot data produced by Marshal.
func Unmarshal(data []byte) (*tree.Tree, error) {
	return codec.Unmarshal(data)
}
