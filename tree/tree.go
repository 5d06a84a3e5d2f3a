// Package tree implements a compact, immutable, array-based document store
// with XPath-style axis navigation.
//
// A Tree holds one parsed document as four parallel columns (kind, depth and
// two generic payload words) indexed by a dense integer node number. There is
// no per-node heap object and no stored parent/child/sibling pointers: every
// structural relationship is derived from the depth column, so a million-node
// document costs a few flat arrays plus one shared character buffer.
//
// # Construction and Freeze
//
// Slots are appended in document order (pre-order) by a single writer,
// normally through Builder, which consumes start-element/attribute/namespace/
// text/end-element events. Freeze appends a terminating stopper slot whose
// depth is below the root depth, so depth-bounded forward scans always have a
// safe termination condition, and marks the tree read-only.
//
// Once frozen, a Tree and every Node and Iterator derived from it are safe
// for concurrent use by any number of readers with no locking. No operation
// blocks or performs I/O.
//
// # Node Identity
//
// A Node is a (tree pointer, node number) pair and nothing more. Two Node
// values denote the same node iff they compare equal with ==; this is the
// comparison to use for "same node" checks, because two different nodes can
// have identical names and content.
package tree

import (
	"fmt"

	"github.com/arloliu/doctree/format"
)

const initialColumnCapacity = 64

// charSpan locates one string inside the tree's shared character buffer.
type charSpan struct {
	offset uint32
	length uint32
}

// ExtraValueSpan is the exported form of one auxiliary value location, used
// by the snapshot codec. Node identifies the owning slot; Offset and Length
// locate the value in the character buffer.
type ExtraValueSpan struct {
	Node   int32
	Offset uint32
	Length uint32
}

// Tree is the node table: the single owner of all node data for one document.
//
// The table is append-only during construction and immutable after Freeze.
// Growth preserves all previously issued node numbers; a node number remains
// valid for the lifetime of the tree.
type Tree struct {
	kind     []format.Kind
	depth    []int32
	payloadA []uint32
	payloadB []uint32

	// chars is the shared character buffer. Text, comment, attribute and
	// processing-instruction content is stored as (offset, length) spans
	// into it.
	chars []byte

	// extras maps attribute and processing-instruction slots to their value
	// spans. Those kinds spend both payload words on name and type codes, so
	// the value location lives here.
	extras map[int32]charSpan

	names  *NamePool
	frozen bool
}

// New creates an empty, unfrozen tree with default column capacity.
func New() *Tree {
	return NewWithCapacity(initialColumnCapacity)
}

// NewWithCapacity creates an empty, unfrozen tree with pre-allocated column
// capacity for the expected number of nodes.
func NewWithCapacity(capacity int) *Tree {
	if capacity < 1 {
		capacity = 1
	}

	return &Tree{
		kind:     make([]format.Kind, 0, capacity),
		depth:    make([]int32, 0, capacity),
		payloadA: make([]uint32, 0, capacity),
		payloadB: make([]uint32, 0, capacity),
		extras:   make(map[int32]charSpan),
		names:    NewNamePool(),
	}
}

// AppendNode adds one slot and returns its node number.
//
// This is the construction interface consumed by the tree-builder
// collaborator; most callers should use Builder instead. Appending to a
// frozen tree is a construction contract violation and panics.
func (t *Tree) AppendNode(kind format.Kind, depth int32, payloadA, payloadB uint32) int32 {
	if t.frozen {
		panic("doctree: append to frozen tree")
	}

	t.ensureCapacity(1)
	num := int32(len(t.kind))
	t.kind = append(t.kind, kind)
	t.depth = append(t.depth, depth)
	t.payloadA = append(t.payloadA, payloadA)
	t.payloadB = append(t.payloadB, payloadB)

	return num
}

// ensureCapacity grows all four columns together by amortized doubling so
// that n more slots fit without reallocation. Node numbers are indices, so
// growth never invalidates previously issued numbers.
func (t *Tree) ensureCapacity(n int) {
	need := len(t.kind) + n
	if need <= cap(t.kind) {
		return
	}

	newCap := cap(t.kind) * 2
	if newCap < initialColumnCapacity {
		newCap = initialColumnCapacity
	}
	for newCap < need {
		newCap *= 2
	}

	kind := make([]format.Kind, len(t.kind), newCap)
	copy(kind, t.kind)
	t.kind = kind

	depth := make([]int32, len(t.depth), newCap)
	copy(depth, t.depth)
	t.depth = depth

	payloadA := make([]uint32, len(t.payloadA), newCap)
	copy(payloadA, t.payloadA)
	t.payloadA = payloadA

	payloadB := make([]uint32, len(t.payloadB), newCap)
	copy(payloadB, t.payloadB)
	t.payloadB = payloadB
}

// Freeze appends the stopper slot and marks the tree read-only.
//
// The stopper's depth (-1) is below the root depth, so every depth-bounded
// forward scan terminates on it. Freeze is idempotent; calling it on an
// already frozen tree is a no-op.
func (t *Tree) Freeze() {
	if t.frozen {
		return
	}

	t.ensureCapacity(1)
	t.kind = append(t.kind, format.KindStopper)
	t.depth = append(t.depth, -1)
	t.payloadA = append(t.payloadA, 0)
	t.payloadB = append(t.payloadB, 0)
	t.frozen = true
}

// Frozen reports whether the tree has been frozen.
func (t *Tree) Frozen() bool {
	return t.frozen
}

// NodeCount returns the number of populated slots, excluding the stopper.
func (t *Tree) NodeCount() int {
	if t.frozen {
		return len(t.kind) - 1
	}

	return len(t.kind)
}

// checkRange panics unless i is a valid node number. Reading outside
// [0, NodeCount()) is a programming-contract violation by the caller and
// fails loudly rather than returning a sentinel.
func (t *Tree) checkRange(i int) {
	if i < 0 || i >= t.NodeCount() {
		panic(fmt.Sprintf("doctree: node number %d out of range [0, %d)", i, t.NodeCount()))
	}
}

// KindAt returns the node kind at slot i. Panics if i is out of range.
func (t *Tree) KindAt(i int) format.Kind {
	t.checkRange(i)
	return t.kind[i]
}

// DepthAt returns the nesting depth at slot i. Panics if i is out of range.
func (t *Tree) DepthAt(i int) int32 {
	t.checkRange(i)
	return t.depth[i]
}

// PayloadAt returns the two generic payload words at slot i.
// Their interpretation depends on KindAt(i). Panics if i is out of range.
func (t *Tree) PayloadAt(i int) (uint32, uint32) {
	t.checkRange(i)
	return t.payloadA[i], t.payloadB[i]
}

// NodeAt returns a handle to slot i. Panics if i is out of range.
//
// Handles are lightweight and freely copyable; they hold only a back
// reference to the tree plus the node number and never own node data.
func (t *Tree) NodeAt(i int) Node {
	t.checkRange(i)
	return Node{tree: t, num: int32(i)}
}

// Root returns a handle to the document root (node number 0).
func (t *Tree) Root() Node {
	return t.NodeAt(0)
}

// Names returns the tree's name pool.
func (t *Tree) Names() *NamePool {
	return t.names
}

// CharData returns the shared character buffer. The returned slice must be
// treated as read-only.
func (t *Tree) CharData() []byte {
	return t.chars
}

// RestoreCharData installs the character buffer on a tree being rebuilt from
// a snapshot. Panics if the tree is frozen or already holds character data.
func (t *Tree) RestoreCharData(data []byte) {
	if t.frozen {
		panic("doctree: restore into frozen tree")
	}
	if len(t.chars) != 0 {
		panic("doctree: character buffer already populated")
	}
	t.chars = data
}

// RestoreExtraValue installs one auxiliary value span on a tree being
// rebuilt from a snapshot. Panics if the tree is frozen.
func (t *Tree) RestoreExtraValue(num int32, offset, length uint32) {
	if t.frozen {
		panic("doctree: restore into frozen tree")
	}
	t.extras[num] = charSpan{offset: offset, length: length}
}

// ExtraValueSpans returns all auxiliary value spans in node number order,
// for the snapshot codec.
func (t *Tree) ExtraValueSpans() []ExtraValueSpan {
	spans := make([]ExtraValueSpan, 0, len(t.extras))
	for num, span := range t.extras {
		spans = append(spans, ExtraValueSpan{Node: num, Offset: span.offset, Length: span.length})
	}

	// Insertion sort: extras are few (one per attribute/PI) and nearly
	// sorted map output is irrelevant for such small n.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Node < spans[j-1].Node; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	return spans
}

// addChars appends s to the shared character buffer and returns its span.
func (t *Tree) addChars(s string) charSpan {
	offset := uint32(len(t.chars)) //nolint:gosec
	t.chars = append(t.chars, s...)

	return charSpan{offset: offset, length: uint32(len(s))} //nolint:gosec
}

// charString materializes the string at the given span.
func (t *Tree) charString(offset, length uint32) string {
	return string(t.chars[offset : offset+length])
}

// charBytes returns the raw bytes at the given span without copying.
func (t *Tree) charBytes(offset, length uint32) []byte {
	return t.chars[offset : offset+length]
}
