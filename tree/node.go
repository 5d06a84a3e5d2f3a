package tree

import (
	"github.com/arloliu/doctree/format"
	"github.com/arloliu/doctree/internal/pool"
	"github.com/arloliu/doctree/whitespace"
)

// Node is a lightweight, copyable handle to one slot of a Tree.
//
// A Node holds only a back reference to the owning tree plus the node
// number; it never owns node data. Any number of handles may coexist and be
// freely copied or discarded without affecting the tree's lifetime.
//
// Identity is the (tree, node number) pair: two Node values denote the same
// node iff they compare equal with ==. Use that comparison (or IsSameNode)
// for "same node" checks, never structural or value equality.
//
// The zero Node is invalid; it is returned alongside ok=false by operations
// that may not find a node.
type Node struct {
	tree *Tree
	num  int32
}

// Tree returns the owning tree.
func (n Node) Tree() *Tree {
	return n.tree
}

// NodeNumber returns the dense integer identity of the node within its tree.
// Node numbers are stable for the lifetime of the tree and are usable as
// comparison and hash keys.
func (n Node) NodeNumber() int {
	return int(n.num)
}

// IsSameNode reports whether n and other denote the same node: the same
// tree and the same node number. Equivalent to n == other.
func (n Node) IsSameNode(other Node) bool {
	return n == other
}

// Kind returns the node variant.
func (n Node) Kind() format.Kind {
	return n.tree.kind[n.num]
}

// Depth returns the nesting depth relative to the document root (root = 0).
func (n Node) Depth() int32 {
	return n.tree.depth[n.num]
}

// HasChildren reports whether the node has at least one child: true iff the
// immediately following slot is nested one level deeper.
func (n Node) HasChildren() bool {
	t := n.tree
	next := int(n.num) + 1
	if next >= len(t.depth) {
		return false
	}

	return t.depth[next] > t.depth[n.num]
}

// NameCode returns the name pool code of an element, attribute, namespace or
// processing-instruction node, or -1 for kinds that carry no name.
func (n Node) NameCode() int32 {
	switch n.Kind() {
	case format.KindElement, format.KindAttribute, format.KindNamespace, format.KindProcessingInstruction:
		return int32(n.tree.payloadA[n.num]) //nolint:gosec
	default:
		return -1
	}
}

// LocalName returns the local part of the node's name: the element or
// attribute local name, the namespace prefix, or the processing-instruction
// target. Returns the empty string for unnamed kinds.
func (n Node) LocalName() string {
	code := n.NameCode()
	if code < 0 {
		return ""
	}

	return n.tree.names.LocalName(code)
}

// NamespaceURI returns the namespace URI part of the node's name, or the
// empty string for unnamed kinds and names in no namespace.
func (n Node) NamespaceURI() string {
	code := n.NameCode()
	if code < 0 {
		return ""
	}

	return n.tree.names.URI(code)
}

// TypeAnnotation returns the opaque type-annotation tag of an element or
// attribute node, or 0 for other kinds. Annotations are stored and passed
// through untouched; this package does not interpret them.
func (n Node) TypeAnnotation() uint32 {
	switch n.Kind() {
	case format.KindElement, format.KindAttribute:
		return n.tree.payloadB[n.num]
	default:
		return 0
	}
}

// Parent returns the node's parent: the nearest preceding slot with a
// smaller depth. Returns ok=false on the document root.
func (n Node) Parent() (Node, bool) {
	t := n.tree
	level := t.depth[n.num]
	for i := n.num - 1; i >= 0; i-- {
		if t.depth[i] < level {
			return Node{tree: t, num: i}, true
		}
	}

	return Node{}, false
}

// StringValue returns the node's string value per the XPath data model.
//
// For document and element nodes this is the concatenation, in document
// order, of the string values of all descendant text and whitespace-text
// nodes with no separators. For text, comment and whitespace-text nodes it
// is the node's own content; for attribute and processing-instruction nodes
// the attribute value or instruction data; for namespace nodes the declared
// URI.
func (n Node) StringValue() string {
	t := n.tree
	switch t.kind[n.num] {
	case format.KindDocument, format.KindElement:
		return n.parentStringValue()
	case format.KindText, format.KindComment:
		return t.charString(t.payloadA[n.num], t.payloadB[n.num])
	case format.KindWhitespaceText:
		return whitespace.FromHalves(t.payloadA[n.num], t.payloadB[n.num]).String()
	case format.KindAttribute, format.KindProcessingInstruction:
		if span, ok := t.extras[n.num]; ok {
			return t.charString(span.offset, span.length)
		}
		return ""
	case format.KindNamespace:
		return t.names.URI(int32(t.payloadA[n.num])) //nolint:gosec
	default:
		return ""
	}
}

// parentStringValue concatenates descendant text content. This routine sits
// on hot evaluation paths, and elements are overwhelmingly either childless
// or have a single text child, so both cases short-circuit before any buffer
// is touched:
//
//  1. No children: the next slot is not nested deeper - empty string, O(1).
//  2. Sole text child: one text slot followed by the end of the subtree -
//     that node's value is returned directly with no accumulation buffer.
//  3. General case: forward scan of the subtree, appending text values and
//     decoding whitespace runs straight into a pooled buffer (no
//     intermediate string per whitespace child).
func (n Node) parentStringValue() string {
	t := n.tree
	level := t.depth[n.num]
	next := int(n.num) + 1

	if next >= len(t.depth) || t.depth[next] <= level {
		return ""
	}

	if after := next + 1; after >= len(t.depth) || t.depth[after] <= level {
		switch t.kind[next] {
		case format.KindText:
			return t.charString(t.payloadA[next], t.payloadB[next])
		case format.KindWhitespaceText:
			return whitespace.FromHalves(t.payloadA[next], t.payloadB[next]).String()
		}
	}

	buf := pool.GetStringBuffer()
	defer pool.PutStringBuffer(buf)

	for i := next; i < len(t.depth) && t.depth[i] > level; i++ {
		switch t.kind[i] {
		case format.KindText:
			buf.MustWrite(t.charBytes(t.payloadA[i], t.payloadB[i]))
		case format.KindWhitespaceText:
			buf.B = whitespace.FromHalves(t.payloadA[i], t.payloadB[i]).AppendTo(buf.B)
		}
	}

	if buf.Len() == 0 {
		return ""
	}

	return string(buf.Bytes())
}
