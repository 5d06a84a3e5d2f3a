package tree

import (
	"iter"

	"github.com/arloliu/doctree/format"
)

// Axis identifies one of the tree-navigation directions. All axes are
// defined purely in terms of depth-column comparisons relative to the start
// node; none of them follow stored pointers.
type Axis uint8

const (
	AxisChild            Axis = iota // children, document order
	AxisDescendant                   // proper descendants, document order
	AxisDescendantOrSelf             // self then proper descendants
	AxisAttribute                    // attribute nodes of an element
	AxisNamespace                    // namespace nodes of an element
	AxisParent                       // at most one node
	AxisAncestor                     // proper ancestors, nearest-first
	AxisAncestorOrSelf               // self then proper ancestors, nearest-first
	AxisFollowingSibling             // following siblings, document order
	AxisPrecedingSibling             // preceding siblings, nearest-first
	AxisFollowing                    // nodes after the subtree, document order
	AxisPreceding                    // nodes before the start node excluding ancestors, nearest-first
	AxisSelf                         // the start node itself
)

func (a Axis) String() string {
	switch a {
	case AxisChild:
		return "child"
	case AxisDescendant:
		return "descendant"
	case AxisDescendantOrSelf:
		return "descendant-or-self"
	case AxisAttribute:
		return "attribute"
	case AxisNamespace:
		return "namespace"
	case AxisParent:
		return "parent"
	case AxisAncestor:
		return "ancestor"
	case AxisAncestorOrSelf:
		return "ancestor-or-self"
	case AxisFollowingSibling:
		return "following-sibling"
	case AxisPrecedingSibling:
		return "preceding-sibling"
	case AxisFollowing:
		return "following"
	case AxisPreceding:
		return "preceding"
	case AxisSelf:
		return "self"
	default:
		return "unknown"
	}
}

// NodeTest is a caller-supplied filter over nodes used to restrict axis
// enumeration. It must be a pure, side-effect-free function. A nil NodeTest
// matches every node.
type NodeTest func(Node) bool

// Iterator enumerates the nodes of one axis from a fixed start node,
// restricted to nodes satisfying the node test.
//
// An Iterator is a forward-only cursor: Next yields nodes one at a time and
// reports ok=false exactly once the axis is exhausted, after which every
// subsequent call keeps returning ok=false. There is no rewind; to scan the
// same axis again, request a fresh cursor with Another.
//
// Iterators are cheap and hold no external resources; abandoning one is
// simply dropping the reference. A single Iterator must not be shared
// between goroutines, but any number of iterators over the same frozen tree
// may run concurrently.
type Iterator struct {
	tree       *Tree
	axis       Axis
	start      int32
	startDepth int32
	test       NodeTest

	position    int   // number of nodes yielded; -1 once exhausted
	candidate   int32 // current scan index
	selfPending bool  // self phase of the *-or-self and self axes not yet run
	pastSubtree bool  // following axis: scan has cleared the start subtree
	wanted      int32 // ancestor axes: depth of the next ancestor to yield
	guard       int32 // preceding axis: depth of the nearest known ancestor
	overrun     bool  // scan hit the physical end of the table (missing stopper)
}

func newIterator(t *Tree, start int32, axis Axis, test NodeTest) *Iterator {
	it := &Iterator{
		tree:       t,
		axis:       axis,
		start:      start,
		startDepth: t.depth[start],
		test:       test,
		candidate:  start,
	}

	switch axis {
	case AxisSelf, AxisDescendantOrSelf, AxisAncestorOrSelf:
		it.selfPending = true
	case AxisAncestor, AxisParent:
		it.wanted = it.startDepth - 1
	case AxisPreceding:
		it.guard = it.startDepth
	}
	if axis == AxisAncestorOrSelf {
		it.wanted = it.startDepth - 1
	}

	return it
}

// Another returns a fresh cursor over the identical axis, start node and
// node test, with independent position. The original cursor is unaffected;
// this is the only way to re-iterate an axis.
func (it *Iterator) Another() *Iterator {
	return newIterator(it.tree, it.start, it.axis, it.test)
}

// Position returns the number of nodes yielded so far, 0 before the first
// call to Next, or -1 once the cursor is exhausted.
func (it *Iterator) Position() int {
	return it.position
}

// Overran reports whether the forward scan ran off the physical end of the
// table instead of terminating on a depth comparison. On a well-formed
// frozen tree this never happens: the stopper slot terminates every scan.
// Overrun is recovered as normal exhaustion but indicates a construction
// defect (missing stopper), so it is kept visible for diagnostics.
func (it *Iterator) Overran() bool {
	return it.overrun
}

// All returns an iterator over the full axis sequence. Each range drives a
// fresh cursor, so ranging twice reproduces the same sequence regardless of
// the receiver's position.
func (it *Iterator) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		fresh := it.Another()
		for n, ok := fresh.Next(); ok; n, ok = fresh.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// exhaust moves the cursor to its terminal state.
func (it *Iterator) exhaust(overrun bool) {
	it.position = -1
	it.overrun = overrun
}

// matches applies the node test to slot i.
func (it *Iterator) matches(i int32) bool {
	return it.test == nil || it.test(Node{tree: it.tree, num: i})
}

// yield records a successful match and returns the node.
func (it *Iterator) yield(i int32) (Node, bool) {
	it.position++
	return Node{tree: it.tree, num: i}, true
}

func isAttrOrNamespace(k format.Kind) bool {
	return k == format.KindAttribute || k == format.KindNamespace
}

// Next advances the cursor and returns the next node on the axis that
// satisfies the node test. Returns ok=false once the axis is exhausted;
// exhaustion is terminal.
//
// Running past the allocated end of the table during a forward scan is
// recovered as exhaustion rather than a fault (see Overran); termination by
// depth comparison is the normal path on every well-formed document.
func (it *Iterator) Next() (Node, bool) {
	if it.position < 0 {
		return Node{}, false
	}

	if it.selfPending {
		it.selfPending = false
		if it.axis == AxisSelf {
			defer it.exhaust(false)
			if it.matches(it.start) {
				return it.yield(it.start)
			}

			return Node{}, false
		}
		if it.matches(it.start) {
			return it.yield(it.start)
		}
	}

	switch it.axis {
	case AxisChild, AxisDescendant, AxisDescendantOrSelf, AxisAttribute, AxisNamespace:
		return it.nextSubtree()
	case AxisFollowingSibling:
		return it.nextFollowingSibling()
	case AxisFollowing:
		return it.nextFollowing()
	case AxisParent, AxisAncestor, AxisAncestorOrSelf:
		return it.nextAncestor()
	case AxisPrecedingSibling:
		return it.nextPrecedingSibling()
	case AxisPreceding:
		return it.nextPreceding()
	default:
		it.exhaust(false)
		return Node{}, false
	}
}

// nextSubtree advances the depth-bounded forward axes: child, descendant,
// descendant-or-self, attribute and namespace. The scan walks slots forward
// while their depth exceeds the start depth; the first slot at or above the
// start depth (on a frozen tree, at latest the stopper) ends the subtree.
func (it *Iterator) nextSubtree() (Node, bool) {
	t := it.tree
	for {
		it.candidate++
		if int(it.candidate) >= len(t.depth) {
			it.exhaust(true)
			return Node{}, false
		}

		d := t.depth[it.candidate]
		if d <= it.startDepth {
			it.exhaust(false)
			return Node{}, false
		}

		k := t.kind[it.candidate]
		switch it.axis {
		case AxisChild:
			if d != it.startDepth+1 || isAttrOrNamespace(k) {
				continue
			}
		case AxisAttribute:
			if d != it.startDepth+1 || k != format.KindAttribute {
				continue
			}
		case AxisNamespace:
			if d != it.startDepth+1 || k != format.KindNamespace {
				continue
			}
		default:
			// Descendant axes exclude attribute and namespace nodes; they
			// are reachable only through their dedicated axes.
			if isAttrOrNamespace(k) {
				continue
			}
		}

		if it.matches(it.candidate) {
			return it.yield(it.candidate)
		}
	}
}

func (it *Iterator) nextFollowingSibling() (Node, bool) {
	t := it.tree
	if isAttrOrNamespace(t.kind[it.start]) {
		// Attribute and namespace nodes have no siblings.
		it.exhaust(false)
		return Node{}, false
	}

	for {
		it.candidate++
		if int(it.candidate) >= len(t.depth) {
			it.exhaust(true)
			return Node{}, false
		}

		d := t.depth[it.candidate]
		if d < it.startDepth {
			it.exhaust(false)
			return Node{}, false
		}
		if d > it.startDepth || isAttrOrNamespace(t.kind[it.candidate]) {
			continue
		}

		if it.matches(it.candidate) {
			return it.yield(it.candidate)
		}
	}
}

func (it *Iterator) nextFollowing() (Node, bool) {
	t := it.tree
	for {
		it.candidate++
		if int(it.candidate) >= len(t.depth) {
			it.exhaust(true)
			return Node{}, false
		}

		k := t.kind[it.candidate]
		if k == format.KindStopper {
			it.exhaust(false)
			return Node{}, false
		}

		if !it.pastSubtree {
			if t.depth[it.candidate] > it.startDepth {
				continue // still inside the start subtree
			}
			it.pastSubtree = true
		}

		if isAttrOrNamespace(k) {
			continue
		}

		if it.matches(it.candidate) {
			return it.yield(it.candidate)
		}
	}
}

// nextAncestor walks backward and yields each slot whose depth is exactly
// one less than the last ancestor found: nearest-first, ending at the
// document root. The parent axis is the same walk cut off after one node.
func (it *Iterator) nextAncestor() (Node, bool) {
	t := it.tree
	for {
		it.candidate--
		if it.candidate < 0 || it.wanted < 0 {
			it.exhaust(false)
			return Node{}, false
		}

		if t.depth[it.candidate] != it.wanted {
			continue
		}

		found := it.candidate
		if it.axis == AxisParent {
			it.wanted = -1
		} else {
			it.wanted--
		}

		if it.matches(found) {
			return it.yield(found)
		}
	}
}

func (it *Iterator) nextPrecedingSibling() (Node, bool) {
	t := it.tree
	if isAttrOrNamespace(t.kind[it.start]) {
		it.exhaust(false)
		return Node{}, false
	}

	for {
		it.candidate--
		if it.candidate < 0 {
			it.exhaust(false)
			return Node{}, false
		}

		d := t.depth[it.candidate]
		if d < it.startDepth {
			it.exhaust(false) // reached the parent
			return Node{}, false
		}
		if d > it.startDepth || isAttrOrNamespace(t.kind[it.candidate]) {
			continue
		}

		if it.matches(it.candidate) {
			return it.yield(it.candidate)
		}
	}
}

// nextPreceding walks backward over every node before the start node,
// skipping ancestors: whenever the scan meets a slot shallower than the
// shallowest seen so far, that slot is an ancestor and the guard depth
// drops to it.
func (it *Iterator) nextPreceding() (Node, bool) {
	t := it.tree
	for {
		it.candidate--
		if it.candidate < 0 {
			it.exhaust(false)
			return Node{}, false
		}

		d := t.depth[it.candidate]
		if d < it.guard {
			it.guard = d
			continue // ancestor
		}
		if isAttrOrNamespace(t.kind[it.candidate]) {
			continue
		}

		if it.matches(it.candidate) {
			return it.yield(it.candidate)
		}
	}
}

// Iterate returns a cursor over the given axis from n, restricted to nodes
// satisfying test (nil matches all).
func (n Node) Iterate(axis Axis, test NodeTest) *Iterator {
	return newIterator(n.tree, n.num, axis, test)
}

// Children returns a cursor over the child axis.
func (n Node) Children(test NodeTest) *Iterator {
	return n.Iterate(AxisChild, test)
}

// Descendants returns a cursor over the descendant axis: all proper
// descendants in document order.
func (n Node) Descendants(test NodeTest) *Iterator {
	return n.Iterate(AxisDescendant, test)
}

// DescendantsOrSelf returns a cursor over the descendant-or-self axis: the
// node itself, then all proper descendants in document order.
func (n Node) DescendantsOrSelf(test NodeTest) *Iterator {
	return n.Iterate(AxisDescendantOrSelf, test)
}

// Attributes returns a cursor over the attribute axis.
func (n Node) Attributes(test NodeTest) *Iterator {
	return n.Iterate(AxisAttribute, test)
}

// Namespaces returns a cursor over the namespace axis.
func (n Node) Namespaces(test NodeTest) *Iterator {
	return n.Iterate(AxisNamespace, test)
}

// Ancestors returns a cursor over the ancestor axis, nearest-first.
func (n Node) Ancestors(test NodeTest) *Iterator {
	return n.Iterate(AxisAncestor, test)
}

// AncestorsOrSelf returns a cursor over the ancestor-or-self axis.
func (n Node) AncestorsOrSelf(test NodeTest) *Iterator {
	return n.Iterate(AxisAncestorOrSelf, test)
}

// FollowingSiblings returns a cursor over the following-sibling axis.
func (n Node) FollowingSiblings(test NodeTest) *Iterator {
	return n.Iterate(AxisFollowingSibling, test)
}

// PrecedingSiblings returns a cursor over the preceding-sibling axis,
// nearest-first.
func (n Node) PrecedingSiblings(test NodeTest) *Iterator {
	return n.Iterate(AxisPrecedingSibling, test)
}

// Following returns a cursor over the following axis: all nodes after the
// end of the node's subtree in document order, excluding attribute and
// namespace nodes.
func (n Node) Following(test NodeTest) *Iterator {
	return n.Iterate(AxisFollowing, test)
}

// Preceding returns a cursor over the preceding axis: all nodes before the
// node in document order excluding its ancestors, nearest-first.
func (n Node) Preceding(test NodeTest) *Iterator {
	return n.Iterate(AxisPreceding, test)
}
