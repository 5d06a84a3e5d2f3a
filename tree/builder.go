package tree

import (
	"fmt"

	"github.com/arloliu/doctree/errs"
	"github.com/arloliu/doctree/format"
	"github.com/arloliu/doctree/internal/options"
	"github.com/arloliu/doctree/whitespace"
)

// Builder constructs a Tree from a sequence of document-order construction
// events: StartElement, Attribute, Namespace, Text, Comment,
// ProcessingInstruction and EndElement, terminated by Build.
//
// The builder owns the tree until Build returns it; the tree must not be
// exposed to readers before that. A Builder is single-writer and not
// reusable: after Build (successful or not) every event returns
// ErrBuilderFinished.
//
// Whitespace-only text is packed into 64-bit run codes when possible
// (see the whitespace package); text that cannot be packed falls back to the
// shared character buffer. The fallback is automatic and invisible to
// readers.
type Builder struct {
	tree *Tree

	// depth is the nesting depth at which the next child slot is appended.
	// The document slot sits at depth 0, so construction starts at 1.
	depth int32

	// open tracks the node numbers of currently open elements.
	open []int32

	// contentStarted mirrors open: whether the open element has received any
	// child content yet. Attributes and namespaces must precede content.
	contentStarted []bool

	// lastAnnotatable is the node number of the most recent element or
	// attribute, the target for Annotate. -1 when there is none.
	lastAnnotatable int32

	packWhitespace bool
	finished       bool
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*Builder]

// WithInitialCapacity pre-allocates the tree columns for the expected number
// of nodes, avoiding growth reallocations for documents of known size.
func WithInitialCapacity(capacity int) BuilderOption {
	return options.New(func(b *Builder) error {
		if capacity < 1 {
			return fmt.Errorf("invalid initial capacity %d", capacity)
		}
		b.tree = NewWithCapacity(capacity)

		return nil
	})
}

// WithWhitespacePacking enables or disables run-length packing of
// whitespace-only text nodes. Enabled by default; disabling forces all text
// through the character buffer, which simplifies debugging of storage
// layouts.
func WithWhitespacePacking(enabled bool) BuilderOption {
	return options.NoError(func(b *Builder) {
		b.packWhitespace = enabled
	})
}

// NewBuilder creates a builder holding a fresh tree with the document root
// slot already appended.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		tree:            New(),
		packWhitespace:  true,
		lastAnnotatable: -1,
	}

	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	b.tree.AppendNode(format.KindDocument, 0, 0, 0)
	b.depth = 1

	return b, nil
}

// Depth returns the current nesting depth: 1 at the document level, one more
// for each open element.
func (b *Builder) Depth() int32 {
	return b.depth
}

// StartElement opens an element with the given namespace URI and local name.
func (b *Builder) StartElement(uri, local string) error {
	if b.finished {
		return fmt.Errorf("%w: StartElement(%s)", errs.ErrBuilderFinished, local)
	}

	b.markContent()
	code := b.tree.names.Allocate(uri, local)
	num := b.tree.AppendNode(format.KindElement, b.depth, uint32(code), 0) //nolint:gosec
	b.open = append(b.open, num)
	b.contentStarted = append(b.contentStarted, false)
	b.lastAnnotatable = num
	b.depth++

	return nil
}

// EndElement closes the most recently opened element.
func (b *Builder) EndElement() error {
	if b.finished {
		return fmt.Errorf("%w: EndElement", errs.ErrBuilderFinished)
	}
	if len(b.open) == 0 {
		return fmt.Errorf("%w: EndElement without StartElement", errs.ErrUnbalancedElement)
	}

	b.open = b.open[:len(b.open)-1]
	b.contentStarted = b.contentStarted[:len(b.contentStarted)-1]
	b.lastAnnotatable = -1
	b.depth--

	return nil
}

// Attribute adds an attribute node to the open element. Attributes must be
// added before any child content.
func (b *Builder) Attribute(uri, local, value string) error {
	if b.finished {
		return fmt.Errorf("%w: Attribute(%s)", errs.ErrBuilderFinished, local)
	}
	if len(b.open) == 0 {
		return fmt.Errorf("%w: Attribute(%s)", errs.ErrNoElementStarted, local)
	}
	if b.contentStarted[len(b.contentStarted)-1] {
		return fmt.Errorf("%w: Attribute(%s)", errs.ErrAttributeAfterContent, local)
	}

	code := b.tree.names.Allocate(uri, local)
	num := b.tree.AppendNode(format.KindAttribute, b.depth, uint32(code), 0) //nolint:gosec
	b.tree.extras[num] = b.tree.addChars(value)
	b.lastAnnotatable = num

	return nil
}

// Namespace adds a namespace declaration node to the open element.
// Namespace declarations must be added before any child content. The prefix
// is stored as the node's local name; resolution of prefixes to URIs is the
// caller's concern, this store only records the declaration.
func (b *Builder) Namespace(prefix, uri string) error {
	if b.finished {
		return fmt.Errorf("%w: Namespace(%s)", errs.ErrBuilderFinished, prefix)
	}
	if len(b.open) == 0 {
		return fmt.Errorf("%w: Namespace(%s)", errs.ErrNoElementStarted, prefix)
	}
	if b.contentStarted[len(b.contentStarted)-1] {
		return fmt.Errorf("%w: Namespace(%s)", errs.ErrAttributeAfterContent, prefix)
	}

	code := b.tree.names.Allocate(uri, prefix)
	b.tree.AppendNode(format.KindNamespace, b.depth, uint32(code), 0) //nolint:gosec

	return nil
}

// Text adds a text node. Empty text is ignored. Whitespace-only content is
// packed into a run code when the codec accepts it; everything else goes to
// the character buffer.
func (b *Builder) Text(s string) error {
	if b.finished {
		return fmt.Errorf("%w: Text", errs.ErrBuilderFinished)
	}
	if s == "" {
		return nil
	}

	b.markContent()

	if b.packWhitespace {
		if run, ok := whitespace.Compress(s); ok {
			hi, lo := run.Halves()
			b.tree.AppendNode(format.KindWhitespaceText, b.depth, hi, lo)
			b.lastAnnotatable = -1

			return nil
		}
	}

	span := b.tree.addChars(s)
	b.tree.AppendNode(format.KindText, b.depth, span.offset, span.length)
	b.lastAnnotatable = -1

	return nil
}

// Comment adds a comment node.
func (b *Builder) Comment(s string) error {
	if b.finished {
		return fmt.Errorf("%w: Comment", errs.ErrBuilderFinished)
	}

	b.markContent()
	span := b.tree.addChars(s)
	b.tree.AppendNode(format.KindComment, b.depth, span.offset, span.length)
	b.lastAnnotatable = -1

	return nil
}

// ProcessingInstruction adds a processing-instruction node with the given
// target and data.
func (b *Builder) ProcessingInstruction(target, data string) error {
	if b.finished {
		return fmt.Errorf("%w: ProcessingInstruction(%s)", errs.ErrBuilderFinished, target)
	}

	b.markContent()
	code := b.tree.names.Allocate("", target)
	num := b.tree.AppendNode(format.KindProcessingInstruction, b.depth, uint32(code), 0) //nolint:gosec
	b.tree.extras[num] = b.tree.addChars(data)
	b.lastAnnotatable = -1

	return nil
}

// Annotate sets the opaque type-annotation tag of the most recently added
// element or attribute. Annotations are stored untouched and surfaced via
// Node.TypeAnnotation; this package never interprets them.
func (b *Builder) Annotate(typeCode uint32) error {
	if b.finished {
		return fmt.Errorf("%w: Annotate", errs.ErrBuilderFinished)
	}
	if b.lastAnnotatable < 0 {
		return fmt.Errorf("%w: Annotate", errs.ErrNothingToAnnotate)
	}

	b.tree.payloadB[b.lastAnnotatable] = typeCode

	return nil
}

// Build validates that all elements are closed, freezes the tree (writing
// the stopper slot) and returns it. The builder is finished afterwards.
func (b *Builder) Build() (*Tree, error) {
	if b.finished {
		return nil, errs.ErrBuilderFinished
	}
	if len(b.open) != 0 {
		return nil, fmt.Errorf("%w: %d element(s) still open", errs.ErrUnbalancedElement, len(b.open))
	}

	b.finished = true
	b.tree.Freeze()

	return b.tree, nil
}

// markContent flags the innermost open element as having child content,
// closing its attribute/namespace window.
func (b *Builder) markContent() {
	if len(b.contentStarted) > 0 {
		b.contentStarted[len(b.contentStarted)-1] = true
	}
}
