package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/doctree/errs"
	"github.com/arloliu/doctree/format"
)

// ==============================================================================
// Construction Tests
// ==============================================================================

func TestBuilder_BuildFreezesTree(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.Equal(t, int32(1), b.Depth())

	require.NoError(t, b.StartElement("", "root"))
	require.Equal(t, int32(2), b.Depth())
	require.NoError(t, b.EndElement())
	require.Equal(t, int32(1), b.Depth())

	tr, err := b.Build()
	require.NoError(t, err)
	require.True(t, tr.Frozen())
	require.Equal(t, 2, tr.NodeCount())
}

func TestBuilder_EmptyTextIgnored(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.Text(""))
	require.NoError(t, b.EndElement())

	tr, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, tr.NodeCount()) // document + root, no text slot
}

func TestBuilder_WhitespacePacking(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.Text("\n    ")) // packable
	require.NoError(t, b.Text("  x  ")) // not whitespace-only
	require.NoError(t, b.EndElement())

	tr, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, format.KindWhitespaceText, tr.KindAt(2))
	require.Equal(t, format.KindText, tr.KindAt(3))
	require.Equal(t, "\n    ", tr.NodeAt(2).StringValue())
	require.Equal(t, "  x  ", tr.NodeAt(3).StringValue())
}

func TestBuilder_WhitespacePackingDisabled(t *testing.T) {
	b, err := NewBuilder(WithWhitespacePacking(false))
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.Text("\n    "))
	require.NoError(t, b.EndElement())

	tr, err := b.Build()
	require.NoError(t, err)
	// With packing off even pure whitespace goes to the character buffer.
	require.Equal(t, format.KindText, tr.KindAt(2))
	require.Equal(t, "\n    ", tr.NodeAt(2).StringValue())
}

func TestBuilder_WithInitialCapacity(t *testing.T) {
	b, err := NewBuilder(WithInitialCapacity(256))
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.EndElement())

	tr, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, tr.NodeCount())

	_, err = NewBuilder(WithInitialCapacity(0))
	require.Error(t, err)
}

// ==============================================================================
// Event Ordering Tests
// ==============================================================================

func TestBuilder_AttributeWindow(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.Attribute("", "a", "1"))
	require.NoError(t, b.Namespace("ex", "urn:example"))
	require.NoError(t, b.Text("content"))

	// Content closes the attribute window of the open element.
	err = b.Attribute("", "late", "2")
	require.ErrorIs(t, err, errs.ErrAttributeAfterContent)
	err = b.Namespace("late", "urn:late")
	require.ErrorIs(t, err, errs.ErrAttributeAfterContent)

	// A newly opened child element has a fresh window.
	require.NoError(t, b.StartElement("", "child"))
	require.NoError(t, b.Attribute("", "b", "3"))
	require.NoError(t, b.EndElement())
	require.NoError(t, b.EndElement())

	_, err = b.Build()
	require.NoError(t, err)
}

func TestBuilder_AttributeRequiresOpenElement(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	err = b.Attribute("", "a", "1")
	require.ErrorIs(t, err, errs.ErrNoElementStarted)
	err = b.Namespace("ex", "urn:example")
	require.ErrorIs(t, err, errs.ErrNoElementStarted)
}

func TestBuilder_UnbalancedEvents(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	err = b.EndElement()
	require.ErrorIs(t, err, errs.ErrUnbalancedElement)

	require.NoError(t, b.StartElement("", "root"))
	_, err = b.Build()
	require.ErrorIs(t, err, errs.ErrUnbalancedElement)
}

func TestBuilder_FinishedRejectsEverything(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.EndElement())
	_, err = b.Build()
	require.NoError(t, err)

	require.ErrorIs(t, b.StartElement("", "x"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.EndElement(), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.Attribute("", "a", "1"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.Namespace("p", "u"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.Text("t"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.Comment("c"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.ProcessingInstruction("t", "d"), errs.ErrBuilderFinished)
	require.ErrorIs(t, b.Annotate(1), errs.ErrBuilderFinished)

	_, err = b.Build()
	require.ErrorIs(t, err, errs.ErrBuilderFinished)
}

// ==============================================================================
// Annotation Tests
// ==============================================================================

func TestBuilder_AnnotateTargets(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	// Nothing annotatable yet: the document slot is not a target.
	require.ErrorIs(t, b.Annotate(1), errs.ErrNothingToAnnotate)

	require.NoError(t, b.StartElement("", "root"))
	require.NoError(t, b.Annotate(10))
	require.NoError(t, b.Attribute("", "id", "n1"))
	require.NoError(t, b.Annotate(20))

	// Text clears the annotation target.
	require.NoError(t, b.Text("content"))
	require.ErrorIs(t, b.Annotate(30), errs.ErrNothingToAnnotate)

	require.NoError(t, b.EndElement())
	// So does closing an element.
	require.ErrorIs(t, b.Annotate(40), errs.ErrNothingToAnnotate)

	tr, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, uint32(10), tr.NodeAt(1).TypeAnnotation())
	require.Equal(t, uint32(20), tr.NodeAt(2).TypeAnnotation())
}

// ==============================================================================
// Layout Tests
// ==============================================================================

func TestBuilder_DepthAssignment(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.StartElement("", "a"))
	require.NoError(t, b.Attribute("", "id", "1"))
	require.NoError(t, b.StartElement("", "b"))
	require.NoError(t, b.Comment("note"))
	require.NoError(t, b.EndElement())
	require.NoError(t, b.ProcessingInstruction("pi", "data"))
	require.NoError(t, b.EndElement())

	tr, err := b.Build()
	require.NoError(t, err)

	// Attributes sit at the same depth as element children.
	require.Equal(t, int32(0), tr.DepthAt(0)) // document
	require.Equal(t, int32(1), tr.DepthAt(1)) // a
	require.Equal(t, int32(2), tr.DepthAt(2)) // @id
	require.Equal(t, int32(2), tr.DepthAt(3)) // b
	require.Equal(t, int32(3), tr.DepthAt(4)) // comment
	require.Equal(t, int32(2), tr.DepthAt(5)) // pi
	require.Equal(t, format.KindAttribute, tr.KindAt(2))
	require.Equal(t, format.KindComment, tr.KindAt(4))
	require.Equal(t, format.KindProcessingInstruction, tr.KindAt(5))
}

func BenchmarkBuilder_Build(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		builder, _ := NewBuilder(WithInitialCapacity(256))
		_ = builder.StartElement("", "root")
		for range 50 {
			_ = builder.StartElement("", "item")
			_ = builder.Attribute("", "id", "n")
			_ = builder.Text("content")
			_ = builder.EndElement()
		}
		_ = builder.EndElement()
		_, _ = builder.Build()
	}
}
