package format

type (
	// Kind identifies the node variant stored in one tree slot.
	Kind uint8

	// CompressionType selects the compression algorithm for snapshot payloads.
	CompressionType uint8
)

const (
	KindDocument              Kind = 0x1 // KindDocument is the document root node.
	KindElement               Kind = 0x2 // KindElement is an element node.
	KindAttribute             Kind = 0x3 // KindAttribute is an attribute node.
	KindText                  Kind = 0x4 // KindText is a text node stored in the character buffer.
	KindWhitespaceText        Kind = 0x5 // KindWhitespaceText is a text node stored as a packed whitespace run.
	KindComment               Kind = 0x6 // KindComment is a comment node.
	KindProcessingInstruction Kind = 0x7 // KindProcessingInstruction is a processing instruction node.
	KindNamespace             Kind = 0x8 // KindNamespace is a namespace declaration node.
	KindStopper               Kind = 0xF // KindStopper is the sentinel slot appended at freeze time.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsParent reports whether the kind can own child slots (document or element).
func (k Kind) IsParent() bool {
	return k == KindDocument || k == KindElement
}

// IsText reports whether the kind contributes content to parent-node string
// values (text or whitespace-text).
func (k Kind) IsText() bool {
	return k == KindText || k == KindWhitespaceText
}

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindElement:
		return "Element"
	case KindAttribute:
		return "Attribute"
	case KindText:
		return "Text"
	case KindWhitespaceText:
		return "WhitespaceText"
	case KindComment:
		return "Comment"
	case KindProcessingInstruction:
		return "ProcessingInstruction"
	case KindNamespace:
		return "Namespace"
	case KindStopper:
		return "Stopper"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
