// Package errs defines sentinel errors shared across the doctree packages.
//
// All errors are created with errors.New and wrapped with fmt.Errorf("%w")
// at call sites, so callers can match them with errors.Is.
package errs

import "errors"

// Builder errors (construction-time contract violations).
var (
	// ErrBuilderFinished is returned when a construction event arrives after Build.
	ErrBuilderFinished = errors.New("builder already finished")

	// ErrUnbalancedElement is returned when EndElement has no matching StartElement,
	// or Build is called with elements still open.
	ErrUnbalancedElement = errors.New("unbalanced element events")

	// ErrNoElementStarted is returned when an event that requires an open element
	// (Attribute, Namespace) arrives outside any element.
	ErrNoElementStarted = errors.New("no element started")

	// ErrAttributeAfterContent is returned when an attribute or namespace event
	// arrives after child content has been added to the open element.
	ErrAttributeAfterContent = errors.New("attribute after element content")

	// ErrNothingToAnnotate is returned when Annotate is called with no
	// element or attribute pending.
	ErrNothingToAnnotate = errors.New("no element or attribute to annotate")
)

// Snapshot codec errors.
var (
	// ErrTreeNotFrozen is returned when marshalling a tree that is still under construction.
	ErrTreeNotFrozen = errors.New("tree not frozen")

	// ErrInvalidMagicNumber is returned when snapshot data has the wrong magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderSize is returned when snapshot data is shorter than the fixed header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidNodeCount is returned when the header node count is zero or
	// inconsistent with the decoded columns.
	ErrInvalidNodeCount = errors.New("invalid node count")

	// ErrInvalidSection is returned when a snapshot section offset or length is
	// out of bounds.
	ErrInvalidSection = errors.New("invalid section bounds")

	// ErrChecksumMismatch is returned when the snapshot checksum does not match
	// the payload.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownCompression is returned when the header names a compression type
	// this build does not support.
	ErrUnknownCompression = errors.New("unknown compression type")
)
