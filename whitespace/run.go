// Package whitespace packs whitespace-only text into a single 64-bit run code.
//
// XML documents produced by pretty-printers are dominated by text nodes that
// contain nothing but indentation: a newline followed by a run of spaces or
// tabs, or very long runs of a single character. Storing each of those nodes
// in the shared character buffer wastes space and allocation; instead the
// tree stores them as a Run, a reversible run-length encoding that fits in
// the two 32-bit payload words of a node slot.
//
// # Encoding Forms
//
// A Run uses one of two forms, selected by the top byte:
//
//   - Uniform form (top byte 0xFF): a single repeated character. Bits 55-54
//     hold the character code, bits 53-0 hold the repeat count. This form
//     covers arbitrarily long single-character runs (e.g. thousands of
//     consecutive spaces) without a character buffer.
//   - List form (top byte 0x01-0x07): up to seven (character, count) runs.
//     The top byte is the run count; runs are packed high-to-low starting at
//     byte 6, each run byte holding the 2-bit character code in bits 7-6 and
//     a 1-63 count in bits 5-0.
//
// Character codes: 0 = space, 1 = tab, 2 = newline, 3 = carriage return.
//
// Strings that cannot be represented (non-whitespace characters, more than
// seven runs after splitting long runs into 63-character chunks, or a uniform
// count overflowing 54 bits) are rejected by Compress; the caller stores the
// text in the character buffer instead.
//
// # Thread Safety
//
// Run is an immutable value type; all operations are safe for concurrent use.
package whitespace

// Run is a whitespace-only string packed into 64 bits in run-length form.
// The zero value is not a valid run.
type Run uint64

const (
	uniformMarker = 0xFF // top byte of the uniform form

	uniformCharShift = 54
	uniformCountMask = (uint64(1) << uniformCharShift) - 1

	maxListRuns  = 7
	maxRunLength = 63 // 6-bit count per list-form run byte
)

// runChars maps the 2-bit character codes to their characters.
var runChars = [4]byte{' ', '\t', '\n', '\r'}

// charCode returns the 2-bit code for c, or false if c is not one of the
// four encodable whitespace characters.
func charCode(c byte) (uint64, bool) {
	switch c {
	case ' ':
		return 0, true
	case '\t':
		return 1, true
	case '\n':
		return 2, true
	case '\r':
		return 3, true
	default:
		return 0, false
	}
}

// Compress attempts to pack s into a Run.
//
// Returns the packed run and true on success. Returns false when s is empty,
// contains a non-whitespace character, or does not fit either encoding form;
// the caller must then fall back to raw character storage. Rejection is a
// normal, recoverable outcome, never an error.
func Compress(s string) (Run, bool) {
	if len(s) == 0 {
		return 0, false
	}

	// Uniform fast path: a single repeated character of any length.
	uniform := true
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			uniform = false
			break
		}
	}
	if uniform {
		code, ok := charCode(s[0])
		if !ok {
			return 0, false
		}
		count := uint64(len(s))
		if count > uniformCountMask {
			return 0, false
		}

		return Run(uint64(uniformMarker)<<56 | code<<uniformCharShift | count), true
	}

	// List form: collect (char, count) runs, splitting runs longer than 63
	// characters into chunks.
	var runs [maxListRuns]byte
	numRuns := 0
	i := 0
	for i < len(s) {
		code, ok := charCode(s[i])
		if !ok {
			return 0, false
		}
		j := i + 1
		for j < len(s) && s[j] == s[i] {
			j++
		}
		length := j - i
		for length > 0 {
			if numRuns == maxListRuns {
				return 0, false
			}
			chunk := length
			if chunk > maxRunLength {
				chunk = maxRunLength
			}
			runs[numRuns] = byte(code<<6) | byte(chunk)
			numRuns++
			length -= chunk
		}
		i = j
	}

	packed := uint64(numRuns) << 56
	for r := range numRuns {
		packed |= uint64(runs[r]) << (8 * (6 - r))
	}

	return Run(packed), true
}

// Len returns the decoded string length without materializing the string.
func (r Run) Len() int {
	v := uint64(r)
	if v>>56 == uniformMarker {
		return int(v & uniformCountMask)
	}

	total := 0
	numRuns := int(v >> 56)
	for i := range numRuns {
		total += int(v>>(8*(6-i))) & maxRunLength
	}

	return total
}

// AppendTo appends the decoded whitespace to dst and returns the extended
// slice. This is the allocation-free path used when concatenating the string
// value of a parent node: the run decodes directly into the caller's buffer
// with no intermediate string.
func (r Run) AppendTo(dst []byte) []byte {
	v := uint64(r)
	if v>>56 == uniformMarker {
		c := runChars[(v>>uniformCharShift)&0x3]
		count := int(v & uniformCountMask)
		for range count {
			dst = append(dst, c)
		}

		return dst
	}

	numRuns := int(v >> 56)
	for i := range numRuns {
		run := byte(v >> (8 * (6 - i)))
		c := runChars[run>>6]
		count := int(run & maxRunLength)
		for range count {
			dst = append(dst, c)
		}
	}

	return dst
}

// String decodes the run back into the original whitespace string.
func (r Run) String() string {
	return string(r.AppendTo(make([]byte, 0, r.Len())))
}

// Halves splits the run into the two 32-bit payload words of a node slot.
func (r Run) Halves() (hi uint32, lo uint32) {
	return uint32(uint64(r) >> 32), uint32(uint64(r)) //nolint:gosec
}

// FromHalves reassembles a Run from the two payload words produced by Halves.
func FromHalves(hi uint32, lo uint32) Run {
	return Run(uint64(hi)<<32 | uint64(lo))
}
