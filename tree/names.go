package tree

import (
	"fmt"

	"github.com/arloliu/doctree/internal/hash"
)

// NamePool assigns dense integer codes to (namespace URI, local name) pairs.
//
// Element and attribute slots store a name code in payloadA instead of a
// string, so comparing names during navigation is an integer compare and the
// same name costs storage once per document no matter how often it occurs.
//
// Deduplication uses xxHash64 fingerprints of the pair. Fingerprint
// collisions are resolved by verifying the stored pair, so a collision costs
// one extra string compare and never produces a wrong code.
//
// The pool is append-only during construction and, like the tree that owns
// it, must not be modified after the tree is frozen.
type NamePool struct {
	codes  map[uint64][]int32 // fingerprint → codes (len > 1 only on collision)
	uris   []string
	locals []string
}

// NewNamePool creates an empty name pool.
func NewNamePool() *NamePool {
	return &NamePool{
		codes: make(map[uint64][]int32),
	}
}

// Allocate returns the code for the (uri, local) pair, assigning a new dense
// code if the pair has not been seen before.
func (p *NamePool) Allocate(uri, local string) int32 {
	fp := hash.Name(uri, local)
	for _, code := range p.codes[fp] {
		if p.uris[code] == uri && p.locals[code] == local {
			return code
		}
	}

	code := int32(len(p.locals))
	p.uris = append(p.uris, uri)
	p.locals = append(p.locals, local)
	p.codes[fp] = append(p.codes[fp], code)

	return code
}

// Count returns the number of distinct names in the pool.
func (p *NamePool) Count() int {
	return len(p.locals)
}

// URI returns the namespace URI of the given code. Panics if the code is out
// of range.
func (p *NamePool) URI(code int32) string {
	p.checkRange(code)
	return p.uris[code]
}

// LocalName returns the local name of the given code. Panics if the code is
// out of range.
func (p *NamePool) LocalName(code int32) string {
	p.checkRange(code)
	return p.locals[code]
}

func (p *NamePool) checkRange(code int32) {
	if code < 0 || int(code) >= len(p.locals) {
		panic(fmt.Sprintf("doctree: name code %d out of range [0, %d)", code, len(p.locals)))
	}
}
