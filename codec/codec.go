// Package codec persists frozen trees as compact binary snapshots.
//
// A snapshot captures every column of the node table, the shared character
// buffer, the name pool and the auxiliary value spans in one contiguous,
// optionally compressed payload guarded by an xxHash64 checksum. Restoring a
// snapshot rebuilds a tree that is indistinguishable from the original:
// every node number, name code and string value is preserved.
//
// The node table itself owns no wire format; this package is the
// serialization collaborator layered on the table's construction and read
// interfaces.
//
// # Usage
//
//	data, err := codec.Marshal(t, codec.WithCompression(format.CompressionS2))
//	...
//	restored, err := codec.Unmarshal(data)
package codec

import (
	"fmt"

	"github.com/arloliu/doctree/compress"
	"github.com/arloliu/doctree/endian"
	"github.com/arloliu/doctree/errs"
	"github.com/arloliu/doctree/format"
	"github.com/arloliu/doctree/internal/hash"
	"github.com/arloliu/doctree/internal/options"
	"github.com/arloliu/doctree/internal/pool"
	"github.com/arloliu/doctree/tree"
)

// Marshal serializes a frozen tree into a snapshot.
//
// Returns ErrTreeNotFrozen if the tree is still under construction; a
// snapshot of a half-built table would violate the freeze discipline that
// makes trees safely shareable.
func Marshal(t *tree.Tree, opts ...Option) ([]byte, error) {
	if !t.Frozen() {
		return nil, errs.ErrTreeNotFrozen
	}

	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	engine := cfg.engine
	nodeCount := t.NodeCount()
	names := t.Names()
	chars := t.CharData()
	extras := t.ExtraValueSpans()

	// Column sections: depth, kind, payloadA, payloadB. Same-typed values
	// are grouped so the compressor sees long uniform runs.
	buf.Grow(nodeCount * 13)
	for i := range nodeCount {
		buf.B = engine.AppendUint32(buf.B, uint32(t.DepthAt(i))) //nolint:gosec
	}
	for i := range nodeCount {
		buf.B = append(buf.B, byte(t.KindAt(i)))
	}
	for i := range nodeCount {
		a, _ := t.PayloadAt(i)
		buf.B = engine.AppendUint32(buf.B, a)
	}
	for i := range nodeCount {
		_, b := t.PayloadAt(i)
		buf.B = engine.AppendUint32(buf.B, b)
	}

	buf.MustWrite(chars)

	for code := range names.Count() {
		uri := names.URI(int32(code))         //nolint:gosec
		local := names.LocalName(int32(code)) //nolint:gosec
		buf.B = engine.AppendUint32(buf.B, uint32(len(uri)))
		buf.MustWrite([]byte(uri))
		buf.B = engine.AppendUint32(buf.B, uint32(len(local)))
		buf.MustWrite([]byte(local))
	}

	for _, span := range extras {
		buf.B = engine.AppendUint32(buf.B, uint32(span.Node)) //nolint:gosec
		buf.B = engine.AppendUint32(buf.B, span.Offset)
		buf.B = engine.AppendUint32(buf.B, span.Length)
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownCompression, cfg.compression)
	}
	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress snapshot payload: %w", err)
	}

	flag := uint16(MagicSnapshotV1)
	if engine == endian.GetBigEndianEngine() {
		flag |= EndiannessMask
	}

	out := make([]byte, 0, HeaderSize+len(payload))
	out = engine.AppendUint16(out, flag)
	out = append(out, byte(cfg.compression), 0)
	out = engine.AppendUint32(out, uint32(nodeCount))       //nolint:gosec
	out = engine.AppendUint32(out, uint32(names.Count()))   //nolint:gosec
	out = engine.AppendUint32(out, uint32(len(chars)))      //nolint:gosec
	out = engine.AppendUint32(out, uint32(len(extras)))     //nolint:gosec
	out = engine.AppendUint32(out, uint32(len(payload)))    //nolint:gosec
	out = engine.AppendUint64(out, hash.Sum64(payload))
	out = append(out, payload...)

	return out, nil
}

// Unmarshal rebuilds a frozen tree from snapshot data.
//
// The byte order and compression type are read from the header; no options
// are needed. The checksum is verified before the payload is decompressed,
// so corrupted snapshots fail with ErrChecksumMismatch rather than feeding
// garbage to the decompressor.
func Unmarshal(data []byte) (*tree.Tree, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	// The flag word identifies the byte order of everything else: try the
	// little-endian reading first, then big-endian.
	engine := endian.GetLittleEndianEngine()
	flag := engine.Uint16(data[flagOffset:])
	if flag&MagicNumberMask != MagicSnapshotV1 {
		engine = endian.GetBigEndianEngine()
		flag = engine.Uint16(data[flagOffset:])
		if flag&MagicNumberMask != MagicSnapshotV1 {
			return nil, fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagicNumber, flag)
		}
	}
	wantBig := flag&EndiannessMask != 0
	if wantBig != (engine == endian.GetBigEndianEngine()) {
		return nil, fmt.Errorf("%w: endianness flag disagrees with magic byte order", errs.ErrInvalidMagicNumber)
	}

	compression := format.CompressionType(data[compressionOffset])
	nodeCount := int(engine.Uint32(data[nodeCountOffset:]))
	nameCount := int(engine.Uint32(data[nameCountOffset:]))
	charLen := int(engine.Uint32(data[charLenOffset:]))
	extraCount := int(engine.Uint32(data[extraCountOffset:]))
	payloadLen := int(engine.Uint32(data[payloadLenOffset:]))
	checksum := engine.Uint64(data[checksumOffset:])

	if nodeCount < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidNodeCount, nodeCount)
	}
	if len(data)-HeaderSize != payloadLen {
		return nil, fmt.Errorf("%w: payload length %d, have %d bytes", errs.ErrInvalidSection, payloadLen, len(data)-HeaderSize)
	}

	payload := data[HeaderSize:]
	if hash.Sum64(payload) != checksum {
		return nil, errs.ErrChecksumMismatch
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: 0x%02X", errs.ErrUnknownCompression, uint8(compression))
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot payload: %w", err)
	}

	r := &sectionReader{engine: engine, data: raw}

	depths := make([]int32, nodeCount)
	for i := range nodeCount {
		v, err := r.uint32()
		if err != nil {
			return nil, err
		}
		depths[i] = int32(v) //nolint:gosec
	}
	kinds, err := r.bytes(nodeCount)
	if err != nil {
		return nil, err
	}
	payloadA := make([]uint32, nodeCount)
	for i := range nodeCount {
		if payloadA[i], err = r.uint32(); err != nil {
			return nil, err
		}
	}
	payloadB := make([]uint32, nodeCount)
	for i := range nodeCount {
		if payloadB[i], err = r.uint32(); err != nil {
			return nil, err
		}
	}

	chars, err := r.bytes(charLen)
	if err != nil {
		return nil, err
	}

	// Text and comment slots address the character buffer through their
	// payload words; validate them like the auxiliary spans below, so a
	// corrupt snapshot fails here instead of on the first StringValue read.
	for i := range nodeCount {
		k := format.Kind(kinds[i])
		if k != format.KindText && k != format.KindComment {
			continue
		}
		if int(payloadA[i])+int(payloadB[i]) > charLen {
			return nil, fmt.Errorf("%w: text span [%d, %d) outside character buffer",
				errs.ErrInvalidSection, payloadA[i], uint64(payloadA[i])+uint64(payloadB[i]))
		}
	}

	t := tree.NewWithCapacity(nodeCount + 1)
	for i := range nodeCount {
		t.AppendNode(format.Kind(kinds[i]), depths[i], payloadA[i], payloadB[i])
	}
	if charLen > 0 {
		charCopy := make([]byte, charLen)
		copy(charCopy, chars)
		t.RestoreCharData(charCopy)
	}

	for range nameCount {
		uri, err := r.lenPrefixedString()
		if err != nil {
			return nil, err
		}
		local, err := r.lenPrefixedString()
		if err != nil {
			return nil, err
		}
		t.Names().Allocate(uri, local)
	}
	if t.Names().Count() != nameCount {
		return nil, fmt.Errorf("%w: duplicate names in pool section", errs.ErrInvalidSection)
	}

	for range extraCount {
		num, err := r.uint32()
		if err != nil {
			return nil, err
		}
		offset, err := r.uint32()
		if err != nil {
			return nil, err
		}
		length, err := r.uint32()
		if err != nil {
			return nil, err
		}
		if int(offset)+int(length) > charLen {
			return nil, fmt.Errorf("%w: value span [%d, %d) outside character buffer", errs.ErrInvalidSection, offset, offset+length)
		}
		t.RestoreExtraValue(int32(num), offset, length) //nolint:gosec
	}

	t.Freeze()

	return t, nil
}

// sectionReader is a bounds-checked cursor over the decompressed payload.
type sectionReader struct {
	engine endian.EndianEngine
	data   []byte
	pos    int
}

func (r *sectionReader) uint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated at byte %d", errs.ErrInvalidSection, r.pos)
	}
	v := r.engine.Uint32(r.data[r.pos:])
	r.pos += 4

	return v, nil
}

func (r *sectionReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: truncated at byte %d", errs.ErrInvalidSection, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *sectionReader) lenPrefixedString() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}
