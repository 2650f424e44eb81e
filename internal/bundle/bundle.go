// Package bundle implements the request-path BundleAssembler (spec
// section 4.8): given a code point list, it resolves gids, expands the
// glyph closure, and assembles a byte-exact delta bundle from the
// preprocessed artifact set.
package bundle

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/exp/mmap"

	"github.com/tachyfont/tachyfont/internal/glyphser"
)

// Artifacts holds the read-only, process-lifetime views of one font's
// preprocessed side files, opened once at server start (or lazily on
// first request) per spec section 5.
type Artifacts struct {
	Codepoints      []byte
	Gids            []byte
	ClosureIdx      []byte
	ClosureData     []byte
	GlyphTable      []byte
	GlyphData       []byte
	SHA1Fingerprint [20]byte

	closers []*mmap.ReaderAt
}

// OpenArtifacts memory-maps the seven files that make up a font's
// artifact set, per spec section 6's artifact table.
func OpenArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{}
	load := func(name string) ([]byte, error) {
		r, err := mmap.Open(dir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("bundle: open %s: %w", name, err)
		}
		a.closers = append(a.closers, r)
		buf := make([]byte, r.Len())
		if _, err := r.ReadAt(buf, 0); err != nil {
			return nil, fmt.Errorf("bundle: read %s: %w", name, err)
		}
		return buf, nil
	}

	var err error
	if a.Codepoints, err = load("codepoints"); err != nil {
		return nil, err
	}
	if a.Gids, err = load("gids"); err != nil {
		return nil, err
	}
	if a.ClosureIdx, err = load("closure_idx"); err != nil {
		return nil, err
	}
	if a.ClosureData, err = load("closure_data"); err != nil {
		return nil, err
	}
	if a.GlyphTable, err = load("glyph_table"); err != nil {
		return nil, err
	}
	if a.GlyphData, err = load("glyph_data"); err != nil {
		return nil, err
	}
	fp, err := load("sha1_fingerprint")
	if err != nil {
		return nil, err
	}
	if len(fp) != 40 {
		return nil, fmt.Errorf("bundle: sha1_fingerprint must be 40 ASCII hex bytes")
	}
	if _, err := hex.Decode(a.SHA1Fingerprint[:], fp); err != nil {
		return nil, fmt.Errorf("bundle: sha1_fingerprint is not valid hex: %w", err)
	}
	return a, nil
}

// Close unmaps every artifact file.
func (a *Artifacts) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ResolveGid looks up codepoint cp in the parallel codepoints/gids
// arrays via binary search (codepoints is sorted ascending per spec
// section 3). It returns ok=false, silently, for an unmapped code point.
func (a *Artifacts) ResolveGid(cp rune) (gid uint16, ok bool) {
	n := len(a.Codepoints) / 4
	i := sort.Search(n, func(i int) bool {
		return binary.BigEndian.Uint32(a.Codepoints[i*4:]) >= uint32(cp)
	})
	if i >= n || binary.BigEndian.Uint32(a.Codepoints[i*4:]) != uint32(cp) {
		return 0, false
	}
	return binary.BigEndian.Uint16(a.Gids[i*2:]), true
}

// ExpandClosure reads closure_idx/closure_data for gid and returns its
// reflexive closure set (gid plus every gid listed at its closure_data
// offset). It returns an error if the record's offset+size runs past
// closure_data's length, signaling artifact corruption (spec section
// 4.10).
func (a *Artifacts) ExpandClosure(gid uint16) ([]uint16, error) {
	recBase := int(gid) * 6
	if recBase+6 > len(a.ClosureIdx) {
		return nil, fmt.Errorf("bundle: gid %d closure_idx record out of range", gid)
	}
	offset := int32(binary.BigEndian.Uint32(a.ClosureIdx[recBase:]))
	size := binary.BigEndian.Uint16(a.ClosureIdx[recBase+4:])
	out := []uint16{gid}
	if offset == -1 {
		return out, nil
	}
	if int(offset)+int(size) > len(a.ClosureData) {
		return nil, fmt.Errorf("bundle: gid %d closure_data range exceeds table length", gid)
	}
	for i := 0; i < int(size); i += 2 {
		out = append(out, binary.BigEndian.Uint16(a.ClosureData[int(offset)+i:]))
	}
	return out, nil
}

const (
	flagCFF = 1 << 2
)

// Assemble runs the full BundleAssembler algorithm for one request:
// resolve, expand, slice, and pack into the wire bundle format.
func (a *Artifacts) Assemble(codepoints []rune) ([]byte, error) {
	gidSet := map[uint16]bool{}
	for _, cp := range codepoints {
		gid, ok := a.ResolveGid(cp)
		if !ok {
			continue
		}
		expanded, err := a.ExpandClosure(gid)
		if err != nil {
			return nil, err
		}
		for _, g := range expanded {
			gidSet[g] = true
		}
	}

	gids := make([]uint16, 0, len(gidSet))
	for g := range gidSet {
		gids = append(gids, g)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	flags, _, cffOffset, headerSize, err := glyphser.DecodeHeader(a.GlyphTable, a.GlyphTable != nil && len(a.GlyphTable) >= 8 && hasCFFFlag(a.GlyphTable))
	if err != nil {
		return nil, err
	}

	type piece struct {
		entry glyphser.Entry
		bytes []byte
	}
	pieces := make([]piece, 0, len(gids))
	total := 0
	for _, gid := range gids {
		e, err := glyphser.ReadEntry(a.GlyphTable, flags, headerSize, int(gid))
		if err != nil {
			return nil, err
		}
		start := int(e.Offset)
		if flags&flagCFF != 0 {
			start -= int(cffOffset) + 1
		}
		end := start + int(e.Length)
		if start < 0 || end > len(a.GlyphData) {
			return nil, fmt.Errorf("bundle: gid %d glyph_data range out of bounds", gid)
		}
		pieces = append(pieces, piece{entry: e, bytes: a.GlyphData[start:end]})
		total += recordSize(flags) + len(a.GlyphData[start:end])
	}

	out := make([]byte, 0, 4+4+20+2+2+total)
	out = append(out, "BSAC"...)
	out = append(out, 1, 0, 0, 0) // major, minor, reserved, reserved
	out = append(out, a.SHA1Fingerprint[:]...)
	out = append(out, byte(len(gids)>>8), byte(len(gids)))
	out = append(out, byte(flags>>8), byte(flags))
	for _, p := range pieces {
		out = appendEntry(out, flags, p.entry)
		out = append(out, p.bytes...)
	}
	return out, nil
}

func hasCFFFlag(glyphTable []byte) bool {
	if len(glyphTable) < 2 {
		return false
	}
	flags := uint16(glyphTable[0])<<8 | uint16(glyphTable[1])
	return flags&flagCFF != 0
}

func recordSize(flags uint16) int {
	size := 2 + 4 + 2
	if flags&glyphser.HasHMTX != 0 {
		size += 2
	}
	if flags&glyphser.HasVMTX != 0 {
		size += 2
	}
	return size
}

func appendEntry(out []byte, flags uint16, e glyphser.Entry) []byte {
	out = append(out, byte(e.GID>>8), byte(e.GID))
	if flags&glyphser.HasHMTX != 0 {
		out = append(out, byte(e.HAdvance>>8), byte(e.HAdvance))
	}
	if flags&glyphser.HasVMTX != 0 {
		out = append(out, byte(e.VAdvance>>8), byte(e.VAdvance))
	}
	out = append(out, byte(e.Offset>>24), byte(e.Offset>>16), byte(e.Offset>>8), byte(e.Offset))
	out = append(out, byte(e.Length>>8), byte(e.Length))
	return out
}

// FingerprintFont computes the sha1 fingerprint recorded alongside a
// preprocessed artifact set, used to detect a stale client/artifact pairing.
func FingerprintFont(fontBytes []byte) [20]byte {
	return sha1.Sum(fontBytes)
}
