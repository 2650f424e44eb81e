package gos

import (
	"fmt"

	"github.com/tachyfont/tachyfont/internal/otf/cmap"
)

// Tag identifies a GOS record type, per spec section 4.5's table.
type Tag byte

const (
	TagCmap12Narrow  Tag = 2
	TagCmap12Wide    Tag = 3
	TagCmap4OverCmap12 Tag = 4
	TagCmap12Raw     Tag = 5
	TagCharsetFmt2   Tag = 6
	TagCharsetFmt1   Tag = 7
)

func putU16(out []byte, v uint16) []byte { return append(out, byte(v>>8), byte(v)) }
func putU32(out []byte, v uint32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// EncodeType2 packs format-12 groups using 3-bit delta-start, 2-bit
// length, 3-bit delta-gid fields with an all-ones escape on each.
func EncodeType2(groups cmap.Format12) []byte {
	esc := NewEscaper()
	bw := &BitWriter{}
	var prevStart, prevGid int64
	for i, g := range groups {
		dStart := int64(g.StartCharCode)
		dGid := int64(g.StartGlyphID)
		if i > 0 {
			dStart -= prevStart
			dGid -= prevGid
		}
		length := int64(g.EndCharCode - g.StartCharCode)
		esc.BitEncodeAllOnesEscape(bw, dStart, 3)
		esc.BitEncodeAllOnesEscape(bw, length, 2)
		esc.BitEncodeAllOnesEscape(bw, dGid, 3)
		prevStart = int64(g.StartCharCode)
		prevGid = int64(g.StartGlyphID)
	}
	out := []byte{byte(TagCmap12Narrow)}
	out = putU16(out, uint16(len(groups)))
	out = append(out, bw.Bytes()...)
	out = append(out, esc.Bytes()...)
	return out
}

// EncodeType3 packs format-12 groups using 5-bit delta-start, 3-bit
// length, and a raw 16-bit gid (no escape on the gid field).
func EncodeType3(groups cmap.Format12) []byte {
	esc := NewEscaper()
	bw := &BitWriter{}
	var prevStart int64
	for i, g := range groups {
		dStart := int64(g.StartCharCode)
		if i > 0 {
			dStart -= prevStart
		}
		length := int64(g.EndCharCode - g.StartCharCode)
		esc.BitEncodeAllOnesEscape(bw, dStart, 5)
		esc.BitEncodeAllOnesEscape(bw, length, 3)
		bw.WriteBits(uint64(uint16(g.StartGlyphID)), 16)
		prevStart = int64(g.StartCharCode)
	}
	out := []byte{byte(TagCmap12Wide)}
	out = putU16(out, uint16(len(groups)))
	out = append(out, bw.Bytes()...)
	out = append(out, esc.Bytes()...)
	return out
}

// EncodeType5 stores format-12 groups with full 32-bit fields and no bit
// packing at all, the fallback for cmaps whose deltas don't fit types 2/3.
func EncodeType5(groups cmap.Format12) []byte {
	out := []byte{byte(TagCmap12Raw)}
	out = putU16(out, uint16(len(groups)))
	for _, g := range groups {
		out = putU32(out, g.StartCharCode)
		out = putU32(out, g.EndCharCode-g.StartCharCode)
		out = putU32(out, g.StartGlyphID)
	}
	return out
}

// Fmt4Fmt12Alignment describes how one format-4 segment maps onto one or
// more format-12 groups, per spec section 4.5's type-4 construction rule.
type Fmt4Fmt12Alignment struct {
	Fmt12GroupCount int // including the trailing empty group for 0xFFFF
}

// EncodeType4 packs, for each format-4 segment, the count of format-12
// groups it aligns to (segListLen, 2 bits). Callers must have already
// validated the alignment per ValidateType4Alignment; this function does
// not re-check it.
func EncodeType4(alignments []Fmt4Fmt12Alignment) []byte {
	esc := NewEscaper()
	bw := &BitWriter{}
	for _, a := range alignments {
		esc.BitEncodeAllOnesEscape(bw, int64(a.Fmt12GroupCount), 2)
	}
	out := []byte{byte(TagCmap4OverCmap12)}
	out = putU16(out, uint16(len(alignments)))
	out = append(out, bw.Bytes()...)
	out = append(out, esc.Bytes()...)
	return out
}

// ValidateType4Alignment walks the format-12 groups f12 in order against
// the format-4 segment boundaries segStarts/segEnds (ascending, trailing
// 0xFFFF sentinel included) and counts, per segment, the groups that fall
// inside it. It returns an error when a group starts before the segment's
// start or before the end of the previous group in the same segment. It
// only compares code ranges: the segments' idDelta/idRangeOffset values
// are not available here and are not checked.
func ValidateType4Alignment(segStarts, segEnds []uint16, f12 cmap.Format12) ([]Fmt4Fmt12Alignment, error) {
	var out []Fmt4Fmt12Alignment
	gi := 0
	for s := range segStarts {
		start, end := uint32(segStarts[s]), uint32(segEnds[s])
		count := 0
		covered := uint32(0)
		for gi < len(f12) && f12[gi].StartCharCode <= end && covered <= end-start {
			g := f12[gi]
			if g.StartCharCode < start+covered {
				return nil, fmt.Errorf("gos: format-12 group overlaps format-4 segment boundary")
			}
			count++
			covered = g.EndCharCode - start + 1
			gi++
			if g.EndCharCode >= end {
				break
			}
		}
		if count == 0 {
			count = 1 // empty segment (e.g. the trailing 0xFFFF sentinel) still contributes a group slot
		}
		out = append(out, Fmt4Fmt12Alignment{Fmt12GroupCount: count})
	}
	return out, nil
}

// GenerateGOSTypes concatenates several GOS streams with a leading count
// byte, per CmapCompacter.generateGOSTypes.
func GenerateGOSTypes(streams [][]byte) []byte {
	out := []byte{byte(len(streams))}
	for _, s := range streams {
		out = append(out, s...)
	}
	return out
}
