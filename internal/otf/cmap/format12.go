package cmap

import (
	"sort"

	"github.com/tachyfont/tachyfont/internal/otf"
)

// Format12 is a format 12 "segmented coverage" cmap subtable: groups of
// contiguous (charCode, glyphID) runs. TachyFont's CmapCompacter reads
// format 12 groups directly into GOS type 2/3/5 records and checks them
// against format-4 segments for type 4.
type Format12 []Group

// Group is one segmented-coverage group.
type Group struct {
	StartCharCode uint32
	EndCharCode   uint32
	StartGlyphID  uint32
}

// DecodeFormat12 parses a format 12 subtable's bytes (the subtable itself,
// starting at its format field).
func DecodeFormat12(data []byte) (Format12, error) {
	if len(data) < 16 {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap12", Reason: "subtable too short"}
	}
	nGroups := be32(data, 12)
	if uint64(len(data)) != 16+uint64(nGroups)*12 || nGroups > 1_000_000 {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap12", Reason: "group count inconsistent with table length"}
	}

	groups := make(Format12, nGroups)
	prevEnd := int64(-1)
	for i := uint32(0); i < nGroups; i++ {
		base := 16 + i*12
		start := be32(data, int(base))
		end := be32(data, int(base+4))
		gid := be32(data, int(base+8))
		if int64(start) <= prevEnd || end < start {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap12", Reason: "groups out of order or overlapping"}
		}
		groups[i] = Group{StartCharCode: start, EndCharCode: end, StartGlyphID: gid}
		prevEnd = int64(end)
	}
	return groups, nil
}

// Lookup returns the gid mapped to code, or 0 if code is unmapped.
func (f Format12) Lookup(code uint32) uint32 {
	i := sort.Search(len(f), func(i int) bool { return code <= f[i].EndCharCode })
	if i == len(f) || f[i].StartCharCode > code {
		return 0
	}
	return f[i].StartGlyphID + (code - f[i].StartCharCode)
}

// Encode serializes the groups back into a format 12 subtable.
func (f Format12) Encode(language uint32) []byte {
	n := len(f)
	length := 16 + n*12
	out := make([]byte, length)
	out[1] = 12
	putBE32(out, 4, uint32(length))
	putBE32(out, 8, language)
	putBE32(out, 12, uint32(n))
	for i, g := range f {
		base := 16 + i*12
		putBE32(out, base, g.StartCharCode)
		putBE32(out, base+4, g.EndCharCode)
		putBE32(out, base+8, g.StartGlyphID)
	}
	return out
}

func be32(data []byte, pos int) uint32 {
	return uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
}

func putBE32(data []byte, pos int, v uint32) {
	data[pos] = byte(v >> 24)
	data[pos+1] = byte(v >> 16)
	data[pos+2] = byte(v >> 8)
	data[pos+3] = byte(v)
}
