// Package cmapcompact implements CmapCompacter (spec section 4.5): it
// picks the smallest-fitting GOS encoding for a font's cmap and CFF
// charset and packs them into the BSAC tags the runtime reads them back
// from.
package cmapcompact

import (
	"fmt"

	"github.com/tachyfont/tachyfont/internal/gos"
	"github.com/tachyfont/tachyfont/internal/otf/cmap"
)

// deltaFits reports whether every start/gid delta in groups fits in
// startBits/gidBits two's-complement-free unsigned deltas (GOS types 2/3
// only ever see non-negative deltas by construction, since format-12
// groups are stored in ascending start-code order).
func deltaFits(groups cmap.Format12, startBits, lengthBits, gidBits int) bool {
	maxStart := (int64(1) << uint(startBits)) - 1
	maxLength := (int64(1) << uint(lengthBits)) - 1
	var hasGidBits bool = gidBits > 0
	maxGid := int64(1)<<uint(gidBits) - 1
	var prevStart, prevGid int64
	for i, g := range groups {
		dStart := int64(g.StartCharCode)
		dGid := int64(g.StartGlyphID)
		if i > 0 {
			dStart -= prevStart
			dGid -= prevGid
		}
		length := int64(g.EndCharCode - g.StartCharCode)
		if dStart < 0 || dStart >= maxStart || length >= maxLength {
			return false
		}
		if hasGidBits && (dGid < 0 || dGid >= maxGid) {
			return false
		}
		prevStart = int64(g.StartCharCode)
		prevGid = int64(g.StartGlyphID)
	}
	return true
}

// CompactCmap12 picks GOS type 2 (tightest) if every group's deltas fit
// its field widths, else type 3, else the unconstrained type 5 fallback.
func CompactCmap12(groups cmap.Format12) []byte {
	switch {
	case deltaFits(groups, 3, 2, 3):
		return gos.EncodeType2(groups)
	case deltaFits(groups, 5, 3, 0):
		return gos.EncodeType3(groups)
	default:
		return gos.EncodeType5(groups)
	}
}

// CompactCmap builds the CCMP payload per spec section 4.5/6: the
// smallest-fitting cmap12 GOS stream (type 2, 3, or 5) and, when the
// font carries a format-4 subtable whose segments align cleanly onto the
// format-12 groups, a type 4 stream on top of it. format4SegStarts and
// format4SegEnds may both be nil when the font has no format-4 subtable,
// in which case only the cmap12 stream is emitted. A present format-4
// subtable that fails the alignment rule is a fatal error per spec
// section 4.5 ("violations are fatal"), not a silent fallback.
func CompactCmap(groups cmap.Format12, format4SegStarts, format4SegEnds []uint16) ([]byte, error) {
	streams := [][]byte{CompactCmap12(groups)}
	if len(format4SegStarts) > 0 {
		alignments, err := gos.ValidateType4Alignment(format4SegStarts, format4SegEnds, groups)
		if err != nil {
			return nil, fmt.Errorf("cmapcompact: format-4 segment does not align to format-12 groups: %w", err)
		}
		streams = append(streams, gos.EncodeType4(alignments))
	}
	return gos.GenerateGOSTypes(streams), nil
}

// CompactCharset picks GOS type 6 or 7 depending on the source charset's
// format.
func CompactCharset(format int, cffTableOffset, charsetOffset uint32, ranges []gos.CharsetRange) ([]byte, error) {
	switch format {
	case 2:
		return gos.EncodeType6(cffTableOffset, charsetOffset, ranges), nil
	case 1:
		return gos.EncodeType7(cffTableOffset, charsetOffset, ranges), nil
	default:
		return nil, errUnsupportedCharsetFormat
	}
}
