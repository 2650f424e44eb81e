package cleaner

import (
	"sort"

	"github.com/tachyfont/tachyfont/internal/otf/cmap"
	"github.com/tachyfont/tachyfont/internal/otf/glyf"
)

// ReverseCmap builds gid -> codepoint from a unified code -> gid map,
// preferring the smallest codepoint when more than one maps to the same
// gid (matching the "first wins" convention font tools use for reverse
// lookups).
func ReverseCmap(unified map[rune]uint32) map[uint16]rune {
	out := map[uint16]rune{}
	codes := cmap.SortedCodepoints(unified)
	for i := len(codes) - 1; i >= 0; i-- {
		c := codes[i]
		gid := uint16(unified[c])
		out[gid] = c // later (smaller, since iterating descending) overwrites
	}
	return out
}

// InvalidGids returns the TrueType gids that are safe to drop: non-.notdef
// glyphs with a zero-contour outline whose reverse-cmap codepoint (if any)
// is not in the exception set. A gid with no reverse-cmap entry at all is
// still droppable, since it marks abstract/unreachable glyph ids.
func InvalidGids(glyfData []byte, locaOffs []int, reverseCmap map[uint16]rune) ([]uint16, error) {
	var invalid []uint16
	for gid := 1; gid+1 < len(locaOffs); gid++ {
		start, end := locaOffs[gid], locaOffs[gid+1]
		var glyphBytes []byte
		if end > start {
			glyphBytes = glyfData[start:end]
		}
		contours, err := glyf.NumberOfContours(glyphBytes)
		if err != nil {
			return nil, err
		}
		if contours != 0 {
			continue
		}
		if r, ok := reverseCmap[uint16(gid)]; ok && IsException(r) {
			continue
		}
		invalid = append(invalid, uint16(gid))
	}
	return invalid, nil
}

// KeepSet returns the sorted gids to retain: every gid in [0, numGlyphs)
// except those in invalid, with gid 0 (.notdef) always present.
func KeepSet(numGlyphs int, invalid []uint16) []uint16 {
	drop := make(map[uint16]bool, len(invalid))
	for _, g := range invalid {
		drop[g] = true
	}
	keep := make([]uint16, 0, numGlyphs-len(invalid))
	for g := 0; g < numGlyphs; g++ {
		if g == 0 || !drop[uint16(g)] {
			keep = append(keep, uint16(g))
		}
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })
	return keep
}

// FlattenedFormat4 rewrites a format-4 cmap as a flat form per spec
// section 4.1: idRangeOffset is zero for every segment, glyphIdArray is
// empty, idDelta alone encodes the mapping, and the trailing 0xFFFF
// sentinel segment is preserved. cmap.Format4.Encode already only ever
// emits delta segments (this pipeline's encoder never produces
// idRangeOffset-based segments), so flattening here is a pass-through
// documented for spec traceability rather than a distinct transform.
func FlattenedFormat4(f4 cmap.Format4, language uint16) []byte {
	return f4.Encode(language)
}
