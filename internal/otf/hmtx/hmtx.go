// Package hmtx decodes the "hhea"/"hmtx" (and "vhea"/"vmtx") table pair
// well enough for the preprocessor's side-bearing zeroing pass (spec
// section 4.3): it needs the byte offset of each glyph's side-bearing
// field, not a full metrics model.
package hmtx

import (
	"encoding/binary"

	"github.com/tachyfont/tachyfont/internal/otf"
)

const hheaLength = 36

// SideBearingOffsets returns, for each glyph in [0, numGlyphs), the byte
// offset within the hmtx/vmtx table of its two-byte side-bearing field.
// The advance field (present only for the first numberOfLongMetrics
// entries) is left untouched by the caller.
func SideBearingOffsets(hhea []byte, numGlyphs int) ([]int, error) {
	if len(hhea) < hheaLength {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/hmtx", Reason: "hhea table too short"}
	}
	numLongMetrics := int(binary.BigEndian.Uint16(hhea[34:36]))
	if numLongMetrics == 0 || numLongMetrics > numGlyphs {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/hmtx", Reason: "invalid numberOfLongMetrics"}
	}

	offs := make([]int, numGlyphs)
	pos := 0
	for i := 0; i < numGlyphs; i++ {
		if i < numLongMetrics {
			pos += 2 // advance width/height
		}
		offs[i] = pos
		pos += 2 // side bearing
	}
	return offs, nil
}

// ZeroSideBearings overwrites every side-bearing field of an hmtx/vmtx
// table with zero, in place, preserving every advance field.
func ZeroSideBearings(hhea, metrics []byte, numGlyphs int) error {
	offs, err := SideBearingOffsets(hhea, numGlyphs)
	if err != nil {
		return err
	}
	needed := 0
	if len(offs) > 0 {
		needed = offs[len(offs)-1] + 2
	}
	if len(metrics) < needed {
		return &otf.InvalidFontError{SubSystem: "sfnt/hmtx", Reason: "metrics table too short"}
	}
	for _, off := range offs {
		metrics[off] = 0
		metrics[off+1] = 0
	}
	return nil
}
