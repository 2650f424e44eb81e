package cff

import (
	"github.com/tachyfont/tachyfont/internal/gos"
	"github.com/tachyfont/tachyfont/internal/otf"
)

// Predefined charset offsets, per the CFF spec. BaseFonter only needs to
// recognize these to know a custom charset isn't present.
const (
	ISOAdobeCharset    = 0
	ExpertCharset      = 1
	ExpertSubsetCharset = 2
)

// ZeroCharsetFormat2 overwrites, in place, the SID/nLeft pairs of a
// format-2 custom charset with zero bytes, per spec section 4.3: the
// preprocessor segments CharStrings by gid and has no use for the SID
// mapping, so the field is zeroed rather than dropped (dropping it would
// shift every later table's offsets, not just this one's payload).
//
// data is a buffer holding the charset (cmd/tachyfont-build passes the
// whole base font); pos is the byte offset, within data, of the charset's
// format byte. numGlyphs is the font's glyph count from maxp; glyph 0
// (.notdef) has no charset entry, so the ranges cover numGlyphs - 1
// glyphs.
func ZeroCharsetFormat2(data []byte, pos int, numGlyphs int) error {
	if pos >= len(data) {
		return &otf.InvalidFontError{SubSystem: "cff/charset", Reason: "charset offset out of range"}
	}
	format := data[pos]
	if format != 2 {
		return &otf.NotSupportedError{SubSystem: "cff/charset", Feature: "non-format-2 charset zeroing"}
	}

	pos++
	remaining := numGlyphs - 1 // glyph 0 has no charset entry
	for remaining > 0 {
		if pos+4 > len(data) {
			return &otf.InvalidFontError{SubSystem: "cff/charset", Reason: "truncated format-2 charset range"}
		}
		nLeft := int(data[pos+2])<<8 | int(data[pos+3])
		data[pos], data[pos+1], data[pos+2], data[pos+3] = 0, 0, 0, 0
		pos += 4
		remaining -= 1 + nLeft
	}
	return nil
}

// ReadCharsetRanges parses a format-1 or format-2 custom charset into the
// (first SID, nLeft) range list CmapCompacter needs, without mutating
// data. format must be 1 or 2; format-1 ranges use a one-byte nLeft,
// format-2 a two-byte nLeft.
func ReadCharsetRanges(data []byte, pos int, numGlyphs int, format int) ([]gos.CharsetRange, error) {
	if format != 1 && format != 2 {
		return nil, &otf.NotSupportedError{SubSystem: "cff/charset", Feature: "predefined or unrecognized charset format"}
	}
	if pos >= len(data) || int(data[pos]) != format {
		return nil, &otf.InvalidFontError{SubSystem: "cff/charset", Reason: "charset format mismatch"}
	}
	nLeftSize := 1
	if format == 2 {
		nLeftSize = 2
	}

	pos++
	var ranges []gos.CharsetRange
	remaining := numGlyphs - 1
	for remaining > 0 {
		if pos+2+nLeftSize > len(data) {
			return nil, &otf.InvalidFontError{SubSystem: "cff/charset", Reason: "truncated charset range"}
		}
		first := int(data[pos])<<8 | int(data[pos+1])
		var nLeft int
		if format == 2 {
			nLeft = int(data[pos+2])<<8 | int(data[pos+3])
		} else {
			nLeft = int(data[pos+2])
		}
		ranges = append(ranges, gos.CharsetRange{First: first, NLeft: nLeft})
		pos += 2 + nLeftSize
		remaining -= 1 + nLeft
	}
	return ranges, nil
}
