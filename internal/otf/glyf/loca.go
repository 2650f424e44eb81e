// Package glyf decodes the pieces of the "glyf"/"loca" tables the
// preprocessor needs: the loca offset array, a glyph's contour count (for
// the Cleaner's empty-outline rule), and a composite glyph's component gids
// (for the ClosureBuilder).
package glyf

import (
	"github.com/tachyfont/tachyfont/internal/otf"
)

// DecodeLoca reads the "loca" table into an array of n+1 byte offsets into
// "glyf" (n = numGlyphs), per indexToLocFormat (0: uint16 x2, 1: uint32).
func DecodeLoca(loca []byte, indexToLocFormat int16, glyfLen int) ([]int, error) {
	var offs []int
	switch indexToLocFormat {
	case 0:
		n := len(loca)
		if n < 4 || n%2 != 0 {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/loca", Reason: "invalid table length"}
		}
		offs = make([]int, n/2)
		prev := 0
		for i := range offs {
			pos := 2 * (int(loca[2*i])<<8 + int(loca[2*i+1]))
			if pos < prev || pos > glyfLen {
				return nil, &otf.InvalidFontError{SubSystem: "sfnt/loca", Reason: "invalid offset"}
			}
			offs[i] = pos
			prev = pos
		}
	case 1:
		n := len(loca)
		if n < 8 || n%4 != 0 {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/loca", Reason: "invalid table length"}
		}
		offs = make([]int, n/4)
		prev := 0
		for i := range offs {
			pos := int(loca[4*i])<<24 + int(loca[4*i+1])<<16 + int(loca[4*i+2])<<8 + int(loca[4*i+3])
			if pos < prev || pos > glyfLen {
				return nil, &otf.InvalidFontError{SubSystem: "sfnt/loca", Reason: "invalid offset"}
			}
			offs[i] = pos
			prev = pos
		}
	default:
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/loca", Feature: "loca table format"}
	}
	return offs, nil
}

// EncodeLoca16 rewrites the n+1 offsets back into a uint16-format loca
// table, in place, assuming len(loca) already matches.
func EncodeLoca16(loca []byte, offs []int) {
	for i, off := range offs {
		x := off / 2
		loca[2*i] = byte(x >> 8)
		loca[2*i+1] = byte(x)
	}
}

// EncodeLoca32 rewrites the n+1 offsets back into a uint32-format loca
// table, in place.
func EncodeLoca32(loca []byte, offs []int) {
	for i, off := range offs {
		loca[4*i] = byte(off >> 24)
		loca[4*i+1] = byte(off >> 16)
		loca[4*i+2] = byte(off >> 8)
		loca[4*i+3] = byte(off)
	}
}
