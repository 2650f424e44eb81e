package glyf

import "github.com/tachyfont/tachyfont/internal/otf"

// NumberOfContours reads the first field of a simple/composite glyph
// header. A zero-length glyph slice (an already-empty outline) reports 0,
// matching fontTools' convention that an empty glyph has no contours.
func NumberOfContours(glyph []byte) (int16, error) {
	if len(glyph) == 0 {
		return 0, nil
	}
	if len(glyph) < 10 {
		return 0, &otf.InvalidFontError{SubSystem: "sfnt/glyf", Reason: "incomplete glyph header"}
	}
	return int16(glyph[0])<<8 | int16(glyph[1]), nil
}

// Composite glyph component flags, as defined by the OpenType spec's
// "Composite Glyph Description" section.
const (
	flagArgsAreWords    = 0x0001
	flagArgsAreXYValues = 0x0002
	flagWeHaveAScale    = 0x0008
	flagMoreComponents  = 0x0020
	flagWeHaveXYScale   = 0x0040
	flagWeHave2x2       = 0x0080
	flagWeHaveInstructions = 0x0100
)

// ComponentGIDs returns the glyph ids referenced by a composite glyph's
// component records, in file order.  It returns nil, nil for a simple
// glyph (numberOfContours >= 0) or an empty glyph.
func ComponentGIDs(glyph []byte) ([]uint16, error) {
	contours, err := NumberOfContours(glyph)
	if err != nil {
		return nil, err
	}
	if contours >= 0 {
		return nil, nil
	}

	pos := 10 // past the shared glyph header (numberOfContours + bbox)
	var gids []uint16
	for {
		if pos+4 > len(glyph) {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/glyf", Reason: "truncated composite glyph"}
		}
		flags := uint16(glyph[pos])<<8 | uint16(glyph[pos+1])
		gid := uint16(glyph[pos+2])<<8 | uint16(glyph[pos+3])
		gids = append(gids, gid)
		pos += 4

		var argSize int
		if flags&flagArgsAreWords != 0 {
			argSize = 4
		} else {
			argSize = 2
		}
		pos += argSize

		switch {
		case flags&flagWeHave2x2 != 0:
			pos += 8
		case flags&flagWeHaveXYScale != 0:
			pos += 4
		case flags&flagWeHaveAScale != 0:
			pos += 2
		}

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	return gids, nil
}
