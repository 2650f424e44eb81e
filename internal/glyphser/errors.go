package glyphser

import "errors"

var (
	errTooShort   = errors.New("glyphser: glyph_table header too short")
	errOutOfRange = errors.New("glyphser: glyph_table record out of range")
)
