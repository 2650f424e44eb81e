// Package cleaner implements the preprocessor's first stage: marking
// glyphs invalid (empty TrueType outlines outside the exception set),
// computing the complement to keep while preserving .notdef, and
// flattening format-4 cmap segments. Hinting programs are not stripped
// here; cmd/tachyfont-build zeroes them in the base font.
package cleaner

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// exceptionCodepoints enumerates the whitespace and default-ignorable
// codepoints that must never be dropped even if their glyph has an empty
// outline (spec section 4.1). rangetable.New builds the lookup structure
// unicode.Is expects from this explicit member list, the same way the
// stdlib builds its own unicode.RangeTable category tables.
var exceptionCodepoints = func() []rune {
	var out []rune
	addRange := func(lo, hi rune) {
		for r := lo; r <= hi; r++ {
			out = append(out, r)
		}
	}
	addRange(0x0009, 0x000D)
	addRange(0x0020, 0x0020)
	addRange(0x0085, 0x0085)
	addRange(0x00A0, 0x00A0)
	addRange(0x00AD, 0x00AD)
	addRange(0x034F, 0x034F)
	addRange(0x061C, 0x061C)
	addRange(0x115F, 0x1160)
	addRange(0x1680, 0x1680)
	addRange(0x17B4, 0x17B5)
	addRange(0x180B, 0x180E)
	addRange(0x2000, 0x200F)
	addRange(0x2028, 0x202E)
	addRange(0x202F, 0x202F)
	addRange(0x205F, 0x205F)
	addRange(0x2060, 0x206F)
	addRange(0x3000, 0x3000)
	addRange(0x3164, 0x3164)
	addRange(0xFE00, 0xFE0F)
	addRange(0xFEFF, 0xFEFF)
	addRange(0xFFA0, 0xFFA0)
	addRange(0x1D173, 0x1D17A)
	return out
}()

// ExceptionSet is the set of codepoints a gid's outline is allowed to be
// empty for without being marked invalid.
var ExceptionSet = rangetable.New(exceptionCodepoints...)

// IsException reports whether r is a whitespace/default-ignorable
// codepoint exempt from the empty-outline invalidity rule.
func IsException(r rune) bool {
	return unicode.Is(ExceptionSet, r)
}
