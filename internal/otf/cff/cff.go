package cff

import (
	"github.com/tachyfont/tachyfont/internal/otf"
)

// Table is a parsed "CFF " table: the Top DICT's CharStrings and charset
// locations, and the CharStrings INDEX itself, which BaseFonter segments
// and GlyphSerializer slices per glyph.
type Table struct {
	Top         *TopDict
	CharStrings *Index
}

// headerSize is the fixed portion of the CFF table header; the header's
// own length is recorded in its 4th byte, but every font this pipeline
// accepts uses the canonical 4-byte header.
const headerSize = 4

// Parse reads a "CFF " table far enough to locate CharStrings, rejecting
// CID-keyed fonts (spec section 4.3 scopes the CFF path to non-CID
// fonts).
func Parse(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, &otf.InvalidFontError{SubSystem: "cff", Reason: "table too short"}
	}
	hdrSize := int(data[2])
	if hdrSize < headerSize || hdrSize > len(data) {
		return nil, &otf.InvalidFontError{SubSystem: "cff", Reason: "invalid header size"}
	}

	_, nameEnd, err := ReadIndex(data, hdrSize)
	if err != nil {
		return nil, err
	}
	topIdx, topEnd, err := ReadIndex(data, nameEnd)
	if err != nil {
		return nil, err
	}
	if topIdx.Count != 1 {
		return nil, &otf.InvalidFontError{SubSystem: "cff", Reason: "Top DICT INDEX must have exactly one entry"}
	}
	_, _, err = ReadIndex(data, topEnd) // String INDEX; contents unused
	if err != nil {
		return nil, err
	}

	start, end := topIdx.Get(0)
	top, err := ParseTopDict(data[start:end])
	if err != nil {
		return nil, err
	}
	if top.IsCIDKeyed {
		return nil, &otf.NotSupportedError{SubSystem: "cff", Feature: "CID-keyed CFF"}
	}

	charStrings, _, err := ReadIndex(data, top.CharStringsOffset)
	if err != nil {
		return nil, err
	}

	return &Table{Top: top, CharStrings: charStrings}, nil
}
