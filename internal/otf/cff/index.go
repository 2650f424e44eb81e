// Package cff decodes the pieces of a CFF table the preprocessor needs:
// the Top DICT (to locate CharStrings and charset), the CharStrings INDEX
// offset array, and the charset. It does not interpret Type 2 CharString
// bytecode — BaseFonter only ever overwrites or segments CharString bytes,
// never executes them.
package cff

import (
	"github.com/tachyfont/tachyfont/internal/otf"
)

// Index is a parsed CFF INDEX: a count, an offset array (count+1 entries,
// each relative to dataStart-1, matching the CFF spec's 1-based offsets),
// and the byte range of the concatenated object data.
type Index struct {
	Count      int
	OffSize    int
	Offsets    []uint32 // count+1 entries, offsets[0] == 1
	HeaderEnd  int       // byte offset, within the CFF table, where the offset array starts
	DataStart  int       // byte offset, within the CFF table, of object 0
	DataEnd    int       // byte offset, within the CFF table, one past the last object
}

// ReadIndex parses a CFF INDEX starting at offset pos within data (the
// whole "CFF " table). It returns the parsed index and the offset one past
// the end of the INDEX structure.
func ReadIndex(data []byte, pos int) (*Index, int, error) {
	p := otf.NewParser("cff/INDEX", data)
	if err := p.SeekPos(pos); err != nil {
		return nil, 0, err
	}

	count, err := p.ReadUInt16()
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return &Index{Offsets: []uint32{1}}, p.Pos(), nil
	}

	offSize, err := p.ReadUInt8()
	if err != nil {
		return nil, 0, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, 0, &otf.InvalidFontError{SubSystem: "cff", Reason: "invalid CFF INDEX offSize"}
	}

	headerEnd := p.Pos()
	offsets := make([]uint32, int(count)+1)
	prev := uint32(1)
	for i := range offsets {
		v, err := p.ReadOffset(int(offSize))
		if err != nil {
			return nil, 0, err
		}
		if v < prev {
			return nil, 0, &otf.InvalidFontError{SubSystem: "cff", Reason: "invalid CFF INDEX offset"}
		}
		offsets[i] = v
		prev = v
	}

	dataStart := p.Pos()
	dataLen := int(offsets[count] - 1)
	if dataStart+dataLen > len(data) {
		return nil, 0, &otf.InvalidFontError{SubSystem: "cff", Reason: "CFF INDEX data runs past end of table"}
	}

	idx := &Index{
		Count:     int(count),
		OffSize:   int(offSize),
		Offsets:   offsets,
		HeaderEnd: headerEnd,
		DataStart: dataStart,
		DataEnd:   dataStart + dataLen,
	}
	return idx, idx.DataEnd, nil
}

// Get returns the i'th object's byte range, as an offset into the same
// "CFF " table data ReadIndex was called on.
func (idx *Index) Get(i int) (start, end int) {
	return idx.DataStart + int(idx.Offsets[i]-1), idx.DataStart + int(idx.Offsets[i+1]-1)
}

// WriteOffsets rewrites idx's offset array back into data (the "CFF "
// table idx was parsed from) at its original location, using idx.OffSize
// bytes per entry big-endian, as CharStrings offset segmentation does once
// it has replaced idx.Offsets with a block-filled array of the same
// length.
func (idx *Index) WriteOffsets(data []byte, offs []uint32) error {
	if len(offs) != len(idx.Offsets) {
		return &otf.InvalidFontError{SubSystem: "cff", Reason: "WriteOffsets: offset count mismatch"}
	}
	need := idx.HeaderEnd + len(offs)*idx.OffSize
	if need > len(data) {
		return &otf.InvalidFontError{SubSystem: "cff", Reason: "WriteOffsets: offset array runs past end of table"}
	}
	for i, v := range offs {
		pos := idx.HeaderEnd + i*idx.OffSize
		for b := idx.OffSize - 1; b >= 0; b-- {
			data[pos+b] = byte(v)
			v >>= 8
		}
	}
	return nil
}
