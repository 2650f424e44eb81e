// Package bsac packs and parses the typed "BSAC" header TachyFont
// prepends to preprocessed artifacts: a magic, a total length, a version,
// and a tagged value table. The layout mirrors the table-directory style
// internal/otf.Header reads, applied to arbitrary metadata instead of
// sfnt table offsets.
package bsac

import (
	"fmt"
)

// Well-known tags, per spec section 6.
const (
	TagGlyphOrigin       = "GLOF"
	TagGlyphCount        = "GLCN"
	TagOffsetsStart      = "LCOF"
	TagOffsetElementSize = "LCFM"
	TagHmtxOffset        = "HMOF"
	TagVmtxOffset        = "VMOF"
	TagHmtxCount         = "HMMC"
	TagVmtxCount         = "VMMC"
	TagFlavor            = "TYPE"
	TagCompactCmap       = "CCMP"
	TagCmap12Origin      = "CM12"
	TagCharsetGOS        = "CS02"
)

const magic = "BSAC"

// Entry is one tag/value pair of a BSAC header, in insertion order.
type Entry struct {
	Tag   string
	Value []byte
}

// Header is an in-memory BSAC header, built incrementally with Add and
// serialized with Encode.
type Header struct {
	Version uint32
	entries []Entry
}

// NewHeader creates an empty header with the given format version.
func NewHeader(version uint32) *Header {
	return &Header{Version: version}
}

// Add appends a tag/value entry. Tags must be exactly 4 bytes.
func (h *Header) Add(tag string, value []byte) error {
	if len(tag) != 4 {
		return fmt.Errorf("bsac: tag %q must be 4 bytes", tag)
	}
	h.entries = append(h.entries, Entry{Tag: tag, Value: value})
	return nil
}

// Encode serializes the header: "BSAC" || total_length:u32 || version:u32
// || entry_count:u16 || [tag:4s, value_offset:u32] x n || concat(values).
// value_offset is the running byte offset into the values region,
// assigned in insertion order.
func (h *Header) Encode() []byte {
	entryCount := len(h.entries)
	directorySize := 4 + 4 + 4 + 2 + entryCount*8

	var values []byte
	offsets := make([]uint32, entryCount)
	for i, e := range h.entries {
		offsets[i] = uint32(len(values))
		values = append(values, e.Value...)
	}

	total := directorySize + len(values)
	out := make([]byte, 0, total)
	out = append(out, magic...)
	out = appendU32(out, uint32(total))
	out = appendU32(out, h.Version)
	out = appendU16(out, uint16(entryCount))
	for i, e := range h.entries {
		out = append(out, e.Tag...)
		out = appendU32(out, offsets[i])
	}
	out = append(out, values...)
	return out
}

// Parse decodes a BSAC header from the front of data and returns the
// parsed header plus the byte offset one past the header (where the
// payload, e.g. the RLE-encoded base font, begins).
func Parse(data []byte) (*Header, int, error) {
	if len(data) < 10 || string(data[0:4]) != magic {
		return nil, 0, fmt.Errorf("bsac: missing magic")
	}
	total := readU32(data, 4)
	version := readU32(data, 8)
	if len(data) < 14 {
		return nil, 0, fmt.Errorf("bsac: truncated header")
	}
	entryCount := int(readU16(data, 12))
	dirEnd := 14 + entryCount*8
	if int(total) > len(data) || dirEnd > len(data) {
		return nil, 0, fmt.Errorf("bsac: header directory exceeds input")
	}

	h := NewHeader(version)
	valuesStart := dirEnd
	for i := 0; i < entryCount; i++ {
		base := 14 + i*8
		tag := string(data[base : base+4])
		off := int(readU32(data, base+4))
		var end int
		if i+1 < entryCount {
			end = int(readU32(data, 14+(i+1)*8+4))
		} else {
			end = int(total) - valuesStart
		}
		if valuesStart+off > len(data) || valuesStart+end > len(data) || end < off {
			return nil, 0, fmt.Errorf("bsac: entry %q value out of range", tag)
		}
		h.entries = append(h.entries, Entry{Tag: tag, Value: data[valuesStart+off : valuesStart+end]})
	}
	return h, int(total), nil
}

// Get returns the value for the first entry with the given tag.
func (h *Header) Get(tag string) ([]byte, bool) {
	for _, e := range h.entries {
		if e.Tag == tag {
			return e.Value, true
		}
	}
	return nil, false
}

func appendU32(out []byte, v uint32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func appendU16(out []byte, v uint16) []byte {
	return append(out, byte(v>>8), byte(v))
}
func readU32(data []byte, pos int) uint32 {
	return uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
}
func readU16(data []byte, pos int) uint16 {
	return uint16(data[pos])<<8 | uint16(data[pos+1])
}
