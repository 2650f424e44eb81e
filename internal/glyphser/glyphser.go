// Package glyphser implements GlyphSerializer (spec section 4.4): it
// emits the glyph_table index and glyph_data payload the bundle assembler
// slices per request.
package glyphser

const (
	HasHMTX = 1 << 0
	HasVMTX = 1 << 1
	HasCFF  = 1 << 2
	Dirty   = 0x40
)

// Entry is one glyph_table record.
type Entry struct {
	GID      uint16
	HAdvance int16 // present iff flags&HasHMTX
	VAdvance int16 // present iff flags&HasVMTX
	Offset   uint32
	Length   uint16
}

// entrySize returns the byte size of one record under the given flags.
func entrySize(flags uint16) int {
	size := 2 + 4 + 2 // gid, offset, length
	if flags&HasHMTX != 0 {
		size += 2
	}
	if flags&HasVMTX != 0 {
		size += 2
	}
	return size
}

// EncodeTrueType serializes a TrueType glyph_table: flags:u16 ||
// numGlyphs:u16 || records.
func EncodeTrueType(flags uint16, entries []Entry) []byte {
	out := make([]byte, 0, 4+len(entries)*entrySize(flags))
	out = putU16(out, flags)
	out = putU16(out, uint16(len(entries)))
	for _, e := range entries {
		out = appendEntry(out, flags, e)
	}
	return out
}

// EncodeCFF serializes a CFF glyph_table: flags:u16 || numGlyphs:u16 ||
// cffDataRegionOffset:u32 || records.
func EncodeCFF(flags uint16, cffDataRegionOffset uint32, entries []Entry) []byte {
	flags |= HasCFF
	out := make([]byte, 0, 8+len(entries)*entrySize(flags))
	out = putU16(out, flags)
	out = putU16(out, uint16(len(entries)))
	out = putU32(out, cffDataRegionOffset)
	for _, e := range entries {
		out = appendEntry(out, flags, e)
	}
	return out
}

func appendEntry(out []byte, flags uint16, e Entry) []byte {
	out = putU16(out, e.GID)
	if flags&HasHMTX != 0 {
		out = putU16(out, uint16(e.HAdvance))
	}
	if flags&HasVMTX != 0 {
		out = putU16(out, uint16(e.VAdvance))
	}
	out = putU32(out, e.Offset)
	out = putU16(out, e.Length)
	return out
}

// BuildGlyphData concatenates glyph byte payloads tightly (no loca-style
// gaps) and returns, per gid, its packed offset into the concatenated
// buffer alongside the buffer itself. Used for the TrueType flavor, whose
// glyph_table offsets address this packed region rather than the source
// font's loca layout. A gid in drop (the Cleaner's invalid-gid set) is
// recorded with length 0 and contributes no bytes to data, so a dropped
// zero-contour glyph is never served from glyph_data.
func BuildGlyphData(glyfData []byte, locaOffs []int, drop map[uint16]bool) (data []byte, offsets []uint32, lengths []uint16) {
	offsets = make([]uint32, len(locaOffs)-1)
	lengths = make([]uint16, len(locaOffs)-1)
	for gid := 0; gid+1 < len(locaOffs); gid++ {
		offsets[gid] = uint32(len(data))
		if drop[uint16(gid)] {
			continue
		}
		start, end := locaOffs[gid], locaOffs[gid+1]
		lengths[gid] = uint16(end - start)
		data = append(data, glyfData[start:end]...)
	}
	return data, offsets, lengths
}

func putU16(out []byte, v uint16) []byte { return append(out, byte(v>>8), byte(v)) }
func putU32(out []byte, v uint32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// DecodeHeader reads flags and numGlyphs common to both flavors, and, for
// CFF, cffDataRegionOffset.
func DecodeHeader(table []byte, hasCFF bool) (flags uint16, numGlyphs uint16, cffDataRegionOffset uint32, headerSize int, err error) {
	if len(table) < 4 {
		return 0, 0, 0, 0, errTooShort
	}
	flags = uint16(table[0])<<8 | uint16(table[1])
	numGlyphs = uint16(table[2])<<8 | uint16(table[3])
	headerSize = 4
	if hasCFF {
		if len(table) < 8 {
			return 0, 0, 0, 0, errTooShort
		}
		cffDataRegionOffset = uint32(table[4])<<24 | uint32(table[5])<<16 | uint32(table[6])<<8 | uint32(table[7])
		headerSize = 8
	}
	return flags, numGlyphs, cffDataRegionOffset, headerSize, nil
}

// ReadEntry decodes the gid-th record given the table's flags and header
// size, enabling the O(1) lookup the bundle assembler relies on.
func ReadEntry(table []byte, flags uint16, headerSize, gid int) (Entry, error) {
	size := entrySize(flags)
	pos := headerSize + gid*size
	if pos+size > len(table) {
		return Entry{}, errOutOfRange
	}
	e := Entry{}
	e.GID = uint16(table[pos])<<8 | uint16(table[pos+1])
	pos += 2
	if flags&HasHMTX != 0 {
		e.HAdvance = int16(table[pos])<<8 | int16(table[pos+1])
		pos += 2
	}
	if flags&HasVMTX != 0 {
		e.VAdvance = int16(table[pos])<<8 | int16(table[pos+1])
		pos += 2
	}
	e.Offset = uint32(table[pos])<<24 | uint32(table[pos+1])<<16 | uint32(table[pos+2])<<8 | uint32(table[pos+3])
	pos += 4
	e.Length = uint16(table[pos])<<8 | uint16(table[pos+1])
	return e, nil
}
