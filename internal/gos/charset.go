package gos

// CharsetRange is one (first SID, nLeft) range from a CFF format-1 or
// format-2 charset.
type CharsetRange struct {
	First  int
	NLeft  int
}

// EncodeType6 packs a format-2 CFF charset's ranges as delta-first (5
// bits) / delta-nLeft (3 bits), prefixed by the absolute table offset of
// the charset within the font file.
func EncodeType6(cffTableOffset, charsetOffset uint32, ranges []CharsetRange) []byte {
	return encodeCharsetGOS(TagCharsetFmt2, cffTableOffset, charsetOffset, ranges)
}

// EncodeType7 is EncodeType6's format-1 counterpart; the wire layout is
// identical, only the tag differs, since both formats reduce to the same
// (first, nLeft) range list once parsed.
func EncodeType7(cffTableOffset, charsetOffset uint32, ranges []CharsetRange) []byte {
	return encodeCharsetGOS(TagCharsetFmt1, cffTableOffset, charsetOffset, ranges)
}

func encodeCharsetGOS(tag Tag, cffTableOffset, charsetOffset uint32, ranges []CharsetRange) []byte {
	esc := NewEscaper()
	bw := &BitWriter{}
	var prevFirst, prevNLeft int64
	for i, r := range ranges {
		dFirst := int64(r.First)
		dNLeft := int64(r.NLeft)
		if i > 0 {
			dFirst -= prevFirst
			dNLeft -= prevNLeft
		}
		esc.BitEncodeAllOnesEscape(bw, dFirst, 5)
		esc.BitEncodeAllOnesEscape(bw, dNLeft, 3)
		prevFirst = int64(r.First)
		prevNLeft = int64(r.NLeft)
	}
	out := []byte{byte(tag)}
	out = putU32(out, cffTableOffset+charsetOffset)
	out = putU16(out, uint16(len(ranges)))
	out = append(out, bw.Bytes()...)
	out = append(out, esc.Bytes()...)
	return out
}
