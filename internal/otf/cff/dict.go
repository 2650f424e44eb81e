package cff

import (
	"github.com/tachyfont/tachyfont/internal/otf"
)

// Top DICT operators this pipeline cares about. Two-byte operators are
// encoded here as 0xc00|b1, matching the escape convention used by the
// CFF DICT grammar (12 b1).
const (
	opCharset     = 15
	opCharStrings = 17
	opROS         = 0xc00 | 30
	opFDArray     = 0xc00 | 36
	opFDSelect    = 0xc00 | 37
)

// TopDict holds the Top DICT entries needed to locate the CharStrings
// INDEX and the charset, and to reject CID-keyed CFF fonts (spec section
// 4.3 scopes the CFF path to non-CID fonts; FDArray/FDSelect indirection
// is not implemented).
type TopDict struct {
	CharStringsOffset int
	CharsetOffset     int // 0, 1, or 2 for predefined charsets; >2 is a table offset
	IsCIDKeyed        bool
}

// ParseTopDict reads a Top DICT's byte range (from the Top DICT INDEX, the
// first and only object the pipeline needs) and extracts CharStrings and
// charset offsets.
func ParseTopDict(dict []byte) (*TopDict, error) {
	var operands []int64
	td := &TopDict{CharsetOffset: ISOAdobeCharset}

	pos := 0
	for pos < len(dict) {
		b0 := dict[pos]
		switch {
		case b0 <= 21:
			op := int(b0)
			pos++
			if b0 == 12 {
				if pos >= len(dict) {
					return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "truncated two-byte operator"}
				}
				op = 0xc00 | int(dict[pos])
				pos++
			}
			switch op {
			case opCharStrings:
				if len(operands) < 1 {
					return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "CharStrings operator missing operand"}
				}
				td.CharStringsOffset = int(operands[len(operands)-1])
			case opCharset:
				if len(operands) < 1 {
					return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "charset operator missing operand"}
				}
				td.CharsetOffset = int(operands[len(operands)-1])
			case opROS, opFDArray, opFDSelect:
				td.IsCIDKeyed = true
			}
			operands = operands[:0]

		case b0 == 28:
			if pos+3 > len(dict) {
				return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "truncated int16 operand"}
			}
			v := int16(dict[pos+1])<<8 | int16(dict[pos+2])
			operands = append(operands, int64(v))
			pos += 3

		case b0 == 29:
			if pos+5 > len(dict) {
				return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "truncated int32 operand"}
			}
			v := int32(dict[pos+1])<<24 | int32(dict[pos+2])<<16 | int32(dict[pos+3])<<8 | int32(dict[pos+4])
			operands = append(operands, int64(v))
			pos += 5

		case b0 == 30: // real number, nibble-encoded; value unused by this pipeline
			pos++
			for pos < len(dict) {
				lo := dict[pos] & 0x0f
				hi := dict[pos] >> 4
				pos++
				if lo == 0xf || hi == 0xf {
					break
				}
			}
			operands = append(operands, 0)

		case b0 >= 32 && b0 <= 246:
			operands = append(operands, int64(b0)-139)
			pos++

		case b0 >= 247 && b0 <= 250:
			if pos+2 > len(dict) {
				return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "truncated operand"}
			}
			operands = append(operands, (int64(b0)-247)*256+int64(dict[pos+1])+108)
			pos += 2

		case b0 >= 251 && b0 <= 254:
			if pos+2 > len(dict) {
				return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "truncated operand"}
			}
			operands = append(operands, -(int64(b0)-251)*256-int64(dict[pos+1])-108)
			pos += 2

		default:
			return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "reserved DICT byte"}
		}
	}

	if td.CharStringsOffset == 0 {
		return nil, &otf.InvalidFontError{SubSystem: "cff/dict", Reason: "Top DICT missing CharStrings"}
	}
	return td, nil
}
