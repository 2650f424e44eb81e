// Package basefont implements BaseFonter (spec section 4.3): it turns a
// cleaned font into the base artifact clients patch incrementally — side
// bearings zeroed, outline payload erased, offset tables segmented into
// fixed-size blocks, and the whole thing run-length encoded.
package basefont

import (
	"fmt"

	"github.com/tachyfont/tachyfont/internal/bsac"
	"github.com/tachyfont/tachyfont/internal/otf/hmtx"
	"github.com/tachyfont/tachyfont/internal/rle"
)

// LocaBlockSize is the fixed block size both the TrueType loca
// segmentation and the CFF CharStrings offset segmentation use.
const LocaBlockSize = 64

// ZeroSideBearings is the common pass shared by both flavors.
func ZeroSideBearings(hhea, hmtxTable []byte, numGlyphs int) error {
	return hmtx.ZeroSideBearings(hhea, hmtxTable, numGlyphs)
}

// SegmentLocaLastFill partitions n loca offsets into LocaBlockSize blocks
// and, within each block, sets every entry to the block's last value (or,
// for the trailing partial block, the array's last value). It returns the
// rewritten offsets; EncodeLoca16/32 serialize them back.
func SegmentLocaLastFill(offs []int) []int {
	out := make([]int, len(offs))
	copy(out, offs)
	n := len(out)
	for lo := 0; lo < n; lo += LocaBlockSize {
		hi := lo + LocaBlockSize
		if hi > n {
			hi = n
		}
		fillValue := out[hi-1]
		if hi == n && n%LocaBlockSize != 0 {
			fillValue = out[n-1]
		}
		for i := lo; i < hi; i++ {
			out[i] = fillValue
		}
	}
	return out
}

// SegmentOffsetsFirstFill is the CFF CharStrings INDEX's offset-array
// analogue of SegmentLocaLastFill: each block is filled with the block's
// *first* offset, so every entry in the block addresses the same
// zero-length CharString. It returns an error if the resulting gap
// between any two consecutive distinct block-fill values would not fit
// in 16 bits, since runtime patching encodes offsets as uint16 deltas.
func SegmentOffsetsFirstFill(offs []uint32) ([]uint32, error) {
	out := make([]uint32, len(offs))
	copy(out, offs)
	n := len(out)
	var prevFill uint32
	first := true
	for lo := 0; lo < n; lo += LocaBlockSize {
		hi := lo + LocaBlockSize
		if hi > n {
			hi = n
		}
		fillValue := out[lo]
		for i := lo; i < hi; i++ {
			out[i] = fillValue
		}
		if !first {
			var gap uint32
			if fillValue >= prevFill {
				gap = fillValue - prevFill
			} else {
				gap = prevFill - fillValue
			}
			if gap > 0xFFFF {
				return nil, fmt.Errorf("basefont: inter-block gap %d exceeds 16 bits; reduce LocaBlockSize", gap)
			}
		}
		prevFill = fillValue
		first = false
	}
	return out, nil
}

// ZeroCmapSubtablePostHeader overwrites every byte of a cmap subtable
// after its fixed header with zero, for format 4 (14-byte header) and
// format 12 (16-byte header). The header is left intact because the
// runtime still needs to locate the subtable via the cmap's encoding
// records and read its format/length.
func ZeroCmapSubtablePostHeader(subtable []byte, format uint16) error {
	var headerLen int
	switch format {
	case 4:
		headerLen = 14
	case 12:
		headerLen = 16
	default:
		return fmt.Errorf("basefont: unsupported cmap format %d for zeroing", format)
	}
	if len(subtable) < headerLen {
		return fmt.Errorf("basefont: cmap subtable shorter than its format-%d header", format)
	}
	for i := headerLen; i < len(subtable); i++ {
		subtable[i] = 0
	}
	return nil
}

// Finalize run-length encodes the fully-prepared base font bytes and, if
// header is non-nil, prepends its BSAC encoding.
func Finalize(fontBytes []byte, header *bsac.Header) []byte {
	encoded := rle.Encode(fontBytes)
	if header == nil {
		return encoded
	}
	return append(header.Encode(), encoded...)
}
