package cmap

import (
	"sort"

	"github.com/tachyfont/tachyfont/internal/otf"
)

// Format4 is a decoded format 4 "segment mapping to delta values"
// subtable: a code -> gid map covering the BMP. The preprocessor needs
// format 4 both to read the input font's cmap and, for the Cleaner's
// optional flattening pass (spec section 4.1), to re-encode one.
type Format4 map[uint16]uint16

// parseFormat4Header validates and splits a format 4 subtable's trailing
// parallel arrays, shared by DecodeFormat4 and DecodeFormat4Segments.
func parseFormat4Header(in []byte) (segCount int, words []uint16, err error) {
	if len(in)%2 != 0 || len(in) < 16 {
		return 0, nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap4", Reason: "subtable too short"}
	}
	segCountX2 := int(in[6])<<8 | int(in[7])
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(in) {
		return 0, nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap4", Reason: "segCountX2 inconsistent with table length"}
	}
	segCount = segCountX2 / 2

	words = make([]uint16, 0, (len(in)-14)/2)
	for i := 14; i < len(in); i += 2 {
		words = append(words, uint16(in[i])<<8|uint16(in[i+1]))
	}
	return segCount, words, nil
}

// DecodeFormat4Segments returns a format 4 subtable's raw segment
// boundaries (including the trailing 0xFFFF sentinel), in ascending
// order, for callers that need the segmentation itself rather than the
// flattened code->gid map DecodeFormat4 produces. CmapCompacter's GOS
// type 4 construction (spec section 4.5) is the only consumer.
func DecodeFormat4Segments(in []byte) (startCode, endCode []uint16, err error) {
	segCount, words, err := parseFormat4Header(in)
	if err != nil {
		return nil, nil, err
	}
	endCode = append([]uint16(nil), words[:segCount]...)
	startCode = append([]uint16(nil), words[segCount+1:2*segCount+1]...)
	return startCode, endCode, nil
}

// DecodeFormat4 parses a format 4 subtable's bytes.
func DecodeFormat4(in []byte) (Format4, error) {
	segCount, words, err := parseFormat4Header(in)
	if err != nil {
		return nil, err
	}
	endCode := words[:segCount]
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]
	glyphIDArray := words[4*segCount+1:]

	out := Format4{}
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap4", Reason: "segments out of order or overlapping"}
		}
		prevEnd = end

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				gid := uint16(idx) + delta
				if gid != 0 {
					out[uint16(idx)] = gid
				}
			}
			continue
		}
		d := int(idRangeOffset[k])/2 - (segCount - k)
		if d < 0 || d+int(end-start) > len(glyphIDArray) {
			if start == 0xFFFF {
				continue
			}
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap4", Reason: "idRangeOffset out of bounds"}
		}
		for idx := start; idx < end; idx++ {
			gid := glyphIDArray[d+int(idx-start)]
			if gid != 0 {
				out[uint16(idx)] = gid
			}
		}
	}
	return out, nil
}

// Lookup returns the gid mapped to code, or 0 if unmapped.
func (f Format4) Lookup(code uint16) uint16 {
	return f[code]
}

// Encode re-serializes the map into a format 4 subtable using delta
// segments only: a new segment starts wherever the codes stop being
// contiguous or the code-to-gid delta changes, every idRangeOffset is 0
// and the glyph array is empty. Unlike the dijkstra-optimal segmentation
// some encoders use, this always produces a valid, if not minimal,
// segment count.
func (f Format4) Encode(language uint16) []byte {
	codes := make([]int, 0, len(f))
	for c := range f {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)

	type seg struct {
		start, end uint16
		delta      uint16
		useValues  bool
	}
	var segs []seg
	i := 0
	for i < len(codes) {
		start := codes[i]
		delta := f[uint16(start)] - uint16(start)
		j := i + 1
		for j < len(codes) && codes[j] == codes[j-1]+1 && f[uint16(codes[j])]-uint16(codes[j]) == delta {
			j++
		}
		segs = append(segs, seg{start: uint16(start), end: uint16(codes[j-1]), delta: delta})
		i = j
	}
	segs = append(segs, seg{start: 0xFFFF, end: 0xFFFF, delta: 1})

	segCount := len(segs)
	var endCode, startCode, idDelta, idRangeOffsets, glyphIDArray []uint16
	for k, s := range segs {
		endCode = append(endCode, s.end)
		startCode = append(startCode, s.start)
		idDelta = append(idDelta, s.delta)
		_ = k
		idRangeOffsets = append(idRangeOffsets, 0)
	}

	length := 16 + 8*segCount + 2*len(glyphIDArray)
	out := make([]byte, length)
	out[1] = 4
	out[2] = byte(length >> 8)
	out[3] = byte(length)
	out[4] = byte(language >> 8)
	out[5] = byte(language)
	out[6] = byte((2 * segCount) >> 8)
	out[7] = byte(2 * segCount)

	pos := 14
	for _, v := range endCode {
		out[pos], out[pos+1] = byte(v>>8), byte(v)
		pos += 2
	}
	pos += 2 // reservedPad
	for _, v := range startCode {
		out[pos], out[pos+1] = byte(v>>8), byte(v)
		pos += 2
	}
	for _, v := range idDelta {
		out[pos], out[pos+1] = byte(v>>8), byte(v)
		pos += 2
	}
	for _, v := range idRangeOffsets {
		out[pos], out[pos+1] = byte(v>>8), byte(v)
		pos += 2
	}
	return out
}

// CodeRange returns the smallest and largest mapped code point.
func (f Format4) CodeRange() (low, high uint16) {
	if len(f) == 0 {
		return 0, 0
	}
	low = 0xFFFF
	for c := range f {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}
	return low, high
}
