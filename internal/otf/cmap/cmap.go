// Package cmap decodes the "cmap" table formats TachyFont needs: format 4
// (BMP segment mapping) and format 12 (segmented coverage, for
// supplementary-plane codepoints). It does not attempt every format the
// OpenType spec defines; Unified skips subtables of any other format.
package cmap

import (
	"sort"

	"github.com/tachyfont/tachyfont/internal/otf"
)

// EncodingRecord identifies one subtable within a "cmap" table.
type EncodingRecord struct {
	PlatformID uint16
	EncodingID uint16
	Offset     uint32
}

// Table is a decoded "cmap" table: the encoding records present, and the
// raw bytes of each subtable they point to, keyed by offset so that
// records sharing a subtable (common for the (3,1) and (0,3) records)
// aren't decoded twice.
type Table struct {
	Records   []EncodingRecord
	Subtables map[uint32][]byte
}

// Decode parses a "cmap" table's bytes into its encoding records and raw
// subtable byte ranges, without interpreting subtable formats.
func Decode(data []byte) (*Table, error) {
	if len(data) < 4 {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap", Reason: "table too short"}
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	if version != 0 {
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/cmap", Feature: "table version"}
	}
	numTables := int(data[2])<<8 | int(data[3])
	if len(data) < 4+8*numTables {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap", Reason: "truncated encoding records"}
	}

	t := &Table{Subtables: map[uint32][]byte{}}
	for i := 0; i < numTables; i++ {
		base := 4 + i*8
		rec := EncodingRecord{
			PlatformID: uint16(data[base])<<8 | uint16(data[base+1]),
			EncodingID: uint16(data[base+2])<<8 | uint16(data[base+3]),
			Offset: uint32(data[base+4])<<24 | uint32(data[base+5])<<16 |
				uint32(data[base+6])<<8 | uint32(data[base+7]),
		}
		t.Records = append(t.Records, rec)
		if _, ok := t.Subtables[rec.Offset]; ok {
			continue
		}
		if int(rec.Offset) >= len(data) {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/cmap", Reason: "encoding record offset out of range"}
		}
		t.Subtables[rec.Offset] = subtableBytes(data[rec.Offset:])
	}
	return t, nil
}

// subtableBytes trims full (the remainder of the cmap table starting at a
// subtable) down to that subtable's own declared length, so that a
// subtable is never confused with whatever subtable happens to follow it
// in the table. Formats this package doesn't decode are left untrimmed;
// nothing reads past their declared extent anyway.
func subtableBytes(full []byte) []byte {
	if len(full) < 2 {
		return full
	}
	format := uint16(full[0])<<8 | uint16(full[1])
	switch format {
	case 0, 4, 6:
		if len(full) < 4 {
			return full
		}
		length := int(uint16(full[2])<<8 | uint16(full[3]))
		if length < 4 || length > len(full) {
			return full
		}
		return full[:length]
	case 12:
		if len(full) < 8 {
			return full
		}
		length := int(uint32(full[4])<<24 | uint32(full[5])<<16 | uint32(full[6])<<8 | uint32(full[7]))
		if length < 16 || length > len(full) {
			return full
		}
		return full[:length]
	default:
		return full
	}
}

// PreferredUnicodeSubtable returns the bytes of the best Unicode subtable
// for cmap reading: platform 3 encoding 10 (full Unicode, format 12) if
// present, else platform 3 encoding 1 (BMP, format 4), else platform 0
// (any Unicode encoding).
func (t *Table) PreferredUnicodeSubtable() ([]byte, error) {
	var best *EncodingRecord
	rank := func(r EncodingRecord) int {
		switch {
		case r.PlatformID == 3 && r.EncodingID == 10:
			return 3
		case r.PlatformID == 3 && r.EncodingID == 1:
			return 2
		case r.PlatformID == 0:
			return 1
		default:
			return 0
		}
	}
	bestRank := 0
	for i := range t.Records {
		r := t.Records[i]
		if rk := rank(r); rk > bestRank {
			bestRank = rk
			best = &t.Records[i]
		}
	}
	if best == nil {
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/cmap", Feature: "no usable Unicode subtable"}
	}
	return t.Subtables[best.Offset], nil
}

// Unified merges every format 4 and format 12 subtable reachable from t
// into a single code -> gid map, the representation the Cleaner and
// cmd/tachyfont-build work with instead of reasoning about formats.
func (t *Table) Unified() (map[rune]uint32, error) {
	out := map[rune]uint32{}
	seen := map[uint32]bool{}
	for _, rec := range t.Records {
		if seen[rec.Offset] {
			continue
		}
		seen[rec.Offset] = true
		data := t.Subtables[rec.Offset]
		if len(data) < 2 {
			continue
		}
		format := uint16(data[0])<<8 | uint16(data[1])
		switch format {
		case 4:
			f4, err := DecodeFormat4(data)
			if err != nil {
				return nil, err
			}
			for code, gid := range f4 {
				out[rune(code)] = uint32(gid)
			}
		case 12:
			f12, err := DecodeFormat12(data)
			if err != nil {
				return nil, err
			}
			for _, g := range f12 {
				for c := g.StartCharCode; c <= g.EndCharCode; c++ {
					out[rune(c)] = g.StartGlyphID + (c - g.StartCharCode)
				}
			}
		}
	}
	return out, nil
}

// SortedCodepoints returns the keys of a code -> gid map in ascending
// order, the iteration order every GOS encoder and the BSAC cmap bundle
// format requires.
func SortedCodepoints(m map[rune]uint32) []rune {
	out := make([]rune, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GroupsFromSorted rebuilds format 12 groups from codes (already in
// ascending order, as returned by SortedCodepoints) and their gids,
// merging adjacent codepoints into one group whenever both the codepoint
// and the gid advance by exactly one: the same contiguity CmapCompacter's
// GOS encoders rely on to keep delta fields small.
func GroupsFromSorted(codes []rune, m map[rune]uint32) Format12 {
	var groups Format12
	for _, c := range codes {
		gid := m[c]
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if uint32(c) == last.EndCharCode+1 && gid == last.StartGlyphID+(last.EndCharCode-last.StartCharCode)+1 {
				last.EndCharCode = uint32(c)
				continue
			}
		}
		groups = append(groups, Group{StartCharCode: uint32(c), EndCharCode: uint32(c), StartGlyphID: gid})
	}
	return groups
}
