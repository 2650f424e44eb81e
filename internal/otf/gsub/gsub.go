// Package gsub extracts glyph substitution reachability from a "GSUB"
// table: which gids a lookup can produce as output for a given input gid,
// across the single/multiple/alternate/ligature substitution formats
// (lookup types 1-4). It does not implement contextual lookups (types 5-8)
// or script/language/feature negotiation — ClosureBuilder only needs
// reachability, not layout selection, and TachyFont's closure pass treats
// every lookup as potentially applicable.
package gsub

import (
	"github.com/tachyfont/tachyfont/internal/otf"
)

func be16(data []byte, pos int) uint16 { return uint16(data[pos])<<8 | uint16(data[pos+1]) }

// coverage maps a covered gid to its coverage index.
type coverage map[uint16]int

func readCoverage(table []byte, pos int) (coverage, error) {
	if pos+2 > len(table) {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated coverage table"}
	}
	format := be16(table, pos)
	res := coverage{}
	switch format {
	case 1:
		n := int(be16(table, pos+2))
		for i := 0; i < n; i++ {
			off := pos + 4 + i*2
			if off+2 > len(table) {
				return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated coverage format 1"}
			}
			res[be16(table, off)] = i
		}
	case 2:
		n := int(be16(table, pos+2))
		for i := 0; i < n; i++ {
			off := pos + 4 + i*6
			if off+6 > len(table) {
				return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated coverage format 2"}
			}
			start := be16(table, off)
			end := be16(table, off+2)
			startIdx := int(be16(table, off+4))
			for gid := int(start); gid <= int(end); gid++ {
				res[uint16(gid)] = startIdx + gid - int(start)
			}
		}
	default:
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/gsub", Feature: "coverage table format"}
	}
	return res, nil
}

// Reachability maps an input gid to the gids a substitution can emit in
// its place or needs alongside it (one gid for type 1, the sequence for
// type 2, every alternative for type 3, and for type 4 each ligature gid
// whose first component is the input gid, plus that ligature's remaining
// component gids).
type Reachability map[uint16][]uint16

// BuildReachability walks every lookup in a "GSUB" table and accumulates,
// per input gid, the gids reachable through substitution. lookupListOffset
// entries whose type is not 1-4 are skipped.
func BuildReachability(data []byte) (Reachability, error) {
	if len(data) < 10 {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "table too short"}
	}
	lookupListOffset := int(be16(data, 8))
	if lookupListOffset+2 > len(data) {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "invalid LookupList offset"}
	}
	lookupCount := int(be16(data, lookupListOffset))
	out := Reachability{}
	for i := 0; i < lookupCount; i++ {
		lOff := lookupListOffset + 2 + i*2
		if lOff+2 > len(data) {
			return nil, &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated LookupList"}
		}
		lookupOffset := lookupListOffset + int(be16(data, lOff))
		if err := addLookup(data, lookupOffset, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func addLookup(data []byte, lookupOffset int, out Reachability) error {
	if lookupOffset+6 > len(data) {
		return &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated Lookup"}
	}
	lookupType := be16(data, lookupOffset)
	subtableCount := int(be16(data, lookupOffset+4))
	for i := 0; i < subtableCount; i++ {
		off := lookupOffset + 6 + i*2
		if off+2 > len(data) {
			return &otf.InvalidFontError{SubSystem: "sfnt/gsub", Reason: "truncated subtable offset array"}
		}
		subtableOffset := lookupOffset + int(be16(data, off))
		switch lookupType {
		case 1:
			if err := addSingle(data, subtableOffset, out); err != nil {
				return err
			}
		case 2:
			if err := addMultiple(data, subtableOffset, out); err != nil {
				return err
			}
		case 3:
			if err := addAlternate(data, subtableOffset, out); err != nil {
				return err
			}
		case 4:
			if err := addLigature(data, subtableOffset, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func addSingle(data []byte, pos int, out Reachability) error {
	format := be16(data, pos)
	covOff := pos + int(be16(data, pos+2))
	cov, err := readCoverage(data, covOff)
	if err != nil {
		return err
	}
	switch format {
	case 1:
		delta := int16(be16(data, pos+4))
		for gid := range cov {
			out[gid] = append(out[gid], uint16(int16(gid)+delta))
		}
	case 2:
		n := int(be16(data, pos+4))
		ids := make([]uint16, n)
		for i := 0; i < n; i++ {
			ids[i] = be16(data, pos+6+i*2)
		}
		for gid, idx := range cov {
			if idx < len(ids) {
				out[gid] = append(out[gid], ids[idx])
			}
		}
	default:
		return &otf.NotSupportedError{SubSystem: "sfnt/gsub", Feature: "SingleSubst format"}
	}
	return nil
}

func addMultiple(data []byte, pos int, out Reachability) error {
	covOff := pos + int(be16(data, pos+2))
	cov, err := readCoverage(data, covOff)
	if err != nil {
		return err
	}
	seqCount := int(be16(data, pos+4))
	seqOffsets := make([]int, seqCount)
	for i := 0; i < seqCount; i++ {
		seqOffsets[i] = pos + int(be16(data, pos+6+i*2))
	}
	for gid, idx := range cov {
		if idx >= seqCount {
			continue
		}
		seqOff := seqOffsets[idx]
		n := int(be16(data, seqOff))
		for i := 0; i < n; i++ {
			out[gid] = append(out[gid], be16(data, seqOff+2+i*2))
		}
	}
	return nil
}

func addAlternate(data []byte, pos int, out Reachability) error {
	covOff := pos + int(be16(data, pos+2))
	cov, err := readCoverage(data, covOff)
	if err != nil {
		return err
	}
	setCount := int(be16(data, pos+4))
	setOffsets := make([]int, setCount)
	for i := 0; i < setCount; i++ {
		setOffsets[i] = pos + int(be16(data, pos+6+i*2))
	}
	for gid, idx := range cov {
		if idx >= setCount {
			continue
		}
		setOff := setOffsets[idx]
		n := int(be16(data, setOff))
		for i := 0; i < n; i++ {
			out[gid] = append(out[gid], be16(data, setOff+2+i*2))
		}
	}
	return nil
}

func addLigature(data []byte, pos int, out Reachability) error {
	covOff := pos + int(be16(data, pos+2))
	cov, err := readCoverage(data, covOff)
	if err != nil {
		return err
	}
	setCount := int(be16(data, pos+4))
	setOffsets := make([]int, setCount)
	for i := 0; i < setCount; i++ {
		setOffsets[i] = pos + int(be16(data, pos+6+i*2))
	}
	for first, idx := range cov {
		if idx >= setCount {
			continue
		}
		setOff := setOffsets[idx]
		ligCount := int(be16(data, setOff))
		for i := 0; i < ligCount; i++ {
			ligOff := setOff + int(be16(data, setOff+2+i*2))
			ligGlyph := be16(data, ligOff)
			compCount := int(be16(data, ligOff+2))
			out[first] = append(out[first], ligGlyph)
			for c := 0; c < compCount-1; c++ {
				out[first] = append(out[first], be16(data, ligOff+4+c*2))
			}
		}
	}
	return nil
}
