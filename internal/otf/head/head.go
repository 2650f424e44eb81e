// Package head decodes the fields of the sfnt "head" table that the
// preprocessor needs: the em size and the loca offset format.
package head

import (
	"encoding/binary"

	"github.com/tachyfont/tachyfont/internal/otf"
)

const tableLength = 54

// Info holds the subset of the "head" table this pipeline reads.
type Info struct {
	UnitsPerEm       uint16
	IndexToLocFormat int16 // 0: uint16 loca (x2), 1: uint32 loca
}

type binaryHead struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

// Read decodes a "head" table.
func Read(data []byte) (*Info, error) {
	if len(data) < tableLength {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/head", Reason: "table too short"}
	}
	var enc binaryHead
	if err := binary.Read(sliceReader(data), binary.BigEndian, &enc); err != nil {
		return nil, err
	}
	if enc.Version != 0x00010000 {
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/head", Feature: "table version"}
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, &otf.InvalidFontError{SubSystem: "sfnt/head", Reason: "invalid magic number"}
	}
	if enc.IndexToLocFormat != 0 && enc.IndexToLocFormat != 1 {
		return nil, &otf.NotSupportedError{SubSystem: "sfnt/head", Feature: "indexToLocFormat"}
	}
	return &Info{
		UnitsPerEm:       enc.UnitsPerEm,
		IndexToLocFormat: enc.IndexToLocFormat,
	}, nil
}

type sliceReader []byte

func (s sliceReader) Read(p []byte) (int, error) {
	n := copy(p, s)
	return n, nil
}
