package head

import (
	"encoding/binary"
	"testing"
)

func buildHeadTable(unitsPerEm uint16, indexToLocFormat int16) []byte {
	buf := make([]byte, tableLength)
	binary.BigEndian.PutUint32(buf[0:], 0x00010000) // version
	binary.BigEndian.PutUint32(buf[12:], 0x5F0F3CF5) // magicNumber
	binary.BigEndian.PutUint16(buf[18:], unitsPerEm)
	binary.BigEndian.PutUint16(buf[50:], uint16(indexToLocFormat))
	return buf
}

func TestReadExtractsUnitsPerEmAndLocFormat(t *testing.T) {
	info, err := Read(buildHeadTable(2048, 1))
	if err != nil {
		t.Fatal(err)
	}
	if info.UnitsPerEm != 2048 {
		t.Fatalf("UnitsPerEm = %d, want 2048", info.UnitsPerEm)
	}
	if info.IndexToLocFormat != 1 {
		t.Fatalf("IndexToLocFormat = %d, want 1", info.IndexToLocFormat)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	buf := buildHeadTable(1000, 0)
	binary.BigEndian.PutUint32(buf[12:], 0)
	if _, err := Read(buf); err == nil {
		t.Fatal("expected error for bad magic number")
	}
}

func TestReadRejectsTruncatedTable(t *testing.T) {
	if _, err := Read(make([]byte, tableLength-1)); err == nil {
		t.Fatal("expected error for truncated head table")
	}
}
