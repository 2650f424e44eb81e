package otf

import (
	"bytes"
	"testing"
)

func TestParserSequentialReads(t *testing.T) {
	p := NewParser("test", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	if v, err := p.ReadUInt16(); err != nil || v != 1 {
		t.Fatalf("ReadUInt16 = (%d, %v), want (1, nil)", v, err)
	}
	if v, err := p.ReadUInt24(); err != nil || v != 0x020304 {
		t.Fatalf("ReadUInt24 = (%x, %v), want (0x020304, nil)", v, err)
	}
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	if _, err := p.ReadUInt16(); err == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestIsUnsupportedAndIsMissing(t *testing.T) {
	if !IsUnsupported(&NotSupportedError{SubSystem: "x", Feature: "y"}) {
		t.Fatal("IsUnsupported should recognize *NotSupportedError")
	}
	if IsUnsupported(&InvalidFontError{}) {
		t.Fatal("IsUnsupported should not recognize *InvalidFontError")
	}
	if !IsMissing(&MissingTableError{Name: "cmap"}) {
		t.Fatal("IsMissing should recognize *MissingTableError")
	}
}

// buildMinimalSfnt constructs a table directory with the given tables,
// each padded to a 4-byte boundary as the sfnt format requires.
func buildMinimalSfnt(tables map[string][]byte) []byte {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	// deterministic order for offset assignment
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	header := make([]byte, 12+16*len(names))
	putU32 := func(b []byte, off int, v uint32) {
		b[off] = byte(v >> 24)
		b[off+1] = byte(v >> 16)
		b[off+2] = byte(v >> 8)
		b[off+3] = byte(v)
	}
	putU32(header, 0, ScalerTypeTrueType)
	header[4] = byte(len(names) >> 8)
	header[5] = byte(len(names))

	body := []byte{}
	offset := uint32(len(header))
	for i, name := range names {
		data := tables[name]
		rec := 12 + i*16
		copy(header[rec:rec+4], name)
		putU32(header, rec+8, offset)
		putU32(header, rec+12, uint32(len(data)))
		body = append(body, data...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
		offset = uint32(len(header) + len(body))
	}
	return append(header, body...)
}

func TestParseRejectsFontWithoutOutlineTable(t *testing.T) {
	data := buildMinimalSfnt(map[string][]byte{"maxp": {0, 0, 0, 6, 0, 1}})
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for font with no glyf or CFF table")
	}
}

func TestParseAndTableRoundTrip(t *testing.T) {
	maxp := []byte{0, 0, 0x50, 0x00, 0x00, 0x01}
	glyf := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	loca := []byte{0, 0, 0, 4}
	data := buildMinimalSfnt(map[string][]byte{"maxp": maxp, "glyf": glyf, "loca": loca})

	font, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if font.Flavor != FlavorTrueType {
		t.Fatalf("Flavor = %v, want FlavorTrueType", font.Flavor)
	}
	got, err := font.Table("glyf")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, glyf) {
		t.Fatalf("Table(glyf) = %x, want %x", got, glyf)
	}
	if _, err := font.Table("nope"); !IsMissing(err) {
		t.Fatalf("Table(nope) error = %v, want *MissingTableError", err)
	}
}
