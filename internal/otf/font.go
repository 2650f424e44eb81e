package otf

import (
	"os"
)

// Flavor distinguishes the two outline-table families an sfnt file can
// carry; spec section 3 requires exactly one to be present.
type Flavor int

const (
	// FlavorTrueType indicates a glyf/loca outline table.
	FlavorTrueType Flavor = iota
	// FlavorCFF indicates a CFF outline table.
	FlavorCFF
)

func (f Flavor) String() string {
	if f == FlavorCFF {
		return "CFF"
	}
	return "TrueType"
}

// Font is the in-memory view of an sfnt font file used throughout the
// preprocessor: a table directory plus the raw byte stream it indexes.
type Font struct {
	Header *Header
	Data   []byte // the whole file, unmodified
	Flavor Flavor
}

// Open reads fname fully into memory and parses its table directory.
func Open(fname string) (*Font, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses an in-memory font file.
func Parse(data []byte) (*Font, error) {
	header, err := ReadHeader(byteReaderAt(data))
	if err != nil {
		return nil, err
	}

	f := &Font{Header: header, Data: data}

	hasGlyf := header.Has("glyf", "loca")
	hasCFF := header.Has("CFF ")
	switch {
	case hasGlyf && hasCFF:
		return nil, &InvalidFontError{SubSystem: "sfnt", Reason: "font has both glyf and CFF outline tables"}
	case hasGlyf:
		f.Flavor = FlavorTrueType
	case hasCFF:
		f.Flavor = FlavorCFF
	default:
		return nil, &InvalidFontError{SubSystem: "sfnt", Reason: "font has neither glyf nor CFF outline table"}
	}
	if !header.Has("maxp") {
		return nil, &MissingTableError{Name: "maxp"}
	}

	return f, nil
}

// Table returns the raw bytes of a table.
func (f *Font) Table(tag string) ([]byte, error) {
	return f.Header.ReadTableBytes(byteReaderAt(f.Data), tag)
}

// TableRange returns the byte offset and length of a table within Data.
func (f *Font) TableRange(tag string) (offset, length uint32, err error) {
	rec, err := f.Header.Find(tag)
	if err != nil {
		return 0, 0, err
	}
	return rec.Offset, rec.Length, nil
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, &InvalidFontError{SubSystem: "sfnt", Reason: "read offset out of range"}
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, &InvalidFontError{SubSystem: "sfnt", Reason: "unexpected end of file"}
	}
	return n, nil
}
