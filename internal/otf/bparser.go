package otf

import (
	"fmt"
)

// Parser is a small cursor over an in-memory table payload, used by the CFF
// INDEX decoder.  It generalizes the teacher's font/parser.Parser to a
// plain byte slice instead of a buffered io.ReadSeeker, since every table
// this pipeline decodes has already been read into memory whole.
type Parser struct {
	tableName string
	data      []byte
	pos       int
}

// NewParser wraps data for sequential reading, tagging errors with
// tableName.
func NewParser(tableName string, data []byte) *Parser {
	return &Parser{tableName: tableName, data: data}
}

// Pos returns the current read offset.
func (p *Parser) Pos() int { return p.pos }

// SeekPos moves the read offset.
func (p *Parser) SeekPos(pos int) error {
	if pos < 0 || pos > len(p.data) {
		return p.Error("seek out of range")
	}
	p.pos = pos
	return nil
}

// Len returns the number of unread bytes.
func (p *Parser) Len() int { return len(p.data) - p.pos }

// ReadBytes returns the next n bytes.  The returned slice aliases the
// underlying data and must not be modified.
func (p *Parser) ReadBytes(n int) ([]byte, error) {
	if n < 0 || p.pos+n > len(p.data) {
		return nil, p.Error("unexpected end of table (need %d bytes, have %d)", n, len(p.data)-p.pos)
	}
	res := p.data[p.pos : p.pos+n]
	p.pos += n
	return res, nil
}

// ReadUInt8 reads one byte.
func (p *Parser) ReadUInt8() (uint8, error) {
	b, err := p.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUInt16 reads a big-endian uint16.
func (p *Parser) ReadUInt16() (uint16, error) {
	b, err := p.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadInt16 reads a big-endian int16.
func (p *Parser) ReadInt16() (int16, error) {
	v, err := p.ReadUInt16()
	return int16(v), err
}

// ReadUInt24 reads a big-endian 3-byte unsigned integer.
func (p *Parser) ReadUInt24() (uint32, error) {
	b, err := p.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUInt32 reads a big-endian uint32.
func (p *Parser) ReadUInt32() (uint32, error) {
	b, err := p.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadOffset reads a big-endian unsigned integer of the given byte width
// (1..4), as used for CFF INDEX offsets.
func (p *Parser) ReadOffset(width int) (uint32, error) {
	b, err := p.ReadBytes(width)
	if err != nil {
		return 0, err
	}
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v, nil
}

// Error builds a position-tagged error, matching the teacher's
// font/parser.Parser.Error convention.
func (p *Parser) Error(format string, a ...interface{}) error {
	tableName := p.tableName
	if tableName == "" {
		tableName = "table"
	}
	args := append([]interface{}{tableName, p.pos}, a...)
	return fmt.Errorf("%s+%d: "+format, args...)
}
