package bsac

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(1)
	if err := h.Add(TagGlyphCount, []byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := h.Add(TagFlavor, []byte{0x01}); err != nil {
		t.Fatal(err)
	}

	enc := h.Encode()
	parsed, end, err := Parse(enc)
	if err != nil {
		t.Fatal(err)
	}
	if end != len(enc) {
		t.Fatalf("total length %d, want %d", end, len(enc))
	}
	v, ok := parsed.Get(TagGlyphCount)
	if !ok || !bytes.Equal(v, []byte{0x01, 0x02}) {
		t.Fatalf("GLCN = %x, ok=%v", v, ok)
	}
	v, ok = parsed.Get(TagFlavor)
	if !ok || !bytes.Equal(v, []byte{0x01}) {
		t.Fatalf("TYPE = %x, ok=%v", v, ok)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, _, err := Parse([]byte("XXXX000000")); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
