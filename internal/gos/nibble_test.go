package gos

import "testing"

func TestNoNRoundTrip(t *testing.T) {
	values := []int64{0, 1, 17, -17, 255, -255, 4095}
	w := &NibbleWriter{}
	for _, v := range values {
		w.WriteNoN(v)
	}
	r := NewNibbleReader(w.Bytes())
	for _, want := range values {
		got := r.ReadNoN()
		if got != want {
			t.Fatalf("NoN round trip: want %d, got %d", want, got)
		}
	}
}

func TestNoNKnownEncoding(t *testing.T) {
	if got := NoN(17); len(got) != 3 || got[0] != 0x1 || got[1] != 0x1 || got[2] != 0x1 {
		t.Fatalf("NoN(17) = %x, want nibbles 1 1 1 (count=1 value=0x11)", got)
	}
	if got := NoN(-17); len(got) != 3 || got[0] != 0x9 || got[1] != 0x1 || got[2] != 0x1 {
		t.Fatalf("NoN(-17) = %x, want nibbles 9 1 1 (count=9 value=0x11)", got)
	}
}

func TestBitEncodeAllOnesEscape(t *testing.T) {
	esc := NewEscaper()
	bw := &BitWriter{}
	esc.BitEncodeAllOnesEscape(bw, 3, 3)   // fits in 3 bits (max is 6)
	esc.BitEncodeAllOnesEscape(bw, 100, 3) // needs escape

	er := NewEscapeReader(esc.Bytes())
	br := NewBitReader(bw.Bytes())
	if v := er.BitDecodeAllOnesEscape(br, 3); v != 3 {
		t.Fatalf("first field: want 3, got %d", v)
	}
	if v := er.BitDecodeAllOnesEscape(br, 3); v != 100 {
		t.Fatalf("second field: want 100, got %d", v)
	}
}
