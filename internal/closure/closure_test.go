package closure

import "testing"

// buildComposite constructs a minimal composite glyph record referencing
// componentGid, using word-sized args and no scale (flags = 0x0003).
func buildComposite(componentGid uint16, more bool) []byte {
	flags := uint16(0x0003)
	if more {
		flags |= 0x0020
	}
	b := []byte{0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0} // numberOfContours=-1, bbox
	b = append(b, byte(flags>>8), byte(flags), byte(componentGid>>8), byte(componentGid))
	b = append(b, 0, 0, 0, 0) // x/y args, word-sized
	return b
}

func TestClosureReflexiveAndComposite(t *testing.T) {
	// gid 0: simple glyph (no contours refs); gid 1: composite -> gid 2; gid 2: simple.
	simple := []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	composite := buildComposite(2, false)

	glyfData := append(append([]byte{}, simple...), composite...)
	locaOffs := []int{0, len(simple), len(simple) + len(composite)}
	glyfData = append(glyfData, simple...)
	locaOffs = append(locaOffs, len(glyfData))

	b := NewBuilder(glyfData, locaOffs, nil)

	c0, err := b.Closure(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(c0) != 1 || c0[0] != 0 {
		t.Fatalf("closure(0) = %v, want [0]", c0)
	}

	c1, err := b.Closure(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(c1) != 2 || c1[0] != 1 || c1[1] != 2 {
		t.Fatalf("closure(1) = %v, want [1 2]", c1)
	}
}

func TestBuildOmitsSelfFromDelta(t *testing.T) {
	simple := []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	locaOffs := []int{0, len(simple)}
	b := NewBuilder(simple, locaOffs, nil)

	idx, data, err := Build(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if idx[0].Offset != -1 || idx[0].Size != 0 {
		t.Fatalf("trivial closure record = %+v, want offset=-1 size=0", idx[0])
	}
	if len(data) != 0 {
		t.Fatalf("expected no closure_data for a trivial closure")
	}
}
