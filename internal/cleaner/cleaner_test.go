package cleaner

import (
	"testing"

	"github.com/tachyfont/tachyfont/internal/otf/cmap"
)

func TestReverseCmapPrefersSmallestCodepoint(t *testing.T) {
	unified := map[rune]uint32{'A': 5, 'a': 5, 'b': 6}
	rev := ReverseCmap(unified)
	if rev[5] != 'A' {
		t.Fatalf("rev[5] = %q, want 'A'", rev[5])
	}
	if rev[6] != 'b' {
		t.Fatalf("rev[6] = %q, want 'b'", rev[6])
	}
}

func TestInvalidGidsSkipsExceptionCodepoints(t *testing.T) {
	// gid 0: .notdef (never considered). gid 1: empty outline, maps to
	// space (an exception codepoint) -> must survive. gid 2: empty
	// outline, maps to 'x' (not an exception) -> must be dropped.
	locaOffs := []int{0, 0, 0, 0}
	reverse := map[uint16]rune{1: ' ', 2: 'x'}

	invalid, err := InvalidGids(nil, locaOffs, reverse)
	if err != nil {
		t.Fatal(err)
	}
	if len(invalid) != 1 || invalid[0] != 2 {
		t.Fatalf("invalid = %v, want [2]", invalid)
	}
}

func TestKeepSetAlwaysKeepsNotdef(t *testing.T) {
	keep := KeepSet(4, []uint16{0, 2})
	if len(keep) != 3 || keep[0] != 0 || keep[1] != 1 || keep[2] != 3 {
		t.Fatalf("keep = %v, want [0 1 3]", keep)
	}
}

func TestIsExceptionBoundaries(t *testing.T) {
	if !IsException(' ') {
		t.Fatal("space should be an exception codepoint")
	}
	if IsException('x') {
		t.Fatal("'x' should not be an exception codepoint")
	}
}

func TestFlattenedFormat4RoundTrips(t *testing.T) {
	f4 := cmap.Format4{'a': 1, 'b': 2}
	data := FlattenedFormat4(f4, 0)
	dec, err := cmap.DecodeFormat4(data)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Lookup('a') != 1 || dec.Lookup('b') != 2 {
		t.Fatalf("round trip mismatch: %+v", dec)
	}
}
