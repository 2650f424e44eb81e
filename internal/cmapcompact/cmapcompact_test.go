package cmapcompact

import (
	"testing"

	"github.com/tachyfont/tachyfont/internal/gos"
	"github.com/tachyfont/tachyfont/internal/otf/cmap"
)

func TestCompactCmap12PicksTightestType(t *testing.T) {
	groups := cmap.Format12{
		{StartCharCode: 1, EndCharCode: 2, StartGlyphID: 2},
	}
	out := CompactCmap12(groups)
	if len(out) == 0 {
		t.Fatal("expected non-empty encoding")
	}
	if out[0] != byte(gos.TagCmap12Narrow) {
		t.Fatalf("tag = %d, want type 2 (tightest fit)", out[0])
	}
}

func TestCompactCmapWithoutFormat4EmitsOneStream(t *testing.T) {
	groups := cmap.Format12{
		{StartCharCode: 1, EndCharCode: 2, StartGlyphID: 2},
	}
	out, err := CompactCmap(groups, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 {
		t.Fatalf("stream count = %d, want 1 (no format-4 segments supplied)", out[0])
	}
}

func TestCompactCmapWithAlignedFormat4AddsType4Stream(t *testing.T) {
	groups := cmap.Format12{
		{StartCharCode: 'a', EndCharCode: 'c', StartGlyphID: 1},
		{StartCharCode: 0xFFFF, EndCharCode: 0xFFFF, StartGlyphID: 1},
	}
	segStarts := []uint16{'a', 0xFFFF}
	segEnds := []uint16{'c', 0xFFFF}

	out, err := CompactCmap(groups, segStarts, segEnds)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 2 {
		t.Fatalf("stream count = %d, want 2 (cmap12 + type 4)", out[0])
	}
}

func TestCompactCmapRejectsMisalignedFormat4(t *testing.T) {
	groups := cmap.Format12{
		{StartCharCode: 10, EndCharCode: 12, StartGlyphID: 1},
		{StartCharCode: 11, EndCharCode: 20, StartGlyphID: 5}, // overlaps the previous group
	}
	segStarts := []uint16{10}
	segEnds := []uint16{20}

	if _, err := CompactCmap(groups, segStarts, segEnds); err == nil {
		t.Fatal("expected error for a format-12 group overlapping a format-4 segment boundary")
	}
}

func TestCompactCharsetRejectsUnsupportedFormat(t *testing.T) {
	if _, err := CompactCharset(0, 100, 50, nil); err == nil {
		t.Fatal("expected error for predefined charset format 0")
	}
}

func TestCompactCharsetFormat2(t *testing.T) {
	ranges := []gos.CharsetRange{{First: 1, NLeft: 5}, {First: 10, NLeft: 2}}
	out, err := CompactCharset(2, 1000, 200, ranges)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != byte(gos.TagCharsetFmt2) {
		t.Fatalf("tag = %d, want format-2 charset tag", out[0])
	}
}
