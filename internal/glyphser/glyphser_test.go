package glyphser

import "testing"

func TestTrueTypeRoundTrip(t *testing.T) {
	entries := []Entry{
		{GID: 0, Offset: 0, Length: 10},
		{GID: 1, Offset: 10, Length: 0},
		{GID: 2, Offset: 10, Length: 42},
	}
	table := EncodeTrueType(0, entries)

	flags, numGlyphs, _, headerSize, err := DecodeHeader(table, false)
	if err != nil {
		t.Fatal(err)
	}
	if numGlyphs != uint16(len(entries)) {
		t.Fatalf("numGlyphs = %d, want %d", numGlyphs, len(entries))
	}
	for _, want := range entries {
		got, err := ReadEntry(table, flags, headerSize, int(want.GID))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("gid %d: got %+v, want %+v", want.GID, got, want)
		}
	}
}

func TestCFFRoundTripWithMetrics(t *testing.T) {
	entries := []Entry{
		{GID: 0, HAdvance: 500, Offset: 1, Length: 20},
		{GID: 1, HAdvance: 600, Offset: 21, Length: 30},
	}
	table := EncodeCFF(HasHMTX, 1000, entries)

	flags, _, cffOffset, headerSize, err := DecodeHeader(table, true)
	if err != nil {
		t.Fatal(err)
	}
	if cffOffset != 1000 {
		t.Fatalf("cffDataRegionOffset = %d, want 1000", cffOffset)
	}
	got, err := ReadEntry(table, flags, headerSize, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != entries[1] {
		t.Fatalf("gid 1: got %+v, want %+v", got, entries[1])
	}
}

func TestBuildGlyphDataDropsExcludedGids(t *testing.T) {
	glyfData := []byte{
		0xAA, 0xAA, // gid 0
		0xBB, 0xBB, 0xBB, // gid 1 (dropped)
		0xCC, // gid 2
	}
	locaOffs := []int{0, 2, 5, 6}
	drop := map[uint16]bool{1: true}

	data, offsets, lengths := BuildGlyphData(glyfData, locaOffs, drop)

	if lengths[1] != 0 {
		t.Fatalf("dropped gid 1 length = %d, want 0", lengths[1])
	}
	if got, want := len(data), 3; got != want {
		t.Fatalf("data length = %d, want %d (dropped gid's bytes excluded)", got, want)
	}
	if offsets[2] != 2 {
		t.Fatalf("gid 2 offset = %d, want 2 (packed immediately after gid 0)", offsets[2])
	}
	if got, want := data[offsets[2]:offsets[2]+uint32(lengths[2])], glyfData[5:6]; string(got) != string(want) {
		t.Fatalf("gid 2 bytes = %v, want %v", got, want)
	}
}
