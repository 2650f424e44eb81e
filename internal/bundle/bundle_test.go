package bundle

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/tachyfont/tachyfont/internal/glyphser"
)

// writeArtifacts materializes a minimal three-glyph TrueType artifact set:
// codepoint 'A' -> gid 1, whose closure also pulls in gid 2 (a component).
func writeArtifacts(t *testing.T, dir string) {
	t.Helper()

	codepoints := make([]byte, 4)
	binary.BigEndian.PutUint32(codepoints, uint32('A'))
	gids := []byte{0, 1}

	closureIdx := make([]byte, 3*6)
	binary.BigEndian.PutUint32(closureIdx[0:], 0xFFFFFFFF) // gid 0: trivial
	closureIdx[4], closureIdx[5] = 0, 0
	binary.BigEndian.PutUint32(closureIdx[6:], 0) // gid 1: offset 0
	binary.BigEndian.PutUint16(closureIdx[10:], 2)
	binary.BigEndian.PutUint32(closureIdx[12:], 0xFFFFFFFF) // gid 2: trivial
	closureIdx[16], closureIdx[17] = 0, 0

	closureData := make([]byte, 2)
	binary.BigEndian.PutUint16(closureData, 2) // gid 1's closure includes gid 2

	entries := []glyphser.Entry{
		{GID: 0, Offset: 0, Length: 2},
		{GID: 1, Offset: 2, Length: 3},
		{GID: 2, Offset: 5, Length: 1},
	}
	glyphTable := glyphser.EncodeTrueType(0, entries)
	glyphData := []byte{0xAA, 0xAA, 0xBB, 0xBB, 0xBB, 0xCC}

	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("codepoints", codepoints)
	write("gids", gids)
	write("closure_idx", closureIdx)
	write("closure_data", closureData)
	write("glyph_table", glyphTable)
	write("glyph_data", glyphData)
	fp := FingerprintFont([]byte("fake font bytes"))
	write("sha1_fingerprint", []byte(hexEncode(fp[:])))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[2*i] = digits[v>>4]
		out[2*i+1] = digits[v&0xf]
	}
	return string(out)
}

func TestAssembleExpandsClosureAndPacksBundle(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)

	a, err := OpenArtifacts(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	gid, ok := a.ResolveGid('A')
	if !ok || gid != 1 {
		t.Fatalf("ResolveGid('A') = (%d, %v), want (1, true)", gid, ok)
	}

	closure, err := a.ExpandClosure(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(closure) != 2 || closure[0] != 1 || closure[1] != 2 {
		t.Fatalf("ExpandClosure(1) = %v, want [1 2]", closure)
	}

	out, err := a.Assemble([]rune{'A'})
	if err != nil {
		t.Fatal(err)
	}
	if string(out[:4]) != "BSAC" {
		t.Fatalf("bundle missing BSAC magic: %x", out[:4])
	}
	numGlyphs := int(out[4+4+20])<<8 | int(out[4+4+20+1])
	if numGlyphs != 2 {
		t.Fatalf("bundle glyph count = %d, want 2", numGlyphs)
	}
}

func TestResolveGidMissingCodepoint(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)

	a, err := OpenArtifacts(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, ok := a.ResolveGid('Z'); ok {
		t.Fatal("ResolveGid('Z') = true, want false for an unmapped codepoint")
	}
}
