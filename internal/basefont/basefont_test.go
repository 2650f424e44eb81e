package basefont

import "testing"

func TestSegmentLocaLastFill(t *testing.T) {
	offs := make([]int, 11)
	for i := range offs {
		offs[i] = 10 * (i + 1)
	}
	got := SegmentLocaLastFill(offs)
	for _, v := range got {
		if v != 110 {
			t.Fatalf("want every entry collapsed to 110, got %v", got)
		}
	}
}

func TestSegmentLocaLastFillMultiBlock(t *testing.T) {
	offs := make([]int, 130)
	for i := range offs {
		offs[i] = i
	}
	got := SegmentLocaLastFill(offs)
	for lo := 0; lo < len(got); lo += LocaBlockSize {
		hi := lo + LocaBlockSize
		if hi > len(got) {
			hi = len(got)
		}
		want := got[hi-1]
		for i := lo; i < hi; i++ {
			if got[i] != want {
				t.Fatalf("block [%d,%d): entry %d = %d, want %d", lo, hi, i, got[i], want)
			}
		}
	}
}

func TestSegmentOffsetsFirstFillRejectsLargeGap(t *testing.T) {
	offs := make([]uint32, 2*LocaBlockSize)
	for i := range offs {
		offs[i] = uint32(i)
	}
	offs[LocaBlockSize] = 1 << 20 // forces a >16-bit gap between block-fill values
	if _, err := SegmentOffsetsFirstFill(offs); err == nil {
		t.Fatalf("expected error for oversized inter-block gap")
	}
}

func TestZeroCmapSubtablePostHeader(t *testing.T) {
	sub := make([]byte, 20)
	for i := range sub {
		sub[i] = 0xff
	}
	if err := ZeroCmapSubtablePostHeader(sub, 4); err != nil {
		t.Fatal(err)
	}
	for i := 14; i < len(sub); i++ {
		if sub[i] != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
	for i := 0; i < 14; i++ {
		if sub[i] != 0xff {
			t.Fatalf("header byte %d was zeroed", i)
		}
	}
}
