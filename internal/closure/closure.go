// Package closure computes, and serializes, each glyph's closure set: the
// gids that must ship together with it (composite-glyph components and
// GSUB substitution reachability), grounded on the composite-glyph BFS
// pattern used by real TrueType subsetters (see the zhimiaox-subfont
// reference code's GetComponents/toscan worklist).
package closure

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/tachyfont/tachyfont/internal/otf/glyf"
	"github.com/tachyfont/tachyfont/internal/otf/gsub"
)

func uint16Comparator(a, b interface{}) int {
	x, y := a.(uint16), b.(uint16)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Builder computes glyph closures against a fixed glyf table (may be nil
// for CFF fonts, which have no composite glyphs) and an optional GSUB
// reachability map.
type Builder struct {
	glyfData []byte
	locaOffs []int
	gsub     gsub.Reachability
}

// NewBuilder constructs a Builder for a TrueType font. gsubReach may be
// nil if the font has no "GSUB" table.
func NewBuilder(glyfData []byte, locaOffs []int, gsubReach gsub.Reachability) *Builder {
	return &Builder{glyfData: glyfData, locaOffs: locaOffs, gsub: gsubReach}
}

// NewCFFBuilder constructs a Builder for a CFF font: CFF has no composite
// glyphs, so only GSUB reachability (if any) contributes beyond the
// reflexive {g} set.
func NewCFFBuilder(gsubReach gsub.Reachability) *Builder {
	return &Builder{gsub: gsubReach}
}

// Closure returns the reflexive closure of gid g: {g} plus every gid
// reachable through composite components or GSUB substitution, expanded
// transitively.
func (b *Builder) Closure(g uint16) ([]uint16, error) {
	seen := treeset.NewWith(uint16Comparator)
	seen.Add(g)
	queue := []uint16{g}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if b.glyfData != nil && int(cur)+1 < len(b.locaOffs) {
			start, end := b.locaOffs[cur], b.locaOffs[cur+1]
			if end > start && end <= len(b.glyfData) {
				comps, err := glyf.ComponentGIDs(b.glyfData[start:end])
				if err != nil {
					return nil, err
				}
				for _, c := range comps {
					if !seen.Contains(c) {
						seen.Add(c)
						queue = append(queue, c)
					}
				}
			}
		}

		if b.gsub != nil {
			for _, out := range b.gsub[cur] {
				if !seen.Contains(out) {
					seen.Add(out)
					queue = append(queue, out)
				}
			}
		}
	}

	result := make([]uint16, 0, seen.Size())
	for _, v := range seen.Values() {
		result = append(result, v.(uint16))
	}
	return result, nil
}

// Record is one closure_idx entry (spec section 4.2): offset == -1, size
// == 0 means "closure is {g} only".
type Record struct {
	Offset int32
	Size   uint16
}

// Build computes closures for every gid in [0, numGlyphs) and serializes
// them into closure_idx/closure_data form.
func Build(b *Builder, numGlyphs int) (idx []Record, data []byte, err error) {
	idx = make([]Record, numGlyphs)
	for g := 0; g < numGlyphs; g++ {
		full, err := b.Closure(uint16(g))
		if err != nil {
			return nil, nil, err
		}
		delta := make([]uint16, 0, len(full))
		for _, c := range full {
			if c != uint16(g) {
				delta = append(delta, c)
			}
		}
		if len(delta) == 0 {
			idx[g] = Record{Offset: -1, Size: 0}
			continue
		}
		idx[g] = Record{Offset: int32(len(data)), Size: uint16(2 * len(delta))}
		for _, c := range delta {
			data = append(data, byte(c>>8), byte(c))
		}
	}
	return idx, data, nil
}

// EncodeIdx serializes the closure_idx array to its on-disk form.
func EncodeIdx(idx []Record) []byte {
	out := make([]byte, 0, len(idx)*6)
	for _, r := range idx {
		out = append(out, byte(r.Offset>>24), byte(r.Offset>>16), byte(r.Offset>>8), byte(r.Offset))
		out = append(out, byte(r.Size>>8), byte(r.Size))
	}
	return out
}

// Stats summarizes a completed closure build, a supplemented reporting
// feature grounded on original_source's closure_report tooling.
type Stats struct {
	NumGlyphs        int
	NumNonTrivial    int // gids whose closure is larger than {g}
	MaxClosureSize   int
	TotalClosureData int // bytes written to closure_data
}

// ComputeStats derives Stats from a completed Build call's outputs.
func ComputeStats(idx []Record, data []byte) Stats {
	s := Stats{NumGlyphs: len(idx), TotalClosureData: len(data)}
	for _, r := range idx {
		if r.Size > 0 {
			s.NumNonTrivial++
			n := int(r.Size)/2 + 1
			if n > s.MaxClosureSize {
				s.MaxClosureSize = n
			}
		} else if s.MaxClosureSize < 1 {
			s.MaxClosureSize = 1
		}
	}
	return s
}
