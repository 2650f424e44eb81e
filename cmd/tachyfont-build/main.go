// Command tachyfont-build runs the offline preprocessing pipeline over a
// single OpenType font, producing a base font plus the side files the
// bundle assembler needs at request time (spec sections 4 and 6).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tachyfont/tachyfont/internal/basefont"
	"github.com/tachyfont/tachyfont/internal/bsac"
	"github.com/tachyfont/tachyfont/internal/bundle"
	"github.com/tachyfont/tachyfont/internal/cleaner"
	"github.com/tachyfont/tachyfont/internal/closure"
	"github.com/tachyfont/tachyfont/internal/cmapcompact"
	"github.com/tachyfont/tachyfont/internal/config"
	"github.com/tachyfont/tachyfont/internal/fontinfo"
	"github.com/tachyfont/tachyfont/internal/glyphser"
	"github.com/tachyfont/tachyfont/internal/otf"
	"github.com/tachyfont/tachyfont/internal/otf/cff"
	"github.com/tachyfont/tachyfont/internal/otf/cmap"
	"github.com/tachyfont/tachyfont/internal/otf/glyf"
	"github.com/tachyfont/tachyfont/internal/otf/gsub"
	"github.com/tachyfont/tachyfont/internal/otf/head"
)

func main() {
	fontPath := flag.String("font", "", "path to the source OpenType font")
	outDir := flag.String("out", "", "directory to write the artifact set into")
	configPath := flag.String("config", "", "path to a TOML configuration file (optional)")
	info := flag.Bool("info", false, "print a one-line diagnostic after each pipeline stage")
	verbose := flag.Bool("v", false, "print closure statistics after the closure stage")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *fontPath == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: tachyfont-build -font FONT -out DIR [-config CONFIG] [-info] [-v]")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	if err := run(logger, *fontPath, *outDir, cfg, *info, *verbose); err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, fontPath, outDir string, cfg config.Config, info, verbose bool) error {
	stage := func(name string) {
		if info {
			fmt.Fprintf(os.Stderr, "stage %s: done\n", name)
		}
	}
	font, err := otf.Open(fontPath)
	if err != nil {
		return fmt.Errorf("opening font: %w", err)
	}

	headBytes, err := font.Table("head")
	if err != nil {
		return err
	}
	headInfo, err := head.Read(headBytes)
	if err != nil {
		return err
	}

	maxpBytes, err := font.Table("maxp")
	if err != nil {
		return err
	}
	if len(maxpBytes) < 6 {
		return fmt.Errorf("maxp table too short")
	}
	numGlyphs := int(maxpBytes[4])<<8 | int(maxpBytes[5])

	cmapBytes, err := font.Table("cmap")
	if err != nil {
		return err
	}
	cmapTable, err := cmap.Decode(cmapBytes)
	if err != nil {
		return err
	}
	unified, err := cmapTable.Unified()
	if err != nil {
		return err
	}
	reverse := cleaner.ReverseCmap(unified)

	var gsubReach gsub.Reachability
	if font.Header.Has("GSUB") {
		gsubBytes, err := font.Table("GSUB")
		if err != nil {
			return err
		}
		gsubReach, err = gsub.BuildReachability(gsubBytes)
		if err != nil {
			logger.Warn("GSUB reachability skipped", "error", err)
		}
	}

	var closureBuilder *closure.Builder
	var invalidGids []uint16
	var locaOffs []int
	var glyfBytes []byte
	var cffTable *cff.Table
	var cffOffset uint32
	var cffGlyphData []byte

	if font.Flavor == otf.FlavorTrueType {
		glyfBytes, err = font.Table("glyf")
		if err != nil {
			return err
		}
		locaBytes, err := font.Table("loca")
		if err != nil {
			return err
		}
		locaOffs, err = glyf.DecodeLoca(locaBytes, headInfo.IndexToLocFormat, len(glyfBytes))
		if err != nil {
			return err
		}
		invalidGids, err = cleaner.InvalidGids(glyfBytes, locaOffs, reverse)
		if err != nil {
			return err
		}
		closureBuilder = closure.NewBuilder(glyfBytes, locaOffs, gsubReach)
	} else {
		closureBuilder = closure.NewCFFBuilder(gsubReach)
		cffBytes, err := font.Table("CFF ")
		if err != nil {
			return err
		}
		cffOffset, _, err = font.TableRange("CFF ")
		if err != nil {
			return err
		}
		cffTable, err = cff.Parse(cffBytes)
		if err != nil {
			return fmt.Errorf("parsing CFF table: %w", err)
		}
	}
	keep := cleaner.KeepSet(numGlyphs, invalidGids)
	logger.Info("cleaner", "numGlyphs", numGlyphs, "invalid", len(invalidGids), "kept", len(keep))
	stage("cleaner")

	closureIdx, closureData, err := closure.Build(closureBuilder, numGlyphs)
	if err != nil {
		return fmt.Errorf("building closure: %w", err)
	}
	stats := closure.ComputeStats(closureIdx, closureData)
	stage("closure")
	if verbose {
		fmt.Fprintf(os.Stderr, "closure: %d/%d glyphs have non-trivial closures, largest closure has %d gids\n",
			stats.NumNonTrivial, numGlyphs, stats.MaxClosureSize)
	}

	hheaBytes, err := font.Table("hhea")
	if err != nil {
		return err
	}
	hmtxBytes, err := font.Table("hmtx")
	if err != nil {
		return err
	}
	if err := basefont.ZeroSideBearings(hheaBytes, hmtxBytes, numGlyphs); err != nil {
		return fmt.Errorf("zeroing side bearings: %w", err)
	}

	codes := cmap.SortedCodepoints(unified)
	codepointsBuf := make([]byte, 0, 4*len(codes))
	gidsBuf := make([]byte, 0, 2*len(codes))
	for _, c := range codes {
		gid := uint16(unified[c])
		codepointsBuf = append(codepointsBuf, byte(c>>24), byte(c>>16), byte(c>>8), byte(c))
		gidsBuf = append(gidsBuf, byte(gid>>8), byte(gid))
	}
	var format4SegStarts, format4SegEnds []uint16
	for _, sub := range cmapTable.Subtables {
		if len(sub) < 2 || uint16(sub[0])<<8|uint16(sub[1]) != 4 {
			continue
		}
		format4SegStarts, format4SegEnds, err = cmap.DecodeFormat4Segments(sub)
		if err != nil {
			return fmt.Errorf("decoding format-4 segments: %w", err)
		}
		break
	}
	// CCMP is GOS types 2 (or 3/5) and 4 concatenated (spec section 6).
	compactCmap, err := cmapcompact.CompactCmap(cmap.GroupsFromSorted(codes, unified), format4SegStarts, format4SegEnds)
	if err != nil {
		return fmt.Errorf("compacting cmap: %w", err)
	}

	baseFontBytes := append([]byte(nil), font.Data...)

	hmtxOffset, hmtxLen, err := font.TableRange("hmtx")
	if err != nil {
		return err
	}
	if err := basefont.ZeroSideBearings(hheaBytes, baseFontBytes[hmtxOffset:hmtxOffset+hmtxLen], numGlyphs); err != nil {
		return fmt.Errorf("zeroing side bearings: %w", err)
	}

	if !cfg.Font.KeepHinting {
		for _, tag := range []string{"fpgm", "prep", "cvt "} {
			if !font.Header.Has(tag) {
				continue
			}
			hintOffset, hintLen, err := font.TableRange(tag)
			if err != nil {
				return err
			}
			for i := uint32(0); i < hintLen; i++ {
				baseFontBytes[hintOffset+i] = 0
			}
		}
	}

	if font.Flavor == otf.FlavorTrueType {
		glyfOffset, glyfLen, err := font.TableRange("glyf")
		if err != nil {
			return err
		}
		for i := uint32(0); i < glyfLen; i++ {
			baseFontBytes[glyfOffset+i] = 0
		}

		segmentedLoca := basefont.SegmentLocaLastFill(locaOffs)
		locaOffset, locaLen, err := font.TableRange("loca")
		if err != nil {
			return err
		}
		locaSlice := baseFontBytes[locaOffset : locaOffset+locaLen]
		if headInfo.IndexToLocFormat == 0 {
			glyf.EncodeLoca16(locaSlice, segmentedLoca)
		} else {
			glyf.EncodeLoca32(locaSlice, segmentedLoca)
		}
	} else {
		csStart := int(cffOffset) + cffTable.CharStrings.DataStart
		csEnd := int(cffOffset) + cffTable.CharStrings.DataEnd
		// glyph_data must carry the original, unzeroed CharStrings bytes;
		// capture them before the base font's copy is erased below.
		cffGlyphData = append([]byte(nil), font.Data[csStart:csEnd]...)
		for i := csStart; i < csEnd; i++ {
			baseFontBytes[i] = 0
		}

		segmentedOffs, err := basefont.SegmentOffsetsFirstFill(cffTable.CharStrings.Offsets)
		if err != nil {
			return fmt.Errorf("segmenting CFF CharStrings offsets: %w", err)
		}
		if err := cffTable.CharStrings.WriteOffsets(baseFontBytes[cffOffset:], segmentedOffs); err != nil {
			return fmt.Errorf("writing segmented CFF CharStrings offsets: %w", err)
		}
	}

	var compactCharset []byte
	if font.Flavor == otf.FlavorCFF && cffTable.Top.CharsetOffset > cff.ExpertSubsetCharset {
		charsetPos := int(cffOffset) + cffTable.Top.CharsetOffset
		if charsetPos >= len(font.Data) {
			return fmt.Errorf("CFF charset offset out of range")
		}
		format := int(font.Data[charsetPos])
		ranges, err := cff.ReadCharsetRanges(font.Data, charsetPos, numGlyphs, format)
		if err != nil {
			return fmt.Errorf("reading CFF charset: %w", err)
		}
		compactCharset, err = cmapcompact.CompactCharset(format, cffOffset, uint32(cffTable.Top.CharsetOffset), ranges)
		if err != nil {
			return fmt.Errorf("compacting CFF charset: %w", err)
		}
		if format == 2 {
			if err := cff.ZeroCharsetFormat2(baseFontBytes, charsetPos, numGlyphs); err != nil {
				return fmt.Errorf("zeroing CFF charset: %w", err)
			}
		}
	}

	cmapOffset, _, err := font.TableRange("cmap")
	if err != nil {
		return err
	}
	for offset, sub := range cmapTable.Subtables {
		if len(sub) < 2 {
			continue
		}
		format := uint16(sub[0])<<8 | uint16(sub[1])
		if format != 4 && format != 12 {
			continue
		}
		abs := cmapOffset + offset
		if int(abs)+len(sub) > len(baseFontBytes) {
			return fmt.Errorf("cmap subtable at offset %d runs past end of font", offset)
		}
		if err := basefont.ZeroCmapSubtablePostHeader(baseFontBytes[abs:int(abs)+len(sub)], format); err != nil {
			return fmt.Errorf("zeroing cmap subtable: %w", err)
		}
	}

	encoded := basefont.Finalize(baseFontBytes, headerFor(cfg, numGlyphs, font.Flavor, compactCmap, compactCharset))
	stage("basefont")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "base"), encoded, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "closure_idx"), closure.EncodeIdx(closureIdx), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "closure_data"), closureData, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "codepoints"), codepointsBuf, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "gids"), gidsBuf, 0o644); err != nil {
		return err
	}

	dropGids := make(map[uint16]bool, len(invalidGids))
	for _, g := range invalidGids {
		dropGids[g] = true
	}

	var glyphTableBytes, glyphDataBytes []byte
	switch font.Flavor {
	case otf.FlavorTrueType:
		data, offs, lens := glyphser.BuildGlyphData(glyfBytes, locaOffs, dropGids)
		entries := make([]glyphser.Entry, numGlyphs)
		for g := 0; g < numGlyphs; g++ {
			entries[g] = glyphser.Entry{GID: uint16(g), Offset: offs[g], Length: lens[g]}
		}
		glyphTableBytes = glyphser.EncodeTrueType(0, entries)
		glyphDataBytes = data
	case otf.FlavorCFF:
		entries := make([]glyphser.Entry, numGlyphs)
		for g := 0; g < numGlyphs; g++ {
			start, end := cffTable.CharStrings.Get(g)
			entries[g] = glyphser.Entry{
				GID: uint16(g),
				// Matches the bundler's start -= cffDataRegionOffset+1
				// reconstruction (bundle.go), which expects this to
				// decode back to start-DataStart, glyph_data's own index.
				Offset: cffOffset + uint32(start) + 1,
				Length: uint16(end - start),
			}
		}
		glyphTableBytes = glyphser.EncodeCFF(0, cffOffset+uint32(cffTable.CharStrings.DataStart), entries)
		glyphDataBytes = cffGlyphData
	}
	if glyphTableBytes != nil {
		if err := os.WriteFile(filepath.Join(outDir, "glyph_table"), glyphTableBytes, 0o644); err != nil {
			return err
		}
	}
	if glyphDataBytes != nil {
		if err := os.WriteFile(filepath.Join(outDir, "glyph_data"), glyphDataBytes, 0o644); err != nil {
			return err
		}
	}
	stage("glyphser")

	fp := bundle.FingerprintFont(font.Data)
	if err := os.WriteFile(filepath.Join(outDir, "sha1_fingerprint"), []byte(fmt.Sprintf("%040x", fp)), 0o644); err != nil {
		return err
	}

	summary := fontinfo.Summary{
		Path:              fontPath,
		Flavor:            font.Flavor.String(),
		NumGlyphs:         numGlyphs,
		UnitsPerEm:        headInfo.UnitsPerEm,
		NumCodepoints:     len(codes),
		BaseFontBytes:     len(font.Data),
		RLEEncodedBytes:   len(encoded),
		ClosureNonTrivial: stats.NumNonTrivial,
		MaxClosureSize:    stats.MaxClosureSize,
	}
	logger.Info("build complete", "summary", summary.String())
	return nil
}

// headerFor assembles the BSAC header prepended to the "base" artifact,
// per spec section 6: glyph count, flavor, and — when computed — the
// compacted cmap and CFF charset GOS blobs the runtime reads back by tag
// instead of re-deriving from the base font.
func headerFor(cfg config.Config, numGlyphs int, flavor otf.Flavor, compactCmap, compactCharset []byte) *bsac.Header {
	if !cfg.BSAC.PrependHeader {
		return nil
	}
	h := bsac.NewHeader(cfg.BSAC.Version)
	h.Add(bsac.TagGlyphCount, []byte{byte(numGlyphs >> 8), byte(numGlyphs)})
	// Spec section 6: TYPE is '\0' for CFF, '\1' for TrueType.
	flavorByte := byte(0)
	if flavor == otf.FlavorTrueType {
		flavorByte = 1
	}
	h.Add(bsac.TagFlavor, []byte{flavorByte})
	if len(compactCmap) > 0 {
		h.Add(bsac.TagCompactCmap, compactCmap)
	}
	if len(compactCharset) > 0 {
		h.Add(bsac.TagCharsetGOS, compactCharset)
	}
	return h
}
