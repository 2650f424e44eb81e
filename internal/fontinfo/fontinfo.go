// Package fontinfo summarizes a font and its preprocessing outputs for
// diagnostics, grounded on original_source's build_time/src/font_info.py
// reporting tool.
package fontinfo

import "fmt"

// Summary is a human-readable report of one preprocessing run, the kind
// of thing a build tool prints to stdout or logs at info level.
type Summary struct {
	Path             string
	Flavor           string
	NumGlyphs        int
	UnitsPerEm       uint16
	NumCodepoints    int
	BaseFontBytes    int
	RLEEncodedBytes  int
	ClosureNonTrivial int
	MaxClosureSize   int
}

// String renders the summary the way a CLI would print it after a build.
func (s Summary) String() string {
	ratio := 0.0
	if s.BaseFontBytes > 0 {
		ratio = float64(s.RLEEncodedBytes) / float64(s.BaseFontBytes)
	}
	return fmt.Sprintf(
		"%s: flavor=%s glyphs=%d unitsPerEm=%d codepoints=%d base=%dB rle=%dB (%.1f%%) nonTrivialClosures=%d maxClosure=%d",
		s.Path, s.Flavor, s.NumGlyphs, s.UnitsPerEm, s.NumCodepoints,
		s.BaseFontBytes, s.RLEEncodedBytes, ratio*100, s.ClosureNonTrivial, s.MaxClosureSize,
	)
}
