// Package otf provides a minimal reader/writer for the OpenType table
// directory and the handful of tables TachyFont's preprocessor and bundle
// assembler need to inspect: head, hmtx/vmtx, glyf/loca, CFF, and cmap.
//
// It deliberately does not implement glyph rendering, shaping, or any
// OpenType table this pipeline never touches; see spec section 1 for the
// boundary.
package otf

import "fmt"

// InvalidFontError indicates that a font file is malformed in a way this
// pipeline cannot recover from.
type InvalidFontError struct {
	SubSystem string
	Reason    string
}

func (err *InvalidFontError) Error() string {
	return err.SubSystem + ": " + err.Reason
}

// NotSupportedError indicates that a font file is well-formed but uses a
// feature this pipeline does not implement.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return err.SubSystem + ": " + err.Feature + " not supported"
}

// IsUnsupported reports whether err is a *NotSupportedError.
func IsUnsupported(err error) bool {
	_, ok := err.(*NotSupportedError)
	return ok
}

// MissingTableError indicates that a required table is absent from the
// font's table directory.
type MissingTableError struct {
	Name string
}

func (err *MissingTableError) Error() string {
	return fmt.Sprintf("sfnt: table %q not found", err.Name)
}

// IsMissing reports whether err is a *MissingTableError.
func IsMissing(err error) bool {
	_, ok := err.(*MissingTableError)
	return ok
}
