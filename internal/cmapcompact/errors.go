package cmapcompact

import "errors"

var errUnsupportedCharsetFormat = errors.New("cmapcompact: unsupported CFF charset format")
