package outline

import "errors"

// Sentinel errors for the outline package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("outline: empty font data")
)
