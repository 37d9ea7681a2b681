package galley

import (
	"errors"
	"fmt"
)

// Sentinel errors for the galley package.
var (
	// ErrInvalidScale is returned when the font size is not a finite
	// positive number of points.
	ErrInvalidScale = errors.New("galley: scale must be finite and positive")

	// ErrInvalidPixelsPerPoint is returned when the pixel density is not a
	// finite positive number.
	ErrInvalidPixelsPerPoint = errors.New("galley: pixels per point must be finite and positive")

	// ErrNilAtlas is returned when a font is created without an atlas.
	ErrNilAtlas = errors.New("galley: atlas is nil")

	// ErrNoGlyph is returned when the font has no glyph for a character.
	ErrNoGlyph = errors.New("galley: font has no glyph for character")
)

// ReplacementGlyphError is returned by NewFont when the replacement glyph
// cannot be prepared. A font without a usable replacement glyph cannot
// guarantee that every character resolves, so construction fails.
type ReplacementGlyphError struct {
	Char rune
	Err  error
}

func (e *ReplacementGlyphError) Error() string {
	return fmt.Sprintf("galley: replacement glyph %q unavailable: %v", e.Char, e.Err)
}

func (e *ReplacementGlyphError) Unwrap() error { return e.Err }

// ErrInvalidLayout is wrapped by the errors Row.Validate and
// Galley.Validate return.
var ErrInvalidLayout = errors.New("galley: invalid layout")
