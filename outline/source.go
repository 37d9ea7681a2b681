package outline

import (
	"image"
	"sync"
)

// GlyphID identifies a glyph within one parsed font.
// It is only meaningful together with the Source that produced it.
type GlyphID uint16

// NoGlyph is returned by GlyphFor when the font has no glyph for a rune.
const NoGlyph GlyphID = 0

// Source is a parsed font that can measure and rasterize glyphs.
//
// All sizes are given in pixels per em (ppem). Pixel coordinates use a y
// axis that grows downwards with the origin on the baseline, so the top of
// a capital letter has a negative y.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Name returns the font family name, or "" if unknown.
	Name() string

	// GlyphFor returns the glyph for r, or NoGlyph if the font lacks one.
	GlyphFor(r rune) GlyphID

	// Bounds returns the pixel bounding box of the glyph at ppem, rounded
	// outwards to whole pixels. It reports false for glyphs without ink
	// such as the space.
	Bounds(id GlyphID, ppem float64) (image.Rectangle, bool)

	// Rasterize calls set for every pixel of the glyph's bounding box with
	// the coverage in [0, 1]. x and y are relative to Bounds().Min.
	Rasterize(id GlyphID, ppem float64, set func(x, y int, coverage float32))

	// Advance returns the horizontal advance of the glyph in pixels.
	Advance(id GlyphID, ppem float64) float64

	// Kerning returns the pair adjustment between a and b in pixels.
	Kerning(a, b GlyphID, ppem float64) float64

	// Metrics returns the vertical font metrics in pixels.
	Metrics(ppem float64) Metrics
}

// Metrics holds font-wide vertical metrics at a specific ppem.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float64

	// LineGap is the recommended gap between lines.
	LineGap float64
}

// Height returns the recommended distance between consecutive baselines.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// KerningMode selects where pair kerning values come from.
type KerningMode uint8

const (
	// KerningTable reads the legacy TrueType 'kern' table.
	// This is the default.
	KerningTable KerningMode = iota

	// KerningShaped runs HarfBuzz shaping on each glyph pair, which also
	// picks up GPOS pair adjustments.
	KerningShaped

	// KerningNone disables kerning.
	KerningNone
)

// String returns the string representation of the kerning mode.
func (m KerningMode) String() string {
	switch m {
	case KerningTable:
		return "Table"
	case KerningShaped:
		return "Shaped"
	case KerningNone:
		return "None"
	default:
		return "Unknown"
	}
}

// ParseOptions configures how a font is parsed.
type ParseOptions struct {
	Kerning KerningMode
}

// Parser turns raw font bytes into a Source.
type Parser interface {
	Parse(data []byte, opts ParseOptions) (Source, error)
}

// DefaultParserName is the name of the parser backed by golang.org/x/image/font/sfnt.
const DefaultParserName = "sfnt"

var (
	parsersMu sync.RWMutex
	parsers   = map[string]Parser{
		DefaultParserName: sfntParser{},
	}
)

// RegisterParser registers a parser under name, replacing any previous one.
func RegisterParser(name string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[name] = p
}

// lookupParser returns the parser by name, or the default if not found.
func lookupParser(name string) Parser {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	if p, ok := parsers[name]; ok {
		return p
	}
	return parsers[DefaultParserName]
}

// Parse parses font data with the named parser. An empty or unknown name
// selects the default sfnt parser.
func Parse(data []byte, parserName string, opts ParseOptions) (Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	return lookupParser(parserName).Parse(data, opts)
}
