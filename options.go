package galley

import (
	"unicode"

	"github.com/gogpu/galley/internal/cache"
	"github.com/gogpu/galley/outline"
)

// DefaultReplacementChar is drawn in place of characters the font cannot
// render.
const DefaultReplacementChar = '?'

// Option configures a Font during creation.
//
// Example:
//
//	f, err := galley.NewFont(a, data, 14, 2,
//	    galley.WithReplacementChar('�'),
//	    galley.WithPreload(unicode.Greek),
//	)
type Option func(*fontConfig)

// fontConfig holds optional configuration for Font creation.
type fontConfig struct {
	replacementChar  rune
	preload          []*unicode.RangeTable
	parser           string
	kerning          outline.KerningMode
	kerningCacheSize int
}

func defaultFontConfig() fontConfig {
	return fontConfig{
		replacementChar:  DefaultReplacementChar,
		preload:          []*unicode.RangeTable{defaultPreload},
		parser:           outline.DefaultParserName,
		kerning:          outline.KerningTable,
		kerningCacheSize: cache.DefaultCapacity,
	}
}

// WithReplacementChar sets the character drawn for anything the font
// cannot render. NewFont fails if the font has no glyph for it.
func WithReplacementChar(r rune) Option {
	return func(c *fontConfig) {
		c.replacementChar = r
	}
}

// WithPreload adds character ranges that are rasterized during NewFont, in
// addition to printable ASCII and the degree sign. Preloading keeps the
// first layout of common text off the rasterization path.
func WithPreload(tables ...*unicode.RangeTable) Option {
	return func(c *fontConfig) {
		for _, t := range tables {
			if t != nil {
				c.preload = append(c.preload, t)
			}
		}
	}
}

// WithParser selects a font backend registered with outline.RegisterParser.
// Unknown names fall back to the default sfnt backend.
func WithParser(name string) Option {
	return func(c *fontConfig) {
		c.parser = name
	}
}

// WithKerning selects where pair kerning comes from.
// Default: outline.KerningTable
func WithKerning(mode outline.KerningMode) Option {
	return func(c *fontConfig) {
		c.kerning = mode
	}
}

// WithKerningCacheSize bounds the number of memoized kerning pairs.
// Values <= 0 select the default.
func WithKerningCacheSize(n int) Option {
	return func(c *fontConfig) {
		c.kerningCacheSize = n
	}
}
