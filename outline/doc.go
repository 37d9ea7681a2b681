// Package outline adapts parsed font files to the small glyph contract the
// glyph cache needs: rune to glyph lookup, advance widths, pair kerning,
// pixel bounding boxes and coverage rasterization.
//
// The default backend parses TrueType/OpenType data with
// golang.org/x/image/font/sfnt and fills outlines with
// golang.org/x/image/vector. Pair kerning comes from the 'kern' table by
// default; KerningShaped asks go-text/typesetting's HarfBuzz port instead,
// which also covers GPOS kerning:
//
//	src, err := outline.Parse(goregular.TTF, "", outline.ParseOptions{
//	    Kerning: outline.KerningShaped,
//	})
//
// Alternative backends can be plugged in with RegisterParser.
package outline
