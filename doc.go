// Package galley turns strings into positioned glyph rows ready for a
// texture-atlas text renderer.
//
// A Font caches the glyphs of one font file at one size. The first time a
// character is seen its glyph is rasterized into a shared atlas.Atlas;
// afterwards lookups are a read-locked map access. Characters missing from
// the font are drawn with a replacement glyph ('?' by default), so lookups
// never fail.
//
// Layout produces a Galley: rows of cumulative pen positions, in points,
// with kerning applied and every position rounded to a whole pixel.
// LayoutMultiline wraps greedily at whitespace, keeping the breaking
// whitespace at the end of the row it ends.
//
// # Quick Start
//
//	a := atlas.NewDefault()
//	f, err := galley.NewFont(a, goregular.TTF, 14, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g := f.LayoutMultiline("Hello, world!\nSecond paragraph.", 120)
//	for _, row := range g.Rows {
//	    // draw glyphs at row.XOffsets[i], row.YMin
//	}
//
// Several fonts, for example different sizes, can share one atlas. All
// Font methods are safe for concurrent use.
package galley
