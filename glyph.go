package galley

import "github.com/gogpu/galley/outline"

// Vec2 is a 2D vector in points.
type Vec2 struct {
	X, Y float64
}

// TexelPos is an integer pixel position in the atlas.
type TexelPos struct {
	X, Y uint16
}

// UvRect locates a rasterized glyph in the atlas and tells the renderer
// where to draw it relative to the pen position.
type UvRect struct {
	// Offset from the pen position to the glyph's top-left corner, in
	// points. Y is measured down from the top of the row.
	Offset Vec2

	// Size of the glyph quad in points.
	Size Vec2

	// Min is the top-left texel of the glyph in the atlas.
	Min TexelPos

	// Max is the bottom-right texel, exclusive.
	Max TexelPos
}

// GlyphInfo is the cached per-character data. It is a small value type
// and is returned by copy.
type GlyphInfo struct {
	id outline.GlyphID

	// AdvanceWidth is how far the pen moves after this glyph, in points.
	AdvanceWidth float64

	// UV is valid only when HasUV is true. Glyphs without ink, such as
	// space, have no texture.
	UV    UvRect
	HasUV bool
}

// ID returns the glyph's index in the font. It is only meaningful for the
// font that produced it.
func (g GlyphInfo) ID() outline.GlyphID { return g.id }
