package outline

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sfntParser implements Parser using golang.org/x/image/font/sfnt.
type sfntParser struct{}

// Parse implements Parser.Parse.
func (sfntParser) Parse(data []byte, opts ParseOptions) (Source, error) {
	// sfnt.Font keeps referencing the bytes it was parsed from.
	data = bytes.Clone(data)

	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font: %w", err)
	}

	s := &sfntSource{
		font:    f,
		kerning: opts.Kerning,
	}
	s.buffers.New = func() any { return new(sfnt.Buffer) }

	if opts.Kerning == KerningShaped {
		k, err := newShapedKerner(data)
		if err != nil {
			return nil, err
		}
		s.shaped = k
	}

	buf := s.buffer()
	if name, err := f.Name(buf, sfnt.NameIDFamily); err == nil {
		s.name = name
	}
	s.release(buf)

	slogger().Debug("outline: font parsed",
		"name", s.name,
		"glyphs", f.NumGlyphs(),
		"kerning", opts.Kerning.String())

	return s, nil
}

// sfntSource implements Source on top of an *sfnt.Font.
//
// sfnt.Font methods are safe for concurrent use as long as every goroutine
// passes its own sfnt.Buffer, so buffers are pooled.
type sfntSource struct {
	font    *sfnt.Font
	name    string
	kerning KerningMode
	shaped  *shapedKerner
	buffers sync.Pool
}

func (s *sfntSource) buffer() *sfnt.Buffer     { return s.buffers.Get().(*sfnt.Buffer) }
func (s *sfntSource) release(buf *sfnt.Buffer) { s.buffers.Put(buf) }

// Name implements Source.Name.
func (s *sfntSource) Name() string {
	return s.name
}

// GlyphFor implements Source.GlyphFor.
func (s *sfntSource) GlyphFor(r rune) GlyphID {
	buf := s.buffer()
	defer s.release(buf)

	idx, err := s.font.GlyphIndex(buf, r)
	if err != nil || idx > math.MaxUint16 {
		return NoGlyph
	}
	id := GlyphID(idx)
	if s.shaped != nil && id != NoGlyph {
		s.shaped.remember(id, r)
	}
	return id
}

// Bounds implements Source.Bounds.
func (s *sfntSource) Bounds(id GlyphID, ppem float64) (image.Rectangle, bool) {
	segments, ok := s.load(id, ppem)
	if !ok {
		return image.Rectangle{}, false
	}
	return pixelBounds(segments.Bounds())
}

// Rasterize implements Source.Rasterize.
func (s *sfntSource) Rasterize(id GlyphID, ppem float64, set func(x, y int, coverage float32)) {
	segments, ok := s.load(id, ppem)
	if !ok {
		return
	}
	bounds, ok := pixelBounds(segments.Bounds())
	if !ok {
		return
	}
	rasterize(segments, bounds, set)
}

// Advance implements Source.Advance.
func (s *sfntSource) Advance(id GlyphID, ppem float64) float64 {
	buf := s.buffer()
	defer s.release(buf)

	advance, err := s.font.GlyphAdvance(buf, sfnt.GlyphIndex(id), floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(advance)
}

// Kerning implements Source.Kerning.
func (s *sfntSource) Kerning(a, b GlyphID, ppem float64) float64 {
	switch s.kerning {
	case KerningNone:
		return 0
	case KerningShaped:
		return s.shaped.kern(a, b, ppem)
	}

	buf := s.buffer()
	defer s.release(buf)

	// sfnt.ErrNotFound means the font has no kern table or no entry for the pair.
	k, err := s.font.Kern(buf, sfnt.GlyphIndex(a), sfnt.GlyphIndex(b), floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(k)
}

// Metrics implements Source.Metrics.
func (s *sfntSource) Metrics(ppem float64) Metrics {
	buf := s.buffer()
	defer s.release(buf)

	m, err := s.font.Metrics(buf, floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return Metrics{}
	}

	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return Metrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: fixedToFloat(m.Height) - ascent - descent,
	}
}

// load returns the scaled outline of a glyph. The returned segments are
// copied out of the pooled buffer.
func (s *sfntSource) load(id GlyphID, ppem float64) (sfnt.Segments, bool) {
	buf := s.buffer()
	defer s.release(buf)

	segments, err := s.font.LoadGlyph(buf, sfnt.GlyphIndex(id), floatToFixed(ppem), nil)
	if err != nil || len(segments) == 0 {
		return nil, false
	}
	out := make(sfnt.Segments, len(segments))
	copy(out, segments)
	return out, true
}

// pixelBounds rounds a fixed-point box outwards to whole pixels.
func pixelBounds(b fixed.Rectangle26_6) (image.Rectangle, bool) {
	r := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// fixedToFloat converts fixed.Int26_6 to float64.
func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
