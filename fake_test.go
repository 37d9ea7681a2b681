package galley

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/galley/atlas"
	"github.com/gogpu/galley/outline"
)

// fakeSource is a deterministic outline.Source: every rune below U+FFFF
// maps to the glyph with the same number, advances are half the pixel
// size, and every inked glyph is an 8x16 box with its top 14 pixels above
// the baseline.
type fakeSource struct {
	missing map[rune]bool
	kerning map[[2]rune]float64 // pixels
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		missing: map[rune]bool{'\n': true, 'Ω': true},
		kerning: map[[2]rune]float64{},
	}
}

var fakeGlyphBounds = image.Rect(1, -14, 9, 2)

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) GlyphFor(r rune) outline.GlyphID {
	if r <= 0 || r > 0xFFFF || s.missing[r] {
		return outline.NoGlyph
	}
	return outline.GlyphID(r)
}

func (s *fakeSource) Bounds(id outline.GlyphID, _ float64) (image.Rectangle, bool) {
	if isBreakable(rune(id)) || rune(id) == nonBreakingSpace {
		return image.Rectangle{}, false
	}
	return fakeGlyphBounds, true
}

func (s *fakeSource) Rasterize(id outline.GlyphID, ppem float64, set func(x, y int, coverage float32)) {
	if _, ok := s.Bounds(id, ppem); !ok {
		return
	}
	for y := 0; y < fakeGlyphBounds.Dy(); y++ {
		for x := 0; x < fakeGlyphBounds.Dx(); x++ {
			set(x, y, 0.5)
		}
	}
}

func (s *fakeSource) Advance(_ outline.GlyphID, ppem float64) float64 { return ppem / 2 }

func (s *fakeSource) Kerning(a, b outline.GlyphID, _ float64) float64 {
	return s.kerning[[2]rune{rune(a), rune(b)}]
}

func (s *fakeSource) Metrics(ppem float64) outline.Metrics {
	return outline.Metrics{Ascent: ppem * 0.8, Descent: ppem * 0.2}
}

// newFakeFont creates a 20pt font at one pixel per point on a fresh
// default atlas: rows are 20 points tall and every character is 10 wide.
func newFakeFont(t testing.TB, opts ...Option) *Font {
	t.Helper()
	return newFakeFontWith(t, newFakeSource(), 1, opts...)
}

func newFakeFontWith(t testing.TB, src outline.Source, ppp float64, opts ...Option) *Font {
	t.Helper()

	f, err := NewFontFromSource(atlas.NewDefault(), src, 20, ppp, opts...)
	if err != nil {
		t.Fatalf("NewFontFromSource() error = %v", err)
	}
	return f
}

// failingAtlas rejects every edit.
type failingAtlas struct{ err error }

func (a failingAtlas) Edit(func(atlas.Editor) error) error { return a.err }

var errAtlasBroken = errors.New("atlas broken")

func mustAtlas(t testing.TB) *atlas.Atlas {
	t.Helper()

	a, err := atlas.New(atlas.DefaultConfig())
	if err != nil {
		t.Fatalf("atlas.New() error = %v", err)
	}
	return a
}
