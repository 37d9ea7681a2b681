package galley

import (
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/gogpu/galley/atlas"
	"github.com/gogpu/galley/internal/cache"
	"github.com/gogpu/galley/outline"
)

const (
	// baselineCorrectionPixels shifts every glyph up by a fixed number of
	// pixels when anchoring it to the row. The value is empirical; it is
	// not derived from the font's vertical metrics.
	baselineCorrectionPixels = 4

	// paragraphSpacing is the extra vertical gap after each paragraph, as a
	// fraction of the row height.
	paragraphSpacing = 0.4
)

// defaultPreload is printable ASCII [0x20, 0x7E] plus the degree sign.
var defaultPreload = func() *unicode.RangeTable {
	runes := make([]rune, 0, 0x7E-0x20+2)
	for r := rune(0x20); r <= 0x7E; r++ {
		runes = append(runes, r)
	}
	return rangetable.New(append(runes, '°')...)
}()

// Atlas is the shared texture glyphs are packed into. *atlas.Atlas
// implements it; several fonts may share one.
type Atlas interface {
	// Edit runs fn with exclusive access to the atlas.
	Edit(fn func(atlas.Editor) error) error
}

// Font caches glyphs of one font file at one size and pixel density, and
// lays out text with them. All units in the API are points.
//
// Font is safe for concurrent use. Cached lookups only take a read lock;
// rasterizing a new glyph holds the atlas for the duration of the write and
// the cache lock only for the insertion.
type Font struct {
	source          outline.Source
	atlas           Atlas
	scaleInPixels   float64
	pixelsPerPoint  float64
	replacementChar rune
	replacement     GlyphInfo

	mu     sync.RWMutex
	glyphs map[rune]GlyphInfo

	kerning *cache.Sharded[uint32, float64]

	hits        atomic.Uint64
	misses      atomic.Uint64
	rasterized  atomic.Uint64
	substituted atomic.Uint64
}

// NewFont parses data and creates a font of scaleInPoints points rendered
// at pixelsPerPoint pixels per point into a.
//
// The replacement glyph and the preload set are rasterized before NewFont
// returns. If the replacement glyph cannot be produced NewFont returns a
// *ReplacementGlyphError.
func NewFont(a Atlas, data []byte, scaleInPoints, pixelsPerPoint float64, opts ...Option) (*Font, error) {
	cfg := defaultFontConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	src, err := outline.Parse(data, cfg.parser, outline.ParseOptions{Kerning: cfg.kerning})
	if err != nil {
		return nil, fmt.Errorf("galley: failed to load font: %w", err)
	}
	return newFont(a, src, scaleInPoints, pixelsPerPoint, cfg)
}

// NewFontFromSource is like NewFont but uses an already parsed outline
// source. Parser and kerning options are ignored.
func NewFontFromSource(a Atlas, src outline.Source, scaleInPoints, pixelsPerPoint float64, opts ...Option) (*Font, error) {
	cfg := defaultFontConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newFont(a, src, scaleInPoints, pixelsPerPoint, cfg)
}

// MustNewFont is like NewFont but panics on error.
func MustNewFont(a Atlas, data []byte, scaleInPoints, pixelsPerPoint float64, opts ...Option) *Font {
	f, err := NewFont(a, data, scaleInPoints, pixelsPerPoint, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func newFont(a Atlas, src outline.Source, scaleInPoints, pixelsPerPoint float64, cfg fontConfig) (*Font, error) {
	if a == nil {
		return nil, ErrNilAtlas
	}
	if !isPositive(scaleInPoints) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, scaleInPoints)
	}
	if !isPositive(pixelsPerPoint) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPixelsPerPoint, pixelsPerPoint)
	}

	f := &Font{
		source:          src,
		atlas:           a,
		scaleInPixels:   scaleInPoints * pixelsPerPoint,
		pixelsPerPoint:  pixelsPerPoint,
		replacementChar: cfg.replacementChar,
		glyphs:          make(map[rune]GlyphInfo),
		kerning:         cache.NewSharded[uint32, float64](cfg.kerningCacheSize, cache.Uint32Hasher),
	}

	replacement, err := f.allocateGlyph(cfg.replacementChar)
	if err != nil {
		return nil, &ReplacementGlyphError{Char: cfg.replacementChar, Err: err}
	}
	f.replacement = replacement
	f.glyphs[cfg.replacementChar] = replacement

	rangetable.Visit(rangetable.Merge(cfg.preload...), func(r rune) {
		f.Glyph(r)
	})

	Logger().Info("galley: font created",
		"font", src.Name(),
		"scale_px", f.scaleInPixels,
		"ppp", pixelsPerPoint,
		"preloaded", f.cachedGlyphs())
	return f, nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Name returns the font's family name.
func (f *Font) Name() string { return f.source.Name() }

// PixelsPerPoint returns the pixel density the font renders at.
func (f *Font) PixelsPerPoint() float64 { return f.pixelsPerPoint }

// Atlas returns the atlas glyphs are rasterized into.
func (f *Font) Atlas() Atlas { return f.atlas }

// RowHeight returns the height of one row of text in points.
func (f *Font) RowHeight() float64 {
	return f.scaleInPixels / f.pixelsPerPoint
}

// RoundToPixel rounds a length in points to the nearest whole pixel.
func (f *Font) RoundToPixel(points float64) float64 {
	return math.Round(points*f.pixelsPerPoint) / f.pixelsPerPoint
}

// Metrics returns the font's vertical metrics in points.
func (f *Font) Metrics() outline.Metrics {
	m := f.source.Metrics(f.scaleInPixels)
	return outline.Metrics{
		Ascent:  m.Ascent / f.pixelsPerPoint,
		Descent: m.Descent / f.pixelsPerPoint,
		LineGap: m.LineGap / f.pixelsPerPoint,
	}
}

// UVRect returns the atlas placement of c if c is already cached and has
// ink. It never rasterizes.
func (f *Font) UVRect(c rune) (UvRect, bool) {
	f.mu.RLock()
	g, ok := f.glyphs[c]
	f.mu.RUnlock()
	if !ok || !g.HasUV {
		return UvRect{}, false
	}
	return g.UV, true
}

// GlyphWidth returns the advance width of c in points.
func (f *Font) GlyphWidth(c rune) float64 {
	return f.Glyph(c).AdvanceWidth
}

// Glyph returns the glyph information for c, rasterizing it into the atlas
// on first use. Characters the font cannot render, including '\n', resolve
// to the replacement glyph. Glyph never fails.
func (f *Font) Glyph(c rune) GlyphInfo {
	f.mu.RLock()
	g, ok := f.glyphs[c]
	f.mu.RUnlock()
	if ok {
		f.hits.Add(1)
		return g
	}
	f.misses.Add(1)

	// Two goroutines missing on the same rune may both rasterize it. The
	// result is identical and the spare atlas region is never read.
	g, err := f.allocateGlyph(c)
	if err != nil {
		f.substituted.Add(1)
		Logger().Warn("galley: using replacement glyph",
			"font", f.source.Name(),
			"char", fmt.Sprintf("%U", c),
			"err", err)
		g = f.replacement
	}

	f.mu.Lock()
	f.glyphs[c] = g
	f.mu.Unlock()
	return g
}

// allocateGlyph resolves c in the font and, if it has ink, rasterizes it
// into the atlas.
func (f *Font) allocateGlyph(c rune) (GlyphInfo, error) {
	id := f.source.GlyphFor(c)
	if id == outline.NoGlyph {
		return GlyphInfo{}, fmt.Errorf("%w: %U", ErrNoGlyph, c)
	}

	ppp := f.pixelsPerPoint
	g := GlyphInfo{
		id:           id,
		AdvanceWidth: f.source.Advance(id, f.scaleInPixels) / ppp,
	}

	bounds, ok := f.source.Bounds(id, f.scaleInPixels)
	if ok {
		pos, err := f.rasterize(id, bounds)
		if err != nil {
			return GlyphInfo{}, fmt.Errorf("galley: failed to place glyph %U: %w", c, err)
		}

		w, h := bounds.Dx(), bounds.Dy()
		offsetY := f.scaleInPixels + float64(bounds.Min.Y) - baselineCorrectionPixels*ppp
		g.UV = UvRect{
			Offset: Vec2{X: float64(bounds.Min.X) / ppp, Y: offsetY / ppp},
			Size:   Vec2{X: float64(w) / ppp, Y: float64(h) / ppp},
			Min:    TexelPos{X: uint16(pos.X), Y: uint16(pos.Y)},         //nolint:gosec // atlas dimensions fit uint16
			Max:    TexelPos{X: uint16(pos.X + w), Y: uint16(pos.Y + h)}, //nolint:gosec // atlas dimensions fit uint16
		}
		g.HasUV = true
	}

	f.rasterized.Add(1)
	Logger().Debug("galley: glyph rasterized",
		"font", f.source.Name(),
		"char", fmt.Sprintf("%U", c),
		"id", id,
		"bounds", bounds)
	return g, nil
}

// rasterize allocates an atlas region of the bounds' size and fills it
// with the glyph's coverage.
func (f *Font) rasterize(id outline.GlyphID, bounds image.Rectangle) (image.Point, error) {
	var pos image.Point
	err := f.atlas.Edit(func(ed atlas.Editor) error {
		var err error
		pos, err = ed.Allocate(bounds.Dx(), bounds.Dy())
		if err != nil {
			return err
		}
		pix := ed.Pixels()
		f.source.Rasterize(id, f.scaleInPixels, func(x, y int, coverage float32) {
			if coverage > 0 {
				pix.Pix[pix.PixOffset(pos.X+x, pos.Y+y)] = uint8(math.Round(float64(min(coverage, 1)) * 255))
			}
		})
		return nil
	})
	return pos, err
}

// pairKerning returns the kerning between a and b in points.
func (f *Font) pairKerning(a, b outline.GlyphID) float64 {
	key := uint32(a)<<16 | uint32(b)
	return f.kerning.GetOrCreate(key, func() float64 {
		return f.source.Kerning(a, b, f.scaleInPixels) / f.pixelsPerPoint
	})
}

func (f *Font) cachedGlyphs() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.glyphs)
}

// Stats holds glyph cache statistics.
type Stats struct {
	// Glyphs is the number of cached characters.
	Glyphs int

	// Hits and Misses count Glyph lookups.
	Hits   uint64
	Misses uint64

	// Rasterized counts glyphs resolved through the font, with or without
	// ink.
	Rasterized uint64

	// Substituted counts characters cached as the replacement glyph.
	Substituted uint64

	// KerningPairs is the number of memoized kerning pairs.
	KerningPairs int
}

// HitRate returns the fraction of lookups served from the cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns current cache statistics.
func (f *Font) Stats() Stats {
	return Stats{
		Glyphs:       f.cachedGlyphs(),
		Hits:         f.hits.Load(),
		Misses:       f.misses.Load(),
		Rasterized:   f.rasterized.Load(),
		Substituted:  f.substituted.Load(),
		KerningPairs: f.kerning.Len(),
	}
}
