package outline

import (
	"errors"
	"image"
	"math"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// testSource parses goregular with the given kerning mode.
func testSource(t *testing.T, kerning KerningMode) Source {
	t.Helper()

	src, err := Parse(goregular.TTF, "", ParseOptions{Kerning: kerning})
	if err != nil {
		t.Fatalf("failed to parse goregular: %v", err)
	}
	return src
}

func TestParse_EmptyData(t *testing.T) {
	_, err := Parse(nil, "", ParseOptions{})
	if !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("Parse(nil) error = %v, want ErrEmptyFontData", err)
	}
}

func TestParse_InvalidData(t *testing.T) {
	_, err := Parse([]byte("definitely not a font"), "", ParseOptions{})
	if err == nil {
		t.Fatal("expected error for invalid font data")
	}
}

func TestSource_Name(t *testing.T) {
	src := testSource(t, KerningTable)
	if got := src.Name(); got != "Go" {
		t.Errorf("Name() = %q, want %q", got, "Go")
	}
}

func TestSource_GlyphFor(t *testing.T) {
	src := testSource(t, KerningTable)

	tests := []struct {
		name    string
		r       rune
		present bool
	}{
		{"latin capital", 'A', true},
		{"digit", '7', true},
		{"space", ' ', true},
		{"question mark", '?', true},
		{"degree sign", '°', true},
		{"emoji", '\U0001F600', false},
		{"CJK ideograph", '一', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := src.GlyphFor(tt.r)
			if got := id != NoGlyph; got != tt.present {
				t.Errorf("GlyphFor(%q) = %d, present = %v, want %v", tt.r, id, got, tt.present)
			}
		})
	}
}

func TestSource_BoundsSpaceHasNoInk(t *testing.T) {
	src := testSource(t, KerningTable)

	if r, ok := src.Bounds(src.GlyphFor(' '), 32); ok {
		t.Errorf("Bounds(space) = %v, true; want no bounds", r)
	}
}

func TestSource_BoundsLetter(t *testing.T) {
	src := testSource(t, KerningTable)

	b, ok := src.Bounds(src.GlyphFor('A'), 32)
	if !ok {
		t.Fatal("Bounds('A') reported no ink")
	}
	if b.Dx() < 1 || b.Dy() < 1 {
		t.Errorf("Bounds('A') = %v, want at least 1x1", b)
	}
	// y grows downwards from the baseline, so a capital sits above it.
	if b.Min.Y >= 0 {
		t.Errorf("Bounds('A').Min.Y = %d, want negative", b.Min.Y)
	}
	if b.Max.Y > 1 {
		t.Errorf("Bounds('A').Max.Y = %d, want at most 1", b.Max.Y)
	}
}

func TestSource_Rasterize(t *testing.T) {
	src := testSource(t, KerningTable)
	id := src.GlyphFor('W')

	b, ok := src.Bounds(id, 24)
	if !ok {
		t.Fatal("Bounds('W') reported no ink")
	}

	var calls int
	var inked int
	src.Rasterize(id, 24, func(x, y int, coverage float32) {
		calls++
		if !(image.Point{X: x, Y: y}).In(image.Rect(0, 0, b.Dx(), b.Dy())) {
			t.Fatalf("Rasterize reported pixel (%d,%d) outside %dx%d", x, y, b.Dx(), b.Dy())
		}
		if coverage < 0 || coverage > 1 {
			t.Fatalf("coverage %v out of range", coverage)
		}
		if coverage > 0.5 {
			inked++
		}
	})

	if calls != b.Dx()*b.Dy() {
		t.Errorf("Rasterize made %d calls, want %d", calls, b.Dx()*b.Dy())
	}
	if inked == 0 {
		t.Error("Rasterize produced no covered pixels")
	}
}

func TestSource_RasterizeSpaceIsNoop(t *testing.T) {
	src := testSource(t, KerningTable)

	src.Rasterize(src.GlyphFor(' '), 24, func(x, y int, coverage float32) {
		t.Fatalf("unexpected pixel (%d,%d) for space", x, y)
	})
}

func TestSource_AdvanceMonospace(t *testing.T) {
	src, err := Parse(gomono.TTF, "", ParseOptions{})
	if err != nil {
		t.Fatalf("failed to parse gomono: %v", err)
	}

	narrow := src.Advance(src.GlyphFor('i'), 20)
	wide := src.Advance(src.GlyphFor('W'), 20)
	if narrow <= 0 {
		t.Fatalf("Advance('i') = %v, want positive", narrow)
	}
	if narrow != wide {
		t.Errorf("monospace advances differ: 'i' = %v, 'W' = %v", narrow, wide)
	}
}

func TestSource_AdvanceScalesWithSize(t *testing.T) {
	src := testSource(t, KerningTable)
	id := src.GlyphFor('m')

	small := src.Advance(id, 16)
	large := src.Advance(id, 32)
	if math.Abs(large-2*small) > 0.1 {
		t.Errorf("Advance at 32ppem = %v, want about twice %v", large, small)
	}
}

func TestSource_KerningNone(t *testing.T) {
	src := testSource(t, KerningNone)

	a, v := src.GlyphFor('A'), src.GlyphFor('V')
	if k := src.Kerning(a, v, 32); k != 0 {
		t.Errorf("Kerning with KerningNone = %v, want 0", k)
	}
}

func TestSource_KerningTableIsBounded(t *testing.T) {
	src := testSource(t, KerningTable)

	a, v := src.GlyphFor('A'), src.GlyphFor('V')
	k := src.Kerning(a, v, 32)
	if math.Abs(k) >= src.Advance(a, 32) {
		t.Errorf("Kerning('A','V') = %v, larger than the advance of 'A'", k)
	}
}

func TestSource_KerningShaped(t *testing.T) {
	src := testSource(t, KerningShaped)

	// Glyph ids that never went through GlyphFor have no known rune.
	if k := src.Kerning(GlyphID(3), GlyphID(4), 32); k != 0 {
		t.Errorf("Kerning of unresolved glyphs = %v, want 0", k)
	}

	a, v := src.GlyphFor('A'), src.GlyphFor('V')
	k := src.Kerning(a, v, 32)
	if math.IsNaN(k) || math.Abs(k) >= src.Advance(a, 32) {
		t.Errorf("shaped Kerning('A','V') = %v, want a small finite adjustment", k)
	}
	if again := src.Kerning(a, v, 32); again != k {
		t.Errorf("shaped kerning not deterministic: %v then %v", k, again)
	}
}

func TestSource_Metrics(t *testing.T) {
	src := testSource(t, KerningTable)

	m := src.Metrics(32)
	if m.Ascent <= 0 {
		t.Errorf("Ascent = %v, want positive", m.Ascent)
	}
	if m.Descent <= 0 {
		t.Errorf("Descent = %v, want positive", m.Descent)
	}
	if m.Height() < m.Ascent+m.Descent {
		t.Errorf("Height() = %v, want at least ascent+descent", m.Height())
	}
}

func TestSource_ConcurrentUse(t *testing.T) {
	src := testSource(t, KerningTable)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := rune('!'); r <= '~'; r++ {
				id := src.GlyphFor(r)
				_ = src.Advance(id, 18)
				_ = src.Kerning(id, src.GlyphFor('a'), 18)
				src.Rasterize(id, 18, func(int, int, float32) {})
			}
		}()
	}
	wg.Wait()
}

type stubParser struct{ src Source }

func (p stubParser) Parse([]byte, ParseOptions) (Source, error) { return p.src, nil }

func TestRegisterParser(t *testing.T) {
	want := testSource(t, KerningNone)
	RegisterParser("stub", stubParser{src: want})
	t.Cleanup(func() {
		parsersMu.Lock()
		delete(parsers, "stub")
		parsersMu.Unlock()
	})

	got, err := Parse([]byte{1}, "stub", ParseOptions{})
	if err != nil {
		t.Fatalf("Parse with stub parser: %v", err)
	}
	if got != want {
		t.Error("Parse did not use the registered parser")
	}

	// Unknown names fall back to the sfnt parser.
	if _, err := Parse(goregular.TTF, "no-such-parser", ParseOptions{}); err != nil {
		t.Errorf("Parse with unknown parser name: %v", err)
	}
}

func TestKerningModeString(t *testing.T) {
	tests := []struct {
		mode KerningMode
		want string
	}{
		{KerningTable, "Table"},
		{KerningShaped, "Shaped"},
		{KerningNone, "None"},
		{KerningMode(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("KerningMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}
