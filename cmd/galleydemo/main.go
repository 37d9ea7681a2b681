// Command galleydemo lays out text with galley and renders the result.
//
// It writes two PNG files: the laid out text, drawn by copying glyphs out
// of the atlas the way a GPU renderer would sample them, and the atlas
// texture itself.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/galley"
	"github.com/gogpu/galley/atlas"
	"github.com/gogpu/galley/outline"
)

const defaultText = "The quick brown fox jumps over the lazy dog. " +
	"Glyphs are rasterized once into a shared atlas and reused.\n" +
	"Kerning: AVATAR, Wave, Today.\n\nMissing glyphs show as ?: ☃"

func main() {
	var (
		text      = flag.String("text", defaultText, "text to lay out")
		width     = flag.Float64("width", 320, "wrap width in points")
		indent    = flag.Float64("indent", 0, "first row indentation in points")
		size      = flag.Float64("size", 16, "font size in points")
		ppp       = flag.Float64("ppp", 2, "pixels per point")
		fontPath  = flag.String("font", "", "TrueType/OpenType font file (default: Go Regular)")
		shaped    = flag.Bool("shaped", false, "use HarfBuzz shaping for kerning")
		output    = flag.String("output", "galley.png", "rendered text output file")
		atlasOut  = flag.String("atlas", "atlas.png", "atlas texture output file")
		verbose   = flag.Bool("v", false, "log debug output to stderr")
		textColor = color.RGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xff}
	)
	flag.Parse()

	if *verbose {
		galley.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	data := goregular.TTF
	if *fontPath != "" {
		var err error
		if data, err = os.ReadFile(*fontPath); err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
	}

	kerning := outline.KerningTable
	if *shaped {
		kerning = outline.KerningShaped
	}

	a := atlas.NewDefault()
	f, err := galley.NewFont(a, data, *size, *ppp, galley.WithKerning(kerning))
	if err != nil {
		log.Fatalf("Failed to create font: %v", err)
	}

	g := f.LayoutMultilineWithIndentation(*text, *indent, *width)
	img := render(f, a, g, *ppp, textColor)

	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	if err := savePNG(*atlasOut, a.Snapshot()); err != nil {
		log.Fatalf("Failed to save atlas: %v", err)
	}

	s := f.Stats()
	d := a.TextureDescriptor()
	log.Printf("Laid out %d rows (%.1fx%.1f pt) into %s", len(g.Rows), g.Size.X, g.Size.Y, *output)
	log.Printf("Atlas %dx%d %s, %.1f%% used, %d glyphs cached, %d substituted",
		d.Size.Width, d.Size.Height, *atlasOut, 100*a.Utilization(), s.Glyphs, s.Substituted)
}

// render draws every glyph of g by masking a solid color with its atlas
// region.
func render(f *galley.Font, a *atlas.Atlas, g *galley.Galley, ppp float64, c color.Color) *image.RGBA {
	const margin = 8
	w := int(math.Ceil(g.Size.X*ppp)) + 2*margin
	h := int(math.Ceil(g.Size.Y*ppp)) + 2*margin

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	tex := a.Snapshot()
	ink := image.NewUniform(c)
	texts := g.RowTexts()
	for i := range g.Rows {
		row := &g.Rows[i]
		j := 0
		for _, r := range texts[i] {
			uv, ok := f.UVRect(r)
			if ok {
				x := margin + int(math.Round((row.XOffsets[j]+uv.Offset.X)*ppp))
				y := margin + int(math.Round((row.YMin+uv.Offset.Y)*ppp))
				mask := image.Pt(int(uv.Min.X), int(uv.Min.Y))
				size := image.Pt(int(uv.Max.X-uv.Min.X), int(uv.Max.Y-uv.Min.Y))
				draw.DrawMask(dst, image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y).Add(size)},
					ink, image.Point{}, tex, mask, draw.Over)
			}
			j++
		}
	}
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
