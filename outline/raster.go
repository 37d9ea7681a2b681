package outline

import (
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// rasterizers pools vector.Rasterizer instances, which are not safe for
// concurrent use but are cheap to Reset.
var rasterizers = sync.Pool{
	New: func() any { return vector.NewRasterizer(0, 0) },
}

// rasterize fills the outline into a mask the size of bounds and reports
// each pixel's coverage through set. Coordinates passed to set are
// relative to bounds.Min.
func rasterize(segments sfnt.Segments, bounds image.Rectangle, set func(x, y int, coverage float32)) {
	w, h := bounds.Dx(), bounds.Dy()

	z := rasterizers.Get().(*vector.Rasterizer)
	defer rasterizers.Put(z)
	z.Reset(w, h)
	z.DrawOp = draw.Src

	// Translate so that bounds.Min lands on the mask origin.
	dx := -float32(bounds.Min.X)
	dy := -float32(bounds.Min.Y)
	pt := func(i int, seg sfnt.Segment) (float32, float32) {
		return float32(seg.Args[i].X)/64 + dx, float32(seg.Args[i].Y)/64 + dy
	}

	for i, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				z.ClosePath()
			}
			z.MoveTo(pt(0, seg))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(0, seg))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(0, seg)
			cx, cy := pt(1, seg)
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(0, seg)
			cx, cy := pt(1, seg)
			ex, ey := pt(2, seg)
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			set(x, y, float32(a)/255)
		}
	}
}
