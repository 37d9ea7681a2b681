package galley

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Row is one visual line of a Galley.
type Row struct {
	// XOffsets holds the pen position before the first character and after
	// each character, in points. It has one more entry than the row has
	// characters and is never empty.
	XOffsets []float64

	// YMin and YMax bound the row vertically, in points from the top of
	// the galley.
	YMin, YMax float64

	// EndsWithNewline is true when the row was ended by a '\n' in the text
	// rather than by wrapping.
	EndsWithNewline bool
}

// MinX returns the left edge of the row, which is its indentation.
func (r *Row) MinX() float64 { return r.XOffsets[0] }

// MaxX returns the right edge of the last character.
func (r *Row) MaxX() float64 { return r.XOffsets[len(r.XOffsets)-1] }

// Width returns MaxX - MinX.
func (r *Row) Width() float64 { return r.MaxX() - r.MinX() }

// Height returns YMax - YMin.
func (r *Row) Height() float64 { return r.YMax - r.YMin }

// CharCount returns the number of characters in the row.
func (r *Row) CharCount() int { return len(r.XOffsets) - 1 }

// Validate reports whether the row is well formed.
func (r *Row) Validate() error {
	if len(r.XOffsets) == 0 {
		return fmt.Errorf("%w: row has no offsets", ErrInvalidLayout)
	}
	for i, x := range r.XOffsets {
		if math.IsNaN(x) {
			return fmt.Errorf("%w: offset %d is NaN", ErrInvalidLayout, i)
		}
		if i > 0 && x < r.XOffsets[i-1] {
			return fmt.Errorf("%w: offset %d (%v) is left of offset %d (%v)",
				ErrInvalidLayout, i, x, i-1, r.XOffsets[i-1])
		}
	}
	if !(r.YMin <= r.YMax) {
		return fmt.Errorf("%w: row spans y %v..%v", ErrInvalidLayout, r.YMin, r.YMax)
	}
	return nil
}

// Galley is a block of laid out text. Galleys are created fresh by each
// layout call and are not modified afterwards.
type Galley struct {
	// Text is the string that was laid out.
	Text string

	// Rows in reading order, top to bottom. Never empty.
	Rows []Row

	// Size is the width of the widest row and the bottom of the last row.
	Size Vec2
}

// Validate reports whether the galley is well formed and consistent with
// its text.
func (g *Galley) Validate() error {
	if len(g.Rows) == 0 {
		return fmt.Errorf("%w: galley has no rows", ErrInvalidLayout)
	}
	chars := 0
	for i := range g.Rows {
		r := &g.Rows[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if i > 0 && r.YMin < g.Rows[i-1].YMin {
			return fmt.Errorf("%w: row %d is above row %d", ErrInvalidLayout, i, i-1)
		}
		chars += r.CharCount()
		if r.EndsWithNewline {
			chars++
		}
	}
	if n := utf8.RuneCountInString(g.Text); chars != n {
		return fmt.Errorf("%w: rows cover %d characters, text has %d", ErrInvalidLayout, chars, n)
	}
	return nil
}

// RowTexts returns the slice of Text shown on each row. Joining them, with
// a '\n' after every row that ends with a newline, gives back Text.
func (g *Galley) RowTexts() []string {
	out := make([]string, len(g.Rows))
	pos := 0
	for i := range g.Rows {
		r := &g.Rows[i]
		start := pos
		for n := r.CharCount(); n > 0 && pos < len(g.Text); n-- {
			_, size := utf8.DecodeRuneInString(g.Text[pos:])
			pos += size
		}
		out[i] = g.Text[start:pos]
		if r.EndsWithNewline && pos < len(g.Text) {
			pos++ // '\n'
		}
	}
	return out
}

// mustValidate panics if g is malformed. Layout never produces malformed
// galleys, so a failure here is a bug.
func mustValidate(g *Galley) {
	if err := g.Validate(); err != nil {
		panic(err)
	}
}
