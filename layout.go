package galley

import (
	"strings"
	"unicode/utf8"

	"github.com/gogpu/galley/outline"
)

// LayoutSingleLine lays text out on exactly one row, ignoring any width
// limit. A '\n' in text does not break the line; it is drawn as the
// replacement glyph.
func (f *Font) LayoutSingleLine(text string) *Galley {
	row := Row{
		XOffsets: f.layoutFragment(text),
		YMax:     f.RowHeight(),
	}
	g := &Galley{
		Text: text,
		Rows: []Row{row},
		Size: Vec2{X: row.MaxX(), Y: f.RowHeight()},
	}
	mustValidate(g)
	return g
}

// LayoutMultiline lays text out in rows no wider than maxWidth points,
// breaking at '\n' and at whitespace. A word wider than maxWidth is not
// split and overflows its row.
//
// The result always has at least one row. Empty text and text ending in
// '\n' get a trailing empty row.
func (f *Font) LayoutMultiline(text string, maxWidth float64) *Galley {
	return f.LayoutMultilineWithIndentation(text, 0, maxWidth)
}

// LayoutMultilineWithIndentation is like LayoutMultiline but reserves
// firstRowIndentation points before the first character, for example for
// a bullet. If not even the first word fits next to the indentation, the
// first row is left empty and the text starts on the next row without
// indentation.
func (f *Font) LayoutMultilineWithIndentation(text string, firstRowIndentation, maxWidth float64) *Galley {
	rowHeight := f.RowHeight()
	var rows []Row
	cursorY := 0.0

	for start := 0; start < len(text); {
		end := len(text)
		newline := false
		if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
			end = start + i
			newline = true
		}

		indentation := 0.0
		if len(rows) == 0 {
			indentation = firstRowIndentation
		}
		paragraph := f.layoutParagraph(text[start:end], indentation, maxWidth)
		paragraph[len(paragraph)-1].EndsWithNewline = newline

		for i := range paragraph {
			paragraph[i].YMin += cursorY
			paragraph[i].YMax += cursorY
		}
		cursorY = paragraph[len(paragraph)-1].YMax + rowHeight*paragraphSpacing

		rows = append(rows, paragraph...)
		start = end + 1
	}

	if text == "" || strings.HasSuffix(text, "\n") {
		rows = append(rows, Row{
			XOffsets: []float64{0},
			YMin:     cursorY,
			YMax:     cursorY + rowHeight,
		})
	}

	widest := 0.0
	for i := range rows {
		widest = max(widest, rows[i].MaxX())
	}

	g := &Galley{
		Text: text,
		Rows: rows,
		Size: Vec2{X: widest, Y: rows[len(rows)-1].YMax},
	}
	mustValidate(g)
	return g
}

// layoutParagraph wraps text, which must not contain '\n'. The rows start
// at y = 0.
func (f *Font) layoutParagraph(text string, indentation, maxWidth float64) []Row {
	if text == "" {
		return []Row{{
			XOffsets: []float64{indentation},
			YMax:     f.RowHeight(),
		}}
	}

	w := paragraphWrapper{
		offsets:     f.layoutFragment(text),
		indentation: indentation,
		maxWidth:    maxWidth,
		rowHeight:   f.RowHeight(),
		round:       f.RoundToPixel,
	}
	return w.wrap([]rune(text))
}

// layoutFragment returns the pen position before the first character and
// after each character of text, in points. Each position includes pair
// kerning and is rounded to a whole pixel so that error does not
// accumulate along the line.
func (f *Font) layoutFragment(text string) []float64 {
	offsets := make([]float64, 1, utf8.RuneCountInString(text)+1)

	cursor := 0.0
	var prev outline.GlyphID
	for i, c := range []rune(text) {
		g := f.Glyph(c)
		if i > 0 {
			cursor += f.pairKerning(prev, g.id)
		}
		cursor = f.RoundToPixel(cursor + g.AdvanceWidth)
		prev = g.id
		offsets = append(offsets, cursor)
	}
	return offsets
}
