package galley

import (
	"fmt"
	"unicode"
)

const nonBreakingSpace = '\u00A0'

// isBreakable reports whether a row may be broken after r.
func isBreakable(r rune) bool {
	return unicode.IsSpace(r) && r != nonBreakingSpace
}

// wrapState is the state of the greedy line breaker.
type wrapState int

const (
	// stateAccumulating: no break opportunity in the current row yet.
	stateAccumulating wrapState = iota

	// stateAtBreakpoint: the row contains whitespace it can break after.
	stateAtBreakpoint
)

// paragraphWrapper greedily splits one paragraph into rows, using pen
// positions computed once for the whole paragraph.
//
// The first row starts at indentation; later rows start at 0. When a
// character overflows maxWidth:
//   - at a breakpoint, the row is cut after the last whitespace, which
//     stays at the end of that row;
//   - with no breakpoint on a still empty first row with indentation, an
//     indentation-only row is emitted and the indentation dropped;
//   - otherwise the character overflows and the row carries on.
type paragraphWrapper struct {
	offsets     []float64
	indentation float64
	maxWidth    float64
	rowHeight   float64
	round       func(float64) float64

	state wrapState

	// rowStart is the index into offsets of the current row's origin.
	rowStart int

	// rowStartX is subtracted from offsets, after adding indentation, to
	// get row-relative positions.
	rowStartX float64

	// breakAfter is the index of the last breakable character in the
	// current row. Valid in stateAtBreakpoint.
	breakAfter int

	cursorY float64
	rows    []Row
}

func (w *paragraphWrapper) wrap(runes []rune) []Row {
	for i, r := range runes {
		if w.indentation+w.offsets[i+1]-w.rowStartX > w.maxWidth {
			w.overflow()
		}
		if isBreakable(r) {
			w.state = stateAtBreakpoint
			w.breakAfter = i
		}
	}
	w.flush()
	return w.rows
}

func (w *paragraphWrapper) overflow() {
	switch {
	case w.state == stateAtBreakpoint:
		w.breakAtWhitespace()
	case len(w.rows) == 0 && w.indentation > 0:
		w.emitIndentationRow()
	}
}

func (w *paragraphWrapper) breakAtWhitespace() {
	end := w.breakAfter + 1
	w.emit(w.offsets[w.rowStart : end+1])

	w.rowStart = end
	w.rowStartX = w.indentation + w.offsets[end]
	w.state = stateAccumulating
	w.cursorY = w.round(w.cursorY + w.rowHeight)
}

func (w *paragraphWrapper) emitIndentationRow() {
	w.push(Row{
		XOffsets: []float64{w.indentation},
		YMin:     w.cursorY,
		YMax:     w.cursorY + w.rowHeight,
	}, w.indentation)
	w.cursorY = w.round(w.cursorY + w.rowHeight)
	w.indentation = 0
}

// flush emits whatever follows the last break.
func (w *paragraphWrapper) flush() {
	if w.rowStart+1 < len(w.offsets) {
		w.emit(w.offsets[w.rowStart:])
	}
}

// emit adds a row made of the given absolute pen positions.
func (w *paragraphWrapper) emit(offsets []float64) {
	xs := make([]float64, len(offsets))
	for i, x := range offsets {
		xs[i] = w.indentation + x - w.rowStartX
	}

	start := 0.0
	if len(w.rows) == 0 {
		start = w.indentation
	}
	w.push(Row{
		XOffsets: xs,
		YMin:     w.cursorY,
		YMax:     w.cursorY + w.rowHeight,
	}, start)
}

func (w *paragraphWrapper) push(row Row, start float64) {
	if err := row.Validate(); err != nil {
		panic(err)
	}
	if row.XOffsets[0] != start {
		panic(fmt.Errorf("%w: row starts at %v, want %v", ErrInvalidLayout, row.XOffsets[0], start))
	}
	w.rows = append(w.rows, row)
}
