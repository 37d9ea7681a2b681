package outline

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shapedKerner derives pair kerning from HarfBuzz shaping via
// go-text/typesetting, which honours GPOS pair adjustments that the
// legacy 'kern' table lookup misses.
//
// Shaping works on runes, so the kerner remembers which rune produced each
// glyph as glyphs are resolved through GlyphFor.
type shapedKerner struct {
	font *font.Font

	// runes maps GlyphID to the rune that resolved to it.
	runes sync.Map

	// shapers pools HarfbuzzShaper instances, which are not safe for
	// concurrent use.
	shapers sync.Pool
}

func newShapedKerner(data []byte) (*shapedKerner, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font for shaping: %w", err)
	}
	k := &shapedKerner{font: face.Font}
	k.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	return k, nil
}

// remember records that r resolves to id.
func (k *shapedKerner) remember(id GlyphID, r rune) {
	k.runes.LoadOrStore(id, r)
}

// kern returns the pair adjustment between a and b in pixels. Pairs that
// were never resolved through GlyphFor, or that shape into a ligature,
// have no kerning.
func (k *shapedKerner) kern(a, b GlyphID, ppem float64) float64 {
	ra, ok := k.runes.Load(a)
	if !ok {
		return 0
	}
	rb, ok := k.runes.Load(b)
	if !ok {
		return 0
	}

	size := floatToFixed(ppem)
	pairAdvance, pairGlyphs := k.shape([]rune{ra.(rune), rb.(rune)}, size)
	singleAdvance, singleGlyphs := k.shape([]rune{ra.(rune)}, size)
	if pairGlyphs != 2 || singleGlyphs != 1 {
		return 0
	}
	return fixedToFloat(pairAdvance - singleAdvance)
}

// shape returns the advance of the first output glyph and the number of
// glyphs produced.
func (k *shapedKerner) shape(runes []rune, size fixed.Int26_6) (fixed.Int26_6, int) {
	// font.Face is not safe for concurrent use; it is a thin wrapper over
	// the shared *font.Font, so one is created per call.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(k.font),
		Size:      size,
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}

	hb := k.shapers.Get().(*shaping.HarfbuzzShaper)
	defer k.shapers.Put(hb)

	// The output may alias shaper buffers, so read it before releasing hb.
	output := hb.Shape(input)
	if len(output.Glyphs) == 0 {
		return 0, 0
	}
	return output.Glyphs[0].Advance, len(output.Glyphs)
}
