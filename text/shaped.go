package text

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// ShapedMeasurer measures text with real HarfBuzz shaping, so kerning,
// ligatures, and complex scripts measure the way they render. The parsed
// font.Font is read-only and cached; font.Face and HarfbuzzShaper carry
// mutable state, so faces are created per call and shapers are pooled.
type ShapedMeasurer struct {
	font *font.Font

	shaperPool sync.Pool
}

// NewShapedMeasurer parses TTF/OTF font data and returns a measurer backed
// by it.
func NewShapedMeasurer(fontData []byte) (*ShapedMeasurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &ShapedMeasurer{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// Measure implements Measurer. Each line is shaped as one run with its
// bidi base direction and the script of its first strong rune.
func (m *ShapedMeasurer) Measure(text string, fontSize float64) Measurement {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	size := floatToFixed(fontSize)

	shaper := m.shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer m.shaperPool.Put(shaper)
	face := font.NewFace(m.font)

	lines := strings.Split(text, "\n")
	var width, lineHeight float64
	for _, line := range lines {
		runes := []rune(line)
		if len(runes) == 0 {
			continue
		}
		out := shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: baseDirection(line),
			Face:      face,
			Size:      size,
			Script:    detectScript(runes),
			Language:  language.NewLanguage("en"),
		})
		width = max(width, math.Abs(fixedToFloat(out.Advance)))
		lb := out.LineBounds
		lineHeight = max(lineHeight, fixedToFloat(lb.Ascent-lb.Descent+lb.Gap))
	}
	if lineHeight == 0 {
		lineHeight = 1.2 * fontSize
	}
	return Measurement{
		Width:      width,
		Height:     float64(len(lines)) * lineHeight,
		Lines:      len(lines),
		LineHeight: lineHeight,
	}
}

// baseDirection resolves a line's bidi base direction from its first
// strong character.
func baseDirection(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return di.DirectionLTR
	}
	order, err := p.Order()
	if err != nil {
		return di.DirectionLTR
	}
	if order.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Mixed-script
// text measures with the leading script, which is close enough for sizing
// an editor box.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
