// Package text measures text for the overlay editor's grow-to-fit logic.
//
// Measurement runs on every keystroke while an element is being edited, so
// the shaped path caches parsed fonts and pools shapers. Hosts that do not
// ship a font (or tests) can use FixedMeasurer, which approximates metrics
// from the font size alone.
package text

import "strings"

// DefaultFontSize is assumed when an element carries no explicit size.
const DefaultFontSize = 16

// Measurement is the measured extent of a text block.
type Measurement struct {
	// Width is the widest line's advance in world units.
	Width float64
	// Height is Lines times LineHeight.
	Height float64
	// Lines is the number of lines, at least 1.
	Lines int
	// LineHeight is ascent plus descent plus line gap.
	LineHeight float64
}

// Measurer measures a text block at a font size. Lines split on '\n';
// measurers do not wrap.
type Measurer interface {
	Measure(text string, fontSize float64) Measurement
}

// FixedMeasurer approximates text extent from the font size alone, with no
// font data. Width per rune and line height are fractions of the size.
// The zero value uses 0.6 and 1.2, close to common UI fonts.
type FixedMeasurer struct {
	// CharWidth is the advance per rune as a fraction of the font size.
	CharWidth float64
	// LineHeight is the line height as a fraction of the font size.
	LineHeight float64
}

// Measure implements Measurer.
func (m FixedMeasurer) Measure(text string, fontSize float64) Measurement {
	cw, lh := m.CharWidth, m.LineHeight
	if cw <= 0 {
		cw = 0.6
	}
	if lh <= 0 {
		lh = 1.2
	}
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}

	lines := strings.Split(text, "\n")
	var widest int
	for _, line := range lines {
		n := len([]rune(line))
		if n > widest {
			widest = n
		}
	}
	lineHeight := lh * fontSize
	return Measurement{
		Width:      float64(widest) * cw * fontSize,
		Height:     float64(len(lines)) * lineHeight,
		Lines:      len(lines),
		LineHeight: lineHeight,
	}
}
