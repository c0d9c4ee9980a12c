// Package overlay bridges canvas elements to a host-positioned text
// editor. It converts element rects between world space and host (CSS
// pixel) space, sizes the editor to its content, and owns the editing
// state machine, so the canvas node and the host editor never hold
// references to each other.
package overlay

import "github.com/gogpu/wb"

// WorldRectToScreen converts a world rect to host CSS pixels. The result
// accounts for the viewport pan and zoom, the canvas container's position
// within the page, and the device pixel ratio (the viewport scale is in
// device pixels; CSS pixels divide it back out).
func WorldRectToScreen(r wb.Rect, v wb.Viewport, container wb.Rect, dpr float64) wb.Rect {
	if dpr <= 0 {
		dpr = 1
	}
	s := v.Scale / dpr
	return wb.Rect{
		X:      container.X + (r.X-v.X)*s,
		Y:      container.Y + (r.Y-v.Y)*s,
		Width:  r.Width * s,
		Height: r.Height * s,
	}
}

// ScreenRectToWorld inverts WorldRectToScreen, mapping a host CSS-pixel
// rect back into world coordinates. Used to measure the editor box back
// into the element's frame.
func ScreenRectToWorld(r wb.Rect, v wb.Viewport, container wb.Rect, dpr float64) wb.Rect {
	if dpr <= 0 {
		dpr = 1
	}
	s := v.Scale / dpr
	if s == 0 {
		return wb.Rect{}
	}
	return wb.Rect{
		X:      (r.X-container.X)/s + v.X,
		Y:      (r.Y-container.Y)/s + v.Y,
		Width:  r.Width / s,
		Height: r.Height / s,
	}
}

// GuardMargin is added to the committed frame so rounding during
// measurement never clips the last pixel of a glyph.
const GuardMargin = 2

// Constraints bound the grow-to-fit sizing of an edited element.
type Constraints struct {
	MinWidth  float64
	MinHeight float64
	// PaddingX and PaddingY are applied on each side of the content.
	PaddingX float64
	PaddingY float64
}

// DefaultConstraints matches the default text element chrome.
var DefaultConstraints = Constraints{
	MinWidth:  40,
	MinHeight: 24,
	PaddingX:  8,
	PaddingY:  4,
}

// GrowToFit sizes an element frame around measured content: content plus
// padding on both sides, clamped up to the minimum size. Called on every
// keystroke; the commit path additionally adds GuardMargin.
func GrowToFit(measuredWidth, measuredHeight float64, c Constraints) (width, height float64) {
	width = max(c.MinWidth, measuredWidth+2*c.PaddingX)
	height = max(c.MinHeight, measuredHeight+2*c.PaddingY)
	return width, height
}
