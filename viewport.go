package wb

// Viewport scale limits. Scale outside this range is clamped, never
// rejected, so zoom gestures cannot wedge the canvas.
const (
	MinScale = 0.1
	MaxScale = 10
)

// Viewport describes the visible window onto the world: a world-space
// origin, a zoom scale (screen units per world unit), and the screen size
// of the canvas in device pixels.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewport returns a viewport at the world origin with scale 1.
func DefaultViewport(width, height float64) Viewport {
	return Viewport{Scale: 1, Width: width, Height: height}
}

// Clamped returns the viewport with Scale clamped to [MinScale, MaxScale]
// and non-finite fields zeroed (scale resets to 1).
func (v Viewport) Clamped() Viewport {
	if !isFinite(v.Scale) {
		v.Scale = 1
	}
	if v.Scale < MinScale {
		v.Scale = MinScale
	}
	if v.Scale > MaxScale {
		v.Scale = MaxScale
	}
	if !isFinite(v.X) {
		v.X = 0
	}
	if !isFinite(v.Y) {
		v.Y = 0
	}
	v.Width = SanitizeLength(v.Width)
	v.Height = SanitizeLength(v.Height)
	return v
}

// WorldToScreen converts a world point to canvas screen coordinates.
func (v Viewport) WorldToScreen(p Point) Point {
	return Point{X: (p.X - v.X) * v.Scale, Y: (p.Y - v.Y) * v.Scale}
}

// ScreenToWorld converts a canvas screen point to world coordinates.
func (v Viewport) ScreenToWorld(p Point) Point {
	return Point{X: p.X/v.Scale + v.X, Y: p.Y/v.Scale + v.Y}
}

// VisibleWorld returns the world-space rectangle currently on screen.
func (v Viewport) VisibleWorld() Rect {
	return Rect{X: v.X, Y: v.Y, Width: v.Width / v.Scale, Height: v.Height / v.Scale}
}

// ZoomAt returns the viewport zoomed by factor with the given screen point
// held fixed in world space, so the content under the cursor stays put.
// The resulting scale is clamped.
func (v Viewport) ZoomAt(screen Point, factor float64) Viewport {
	anchor := v.ScreenToWorld(screen)
	z := v
	z.Scale = v.Scale * factor
	z = z.Clamped()
	z.X = anchor.X - screen.X/z.Scale
	z.Y = anchor.Y - screen.Y/z.Scale
	return z
}
