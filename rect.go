package wb

// Rect is an axis-aligned rectangle in world coordinates, stored as
// origin plus size. Width and Height are always non-negative; use
// SanitizeLength when accepting sizes from untrusted input.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is a convenience function to create a Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the point lies inside the rectangle.
// Points on the left/top edges are inside; right/bottom edges are not.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() &&
		r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o.
// An empty rectangle is the identity.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.MaxX(), o.MaxX())
	maxY := max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Inset returns the rectangle shrunk by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: max(0, r.Width-2*d), Height: max(0, r.Height-2*d)}
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Sanitized returns the rectangle with non-finite coordinates zeroed and
// negative sizes clamped to zero. Geometry coming from UI events can carry
// NaN or negative deltas; the store clamps rather than rejects so the
// editor stays interactive.
func (r Rect) Sanitized() Rect {
	if !isFinite(r.X) {
		r.X = 0
	}
	if !isFinite(r.Y) {
		r.Y = 0
	}
	r.Width = SanitizeLength(r.Width)
	r.Height = SanitizeLength(r.Height)
	return r
}

// SanitizeLength clamps a length to a non-negative finite value.
func SanitizeLength(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}
