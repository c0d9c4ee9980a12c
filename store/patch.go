package store

import "github.com/gogpu/wb"

// Patch is a partial update to an element. Nil pointer fields are left
// untouched; slice fields replace wholesale when non-nil. Fields that do
// not apply to the target element's kind are ignored.
type Patch struct {
	X        *float64
	Y        *float64
	Rotation *float64
	Width    *float64
	Height   *float64

	SectionID *wb.ElementID
	GroupID   *string

	Text     *string
	FontSize *float64
	Color    *string
	Fill     *string
	Stroke   *string

	StrokeWidth *float64
	Points      []float64

	IsContainer     *bool
	ClipChildren    *bool
	ChildElementIDs []wb.ElementID

	Cells []string
	Src   *string
}

// Float returns a pointer to v, for building patches inline.
func Float(v float64) *float64 { return &v }

// Str returns a pointer to v, for building patches inline.
func Str(v string) *string { return &v }

// Bool returns a pointer to v, for building patches inline.
func Bool(v bool) *bool { return &v }

// TranslatePatch returns a patch moving an element by (dx, dy) relative to
// its current position.
func TranslatePatch(el Element, dx, dy float64) Patch {
	b := el.base()
	return Patch{X: Float(b.X + dx), Y: Float(b.Y + dy)}
}

// FramePatch returns a patch setting the element's full frame.
func FramePatch(r wb.Rect) Patch {
	r = r.Sanitized()
	return Patch{X: Float(r.X), Y: Float(r.Y), Width: Float(r.Width), Height: Float(r.Height)}
}

// applyPatch clones el and applies p to the clone. Geometry is sanitized:
// non-finite positions and negative or non-finite sizes are clamped rather
// than rejected. Stroke and connector point replacement re-derives the
// frame from the new points.
func applyPatch(el Element, p Patch) Element {
	out := el.clone()
	b := out.base()

	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.Rotation != nil {
		b.Rotation = *p.Rotation
	}
	if p.Width != nil {
		b.Width = *p.Width
	}
	if p.Height != nil {
		b.Height = *p.Height
	}
	b.setFrame(b.Frame())
	if p.SectionID != nil {
		b.SectionID = *p.SectionID
	}
	if p.GroupID != nil {
		b.GroupID = *p.GroupID
	}

	switch e := out.(type) {
	case *Rectangle:
		applyStr(&e.Fill, p.Fill)
		applyStr(&e.Stroke, p.Stroke)
		applyFloat(&e.StrokeWidth, p.StrokeWidth)
	case *Circle:
		applyStr(&e.Fill, p.Fill)
		applyStr(&e.Stroke, p.Stroke)
		applyFloat(&e.StrokeWidth, p.StrokeWidth)
	case *Text:
		applyStr(&e.Text, p.Text)
		applyFloat(&e.FontSize, p.FontSize)
		applyStr(&e.Color, p.Color)
	case *Sticky:
		applyStr(&e.Text, p.Text)
		applyStr(&e.Color, p.Color)
		if p.IsContainer != nil {
			e.IsContainer = *p.IsContainer
		}
		if p.ClipChildren != nil {
			e.ClipChildren = *p.ClipChildren
		}
		if p.ChildElementIDs != nil {
			e.ChildElementIDs = append([]wb.ElementID(nil), p.ChildElementIDs...)
		}
	case *Image:
		applyStr(&e.Src, p.Src)
	case *Table:
		if p.Cells != nil {
			e.Cells = append([]string(nil), p.Cells...)
		}
	case *Stroke:
		applyStr(&e.Color, p.Color)
		applyFloat(&e.StrokeWidth, p.StrokeWidth)
		if p.Points != nil {
			e.Points = append([]float64(nil), p.Points...)
			e.setFrame(pointBounds(e.Points))
		}
	case *Connector:
		applyStr(&e.Color, p.Color)
		applyFloat(&e.StrokeWidth, p.StrokeWidth)
		if p.Points != nil {
			e.Points = append([]float64(nil), p.Points...)
			e.setFrame(pointBounds(e.Points))
		}
	}
	return out
}

func applyStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
