package store

import (
	"github.com/gogpu/wb"
)

// Kind discriminates the element union. The set of kinds is closed: every
// switch over Kind in this package (clone, patching, serialization) and in
// scene (node building) must handle all of them.
type Kind uint8

// Element kinds.
const (
	KindRectangle Kind = iota
	KindCircle
	KindText
	KindSticky
	KindImage
	KindTable
	KindStroke
	KindConnector
)

// String returns the serialized name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	case KindSticky:
		return "sticky"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	case KindStroke:
		return "stroke"
	case KindConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// Element is the closed union of canvas element kinds. All implementations
// live in this package; the unexported methods seal the interface.
//
// Elements are immutable once stored: mutators clone before modifying, so
// two snapshots never share a changed element and consumers may compare
// elements by pointer to detect change. Callers must treat any Element
// obtained from a Snapshot as read-only.
type Element interface {
	// ID returns the element's identifier.
	ID() wb.ElementID
	// Frame returns the element's axis-aligned bounding frame (ignoring
	// rotation).
	Frame() wb.Rect
	// Kind returns the union discriminator.
	Kind() Kind

	base() *Base
	clone() Element
}

// Base carries the fields common to every element kind.
type Base struct {
	ElementID wb.ElementID `json:"id"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Rotation  float64      `json:"rotation,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	// SectionID references the sticky-note container this element lives
	// in, if any. The container tracks the inverse in ChildElementIDs.
	SectionID wb.ElementID `json:"sectionId,omitempty"`
	// GroupID ties elements that move together. Empty means ungrouped.
	GroupID string `json:"groupId,omitempty"`
}

// ID returns the element's identifier.
func (b *Base) ID() wb.ElementID { return b.ElementID }

// Frame returns the element's bounding frame.
func (b *Base) Frame() wb.Rect {
	return wb.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Rotation returns the element's rotation in degrees.
func Rotation(el Element) float64 { return el.base().Rotation }

func (b *Base) base() *Base { return b }

func (b *Base) setFrame(r wb.Rect) {
	r = r.Sanitized()
	b.X, b.Y, b.Width, b.Height = r.X, r.Y, r.Width, r.Height
}

// Rectangle is a plain rectangular shape.
type Rectangle struct {
	Base
	CornerRadius float64 `json:"cornerRadius,omitempty"`
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
}

// Circle is an ellipse inscribed in its frame.
type Circle struct {
	Base
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Text is a free-standing text block.
type Text struct {
	Base
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Sticky is a sticky note. When IsContainer is set it owns child elements
// by index only: children remain independent entities and can be
// reparented; ChildElementIDs is bookkeeping, not ownership.
type Sticky struct {
	Base
	Text            string         `json:"text"`
	Color           string         `json:"color,omitempty"`
	IsContainer     bool           `json:"isContainer,omitempty"`
	ChildElementIDs []wb.ElementID `json:"childElementIds,omitempty"`
	ClipChildren    bool           `json:"clipChildren,omitempty"`
}

// Image is a bitmap placed on the canvas. Src is an opaque reference the
// host resolves (URL, asset id); the engine never loads pixels itself.
type Image struct {
	Base
	Src string `json:"src"`
}

// Table is a grid of text cells, stored row-major with len == Rows*Cols.
type Table struct {
	Base
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells []string `json:"cells"`
}

// Cell returns the cell text at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || col < 0 || row >= t.Rows || col >= t.Cols {
		return ""
	}
	i := row*t.Cols + col
	if i >= len(t.Cells) {
		return ""
	}
	return t.Cells[i]
}

// Stroke is a freehand stroke: a flat [x0 y0 x1 y1 ...] point array in
// world coordinates. The frame is kept in sync with the point bounds.
type Stroke struct {
	Base
	Points      []float64 `json:"points"`
	Color       string    `json:"color,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
}

// Connector is a free-floating polyline connector that is not bound to
// element anchors. Anchor-bound connectors are Edges, not elements; a
// Connector is the degraded form created when a draft commits with no
// snap target.
type Connector struct {
	Base
	Points      []float64 `json:"points"`
	Color       string    `json:"color,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
}

// Kind implementations.

func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Circle) Kind() Kind    { return KindCircle }
func (*Text) Kind() Kind      { return KindText }
func (*Sticky) Kind() Kind    { return KindSticky }
func (*Image) Kind() Kind     { return KindImage }
func (*Table) Kind() Kind     { return KindTable }
func (*Stroke) Kind() Kind    { return KindStroke }
func (*Connector) Kind() Kind { return KindConnector }

// clone implementations. Value copy plus explicit copies of any slices, so
// a cloned element shares nothing mutable with the original.

func (r *Rectangle) clone() Element { c := *r; return &c }
func (r *Circle) clone() Element    { c := *r; return &c }
func (r *Text) clone() Element      { c := *r; return &c }

func (r *Sticky) clone() Element {
	c := *r
	if r.ChildElementIDs != nil {
		c.ChildElementIDs = append([]wb.ElementID(nil), r.ChildElementIDs...)
	}
	return &c
}

func (r *Image) clone() Element { c := *r; return &c }

func (r *Table) clone() Element {
	c := *r
	if r.Cells != nil {
		c.Cells = append([]string(nil), r.Cells...)
	}
	return &c
}

func (r *Stroke) clone() Element {
	c := *r
	if r.Points != nil {
		c.Points = append([]float64(nil), r.Points...)
	}
	return &c
}

func (r *Connector) clone() Element {
	c := *r
	if r.Points != nil {
		c.Points = append([]float64(nil), r.Points...)
	}
	return &c
}

// Constructors. Each assigns a fresh ElementID and sanitizes the frame.

// NewRectangle creates a rectangle element with the given frame.
func NewRectangle(frame wb.Rect) *Rectangle {
	r := &Rectangle{}
	r.ElementID = wb.NewElementID()
	r.setFrame(frame)
	return r
}

// NewCircle creates a circle element inscribed in the given frame.
func NewCircle(frame wb.Rect) *Circle {
	c := &Circle{}
	c.ElementID = wb.NewElementID()
	c.setFrame(frame)
	return c
}

// NewText creates a text element.
func NewText(frame wb.Rect, text string) *Text {
	t := &Text{Text: text, FontSize: 16}
	t.ElementID = wb.NewElementID()
	t.setFrame(frame)
	return t
}

// NewSticky creates a sticky-note element.
func NewSticky(frame wb.Rect, text string) *Sticky {
	s := &Sticky{Text: text}
	s.ElementID = wb.NewElementID()
	s.setFrame(frame)
	return s
}

// NewContainer creates a sticky-note container that other elements can be
// parented into.
func NewContainer(frame wb.Rect) *Sticky {
	s := &Sticky{IsContainer: true}
	s.ElementID = wb.NewElementID()
	s.setFrame(frame)
	return s
}

// NewImage creates an image element.
func NewImage(frame wb.Rect, src string) *Image {
	i := &Image{Src: src}
	i.ElementID = wb.NewElementID()
	i.setFrame(frame)
	return i
}

// NewTable creates a table element with empty cells.
func NewTable(frame wb.Rect, rows, cols int) *Table {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &Table{Rows: rows, Cols: cols, Cells: make([]string, rows*cols)}
	t.ElementID = wb.NewElementID()
	t.setFrame(frame)
	return t
}

// NewStroke creates a freehand stroke element from a flat point array.
// The frame is derived from the point bounds.
func NewStroke(points []float64) *Stroke {
	s := &Stroke{Points: append([]float64(nil), points...)}
	s.ElementID = wb.NewElementID()
	s.setFrame(pointBounds(s.Points))
	return s
}

// NewConnector creates a free-floating connector element from a flat point
// array.
func NewConnector(points []float64) *Connector {
	c := &Connector{Points: append([]float64(nil), points...)}
	c.ElementID = wb.NewElementID()
	c.setFrame(pointBounds(c.Points))
	return c
}

// pointBounds returns the bounding rect of a flat [x0 y0 x1 y1 ...] array.
func pointBounds(pts []float64) wb.Rect {
	if len(pts) < 2 {
		return wb.Rect{}
	}
	minX, minY := pts[0], pts[1]
	maxX, maxY := pts[0], pts[1]
	for i := 2; i+1 < len(pts); i += 2 {
		minX = min(minX, pts[i])
		maxX = max(maxX, pts[i])
		minY = min(minY, pts[i+1])
		maxY = max(maxY, pts[i+1])
	}
	return wb.R(minX, minY, maxX-minX, maxY-minY)
}
