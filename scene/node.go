package scene

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/store"
)

// ClassEditableText tags nodes whose text can be edited in place. A
// double-click handler routes such nodes to the text overlay by class
// alone, without re-deriving the element kind.
const ClassEditableText = "editable-text"

// Node is a retained graphical node. Nodes are owned exclusively by the
// Scene (or, for preview nodes, by the gesture that acquired them) and are
// recycled through the NodePool. All fields are plain data: a Node never
// references store state, so releasing one can never leak an element.
type Node struct {
	ID      wb.ElementID
	EdgeID  wb.EdgeID
	Kind    store.Kind
	Surface Surface

	Frame    wb.Rect
	Rotation float64
	// Points is a flat [x0 y0 x1 y1 ...] polyline for strokes, connectors,
	// and edges, in world coordinates.
	Points []float64

	Fill        string
	Stroke      string
	StrokeWidth float64

	Text      string
	FontSize  float64
	TextColor string

	// Src is the opaque image reference for image nodes.
	Src string

	// Rows, Cols, Cells mirror table content, row-major.
	Rows, Cols int
	Cells      []string

	// Class tags the node for input routing (ClassEditableText).
	Class string
	// Hidden suppresses drawing without destroying the node, used to dim
	// canvas text while the overlay editor is active.
	Hidden bool
}

// reset clears every visual attribute so a pooled node cannot leak state
// from a prior use. Slice capacity is kept.
func (n *Node) reset() {
	n.ID = ""
	n.EdgeID = ""
	n.Kind = 0
	n.Surface = SurfaceMain
	n.Frame = wb.Rect{}
	n.Rotation = 0
	n.Points = n.Points[:0]
	n.Fill = ""
	n.Stroke = ""
	n.StrokeWidth = 0
	n.Text = ""
	n.FontSize = 0
	n.TextColor = ""
	n.Src = ""
	n.Rows, n.Cols = 0, 0
	n.Cells = n.Cells[:0]
	n.Class = ""
	n.Hidden = false
}

// setPoints replaces the node's polyline, reusing capacity.
func (n *Node) setPoints(pts []float64) {
	n.Points = append(n.Points[:0], pts...)
}
