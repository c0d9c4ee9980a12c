package engine

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/scene"
	"github.com/gogpu/wb/store"
)

// strokeGesture is the in-flight freehand stroke: points accumulate in a
// pooled preview node and nothing reaches the store until the stroke ends.
type strokeGesture struct {
	active bool
	node   *scene.Node
	points []float64
	color  string
	width  float64
}

// BeginStroke starts freehand drawing at a world point. The stroke renders
// through a pooled node on the preview surface; per-point updates never
// touch the store or history.
func (e *Engine) BeginStroke(start wb.Point, color string, width float64) {
	e.arbiter.Begin("draw", e.discardStroke)
	n := e.scene.AcquirePreview(store.KindStroke)
	n.Stroke = color
	n.StrokeWidth = width
	e.stroke = strokeGesture{
		active: true,
		node:   n,
		points: append(e.stroke.points[:0], start.X, start.Y),
		color:  color,
		width:  width,
	}
	e.syncStrokeNode()
}

// AppendStrokePoint extends the in-flight stroke by one pointer sample.
func (e *Engine) AppendStrokePoint(p wb.Point) {
	if !e.stroke.active {
		return
	}
	e.stroke.points = append(e.stroke.points, p.X, p.Y)
	e.syncStrokeNode()
}

// EndStroke commits the stroke as one element and one history entry.
// Strokes with fewer than two points are discarded.
func (e *Engine) EndStroke() (wb.ElementID, bool) {
	if !e.stroke.active {
		return "", false
	}
	e.arbiter.End()
	g := e.stroke
	e.discardStroke()
	if len(g.points) < 4 {
		return "", false
	}
	el := store.NewStroke(g.points)
	el.Color = g.color
	el.StrokeWidth = g.width
	e.store.AddElement(el)
	return el.ID(), true
}

// CancelStroke discards the in-flight stroke without persisting anything.
func (e *Engine) CancelStroke() {
	if !e.stroke.active {
		return
	}
	e.arbiter.Cancel()
}

// discardStroke is the stroke gesture's cancel hook: recycle the stroke's
// own preview node and keep the point buffer for the next stroke.
func (e *Engine) discardStroke() {
	if !e.stroke.active {
		return
	}
	e.scene.ReleasePreview(e.stroke.node)
	e.stroke.active = false
	e.stroke.node = nil
}

func (e *Engine) syncStrokeNode() {
	n := e.stroke.node
	n.Points = append(n.Points[:0], e.stroke.points...)
	n.Frame = strokeBounds(e.stroke.points)
	e.scene.Invalidate(scene.SurfacePreview)
}

func strokeBounds(pts []float64) wb.Rect {
	if len(pts) < 2 {
		return wb.Rect{}
	}
	minX, minY, maxX, maxY := pts[0], pts[1], pts[0], pts[1]
	for i := 2; i+1 < len(pts); i += 2 {
		minX = min(minX, pts[i])
		maxX = max(maxX, pts[i])
		minY = min(minY, pts[i+1])
		maxY = max(maxY, pts[i+1])
	}
	return wb.R(minX, minY, maxX-minX, maxY-minY)
}
