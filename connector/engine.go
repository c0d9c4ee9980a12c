// Package connector implements anchor snapping, the connector draft state
// machine, and batched edge reflow.
//
// Edges cache their routed polyline in Edge.Points; that cache is derived
// state. When an element moves, the engine marks every referencing edge
// dirty through a reverse index and recomputes all dirty routes in one
// batch, at most once per animation frame, so reflow cost is bounded by
// dirty edges rather than edges times moves.
package connector

import (
	"math"

	"github.com/gogpu/wb"
	"github.com/gogpu/wb/spatial"
	"github.com/gogpu/wb/store"
)

// DefaultSnapRadius is the snap search radius in world units at scale 1.
// The effective radius divides by the viewport scale so it stays constant
// on screen.
const DefaultSnapRadius = 20

// UnsnapFactor scales the snap radius into the unsnap radius. Once snapped,
// the pointer must leave the larger radius before the target releases, so
// hovering near the snap boundary does not flicker.
const UnsnapFactor = 1.4

// SnapTarget names an anchor on an element.
type SnapTarget struct {
	Element wb.ElementID
	Anchor  wb.Anchor
}

// Engine owns connector snapping and edge reflow for one canvas instance.
// Like the rest of the engine it is single-threaded.
type Engine struct {
	store *store.Store
	index *spatial.Index

	snapRadius float64

	snap store.Snapshot

	// byElement is the reverse index elementID to referencing edge IDs,
	// rebuilt when the snapshot's edge structure changes.
	byElement map[wb.ElementID][]wb.EdgeID
	// refs remembers each edge's endpoints for cheap structure comparison.
	refs  map[wb.EdgeID][2]wb.ElementID
	dirty map[wb.EdgeID]bool

	draft draft
}

// Option configures an Engine.
type Option func(*Engine)

// WithSnapRadius overrides the snap radius in world units at scale 1.
func WithSnapRadius(r float64) Option {
	return func(e *Engine) {
		if r > 0 {
			e.snapRadius = r
		}
	}
}

// New creates a connector engine reading elements through the spatial
// index and writing edges through the store.
func New(st *store.Store, ix *spatial.Index, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		index:      ix,
		snapRadius: DefaultSnapRadius,
		byElement:  map[wb.ElementID][]wb.EdgeID{},
		refs:       map[wb.EdgeID][2]wb.ElementID{},
		dirty:      map[wb.EdgeID]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if st != nil {
		e.Observe(st.Snapshot())
	}
	return e
}

// Observe feeds the engine the latest store snapshot. The reverse index is
// rebuilt only when the edge structure (membership or endpoints) changed;
// reflow rewrites of Points alone do not trigger a rebuild.
func (e *Engine) Observe(snap store.Snapshot) {
	e.snap = snap
	if !e.structureChanged(snap.Edges) {
		return
	}
	clear(e.byElement)
	clear(e.refs)
	for id, edge := range snap.Edges {
		ref := [2]wb.ElementID{edge.Source.Element, edge.Target.Element}
		e.refs[id] = ref
		for _, el := range ref {
			if el != "" {
				e.byElement[el] = append(e.byElement[el], id)
			}
		}
	}
	// Edges whose element vanished can never reflow again.
	for id := range e.dirty {
		if _, ok := snap.Edges[id]; !ok {
			delete(e.dirty, id)
		}
	}
}

func (e *Engine) structureChanged(edges map[wb.EdgeID]store.Edge) bool {
	if len(edges) != len(e.refs) {
		return true
	}
	for id, edge := range edges {
		ref, ok := e.refs[id]
		if !ok || ref[0] != edge.Source.Element || ref[1] != edge.Target.Element {
			return true
		}
	}
	return false
}

// MarkDirty flags every edge referencing the element for the next reflow.
func (e *Engine) MarkDirty(id wb.ElementID) {
	for _, eid := range e.byElement[id] {
		e.dirty[eid] = true
	}
}

// DirtyCount returns the number of edges waiting for reflow.
func (e *Engine) DirtyCount() int { return len(e.dirty) }

// ReflowDirtyEdges recomputes the routed points of all dirty edges in one
// batch and clears the dirty set. The host calls it at most once per
// animation frame. Point updates are derived state and bypass history.
func (e *Engine) ReflowDirtyEdges() int {
	if len(e.dirty) == 0 {
		return 0
	}
	points := make(map[wb.EdgeID][]float64, len(e.dirty))
	for id := range e.dirty {
		edge, ok := e.snap.Edges[id]
		if !ok {
			continue
		}
		if pts, ok := e.route(edge); ok {
			points[id] = pts
		}
	}
	clear(e.dirty)
	if len(points) == 0 {
		return 0
	}
	e.snap = e.store.SetEdgePoints(points)
	wb.Logger().Debug("edge reflow", "edges", len(points))
	return len(points)
}

// route computes the polyline for an edge from its live endpoint
// positions: source anchor, then target anchor or free point.
func (e *Engine) route(edge store.Edge) ([]float64, bool) {
	src, ok := e.anchorPoint(edge.Source)
	if !ok {
		return nil, false
	}
	var dst wb.Point
	switch {
	case edge.Target.Element != "":
		dst, ok = e.anchorPoint(edge.Target)
		if !ok {
			return nil, false
		}
	case edge.FreePoint != nil:
		dst = *edge.FreePoint
	default:
		return nil, false
	}
	return []float64{src.X, src.Y, dst.X, dst.Y}, true
}

func (e *Engine) anchorPoint(ep store.Endpoint) (wb.Point, bool) {
	el, ok := e.snap.Elements[ep.Element]
	if !ok {
		return wb.Point{}, false
	}
	return ep.Anchor.Of(el.Frame()), true
}

// FindSnapTarget returns the nearest anchor of any element within the snap
// radius of the pointer, excluding the given element. The radius divides
// by the viewport scale so it tracks a constant screen distance. When two
// elements offer equally near anchors, the one on top wins.
func (e *Engine) FindSnapTarget(p wb.Point, exclude wb.ElementID) (SnapTarget, bool) {
	radius := e.effectiveRadius()
	region := wb.R(p.X-radius, p.Y-radius, 2*radius, 2*radius)

	var (
		best      SnapTarget
		bestDist  = math.Inf(1)
		bestStamp uint64
		found     bool
	)
	for _, id := range e.index.QueryRange(region) {
		if id == exclude {
			continue
		}
		el, ok := e.snap.Elements[id]
		if !ok {
			continue
		}
		frame := el.Frame()
		stamp, _ := e.index.Stamp(id)
		for _, a := range wb.Anchors {
			d := a.Of(frame).Distance(p)
			if d > radius {
				continue
			}
			if d < bestDist || (d == bestDist && stamp > bestStamp) {
				best = SnapTarget{Element: id, Anchor: a}
				bestDist, bestStamp, found = d, stamp, true
			}
		}
	}
	return best, found
}

func (e *Engine) effectiveRadius() float64 {
	scale := e.snap.Viewport.Scale
	if scale <= 0 {
		scale = 1
	}
	return e.snapRadius / scale
}
