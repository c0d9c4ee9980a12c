package store

import "github.com/gogpu/wb"

// Endpoint binds an edge end to a named anchor on an element.
type Endpoint struct {
	Element wb.ElementID `json:"elementId"`
	Anchor  wb.Anchor    `json:"anchor"`
}

// Edge is an anchor-bound connector between two elements. Target may be
// replaced by FreePoint for an edge whose far end floats in world space.
//
// Points caches the routed polyline as a flat [x0 y0 ... xn yn] array. It
// is always re-derivable from the endpoint positions and is refreshed by
// the connector engine's reflow pass; it is never authoritative.
type Edge struct {
	ID        wb.EdgeID `json:"id"`
	Source    Endpoint  `json:"source"`
	Target    Endpoint  `json:"target,omitzero"`
	FreePoint *wb.Point `json:"freePoint,omitempty"`
	Label     string    `json:"label,omitempty"`
	Points    []float64 `json:"points,omitempty"`
}

// NewEdge creates an edge between two anchored endpoints.
func NewEdge(source, target Endpoint) Edge {
	return Edge{ID: wb.NewEdgeID(), Source: source, Target: target}
}

// NewFreeEdge creates an edge anchored at source with a free-floating far
// end.
func NewFreeEdge(source Endpoint, free wb.Point) Edge {
	return Edge{ID: wb.NewEdgeID(), Source: source, FreePoint: &free}
}

// References reports whether either endpoint is bound to the element.
func (e Edge) References(id wb.ElementID) bool {
	return e.Source.Element == id || e.Target.Element == id
}

// clone returns a copy sharing no mutable state with the original.
func (e Edge) clone() Edge {
	if e.Points != nil {
		e.Points = append([]float64(nil), e.Points...)
	}
	if e.FreePoint != nil {
		p := *e.FreePoint
		e.FreePoint = &p
	}
	return e
}
