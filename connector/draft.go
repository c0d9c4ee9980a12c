package connector

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/store"
)

type draftPhase uint8

const (
	draftIdle draftPhase = iota
	draftUnsnapped
	draftSnapped
)

// draft is the in-flight connector gesture: a fixed source anchor, the
// live pointer, and an optional snapped target.
type draft struct {
	phase   draftPhase
	source  SnapTarget
	pointer wb.Point
	target  SnapTarget
}

// Drafting reports whether a connector draft is in flight.
func (e *Engine) Drafting() bool { return e.draft.phase != draftIdle }

// Snapped reports whether the in-flight draft is snapped to a target.
func (e *Engine) Snapped() bool { return e.draft.phase == draftSnapped }

// StartDraft begins a connector draft from the given source anchor. A
// draft already in flight is discarded first.
func (e *Engine) StartDraft(source SnapTarget) {
	if e.draft.phase != draftIdle {
		wb.Logger().Warn("connector draft started while one was in flight, discarding",
			"source", string(e.draft.source.Element))
	}
	start, _ := e.anchorPoint(store.Endpoint{Element: source.Element, Anchor: source.Anchor})
	e.draft = draft{phase: draftUnsnapped, source: source, pointer: start}
}

// UpdateDraftPointer moves the draft's far end and resolves snapping. An
// unsnapped draft snaps to the nearest in-radius anchor; a snapped draft
// holds its target until the pointer leaves the unsnap radius
// (UnsnapFactor times the snap radius), then releases and may re-snap.
func (e *Engine) UpdateDraftPointer(p wb.Point) {
	if e.draft.phase == draftIdle {
		return
	}
	e.draft.pointer = p

	if e.draft.phase == draftSnapped {
		anchor, ok := e.anchorPoint(store.Endpoint{
			Element: e.draft.target.Element, Anchor: e.draft.target.Anchor,
		})
		if ok && anchor.Distance(p) <= UnsnapFactor*e.effectiveRadius() {
			return
		}
		e.draft.phase = draftUnsnapped
		e.draft.target = SnapTarget{}
	}
	if target, ok := e.FindSnapTarget(p, e.draft.source.Element); ok {
		e.draft.phase = draftSnapped
		e.draft.target = target
	}
}

// UpdateDraftSnap forces the draft onto a target, bypassing the radius
// search. Used by tools that pick targets explicitly.
func (e *Engine) UpdateDraftSnap(target SnapTarget) {
	if e.draft.phase == draftIdle {
		return
	}
	e.draft.phase = draftSnapped
	e.draft.target = target
}

// ClearDraftSnap releases the draft's target without ending the draft.
func (e *Engine) ClearDraftSnap() {
	if e.draft.phase != draftSnapped {
		return
	}
	e.draft.phase = draftUnsnapped
	e.draft.target = SnapTarget{}
}

// DraftTarget returns the currently snapped target, if any.
func (e *Engine) DraftTarget() (SnapTarget, bool) {
	return e.draft.target, e.draft.phase == draftSnapped
}

// DraftPath returns the preview polyline from the source anchor to the
// snapped target anchor or, unsnapped, to the pointer.
func (e *Engine) DraftPath() []float64 {
	if e.draft.phase == draftIdle {
		return nil
	}
	src, _ := e.anchorPoint(store.Endpoint{
		Element: e.draft.source.Element, Anchor: e.draft.source.Anchor,
	})
	dst := e.draft.pointer
	if e.draft.phase == draftSnapped {
		if p, ok := e.anchorPoint(store.Endpoint{
			Element: e.draft.target.Element, Anchor: e.draft.target.Anchor,
		}); ok {
			dst = p
		}
	}
	return []float64{src.X, src.Y, dst.X, dst.Y}
}

// Commit identifies what CommitDraft created: an anchor-bound edge when
// the draft was snapped, otherwise a free-floating connector element.
type Commit struct {
	Edge    wb.EdgeID
	Element wb.ElementID
}

// CommitDraft ends the draft and persists its result. A snapped draft
// becomes an Edge (routed on the next reflow); an unsnapped draft becomes
// a free-floating two-point connector element. Returns false when no
// draft was in flight, or when the store refused the result because an
// endpoint was deleted mid-gesture.
func (e *Engine) CommitDraft() (Commit, bool) {
	d := e.draft
	e.draft = draft{}
	switch d.phase {
	case draftIdle:
		return Commit{}, false
	case draftSnapped:
		edge := store.NewEdge(
			store.Endpoint{Element: d.source.Element, Anchor: d.source.Anchor},
			store.Endpoint{Element: d.target.Element, Anchor: d.target.Anchor},
		)
		snap := e.store.AddEdge(edge)
		if _, ok := snap.Edge(edge.ID); !ok {
			return Commit{}, false
		}
		e.Observe(snap)
		e.dirty[edge.ID] = true
		return Commit{Edge: edge.ID}, true
	default:
		el := store.NewConnector(e.freeDraftPoints(d))
		snap := e.store.AddElement(el)
		if _, ok := snap.Get(el.ID()); !ok {
			return Commit{}, false
		}
		e.Observe(snap)
		return Commit{Element: el.ID()}, true
	}
}

func (e *Engine) freeDraftPoints(d draft) []float64 {
	src, _ := e.anchorPoint(store.Endpoint{Element: d.source.Element, Anchor: d.source.Anchor})
	return []float64{src.X, src.Y, d.pointer.X, d.pointer.Y}
}

// CancelDraft discards the draft without persisting anything.
func (e *Engine) CancelDraft() {
	e.draft = draft{}
}
