// Package transform implements the selection transform controller: the
// resize-rotate handle widget attached to the selected elements.
//
// During a drag the controller maintains a preview transform only; the
// store sees nothing until the gesture ends, when the final frames commit
// as one batch update and one history entry. Scale factors are folded into
// width and height at commit, so later edits work on normalized dimensions
// instead of compounding scale.
package transform

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/store"
)

// Transform is the accumulated gesture state applied to the attached
// elements: a translation, scale factors about the selection's top-left
// corner, and a rotation delta. Zero scale factors mean 1.
type Transform struct {
	DX, DY         float64
	ScaleX, ScaleY float64
	Rotation       float64
}

func (t Transform) scale() (sx, sy float64) {
	sx, sy = t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

type startState struct {
	frame    wb.Rect
	rotation float64
}

// Controller owns the single shared transform handle widget. At most one
// selection is attached at a time; attaching fully detaches the previous
// one first, so no element ever keeps a dangling handle reference.
type Controller struct {
	store *store.Store

	attached []wb.ElementID
	active   bool
	start    map[wb.ElementID]startState
	pivot    wb.Point
	current  Transform

	onEnd []func(ids []wb.ElementID)
}

// New creates a detached controller writing through the store.
func New(st *store.Store) *Controller {
	return &Controller{store: st}
}

// OnTransformEnd registers a callback fired after each committed gesture
// with the transformed element ids.
func (c *Controller) OnTransformEnd(fn func(ids []wb.ElementID)) {
	if fn != nil {
		c.onEnd = append(c.onEnd, fn)
	}
}

// Attach binds the handles to the given elements, detaching any previous
// selection first. Unknown ids are dropped. An in-flight gesture is
// cancelled by the detach.
func (c *Controller) Attach(ids []wb.ElementID) {
	c.Detach()
	snap := c.store.Snapshot()
	for _, id := range ids {
		if _, ok := snap.Get(id); ok {
			c.attached = append(c.attached, id)
		}
	}
}

// Detach releases the handles and discards any preview state.
func (c *Controller) Detach() {
	c.attached = c.attached[:0]
	c.active = false
	c.start = nil
	c.current = Transform{}
}

// Attached returns the elements the handles are bound to.
func (c *Controller) Attached() []wb.ElementID {
	return append([]wb.ElementID(nil), c.attached...)
}

// Begin starts a transform gesture, capturing the attached elements'
// frames as the preview baseline. Returns false when nothing is attached.
func (c *Controller) Begin() bool {
	if len(c.attached) == 0 {
		return false
	}
	snap := c.store.Snapshot()
	c.start = make(map[wb.ElementID]startState, len(c.attached))
	var bounds wb.Rect
	first := true
	for _, id := range c.attached {
		el, ok := snap.Get(id)
		if !ok {
			continue
		}
		st := startState{frame: el.Frame(), rotation: store.Rotation(el)}
		c.start[id] = st
		if first {
			bounds = st.frame
			first = false
		} else {
			bounds = bounds.Union(st.frame)
		}
	}
	if len(c.start) == 0 {
		return false
	}
	c.pivot = wb.Pt(bounds.X, bounds.Y)
	c.current = Transform{}
	c.active = true
	return true
}

// Update replaces the gesture's accumulated transform. Preview only: the
// store is not written and no history is recorded.
func (c *Controller) Update(t Transform) {
	if !c.active {
		return
	}
	c.current = t
}

// Active reports whether a transform gesture is in flight.
func (c *Controller) Active() bool { return c.active }

// Preview returns the element's previewed frame and rotation under the
// current gesture, falling back to its start state when inactive.
func (c *Controller) Preview(id wb.ElementID) (wb.Rect, float64, bool) {
	st, ok := c.start[id]
	if !ok {
		return wb.Rect{}, 0, false
	}
	f, r := c.apply(st)
	return f, r, true
}

// apply maps a start state through the current transform: scale about the
// selection pivot, then translate; rotation adds.
func (c *Controller) apply(st startState) (wb.Rect, float64) {
	sx, sy := c.current.scale()
	f := wb.Rect{
		X:      c.pivot.X + (st.frame.X-c.pivot.X)*sx + c.current.DX,
		Y:      c.pivot.Y + (st.frame.Y-c.pivot.Y)*sy + c.current.DY,
		Width:  st.frame.Width * sx,
		Height: st.frame.Height * sy,
	}
	return f.Sanitized(), st.rotation + c.current.Rotation
}

// End commits the gesture: one batch update carrying the final x, y,
// width, height, and rotation for every attached element, hence one
// history entry. Scale lives only in the committed dimensions.
func (c *Controller) End() {
	if !c.active {
		return
	}
	updates := make([]store.Update, 0, len(c.attached))
	ids := make([]wb.ElementID, 0, len(c.attached))
	for _, id := range c.attached {
		st, ok := c.start[id]
		if !ok {
			continue
		}
		f, rot := c.apply(st)
		p := store.FramePatch(f)
		p.Rotation = store.Float(rot)
		updates = append(updates, store.Update{ID: id, Patch: p})
		ids = append(ids, id)
	}
	c.active = false
	c.start = nil
	c.current = Transform{}
	if len(updates) == 0 {
		return
	}
	c.store.BatchUpdate(updates)
	for _, fn := range c.onEnd {
		fn(ids)
	}
}

// Cancel discards the gesture's preview without writing anything.
func (c *Controller) Cancel() {
	c.active = false
	c.start = nil
	c.current = Transform{}
}
