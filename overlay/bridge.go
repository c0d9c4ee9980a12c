package overlay

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/store"
	"github.com/gogpu/wb/text"
)

// Bridge owns the text editing lifecycle for one canvas instance:
// idle, editing, then commit or cancel back to idle.
//
// While editing, every keystroke goes through SetText, which writes the
// buffered text and a grow-to-fit frame to the store as transient updates
// (no history). Commit re-measures authoritatively, adds the guard margin,
// and records exactly one history entry; with unchanged text it records
// none. Cancel restores the pre-edit text and frame without touching
// history.
type Bridge struct {
	store    *store.Store
	measurer text.Measurer

	constraints Constraints

	editing       wb.ElementID
	original      string
	originalFrame wb.Rect
	buffer        string

	// OnEditingChanged fires with the element entering edit mode, or ""
	// when editing ends. The scene hooks this to hide the canvas text
	// while the host editor is visible.
	OnEditingChanged func(id wb.ElementID)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithConstraints overrides the grow-to-fit constraints.
func WithConstraints(c Constraints) Option {
	return func(b *Bridge) { b.constraints = c }
}

// NewBridge creates an editing bridge writing through the store and
// measuring with the given measurer.
func NewBridge(st *store.Store, m text.Measurer, opts ...Option) *Bridge {
	b := &Bridge{
		store:       st,
		measurer:    m,
		constraints: DefaultConstraints,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EditingActive reports whether an edit is in progress. The keyboard
// shortcut dispatcher consults it to suppress global shortcuts until
// commit or cancel.
func (b *Bridge) EditingActive() bool { return b.editing != "" }

// EditingElement returns the element being edited, or "".
func (b *Bridge) EditingElement() wb.ElementID { return b.editing }

// Text returns the buffered text of the in-progress edit.
func (b *Bridge) Text() string { return b.buffer }

// BeginEdit enters editing on a text-bearing element. Returns false when
// the element does not exist or carries no editable text. An edit already
// in progress is committed first.
func (b *Bridge) BeginEdit(id wb.ElementID) bool {
	if b.editing != "" {
		b.Commit()
	}
	el, ok := b.store.Snapshot().Get(id)
	var current string
	if ok {
		current, ok = editableText(el)
	}
	if !ok {
		wb.Logger().Warn("edit requested on non-editable element", "id", string(id))
		return false
	}
	b.editing = id
	b.original = current
	b.originalFrame = el.Frame()
	b.buffer = current
	if b.OnEditingChanged != nil {
		b.OnEditingChanged(id)
	}
	return true
}

// SetText replaces the buffered text on a keystroke: the element's text
// and grow-to-fit frame update immediately, but transiently, so readers
// stay consistent without flooding history.
func (b *Bridge) SetText(s string) {
	if b.editing == "" {
		return
	}
	b.buffer = s
	w, h := b.fitSize(s, 0)
	b.store.UpdateElement(b.editing, store.Patch{
		Text:   store.Str(s),
		Width:  store.Float(w),
		Height: store.Float(h),
	}, store.SkipHistory())
}

// Commit ends editing, re-measures the final text with the guard margin,
// and records a single history entry. Committing unchanged text records
// nothing.
func (b *Bridge) Commit() {
	id := b.editing
	if id == "" {
		return
	}
	changed := b.buffer != b.original
	patch := store.Patch{Text: store.Str(b.buffer)}
	w, h := b.fitSize(b.buffer, GuardMargin)
	patch.Width, patch.Height = store.Float(w), store.Float(h)
	if changed {
		b.store.UpdateElement(id, patch)
	} else {
		b.store.UpdateElement(id, patch, store.SkipHistory())
	}
	b.end()
}

// Cancel ends editing and restores the pre-edit text and frame. No history
// entry is recorded; the transient keystroke updates, including the
// grow-to-fit resizes, are rolled back in place.
func (b *Bridge) Cancel() {
	id := b.editing
	if id == "" {
		return
	}
	b.store.UpdateElement(id, store.Patch{
		Text:   store.Str(b.original),
		Width:  store.Float(b.originalFrame.Width),
		Height: store.Float(b.originalFrame.Height),
	}, store.SkipHistory())
	b.end()
}

// EditorRect returns the host CSS-pixel rect the editor should occupy for
// the current edit, given the live viewport, the canvas container's page
// rect, and the device pixel ratio.
func (b *Bridge) EditorRect(container wb.Rect, dpr float64) (wb.Rect, bool) {
	if b.editing == "" {
		return wb.Rect{}, false
	}
	snap := b.store.Snapshot()
	el, ok := snap.Get(b.editing)
	if !ok {
		return wb.Rect{}, false
	}
	return WorldRectToScreen(el.Frame(), snap.Viewport, container, dpr), true
}

func (b *Bridge) end() {
	b.editing = ""
	b.original = ""
	b.originalFrame = wb.Rect{}
	b.buffer = ""
	if b.OnEditingChanged != nil {
		b.OnEditingChanged("")
	}
}

// fitSize measures s and applies grow-to-fit plus an extra margin on each
// dimension.
func (b *Bridge) fitSize(s string, margin float64) (float64, float64) {
	m := b.measurer.Measure(s, b.fontSize())
	w, h := GrowToFit(m.Width, m.Height, b.constraints)
	return w + margin, h + margin
}

func (b *Bridge) fontSize() float64 {
	el, ok := b.store.Snapshot().Get(b.editing)
	if !ok {
		return text.DefaultFontSize
	}
	if t, ok := el.(*store.Text); ok && t.FontSize > 0 {
		return t.FontSize
	}
	return text.DefaultFontSize
}

// editableText returns the element's current text when the element kind
// supports in-place editing.
func editableText(el store.Element) (string, bool) {
	switch e := el.(type) {
	case *store.Text:
		return e.Text, true
	case *store.Sticky:
		return e.Text, true
	default:
		return "", false
	}
}
