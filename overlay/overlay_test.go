package overlay

import (
	"testing"

	"github.com/gogpu/wb"
	"github.com/gogpu/wb/store"
	"github.com/gogpu/wb/text"
)

func TestWorldRectToScreen(t *testing.T) {
	v := wb.Viewport{X: 50, Y: 50, Scale: 2, Width: 1600, Height: 1200}
	container := wb.R(10, 20, 800, 600)

	// Scale 2 at DPR 2 is 1 CSS pixel per world unit.
	got := WorldRectToScreen(wb.R(100, 100, 50, 40), v, container, 2)
	want := wb.R(60, 70, 50, 40)
	if got != want {
		t.Errorf("WorldRectToScreen = %+v, want %+v", got, want)
	}
}

func TestScreenRectRoundTrip(t *testing.T) {
	v := wb.Viewport{X: -120, Y: 35, Scale: 1.5, Width: 1024, Height: 768}
	container := wb.R(16, 48, 1024, 768)
	world := wb.R(7, -3, 211, 89)

	css := WorldRectToScreen(world, v, container, 1.25)
	back := ScreenRectToWorld(css, v, container, 1.25)
	const eps = 1e-9
	for _, d := range []float64{back.X - world.X, back.Y - world.Y, back.Width - world.Width, back.Height - world.Height} {
		if d > eps || d < -eps {
			t.Fatalf("round trip drifted: %+v -> %+v", world, back)
		}
	}
}

func TestGrowToFit(t *testing.T) {
	c := Constraints{MinWidth: 40, MinHeight: 24, PaddingX: 8, PaddingY: 4}

	w, h := GrowToFit(10, 10, c)
	if w != 40 || h != 24 {
		t.Errorf("small content = (%v, %v), want minimums", w, h)
	}

	w, h = GrowToFit(100, 30, c)
	if w != 116 || h != 38 {
		t.Errorf("large content = (%v, %v), want content plus padding", w, h)
	}
}

func newBridge(t *testing.T) (*store.Store, *Bridge, *store.Text) {
	t.Helper()
	st := store.New()
	el := store.NewText(wb.R(0, 0, 80, 24), "hello")
	st.AddElement(el)
	return st, NewBridge(st, text.FixedMeasurer{}), el
}

func TestBeginEditOnlyTextBearing(t *testing.T) {
	st, b, el := newBridge(t)
	rect := store.NewRectangle(wb.R(0, 100, 10, 10))
	st.AddElement(rect)

	if b.BeginEdit(rect.ID()) {
		t.Errorf("BeginEdit accepted a rectangle")
	}
	if b.BeginEdit("missing") {
		t.Errorf("BeginEdit accepted a missing element")
	}
	if !b.BeginEdit(el.ID()) {
		t.Fatalf("BeginEdit rejected a text element")
	}
	if !b.EditingActive() || b.Text() != "hello" {
		t.Errorf("editing state = active=%v text=%q", b.EditingActive(), b.Text())
	}
}

func TestKeystrokesAreTransient(t *testing.T) {
	st, b, el := newBridge(t)
	b.BeginEdit(el.ID())

	v0 := st.Snapshot().Version
	b.SetText("hello w")
	b.SetText("hello wo")
	b.SetText("hello world")

	snap := st.Snapshot()
	if snap.Version == v0 {
		t.Fatalf("keystrokes did not publish snapshots")
	}
	got, _ := snap.Get(el.ID())
	if got.(*store.Text).Text != "hello world" {
		t.Errorf("store text = %q", got.(*store.Text).Text)
	}
	// Width grew with the content: 11 runes at 0.6*16 plus padding.
	if got.Frame().Width <= 80 {
		t.Errorf("frame did not grow: %v", got.Frame())
	}

	// Only the element insertion is undoable so far.
	st.Undo()
	if st.CanUndo() {
		t.Errorf("keystrokes recorded history")
	}
}

func TestCommitRecordsSingleEntry(t *testing.T) {
	st, b, el := newBridge(t)
	b.BeginEdit(el.ID())
	b.SetText("hi")
	b.SetText("high")
	b.SetText("high noon")
	b.Commit()

	if b.EditingActive() {
		t.Fatalf("still editing after commit")
	}
	got, _ := st.Snapshot().Get(el.ID())
	if got.(*store.Text).Text != "high noon" {
		t.Fatalf("committed text = %q", got.(*store.Text).Text)
	}

	// One undo steps over the whole edit back to the pre-edit text and
	// frame, not to an intermediate keystroke.
	snap := st.Undo()
	und, _ := snap.Get(el.ID())
	if und.(*store.Text).Text != "hello" {
		t.Errorf("undo landed on %q, want pre-edit text", und.(*store.Text).Text)
	}
	if und.Frame() != wb.R(0, 0, 80, 24) {
		t.Errorf("undo frame = %+v, want pre-edit frame", und.Frame())
	}
}

func TestCommitUnchangedRecordsNothing(t *testing.T) {
	st, b, el := newBridge(t)
	b.BeginEdit(el.ID())
	b.SetText("hello")
	b.Commit()

	// Only the element insertion should remain undoable.
	st.Undo()
	if st.CanUndo() {
		t.Errorf("unchanged commit recorded a history entry")
	}
}

func TestCancelRestoresTextAndFrame(t *testing.T) {
	st, b, el := newBridge(t)
	before := st.CanUndo()
	b.BeginEdit(el.ID())
	b.SetText("scratch that, a much longer line that grew the frame")

	// The keystroke resized the element; cancel must roll that back too.
	grown, _ := st.Snapshot().Get(el.ID())
	if grown.Frame().Width <= 80 {
		t.Fatalf("frame did not grow during edit: %+v", grown.Frame())
	}
	b.Cancel()

	got, _ := st.Snapshot().Get(el.ID())
	if got.(*store.Text).Text != "hello" {
		t.Errorf("text after cancel = %q, want original", got.(*store.Text).Text)
	}
	if got.Frame() != wb.R(0, 0, 80, 24) {
		t.Errorf("frame after cancel = %+v, want pre-edit frame", got.Frame())
	}
	if b.EditingActive() {
		t.Errorf("still editing after cancel")
	}
	if st.CanUndo() != before {
		t.Errorf("cancel changed history")
	}
}

func TestOnEditingChangedHook(t *testing.T) {
	_, b, el := newBridge(t)
	var calls []wb.ElementID
	b.OnEditingChanged = func(id wb.ElementID) { calls = append(calls, id) }

	b.BeginEdit(el.ID())
	b.Commit()
	if len(calls) != 2 || calls[0] != el.ID() || calls[1] != "" {
		t.Errorf("hook calls = %v, want [%s \"\"]", calls, el.ID())
	}
}

func TestEditorRectTracksElement(t *testing.T) {
	st, b, el := newBridge(t)
	v := wb.DefaultViewport(800, 600)
	v.X, v.Y = -10, -20
	st.SetViewport(v)

	if _, ok := b.EditorRect(wb.R(0, 0, 800, 600), 1); ok {
		t.Fatalf("EditorRect returned a rect with no edit in progress")
	}
	b.BeginEdit(el.ID())
	got, ok := b.EditorRect(wb.R(0, 0, 800, 600), 1)
	if !ok {
		t.Fatalf("EditorRect failed during edit")
	}
	if got.X != 10 || got.Y != 20 {
		t.Errorf("EditorRect = %+v, want offset by pan", got)
	}
}
