package engine

import (
	"slices"
	"testing"

	"github.com/gogpu/wb"
	"github.com/gogpu/wb/connector"
	"github.com/gogpu/wb/scene"
	"github.com/gogpu/wb/store"
)

func TestStoreMutationsReachScene(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	r := store.NewRectangle(wb.R(0, 0, 100, 100))
	e.Store().AddElement(r)

	if e.Scene().Node(r.ID()) == nil {
		t.Fatalf("scene missed the store mutation")
	}
	if !e.Index().Contains(r.ID()) {
		t.Errorf("index missed the store mutation")
	}

	e.Store().DeleteElement(r.ID())
	if e.Scene().Node(r.ID()) != nil {
		t.Errorf("scene kept a deleted element")
	}
}

func TestCloseDetaches(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	e.Close()
	r := store.NewRectangle(wb.R(0, 0, 10, 10))
	e.Store().AddElement(r)
	if e.Scene().Node(r.ID()) != nil {
		t.Errorf("closed engine still syncing")
	}
}

func TestHitHelpers(t *testing.T) {
	e, _ := New()
	bottom := store.NewRectangle(wb.R(0, 0, 100, 100))
	top := store.NewRectangle(wb.R(50, 50, 100, 100))
	far := store.NewRectangle(wb.R(500, 500, 10, 10))
	e.Store().AddElement(bottom)
	e.Store().AddElement(top)
	e.Store().AddElement(far)

	id, ok := e.ElementAt(wb.Pt(75, 75))
	if !ok || id != top.ID() {
		t.Errorf("ElementAt = %v ok=%v, want topmost %v", id, ok, top.ID())
	}
	if _, ok := e.ElementAt(wb.Pt(-50, -50)); ok {
		t.Errorf("ElementAt hit empty space")
	}

	got := e.ElementsIn(wb.R(-10, -10, 200, 200))
	slices.Sort(got)
	want := []wb.ElementID{bottom.ID(), top.ID()}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("ElementsIn = %v, want %v", got, want)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	e, _ := New()
	v := wb.DefaultViewport(800, 600)
	v.X, v.Y = 100, 50
	e.Store().SetViewport(v)

	screen := wb.Pt(400, 300)
	before := e.Store().Snapshot().Viewport.ScreenToWorld(screen)
	e.ZoomAt(screen, 2)
	after := e.Store().Snapshot().Viewport
	if after.Scale != 2 {
		t.Fatalf("Scale = %v, want 2", after.Scale)
	}
	got := after.ScreenToWorld(screen)
	const eps = 1e-9
	if d := got.Distance(before); d > eps {
		t.Errorf("zoom anchor drifted by %v: %v -> %v", d, before, got)
	}
}

func TestGroupDragMovesWholeGroup(t *testing.T) {
	e, _ := New()
	st := e.Store()
	a := store.NewRectangle(wb.R(0, 0, 10, 10))
	b := store.NewSticky(wb.R(100, 100, 50, 50), "")
	c := store.NewCircle(wb.R(200, 0, 30, 30))
	loose := store.NewRectangle(wb.R(400, 400, 10, 10))
	st.AddElement(a)
	st.AddElement(b)
	st.AddElement(c)
	st.AddElement(loose)
	if gid, _ := st.Group([]wb.ElementID{a.ID(), b.ID(), c.ID()}); gid == "" {
		t.Fatalf("grouping failed")
	}

	// Dragging one member by (30, -10) moves every member by the same
	// delta and leaves ungrouped elements alone.
	snap := st.MoveBy([]wb.ElementID{a.ID()}, 30, -10)

	wantFrames := map[wb.ElementID]wb.Rect{
		a.ID():     wb.R(30, -10, 10, 10),
		b.ID():     wb.R(130, 90, 50, 50),
		c.ID():     wb.R(230, -10, 30, 30),
		loose.ID(): wb.R(400, 400, 10, 10),
	}
	for id, want := range wantFrames {
		el, _ := snap.Get(id)
		if el.Frame() != want {
			t.Errorf("%v frame = %+v, want %+v", id, el.Frame(), want)
		}
	}
	// The scene followed.
	if n := e.Scene().Node(b.ID()); n.Frame != wantFrames[b.ID()] {
		t.Errorf("scene node frame = %+v", n.Frame)
	}
}

func TestEdgeReflowsWhenElementMoves(t *testing.T) {
	sched := &scene.ManualScheduler{}
	e, _ := New(WithFrameScheduler(sched))
	st := e.Store()

	rect := store.NewRectangle(wb.R(0, 0, 100, 100))
	sticky := store.NewSticky(wb.R(200, 200, 150, 150), "")
	st.AddElement(rect)
	st.AddElement(sticky)
	edge := store.NewEdge(
		store.Endpoint{Element: rect.ID(), Anchor: wb.AnchorRight},
		store.Endpoint{Element: sticky.ID(), Anchor: wb.AnchorLeft},
	)
	st.AddEdge(edge)

	st.MoveBy([]wb.ElementID{rect.ID()}, 50, 50)
	got, _ := st.Snapshot().Edge(edge.ID)
	if len(got.Points) != 0 {
		t.Fatalf("reflow ran before the frame callback")
	}

	sched.Flush()
	got, _ = st.Snapshot().Edge(edge.ID)
	if want := []float64{150, 100, 200, 275}; !slices.Equal(got.Points, want) {
		t.Errorf("routed points = %v, want %v", got.Points, want)
	}
	if e.Connector().DirtyCount() != 0 {
		t.Errorf("dirty edges left after reflow")
	}
}

func TestGroupMoveReflowsOnce(t *testing.T) {
	sched := &scene.ManualScheduler{}
	e, _ := New(WithFrameScheduler(sched))
	st := e.Store()

	a := store.NewRectangle(wb.R(0, 0, 10, 10))
	b := store.NewRectangle(wb.R(100, 0, 10, 10))
	out := store.NewRectangle(wb.R(300, 0, 10, 10))
	st.AddElement(a)
	st.AddElement(b)
	st.AddElement(out)
	st.Group([]wb.ElementID{a.ID(), b.ID()})
	edge := store.NewEdge(
		store.Endpoint{Element: b.ID(), Anchor: wb.AnchorRight},
		store.Endpoint{Element: out.ID(), Anchor: wb.AnchorLeft},
	)
	st.AddEdge(edge)

	// Both group members move in one action; the edge is dirty once and
	// one flush routes it.
	st.MoveBy([]wb.ElementID{a.ID()}, 0, 50)
	if e.Connector().DirtyCount() != 1 {
		t.Fatalf("DirtyCount = %d, want 1", e.Connector().DirtyCount())
	}
	sched.Flush()
	got, _ := st.Snapshot().Edge(edge.ID)
	if want := []float64{110, 55, 300, 5}; !slices.Equal(got.Points, want) {
		t.Errorf("routed points = %v, want %v", got.Points, want)
	}
}

func TestSelectionDrivesTransformHandles(t *testing.T) {
	e, _ := New()
	st := e.Store()
	r := store.NewRectangle(wb.R(0, 0, 10, 10))
	st.AddElement(r)

	st.SetSelection(store.Select(r.ID()))
	if got := e.Transform().Attached(); len(got) != 1 || got[0] != r.ID() {
		t.Fatalf("handles not attached: %v", got)
	}

	st.SetSelection(store.Selection{})
	if len(e.Transform().Attached()) != 0 {
		t.Errorf("handles not detached on empty selection")
	}
}

func TestConnectorDraftThroughEngine(t *testing.T) {
	e, _ := New()
	st := e.Store()
	a := store.NewRectangle(wb.R(0, 0, 100, 100))
	b := store.NewRectangle(wb.R(300, 0, 100, 100))
	st.AddElement(a)
	st.AddElement(b)

	conn := e.Connector()
	conn.StartDraft(connector.SnapTarget{Element: a.ID(), Anchor: wb.AnchorRight})
	conn.UpdateDraftPointer(wb.Pt(300, 50))
	commit, ok := e.CommitConnectorDraft()
	if !ok || commit.Edge == "" {
		t.Fatalf("commit = %+v ok=%v", commit, ok)
	}

	// Default scheduler is immediate, so the edge routes right away.
	got, _ := st.Snapshot().Edge(commit.Edge)
	if want := []float64{100, 50, 300, 50}; !slices.Equal(got.Points, want) {
		t.Errorf("routed points = %v, want %v", got.Points, want)
	}
}

func TestStrokeLifecycle(t *testing.T) {
	e, _ := New()
	st := e.Store()

	e.BeginStroke(wb.Pt(0, 0), "#333", 2)
	e.AppendStrokePoint(wb.Pt(10, 5))
	e.AppendStrokePoint(wb.Pt(20, 12))
	if e.Scene().PreviewLen() != 1 {
		t.Fatalf("PreviewLen = %d, want 1", e.Scene().PreviewLen())
	}
	if st.CanUndo() {
		t.Fatalf("stroke points recorded history before pointer-up")
	}

	id, ok := e.EndStroke()
	if !ok {
		t.Fatalf("EndStroke failed")
	}
	if e.Scene().PreviewLen() != 0 {
		t.Errorf("preview not cleared after commit")
	}
	el, _ := st.Snapshot().Get(id)
	s, ok := el.(*store.Stroke)
	if !ok {
		t.Fatalf("committed element is %T", el)
	}
	want := []float64{0, 0, 10, 5, 20, 12}
	if !slices.Equal(s.Points, want) || s.Color != "#333" || s.StrokeWidth != 2 {
		t.Errorf("stroke = %+v", s)
	}
	if s.Frame() != wb.R(0, 0, 20, 12) {
		t.Errorf("stroke frame = %+v", s.Frame())
	}

	// One undo removes the whole stroke.
	snap := st.Undo()
	if _, ok := snap.Get(id); ok {
		t.Errorf("stroke survived undo")
	}
	if st.CanUndo() {
		t.Errorf("stroke recorded more than one entry")
	}
}

func TestShortStrokeDiscarded(t *testing.T) {
	e, _ := New()
	e.BeginStroke(wb.Pt(5, 5), "#000", 1)
	if _, ok := e.EndStroke(); ok {
		t.Errorf("single-point stroke committed")
	}
	if e.Store().CanUndo() {
		t.Errorf("discarded stroke recorded history")
	}
}

func TestCancelStrokeDiscardsPreview(t *testing.T) {
	e, _ := New()
	e.BeginStroke(wb.Pt(0, 0), "#000", 1)
	e.AppendStrokePoint(wb.Pt(10, 10))
	e.CancelStroke()

	if e.Scene().PreviewLen() != 0 {
		t.Errorf("preview survived cancel")
	}
	if e.Gesture().Active() {
		t.Errorf("gesture still active after cancel")
	}
	if _, ok := e.EndStroke(); ok {
		t.Errorf("EndStroke committed a cancelled stroke")
	}
}

func TestNewStrokeForceCancelsPrevious(t *testing.T) {
	e, _ := New()
	e.BeginStroke(wb.Pt(0, 0), "#000", 1)
	e.AppendStrokePoint(wb.Pt(10, 10))
	e.BeginStroke(wb.Pt(100, 100), "#000", 1)

	if e.Scene().PreviewLen() != 1 {
		t.Errorf("PreviewLen = %d, want only the new stroke's node", e.Scene().PreviewLen())
	}
	if e.Gesture().Name() != "draw" {
		t.Errorf("active gesture = %q", e.Gesture().Name())
	}
}

func TestShortcutSuppressionDuringEdit(t *testing.T) {
	e, _ := New()
	txt := store.NewText(wb.R(0, 0, 80, 24), "hi")
	e.Store().AddElement(txt)

	if e.ShortcutsSuppressed() {
		t.Fatalf("shortcuts suppressed while idle")
	}
	e.Overlay().BeginEdit(txt.ID())
	if !e.ShortcutsSuppressed() {
		t.Errorf("shortcuts not suppressed during edit")
	}
	// The canvas text hides while the overlay editor owns it.
	if !e.Scene().Node(txt.ID()).Hidden {
		t.Errorf("canvas text visible during edit")
	}
	e.Overlay().Commit()
	if e.ShortcutsSuppressed() {
		t.Errorf("shortcuts still suppressed after commit")
	}
	if e.Scene().Node(txt.ID()).Hidden {
		t.Errorf("canvas text still hidden after commit")
	}
}
