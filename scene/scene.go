package scene

import (
	"slices"

	"github.com/gogpu/wb"
	"github.com/gogpu/wb/spatial"
	"github.com/gogpu/wb/store"
)

// SyncStats counts the node operations performed by one Sync call.
type SyncStats struct {
	Creates int
	Updates int
	Removes int
}

// Stats is the scene's cumulative operation count.
type Stats struct {
	Creates uint64
	Updates uint64
	Removes uint64
	// Draws counts surface redraws actually flushed, at most one per
	// surface per frame.
	Draws uint64
}

// Scene reconciles store snapshots against the retained node graph. It is
// the sole owner of element and edge nodes and keeps the spatial index in
// step with node frames. Single-threaded, like the store that feeds it.
type Scene struct {
	pool      *NodePool
	index     *spatial.Index
	scheduler FrameScheduler

	nodes     map[wb.ElementID]*Node
	edgeNodes map[wb.EdgeID]*Node
	previews  []*Node

	last   store.Snapshot
	synced bool

	editing wb.ElementID

	dirty        [NumSurfaces]bool
	framePending bool
	stats        Stats

	// OnElementMoved fires during Sync for every element whose frame
	// changed, before the frame's draw. The connector engine hooks this to
	// mark referencing edges dirty.
	OnElementMoved func(id wb.ElementID)
	// OnSelectionChanged fires during Sync when the selection differs from
	// the previously synced one. The transform controller hooks this to
	// move its handles.
	OnSelectionChanged func(sel store.Selection)

	onDraw func(Surface)
}

// Option configures a Scene.
type Option func(*Scene)

// WithScheduler injects the host's animation-frame scheduler.
func WithScheduler(s FrameScheduler) Option {
	return func(sc *Scene) {
		if s != nil {
			sc.scheduler = s
		}
	}
}

// WithIndex makes the scene maintain an externally owned spatial index.
func WithIndex(ix *spatial.Index) Option {
	return func(sc *Scene) {
		if ix != nil {
			sc.index = ix
		}
	}
}

// WithDrawFunc registers the host callback invoked once per dirty surface
// per frame.
func WithDrawFunc(fn func(Surface)) Option {
	return func(sc *Scene) { sc.onDraw = fn }
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		pool:      NewNodePool(),
		index:     spatial.New(),
		scheduler: immediateScheduler{},
		nodes:     map[wb.ElementID]*Node{},
		edgeNodes: map[wb.EdgeID]*Node{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index returns the spatial index the scene maintains.
func (s *Scene) Index() *spatial.Index { return s.index }

// Pool returns the scene's node pool.
func (s *Scene) Pool() *NodePool { return s.pool }

// Node returns the retained node for an element, or nil.
func (s *Scene) Node(id wb.ElementID) *Node { return s.nodes[id] }

// EdgeNode returns the retained node for an edge, or nil.
func (s *Scene) EdgeNode(id wb.EdgeID) *Node { return s.edgeNodes[id] }

// Len returns the number of retained element nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Stats returns cumulative operation counts.
func (s *Scene) Stats() Stats { return s.stats }

// Sync reconciles the snapshot against the retained node graph: minimal
// creates, updates, and removals versus the previously synced snapshot.
// Re-syncing an unchanged snapshot version is a no-op. Untouched elements
// are skipped by pointer equality, which the store's copy-on-write
// mutators guarantee is sound.
func (s *Scene) Sync(snap store.Snapshot) SyncStats {
	if s.synced && snap.Version == s.last.Version {
		return SyncStats{}
	}
	var st SyncStats

	for _, id := range snap.Order {
		el, ok := snap.Elements[id]
		if !ok {
			continue
		}
		n, live := s.nodes[id]
		if !live {
			n = s.pool.Acquire(el.Kind())
			n.ID = id
			n.Surface = SurfaceMain
			s.populate(n, el)
			s.nodes[id] = n
			s.index.Insert(id, el.Frame())
			st.Creates++
			continue
		}
		prev := s.last.Elements[id]
		if prev == el {
			continue
		}
		moved := prev == nil || prev.Frame() != el.Frame()
		s.populate(n, el)
		s.index.Update(id, el.Frame())
		st.Updates++
		if moved && s.OnElementMoved != nil {
			s.OnElementMoved(id)
		}
	}
	for id, n := range s.nodes {
		if _, ok := snap.Elements[id]; ok {
			continue
		}
		s.index.Remove(id)
		delete(s.nodes, id)
		s.pool.Release(n)
		st.Removes++
	}

	// Z-order changes leave element pointers intact, so handle them
	// separately: restamp the index bottom to top so point-query
	// tie-breaks keep matching what the user sees on top.
	if s.synced && st.Creates == 0 && st.Removes == 0 && !slices.Equal(snap.Order, s.last.Order) {
		for _, id := range snap.Order {
			s.index.Raise(id)
		}
		s.Invalidate(SurfaceMain)
	}

	st = s.syncEdges(snap, st)

	if !s.synced || !snap.Selection.Equal(s.last.Selection) {
		if s.OnSelectionChanged != nil {
			s.OnSelectionChanged(snap.Selection)
		}
		s.Invalidate(SurfaceOverlay)
	}
	if st.Creates+st.Updates+st.Removes > 0 {
		s.Invalidate(SurfaceMain)
	}

	s.last = snap
	s.synced = true
	s.stats.Creates += uint64(st.Creates)
	s.stats.Updates += uint64(st.Updates)
	s.stats.Removes += uint64(st.Removes)
	if st.Creates+st.Updates+st.Removes > 0 {
		wb.Logger().Debug("scene sync",
			"version", snap.Version,
			"creates", st.Creates, "updates", st.Updates, "removes", st.Removes)
	}
	return st
}

func (s *Scene) syncEdges(snap store.Snapshot, st SyncStats) SyncStats {
	for eid, e := range snap.Edges {
		n, live := s.edgeNodes[eid]
		if !live {
			n = s.pool.Acquire(store.KindConnector)
			n.EdgeID = eid
			n.Surface = SurfaceMain
			populateEdge(n, e)
			s.edgeNodes[eid] = n
			st.Creates++
			continue
		}
		if prev, ok := s.last.Edges[eid]; ok && edgeEqual(prev, e) {
			continue
		}
		populateEdge(n, e)
		st.Updates++
	}
	for eid, n := range s.edgeNodes {
		if _, ok := snap.Edges[eid]; ok {
			continue
		}
		delete(s.edgeNodes, eid)
		s.pool.Release(n)
		st.Removes++
	}
	return st
}

// populate copies element state onto its node. The switch is exhaustive
// over the element union.
func (s *Scene) populate(n *Node, el store.Element) {
	n.Kind = el.Kind()
	n.Frame = el.Frame()
	n.Hidden = el.ID() == s.editing

	switch e := el.(type) {
	case *store.Rectangle:
		n.Rotation = e.Rotation
		n.Fill, n.Stroke, n.StrokeWidth = e.Fill, e.Stroke, e.StrokeWidth
	case *store.Circle:
		n.Rotation = e.Rotation
		n.Fill, n.Stroke, n.StrokeWidth = e.Fill, e.Stroke, e.StrokeWidth
	case *store.Text:
		n.Rotation = e.Rotation
		n.Text, n.FontSize, n.TextColor = e.Text, e.FontSize, e.Color
		n.Class = ClassEditableText
	case *store.Sticky:
		n.Rotation = e.Rotation
		n.Text, n.Fill = e.Text, e.Color
		n.Class = ClassEditableText
	case *store.Image:
		n.Rotation = e.Rotation
		n.Src = e.Src
	case *store.Table:
		n.Rows, n.Cols = e.Rows, e.Cols
		n.Cells = append(n.Cells[:0], e.Cells...)
		n.Class = ClassEditableText
	case *store.Stroke:
		n.setPoints(e.Points)
		n.Stroke, n.StrokeWidth = e.Color, e.StrokeWidth
	case *store.Connector:
		n.setPoints(e.Points)
		n.Stroke, n.StrokeWidth = e.Color, e.StrokeWidth
	}
}

func populateEdge(n *Node, e store.Edge) {
	n.setPoints(e.Points)
	n.Text = e.Label
}

// edgeEqual reports whether two edge values render identically. Edges are
// stored by value, so change detection is structural.
func edgeEqual(a, b store.Edge) bool {
	if a.Source != b.Source || a.Target != b.Target || a.Label != b.Label {
		return false
	}
	if (a.FreePoint == nil) != (b.FreePoint == nil) {
		return false
	}
	if a.FreePoint != nil && *a.FreePoint != *b.FreePoint {
		return false
	}
	return slices.Equal(a.Points, b.Points)
}

// SetEditingElement hides the canvas text of the element being edited in
// the overlay, or unhides everything when id is empty.
func (s *Scene) SetEditingElement(id wb.ElementID) {
	if prev, ok := s.nodes[s.editing]; ok {
		prev.Hidden = false
	}
	s.editing = id
	if n, ok := s.nodes[id]; ok {
		n.Hidden = true
	}
	s.Invalidate(SurfaceMain)
}

// AcquirePreview acquires a pooled node on the preview surface. The scene
// tracks it so ClearPreview can recycle everything a gesture produced.
func (s *Scene) AcquirePreview(kind store.Kind) *Node {
	n := s.pool.Acquire(kind)
	n.Surface = SurfacePreview
	s.previews = append(s.previews, n)
	s.Invalidate(SurfacePreview)
	return n
}

// ReleasePreview recycles one preview node, leaving any other gesture's
// preview nodes alone. Releasing a node the scene does not track is a
// no-op.
func (s *Scene) ReleasePreview(n *Node) {
	i := slices.Index(s.previews, n)
	if i < 0 {
		return
	}
	s.previews = slices.Delete(s.previews, i, i+1)
	s.pool.Release(n)
	s.Invalidate(SurfacePreview)
}

// ClearPreview releases all preview nodes back to the pool, ending the
// gesture's transient feedback.
func (s *Scene) ClearPreview() {
	for _, n := range s.previews {
		s.pool.Release(n)
	}
	s.previews = s.previews[:0]
	s.Invalidate(SurfacePreview)
}

// PreviewLen returns the number of live preview nodes.
func (s *Scene) PreviewLen() int { return len(s.previews) }

// Invalidate marks a surface dirty and schedules one frame callback. All
// surfaces dirtied before the frame flush share that single callback.
func (s *Scene) Invalidate(surface Surface) {
	if surface >= NumSurfaces {
		return
	}
	s.dirty[surface] = true
	if s.framePending {
		return
	}
	s.framePending = true
	s.scheduler.Schedule(s.flushFrame)
}

func (s *Scene) flushFrame() {
	s.framePending = false
	for i := Surface(0); i < NumSurfaces; i++ {
		if !s.dirty[i] {
			continue
		}
		s.dirty[i] = false
		s.stats.Draws++
		if s.onDraw != nil {
			s.onDraw(i)
		}
	}
}
