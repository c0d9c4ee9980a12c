// Package store holds the canonical, serializable state of one whiteboard
// canvas: elements, edges, selection, viewport, and a bounded undo/redo
// history.
//
// Every mutator replaces the internal maps and slices instead of mutating
// them in place, so a Snapshot taken at any moment stays valid forever and
// downstream consumers (scene sync, connector reflow) detect change by
// reference equality rather than deep comparison.
//
// The store is single-threaded: it is owned by the UI event loop and all
// mutations run to completion before the next event. Operations
// that target missing ids are silent no-ops logged at Warn, because UI
// events can race with deletions; no mutator can leave the store partially
// updated.
package store

import (
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/wb"
)

// DefaultHistoryLimit is the undo depth used when no option overrides it.
const DefaultHistoryLimit = 256

// Snapshot is an immutable view of the full canvas state at one instant.
// It contains only plain data, never graphical node references, and is
// safe to hand to persistence or to hold across frames.
type Snapshot struct {
	Version   uint64
	Elements  map[wb.ElementID]Element
	Order     []wb.ElementID
	Edges     map[wb.EdgeID]Edge
	Selection Selection
	Viewport  wb.Viewport
}

// Get returns the element with the given id, if present.
func (s Snapshot) Get(id wb.ElementID) (Element, bool) {
	el, ok := s.Elements[id]
	return el, ok
}

// Edge returns the edge with the given id, if present.
func (s Snapshot) Edge(id wb.EdgeID) (Edge, bool) {
	e, ok := s.Edges[id]
	return e, ok
}

// Store is the element store. Create one with New; the zero value is not
// usable.
type Store struct {
	version   uint64
	elements  map[wb.ElementID]Element
	order     []wb.ElementID
	edges     map[wb.EdgeID]Edge
	selection Selection
	viewport  wb.Viewport

	undo *historyRing
	redo []historyEntry
	// committed is the state as of the last recorded action. Recorded
	// mutations push it, so an entry always captures a gesture's net
	// effect: transient (skip-history) updates in between never leak
	// into undo.
	committed historyEntry

	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Store.
type Option func(*options)

type options struct {
	historyLimit int
}

// WithHistoryLimit sets the maximum number of undoable actions. When the
// limit is exceeded the oldest entry is silently evicted.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyLimit = n
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := options{historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store{
		elements: map[wb.ElementID]Element{},
		edges:    map[wb.EdgeID]Edge{},
		viewport: wb.DefaultViewport(0, 0),
		undo:     newHistoryRing(o.historyLimit),
		subs:     map[int]func(Snapshot){},
	}
	s.committed = s.capture()
	return s
}

// MutateOption modifies how a single mutation is recorded.
type MutateOption func(*mutateOptions)

type mutateOptions struct {
	skipHistory bool
}

// SkipHistory suppresses the history entry for this mutation. Use it for
// high-frequency intermediate updates (pointer-move during a drag, typing
// during an edit); the call that finalizes the gesture commits without it
// so the whole gesture lands as one undoable action. The mutation itself
// is never suppressed: the store is immediately consistent for readers.
func SkipHistory() MutateOption {
	return func(o *mutateOptions) { o.skipHistory = true }
}

func mutateOpts(opts []MutateOption) mutateOptions {
	var o mutateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Snapshot returns the current state. The returned maps and slices are
// never mutated by the store afterwards.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Version:   s.version,
		Elements:  s.elements,
		Order:     s.order,
		Edges:     s.edges,
		Selection: s.selection,
		Viewport:  s.viewport,
	}
}

// Subscribe registers fn to be called synchronously after every mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// CanUndo reports whether an undo step is available.
func (s *Store) CanUndo() bool { return s.undo.len() > 0 }

// CanRedo reports whether a redo step is available.
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// capture records the current state as a history entry.
func (s *Store) capture() historyEntry {
	return historyEntry{
		elements:  s.elements,
		order:     s.order,
		selection: s.selection,
		edges:     s.edges,
	}
}

// finish commits a mutation: records history (unless skipped or nothing
// changed), bumps the version, and notifies subscribers. A recorded
// mutation pushes the last committed state, so undo lands on the previous
// commit point even if transient updates happened in between.
func (s *Store) finish(changed, record bool) Snapshot {
	if !changed {
		return s.Snapshot()
	}
	if record {
		s.undo.push(s.committed)
		s.redo = s.redo[:0]
		s.committed = s.capture()
	}
	s.version++
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
	return snap
}

func (s *Store) cloneElements() map[wb.ElementID]Element {
	m := make(map[wb.ElementID]Element, len(s.elements)+1)
	for id, el := range s.elements {
		m[id] = el
	}
	return m
}

func (s *Store) cloneEdges() map[wb.EdgeID]Edge {
	m := make(map[wb.EdgeID]Edge, len(s.edges)+1)
	for id, e := range s.edges {
		m[id] = e
	}
	return m
}

// AddElement inserts an element. A missing id is assigned; an id collision
// is a stale-reference no-op. If the element names a SectionID, the parent
// must be an existing container or the reference is cleared.
func (s *Store) AddElement(el Element, opts ...MutateOption) Snapshot {
	if el == nil {
		return s.Snapshot()
	}
	o := mutateOpts(opts)
	el = el.clone()
	b := el.base()
	if b.ElementID == "" {
		b.ElementID = wb.NewElementID()
	}
	if _, exists := s.elements[b.ElementID]; exists {
		wb.Logger().Warn("store: add ignored, id already present", "id", b.ElementID)
		return s.Snapshot()
	}
	b.setFrame(b.Frame())

	m := s.cloneElements()
	if b.SectionID != "" {
		parent := s.containerOf(b.SectionID)
		if parent == nil {
			wb.Logger().Warn("store: dropping dangling sectionId", "id", b.ElementID, "sectionId", b.SectionID)
			b.SectionID = ""
		} else {
			m[parent.ID()] = withChild(parent, b.ElementID)
		}
	}
	m[b.ElementID] = el
	s.elements = m
	s.order = append(slices.Clone(s.order), b.ElementID)
	return s.finish(true, !o.skipHistory)
}

// containerOf returns the element as a sticky container, or nil.
func (s *Store) containerOf(id wb.ElementID) *Sticky {
	el, ok := s.elements[id]
	if !ok {
		return nil
	}
	st, ok := el.(*Sticky)
	if !ok || !st.IsContainer {
		return nil
	}
	return st
}

// withChild returns a clone of the container with the child id appended to
// its index (if not already present).
func withChild(parent *Sticky, child wb.ElementID) Element {
	if slices.Contains(parent.ChildElementIDs, child) {
		return parent
	}
	c := parent.clone().(*Sticky)
	c.ChildElementIDs = append(c.ChildElementIDs, child)
	return c
}

// withoutChild returns a clone of the container with the child id removed
// from its index.
func withoutChild(parent *Sticky, child wb.ElementID) Element {
	i := slices.Index(parent.ChildElementIDs, child)
	if i < 0 {
		return parent
	}
	c := parent.clone().(*Sticky)
	c.ChildElementIDs = slices.Delete(c.ChildElementIDs, i, i+1)
	if len(c.ChildElementIDs) == 0 {
		c.ChildElementIDs = nil
	}
	return c
}

// UpdateElement applies a partial update to one element. Targeting a
// missing id is a no-op.
func (s *Store) UpdateElement(id wb.ElementID, p Patch, opts ...MutateOption) Snapshot {
	return s.BatchUpdate([]Update{{ID: id, Patch: p}}, opts...)
}

// Update pairs an element id with its patch for BatchUpdate.
type Update struct {
	ID    wb.ElementID
	Patch Patch
}

// BatchUpdate applies several partial updates as one atomic action with a
// single history entry. Stale ids inside the batch are skipped.
func (s *Store) BatchUpdate(updates []Update, opts ...MutateOption) Snapshot {
	o := mutateOpts(opts)
	var m map[wb.ElementID]Element
	for _, u := range updates {
		old, ok := s.elements[u.ID]
		if m != nil {
			old, ok = m[u.ID]
		}
		if !ok {
			wb.Logger().Warn("store: update ignored, unknown element", "id", u.ID)
			continue
		}
		if m == nil {
			m = s.cloneElements()
		}
		next := applyPatch(old, u.Patch)
		m[u.ID] = next

		// Keep container child indexes in sync with SectionID changes.
		oldParent := old.base().SectionID
		newParent := next.base().SectionID
		if oldParent != newParent {
			if p, ok := m[oldParent].(*Sticky); ok && p.IsContainer {
				m[oldParent] = withoutChild(p, u.ID)
			}
			if newParent != "" {
				p, ok := m[newParent].(*Sticky)
				if !ok || !p.IsContainer {
					wb.Logger().Warn("store: dropping dangling sectionId", "id", u.ID, "sectionId", newParent)
					next.base().SectionID = ""
				} else {
					m[newParent] = withChild(p, u.ID)
				}
			}
		}
	}
	if m == nil {
		return s.Snapshot()
	}
	s.elements = m
	return s.finish(true, !o.skipHistory)
}

// MoveBy translates the given elements (and every other member of any
// group they belong to) by the same delta as one atomic action.
func (s *Store) MoveBy(ids []wb.ElementID, dx, dy float64, opts ...MutateOption) Snapshot {
	expanded := s.ExpandGroups(ids)
	updates := make([]Update, 0, len(expanded))
	for _, id := range expanded {
		el, ok := s.elements[id]
		if !ok {
			continue
		}
		updates = append(updates, Update{ID: id, Patch: TranslatePatch(el, dx, dy)})
	}
	if len(updates) == 0 {
		return s.Snapshot()
	}
	return s.BatchUpdate(updates, opts...)
}

// DeleteElement removes an element atomically with all its side effects:
// edges referencing it are deleted, its children (if it is a container)
// are detached rather than cascaded, its own parent's child index is
// trimmed, and it leaves the selection and z-order.
func (s *Store) DeleteElement(id wb.ElementID, opts ...MutateOption) Snapshot {
	o := mutateOpts(opts)
	el, ok := s.elements[id]
	if !ok {
		wb.Logger().Warn("store: delete ignored, unknown element", "id", id)
		return s.Snapshot()
	}
	m := s.cloneElements()
	delete(m, id)

	// Detach children: they survive as free elements.
	if st, isSticky := el.(*Sticky); isSticky && st.IsContainer {
		for _, child := range st.ChildElementIDs {
			if c, ok := m[child]; ok && c.base().SectionID == id {
				cc := c.clone()
				cc.base().SectionID = ""
				m[child] = cc
			}
		}
	}
	// Trim the parent's child index.
	if parentID := el.base().SectionID; parentID != "" {
		if p, ok := m[parentID].(*Sticky); ok {
			m[parentID] = withoutChild(p, id)
		}
	}
	s.elements = m

	// Sever edges bound to the element.
	var edges map[wb.EdgeID]Edge
	for eid, e := range s.edges {
		if !e.References(id) {
			continue
		}
		if edges == nil {
			edges = s.cloneEdges()
		}
		delete(edges, eid)
		if s.selection.Edge == eid {
			s.selection = Selection{Elements: s.selection.Elements}
		}
	}
	if edges != nil {
		s.edges = edges
	}

	order := make([]wb.ElementID, 0, len(s.order))
	for _, oid := range s.order {
		if oid != id {
			order = append(order, oid)
		}
	}
	s.order = order
	s.selection = s.selection.without(id)

	return s.finish(true, !o.skipHistory)
}

// AddEdge inserts an anchor-bound edge. Both endpoints must reference live
// elements (or a free point); otherwise the call is a no-op.
func (s *Store) AddEdge(e Edge, opts ...MutateOption) Snapshot {
	o := mutateOpts(opts)
	if _, ok := s.elements[e.Source.Element]; !ok {
		wb.Logger().Warn("store: edge ignored, unknown source", "edge", e.ID, "source", e.Source.Element)
		return s.Snapshot()
	}
	if e.FreePoint == nil {
		if _, ok := s.elements[e.Target.Element]; !ok {
			wb.Logger().Warn("store: edge ignored, unknown target", "edge", e.ID, "target", e.Target.Element)
			return s.Snapshot()
		}
	}
	e = e.clone()
	if e.ID == "" {
		e.ID = wb.NewEdgeID()
	}
	if _, exists := s.edges[e.ID]; exists {
		wb.Logger().Warn("store: edge ignored, id already present", "edge", e.ID)
		return s.Snapshot()
	}
	m := s.cloneEdges()
	m[e.ID] = e
	s.edges = m
	return s.finish(true, !o.skipHistory)
}

// DeleteEdge removes an edge. Missing ids are a no-op.
func (s *Store) DeleteEdge(id wb.EdgeID, opts ...MutateOption) Snapshot {
	o := mutateOpts(opts)
	if _, ok := s.edges[id]; !ok {
		wb.Logger().Warn("store: delete ignored, unknown edge", "edge", id)
		return s.Snapshot()
	}
	m := s.cloneEdges()
	delete(m, id)
	s.edges = m
	if s.selection.Edge == id {
		s.selection = Selection{Elements: s.selection.Elements}
	}
	return s.finish(true, !o.skipHistory)
}

// SetEdgeLabel updates an edge's label.
func (s *Store) SetEdgeLabel(id wb.EdgeID, label string, opts ...MutateOption) Snapshot {
	o := mutateOpts(opts)
	e, ok := s.edges[id]
	if !ok {
		wb.Logger().Warn("store: label ignored, unknown edge", "edge", id)
		return s.Snapshot()
	}
	if e.Label == label {
		return s.Snapshot()
	}
	e = e.clone()
	e.Label = label
	m := s.cloneEdges()
	m[id] = e
	s.edges = m
	return s.finish(true, !o.skipHistory)
}

// SetEdgePoints replaces the cached routed points of the given edges in
// one batch. Points are a derived cache, so this never records history.
func (s *Store) SetEdgePoints(points map[wb.EdgeID][]float64) Snapshot {
	var m map[wb.EdgeID]Edge
	for id, pts := range points {
		e, ok := s.edges[id]
		if !ok {
			wb.Logger().Warn("store: reflow ignored, unknown edge", "edge", id)
			continue
		}
		if m == nil {
			m = s.cloneEdges()
		}
		e = e.clone()
		e.Points = append([]float64(nil), pts...)
		m[id] = e
	}
	if m == nil {
		return s.Snapshot()
	}
	s.edges = m
	return s.finish(true, false)
}

// SetSelection replaces the selection. Ids that no longer exist are
// dropped. Selection changes are never history entries.
func (s *Store) SetSelection(sel Selection) Snapshot {
	live := make([]wb.ElementID, 0, len(sel.Elements))
	for _, id := range sel.Elements {
		if _, ok := s.elements[id]; ok {
			live = append(live, id)
		}
	}
	next := Select(live...)
	if sel.Edge != "" {
		if _, ok := s.edges[sel.Edge]; ok {
			next.Edge = sel.Edge
		}
	}
	if next.Equal(s.selection) {
		return s.Snapshot()
	}
	s.selection = next
	return s.finish(true, false)
}

// SetViewport replaces the viewport, clamping scale. Never recorded in
// history.
func (s *Store) SetViewport(v wb.Viewport) Snapshot {
	v = v.Clamped()
	if v == s.viewport {
		return s.Snapshot()
	}
	s.viewport = v
	return s.finish(true, false)
}

// Undo reverts the most recent committed action. With no history it is a
// no-op.
func (s *Store) Undo() Snapshot {
	entry, ok := s.undo.pop()
	if !ok {
		return s.Snapshot()
	}
	s.redo = append(s.redo, s.capture())
	s.restore(entry)
	return s.Snapshot()
}

// Redo reapplies the most recently undone action. With nothing undone it
// is a no-op.
func (s *Store) Redo() Snapshot {
	if len(s.redo) == 0 {
		return s.Snapshot()
	}
	entry := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo.push(s.capture())
	s.restore(entry)
	return s.Snapshot()
}

func (s *Store) restore(e historyEntry) {
	s.elements = e.elements
	s.order = e.order
	s.selection = e.selection
	s.edges = e.edges
	s.committed = e
	s.version++
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// BringToFront moves the element to the top of the z-order.
func (s *Store) BringToFront(id wb.ElementID, opts ...MutateOption) Snapshot {
	return s.reorder(id, true, opts)
}

// SendToBack moves the element to the bottom of the z-order.
func (s *Store) SendToBack(id wb.ElementID, opts ...MutateOption) Snapshot {
	return s.reorder(id, false, opts)
}

func (s *Store) reorder(id wb.ElementID, front bool, opts []MutateOption) Snapshot {
	o := mutateOpts(opts)
	i := slices.Index(s.order, id)
	if i < 0 {
		wb.Logger().Warn("store: reorder ignored, unknown element", "id", id)
		return s.Snapshot()
	}
	if (front && i == len(s.order)-1) || (!front && i == 0) {
		return s.Snapshot()
	}
	order := make([]wb.ElementID, 0, len(s.order))
	if !front {
		order = append(order, id)
	}
	for _, oid := range s.order {
		if oid != id {
			order = append(order, oid)
		}
	}
	if front {
		order = append(order, id)
	}
	s.order = order
	return s.finish(true, !o.skipHistory)
}

// Group assigns a fresh group id to the given elements so they move as a
// unit. Returns the group id, or "" if fewer than two live elements were
// given.
func (s *Store) Group(ids []wb.ElementID, opts ...MutateOption) (string, Snapshot) {
	live := make([]wb.ElementID, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.elements[id]; ok {
			live = append(live, id)
		}
	}
	if len(live) < 2 {
		return "", s.Snapshot()
	}
	gid := uuid.NewString()
	updates := make([]Update, len(live))
	for i, id := range live {
		updates[i] = Update{ID: id, Patch: Patch{GroupID: Str(gid)}}
	}
	return gid, s.BatchUpdate(updates, opts...)
}

// Ungroup clears the group id from every member of the group.
func (s *Store) Ungroup(groupID string, opts ...MutateOption) Snapshot {
	if groupID == "" {
		return s.Snapshot()
	}
	var updates []Update
	for id, el := range s.elements {
		if el.base().GroupID == groupID {
			updates = append(updates, Update{ID: id, Patch: Patch{GroupID: Str("")}})
		}
	}
	if len(updates) == 0 {
		return s.Snapshot()
	}
	return s.BatchUpdate(updates, opts...)
}

// GroupMembers returns the ids of every element in the group, in z-order.
func (s *Store) GroupMembers(groupID string) []wb.ElementID {
	if groupID == "" {
		return nil
	}
	var out []wb.ElementID
	for _, id := range s.order {
		if el, ok := s.elements[id]; ok && el.base().GroupID == groupID {
			out = append(out, id)
		}
	}
	return out
}

// ExpandGroups returns ids plus every other member of any group the ids
// touch, deduplicated, in z-order.
func (s *Store) ExpandGroups(ids []wb.ElementID) []wb.ElementID {
	want := make(map[wb.ElementID]bool, len(ids))
	groups := map[string]bool{}
	for _, id := range ids {
		el, ok := s.elements[id]
		if !ok {
			continue
		}
		want[id] = true
		if gid := el.base().GroupID; gid != "" {
			groups[gid] = true
		}
	}
	for id, el := range s.elements {
		if groups[el.base().GroupID] && el.base().GroupID != "" {
			want[id] = true
		}
	}
	out := make([]wb.ElementID, 0, len(want))
	for _, id := range s.order {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}

// duplicateOffset is how far duplicates are shifted so they don't land
// exactly on top of their originals.
const duplicateOffset = 16

// Duplicate clones the given elements (fresh ids, offset by a fixed
// amount) along with any edges that connect two duplicated elements, as
// one atomic action. Group ids are remapped so duplicates form their own
// groups. The duplicates become the new selection. Returns the new ids in
// z-order.
func (s *Store) Duplicate(ids []wb.ElementID, opts ...MutateOption) ([]wb.ElementID, Snapshot) {
	o := mutateOpts(opts)

	srcIDs := make([]wb.ElementID, 0, len(ids))
	for _, id := range s.order {
		if slices.Contains(ids, id) {
			if _, ok := s.elements[id]; ok {
				srcIDs = append(srcIDs, id)
			}
		}
	}
	if len(srcIDs) == 0 {
		return nil, s.Snapshot()
	}
	idMap := make(map[wb.ElementID]wb.ElementID, len(srcIDs))
	for _, id := range srcIDs {
		idMap[id] = wb.NewElementID()
	}
	groupMap := map[string]string{}

	m := s.cloneElements()
	order := slices.Clone(s.order)
	newIDs := make([]wb.ElementID, 0, len(srcIDs))

	for _, id := range srcIDs {
		c := s.elements[id].clone()
		b := c.base()
		b.ElementID = idMap[id]
		b.X += duplicateOffset
		b.Y += duplicateOffset
		if b.GroupID != "" {
			ng, ok := groupMap[b.GroupID]
			if !ok {
				ng = uuid.NewString()
				groupMap[b.GroupID] = ng
			}
			b.GroupID = ng
		}
		if b.SectionID != "" {
			if np, ok := idMap[b.SectionID]; ok {
				b.SectionID = np
			} else {
				b.SectionID = ""
			}
		}
		if st, ok := c.(*Sticky); ok && st.ChildElementIDs != nil {
			var kids []wb.ElementID
			for _, kid := range st.ChildElementIDs {
				if nk, ok := idMap[kid]; ok {
					kids = append(kids, nk)
				}
			}
			st.ChildElementIDs = kids
		}
		m[b.ElementID] = c
		order = append(order, b.ElementID)
		newIDs = append(newIDs, b.ElementID)
	}

	var edges map[wb.EdgeID]Edge
	for _, e := range s.edges {
		ns, okS := idMap[e.Source.Element]
		nt, okT := idMap[e.Target.Element]
		if !okS || (e.FreePoint == nil && !okT) {
			continue
		}
		ne := e.clone()
		ne.ID = wb.NewEdgeID()
		ne.Source.Element = ns
		if e.FreePoint == nil {
			ne.Target.Element = nt
		}
		ne.Points = nil
		if edges == nil {
			edges = s.cloneEdges()
		}
		edges[ne.ID] = ne
	}

	s.elements = m
	s.order = order
	if edges != nil {
		s.edges = edges
	}
	s.selection = Select(newIDs...)
	s.finish(true, !o.skipHistory)
	return newIDs, s.Snapshot()
}

// Hydrate replaces the entire store state from a deserialized snapshot,
// validating references: dangling section ids are cleared, edges with
// missing endpoints dropped, and the z-order rebuilt to cover exactly the
// live element set. History is cleared.
func (s *Store) Hydrate(snap Snapshot) Snapshot {
	elements := make(map[wb.ElementID]Element, len(snap.Elements))
	for id, el := range snap.Elements {
		if el == nil || id == "" {
			continue
		}
		c := el.clone()
		b := c.base()
		b.ElementID = id
		b.setFrame(b.Frame())
		elements[id] = c
	}
	// Clear dangling parent references after the full set is known.
	for id, el := range elements {
		sid := el.base().SectionID
		if sid == "" {
			continue
		}
		parent, ok := elements[sid].(*Sticky)
		if !ok || !parent.IsContainer {
			wb.Logger().Warn("store: hydrate dropped dangling sectionId", "id", id, "sectionId", sid)
			c := el.clone()
			c.base().SectionID = ""
			elements[id] = c
		}
	}

	edges := make(map[wb.EdgeID]Edge, len(snap.Edges))
	for id, e := range snap.Edges {
		if _, ok := elements[e.Source.Element]; !ok {
			wb.Logger().Warn("store: hydrate dropped edge, unknown source", "edge", id)
			continue
		}
		if e.FreePoint == nil {
			if _, ok := elements[e.Target.Element]; !ok {
				wb.Logger().Warn("store: hydrate dropped edge, unknown target", "edge", id)
				continue
			}
		}
		c := e.clone()
		c.ID = id
		edges[id] = c
	}

	order := make([]wb.ElementID, 0, len(elements))
	seen := make(map[wb.ElementID]bool, len(elements))
	for _, id := range snap.Order {
		if _, ok := elements[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for id := range elements {
		if !seen[id] {
			order = append(order, id)
		}
	}

	s.elements = elements
	s.order = order
	s.edges = edges
	s.selection = Selection{}
	s.viewport = snap.Viewport.Clamped()
	s.undo.clear()
	s.redo = s.redo[:0]
	s.committed = s.capture()
	s.version++

	wb.Logger().Info("store: hydrated", "elements", len(elements), "edges", len(edges))
	snapOut := s.Snapshot()
	for _, fn := range s.subs {
		fn(snapOut)
	}
	return snapOut
}
