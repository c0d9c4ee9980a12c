// Package spatial provides a uniform-grid spatial index over element
// bounding boxes, used for viewport culling and pointer hit-testing.
//
// The index is maintained incrementally: element mutations translate to
// Insert/Update/Remove calls and touch only the grid cells the element's
// bounds overlap. It is never rebuilt from scratch per frame.
//
// Like the rest of the engine, the index is single-threaded: it is owned
// by one canvas instance on the UI event loop and needs no locking.
package spatial

import (
	"math"
	"slices"

	"github.com/gogpu/wb"
)

// DefaultCellSize is the grid cell edge in world units. Whiteboard
// elements are typically tens to a few hundred units across, so one
// element touches a handful of cells at most.
const DefaultCellSize = 256

type cellKey struct {
	x, y int32
}

type entry struct {
	bounds wb.Rect
	// stamp orders point-query results: higher means more recently
	// inserted, raised, or moved, which is what the user sees on top.
	stamp uint64
}

// Index is a uniform-grid rectangle index mapping element bounds to ids.
type Index struct {
	cellSize float64
	cells    map[cellKey][]wb.ElementID
	entries  map[wb.ElementID]entry
	stamp    uint64
}

// Option configures an Index.
type Option func(*Index)

// WithCellSize overrides the grid cell size in world units.
func WithCellSize(size float64) Option {
	return func(ix *Index) {
		if size > 0 {
			ix.cellSize = size
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{
		cellSize: DefaultCellSize,
		cells:    map[cellKey][]wb.ElementID{},
		entries:  map[wb.ElementID]entry{},
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Len returns the number of indexed elements.
func (ix *Index) Len() int { return len(ix.entries) }

// Contains reports whether the id is indexed.
func (ix *Index) Contains(id wb.ElementID) bool {
	_, ok := ix.entries[id]
	return ok
}

// Bounds returns the indexed bounds for id.
func (ix *Index) Bounds(id wb.ElementID) (wb.Rect, bool) {
	e, ok := ix.entries[id]
	return e.bounds, ok
}

// Stamp returns the recency stamp for id. Higher stamps are visually on
// top; callers use it to break ties between overlapping candidates.
func (ix *Index) Stamp(id wb.ElementID) (uint64, bool) {
	e, ok := ix.entries[id]
	return e.stamp, ok
}

// Insert adds an element. Inserting an existing id updates it instead.
func (ix *Index) Insert(id wb.ElementID, bounds wb.Rect) {
	if _, ok := ix.entries[id]; ok {
		ix.Update(id, bounds)
		return
	}
	bounds = bounds.Sanitized()
	ix.stamp++
	ix.entries[id] = entry{bounds: bounds, stamp: ix.stamp}
	ix.eachCell(bounds, func(k cellKey) {
		ix.cells[k] = append(ix.cells[k], id)
	})
}

// Update moves an element's bounds and refreshes its recency stamp. Cells
// are only touched when the covered cell range actually changed.
// Updating an unknown id inserts it.
func (ix *Index) Update(id wb.ElementID, bounds wb.Rect) {
	old, ok := ix.entries[id]
	if !ok {
		ix.Insert(id, bounds)
		return
	}
	bounds = bounds.Sanitized()
	ix.stamp++
	if ix.sameCells(old.bounds, bounds) {
		ix.entries[id] = entry{bounds: bounds, stamp: ix.stamp}
		return
	}
	ix.eachCell(old.bounds, func(k cellKey) {
		ix.cells[k] = removeID(ix.cells[k], id)
		if len(ix.cells[k]) == 0 {
			delete(ix.cells, k)
		}
	})
	ix.entries[id] = entry{bounds: bounds, stamp: ix.stamp}
	ix.eachCell(bounds, func(k cellKey) {
		ix.cells[k] = append(ix.cells[k], id)
	})
}

// Raise refreshes the recency stamp without moving the element, so it
// wins subsequent point-query ties. Used when an element is brought to
// the front of the z-order.
func (ix *Index) Raise(id wb.ElementID) {
	e, ok := ix.entries[id]
	if !ok {
		return
	}
	ix.stamp++
	e.stamp = ix.stamp
	ix.entries[id] = e
}

// Remove deletes an element from the index. Unknown ids are a no-op.
func (ix *Index) Remove(id wb.ElementID) {
	e, ok := ix.entries[id]
	if !ok {
		return
	}
	ix.eachCell(e.bounds, func(k cellKey) {
		ix.cells[k] = removeID(ix.cells[k], id)
		if len(ix.cells[k]) == 0 {
			delete(ix.cells, k)
		}
	})
	delete(ix.entries, id)
}

// QueryRange returns the ids of all elements whose bounds intersect the
// query rectangle, in no particular order.
func (ix *Index) QueryRange(r wb.Rect) []wb.ElementID {
	r = r.Sanitized()
	var out []wb.ElementID
	seen := map[wb.ElementID]bool{}
	ix.eachCell(r, func(k cellKey) {
		for _, id := range ix.cells[k] {
			if seen[id] {
				continue
			}
			seen[id] = true
			if ix.entries[id].bounds.Intersects(r) {
				out = append(out, id)
			}
		}
	})
	return out
}

// QueryPoint returns the ids of all elements containing the point,
// topmost first (most recently inserted, raised, or moved wins).
func (ix *Index) QueryPoint(p wb.Point) []wb.ElementID {
	k := ix.cellAt(p)
	var out []wb.ElementID
	for _, id := range ix.cells[k] {
		if ix.entries[id].bounds.Contains(p) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, func(a, b wb.ElementID) int {
		sa, sb := ix.entries[a].stamp, ix.entries[b].stamp
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	return out
}

// All returns every indexed id, in no particular order.
func (ix *Index) All() []wb.ElementID {
	out := make([]wb.ElementID, 0, len(ix.entries))
	for id := range ix.entries {
		out = append(out, id)
	}
	return out
}

func (ix *Index) cellAt(p wb.Point) cellKey {
	return cellKey{
		x: int32(math.Floor(p.X / ix.cellSize)),
		y: int32(math.Floor(p.Y / ix.cellSize)),
	}
}

// cellRange returns the inclusive cell coordinate range covered by r.
// Zero-sized rects still cover the cell they sit in.
func (ix *Index) cellRange(r wb.Rect) (x0, y0, x1, y1 int32) {
	x0 = int32(math.Floor(r.X / ix.cellSize))
	y0 = int32(math.Floor(r.Y / ix.cellSize))
	x1 = int32(math.Floor(r.MaxX() / ix.cellSize))
	y1 = int32(math.Floor(r.MaxY() / ix.cellSize))
	return
}

func (ix *Index) sameCells(a, b wb.Rect) bool {
	ax0, ay0, ax1, ay1 := ix.cellRange(a)
	bx0, by0, bx1, by1 := ix.cellRange(b)
	return ax0 == bx0 && ay0 == by0 && ax1 == bx1 && ay1 == by1
}

func (ix *Index) eachCell(r wb.Rect, fn func(cellKey)) {
	x0, y0, x1, y1 := ix.cellRange(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(cellKey{x: x, y: y})
		}
	}
}

func removeID(ids []wb.ElementID, id wb.ElementID) []wb.ElementID {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
