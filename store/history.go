package store

import "github.com/gogpu/wb"

// historyEntry is the state captured before a committed action: the
// elements map, z-order, and selection. Maps and slices are shared by
// reference; the store never mutates them in place, so sharing is safe.
type historyEntry struct {
	elements  map[wb.ElementID]Element
	order     []wb.ElementID
	selection Selection
	// edges ride along so that undoing a delete restores the edges it
	// severed; the action was atomic, so its undo must be too.
	edges map[wb.EdgeID]Edge
}

// historyRing is a bounded ring buffer of history entries. Pushing onto a
// full ring silently evicts the oldest entry; popping an empty ring is the
// caller's no-op to handle.
type historyRing struct {
	buf  []historyEntry
	head int // index of the oldest entry
	n    int
}

func newHistoryRing(capacity int) *historyRing {
	if capacity < 1 {
		capacity = 1
	}
	return &historyRing{buf: make([]historyEntry, capacity)}
}

func (r *historyRing) len() int { return r.n }

func (r *historyRing) push(e historyEntry) {
	if r.n == len(r.buf) {
		// Full: overwrite the oldest.
		r.buf[r.head] = e
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.n)%len(r.buf)] = e
	r.n++
}

// pop removes and returns the newest entry.
func (r *historyRing) pop() (historyEntry, bool) {
	if r.n == 0 {
		return historyEntry{}, false
	}
	i := (r.head + r.n - 1) % len(r.buf)
	e := r.buf[i]
	r.buf[i] = historyEntry{}
	r.n--
	return e, true
}

func (r *historyRing) clear() {
	for i := range r.buf {
		r.buf[i] = historyEntry{}
	}
	r.head, r.n = 0, 0
}
