package store

import (
	"slices"

	"github.com/gogpu/wb"
)

// Selection is the set of selected elements plus at most one selected
// edge. The zero value means nothing is selected; there is no distinct
// "null selection" state.
type Selection struct {
	Elements []wb.ElementID `json:"elements,omitempty"`
	Edge     wb.EdgeID      `json:"edge,omitempty"`
}

// Select builds a selection from element ids, deduplicated and sorted so
// that equal selections compare equal.
func Select(ids ...wb.ElementID) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	out := append([]wb.ElementID(nil), ids...)
	slices.Sort(out)
	out = slices.Compact(out)
	return Selection{Elements: out}
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Elements) == 0 && s.Edge == ""
}

// Contains reports whether the element is selected.
func (s Selection) Contains(id wb.ElementID) bool {
	_, ok := slices.BinarySearch(s.Elements, id)
	return ok
}

// Equal reports whether two selections select the same things.
func (s Selection) Equal(o Selection) bool {
	return s.Edge == o.Edge && slices.Equal(s.Elements, o.Elements)
}

// without returns the selection with the given element removed.
func (s Selection) without(id wb.ElementID) Selection {
	if !s.Contains(id) {
		return s
	}
	out := make([]wb.ElementID, 0, len(s.Elements)-1)
	for _, e := range s.Elements {
		if e != id {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	return Selection{Elements: out, Edge: s.Edge}
}
