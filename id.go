package wb

import "github.com/google/uuid"

// ElementID identifies a canvas element. IDs are opaque, unique within a
// session, and never reused after deletion. The distinct type keeps
// element and edge identifiers from being mixed with each other or with
// plain strings.
type ElementID string

// EdgeID identifies a connector edge between two elements.
type EdgeID string

// NewElementID returns a fresh element identifier.
func NewElementID() ElementID {
	return ElementID(uuid.NewString())
}

// NewEdgeID returns a fresh edge identifier.
func NewEdgeID() EdgeID {
	return EdgeID(uuid.NewString())
}
