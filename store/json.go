package store

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/wb"
)

// FileVersion is the version tag written into serialized snapshots.
const FileVersion = 1

// envelope is the on-disk form of a snapshot. Elements carry a "kind"
// discriminator so the union round-trips without reflection tricks.
type envelope struct {
	Version  int               `json:"version"`
	Elements []json.RawMessage `json:"elements"`
	Order    []wb.ElementID    `json:"order"`
	Edges    []Edge            `json:"edges,omitempty"`
	Viewport wb.Viewport       `json:"viewport"`
}

// MarshalSnapshot serializes a snapshot to its JSON wire form. Elements
// are written in z-order; selection is session state and is not persisted.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	env := envelope{
		Version:  FileVersion,
		Order:    snap.Order,
		Viewport: snap.Viewport,
	}
	env.Elements = make([]json.RawMessage, 0, len(snap.Elements))
	for _, id := range snap.Order {
		el, ok := snap.Elements[id]
		if !ok {
			continue
		}
		raw, err := marshalElement(el)
		if err != nil {
			return nil, fmt.Errorf("marshal element %s: %w", id, err)
		}
		env.Elements = append(env.Elements, raw)
	}
	for _, e := range snap.Edges {
		env.Edges = append(env.Edges, e)
	}
	return json.Marshal(env)
}

// UnmarshalSnapshot parses the JSON wire form back into a snapshot
// suitable for Store.Hydrate. Elements of unknown kind are an error: a
// file from a newer version should fail loudly rather than load partially.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if env.Version > FileVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported %d", env.Version, FileVersion)
	}
	snap := Snapshot{
		Elements: make(map[wb.ElementID]Element, len(env.Elements)),
		Order:    env.Order,
		Edges:    make(map[wb.EdgeID]Edge, len(env.Edges)),
		Viewport: env.Viewport,
	}
	for i, raw := range env.Elements {
		el, err := unmarshalElement(raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("element %d: %w", i, err)
		}
		snap.Elements[el.ID()] = el
	}
	for _, e := range env.Edges {
		snap.Edges[e.ID] = e
	}
	return snap, nil
}

// marshalElement wraps the concrete element with its kind discriminator.
// The switch is exhaustive over the closed union.
func marshalElement(el Element) ([]byte, error) {
	kind := el.Kind().String()
	switch e := el.(type) {
	case *Rectangle:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Rectangle
		}{kind, e})
	case *Circle:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Circle
		}{kind, e})
	case *Text:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Text
		}{kind, e})
	case *Sticky:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Sticky
		}{kind, e})
	case *Image:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Image
		}{kind, e})
	case *Table:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Table
		}{kind, e})
	case *Stroke:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Stroke
		}{kind, e})
	case *Connector:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Connector
		}{kind, e})
	default:
		return nil, fmt.Errorf("unknown element type %T", el)
	}
}

// unmarshalElement reads the kind discriminator, then decodes into the
// matching concrete type.
func unmarshalElement(raw json.RawMessage) (Element, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	var el Element
	switch probe.Kind {
	case "rectangle":
		el = &Rectangle{}
	case "circle":
		el = &Circle{}
	case "text":
		el = &Text{}
	case "sticky":
		el = &Sticky{}
	case "image":
		el = &Image{}
	case "table":
		el = &Table{}
	case "stroke":
		el = &Stroke{}
	case "connector":
		el = &Connector{}
	default:
		return nil, fmt.Errorf("unknown element kind %q", probe.Kind)
	}
	if err := json.Unmarshal(raw, el); err != nil {
		return nil, err
	}
	if el.ID() == "" {
		return nil, fmt.Errorf("element of kind %q has no id", probe.Kind)
	}
	return el, nil
}
