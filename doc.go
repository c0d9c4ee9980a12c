// Package wb provides the core engine for a whiteboard-style 2D scene
// editor: a serializable element store, a spatial index for culling and
// hit-testing, a reconciling scene renderer with pooled graphical nodes,
// connector routing with anchor snapping, and a coordinate bridge for a
// host-owned text-editing overlay.
//
// # Overview
//
// wb is a companion to github.com/gogpu/gg. Where gg turns paths and
// brushes into pixels, wb keeps the editable scene behind them: every
// element is plain serializable data in a store, and a sync pass diffs
// store snapshots against a live node arena so that only what changed is
// redrawn. The host application owns the actual drawing surfaces and the
// native text input; wb tells it what to draw where.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/wb"
//		"github.com/gogpu/wb/engine"
//		"github.com/gogpu/wb/store"
//	)
//
//	eng, err := engine.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng.Store().AddElement(store.NewRectangle(wb.R(0, 0, 100, 100)))
//
// # Architecture
//
// The library is organized into:
//   - Public API: wb (geometry, ids, viewport, logging), engine (wiring)
//   - State: store (elements, edges, selection, history), spatial (index)
//   - Rendering: scene (sync, surfaces, node pool)
//   - Interaction: connector, overlay, transform, gesture
//   - Text: text (shaping-based measurement)
//
// Everything runs on the host's UI thread; no package here starts
// goroutines or requires locking beyond the logger.
package wb
