// Package scene owns the retained graphical node graph and reconciles it
// against store snapshots.
//
// Scene is the sole owner of nodes: it creates, updates, and destroys them
// during Sync, and no other component may hold a node reference longer than
// one synchronous call. Drawing is split across four fixed surfaces, each
// redrawn at most once per animation frame regardless of how many syncs
// happened in between.
package scene

// Surface identifies one of the four fixed drawing layers, bottom to top.
type Surface uint8

const (
	// SurfaceBackground is static, non-interactive content (grid, paper).
	SurfaceBackground Surface = iota
	// SurfaceMain holds all persistent interactive elements and edges.
	SurfaceMain
	// SurfacePreview holds transient tool-drag feedback. It is cleared
	// after each gesture and its nodes come from the pool.
	SurfacePreview
	// SurfaceOverlay holds selection handles, connector snap previews,
	// and the anchor for the text-edit overlay.
	SurfaceOverlay

	// NumSurfaces is the number of drawing surfaces.
	NumSurfaces = 4
)

// String returns the surface name.
func (s Surface) String() string {
	switch s {
	case SurfaceBackground:
		return "background"
	case SurfaceMain:
		return "main"
	case SurfacePreview:
		return "preview"
	case SurfaceOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}
