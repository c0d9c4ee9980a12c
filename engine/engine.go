// Package engine assembles the whiteboard canvas engine: one store, one
// scene, one spatial index, and the connector, overlay, transform, and
// gesture controllers, wired together for a single canvas instance.
//
// The engine is the explicit context object the tool layer talks to.
// Nothing in it is a package-level singleton; two canvases are two
// engines. All methods must be called from the host's UI event loop.
package engine

import (
	"github.com/gogpu/wb"
	"github.com/gogpu/wb/connector"
	"github.com/gogpu/wb/gesture"
	"github.com/gogpu/wb/overlay"
	"github.com/gogpu/wb/scene"
	"github.com/gogpu/wb/spatial"
	"github.com/gogpu/wb/store"
	"github.com/gogpu/wb/text"
	"github.com/gogpu/wb/transform"
)

type config struct {
	historyLimit int
	cellSize     float64
	snapRadius   float64
	scheduler    scene.FrameScheduler
	measurer     text.Measurer
	fontData     []byte
	constraints  *overlay.Constraints
	drawFunc     func(scene.Surface)
	container    func() wb.Rect
	dpr          func() float64
}

// Option configures an Engine.
type Option func(*config)

// WithHistoryLimit bounds the undo history.
func WithHistoryLimit(n int) Option {
	return func(c *config) { c.historyLimit = n }
}

// WithCellSize sets the spatial index grid cell size in world units.
func WithCellSize(size float64) Option {
	return func(c *config) { c.cellSize = size }
}

// WithSnapRadius sets the connector snap radius in world units at scale 1.
func WithSnapRadius(r float64) Option {
	return func(c *config) { c.snapRadius = r }
}

// WithFrameScheduler injects the host's animation-frame scheduler.
func WithFrameScheduler(s scene.FrameScheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithMeasurer injects the text measurer used by the overlay editor.
func WithMeasurer(m text.Measurer) Option {
	return func(c *config) { c.measurer = m }
}

// WithFont loads TTF/OTF font data and measures edited text with real
// shaping. Takes precedence over WithMeasurer.
func WithFont(data []byte) Option {
	return func(c *config) { c.fontData = data }
}

// WithEditorConstraints overrides the overlay grow-to-fit constraints.
func WithEditorConstraints(cs overlay.Constraints) Option {
	return func(c *config) { c.constraints = &cs }
}

// WithDrawFunc registers the host draw callback, invoked at most once per
// surface per frame.
func WithDrawFunc(fn func(scene.Surface)) Option {
	return func(c *config) { c.drawFunc = fn }
}

// WithContainerSource provides the canvas container's page rect, used to
// position the overlay editor.
func WithContainerSource(fn func() wb.Rect) Option {
	return func(c *config) { c.container = fn }
}

// WithDPRSource provides the live device pixel ratio.
func WithDPRSource(fn func() float64) Option {
	return func(c *config) { c.dpr = fn }
}

// Engine is one canvas instance.
type Engine struct {
	store     *store.Store
	index     *spatial.Index
	scene     *scene.Scene
	connector *connector.Engine
	overlay   *overlay.Bridge
	transform *transform.Controller
	arbiter   gesture.Arbiter

	scheduler scene.FrameScheduler
	container func() wb.Rect
	dpr       func() float64

	unsubscribe   func()
	reflowPending bool

	stroke strokeGesture
}

// New builds a fully wired engine. It fails only when WithFont data does
// not parse.
func New(opts ...Option) (*Engine, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		container: cfg.container,
		dpr:       cfg.dpr,
	}
	if e.container == nil {
		e.container = func() wb.Rect { return wb.Rect{} }
	}
	if e.dpr == nil {
		e.dpr = func() float64 { return 1 }
	}

	var storeOpts []store.Option
	if cfg.historyLimit > 0 {
		storeOpts = append(storeOpts, store.WithHistoryLimit(cfg.historyLimit))
	}
	e.store = store.New(storeOpts...)

	var indexOpts []spatial.Option
	if cfg.cellSize > 0 {
		indexOpts = append(indexOpts, spatial.WithCellSize(cfg.cellSize))
	}
	e.index = spatial.New(indexOpts...)

	e.scheduler = cfg.scheduler
	sceneOpts := []scene.Option{scene.WithIndex(e.index)}
	if cfg.scheduler != nil {
		sceneOpts = append(sceneOpts, scene.WithScheduler(cfg.scheduler))
	}
	if cfg.drawFunc != nil {
		sceneOpts = append(sceneOpts, scene.WithDrawFunc(cfg.drawFunc))
	}
	e.scene = scene.New(sceneOpts...)

	var connOpts []connector.Option
	if cfg.snapRadius > 0 {
		connOpts = append(connOpts, connector.WithSnapRadius(cfg.snapRadius))
	}
	e.connector = connector.New(e.store, e.index, connOpts...)

	measurer := cfg.measurer
	if cfg.fontData != nil {
		m, err := text.NewShapedMeasurer(cfg.fontData)
		if err != nil {
			return nil, err
		}
		measurer = m
	}
	if measurer == nil {
		measurer = text.FixedMeasurer{}
	}
	var overlayOpts []overlay.Option
	if cfg.constraints != nil {
		overlayOpts = append(overlayOpts, overlay.WithConstraints(*cfg.constraints))
	}
	e.overlay = overlay.NewBridge(e.store, measurer, overlayOpts...)

	e.transform = transform.New(e.store)

	// Wiring: element moves dirty their edges, selection drives the
	// transform handles, editing hides canvas text, and every committed
	// transform re-checks container membership of the moved elements.
	// Moves only mark edges dirty here; the reflow itself is scheduled
	// after Sync returns, so the store is never mutated mid-sync.
	e.scene.OnElementMoved = e.connector.MarkDirty
	e.scene.OnSelectionChanged = func(sel store.Selection) {
		if sel.IsEmpty() {
			e.transform.Detach()
			return
		}
		e.transform.Attach(sel.Elements)
	}
	e.overlay.OnEditingChanged = e.scene.SetEditingElement

	e.unsubscribe = e.store.Subscribe(func(snap store.Snapshot) {
		e.connector.Observe(snap)
		e.scene.Sync(snap)
		if e.connector.DirtyCount() > 0 {
			e.scheduleReflow()
		}
	})
	e.scene.Sync(e.store.Snapshot())

	wb.Logger().Info("engine created")
	return e, nil
}

// Close detaches the engine from its store. Further store mutations no
// longer reach the scene.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Store returns the element store.
func (e *Engine) Store() *store.Store { return e.store }

// Scene returns the retained scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Connector returns the connector engine.
func (e *Engine) Connector() *connector.Engine { return e.connector }

// Overlay returns the text editing bridge.
func (e *Engine) Overlay() *overlay.Bridge { return e.overlay }

// Transform returns the selection transform controller.
func (e *Engine) Transform() *transform.Controller { return e.transform }

// Gesture returns the pointer gesture arbiter.
func (e *Engine) Gesture() *gesture.Arbiter { return &e.arbiter }

// Index returns the spatial index.
func (e *Engine) Index() *spatial.Index { return e.index }

// scheduleReflow defers one connector reflow to the next frame, however
// many elements moved before it.
func (e *Engine) scheduleReflow() {
	if e.reflowPending {
		return
	}
	e.reflowPending = true
	if e.scheduler != nil {
		e.scheduler.Schedule(e.flushReflow)
		return
	}
	e.flushReflow()
}

func (e *Engine) flushReflow() {
	e.reflowPending = false
	e.connector.ReflowDirtyEdges()
}

// CommitConnectorDraft commits the in-flight connector draft and schedules
// the routing pass for any edge it created.
func (e *Engine) CommitConnectorDraft() (connector.Commit, bool) {
	c, ok := e.connector.CommitDraft()
	if ok && e.connector.DirtyCount() > 0 {
		e.scheduleReflow()
	}
	return c, ok
}

// ShortcutsSuppressed reports whether global keyboard shortcuts must be
// ignored, which they are while text is being edited.
func (e *Engine) ShortcutsSuppressed() bool {
	return e.overlay.EditingActive()
}

// ElementAt returns the topmost element containing the world point.
func (e *Engine) ElementAt(p wb.Point) (wb.ElementID, bool) {
	hits := e.index.QueryPoint(p)
	if len(hits) == 0 {
		return "", false
	}
	return hits[0], true
}

// ElementsIn returns every element intersecting the world rect, for
// marquee selection.
func (e *Engine) ElementsIn(r wb.Rect) []wb.ElementID {
	return e.index.QueryRange(r)
}

// ZoomAt zooms the viewport by factor keeping the screen point fixed in
// world space. The resulting scale clamps to the viewport limits.
func (e *Engine) ZoomAt(screen wb.Point, factor float64) {
	v := e.store.Snapshot().Viewport.ZoomAt(screen, factor)
	e.store.SetViewport(v)
}

// PanBy shifts the viewport origin by a world-space delta.
func (e *Engine) PanBy(dx, dy float64) {
	v := e.store.Snapshot().Viewport
	v.X += dx
	v.Y += dy
	e.store.SetViewport(v)
}

// EditorRect returns the host CSS rect for the in-progress text edit.
func (e *Engine) EditorRect() (wb.Rect, bool) {
	return e.overlay.EditorRect(e.container(), e.dpr())
}
