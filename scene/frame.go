package scene

// FrameScheduler defers work to the next animation frame. The Scene
// schedules at most one callback per frame and flushes all dirty surfaces
// inside it, so redraw cost is bounded by frames, not by mutations.
//
// Hosts bridge this to their event loop (requestAnimationFrame, a display
// link, a ticker). The zero configuration uses an immediate scheduler that
// runs callbacks synchronously, which keeps headless use simple.
type FrameScheduler interface {
	// Schedule queues fn to run on the next frame. Implementations must
	// run fn exactly once and on the same goroutine that called Schedule.
	Schedule(fn func())
}

// immediateScheduler runs callbacks synchronously. It is the default when
// no scheduler is injected.
type immediateScheduler struct{}

func (immediateScheduler) Schedule(fn func()) { fn() }

// ManualScheduler queues callbacks until Flush, standing in for an
// animation-frame loop in tests and headless hosts.
type ManualScheduler struct {
	queue []func()
}

// Schedule queues fn for the next Flush.
func (m *ManualScheduler) Schedule(fn func()) {
	m.queue = append(m.queue, fn)
}

// Pending reports how many callbacks are queued.
func (m *ManualScheduler) Pending() int { return len(m.queue) }

// Flush runs all queued callbacks in order. Callbacks scheduled during
// Flush run on the next Flush, as they would on the next frame.
func (m *ManualScheduler) Flush() {
	queue := m.queue
	m.queue = nil
	for _, fn := range queue {
		fn()
	}
}
