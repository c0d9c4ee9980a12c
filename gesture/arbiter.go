// Package gesture enforces single ownership of the active pointer
// sequence: at most one drag, draw, or connector draft is ever in flight.
package gesture

import "github.com/gogpu/wb"

// Arbiter tracks the one active gesture. A pointerdown arriving before the
// previous gesture's pointerup is a protocol violation; the arbiter
// force-cancels the old gesture (running its cancel hook, which discards
// preview state) before the new one starts.
type Arbiter struct {
	active   bool
	name     string
	onCancel func()
}

// Active reports whether a gesture is in flight.
func (a *Arbiter) Active() bool { return a.active }

// Name returns the active gesture's name, or "".
func (a *Arbiter) Name() string {
	if !a.active {
		return ""
	}
	return a.name
}

// Begin claims the pointer for a gesture. onCancel runs if the gesture is
// later force-cancelled or cancelled explicitly; it must discard any
// preview state the gesture accumulated. Returns true when a prior
// gesture had to be force-cancelled.
func (a *Arbiter) Begin(name string, onCancel func()) (forced bool) {
	if a.active {
		wb.Logger().Warn("gesture begun while another was in flight, force-cancelling",
			"active", a.name, "new", name)
		a.cancelActive()
		forced = true
	}
	a.active = true
	a.name = name
	a.onCancel = onCancel
	return forced
}

// End releases the pointer after a completed gesture. The cancel hook does
// not run.
func (a *Arbiter) End() {
	a.active = false
	a.name = ""
	a.onCancel = nil
}

// Cancel aborts the active gesture, running its cancel hook. No-op when
// idle.
func (a *Arbiter) Cancel() {
	if !a.active {
		return
	}
	a.cancelActive()
}

func (a *Arbiter) cancelActive() {
	hook := a.onCancel
	a.active = false
	a.name = ""
	a.onCancel = nil
	if hook != nil {
		hook()
	}
}
