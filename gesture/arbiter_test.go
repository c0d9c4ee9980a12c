package gesture

import "testing"

func TestBeginEnd(t *testing.T) {
	var a Arbiter
	if a.Active() {
		t.Fatalf("zero arbiter is active")
	}
	if forced := a.Begin("drag", nil); forced {
		t.Errorf("first Begin reported a forced cancel")
	}
	if !a.Active() || a.Name() != "drag" {
		t.Errorf("active=%v name=%q after Begin", a.Active(), a.Name())
	}
	a.End()
	if a.Active() || a.Name() != "" {
		t.Errorf("active=%v name=%q after End", a.Active(), a.Name())
	}
}

func TestSecondBeginForceCancels(t *testing.T) {
	var a Arbiter
	cancelled := false
	a.Begin("draw", func() { cancelled = true })

	forced := a.Begin("connector", func() {})
	if !forced {
		t.Errorf("Begin did not report the forced cancel")
	}
	if !cancelled {
		t.Errorf("previous gesture's cancel hook did not run")
	}
	if a.Name() != "connector" {
		t.Errorf("active gesture = %q, want connector", a.Name())
	}
}

func TestCancelRunsHookOnce(t *testing.T) {
	var a Arbiter
	n := 0
	a.Begin("drag", func() { n++ })
	a.Cancel()
	a.Cancel()
	if n != 1 {
		t.Errorf("cancel hook ran %d times, want 1", n)
	}
	if a.Active() {
		t.Errorf("still active after cancel")
	}
}

func TestEndSkipsHook(t *testing.T) {
	var a Arbiter
	n := 0
	a.Begin("drag", func() { n++ })
	a.End()
	if n != 0 {
		t.Errorf("End ran the cancel hook")
	}
}
