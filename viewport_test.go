package wb

import (
	"math"
	"testing"
)

func TestViewportClamped(t *testing.T) {
	v := Viewport{Scale: 0.01}.Clamped()
	if v.Scale != MinScale {
		t.Errorf("Scale = %v, want %v", v.Scale, MinScale)
	}
	v = Viewport{Scale: 64}.Clamped()
	if v.Scale != MaxScale {
		t.Errorf("Scale = %v, want %v", v.Scale, MaxScale)
	}
	v = Viewport{X: math.NaN(), Scale: math.Inf(1)}.Clamped()
	if v.X != 0 || v.Scale != 1 {
		t.Errorf("non-finite viewport = %+v", v)
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	v := Viewport{X: -40, Y: 25, Scale: 2.5, Width: 800, Height: 600}
	p := Pt(123, -456)
	got := v.ScreenToWorld(v.WorldToScreen(p))
	const eps = 1e-9
	if got.Distance(p) > eps {
		t.Errorf("round trip drifted: %v -> %v", p, got)
	}
}

func TestVisibleWorld(t *testing.T) {
	v := Viewport{X: 10, Y: 20, Scale: 2, Width: 200, Height: 100}
	got := v.VisibleWorld()
	if got != R(10, 20, 100, 50) {
		t.Errorf("VisibleWorld = %+v", got)
	}
}

func TestZoomAtFixpoint(t *testing.T) {
	v := Viewport{X: 100, Y: 50, Scale: 1, Width: 800, Height: 600}
	screen := Pt(200, 150)
	anchor := v.ScreenToWorld(screen)

	z := v.ZoomAt(screen, 2)
	if z.Scale != 2 {
		t.Fatalf("Scale = %v, want 2", z.Scale)
	}
	const eps = 1e-9
	if got := z.ScreenToWorld(screen); got.Distance(anchor) > eps {
		t.Errorf("anchor drifted: %v -> %v", anchor, got)
	}

	// Zooming past the clamp still keeps the anchor fixed.
	z = v.ZoomAt(screen, 1000)
	if z.Scale != MaxScale {
		t.Fatalf("Scale = %v, want clamp at %v", z.Scale, MaxScale)
	}
	if got := z.ScreenToWorld(screen); got.Distance(anchor) > eps {
		t.Errorf("anchor drifted under clamped zoom: %v -> %v", anchor, got)
	}
}
