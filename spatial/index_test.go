package spatial

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/gogpu/wb"
)

// fullExtent comfortably covers everything the tests place.
var fullExtent = wb.R(-1e6, -1e6, 2e6, 2e6)

func TestInsertAndQueryRange(t *testing.T) {
	ix := New()
	ix.Insert("a", wb.R(0, 0, 100, 100))
	ix.Insert("b", wb.R(500, 500, 50, 50))

	got := ix.QueryRange(wb.R(-10, -10, 200, 200))
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("QueryRange = %v, want [a]", got)
	}
	got = ix.QueryRange(fullExtent)
	if len(got) != 2 {
		t.Errorf("full extent query = %v, want both", got)
	}
}

func TestQueryRangeExcludesNonIntersecting(t *testing.T) {
	ix := New(WithCellSize(100))
	// Same cell, but bounds don't intersect the query.
	ix.Insert("a", wb.R(0, 0, 10, 10))
	got := ix.QueryRange(wb.R(50, 50, 10, 10))
	if len(got) != 0 {
		t.Errorf("QueryRange = %v, want empty", got)
	}
}

func TestUpdateMovesAcrossCells(t *testing.T) {
	ix := New(WithCellSize(100))
	ix.Insert("a", wb.R(0, 0, 10, 10))
	ix.Update("a", wb.R(1000, 1000, 10, 10))

	if got := ix.QueryRange(wb.R(0, 0, 100, 100)); len(got) != 0 {
		t.Errorf("stale entry at old position: %v", got)
	}
	got := ix.QueryRange(wb.R(990, 990, 100, 100))
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("QueryRange after move = %v, want [a]", got)
	}
}

func TestRemove(t *testing.T) {
	ix := New()
	ix.Insert("a", wb.R(0, 0, 10, 10))
	ix.Remove("a")
	ix.Remove("a") // idempotent
	if ix.Len() != 0 {
		t.Errorf("Len = %d, want 0", ix.Len())
	}
	if got := ix.QueryRange(fullExtent); len(got) != 0 {
		t.Errorf("removed entry still queryable: %v", got)
	}
}

func TestQueryPointTopmostFirst(t *testing.T) {
	ix := New()
	ix.Insert("bottom", wb.R(0, 0, 100, 100))
	ix.Insert("top", wb.R(0, 0, 100, 100))

	got := ix.QueryPoint(wb.Pt(50, 50))
	if len(got) != 2 || got[0] != "top" || got[1] != "bottom" {
		t.Fatalf("QueryPoint = %v, want [top bottom]", got)
	}

	// Moving an element raises it, matching what the user sees on top.
	ix.Update("bottom", wb.R(0, 0, 100, 100))
	got = ix.QueryPoint(wb.Pt(50, 50))
	if got[0] != "bottom" {
		t.Errorf("QueryPoint after update = %v, want bottom first", got)
	}

	ix.Raise("top")
	got = ix.QueryPoint(wb.Pt(50, 50))
	if got[0] != "top" {
		t.Errorf("QueryPoint after raise = %v, want top first", got)
	}
}

func TestQueryPointMissesOutside(t *testing.T) {
	ix := New()
	ix.Insert("a", wb.R(0, 0, 100, 100))
	if got := ix.QueryPoint(wb.Pt(150, 50)); len(got) != 0 {
		t.Errorf("QueryPoint outside bounds = %v, want empty", got)
	}
}

func TestLargeElementSpansManyCells(t *testing.T) {
	ix := New(WithCellSize(64))
	ix.Insert("big", wb.R(-500, -500, 1500, 1500))
	for _, p := range []wb.Point{{X: -400, Y: -400}, {X: 0, Y: 0}, {X: 900, Y: 900}} {
		if got := ix.QueryPoint(p); len(got) != 1 {
			t.Errorf("QueryPoint(%v) = %v, want [big]", p, got)
		}
	}
	ix.Remove("big")
	if got := ix.QueryRange(fullExtent); len(got) != 0 {
		t.Errorf("cells left behind after remove: %v", got)
	}
}

// TestFidelityUnderRandomOps checks the core invariant: after any sequence
// of insert/update/remove, a full-extent range query returns exactly the
// live set, no stale and no missing entries.
func TestFidelityUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ix := New(WithCellSize(50))
	live := map[wb.ElementID]bool{}

	randRect := func() wb.Rect {
		return wb.R(rng.Float64()*2000-1000, rng.Float64()*2000-1000,
			rng.Float64()*300, rng.Float64()*300)
	}
	var ids []wb.ElementID
	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(10); {
		case op < 4: // insert
			id := wb.ElementID(fmt.Sprintf("el-%d", i))
			ix.Insert(id, randRect())
			live[id] = true
			ids = append(ids, id)
		case op < 8 && len(ids) > 0: // update; resurrects removed ids
			id := ids[rng.Intn(len(ids))]
			ix.Update(id, randRect())
			live[id] = true
		case len(ids) > 0: // remove
			id := ids[rng.Intn(len(ids))]
			ix.Remove(id)
			delete(live, id)
		}
	}
	got := ix.QueryRange(fullExtent)
	slices.Sort(got)
	want := make([]wb.ElementID, 0, len(live))
	for id := range live {
		want = append(want, id)
	}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("fidelity violated: %d live vs %d queried", len(want), len(got))
	}
	if ix.Len() != len(want) {
		t.Errorf("Len = %d, want %d", ix.Len(), len(want))
	}
}

func BenchmarkQueryRange(b *testing.B) {
	ix := New()
	for i := 0; i < 5000; i++ {
		x := float64(i%100) * 120
		y := float64(i/100) * 90
		ix.Insert(wb.ElementID(fmt.Sprintf("el-%d", i)), wb.R(x, y, 100, 80))
	}
	view := wb.R(2000, 1000, 1920, 1080)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ix.QueryRange(view)
	}
}

func BenchmarkUpdate(b *testing.B) {
	ix := New()
	for i := 0; i < 1000; i++ {
		ix.Insert(wb.ElementID(fmt.Sprintf("el-%d", i)), wb.R(float64(i), 0, 50, 50))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Update("el-500", wb.R(float64(i%3000), 40, 50, 50))
	}
}
