package fx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// shown returns the visible canvases at depth.
func shown(ps []*fakePrim, depth int) []*fakePrim {
	var out []*fakePrim
	for _, p := range ps {
		if p.visible && p.depth == depth {
			out = append(out, p)
		}
	}
	return out
}

func TestRingGeometry(t *testing.T) {
	cases := []struct {
		progress float64
		inward   bool
		radius   float64
		alpha    float64
	}{
		{0, false, 0, 1},
		{0.25, false, 25, 0.75},
		{1, false, 100, 0},
		{0, true, 100, 0},
		{0.25, true, 75, 0.25},
		{1, true, 0, 1},
	}
	for _, c := range cases {
		r, a := ringGeometry(c.progress, 100, c.inward)
		if !near(r, c.radius) || !near(a, c.alpha) {
			t.Fatalf("progress=%v inward=%v: got (%v,%v) want (%v,%v)",
				c.progress, c.inward, r, a, c.radius, c.alpha)
		}
	}
}

func TestRingDrawnAtSpawnAndAdvanced(t *testing.T) {
	e, surf := newTestEngine(Config{})
	if !e.SpawnRing(RingSpec{X: 5, Y: 6, Color: arcGlow, Radius: 100, Duration: 1}) {
		t.Fatalf("ring spawn failed")
	}
	cv := shown(surf.canvases, DepthRing)
	if len(cv) != 1 {
		t.Fatalf("want one ring canvas, got %d", len(cv))
	}
	c := cv[0]
	if len(c.circles) != 2 || c.circles[0].r != 0 || !near(c.circles[0].alpha, 0.8) {
		t.Fatalf("spawn frame circles=%+v", c.circles)
	}
	if c.circles[1].c != highlight {
		t.Fatalf("zero accent should default to white, got %v", c.circles[1].c)
	}

	e.Update(0.25)
	outer, inner := c.circles[0], c.circles[1]
	if len(c.circles) != 2 {
		t.Fatalf("ring should redraw, not accumulate: %d circles", len(c.circles))
	}
	if !near(outer.r, 25) || !near(outer.alpha, 0.6) || outer.width != 2 {
		t.Fatalf("outer stroke %+v", outer)
	}
	if !near(inner.r, 22.5) || !near(inner.alpha, 0.3) || inner.width != 1 {
		t.Fatalf("inner stroke %+v", inner)
	}
	if outer.x != 5 || outer.y != 6 {
		t.Fatalf("ring moved to (%v,%v)", outer.x, outer.y)
	}

	for i := 0; i < 3; i++ {
		e.Update(0.25)
	}
	if c.visible || e.ringCv.Active() != 0 {
		t.Fatalf("ring not released after its duration")
	}
}

func TestInwardRing(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.SpawnRing(RingSpec{Radius: 100, Duration: 1, Inward: true})
	c := shown(surf.canvases, DepthRing)[0]
	if !near(c.circles[0].r, 100) || c.circles[0].alpha != 0 {
		t.Fatalf("inward ring should start wide and clear: %+v", c.circles[0])
	}
	e.Update(0.25)
	if !near(c.circles[0].r, 75) || !near(c.circles[0].alpha, 0.2) {
		t.Fatalf("inward ring at 0.25: %+v", c.circles[0])
	}
}

func TestRingRejectsZeroDuration(t *testing.T) {
	e, _ := newTestEngine(Config{})
	if e.SpawnRing(RingSpec{Radius: 10}) {
		t.Fatalf("zero-duration ring spawned")
	}
	if e.ringCv.Active() != 0 {
		t.Fatalf("rejected ring took a slot")
	}
}

func TestArcJitterIsStatic(t *testing.T) {
	e, surf := newTestEngine(Config{})
	if !e.SpawnArc(0, 0, 60, 0) {
		t.Fatalf("arc spawn failed")
	}
	c := shown(surf.canvases, DepthArc)[0]
	if len(c.paths) != 2 {
		t.Fatalf("want glow and core paths, got %d", len(c.paths))
	}
	for _, p := range c.paths {
		if len(p) != arcSegments+1 {
			t.Fatalf("path has %d points", len(p))
		}
		if p[0] != (mgl64.Vec2{0, 0}) || p[arcSegments] != (mgl64.Vec2{60, 0}) {
			t.Fatalf("endpoints moved: %v %v", p[0], p[arcSegments])
		}
		for i := 1; i < arcSegments; i++ {
			// perpendicular of (60,0) scaled by 0.15 is (0,9); jitter <= 1
			if math.Abs(p[i].Y()) > 9 || !near(p[i].X(), 10*float64(i)) {
				t.Fatalf("point %d = %v", i, p[i])
			}
		}
	}
	before := append([]mgl64.Vec2(nil), c.paths[0]...)

	e.Update(0.05)
	if len(c.paths) != 2 || c.paths[0][2] != before[2] {
		t.Fatalf("arc redrawn after spawn")
	}
	if !near(c.alpha, 0.1/arcLife) {
		t.Fatalf("alpha=%v", c.alpha)
	}
	for i := 0; i < 3; i++ {
		e.Update(0.05)
	}
	if c.visible || len(c.paths) != 0 || e.lineCv.Active() != 0 {
		t.Fatalf("arc not released")
	}
}

func TestPhasedEnemyBlastExpires(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.HandleEvent(At(EnemyDeath, 40, 50))
	cv := shown(surf.canvases, DepthPhased)
	if len(cv) != 1 {
		t.Fatalf("want one phased canvas, got %d", len(cv))
	}
	c := cv[0]
	e.Update(0.125)
	if c.x != 40 || c.y != 50 || len(c.circles) == 0 {
		t.Fatalf("blast not drawn at origin: (%v,%v) %d circles", c.x, c.y, len(c.circles))
	}
	e.Update(0.125)
	e.Update(0.125)
	if c.visible || e.phasedCv.Active() != 0 {
		t.Fatalf("blast outlived 0.35s")
	}
}

func TestPhantomTelegraphDrawsDiamond(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.HandleEvent(At(PhantomTelegraph, 0, 0))
	c := shown(surf.canvases, DepthPhased)[0]
	for i := 0; i < 3; i++ {
		e.Update(0.125)
	}
	// 0.4375s in: past 0.8 of its life so it cannot flicker, past the half
	// so the glitch line is drawn too
	e.Update(0.0625)
	if len(c.paths) != 2 || len(c.paths[0]) != 4 || len(c.paths[1]) != 2 {
		t.Fatalf("telegraph frame paths=%v", c.paths)
	}
	e.Update(0.125)
	if c.visible {
		t.Fatalf("telegraph outlived 0.5s")
	}
}
