package fx

import (
	"image/color"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

// RingSpec describes an expanding (or, with Inward, contracting) circle.
type RingSpec struct {
	X, Y     float64
	Color    color.NRGBA
	Accent   color.NRGBA // inner highlight; zero means white
	Radius   float64     // maximum radius
	Duration float64
	Inward   bool
}

type ring struct {
	slot   Slot
	canvas Canvas
	spec   RingSpec
	life   float64
}

type rings struct {
	pool *Pool[Canvas]
	live []ring
}

func newRings(pool *Pool[Canvas]) rings {
	return rings{pool: pool, live: make([]ring, 0, pool.Cap())}
}

var highlight = theme.RGB(0xffffff)

// ringGeometry maps progress in [0,1] to the displayed radius and alpha.
func ringGeometry(progress, maxRadius float64, inward bool) (radius, alpha float64) {
	if inward {
		return maxRadius * (1 - progress), progress
	}
	return maxRadius * progress, 1 - progress
}

func (t *rings) spawn(s RingSpec) bool {
	if s.Duration <= 0 {
		return false
	}
	slot, c, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	if s.Accent.A == 0 {
		s.Accent = highlight
	}
	c.Clear()
	c.SetAlpha(1)
	c.SetVisible(true)
	r := ring{slot: slot, canvas: c, spec: s, life: s.Duration}
	r.draw(0)
	t.live = append(t.live, r)
	return true
}

func (r *ring) draw(progress float64) {
	radius, alpha := ringGeometry(progress, r.spec.Radius, r.spec.Inward)
	c := r.canvas
	c.Clear()
	c.StrokeCircle(r.spec.X, r.spec.Y, radius, 2, r.spec.Color, alpha*0.8)
	c.StrokeCircle(r.spec.X, r.spec.Y, radius*0.9, 1, r.spec.Accent, alpha*0.4)
}

func (t *rings) advance(dt float64) {
	for i := len(t.live) - 1; i >= 0; i-- {
		r := &t.live[i]
		r.life -= dt
		if r.life <= 0 {
			t.pool.Release(r.slot)
			last := len(t.live) - 1
			t.live[i] = t.live[last]
			t.live[last] = ring{}
			t.live = t.live[:last]
			continue
		}
		r.draw(1 - r.life/r.spec.Duration)
	}
}

func (t *rings) discard() {
	clear(t.live)
	t.live = t.live[:0]
}

// Chain arcs: two jittered polylines between the endpoints. The jitter is
// rolled once at spawn; per frame only the alpha decays.
const (
	arcSegments = 6
	arcLife     = 0.15
	arcSpread   = 0.15
)

var (
	arcGlow = theme.RGB(0x00ffff)
	arcCore = theme.RGB(0xffffff)
)

type arc struct {
	slot   Slot
	canvas Canvas
	life   float64
}

type arcs struct {
	pool    *Pool[Canvas]
	live    []arc
	scratch []mgl64.Vec2
}

func newArcs(pool *Pool[Canvas]) arcs {
	return arcs{
		pool:    pool,
		live:    make([]arc, 0, pool.Cap()),
		scratch: make([]mgl64.Vec2, 0, arcSegments+1),
	}
}

func (t *arcs) spawn(a, b mgl64.Vec2, rng *rand.Rand) bool {
	slot, c, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	c.Clear()
	c.SetAlpha(1)
	c.SetVisible(true)

	c.StrokePath(t.jitterPath(a, b, 2, rng), 3, arcGlow, 1, false)
	c.StrokePath(t.jitterPath(a, b, 1.5, rng), 1.5, arcCore, 1, false)

	t.live = append(t.live, arc{slot: slot, canvas: c, life: arcLife})
	return true
}

// jitterPath fills the scratch buffer with a polyline from a to b whose
// interior points are pushed sideways by up to amount/2 of the perpendicular.
func (t *arcs) jitterPath(a, b mgl64.Vec2, amount float64, rng *rand.Rand) []mgl64.Vec2 {
	d := b.Sub(a)
	perp := mgl64.Vec2{-d.Y(), d.X()}.Mul(arcSpread)
	pts := append(t.scratch[:0], a)
	for i := 1; i < arcSegments; i++ {
		k := float64(i) / arcSegments
		j := (rng.Float64() - 0.5) * amount
		pts = append(pts, a.Add(d.Mul(k)).Add(perp.Mul(j)))
	}
	pts = append(pts, b)
	t.scratch = pts
	return pts
}

func (t *arcs) advance(dt float64) {
	for i := len(t.live) - 1; i >= 0; i-- {
		a := &t.live[i]
		a.life -= dt
		if a.life <= 0 {
			t.pool.Release(a.slot)
			last := len(t.live) - 1
			t.live[i] = t.live[last]
			t.live[last] = arc{}
			t.live = t.live[:last]
			continue
		}
		a.canvas.SetAlpha(a.life / arcLife)
	}
}

func (t *arcs) discard() {
	clear(t.live)
	t.live = t.live[:0]
}
