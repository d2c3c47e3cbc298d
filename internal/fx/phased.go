package fx

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

// Phased effects redraw a small composite shape every frame from elapsed
// time alone. The shape is a tag, so live records carry no closures.
type shape uint8

const (
	shapeEnemyBlast shape = iota
	shapeVolatileBurst
	shapePhantomTelegraph
)

var shapeDuration = [...]float64{
	shapeEnemyBlast:       0.35,
	shapeVolatileBurst:    0.5,
	shapePhantomTelegraph: 0.5,
}

var enemyRed = theme.RGB(0xf14e4e)

type phasedFX struct {
	slot   Slot
	canvas Canvas
	shape  shape
	x, y   float64
	radius float64
	color  color.NRGBA
	time   float64
}

type phased struct {
	pool    *Pool[Canvas]
	live    []phasedFX
	scratch []mgl64.Vec2
}

func newPhased(pool *Pool[Canvas]) phased {
	return phased{pool: pool, live: make([]phasedFX, 0, pool.Cap()), scratch: make([]mgl64.Vec2, 0, 4)}
}

func (t *phased) spawn(s shape, x, y, radius float64, c color.NRGBA) bool {
	slot, cv, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	cv.Clear()
	cv.SetOrigin(x, y)
	cv.SetAlpha(1)
	cv.SetVisible(true)
	t.live = append(t.live, phasedFX{slot: slot, canvas: cv, shape: s, x: x, y: y, radius: radius, color: c})
	return true
}

func (t *phased) advance(dt float64, rng *rand.Rand) {
	for i := len(t.live) - 1; i >= 0; i-- {
		p := &t.live[i]
		p.time += dt
		if p.time >= shapeDuration[p.shape] {
			t.pool.Release(p.slot)
			last := len(t.live) - 1
			t.live[i] = t.live[last]
			t.live[last] = phasedFX{}
			t.live = t.live[:last]
			continue
		}
		p.canvas.Clear()
		p.canvas.SetOrigin(p.x, p.y)
		switch p.shape {
		case shapeEnemyBlast:
			drawEnemyBlast(p.canvas, p.time)
		case shapeVolatileBurst:
			drawVolatileBurst(p.canvas, p.time, p.radius, p.color)
		case shapePhantomTelegraph:
			t.drawTelegraph(p, rng)
		}
	}
}

func easeOut(t, pow float64) float64 { return 1 - math.Pow(1-t, pow) }

// drawEnemyBlast: white core flash, a thick red blast ring, then a thinner
// white shockwave trailing it.
func drawEnemyBlast(c Canvas, tm float64) {
	if tm < 0.08 {
		c.FillCircle(0, 0, playerRadius*1.3*(tm/0.08), highlight, 1)
	}
	if tm > 0.03 && tm < 0.28 {
		k := (tm - 0.03) / 0.25
		if w := 3 * (1 - k); w > 0.5 {
			c.StrokeCircle(0, 0, playerRadius*(0.5+2.5*easeOut(k, 3)), w, enemyRed, 1)
		}
	}
	if tm > 0.06 && tm < 0.34 {
		k := (tm - 0.06) / 0.28
		if w := 2 * (1 - k); w > 0.5 {
			c.StrokeCircle(0, 0, playerRadius*(0.3+2*easeOut(k, 2)), w, highlight, 1)
		}
	}
}

func drawVolatileBurst(c Canvas, tm, radius float64, blast color.NRGBA) {
	if tm < 0.12 {
		c.FillCircle(0, 0, radius*0.8*(tm/0.12), highlight, 1)
	}
	if tm > 0.04 && tm < 0.45 {
		k := (tm - 0.04) / 0.41
		if w := 4 * (1 - k); w > 0.5 {
			c.StrokeCircle(0, 0, radius*(0.5+1.2*easeOut(k, 3)), w, blast, 1)
		}
	}
	if tm > 0.08 && tm < 0.5 {
		k := (tm - 0.08) / 0.42
		if w := 2.5 * (1 - k); w > 0.5 {
			c.StrokeCircle(0, 0, radius*(0.2+easeOut(k, 2)), w, highlight, 1)
		}
	}
}

// drawTelegraph is a contracting wireframe diamond that flickers until the
// last fifth of its life and grows scan-line glitches after the half.
func (t *phased) drawTelegraph(p *phasedFX, rng *rand.Rand) {
	k := p.time / shapeDuration[shapePhantomTelegraph]
	if rng.Float64() > 0.7 && k < 0.8 {
		return
	}
	alpha := 0.5 + 0.5*k
	r := p.radius * (3 - 2*easeOut(k, 2))
	pts := append(t.scratch[:0],
		mgl64.Vec2{0, -r}, mgl64.Vec2{r, 0}, mgl64.Vec2{0, r}, mgl64.Vec2{-r, 0})
	p.canvas.StrokePath(pts, 2, p.color, alpha, true)

	if k > 0.5 {
		w := p.radius * 1.5
		yOff := (rng.Float64() - 0.5) * w
		pts = append(pts[:0], mgl64.Vec2{-w / 2, yOff}, mgl64.Vec2{w / 2, yOff})
		p.canvas.StrokePath(pts, 1, p.color, alpha*0.8, false)
	}
	t.scratch = pts
}

func (t *phased) discard() {
	clear(t.live)
	t.live = t.live[:0]
}
