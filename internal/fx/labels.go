package fx

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

const damageLife = 0.45

var (
	damageColor = theme.RGB(0x9ff0ff)
	critColor   = theme.RGB(0xff8844)
)

type label struct {
	slot  Slot
	label Label
	pos   mgl64.Vec2
	vel   mgl64.Vec2
	life  float64
}

// labels floats damage numbers up and fades them out.
type labels struct {
	pool *Pool[Label]
	live []label
}

func newLabels(pool *Pool[Label]) labels {
	return labels{pool: pool, live: make([]label, 0, pool.Cap())}
}

func (t *labels) spawnDamage(x, y, amount float64, crit bool, rng *rand.Rand) bool {
	slot, l, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	value := int(math.Max(1, math.Round(amount)))
	c := damageColor
	if crit {
		c = critColor
	}
	pos := mgl64.Vec2{x + (rng.Float64()-0.5)*10, y - 8}
	l.SetText(strconv.Itoa(value))
	l.SetColor(c)
	l.SetPosition(pos.X(), pos.Y())
	l.SetAlpha(1)
	l.SetVisible(true)

	t.live = append(t.live, label{
		slot:  slot,
		label: l,
		pos:   pos,
		vel:   mgl64.Vec2{(rng.Float64() - 0.5) * 10, -30},
		life:  damageLife,
	})
	return true
}

func (t *labels) advance(dt float64) {
	for i := len(t.live) - 1; i >= 0; i-- {
		l := &t.live[i]
		l.life -= dt
		if l.life <= 0 {
			t.pool.Release(l.slot)
			last := len(t.live) - 1
			t.live[i] = t.live[last]
			t.live[last] = label{}
			t.live = t.live[:last]
			continue
		}
		l.pos = l.pos.Add(l.vel.Mul(dt))
		l.label.SetPosition(l.pos.X(), l.pos.Y())
		l.label.SetAlpha(l.life / damageLife)
	}
}

func (t *labels) discard() {
	clear(t.live)
	t.live = t.live[:0]
}
