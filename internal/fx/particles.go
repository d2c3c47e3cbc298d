package fx

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

const defaultParticleLife = 0.5

// ParticleSpec describes one point particle at spawn time.
type ParticleSpec struct {
	X, Y    float64
	VX, VY  float64
	Color   color.NRGBA
	Size    float64 // radius
	Life    float64 // seconds; 0 means 0.5
	Gravity float64 // added to VY per second
	Fade    bool    // alpha follows remaining life
	Shrink  bool    // radius follows remaining life
}

type particle struct {
	slot    Slot
	dot     Dot
	pos     mgl64.Vec2
	vel     mgl64.Vec2
	gravity float64
	life    float64
	maxLife float64
	size    float64
	fade    bool
	shrink  bool
}

// particles tracks live point particles. Each record owns its slot until it
// expires; records are swap-removed so the live slice never reallocates.
type particles struct {
	pool   *Pool[Dot]
	budget *Budget
	live   []particle
}

func newParticles(pool *Pool[Dot], budget *Budget) particles {
	return particles{pool: pool, budget: budget, live: make([]particle, 0, pool.Cap())}
}

// spawn checks the budget before touching the pool and only counts the
// particle once a slot was handed out.
func (t *particles) spawn(s ParticleSpec) bool {
	if t.budget.Available() <= 0 {
		return false
	}
	slot, dot, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	t.budget.take()

	life := s.Life
	if life <= 0 {
		life = defaultParticleLife
	}
	dot.SetPosition(s.X, s.Y)
	dot.SetRadius(s.Size)
	dot.SetColor(s.Color)
	dot.SetAlpha(1)
	dot.SetVisible(true)

	t.live = append(t.live, particle{
		slot:    slot,
		dot:     dot,
		pos:     mgl64.Vec2{s.X, s.Y},
		vel:     mgl64.Vec2{s.VX, s.VY},
		gravity: s.Gravity,
		life:    life,
		maxLife: life,
		size:    s.Size,
		fade:    s.Fade,
		shrink:  s.Shrink,
	})
	return true
}

func (t *particles) advance(dt float64) {
	for i := len(t.live) - 1; i >= 0; i-- {
		p := &t.live[i]
		p.life -= dt
		if p.life <= 0 {
			t.pool.Release(p.slot)
			t.budget.give()
			t.remove(i)
			continue
		}
		p.vel[1] += p.gravity * dt
		p.pos = p.pos.Add(p.vel.Mul(dt))
		p.dot.SetPosition(p.pos.X(), p.pos.Y())

		k := p.life / p.maxLife
		if p.fade {
			p.dot.SetAlpha(k)
		}
		if p.shrink {
			p.dot.SetRadius(p.size * k)
		}
	}
}

func (t *particles) remove(i int) {
	last := len(t.live) - 1
	t.live[i] = t.live[last]
	t.live[last] = particle{}
	t.live = t.live[:last]
}

func (t *particles) discard() {
	clear(t.live)
	t.live = t.live[:0]
}

// ShardSpec describes one spinning square of debris. Shards have their own
// pool and do not count against the particle budget.
type ShardSpec struct {
	X, Y     float64
	VX, VY   float64
	Color    color.NRGBA
	Size     float64 // edge length
	Life     float64
	Rotation float64
	Spin     float64 // radians per second
	Fade     bool
	Shrink   bool
}

type shard struct {
	slot    Slot
	quad    Quad
	pos     mgl64.Vec2
	vel     mgl64.Vec2
	rot     float64
	spin    float64
	life    float64
	maxLife float64
	size    float64
	fade    bool
	shrink  bool
}

type shards struct {
	pool *Pool[Quad]
	live []shard
}

func newShards(pool *Pool[Quad]) shards {
	return shards{pool: pool, live: make([]shard, 0, pool.Cap())}
}

func (t *shards) spawn(s ShardSpec) bool {
	slot, q, ok := t.pool.Allocate()
	if !ok {
		return false
	}
	life := s.Life
	if life <= 0 {
		life = defaultParticleLife
	}
	q.SetPosition(s.X, s.Y)
	q.SetSize(s.Size)
	q.SetColor(s.Color)
	q.SetRotation(s.Rotation)
	q.SetAlpha(1)
	q.SetVisible(true)

	t.live = append(t.live, shard{
		slot:    slot,
		quad:    q,
		pos:     mgl64.Vec2{s.X, s.Y},
		vel:     mgl64.Vec2{s.VX, s.VY},
		rot:     s.Rotation,
		spin:    s.Spin,
		life:    life,
		maxLife: life,
		size:    s.Size,
		fade:    s.Fade,
		shrink:  s.Shrink,
	})
	return true
}

func (t *shards) advance(dt float64) {
	for i := len(t.live) - 1; i >= 0; i-- {
		s := &t.live[i]
		s.life -= dt
		if s.life <= 0 {
			t.pool.Release(s.slot)
			t.remove(i)
			continue
		}
		s.pos = s.pos.Add(s.vel.Mul(dt))
		s.quad.SetPosition(s.pos.X(), s.pos.Y())
		if s.spin != 0 {
			s.rot += s.spin * dt
			s.quad.SetRotation(s.rot)
		}
		k := s.life / s.maxLife
		if s.fade {
			s.quad.SetAlpha(k)
		}
		if s.shrink {
			s.quad.SetSize(s.size * k)
		}
	}
}

func (t *shards) remove(i int) {
	last := len(t.live) - 1
	t.live[i] = t.live[last]
	t.live[last] = shard{}
	t.live = t.live[:last]
}

func (t *shards) discard() {
	clear(t.live)
	t.live = t.live[:0]
}
