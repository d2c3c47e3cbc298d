package fx

import (
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

// playerRadius is the game's player radius in world units; several effects
// scale from it.
const playerRadius = 12

// Capacities are the fixed pool sizes per primitive kind.
type Capacities struct {
	Points int `json:"points" yaml:"points"`
	Lines  int `json:"lines" yaml:"lines"`
	Rings  int `json:"rings" yaml:"rings"`
	Shards int `json:"shards" yaml:"shards"`
	Labels int `json:"labels" yaml:"labels"`
	Phased int `json:"phased" yaml:"phased"`
}

func DefaultCapacities() Capacities {
	return Capacities{Points: 350, Lines: 20, Rings: 15, Shards: 40, Labels: 40, Phased: 50}
}

// Settings are runtime toggles.
type Settings struct {
	DamageNumbers bool `json:"damageNumbers"`
}

// Config sizes an engine. Zero fields take defaults; a negative capacity
// means an empty pool.
type Config struct {
	Capacities   Capacities
	MaxParticles int
	Settings     Settings
	Seed         int64 // 0 seeds from the clock
}

func (c Config) withDefaults() Config {
	def := DefaultCapacities()
	fill := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&c.Capacities.Points, def.Points)
	fill(&c.Capacities.Lines, def.Lines)
	fill(&c.Capacities.Rings, def.Rings)
	fill(&c.Capacities.Shards, def.Shards)
	fill(&c.Capacities.Labels, def.Labels)
	fill(&c.Capacities.Phased, def.Phased)
	fill(&c.MaxParticles, MaxParticles)
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Engine owns every pool, tracker and the particle budget for one play
// session. It is driven from a single goroutine: Update once per frame,
// HandleEvent/ProcessEvents between frames. It is not safe for concurrent use.
type Engine struct {
	palette  Palette
	rng      *rand.Rand
	settings Settings
	budget   Budget

	dots      *Pool[Dot]
	quads     *Pool[Quad]
	texts     *Pool[Label]
	lineCv    *Pool[Canvas]
	ringCv    *Pool[Canvas]
	phasedCv  *Pool[Canvas]
	particles particles
	shards    shards
	arcs      arcs
	rings     rings
	labels    labels
	phased    phased
	seq       Scheduler

	destroyed bool
}

// New builds an engine whose primitives all come from surf up front.
func New(surf Surface, pal Palette, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	caps := cfg.Capacities
	e := &Engine{
		palette:  pal,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		settings: cfg.Settings,
		budget:   NewBudget(cfg.MaxParticles),
	}
	e.dots = NewPool(caps.Points, func() Dot { return surf.NewDot(DepthDot) })
	e.quads = NewPool(caps.Shards, func() Quad { return surf.NewQuad(DepthShard) })
	e.texts = NewPool(caps.Labels, func() Label { return surf.NewLabel(DepthLabel) })
	e.lineCv = NewPool(caps.Lines, func() Canvas { return surf.NewCanvas(DepthArc) })
	e.ringCv = NewPool(caps.Rings, func() Canvas { return surf.NewCanvas(DepthRing) })
	e.phasedCv = NewPool(caps.Phased, func() Canvas { return surf.NewCanvas(DepthPhased) })

	e.particles = newParticles(e.dots, &e.budget)
	e.shards = newShards(e.quads)
	e.arcs = newArcs(e.lineCv)
	e.rings = newRings(e.ringCv)
	e.labels = newLabels(e.texts)
	e.phased = newPhased(e.phasedCv)

	log.Printf("FX: pools ready points=%d budget=%d lines=%d rings=%d shards=%d labels=%d phased=%d",
		caps.Points, cfg.MaxParticles, caps.Lines, caps.Rings, caps.Shards, caps.Labels, caps.Phased)
	return e
}

// Available is the particle budget headroom; zero once destroyed.
func (e *Engine) Available() int {
	if e.destroyed {
		return 0
	}
	return e.budget.Available()
}

// Color resolves a theme role through the injected palette.
func (e *Engine) Color(r theme.Role) color.NRGBA {
	if e.palette == nil {
		return highlight
	}
	return e.palette.Color(r)
}

// Rand is the engine's random source, for effect jitter.
func (e *Engine) Rand() *rand.Rand { return e.rng }

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) SetSettings(s Settings) { e.settings = s }

// SpawnParticle spawns one budgeted point particle. It reports false when
// the budget or the pool is exhausted.
func (e *Engine) SpawnParticle(p ParticleSpec) bool {
	if e.destroyed {
		return false
	}
	return e.particles.spawn(p)
}

// Burst spawns up to n particles, clamped to the budget headroom. gen gets
// the index and the clamped count. It returns the number spawned.
func (e *Engine) Burst(n int, gen func(i, n int) ParticleSpec) int {
	if a := e.Available(); n > a {
		n = a
	}
	spawned := 0
	for i := 0; i < n; i++ {
		if e.SpawnParticle(gen(i, n)) {
			spawned++
		}
	}
	return spawned
}

func (e *Engine) SpawnShard(s ShardSpec) bool {
	if e.destroyed {
		return false
	}
	return e.shards.spawn(s)
}

func (e *Engine) SpawnRing(r RingSpec) bool {
	if e.destroyed {
		return false
	}
	return e.rings.spawn(r)
}

// SpawnArc draws a chain-lightning arc between two points.
func (e *Engine) SpawnArc(x1, y1, x2, y2 float64) bool {
	if e.destroyed {
		return false
	}
	return e.arcs.spawn(mgl64.Vec2{x1, y1}, mgl64.Vec2{x2, y2}, e.rng)
}

// SpawnDamageNumber floats a damage value above (x, y).
func (e *Engine) SpawnDamageNumber(x, y, amount float64, crit bool) bool {
	if e.destroyed {
		return false
	}
	return e.labels.spawnDamage(x, y, amount, crit, e.rng)
}

func (e *Engine) spawnPhased(s shape, x, y, radius float64, c color.NRGBA) bool {
	if e.destroyed {
		return false
	}
	return e.phased.spawn(s, x, y, radius, c)
}

// AddSequence schedules a multi-step effect; see Scheduler.Add.
func (e *Engine) AddSequence(steps []Step, duration float64) {
	if e.destroyed {
		return
	}
	e.seq.Add(steps, duration)
}

// Update advances every tracker by dt seconds. Sequences run last, so
// anything their steps spawn is first advanced on the next frame.
func (e *Engine) Update(dt float64) {
	if e.destroyed || dt <= 0 {
		return
	}
	e.particles.advance(dt)
	e.shards.advance(dt)
	e.arcs.advance(dt)
	e.rings.advance(dt)
	e.labels.advance(dt)
	e.phased.advance(dt, e.rng)
	e.seq.Advance(dt, e)
}

// Destroy destroys every pooled primitive once and drops all records and
// pending sequence steps. The engine is inert afterwards.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.seq.Reset()
	e.particles.discard()
	e.shards.discard()
	e.arcs.discard()
	e.rings.discard()
	e.labels.discard()
	e.phased.discard()
	e.budget.reset()
	e.dots.Destroy()
	e.quads.Destroy()
	e.texts.Destroy()
	e.lineCv.Destroy()
	e.ringCv.Destroy()
	e.phasedCv.Destroy()
	log.Println("FX: engine destroyed")
}

func (e *Engine) Destroyed() bool { return e.destroyed }

// PoolStats is one pool's occupancy.
type PoolStats struct {
	Active int `json:"active"`
	Cap    int `json:"cap"`
}

// Stats is a snapshot for HUDs and debugging.
type Stats struct {
	Particles int       `json:"particles"`
	Budget    int       `json:"budget"`
	Available int       `json:"available"`
	Points    PoolStats `json:"points"`
	Lines     PoolStats `json:"lines"`
	Rings     PoolStats `json:"rings"`
	Shards    PoolStats `json:"shards"`
	Labels    PoolStats `json:"labels"`
	Phased    PoolStats `json:"phased"`
	Sequences int       `json:"sequences"`
}

func poolStats[T Primitive](p *Pool[T]) PoolStats {
	return PoolStats{Active: p.Active(), Cap: p.Cap()}
}

func (e *Engine) Stats() Stats {
	return Stats{
		Particles: e.budget.Active(),
		Budget:    e.budget.Max(),
		Available: e.Available(),
		Points:    poolStats(e.dots),
		Lines:     poolStats(e.lineCv),
		Rings:     poolStats(e.ringCv),
		Shards:    poolStats(e.quads),
		Labels:    poolStats(e.texts),
		Phased:    poolStats(e.phasedCv),
		Sequences: e.seq.Len(),
	}
}
