// Package demo produces synthetic gameplay events for viewers and the feed
// server when no real game is attached.
package demo

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/fx"
)

// Source yields the events for one simulation tick.
type Source interface {
	Next(tick int) []fx.Event
}

const (
	ArenaW = 960
	ArenaH = 540

	maxEnemies = 10
	enemyHP    = 3
	bossHP     = 25
	enemySpeed = 40.0 // px/s
)

type enemy struct {
	pos   mgl64.Vec2
	hp    int
	boss  bool
	alive bool
}

// Generator is a tiny deterministic arena: a player circles the middle,
// enemies drift in and get shot, a boss shows up every 30 seconds.
type Generator struct {
	rng      *rand.Rand
	tickRate int
	player   mgl64.Vec2
	enemies  []enemy
	boss     int // index into enemies, -1 when none
	out      []fx.Event
}

func New(seed int64, tickRate int) *Generator {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		tickRate: tickRate,
		enemies:  make([]enemy, 0, maxEnemies+1),
		boss:     -1,
	}
}

func (g *Generator) seconds(tick int) float64 { return float64(tick) / float64(g.tickRate) }

// every reports whether tick lands on a period boundary shifted by offset.
func (g *Generator) every(tick int, period, offset float64) bool {
	p := int(period * float64(g.tickRate))
	if p <= 0 {
		return false
	}
	return tick%p == int(offset*float64(g.tickRate))%p
}

func (g *Generator) emit(ev fx.Event) { g.out = append(g.out, ev) }

func (g *Generator) at(k fx.Kind, p mgl64.Vec2) fx.Event { return fx.At(k, p.X(), p.Y()) }

// Next advances the arena by one tick. The returned slice is reused by the
// following call.
func (g *Generator) Next(tick int) []fx.Event {
	g.out = g.out[:0]
	dt := 1 / float64(g.tickRate)
	t := g.seconds(tick)
	g.player = mgl64.Vec2{
		ArenaW/2 + math.Cos(t*0.7)*ArenaW/3,
		ArenaH/2 + math.Sin(t*1.1)*ArenaH/3,
	}

	if g.every(tick, 20, 0) {
		g.emit(fx.At(fx.WaveStart, ArenaW/2, ArenaH/2))
	}
	if g.every(tick, 30, 5) && g.boss < 0 {
		g.spawnBoss()
	}
	if g.rng.Float64() < 0.15 && g.living() < maxEnemies {
		g.spawnEnemy()
	}
	g.step(dt)

	if g.every(tick, 3, 1) {
		g.emit(g.at(fx.Dash, g.player))
		g.emit(g.at(fx.DashSparks, g.player))
	}
	if g.rng.Float64() < 0.35 {
		g.shoot()
	}
	g.ambient(tick)
	g.compact()
	return g.out
}

func (g *Generator) living() int {
	n := 0
	for _, e := range g.enemies {
		if e.alive && !e.boss {
			n++
		}
	}
	return n
}

func (g *Generator) edgePoint() mgl64.Vec2 {
	switch g.rng.Intn(4) {
	case 0:
		return mgl64.Vec2{g.rng.Float64() * ArenaW, 0}
	case 1:
		return mgl64.Vec2{g.rng.Float64() * ArenaW, ArenaH}
	case 2:
		return mgl64.Vec2{0, g.rng.Float64() * ArenaH}
	default:
		return mgl64.Vec2{ArenaW, g.rng.Float64() * ArenaH}
	}
}

func (g *Generator) spawnEnemy() {
	e := enemy{pos: g.edgePoint(), hp: enemyHP, alive: true}
	if g.rng.Float64() < 0.2 {
		g.emit(g.at(fx.PhantomTelegraph, e.pos))
	}
	g.enemies = append(g.enemies, e)
}

func (g *Generator) spawnBoss() {
	pos := mgl64.Vec2{ArenaW / 2, ArenaH / 4}
	g.enemies = append(g.enemies, enemy{pos: pos, hp: bossHP, boss: true, alive: true})
	g.boss = len(g.enemies) - 1
	g.emit(g.at(fx.BossSpawn, pos))
}

// step drifts enemies toward the player; contact hurts the player.
func (g *Generator) step(dt float64) {
	for i := range g.enemies {
		e := &g.enemies[i]
		if !e.alive || e.boss {
			continue
		}
		d := g.player.Sub(e.pos)
		if d.Len() < 14 {
			g.emit(g.at(fx.PlayerHit, g.player))
			e.pos = g.edgePoint()
			continue
		}
		e.pos = e.pos.Add(d.Normalize().Mul(enemySpeed * dt))
	}
}

// shoot hits a random live enemy.
func (g *Generator) shoot() {
	var idx []int
	for i, e := range g.enemies {
		if e.alive {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}
	i := idx[g.rng.Intn(len(idx))]
	e := &g.enemies[i]
	crit := g.rng.Float64() < 0.15
	dmg := 1
	if crit {
		dmg = 2
		g.emit(g.at(fx.CritHit, e.pos))
	}
	amount := 8 + g.rng.Float64()*10
	if crit {
		amount *= 2
	}
	g.emit(g.at(fx.EnemyHit, e.pos))
	g.emit(g.at(fx.DamageNumber, e.pos).WithDamage(amount, crit))
	e.hp -= dmg
	if e.hp > 0 {
		return
	}
	e.alive = false
	if e.boss {
		g.emit(g.at(fx.BossDeath, e.pos).WithRadius(40))
		g.boss = -1
		return
	}
	g.emit(g.at(fx.EnemyDeath, e.pos))
	g.emit(g.at(fx.XPPickup, e.pos))
	if g.rng.Float64() < 0.2 {
		g.chain(i)
	}
}

// chain blows up the dead enemy and arcs to the nearest live one.
func (g *Generator) chain(from int) {
	src := g.enemies[from].pos
	g.emit(g.at(fx.ChainReaction, src).WithRadius(30 + g.rng.Float64()*20))
	best, bestD := -1, math.MaxFloat64
	for i, e := range g.enemies {
		if !e.alive || e.boss || i == from {
			continue
		}
		if d := e.pos.Sub(src).Len(); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return
	}
	dst := g.enemies[best].pos
	g.emit(fx.Between(src.X(), src.Y(), dst.X(), dst.Y()))
	g.emit(g.at(fx.Shrapnel, dst))
}

// ambient sprinkles the rarer player-side events.
func (g *Generator) ambient(tick int) {
	switch {
	case g.every(tick, 12, 4):
		g.emit(g.at(fx.ShieldActivate, g.player))
	case g.every(tick, 12, 7):
		g.emit(g.at(fx.ShieldBreak, g.player))
	case g.every(tick, 9, 2):
		g.emit(g.at(fx.Heal, g.player))
	case g.every(tick, 45, 44):
		g.emit(g.at(fx.LevelUp, g.player))
		g.emit(g.at(fx.SynergyUnlocked, g.player))
	case g.every(tick, 60, 59):
		g.emit(g.at(fx.Defeat, g.player))
	}
	if g.rng.Float64() < 0.02 {
		p := g.player.Add(mgl64.Vec2{(g.rng.Float64() - 0.5) * 120, (g.rng.Float64() - 0.5) * 120})
		g.emit(g.at(fx.Singularity, p))
	}
	if g.rng.Float64() < 0.03 {
		g.emit(g.at(fx.Ricochet, g.player.Add(mgl64.Vec2{30, -10})))
	}
}

// compact drops dead enemies, keeping the boss index valid.
func (g *Generator) compact() {
	kept := g.enemies[:0]
	g.boss = -1
	for _, e := range g.enemies {
		if !e.alive {
			continue
		}
		if e.boss {
			g.boss = len(kept)
		}
		kept = append(kept, e)
	}
	g.enemies = kept
}
