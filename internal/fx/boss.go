package fx

import (
	"image/color"
	"math"

	"quietquadrant/internal/theme"
)

// Boss death timeline, in seconds from the kill.
const (
	bossShockAt    = 0
	bossEchoAt     = 0.16
	bossEmbersAt   = 0.32
	bossFinaleAt   = 0.62
	bossDeathTotal = 1.35
)

// spawnBossDeath is the big one: a shockwave with shards and core sparks,
// an inward echo ring, a slow ember shower, then a final wide ring. Sizes
// scale with the boss radius; counts scale with the budget left at the kill.
func spawnBossDeath(e *Engine, x, y, bossRadius float64) {
	base := math.Max(playerRadius*6, bossRadius*2.5)
	shock := base * 1.4
	emberRadius := base * 0.45
	budget := max(0, min(e.Available(), 120))
	shardCount := min(36, max(18, budget*4/10))
	emberCount := min(28, max(12, budget/4))
	sparkCount := float64(budget) * 0.35

	boss := e.Color(theme.Boss)
	gold := e.Color(theme.Gold)
	white := e.Color(theme.White)

	e.AddSequence([]Step{
		{At: bossShockAt, Do: func(e *Engine) {
			e.SpawnRing(RingSpec{X: x, Y: y, Color: highlight, Accent: white, Radius: shock, Duration: 0.32})
			e.SpawnRing(RingSpec{X: x, Y: y, Color: boss, Accent: gold, Radius: base * 0.85, Duration: 0.3})
			spawnBossShards(e, x, y, shardCount, base*4.6, boss)
			spawnCoreSparks(e, x, y, sparkCount, emberRadius, boss)
		}},
		{At: bossEchoAt, Do: func(e *Engine) {
			e.SpawnRing(RingSpec{X: x, Y: y, Color: gold, Accent: white, Radius: shock * 0.9, Duration: 0.28, Inward: true})
			e.SpawnRing(RingSpec{X: x, Y: y, Color: boss, Accent: highlight, Radius: base * 1.35, Duration: 0.34})
			spawnBossShards(e, x, y, shardCount*65/100, base*3.2, highlight)
		}},
		{At: bossEmbersAt, Do: func(e *Engine) {
			spawnEmbers(e, x, y, emberCount, emberRadius, boss, gold)
		}},
		{At: bossFinaleAt, Do: func(e *Engine) {
			e.SpawnRing(RingSpec{X: x, Y: y, Color: highlight, Accent: boss, Radius: shock * 1.1, Duration: 0.42})
		}},
	}, bossDeathTotal)
}

func spawnBossShards(e *Engine, x, y float64, count int, speed float64, c color.NRGBA) {
	r := e.rng
	for i := 0; i < count; i++ {
		vx, vy := polar(r.Float64()*tau, speed*(0.65+r.Float64()*0.5))
		e.SpawnShard(ShardSpec{X: x, Y: y, VX: vx, VY: vy, Color: c, Size: 5 + r.Float64()*4,
			Life: 0.42 + r.Float64()*0.18, Fade: true, Shrink: true, Spin: (r.Float64() - 0.5) * 10})
	}
}

// spawnCoreSparks rings the core with 8..40 sparks, alternating white and
// boss color.
func spawnCoreSparks(e *Engine, x, y, count, radius float64, boss color.NRGBA) {
	r := e.rng
	want := max(8, min(40, int(count)))
	e.Burst(want, func(i, n int) ParticleSpec {
		a := tau * float64(i) / float64(n)
		dist := radius * (0.4 + r.Float64()*0.3)
		c := boss
		if i%2 == 0 {
			c = highlight
		}
		return ParticleSpec{X: x + math.Cos(a)*dist, Y: y + math.Sin(a)*dist,
			VX: (r.Float64() - 0.5) * 80, VY: (r.Float64() - 0.5) * 80,
			Color: c, Size: 4 + r.Float64()*2, Life: 0.35 + r.Float64()*0.2, Fade: true, Shrink: true}
	})
}

// spawnEmbers drifts glowing embers up and lets gravity pull them down.
func spawnEmbers(e *Engine, x, y float64, count int, radius float64, boss, gold color.NRGBA) {
	r := e.rng
	e.Burst(count, func(i, n int) ParticleSpec {
		a := r.Float64() * tau
		dist := radius * r.Float64()
		vx, vy := polar(a, 40+r.Float64()*40)
		c := boss
		if i%3 == 0 {
			c = gold
		}
		return ParticleSpec{X: x + math.Cos(a)*dist, Y: y + math.Sin(a)*dist, VX: vx, VY: vy - 20,
			Gravity: 60 + r.Float64()*40, Color: c, Size: 3 + r.Float64()*2,
			Life: 0.8 + r.Float64()*0.25, Fade: true, Shrink: true}
	})
}
