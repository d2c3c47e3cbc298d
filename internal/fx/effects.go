package fx

import (
	"image/color"
	"math"

	"quietquadrant/internal/theme"
)

// Spawn routines, one per event family. Counts are clamped to the particle
// budget through Burst; shards and rings are only limited by their pools.

const tau = 2 * math.Pi

func polar(angle, speed float64) (vx, vy float64) {
	return math.Cos(angle) * speed, math.Sin(angle) * speed
}

func spawnHitSpark(e *Engine, x, y float64, c color.NRGBA) {
	r := e.rng
	e.Burst(4, func(i, n int) ParticleSpec {
		vx, vy := polar(r.Float64()*tau, 40+r.Float64()*40)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c, Size: 1.5,
			Life: 0.15 + r.Float64()*0.1, Fade: true}
	})
}

func spawnDashTrail(e *Engine, x, y float64) {
	e.SpawnParticle(ParticleSpec{X: x, Y: y, Color: e.Color(theme.Cyan), Size: 4,
		Life: 0.2, Fade: true, Shrink: true})
}

// spawnExplosion is the crit-hit pop: a fast gold ring around the player radius.
func spawnExplosion(e *Engine, x, y float64) {
	gold := e.Color(theme.Gold)
	radius := playerRadius * 1.2 * (0.95 + e.rng.Float64()*0.1)
	e.SpawnRing(RingSpec{X: x, Y: y, Color: gold, Accent: gold, Radius: radius, Duration: 0.2})
}

func spawnCritFlash(e *Engine, x, y float64) {
	r := e.rng
	yellow := theme.RGB(0xffff00)
	e.Burst(12, func(i, n int) ParticleSpec {
		vx, vy := polar(tau*float64(i)/float64(n)+r.Float64()*0.3, 120+r.Float64()*80)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: yellow,
			Size: 3 + r.Float64()*2, Life: 0.3 + r.Float64()*0.15, Fade: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: yellow, Radius: 60, Duration: 0.25})
}

func spawnShrapnelBurst(e *Engine, x, y float64, c color.NRGBA) {
	r := e.rng
	e.Burst(10, func(i, n int) ParticleSpec {
		vx, vy := polar(r.Float64()*tau, 60+r.Float64()*100)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c,
			Size: 2 + r.Float64()*1.5, Life: 0.2 + r.Float64()*0.15, Fade: true}
	})
}

func spawnExplosionRing(e *Engine, x, y, radius float64) {
	r := e.rng
	danger := e.Color(theme.Danger)
	e.Burst(16, func(i, n int) ParticleSpec {
		vx, vy := polar(tau*float64(i)/float64(n), 80+r.Float64()*40)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: danger,
			Size: 2.5 + r.Float64()*1.5, Life: 0.35, Fade: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: danger, Radius: radius, Duration: 0.3})
}

func spawnEnemyDeath(e *Engine, x, y float64) {
	e.spawnPhased(shapeEnemyBlast, x, y, playerRadius, enemyRed)
	r := e.rng
	const debris = 10
	for i := 0; i < debris; i++ {
		vx, vy := polar(float64(i)/debris*tau+r.Float64()*0.5, 90+r.Float64()*70)
		e.SpawnShard(ShardSpec{X: x, Y: y, VX: vx, VY: vy, Color: enemyRed, Size: 4,
			Life: 0.4 + r.Float64()*0.2, Fade: true, Shrink: true, Spin: (r.Float64() - 0.5) * 8})
	}
}

func spawnVolatileBurst(e *Engine, x, y, radius float64) {
	health := e.Color(theme.Health)
	e.spawnPhased(shapeVolatileBurst, x, y, radius, health)
	r := e.rng
	const debris = 8
	for i := 0; i < debris; i++ {
		vx, vy := polar(float64(i)/debris*tau, radius*(2+r.Float64()))
		e.SpawnShard(ShardSpec{X: x, Y: y, VX: vx, VY: vy, Color: health, Size: 3,
			Life: 0.3, Fade: true, Shrink: true, Spin: (r.Float64() - 0.5) * 10})
	}
}

func spawnSingularity(e *Engine, x, y float64) {
	r := e.rng
	violet := theme.RGB(0xaa00ff)
	e.Burst(8, func(i, n int) ParticleSpec {
		a := tau * float64(i) / float64(n)
		dist := 30 + r.Float64()*20
		vx, vy := polar(a, -60)
		return ParticleSpec{X: x + math.Cos(a)*dist, Y: y + math.Sin(a)*dist, VX: vx, VY: vy,
			Color: violet, Size: 2, Life: 0.25, Fade: true, Shrink: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: violet, Radius: 25, Duration: 0.2, Inward: true})
}

func spawnSynergyUnlock(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.Synergy)
	e.Burst(20, func(i, n int) ParticleSpec {
		vx, vy := polar(tau*float64(i)/float64(n), 80+r.Float64()*60)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c,
			Size: 3 + r.Float64()*2, Life: 0.6 + r.Float64()*0.2, Fade: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: c, Radius: 50, Duration: 0.4})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: c, Radius: 80, Duration: 0.5})
}

// spawnBossEntrance pulls a circle of particles into the spawn point.
func spawnBossEntrance(e *Engine, x, y float64) {
	r := e.rng
	boss := e.Color(theme.Boss)
	e.Burst(24, func(i, n int) ParticleSpec {
		a := tau * float64(i) / float64(n)
		dist := 100 + r.Float64()*50
		vx, vy := polar(a, -150)
		return ParticleSpec{X: x + math.Cos(a)*dist, Y: y + math.Sin(a)*dist, VX: vx, VY: vy,
			Color: boss, Size: 4, Life: 0.5, Fade: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: boss, Radius: 120, Duration: 0.6})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: highlight, Radius: 80, Duration: 0.4})
}

func spawnPlayerDown(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.Health)
	e.Burst(20, func(i, n int) ParticleSpec {
		vx, vy := polar(tau*float64(i)/float64(n), 60+r.Float64()*80)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c,
			Size: 3 + r.Float64()*2, Life: 0.8, Fade: true, Gravity: 50}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: c, Radius: 60, Duration: 0.4})
}

func spawnShieldActivate(e *Engine, x, y float64) {
	c := e.Color(theme.Cyan)
	e.Burst(12, func(i, n int) ParticleSpec {
		a := tau * float64(i) / float64(n)
		vx, vy := polar(a, 30)
		return ParticleSpec{X: x + math.Cos(a)*20, Y: y + math.Sin(a)*20, VX: vx, VY: vy,
			Color: c, Size: 2.5, Life: 0.4, Fade: true}
	})
	e.SpawnRing(RingSpec{X: x, Y: y, Color: c, Radius: 30, Duration: 0.3})
}

func spawnShieldBreak(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.Cyan)
	e.Burst(8, func(i, n int) ParticleSpec {
		vx, vy := polar(r.Float64()*tau, 80+r.Float64()*60)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c, Size: 2, Life: 0.25, Fade: true}
	})
}

func spawnHeal(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.XP)
	e.Burst(6, func(i, n int) ParticleSpec {
		return ParticleSpec{X: x + (r.Float64()-0.5)*20, Y: y,
			VX: (r.Float64() - 0.5) * 20, VY: -60 - r.Float64()*40,
			Color: c, Size: 2.5, Life: 0.5, Fade: true}
	})
}

func spawnLevelUp(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.Gold)
	e.Burst(16, func(i, n int) ParticleSpec {
		vx, vy := polar(tau*float64(i)/float64(n), 100+r.Float64()*40)
		return ParticleSpec{X: x, Y: y, VX: vx, VY: vy, Color: c, Size: 3, Life: 0.5, Fade: true}
	})
}

func spawnXPPickup(e *Engine, x, y float64) {
	r := e.rng
	c := e.Color(theme.XP)
	e.Burst(3, func(i, n int) ParticleSpec {
		return ParticleSpec{X: x, Y: y, VX: (r.Float64() - 0.5) * 30, VY: -40 - r.Float64()*20,
			Color: c, Size: 2, Life: 0.3, Fade: true, Gravity: 80}
	})
}

var (
	defeatRed    = theme.RGB(0xf14e4e)
	defeatAccent = theme.RGB(0x9ff0ff)
)

// spawnPlayerDefeat: debris now, then three widening rings 0.1s apart.
func spawnPlayerDefeat(e *Engine, x, y float64) {
	base := playerRadius * 4.2
	beats := []struct {
		at, radius, dur float64
		c               color.NRGBA
	}{
		{0, base, 0.24, defeatRed},
		{0.1, base * 1.4, 0.22, defeatAccent},
		{0.2, base * 1.8, 0.2, highlight},
	}
	steps := make([]Step, len(beats))
	for i, b := range beats {
		ring := RingSpec{X: x, Y: y, Color: b.c, Accent: b.c, Radius: b.radius, Duration: b.dur}
		steps[i] = Step{At: b.at, Do: func(e *Engine) { e.SpawnRing(ring) }}
	}

	r := e.rng
	const debris = 12
	for i := 0; i < debris; i++ {
		vx, vy := polar(float64(i)/debris*tau, 120+r.Float64()*100)
		e.SpawnShard(ShardSpec{X: x, Y: y, VX: vx, VY: vy, Color: defeatAccent, Size: 6,
			Life: 0.5 + r.Float64()*0.2, Fade: true, Shrink: true, Spin: (r.Float64() - 0.5) * 6})
	}
	e.AddSequence(steps, 0.6)
}
