package fx

import "quietquadrant/internal/theme"

// ProcessEvents handles a tick's events in delivery order.
func (e *Engine) ProcessEvents(batch []Event) {
	for i := range batch {
		e.HandleEvent(batch[i])
	}
}

// HandleEvent dispatches one event to its spawn routine. Unknown kinds are
// ignored. Kinds whose effect is anchored on a point the event does not
// carry are skipped; other missing fields take defaults.
func (e *Engine) HandleEvent(ev Event) {
	if e.destroyed {
		return
	}
	x, y, hasPos := ev.Pos()
	switch ev.Type {
	case EnemyDeath:
		spawnEnemyDeath(e, x, y)
	case PlayerHit:
		spawnHitSpark(e, x, y, e.Color(theme.Danger))
	case EnemyHit, Ricochet:
		spawnHitSpark(e, x, y, e.Color(theme.White))
	case Dash:
		spawnDashTrail(e, x, y)
	case BossDeath:
		spawnBossDeath(e, x, y, ev.RadiusOr(playerRadius*4))
	case CritHit:
		spawnExplosion(e, x, y)
	case Shrapnel:
		spawnShrapnelBurst(e, x, y, e.Color(theme.Danger))
	case DashSparks:
		spawnShrapnelBurst(e, x, y, e.Color(theme.Cyan))
	case Explosion:
		spawnExplosionRing(e, x, y, ev.RadiusOr(40))
	case ChainReaction:
		spawnVolatileBurst(e, x, y, ev.RadiusOr(40))
	case ChainArc:
		if x1, y1, x2, y2, ok := ev.Ends(); ok {
			e.SpawnArc(x1, y1, x2, y2)
		}
	case Singularity:
		spawnSingularity(e, x, y)
	case SynergyUnlocked:
		if hasPos {
			spawnSynergyUnlock(e, x, y)
		}
	case BossSpawn:
		if hasPos {
			spawnBossEntrance(e, x, y)
		}
	case PlayerDown:
		if hasPos {
			spawnPlayerDown(e, x, y)
		}
	case ShieldActivate:
		spawnShieldActivate(e, x, y)
	case ShieldBreak, NeutronBlock:
		spawnShieldBreak(e, x, y)
	case Heal:
		spawnHeal(e, x, y)
	case Defeat:
		if hasPos {
			spawnPlayerDefeat(e, x, y)
		}
	case DamageNumber:
		if e.settings.DamageNumbers && ev.Amount != nil {
			e.SpawnDamageNumber(x, y, *ev.Amount, ev.IsCrit)
		}
	case PhantomTelegraph:
		e.spawnPhased(shapePhantomTelegraph, x, y, ev.RadiusOr(12), e.Color(theme.Enemy))
	case LevelUp:
		spawnLevelUp(e, x, y)
	case XPPickup:
		spawnXPPickup(e, x, y)
	case WaveStart:
		e.SpawnRing(RingSpec{X: x, Y: y, Color: e.Color(theme.Cyan), Radius: 150, Duration: 0.5})
	case CritFlash:
		spawnCritFlash(e, x, y)
	}
}
