package fx

import (
	"encoding/json"
	"testing"
)

func fullEvent(k Kind) Event {
	ev := Between(10, 10, 80, 40)
	ev.Type = k
	ev.X, ev.Y = ptr(100), ptr(120)
	return ev.WithRadius(30).WithDamage(12, true)
}

func TestEveryKindProducesSomething(t *testing.T) {
	for _, k := range Kinds() {
		e, surf := newTestEngine(Config{Settings: Settings{DamageNumbers: true}})
		e.HandleEvent(fullEvent(k))
		if visible(surf.all()) == 0 && e.Stats().Sequences == 0 {
			t.Fatalf("%s: no visible effect and nothing scheduled", k)
		}
	}
}

func TestUnknownKindIgnored(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.HandleEvent(Event{Type: KindUnknown, X: ptr(1), Y: ptr(1)})
	e.HandleEvent(Event{Type: Kind(200)})
	e.Update(0.1)
	if visible(surf.all()) != 0 || e.Stats().Sequences != 0 {
		t.Fatalf("unknown kinds spawned effects")
	}
}

func TestPositionlessEventsSkipped(t *testing.T) {
	for _, k := range []Kind{SynergyUnlocked, BossSpawn, PlayerDown, Defeat} {
		e, surf := newTestEngine(Config{})
		e.HandleEvent(Event{Type: k, X: ptr(5)})
		e.Update(0.1)
		if visible(surf.all()) != 0 || e.Stats().Sequences != 0 {
			t.Fatalf("%s without a position spawned effects", k)
		}
	}
}

func TestPositionDefaultsToOrigin(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.HandleEvent(Event{Type: Dash})
	if d := shownDots(surf); len(d) != 1 || d[0].x != 0 || d[0].y != 0 {
		t.Fatalf("dash without position: %+v", d)
	}
}

func shownDots(s *fakeSurface) []*fakePrim {
	var out []*fakePrim
	for _, d := range s.dots {
		if d.visible {
			out = append(out, d)
		}
	}
	return out
}

func TestChainArcUsesLinePool(t *testing.T) {
	e, _ := newTestEngine(Config{})
	e.HandleEvent(Between(0, 0, 30, 40))
	st := e.Stats()
	if st.Lines.Active != 1 || st.Particles != 0 {
		t.Fatalf("chain arc stats %+v", st)
	}
	e.HandleEvent(Event{Type: ChainArc, X1: ptr(0), Y1: ptr(0), X2: ptr(1)})
	if e.Stats().Lines.Active != 1 {
		t.Fatalf("arc with a missing endpoint spawned")
	}
}

func TestDamageNumberGating(t *testing.T) {
	e, _ := newTestEngine(Config{})
	hit := At(DamageNumber, 10, 10).WithDamage(25, false)
	e.HandleEvent(hit)
	if e.Stats().Labels.Active != 0 {
		t.Fatalf("damage number shown while disabled")
	}
	e.SetSettings(Settings{DamageNumbers: true})
	e.HandleEvent(hit)
	e.HandleEvent(At(DamageNumber, 10, 10))
	if e.Stats().Labels.Active != 1 {
		t.Fatalf("labels active=%d, want 1", e.Stats().Labels.Active)
	}
}

func TestBossDeathTimeline(t *testing.T) {
	e, surf := newTestEngine(Config{})
	e.HandleEvent(At(BossDeath, 200, 200).WithRadius(40))
	if visible(surf.all()) != 0 {
		t.Fatalf("boss death drew before the first frame")
	}
	if e.Stats().Sequences != 1 {
		t.Fatalf("boss death not scheduled")
	}

	e.Update(0.1)
	st := e.Stats()
	// full budget: 36 shards, two rings, 40 core sparks
	if st.Rings.Active != 2 || st.Shards.Active != 36 || st.Particles != 40 {
		t.Fatalf("shockwave beat: %+v", st)
	}
	e.Update(0.1)
	st = e.Stats()
	if st.Rings.Active != 4 || st.Shards.Active != st.Shards.Cap {
		t.Fatalf("echo beat: %+v", st)
	}
	for i := 0; i < 12; i++ {
		e.Update(0.1)
	}
	if e.Stats().Sequences != 0 {
		t.Fatalf("sequence outlived its 1.35s duration")
	}
	for i := 0; i < 20; i++ {
		e.Update(0.1)
	}
	st = e.Stats()
	if st.Particles != 0 || st.Rings.Active != 0 || st.Shards.Active != 0 {
		t.Fatalf("boss death left live effects: %+v", st)
	}
}

func TestBossDeathUnderLowBudget(t *testing.T) {
	e, _ := newTestEngine(Config{})
	for e.Available() > 10 {
		e.SpawnParticle(still(0, 0))
	}
	e.HandleEvent(At(BossDeath, 0, 0))
	for i := 0; i < 10; i++ {
		e.Update(0.1)
		if e.Stats().Particles > MaxParticles {
			t.Fatalf("budget exceeded: %d", e.Stats().Particles)
		}
	}
}

func TestLevelUpClampedToBudget(t *testing.T) {
	e, _ := newTestEngine(Config{})
	for e.Available() > 3 {
		e.SpawnParticle(still(0, 0))
	}
	e.HandleEvent(At(LevelUp, 0, 0))
	if e.Available() != 0 {
		t.Fatalf("available=%d after a 16-particle burst into 3", e.Available())
	}
}

func TestProcessEventsInOrder(t *testing.T) {
	e, _ := newTestEngine(Config{})
	e.ProcessEvents([]Event{
		At(EnemyHit, 0, 0),
		{Type: KindUnknown},
		At(Dash, 0, 0),
	})
	if got := e.Stats().Particles; got != 5 {
		t.Fatalf("particles=%d, want 4 sparks + 1 trail", got)
	}
}

func TestEventJSON(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"type":"boss-death","x":10,"y":20,"radius":30}`), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	x, y, ok := ev.Pos()
	if ev.Type != BossDeath || !ok || x != 10 || y != 20 || ev.RadiusOr(0) != 30 {
		t.Fatalf("decoded %+v", ev)
	}

	if err := json.Unmarshal([]byte(`{"type":"not-a-thing"}`), &ev); err != nil {
		t.Fatalf("unknown type should decode: %v", err)
	}
	if ev.Type != KindUnknown {
		t.Fatalf("type=%v", ev.Type)
	}

	b, err := json.Marshal(At(Dash, 1, 2))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"type":"dash","x":1,"y":2}` {
		t.Fatalf("encoded %s", b)
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		if ParseKind(k.String()) != k {
			t.Fatalf("%v does not round-trip", k)
		}
	}
	if ParseKind("dash") != Dash || Kind(250).String() != "unknown" {
		t.Fatalf("kind names broken")
	}
}
