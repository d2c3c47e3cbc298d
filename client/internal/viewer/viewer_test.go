package viewer

import (
	"encoding/json"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/config"
	"quietquadrant/internal/fx"
)

func TestSurfaceDepthOrder(t *testing.T) {
	s := NewSurface()
	a := s.NewDot(fx.DepthDot)
	b := s.NewCanvas(fx.DepthRing)
	c := s.NewQuad(fx.DepthShard)
	d := s.NewLabel(fx.DepthLabel)
	e := s.NewCanvas(fx.DepthPhased)

	want := []prim{b.(prim), a.(prim), c.(prim), d.(prim), e.(prim)}
	if len(s.prims) != len(want) {
		t.Fatalf("len=%d", len(s.prims))
	}
	for i := range want {
		if s.prims[i] != want[i] {
			t.Fatalf("prim %d out of order (depth %d)", i, s.prims[i].base().depth)
		}
	}
}

func TestSurfaceCompactsDestroyed(t *testing.T) {
	s := NewSurface()
	a := s.NewDot(1)
	b := s.NewDot(1)
	c := s.NewDot(1)
	a.SetVisible(true)
	b.SetVisible(true)
	c.SetVisible(true)
	if s.Visible() != 3 {
		t.Fatalf("visible=%d", s.Visible())
	}

	b.Destroy()
	b.Destroy()
	if s.Visible() != 2 {
		t.Fatalf("visible=%d after destroy", s.Visible())
	}
	if s.Len() != 2 {
		t.Fatalf("len=%d after compact", s.Len())
	}
	if s.prims[0] != a.(prim) || s.prims[1] != c.(prim) {
		t.Fatalf("compaction reordered primitives")
	}
}

func TestCanvasRecordsOps(t *testing.T) {
	s := NewSurface()
	cv := s.NewCanvas(fx.DepthArc).(*canvas)
	red := color.NRGBA{255, 0, 0, 255}

	buf := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}
	cv.StrokeCircle(0, 0, 5, 2, red, 1)
	cv.StrokePath(buf, 1, red, 0.5, true)
	buf[0] = mgl64.Vec2{99, 99}
	cv.FillCircle(1, 1, 3, red, 1)

	if len(cv.ops) != 3 || len(cv.pts) != 3 {
		t.Fatalf("ops=%d pts=%d", len(cv.ops), len(cv.pts))
	}
	if cv.pts[0] != (mgl64.Vec2{0, 0}) {
		t.Fatalf("path points not copied: %v", cv.pts[0])
	}
	if op := cv.ops[1]; op.kind != opPath || op.from != 0 || op.to != 3 || !op.closed {
		t.Fatalf("path op %+v", op)
	}

	cv.Clear()
	if len(cv.ops) != 0 || len(cv.pts) != 0 {
		t.Fatalf("clear left ops=%d pts=%d", len(cv.ops), len(cv.pts))
	}
}

func TestFade(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 200}
	if got := fade(c, 0.5); got.A != 100 || got.R != 10 {
		t.Fatalf("fade=%v", got)
	}
	if got := fade(c, 2); got.A != 200 {
		t.Fatalf("fade clamps high: %v", got)
	}
	if got := fade(c, -1); got.A != 0 {
		t.Fatalf("fade clamps low: %v", got)
	}
}

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("QQ_PROFILE", "test")
	return openViewer(t)
}

func openViewer(t *testing.T) *Viewer {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 7
	v, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(v.Close)
	return v
}

func TestViewerCycleThemeRebuilds(t *testing.T) {
	v := newViewer(t)
	if v.palette.Name() != "vectrex" {
		t.Fatalf("start theme %q", v.palette.Name())
	}
	old, oldSurf := v.Engine(), v.surf
	v.SpawnAt(fx.BossDeath, 100, 100)
	v.Step(0.016)
	if v.Engine().Stats().Particles == 0 {
		t.Fatalf("boss death spawned nothing")
	}

	v.CycleTheme()
	if v.palette.Name() != "christmas" {
		t.Fatalf("theme=%q", v.palette.Name())
	}
	if !old.Destroyed() || v.Engine() == old || v.surf == oldSurf {
		t.Fatalf("theme change did not rebuild the engine")
	}
	if oldSurf.Len() != 0 {
		t.Fatalf("old surface kept %d primitives", oldSurf.Len())
	}
	if st := v.Engine().Stats(); st.Particles != 0 || st.Sequences != 0 {
		t.Fatalf("fresh engine not empty: %+v", st)
	}

	v.CycleTheme()
	if v.palette.Name() != "vectrex" {
		t.Fatalf("cycle did not wrap: %q", v.palette.Name())
	}
}

func TestViewerDamageNumbersSurviveRebuild(t *testing.T) {
	v := newViewer(t)
	if v.Engine().Settings().DamageNumbers {
		t.Fatalf("damage numbers on by default")
	}
	v.ToggleDamageNumbers()
	if !v.Engine().Settings().DamageNumbers {
		t.Fatalf("toggle not applied")
	}
	v.CycleTheme()
	if !v.Engine().Settings().DamageNumbers {
		t.Fatalf("toggle lost on theme change")
	}
}

func TestViewerPrefsPersist(t *testing.T) {
	v := newViewer(t)
	v.CycleTheme()
	v.ToggleDamageNumbers()
	if filepath.Base(filepath.Dir(v.prefsPath)) != "test" {
		t.Fatalf("prefs path %s ignores profile", v.prefsPath)
	}

	again := openViewer(t)
	if again.palette.Name() != "christmas" || !again.Engine().Settings().DamageNumbers {
		t.Fatalf("prefs not restored: theme %q settings %+v", again.palette.Name(), again.Engine().Settings())
	}
}

func TestLoadPrefsMissing(t *testing.T) {
	p, ok, err := LoadPrefs(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil || ok || p != (Prefs{}) {
		t.Fatalf("missing prefs: %+v %v %v", p, ok, err)
	}
}

func TestSanitizeProfile(t *testing.T) {
	cases := map[string]string{
		" Dev Box ": "dev_box",
		"a/b\\c":    "abc",
		"!!":        "default",
	}
	for in, want := range cases {
		if got := sanitize(in); got != want {
			t.Fatalf("sanitize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestViewerRunsLocalDemo(t *testing.T) {
	v := newViewer(t)
	for i := 0; i < 60*10; i++ {
		v.Step(1.0 / 60)
	}
	if v.tick < 190 || v.tick > 200 {
		t.Fatalf("tick=%d after 10s at 20/s", v.tick)
	}
	st := v.Engine().Stats()
	if st.Particles > st.Budget {
		t.Fatalf("budget exceeded: %+v", st)
	}

	v.TogglePause()
	at := v.tick
	for i := 0; i < 60; i++ {
		v.Step(1.0 / 60)
	}
	if v.tick != at {
		t.Fatalf("paused viewer advanced %d ticks", v.tick-at)
	}
}

func TestViewerStatsJSON(t *testing.T) {
	v := newViewer(t)
	v.SpawnAt(fx.Explosion, 50, 50)
	var st fx.Stats
	if err := json.Unmarshal([]byte(v.StatsJSON()), &st); err != nil {
		t.Fatalf("stats json: %v", err)
	}
	if st.Budget != fx.MaxParticles || st.Particles == 0 {
		t.Fatalf("stats %+v", st)
	}
}

func TestViewerRejectsBadFeedURL(t *testing.T) {
	cfg := config.Default()
	cfg.Feed.URL = "ftp://nowhere"
	if _, err := New(cfg); err == nil {
		t.Fatalf("bad feed url accepted")
	}
}
