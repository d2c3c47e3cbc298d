// Package viewer is the desktop effects viewer: it runs the fx engine on an
// ebiten surface and feeds it from the feed server or the local demo.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"quietquadrant/client/internal/feed"
	"quietquadrant/client/internal/netcfg"
	"quietquadrant/internal/config"
	"quietquadrant/internal/demo"
	"quietquadrant/internal/fx"
	"quietquadrant/internal/theme"
	"quietquadrant/shared/protocol"
)

// Kinds on the number keys 1..9.
var digitKinds = [9]fx.Kind{
	fx.EnemyDeath, fx.Explosion, fx.ChainReaction, fx.Singularity, fx.SynergyUnlocked,
	fx.BossSpawn, fx.PlayerDown, fx.Defeat, fx.PhantomTelegraph,
}

var digitKeys = [9]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type connResult struct {
	c   *feed.Conn
	err error
}

type Viewer struct {
	cfg      config.Config
	themes   []string
	themeIdx int
	palette  theme.Theme
	settings fx.Settings

	surf *Surface
	eng  *fx.Engine

	// local source
	gen    demo.Source
	tick   int
	acc    float64
	paused bool

	// remote source
	wsURL, apiBase  string
	conn            *feed.Conn
	connCh          chan connResult
	connectInFlight bool
	retryAt         time.Time
	batches         []protocol.Events
	lastTick        int64

	status    string
	statusT   float64
	prefsPath string
}

func New(cfg config.Config) (*Viewer, error) {
	ws, api, err := netcfg.Resolve(cfg.Feed.URL, cfg.Feed.APIBase)
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		cfg:       cfg,
		themes:    cfg.ThemeNames(),
		settings:  fx.Settings{DamageNumbers: cfg.DamageNumbers},
		wsURL:     ws,
		apiBase:   api,
		connCh:    make(chan connResult, 1),
		lastTick:  -1,
		prefsPath: PrefsPath(),
	}
	v.selectTheme(cfg.Theme)
	if p, ok, err := LoadPrefs(v.prefsPath); err != nil {
		log.Printf("VIEWER: prefs %s: %v", v.prefsPath, err)
	} else if ok {
		v.selectTheme(p.Theme)
		v.settings.DamageNumbers = p.DamageNumbers
	}
	if ws == "" {
		v.gen = demo.New(cfg.Seed, cfg.Server.TickRate)
	}
	if err := v.rebuild(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) selectTheme(name string) {
	for i, n := range v.themes {
		if n == name {
			v.themeIdx = i
		}
	}
}

// rebuild tears the engine down and builds a fresh one on a new surface
// with the current theme.
func (v *Viewer) rebuild() error {
	pal, err := v.cfg.Palette(v.themes[v.themeIdx])
	if err != nil {
		return err
	}
	if v.eng != nil {
		v.eng.Destroy()
	}
	v.palette = pal
	v.surf = NewSurface()
	fc := v.cfg.FX()
	fc.Settings = v.settings
	v.eng = fx.New(v.surf, pal, fc)
	return nil
}

func (v *Viewer) savePrefs() {
	p := Prefs{Theme: v.themes[v.themeIdx], DamageNumbers: v.settings.DamageNumbers}
	if err := SavePrefs(v.prefsPath, p); err != nil {
		log.Printf("VIEWER: save prefs: %v", err)
	}
}

func (v *Viewer) flash(msg string) {
	v.status, v.statusT = msg, 2
	log.Println("VIEWER:", msg)
}

func (v *Viewer) CycleTheme() {
	prev := v.themeIdx
	v.themeIdx = (v.themeIdx + 1) % len(v.themes)
	if err := v.rebuild(); err != nil {
		v.themeIdx = prev
		v.flash(err.Error())
		return
	}
	v.savePrefs()
	v.flash("theme " + v.palette.Name())
}

func (v *Viewer) ToggleDamageNumbers() {
	v.settings.DamageNumbers = !v.settings.DamageNumbers
	v.eng.SetSettings(v.settings)
	v.savePrefs()
	v.flash(fmt.Sprintf("damage numbers %v", v.settings.DamageNumbers))
}

func (v *Viewer) TogglePause() {
	v.paused = !v.paused
}

// SpawnAt fires one event of kind k at (x, y), as the game would.
func (v *Viewer) SpawnAt(k fx.Kind, x, y float64) {
	ev := fx.At(k, x, y)
	switch k {
	case fx.BossDeath, fx.Explosion, fx.ChainReaction:
		ev = ev.WithRadius(40)
	}
	v.eng.HandleEvent(ev)
}

// StatsJSON is the engine snapshot as indented JSON.
func (v *Viewer) StatsJSON() string {
	b, _ := json.MarshalIndent(v.eng.Stats(), "", "  ")
	return string(b)
}

func (v *Viewer) Engine() *fx.Engine { return v.eng }

func (v *Viewer) connectAsync() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var tok string
	if v.cfg.Feed.Password != "" {
		t, err := feed.Login(ctx, v.apiBase, v.cfg.Feed.Password)
		if err != nil {
			v.connCh <- connResult{err: err}
			return
		}
		tok = t
	}
	c, err := feed.Dial(ctx, v.wsURL, tok)
	v.connCh <- connResult{c: c, err: err}
}

// pollFeed keeps one connection alive and hands its batches to the engine.
func (v *Viewer) pollFeed() {
	select {
	case r := <-v.connCh:
		v.connectInFlight = false
		if r.err != nil {
			v.flash("feed: " + r.err.Error())
			v.retryAt = time.Now().Add(3 * time.Second)
		} else {
			v.conn = r.c
			v.flash("feed connected")
		}
	default:
	}
	if v.conn.IsClosed() {
		if v.conn != nil {
			v.flash("feed lost")
			v.conn = nil
			v.retryAt = time.Now().Add(time.Second)
		}
		if !v.connectInFlight && time.Now().After(v.retryAt) {
			v.connectInFlight = true
			go v.connectAsync()
		}
		return
	}
	v.batches = v.conn.Drain(v.batches[:0])
	for _, b := range v.batches {
		if v.paused {
			continue
		}
		v.lastTick = b.Tick
		v.eng.ProcessEvents(b.Events)
	}
}

// Step advances one frame of dt seconds without touching input.
func (v *Viewer) Step(dt float64) {
	if v.gen != nil {
		if !v.paused {
			v.acc += dt
			step := 1 / float64(v.cfg.Server.TickRate)
			for v.acc >= step {
				v.acc -= step
				v.eng.ProcessEvents(v.gen.Next(v.tick))
				v.tick++
			}
		}
	} else {
		v.pollFeed()
	}
	v.eng.Update(dt)
	if v.statusT > 0 {
		v.statusT -= dt
	}
}

func (v *Viewer) handleInput() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.SpawnAt(fx.BossDeath, x, y)
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			v.SpawnAt(digitKinds[i], x, y)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.CycleTheme()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		v.ToggleDamageNumbers()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(v.StatsJSON()); err != nil {
			v.flash("clipboard: " + err.Error())
		} else {
			v.flash("stats copied")
		}
	}
}

func (v *Viewer) Update() error {
	v.handleInput()
	v.Step(1 / float64(ebiten.TPS()))
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.palette.Color(theme.Background))
	v.surf.Draw(screen)

	st := v.eng.Stats()
	hud := color.NRGBA{200, 200, 210, 255}
	src := "demo"
	if v.wsURL != "" {
		src = fmt.Sprintf("feed tick %d", v.lastTick)
	}
	lines := []string{
		fmt.Sprintf("%s | %s | %.0f fps", v.palette.Name(), src, ebiten.ActualFPS()),
		fmt.Sprintf("particles %d/%d  rings %d  arcs %d  shards %d  seq %d",
			st.Particles, st.Budget, st.Rings.Active, st.Lines.Active, st.Shards.Active, st.Sequences),
	}
	if v.paused {
		lines = append(lines, "PAUSED")
	}
	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, 8, 16+i*15, hud)
	}
	if v.statusT > 0 {
		ebitenutil.DebugPrintAt(screen, v.status, 8, demo.ArenaH-20)
	}
}

func (v *Viewer) Layout(w, h int) (int, int) { return demo.ArenaW, demo.ArenaH }

// Close releases the engine and the feed connection.
func (v *Viewer) Close() {
	v.eng.Destroy()
	_ = v.conn.Close()
}
