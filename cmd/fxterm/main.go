// Command fxterm runs the effects engine against the demo generator in a
// terminal.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"quietquadrant/internal/config"
	"quietquadrant/internal/demo"
	"quietquadrant/internal/fx"
	"quietquadrant/internal/theme"
)

const frame = 33 * time.Millisecond

type term struct {
	cfg      config.Config
	screen   tcell.Screen
	themes   []string
	themeIdx int
	bg       tcell.Color

	surf *termSurface
	eng  *fx.Engine
	gen  *demo.Generator
	grid *grid

	tick   int
	acc    float64
	paused bool
}

func newTerm(cfg config.Config, screen tcell.Screen) (*term, error) {
	t := &term{cfg: cfg, screen: screen, themes: cfg.ThemeNames(), gen: demo.New(cfg.Seed, cfg.Server.TickRate)}
	for i, n := range t.themes {
		if n == cfg.Theme {
			t.themeIdx = i
		}
	}
	if err := t.rebuild(); err != nil {
		return nil, err
	}
	t.resize()
	return t, nil
}

func (t *term) rebuild() error {
	pal, err := t.cfg.Palette(t.themes[t.themeIdx])
	if err != nil {
		return err
	}
	fc := t.cfg.FX()
	if t.eng != nil {
		fc.Settings = t.eng.Settings()
		t.eng.Destroy()
	}
	bg := pal.Color(theme.Background)
	t.bg = tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))
	t.surf = &termSurface{}
	t.eng = fx.New(t.surf, pal, fc)
	return nil
}

func (t *term) resize() {
	w, h := t.screen.Size()
	t.grid = newGrid(w, max(1, h-1), demo.ArenaW, demo.ArenaH)
}

func (t *term) step(dt float64) {
	if !t.paused {
		t.acc += dt
		tickDt := 1 / float64(t.cfg.Server.TickRate)
		for t.acc >= tickDt {
			t.acc -= tickDt
			t.eng.ProcessEvents(t.gen.Next(t.tick))
			t.tick++
		}
	}
	t.eng.Update(dt)
}

func (t *term) draw() {
	t.surf.Render(t.grid)
	base := tcell.StyleDefault.Background(t.bg)
	for row := 0; row < t.grid.h; row++ {
		for col := 0; col < t.grid.w; col++ {
			c := t.grid.at(col, row)
			if c.ch == 0 {
				t.screen.SetContent(col, row, ' ', nil, base)
				continue
			}
			fg := tcell.NewRGBColor(int32(c.c.R), int32(c.c.G), int32(c.c.B))
			t.screen.SetContent(col, row, c.ch, nil, base.Foreground(fg))
		}
	}
	st := t.eng.Stats()
	hud := fmt.Sprintf(" %s  tick %d  particles %d/%d  rings %d  shards %d  seq %d  [space] boss  [t] theme  [n] numbers  [p] pause  [q] quit",
		t.themes[t.themeIdx], t.tick, st.Particles, st.Budget, st.Rings.Active, st.Shards.Active, st.Sequences)
	hudStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	w, _ := t.screen.Size()
	for i, r := range []rune(hud) {
		if i >= w {
			break
		}
		t.screen.SetContent(i, t.grid.h, r, nil, hudStyle)
	}
	t.screen.Show()
}

// handleInput reports false when the user asked to quit.
func (t *term) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			t.eng.HandleEvent(fx.At(fx.BossDeath, demo.ArenaW/2, demo.ArenaH/2).WithRadius(40))
		case 't':
			prev := t.themeIdx
			t.themeIdx = (t.themeIdx + 1) % len(t.themes)
			if err := t.rebuild(); err != nil {
				log.Println("FXTERM:", err)
				t.themeIdx = prev
			}
		case 'n':
			s := t.eng.Settings()
			s.DamageNumbers = !s.DamageNumbers
			t.eng.SetSettings(s)
		case 'p':
			t.paused = !t.paused
		}
	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	}
	return true
}

func (t *term) run() {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !t.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			t.step(now.Sub(last).Seconds())
			last = now
			t.draw()
		}
	}
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	t, err := newTerm(cfg, screen)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	defer screen.Fini()
	defer t.eng.Destroy()
	t.run()
}
