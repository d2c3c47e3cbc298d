package fx

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

// fakeSurface records every primitive it hands out so tests can inspect
// visibility, alpha, geometry and destroy counts.
type fakeSurface struct {
	dots     []*fakePrim
	quads    []*fakePrim
	labels   []*fakePrim
	canvases []*fakePrim
}

type circle struct {
	x, y, r, width, alpha float64
	c                     color.NRGBA
	filled                bool
}

type fakePrim struct {
	depth     int
	visible   bool
	alpha     float64
	x, y      float64
	radius    float64
	size      float64
	rotation  float64
	text      string
	color     color.NRGBA
	circles   []circle
	paths     [][]mgl64.Vec2
	clears    int
	destroyed int
}

func (p *fakePrim) SetVisible(v bool)        { p.visible = v }
func (p *fakePrim) SetAlpha(a float64)       { p.alpha = a }
func (p *fakePrim) Destroy()                 { p.destroyed++ }
func (p *fakePrim) SetPosition(x, y float64) { p.x, p.y = x, y }
func (p *fakePrim) SetRadius(r float64)      { p.radius = r }
func (p *fakePrim) SetColor(c color.NRGBA)   { p.color = c }
func (p *fakePrim) SetSize(s float64)        { p.size = s }
func (p *fakePrim) SetRotation(r float64)    { p.rotation = r }
func (p *fakePrim) SetText(s string)         { p.text = s }
func (p *fakePrim) SetOrigin(x, y float64)   { p.x, p.y = x, y }
func (p *fakePrim) Clear() {
	p.clears++
	p.circles = p.circles[:0]
	p.paths = p.paths[:0]
}
func (p *fakePrim) StrokeCircle(x, y, r, width float64, c color.NRGBA, alpha float64) {
	p.circles = append(p.circles, circle{x: x, y: y, r: r, width: width, alpha: alpha, c: c})
}
func (p *fakePrim) FillCircle(x, y, r float64, c color.NRGBA, alpha float64) {
	p.circles = append(p.circles, circle{x: x, y: y, r: r, alpha: alpha, c: c, filled: true})
}
func (p *fakePrim) StrokePath(pts []mgl64.Vec2, width float64, c color.NRGBA, alpha float64, closed bool) {
	p.paths = append(p.paths, append([]mgl64.Vec2(nil), pts...))
}

func (s *fakeSurface) NewDot(depth int) Dot {
	p := &fakePrim{depth: depth}
	s.dots = append(s.dots, p)
	return p
}
func (s *fakeSurface) NewQuad(depth int) Quad {
	p := &fakePrim{depth: depth}
	s.quads = append(s.quads, p)
	return p
}
func (s *fakeSurface) NewLabel(depth int) Label {
	p := &fakePrim{depth: depth}
	s.labels = append(s.labels, p)
	return p
}
func (s *fakeSurface) NewCanvas(depth int) Canvas {
	p := &fakePrim{depth: depth}
	s.canvases = append(s.canvases, p)
	return p
}

func (s *fakeSurface) all() []*fakePrim {
	var out []*fakePrim
	out = append(out, s.dots...)
	out = append(out, s.quads...)
	out = append(out, s.labels...)
	return append(out, s.canvases...)
}

func visible(ps []*fakePrim) int {
	n := 0
	for _, p := range ps {
		if p.visible {
			n++
		}
	}
	return n
}

func newTestEngine(cfg Config) (*Engine, *fakeSurface) {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	surf := &fakeSurface{}
	pal, _ := theme.Builtin("christmas")
	return New(surf, pal, cfg), surf
}

// still is a particle that outlives any test.
func still(x, y float64) ParticleSpec {
	return ParticleSpec{X: x, Y: y, Size: 2, Life: 1000}
}
