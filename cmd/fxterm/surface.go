package main

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/fx"
)

type glyphKind uint8

const (
	glyphDot glyphKind = iota
	glyphQuad
	glyphLabel
	glyphCanvas
)

// glyph is every primitive kind at once; the terminal only needs a position,
// a color and, for canvases, the recorded strokes.
type glyph struct {
	kind      glyphKind
	depth     int
	visible   bool
	alpha     float64
	destroyed bool
	owner     *termSurface

	x, y, size float64
	text       string
	c          color.NRGBA

	strokes []stroke
}

type stroke struct {
	circle bool
	fill   bool
	x, y   float64
	r      float64
	pts    []mgl64.Vec2
	closed bool
	c      color.NRGBA
	alpha  float64
}

func (g *glyph) SetVisible(v bool)        { g.visible = v }
func (g *glyph) SetAlpha(a float64)       { g.alpha = a }
func (g *glyph) SetPosition(x, y float64) { g.x, g.y = x, y }
func (g *glyph) SetRadius(r float64)      { g.size = r }
func (g *glyph) SetSize(s float64)        { g.size = s }
func (g *glyph) SetRotation(float64)      {}
func (g *glyph) SetText(s string)         { g.text = s }
func (g *glyph) SetColor(c color.NRGBA)   { g.c = c }
func (g *glyph) SetOrigin(x, y float64)   { g.x, g.y = x, y }
func (g *glyph) Clear()                   { g.strokes = g.strokes[:0] }

func (g *glyph) Destroy() {
	if g.destroyed {
		return
	}
	g.destroyed, g.visible = true, false
	g.owner.dirty = true
}

func (g *glyph) StrokeCircle(x, y, r, _ float64, c color.NRGBA, alpha float64) {
	g.strokes = append(g.strokes, stroke{circle: true, x: x, y: y, r: r, c: c, alpha: alpha})
}

func (g *glyph) FillCircle(x, y, r float64, c color.NRGBA, alpha float64) {
	g.strokes = append(g.strokes, stroke{circle: true, fill: true, x: x, y: y, r: r, c: c, alpha: alpha})
}

func (g *glyph) StrokePath(pts []mgl64.Vec2, _ float64, c color.NRGBA, alpha float64, closed bool) {
	g.strokes = append(g.strokes, stroke{pts: append([]mgl64.Vec2(nil), pts...), closed: closed, c: c, alpha: alpha})
}

// termSurface is an fx.Surface that rasterizes into a character grid.
type termSurface struct {
	glyphs []*glyph
	dirty  bool
}

func (s *termSurface) add(k glyphKind, depth int) *glyph {
	g := &glyph{kind: k, depth: depth, alpha: 1, owner: s}
	i := sort.Search(len(s.glyphs), func(i int) bool { return s.glyphs[i].depth > depth })
	s.glyphs = append(s.glyphs, nil)
	copy(s.glyphs[i+1:], s.glyphs[i:])
	s.glyphs[i] = g
	return g
}

func (s *termSurface) NewDot(depth int) fx.Dot       { return s.add(glyphDot, depth) }
func (s *termSurface) NewQuad(depth int) fx.Quad     { return s.add(glyphQuad, depth) }
func (s *termSurface) NewLabel(depth int) fx.Label   { return s.add(glyphLabel, depth) }
func (s *termSurface) NewCanvas(depth int) fx.Canvas { return s.add(glyphCanvas, depth) }

func (s *termSurface) compact() {
	if !s.dirty {
		return
	}
	kept := s.glyphs[:0]
	for _, g := range s.glyphs {
		if !g.destroyed {
			kept = append(kept, g)
		}
	}
	clear(s.glyphs[len(kept):])
	s.glyphs = kept
	s.dirty = false
}

type cell struct {
	ch rune
	c  color.NRGBA
}

// grid is the rasterized frame. Arena coordinates are scaled to fit.
type grid struct {
	w, h   int
	sx, sy float64
	cells  []cell
}

func newGrid(w, h int, arenaW, arenaH float64) *grid {
	return &grid{w: w, h: h, sx: float64(w) / arenaW, sy: float64(h) / arenaH, cells: make([]cell, w*h)}
}

func (g *grid) at(col, row int) cell { return g.cells[row*g.w+col] }

func (g *grid) reset() {
	clear(g.cells)
}

// shade picks a denser rune for brighter cells.
func shade(alpha float64) rune {
	switch {
	case alpha < 0.3:
		return '.'
	case alpha < 0.6:
		return '+'
	default:
		return '#'
	}
}

func dim(c color.NRGBA, alpha float64) color.NRGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.NRGBA{uint8(float64(c.R) * a), uint8(float64(c.G) * a), uint8(float64(c.B) * a), 255}
}

func (g *grid) plot(x, y float64, ch rune, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	col, row := int(x*g.sx), int(y*g.sy)
	if col < 0 || row < 0 || col >= g.w || row >= g.h {
		return
	}
	if ch == 0 {
		ch = shade(alpha)
	}
	g.cells[row*g.w+col] = cell{ch: ch, c: dim(c, alpha)}
}

func (g *grid) line(a, b mgl64.Vec2, c color.NRGBA, alpha float64) {
	d := b.Sub(a)
	n := int(math.Max(math.Abs(d.X()*g.sx), math.Abs(d.Y()*g.sy))) + 1
	for i := 0; i <= n; i++ {
		p := a.Add(d.Mul(float64(i) / float64(n)))
		g.plot(p.X(), p.Y(), 0, c, alpha)
	}
}

func (g *grid) circle(cx, cy, r float64, c color.NRGBA, alpha float64) {
	n := max(8, int(2*math.Pi*r*g.sx))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		g.plot(cx+math.Cos(a)*r, cy+math.Sin(a)*r, 0, c, alpha)
	}
}

func (g *grid) disc(cx, cy, r float64, c color.NRGBA, alpha float64) {
	stepX, stepY := 1/g.sx, 1/g.sy
	for y := cy - r; y <= cy+r; y += stepY {
		for x := cx - r; x <= cx+r; x += stepX {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				g.plot(x, y, 0, c, alpha)
			}
		}
	}
	g.plot(cx, cy, 0, c, alpha)
}

// Render draws every visible primitive into g, back to front.
func (s *termSurface) Render(g *grid) {
	s.compact()
	g.reset()
	for _, gl := range s.glyphs {
		if !gl.visible || gl.alpha <= 0 {
			continue
		}
		switch gl.kind {
		case glyphDot:
			g.plot(gl.x, gl.y, '*', gl.c, gl.alpha)
		case glyphQuad:
			g.plot(gl.x, gl.y, 'x', gl.c, gl.alpha)
		case glyphLabel:
			col := gl.x - float64(len(gl.text))/2/g.sx
			for i, r := range gl.text {
				g.plot(col+float64(i)/g.sx, gl.y, r, gl.c, gl.alpha)
			}
		case glyphCanvas:
			for _, st := range gl.strokes {
				a := st.alpha * gl.alpha
				switch {
				case st.circle && st.fill:
					g.disc(gl.x+st.x, gl.y+st.y, st.r, st.c, a)
				case st.circle:
					g.circle(gl.x+st.x, gl.y+st.y, st.r, st.c, a)
				default:
					o := mgl64.Vec2{gl.x, gl.y}
					for i := 1; i < len(st.pts); i++ {
						g.line(o.Add(st.pts[i-1]), o.Add(st.pts[i]), st.c, a)
					}
					if st.closed && len(st.pts) > 2 {
						g.line(o.Add(st.pts[len(st.pts)-1]), o.Add(st.pts[0]), st.c, a)
					}
				}
			}
		}
	}
}
