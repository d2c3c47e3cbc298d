package viewer

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"quietquadrant/internal/fx"
)

// Surface is an ebiten-backed fx.Surface: a display list of retained
// primitives drawn back to front by depth every frame.
type Surface struct {
	prims []prim
	dirty bool // a primitive was destroyed since the last Draw
	white *ebiten.Image
}

type prim interface {
	base() *node
	draw(dst *ebiten.Image, s *Surface)
}

type node struct {
	depth     int
	visible   bool
	alpha     float64
	destroyed bool
	owner     *Surface
}

func (n *node) base() *node        { return n }
func (n *node) SetVisible(v bool)  { n.visible = v }
func (n *node) SetAlpha(a float64) { n.alpha = a }
func (n *node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	n.visible = false
	n.owner.dirty = true
}

func NewSurface() *Surface { return &Surface{} }

func (s *Surface) add(p prim, depth int) {
	b := p.base()
	b.depth, b.alpha, b.owner = depth, 1, s
	// keep depth order; equal depths stay in creation order
	i := sort.Search(len(s.prims), func(i int) bool { return s.prims[i].base().depth > depth })
	s.prims = append(s.prims, nil)
	copy(s.prims[i+1:], s.prims[i:])
	s.prims[i] = p
}

func (s *Surface) NewDot(depth int) fx.Dot {
	d := &dot{}
	s.add(d, depth)
	return d
}

func (s *Surface) NewQuad(depth int) fx.Quad {
	q := &quad{}
	s.add(q, depth)
	return q
}

func (s *Surface) NewLabel(depth int) fx.Label {
	l := &label{}
	s.add(l, depth)
	return l
}

func (s *Surface) NewCanvas(depth int) fx.Canvas {
	c := &canvas{}
	s.add(c, depth)
	return c
}

// Len is the number of live primitives.
func (s *Surface) Len() int {
	s.compact()
	return len(s.prims)
}

// Visible is the number of primitives that would be drawn.
func (s *Surface) Visible() int {
	n := 0
	for _, p := range s.prims {
		if b := p.base(); b.visible && !b.destroyed {
			n++
		}
	}
	return n
}

func (s *Surface) compact() {
	if !s.dirty {
		return
	}
	kept := s.prims[:0]
	for _, p := range s.prims {
		if !p.base().destroyed {
			kept = append(kept, p)
		}
	}
	clear(s.prims[len(kept):])
	s.prims = kept
	s.dirty = false
}

func (s *Surface) Draw(dst *ebiten.Image) {
	s.compact()
	for _, p := range s.prims {
		if b := p.base(); b.visible && b.alpha > 0 {
			p.draw(dst, s)
		}
	}
}

func (s *Surface) whitePixel() *ebiten.Image {
	if s.white == nil {
		s.white = ebiten.NewImage(1, 1)
		s.white.Fill(color.White)
	}
	return s.white
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(float64(c.A) * alpha)
	return c
}

type dot struct {
	node
	x, y, r float64
	c       color.NRGBA
}

func (d *dot) SetPosition(x, y float64) { d.x, d.y = x, y }
func (d *dot) SetRadius(r float64)      { d.r = r }
func (d *dot) SetColor(c color.NRGBA)   { d.c = c }

func (d *dot) draw(dst *ebiten.Image, _ *Surface) {
	if d.r <= 0 {
		return
	}
	vector.DrawFilledCircle(dst, float32(d.x), float32(d.y), float32(d.r), fade(d.c, d.alpha), true)
}

type quad struct {
	node
	x, y, size, rot float64
	c               color.NRGBA
}

func (q *quad) SetPosition(x, y float64) { q.x, q.y = x, y }
func (q *quad) SetSize(s float64)        { q.size = s }
func (q *quad) SetRotation(r float64)    { q.rot = r }
func (q *quad) SetColor(c color.NRGBA)   { q.c = c }

func (q *quad) draw(dst *ebiten.Image, s *Surface) {
	if q.size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(q.size, q.size)
	op.GeoM.Rotate(q.rot)
	op.GeoM.Translate(q.x, q.y)
	op.ColorScale.ScaleWithColor(q.c)
	op.ColorScale.ScaleAlpha(float32(q.alpha))
	dst.DrawImage(s.whitePixel(), op)
}

type label struct {
	node
	x, y float64
	text string
	c    color.NRGBA
}

func (l *label) SetPosition(x, y float64) { l.x, l.y = x, y }
func (l *label) SetText(s string)         { l.text = s }
func (l *label) SetColor(c color.NRGBA)   { l.c = c }

func (l *label) draw(dst *ebiten.Image, _ *Surface) {
	w := text.BoundString(basicfont.Face7x13, l.text).Dx()
	text.Draw(dst, l.text, basicfont.Face7x13, int(l.x)-w/2, int(l.y), fade(l.c, l.alpha))
}

type opKind uint8

const (
	opStroke opKind = iota
	opFill
	opPath
)

// canvasOp is one recorded draw call; path points live in canvas.pts.
type canvasOp struct {
	kind       opKind
	x, y, r, w float64
	c          color.NRGBA
	alpha      float64
	from, to   int
	closed     bool
}

type canvas struct {
	node
	ox, oy float64
	ops    []canvasOp
	pts    []mgl64.Vec2
}

func (c *canvas) Clear() {
	c.ops = c.ops[:0]
	c.pts = c.pts[:0]
}

func (c *canvas) SetOrigin(x, y float64) { c.ox, c.oy = x, y }

func (c *canvas) StrokeCircle(x, y, r, width float64, col color.NRGBA, alpha float64) {
	c.ops = append(c.ops, canvasOp{kind: opStroke, x: x, y: y, r: r, w: width, c: col, alpha: alpha})
}

func (c *canvas) FillCircle(x, y, r float64, col color.NRGBA, alpha float64) {
	c.ops = append(c.ops, canvasOp{kind: opFill, x: x, y: y, r: r, c: col, alpha: alpha})
}

func (c *canvas) StrokePath(pts []mgl64.Vec2, width float64, col color.NRGBA, alpha float64, closed bool) {
	from := len(c.pts)
	c.pts = append(c.pts, pts...)
	c.ops = append(c.ops, canvasOp{kind: opPath, w: width, c: col, alpha: alpha, from: from, to: len(c.pts), closed: closed})
}

func (c *canvas) draw(dst *ebiten.Image, _ *Surface) {
	for _, op := range c.ops {
		col := fade(op.c, op.alpha*c.alpha)
		if col.A == 0 {
			continue
		}
		x, y := float32(c.ox+op.x), float32(c.oy+op.y)
		switch op.kind {
		case opStroke:
			if op.r > 0 {
				vector.StrokeCircle(dst, x, y, float32(op.r), float32(op.w), col, true)
			}
		case opFill:
			if op.r > 0 {
				vector.DrawFilledCircle(dst, x, y, float32(op.r), col, true)
			}
		case opPath:
			pts := c.pts[op.from:op.to]
			for i := 1; i < len(pts); i++ {
				c.line(dst, pts[i-1], pts[i], op.w, col)
			}
			if op.closed && len(pts) > 2 {
				c.line(dst, pts[len(pts)-1], pts[0], op.w, col)
			}
		}
	}
}

func (c *canvas) line(dst *ebiten.Image, a, b mgl64.Vec2, w float64, col color.NRGBA) {
	vector.StrokeLine(dst, float32(c.ox+a.X()), float32(c.oy+a.Y()),
		float32(c.ox+b.X()), float32(c.oy+b.Y()), float32(w), col, true)
}
