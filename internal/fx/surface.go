package fx

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"quietquadrant/internal/theme"
)

// Primitive is a drawable handle owned by the host surface. The engine never
// draws anything itself; it only mutates primitives and the host renders
// whatever is visible.
type Primitive interface {
	SetVisible(v bool)
	SetAlpha(a float64)
	Destroy()
}

// Dot is a filled circle (point particle).
type Dot interface {
	Primitive
	SetPosition(x, y float64)
	SetRadius(r float64)
	SetColor(c color.NRGBA)
}

// Quad is a filled, rotatable square (shard debris).
type Quad interface {
	Primitive
	SetPosition(x, y float64)
	SetSize(s float64)
	SetRotation(rad float64)
	SetColor(c color.NRGBA)
}

// Label is a short text (damage numbers).
type Label interface {
	Primitive
	SetPosition(x, y float64)
	SetText(s string)
	SetColor(c color.NRGBA)
}

// Canvas is a retained vector drawing: rings, arcs and phased effects record
// strokes into it. Coordinates are relative to the origin. StrokePath must
// copy pts; callers reuse the buffer.
type Canvas interface {
	Primitive
	Clear()
	SetOrigin(x, y float64)
	StrokeCircle(x, y, r, width float64, c color.NRGBA, alpha float64)
	FillCircle(x, y, r float64, c color.NRGBA, alpha float64)
	StrokePath(pts []mgl64.Vec2, width float64, c color.NRGBA, alpha float64, closed bool)
}

// Surface creates primitives. Depth orders primitives when the host draws;
// higher is on top.
type Surface interface {
	NewDot(depth int) Dot
	NewQuad(depth int) Quad
	NewLabel(depth int) Label
	NewCanvas(depth int) Canvas
}

// Palette resolves theme roles to colors. It is read-only for the engine's
// lifetime; a theme change means building a new engine.
type Palette interface {
	Color(r theme.Role) color.NRGBA
}

// Draw depths, bottom to top.
const (
	DepthRing   = 7
	DepthArc    = 8
	DepthDot    = 9
	DepthShard  = 10
	DepthLabel  = 10
	DepthPhased = 11
)
