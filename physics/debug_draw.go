package physics

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// DebugDraw renders the collision shapes of the world in screen space.
func (w *World) DebugDraw(screen *ebiten.Image, camX, camY float64) {
	if w == nil || w.space == nil || screen == nil {
		return
	}
	cp.DrawSpace(w.space, &chipmunkDrawer{screen: screen, camX: camX, camY: camY})
}

type chipmunkDrawer struct {
	screen     *ebiten.Image
	camX, camY float64
}

func (d *chipmunkDrawer) project(v cp.Vector) (float32, float32) {
	return float32(v.X*Scale - d.camX), float32(v.Y*Scale - d.camY)
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.Color) {
	x0, y0 := d.project(a)
	x1, y1 := d.project(b)
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, c, false)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	x, y := d.project(pos)
	vector.StrokeCircle(d.screen, x, y, float32(radius*Scale), 1, c, false)
	// angle indicator
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.project(pos)
	vector.DrawFilledRect(d.screen, x-float32(size)/2, y-float32(size)/2, float32(size), float32(size), fcolorToRGBA(fill), false)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	body := shape.Body()
	switch {
	case body.GetType() == cp.BODY_STATIC:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	case body.IsSleeping():
		return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * 255)),
		G: uint8(math.Round(float64(c.G) * 255)),
		B: uint8(math.Round(float64(c.B) * 255)),
		A: uint8(math.Round(float64(c.A) * 255)),
	}
}
