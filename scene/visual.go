package scene

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/physics"
)

// Visual draws an entity at its position, offset by the camera.
type Visual interface {
	Draw(dst *ebiten.Image, e *Entity, camera common.Vec2)
}

// ImageVisual draws an image with its top-left corner, or centre, at the
// entity position.
type ImageVisual struct {
	Image    *ebiten.Image
	Centered bool
}

func (v ImageVisual) Draw(dst *ebiten.Image, e *Entity, camera common.Vec2) {
	if v.Image == nil {
		return
	}
	p := e.Position.Sub(camera)
	op := &ebiten.DrawImageOptions{}
	if v.Centered {
		b := v.Image.Bounds()
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	}
	op.GeoM.Translate(p.X, p.Y)
	dst.DrawImage(v.Image, op)
}

// BodyVisual draws the collision shape of the entity's body.
type BodyVisual struct {
	Fill    color.Color
	Outline color.Color
	Width   float32

	verts []common.Vec2
}

func (v *BodyVisual) Draw(dst *ebiten.Image, e *Entity, camera common.Vec2) {
	if e.Body == nil || e.Body.Removed() {
		return
	}
	shape := e.Body.Shape()
	switch shape.Kind {
	case physics.ShapeBox:
		v.verts = e.Body.ScreenVertices(v.verts[:0])
		var path vector.Path
		for i, p := range v.verts {
			p = p.Sub(camera)
			if i == 0 {
				path.MoveTo(float32(p.X), float32(p.Y))
				continue
			}
			path.LineTo(float32(p.X), float32(p.Y))
		}
		path.Close()
		if v.Fill != nil {
			fillPath(dst, &path, v.Fill)
		}
		if v.Outline != nil {
			strokePath(dst, &path, v.Outline, v.width())
		}
	case physics.ShapeCircle:
		p := e.Position.Sub(camera)
		r := float32(shape.Radius * physics.Scale)
		if v.Fill != nil {
			vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), r, v.Fill, true)
		}
		if v.Outline != nil {
			vector.StrokeCircle(dst, float32(p.X), float32(p.Y), r, v.width(), v.Outline, true)
		}
	}
}

func (v *BodyVisual) width() float32 {
	if v.Width <= 0 {
		return 1
	}
	return v.Width
}

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

func fillPath(dst *ebiten.Image, path *vector.Path, clr color.Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	drawTinted(dst, vs, is, clr, ebiten.FillRuleNonZero)
}

func strokePath(dst *ebiten.Image, path *vector.Path, clr color.Color, width float32) {
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width, LineJoin: vector.LineJoinMiter})
	drawTinted(dst, vs, is, clr, ebiten.FillRuleFillAll)
}

func drawTinted(dst *ebiten.Image, vs []ebiten.Vertex, is []uint16, clr color.Color, rule ebiten.FillRule) {
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: rule, AntiAlias: true}
	dst.DrawTriangles(vs, is, whitePixel, op)
}
