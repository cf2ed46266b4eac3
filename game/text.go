package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
)

const lineHeight = 14

// drawLines draws shadowed text, one line per entry.
func drawLines(dst *ebiten.Image, face text.Face, lines []string, x, y float64) {
	for i, s := range lines {
		ly := y + float64(i*lineHeight)
		if face == nil {
			ebitenutil.DebugPrintAt(dst, s, int(x), int(ly))
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+1, ly+1)
		op.ColorScale.ScaleWithColor(colornames.Black)
		text.Draw(dst, s, face, op)

		op = &text.DrawOptions{}
		op.GeoM.Translate(x, ly)
		op.ColorScale.ScaleWithColor(colornames.White)
		text.Draw(dst, s, face, op)
	}
}
