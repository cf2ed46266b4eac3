package engine

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/waterjam/assets"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/stats"
)

// OverlayMode is the stats overlay state cycled by F1.
type OverlayMode uint8

const (
	OverlayOff OverlayMode = iota
	OverlayMinimal
	OverlayFull
	overlayModes
)

func (m OverlayMode) String() string {
	switch m {
	case OverlayOff:
		return "off"
	case OverlayMinimal:
		return "minimal"
	case OverlayFull:
		return "full"
	default:
		return fmt.Sprintf("OverlayMode(%d)", m)
	}
}

var (
	labelColor = color.RGBA{255, 255, 255, 255}
	avgColor   = color.RGBA{255, 241, 115, 255}
	minColor   = color.RGBA{121, 255, 94, 255}
	maxColor   = color.RGBA{255, 101, 87, 255}
	shadow     = color.RGBA{0, 0, 0, 255}
	panelColor = color.RGBA{0, 0, 0, 130}
)

const (
	overlayFont     = "mono"
	overlayFontSize = 12
	rowHeight       = 16
	columnStart     = 65
	columnGap       = 60
)

// Cell is one piece of overlay text.
type Cell struct {
	Text  string
	Color color.RGBA
}

// Overlay draws the frame statistics in the top left corner.
type Overlay struct {
	Mode OverlayMode

	stats  *stats.Accumulator
	assets *assets.Library
	face   text.Face
}

func NewOverlay(acc *stats.Accumulator, lib *assets.Library) *Overlay {
	o := &Overlay{stats: acc, assets: lib}
	if lib != nil {
		if face, err := lib.Font(overlayFont, overlayFontSize); err == nil {
			o.face = face
		} else {
			common.WithPrefix("engine").Warn("overlay font", "err", err)
		}
	}
	return o
}

// Cycle advances to the next mode.
func (o *Overlay) Cycle() {
	o.Mode = (o.Mode + 1) % overlayModes
}

// Rows returns the table for the current mode.
func (o *Overlay) Rows() [][]Cell {
	switch o.Mode {
	case OverlayMinimal:
		fps := o.stats.Snapshot(stats.FPS)
		return [][]Cell{{{"FPS", labelColor}, {fmt.Sprint(math.Round(fps.Avg)), avgColor}}}
	case OverlayFull:
		fps := o.stats.Snapshot(stats.FPS)
		rows := [][]Cell{
			{{"", labelColor}, {"avg", avgColor}, {"max", maxColor}, {"min", minColor}},
			{
				{"FPS", labelColor},
				{fmt.Sprint(math.Round(fps.Avg)), avgColor},
				{fmt.Sprint(math.Round(fps.Max)), maxColor},
				{fmt.Sprint(math.Round(fps.Min)), minColor},
			},
		}
		for _, name := range []string{stats.Frame, stats.Update, stats.Render, stats.Physics} {
			s := o.stats.Snapshot(name)
			rows = append(rows, []Cell{
				{name, labelColor},
				{ms(s.Avg), avgColor},
				{ms(s.Max), maxColor},
				{ms(s.Min), minColor},
			})
		}
		return rows
	default:
		return nil
	}
}

func ms(seconds float64) string {
	return fmt.Sprintf("%.2fms", seconds*1000)
}

func (o *Overlay) Draw(dst *ebiten.Image) {
	rows := o.Rows()
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	w := float32(columnStart + columnGap*(cols-1) + 10)
	h := float32(rowHeight*len(rows) + 10)
	vector.DrawFilledRect(dst, 0, 0, w, h, panelColor, false)

	for i, row := range rows {
		y := float64(5 + rowHeight*i)
		for j, cell := range row {
			x := 5.0
			if j > 0 {
				x = float64(columnStart + columnGap*(j-1))
			}
			o.drawText(dst, cell, x, y)
		}
	}
}

func (o *Overlay) drawText(dst *ebiten.Image, c Cell, x, y float64) {
	if o.face == nil {
		ebitenutil.DebugPrintAt(dst, c.Text, int(x), int(y))
		return
	}
	for _, pass := range []struct {
		dx  float64
		col color.RGBA
	}{{1, shadow}, {0, c.Color}} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+pass.dx, y+pass.dx)
		op.ColorScale.ScaleWithColor(pass.col)
		text.Draw(dst, c.Text, o.face, op)
	}
}
