package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/engine"
	"github.com/milk9111/waterjam/input"
	"github.com/milk9111/waterjam/scene"
	"golang.org/x/image/colornames"
)

// SwitchDuration is the crossfade between the menu and the sandbox.
const SwitchDuration = 1500 * time.Millisecond

type menu struct {
	background *ebiten.Image
	title      text.Face
	hint       text.Face
	leaving    bool
}

// NewMenu returns the factory of the title screen.
func NewMenu() engine.Factory {
	return func(env engine.Env) (*scene.Scene, error) {
		m := &menu{}
		s := scene.New("menu", scene.Hooks{
			Update:       m.update,
			RenderBefore: m.renderBefore,
			RenderAfter:  m.renderAfter,
			Close: func(*scene.Scene) error {
				ebiten.SetCursorMode(ebiten.CursorModeVisible)
				return nil
			},
		})
		if env.Assets == nil {
			return s, nil
		}

		var err error
		if m.background, err = env.Assets.Image("background"); err != nil {
			return nil, err
		}
		if m.title, err = env.Assets.Font("bold", 32); err != nil {
			return nil, err
		}
		if m.hint, err = env.Assets.Font("regular", 14); err != nil {
			return nil, err
		}
		frames, err := env.Assets.Animation("cursor")
		if err != nil {
			return nil, err
		}
		fps := env.Assets.Manifest().Animations["cursor"].FPS
		s.AddEntity(NewCursor(frames, fps))
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return s, nil
	}
}

func (m *menu) update(_ *scene.Scene, f *scene.Frame) error {
	in := f.Input
	if in.Pressed(keyQuit) {
		f.Control.Stop()
		return nil
	}
	start := in.Pressed(keyStart) || in.Pressed(keySpray) || in.MousePressed(input.ButtonLeft)
	if !start || m.leaving {
		return nil
	}
	m.leaving = true
	return f.Control.SwitchScene("water", SwitchDuration)
}

func (m *menu) renderBefore(_ *scene.Scene, f *scene.Frame) error {
	if m.background == nil {
		return nil
	}
	b := m.background.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(f.Width)/float64(b.Dx()), float64(f.Height)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	f.Surface.DrawImage(m.background, op)
	return nil
}

func (m *menu) renderAfter(_ *scene.Scene, f *scene.Frame) error {
	if m.title == nil {
		drawLines(f.Surface, nil, []string{"waterjam", "press enter"}, float64(f.Width)/2-40, float64(f.Height)/3)
		return nil
	}
	center := common.V(float64(f.Width)/2, float64(f.Height)/3)
	drawCentered(f.Surface, m.title, "waterjam", center)
	drawCentered(f.Surface, m.hint, "press enter", center.Add(common.V(0, 48)))
	return nil
}

func drawCentered(dst *ebiten.Image, face text.Face, s string, at common.Vec2) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(at.X, at.Y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(dst, s, face, op)
}
