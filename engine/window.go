package engine

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/assets"
	"github.com/milk9111/waterjam/config"
)

// SetupWindow applies the window settings of cfg and returns the render
// resolution: the forced size when set, else the largest listed
// resolution that fits the monitor.
func SetupWindow(cfg *config.Config, lib *assets.Library) (int, int, error) {
	mw, mh := ebiten.Monitor().Size()
	res, err := cfg.WindowSize(mw, mh)
	if err != nil {
		return 0, 0, err
	}

	ebiten.SetWindowTitle(cfg.Engine.Title)
	ebiten.SetWindowSize(res.W, res.H)
	ebiten.SetFullscreen(cfg.Engine.Fullscreen)
	ebiten.SetTPS(cfg.Engine.TPS())
	if cfg.Engine.HardwareScaling {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if lib != nil {
		if icon, err := lib.Decoded("icon"); err == nil {
			ebiten.SetWindowIcon([]image.Image{icon})
		}
	}
	return res.W, res.H, nil
}
