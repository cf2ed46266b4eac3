package scene

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/assets"
	"github.com/milk9111/waterjam/input"
	"github.com/milk9111/waterjam/stats"
)

// Control is the part of the engine that scenes may drive.
type Control interface {
	// Stop ends the run after the current frame.
	Stop()
	// SetScene swaps the active scene immediately.
	SetScene(name string) error
	// SwitchScene crossfades to another scene over d.
	SwitchScene(name string, d time.Duration) error
}

// Frame is the context handed to every update and render callback.
type Frame struct {
	Input   *input.State
	Stats   *stats.Accumulator
	Assets  *assets.Library
	Control Control

	// DT is the wall-clock time since the previous frame in seconds.
	DT      float64
	Now     time.Time
	Elapsed time.Duration
	Index   uint64

	// Width and Height are the render resolution in pixels.
	Width, Height int

	// Surface is the scene render target. It is nil during update.
	Surface *ebiten.Image
}
