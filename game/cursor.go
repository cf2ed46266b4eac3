package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/scene"
)

// Cursor follows the mouse with a looping animation.
type Cursor struct {
	frames []*ebiten.Image
	fps    float64
	clock  float64
	visual *scene.ImageVisual
}

func NewCursor(frames []*ebiten.Image, fps float64) *scene.Entity {
	c := &Cursor{frames: frames, fps: fps, visual: &scene.ImageVisual{Centered: true}}
	if len(frames) > 0 {
		c.visual.Image = frames[0]
	}
	return &scene.Entity{Visual: c.visual, Behavior: c, Z: 100, Tags: []string{"cursor"}}
}

// Frame is the animation frame shown at the current clock.
func (c *Cursor) Frame() int {
	if len(c.frames) == 0 || c.fps <= 0 {
		return 0
	}
	return int(c.clock*c.fps) % len(c.frames)
}

func (c *Cursor) Update(e *scene.Entity, f *scene.Frame) {
	e.Position = f.Input.Mouse().Add(e.Scene().Camera)
	c.clock += f.DT
	if len(c.frames) > 0 {
		c.visual.Image = c.frames[c.Frame()]
	}
}
