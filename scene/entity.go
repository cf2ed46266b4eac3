package scene

import (
	"slices"

	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/ecs"
	"github.com/milk9111/waterjam/physics"
)

// Updater is implemented by entity behaviors that run every frame.
type Updater interface {
	Update(e *Entity, f *Frame)
}

// BeforeRenderer is called before an entity's visual is drawn.
type BeforeRenderer interface {
	RenderBefore(e *Entity, f *Frame)
}

// AfterRenderer is called after an entity's visual is drawn.
type AfterRenderer interface {
	RenderAfter(e *Entity, f *Frame)
}

// UpdateFunc adapts a function to Updater.
type UpdateFunc func(e *Entity, f *Frame)

func (fn UpdateFunc) Update(e *Entity, f *Frame) { fn(e, f) }

// Entity is a positioned game object owned by exactly one scene.
type Entity struct {
	// Position is in screen pixels. Entities with a Body have it synced
	// after every physics step.
	Position common.Vec2
	Visual   Visual
	// Z orders rendering, ascending. Ties keep insertion order.
	Z    float64
	Tags []string
	Body *physics.Body
	// Behavior may implement any of Updater, BeforeRenderer and AfterRenderer.
	Behavior any

	handle ecs.Entity
	scene  *Scene
}

// Handle is the entity's stable id within its scene.
func (e *Entity) Handle() ecs.Entity { return e.handle }

func (e *Entity) Scene() *Scene { return e.scene }

// Alive reports whether the entity is still in its scene.
func (e *Entity) Alive() bool {
	return e != nil && e.scene != nil && e.scene.entities.Alive(e.handle)
}

// Kill removes the entity from its scene immediately.
func (e *Entity) Kill() {
	if e == nil || e.scene == nil {
		return
	}
	e.scene.Kill(e)
}

func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}
