package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/ecs"
	"github.com/milk9111/waterjam/physics"
)

var (
	ErrClosed    = errors.New("scene: closed")
	ErrNoPhysics = errors.New("scene: physics not enabled")
)

// Hooks are the per-scene content callbacks. Every field is optional. A
// non-nil error from any hook ends the run.
type Hooks struct {
	Update       func(s *Scene, f *Frame) error
	RenderBefore func(s *Scene, f *Frame) error
	RenderAfter  func(s *Scene, f *Frame) error
	// RenderPost composites the finished scene render src onto dst. When
	// nil, src is drawn onto dst unchanged.
	RenderPost func(s *Scene, f *Frame, src, dst *ebiten.Image) error
	Resize     func(s *Scene, w, h int) error
	// Close releases resources acquired by the content. It runs once.
	Close func(s *Scene) error
}

// Scene is a named set of entities plus the hooks that drive them.
type Scene struct {
	Camera common.Vec2

	name     string
	hooks    Hooks
	entities *ecs.Arena[*Entity]
	world    *physics.World
	bounds   common.Rect
	closed   bool

	order []*Entity
}

func New(name string, hooks Hooks) *Scene {
	return &Scene{
		name:     name,
		hooks:    hooks,
		entities: ecs.NewArena[*Entity](),
	}
}

func (s *Scene) Name() string { return s.name }

func (s *Scene) String() string { return "scene " + s.name }

// EnablePhysics gives the scene its own simulation.
func (s *Scene) EnablePhysics(cfg physics.Config) *physics.World {
	if s.world == nil {
		s.world = physics.NewWorld(cfg)
	}
	return s.world
}

// Physics returns the scene simulation, or nil.
func (s *Scene) Physics() *physics.World { return s.world }

// SetBounds sets the screen-space region outside of which bodies are
// despawned after a step. An empty rect disables despawning.
func (s *Scene) SetBounds(r common.Rect) { s.bounds = r }

func (s *Scene) Bounds() common.Rect { return s.bounds }

// AddEntity registers e with the scene. It is the only way an entity
// becomes eligible for update and render.
func (s *Scene) AddEntity(e *Entity) *Entity {
	if e.scene != nil {
		panic(fmt.Sprintf("scene: entity %s already belongs to %s", e.handle, e.scene.name))
	}
	if s.closed {
		panic(ErrClosed)
	}
	e.scene = s
	e.handle = s.entities.Create(e)
	return e
}

// SpawnBody creates a simulation body from def, binds it to e and adds e
// to the scene.
func (s *Scene) SpawnBody(def physics.BodyDef, e *Entity) (*Entity, error) {
	if s.world == nil {
		return nil, ErrNoPhysics
	}
	if s.closed {
		return nil, ErrClosed
	}
	body, err := s.world.Spawn(def)
	if err != nil {
		return nil, err
	}
	if e == nil {
		e = &Entity{}
	}
	e.Body = body
	e.Position = body.ScreenPosition()
	return s.AddEntity(e), nil
}

// Kill removes e from the scene and releases its body in the same call.
// It reports false if e was not alive in this scene.
func (s *Scene) Kill(e *Entity) bool {
	if e == nil || e.scene != s || !s.entities.Destroy(e.handle) {
		return false
	}
	if e.Body != nil && s.world != nil {
		s.world.Remove(e.Body)
	}
	return true
}

// Len is the number of live entities.
func (s *Scene) Len() int { return s.entities.Len() }

// Entities returns the live entities in insertion order.
func (s *Scene) Entities() []*Entity {
	return s.collect(nil, "")
}

// Tagged returns the live entities carrying tag, in insertion order.
func (s *Scene) Tagged(tag string) []*Entity {
	return s.collect(nil, tag)
}

// AppendTagged is Tagged without the allocation.
func (s *Scene) AppendTagged(dst []*Entity, tag string) []*Entity {
	return s.collect(dst, tag)
}

func (s *Scene) collect(dst []*Entity, tag string) []*Entity {
	s.entities.Each(func(_ ecs.Entity, e *Entity) {
		if tag == "" || e.HasTag(tag) {
			dst = append(dst, e)
		}
	})
	return dst
}

// StepPhysics advances the simulation by one fixed step, syncs body
// positions and despawns bodies outside the bounds. It returns the number
// of despawned entities.
func (s *Scene) StepPhysics() int {
	if s.world == nil {
		return 0
	}
	s.world.Step()

	despawned := 0
	s.entities.Each(func(_ ecs.Entity, e *Entity) {
		if e.Body == nil {
			return
		}
		e.Position = e.Body.ScreenPosition()
		if !s.bounds.Empty() && !s.bounds.Contains(e.Position) {
			s.Kill(e)
			despawned++
		}
	})
	return despawned
}

// Update runs every live entity's Updater, then the scene Update hook.
// Entities killed during the pass are not visited afterwards; entities
// added during the pass first run next frame.
func (s *Scene) Update(f *Frame) error {
	if s.closed {
		return ErrClosed
	}
	for _, e := range s.Entities() {
		if !e.Alive() {
			continue
		}
		if u, ok := e.Behavior.(Updater); ok {
			u.Update(e, f)
		}
	}
	if s.hooks.Update != nil {
		return s.hooks.Update(s, f)
	}
	return nil
}

// Render draws the scene into f.Surface: the RenderBefore hook, then every
// entity by ascending Z, then the RenderAfter hook.
func (s *Scene) Render(f *Frame) error {
	if s.closed {
		return ErrClosed
	}
	if s.hooks.RenderBefore != nil {
		if err := s.hooks.RenderBefore(s, f); err != nil {
			return err
		}
	}

	s.order = s.collect(s.order[:0], "")
	sort.SliceStable(s.order, func(i, j int) bool { return s.order[i].Z < s.order[j].Z })
	for _, e := range s.order {
		if !e.Alive() {
			continue
		}
		if r, ok := e.Behavior.(BeforeRenderer); ok {
			r.RenderBefore(e, f)
		}
		if e.Visual != nil {
			e.Visual.Draw(f.Surface, e, s.Camera)
		}
		if r, ok := e.Behavior.(AfterRenderer); ok {
			r.RenderAfter(e, f)
		}
	}
	clear(s.order)

	if s.hooks.RenderAfter != nil {
		return s.hooks.RenderAfter(s, f)
	}
	return nil
}

// RenderPost composites src, the output of Render, onto dst.
func (s *Scene) RenderPost(f *Frame, src, dst *ebiten.Image) error {
	if s.hooks.RenderPost != nil {
		return s.hooks.RenderPost(s, f, src, dst)
	}
	dst.DrawImage(src, nil)
	return nil
}

// Resize tells the content that the render resolution changed.
func (s *Scene) Resize(w, h int) error {
	if s.hooks.Resize == nil || s.closed {
		return nil
	}
	return s.hooks.Resize(s, w, h)
}

// Close runs the Close hook, kills every entity and tears down the
// simulation. Calling it again is a no-op.
func (s *Scene) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.hooks.Close != nil {
		err = s.hooks.Close(s)
	}
	for _, e := range s.Entities() {
		s.Kill(e)
	}
	if s.world != nil {
		s.world.Close()
	}
	return err
}

func (s *Scene) Closed() bool { return s.closed }
