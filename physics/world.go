package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/waterjam/common"
)

// Scale converts simulation units to screen pixels.
const Scale = 10.0

var ErrInvalidShape = errors.New("physics: invalid shape")

// ToScreen converts a simulation-space point to screen pixels.
func ToScreen(v common.Vec2) common.Vec2 { return v.Scale(Scale) }

// ToWorld converts a screen-space point to simulation units.
func ToWorld(v common.Vec2) common.Vec2 { return v.Scale(1 / Scale) }

// Config holds the fixed parameters of a simulation.
type Config struct {
	Gravity            common.Vec2
	Iterations         int
	SleepTimeThreshold float64
	// StepHz is the fixed rate; each Step advances the world by 1/StepHz.
	StepHz float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:            common.Vec2{Y: 20},
		Iterations:         10,
		SleepTimeThreshold: 3,
		StepHz:             60,
	}
}

// World wraps a Chipmunk space. Every body it hands out is owned by it
// until Remove is called.
type World struct {
	space  *cp.Space
	bodies []*Body
	dt     float64
}

func NewWorld(cfg Config) *World {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	if cfg.StepHz <= 0 {
		cfg.StepHz = DefaultConfig().StepHz
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: cfg.Gravity.X, Y: cfg.Gravity.Y})
	if cfg.SleepTimeThreshold > 0 {
		space.SleepTimeThreshold = cfg.SleepTimeThreshold
	}

	return &World{space: space, dt: 1 / cfg.StepHz}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// FixedStep is the duration of one Step in seconds.
func (w *World) FixedStep() float64 { return w.dt }

// Step advances the simulation by exactly one fixed step.
func (w *World) Step() {
	if w == nil {
		return
	}
	w.space.Step(w.dt)
}

// Len is the number of bodies in the world.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

// Bodies returns the live bodies. The slice is a copy.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	return append([]*Body(nil), w.bodies...)
}

// SpawnBox adds a box of the given size (simulation units) centred at pos.
func (w *World) SpawnBox(pos, size common.Vec2, angle float64, mat Material, static bool) (*Body, error) {
	return w.Spawn(BodyDef{
		Position: pos,
		Angle:    angle,
		Shape:    Box(size.X, size.Y),
		Material: mat,
		Static:   static,
	})
}

// SpawnCircle adds a circle of the given radius (simulation units) centred at pos.
func (w *World) SpawnCircle(pos common.Vec2, radius float64, mat Material, static bool) (*Body, error) {
	return w.Spawn(BodyDef{
		Position: pos,
		Shape:    Circle(radius),
		Material: mat,
		Static:   static,
	})
}

// Spawn allocates a body and its shape and inserts both into the world.
func (w *World) Spawn(def BodyDef) (*Body, error) {
	if err := def.Shape.validate(); err != nil {
		return nil, err
	}
	density := def.Density
	if density <= 0 {
		density = 1
	}

	var body *cp.Body
	if def.Static {
		body = cp.NewStaticBody()
	} else {
		mass := density * def.Shape.Area()
		var moment float64
		switch def.Shape.Kind {
		case ShapeBox:
			moment = cp.MomentForBox(mass, def.Shape.Width, def.Shape.Height)
		case ShapeCircle:
			moment = cp.MomentForCircle(mass, 0, def.Shape.Radius, cp.Vector{})
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: def.Position.X, Y: def.Position.Y})
	body.SetAngle(def.Angle)
	if !def.Static {
		body.SetVelocity(def.Velocity.X, def.Velocity.Y)
	}

	var shape *cp.Shape
	switch def.Shape.Kind {
	case ShapeBox:
		shape = cp.NewBox(body, def.Shape.Width, def.Shape.Height, 0)
	case ShapeCircle:
		shape = cp.NewCircle(body, def.Shape.Radius, cp.Vector{})
	}
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Restitution)

	b := &Body{
		world:  w,
		body:   body,
		shape:  shape,
		def:    def.Shape,
		static: def.Static,
		index:  len(w.bodies),
	}
	body.UserData = b
	shape.UserData = b

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.bodies = append(w.bodies, b)
	return b, nil
}

// Remove takes the shape and body out of the simulation. It reports false
// if b was already removed or belongs to another world.
func (w *World) Remove(b *Body) bool {
	if w == nil || b == nil || b.world != w || b.removed {
		return false
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	b.removed = true

	last := len(w.bodies) - 1
	moved := w.bodies[last]
	w.bodies[b.index] = moved
	moved.index = b.index
	w.bodies[last] = nil
	w.bodies = w.bodies[:last]
	b.index = -1
	return true
}

// Close removes every body.
func (w *World) Close() {
	for len(w.bodies) > 0 {
		w.Remove(w.bodies[len(w.bodies)-1])
	}
}

// Body is a simulation body with exactly one collision shape. Queries on a
// removed body panic.
type Body struct {
	world   *World
	body    *cp.Body
	shape   *cp.Shape
	def     Shape
	static  bool
	removed bool
	index   int
}

func (b *Body) live() *cp.Body {
	if b.removed {
		panic(fmt.Sprintf("physics: query on removed %s body", b.def.Kind))
	}
	return b.body
}

func (b *Body) Shape() Shape { return b.def }

func (b *Body) Static() bool { return b.static }

func (b *Body) Removed() bool { return b.removed }

// Position is the body centre in simulation units.
func (b *Body) Position() common.Vec2 {
	p := b.live().Position()
	return common.Vec2{X: p.X, Y: p.Y}
}

// ScreenPosition is the body centre in screen pixels.
func (b *Body) ScreenPosition() common.Vec2 {
	return ToScreen(b.Position())
}

func (b *Body) Angle() float64 {
	return b.live().Angle()
}

func (b *Body) Velocity() common.Vec2 {
	v := b.live().Velocity()
	return common.Vec2{X: v.X, Y: v.Y}
}

func (b *Body) SetVelocity(v common.Vec2) {
	if b.static {
		return
	}
	b.live().SetVelocity(v.X, v.Y)
}

func (b *Body) Sleeping() bool {
	return b.live().IsSleeping()
}

// Vertices appends the world-space polygon corners in simulation units.
// Circles have no vertices.
func (b *Body) Vertices(dst []common.Vec2) []common.Vec2 {
	body := b.live()
	switch b.def.Kind {
	case ShapeBox:
		poly := b.shape.Class.(*cp.PolyShape)
		for i := 0; i < poly.Count(); i++ {
			p := body.LocalToWorld(poly.Vert(i))
			dst = append(dst, common.Vec2{X: p.X, Y: p.Y})
		}
	case ShapeCircle:
	}
	return dst
}

// ScreenVertices is Vertices converted to screen pixels.
func (b *Body) ScreenVertices(dst []common.Vec2) []common.Vec2 {
	start := len(dst)
	dst = b.Vertices(dst)
	for i := start; i < len(dst); i++ {
		dst[i] = ToScreen(dst[i])
	}
	return dst
}

// ShapeKind tags the collision shape variant.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota + 1
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	}
	return "unknown"
}

// Shape is a tagged variant. Width and Height apply to boxes, Radius to circles.
type Shape struct {
	Kind          ShapeKind
	Width, Height float64
	Radius        float64
}

func Box(w, h float64) Shape { return Shape{Kind: ShapeBox, Width: w, Height: h} }

func Circle(r float64) Shape { return Shape{Kind: ShapeCircle, Radius: r} }

func (s Shape) Area() float64 {
	switch s.Kind {
	case ShapeBox:
		return s.Width * s.Height
	case ShapeCircle:
		return math.Pi * s.Radius * s.Radius
	}
	return 0
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeBox:
		if !(s.Width > 0 && s.Height > 0) {
			return fmt.Errorf("%w: box %vx%v", ErrInvalidShape, s.Width, s.Height)
		}
	case ShapeCircle:
		if !(s.Radius > 0) {
			return fmt.Errorf("%w: circle radius %v", ErrInvalidShape, s.Radius)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

// Material holds the surface and mass properties of a shape. A zero
// Density is treated as 1.
type Material struct {
	Friction    float64
	Restitution float64
	Density     float64
}

// BodyDef describes a body to spawn. Positions are in simulation units.
type BodyDef struct {
	Position common.Vec2
	Angle    float64
	Velocity common.Vec2
	Shape    Shape
	Material
	Static bool
}
