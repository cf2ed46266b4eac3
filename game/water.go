package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/config"
	"github.com/milk9111/waterjam/engine"
	"github.com/milk9111/waterjam/input"
	"github.com/milk9111/waterjam/levels"
	"github.com/milk9111/waterjam/physics"
	"github.com/milk9111/waterjam/postfx"
	"github.com/milk9111/waterjam/scene"
	"github.com/milk9111/waterjam/stats"
	"golang.org/x/image/colornames"
)

const (
	TagParticle = "particle"
	TagWall     = "wall"
)

const (
	// Margin between the window edge and the despawn bounds, in pixels.
	despawnMargin = 50
	wallThickness = 3.0
	sprayVelocity = 3.0
	sprayJitter   = 1.0

	particleRestitution = 0.85
)

// ShaderDir is where shader overrides are read from in debug runs.
var ShaderDir = "postfx/shaders"

var (
	wallFill    = color.RGBA{134, 179, 161, 255}
	wallOutline = colornames.Darkslategray
)

// Water is the particle sandbox: spray water with space, draw walls with
// shift and the left mouse button.
type Water struct {
	env    engine.Env
	scene  *scene.Scene
	world  *physics.World
	logger *log.Logger
	rng    *rand.Rand

	device    *postfx.GPUDevice
	pipeline  *postfx.Pipeline[*ebiten.Image]
	particles *postfx.ParticleBuffer

	background *ebiten.Image
	font       text.Face
	wallVisual *scene.BodyVisual

	debug     bool
	drawing   bool
	drawStart common.Vec2
	tagged    []*scene.Entity
}

// NewWater returns the factory of the sandbox scene. level may be empty.
func NewWater(level string) engine.Factory {
	return func(env engine.Env) (*scene.Scene, error) {
		w := &Water{
			env:        env,
			logger:     common.WithPrefix("water"),
			rng:        rand.New(rand.NewPCG(1, 2)),
			particles:  postfx.NewParticleBuffer(env.Config.Water.MaxParticles),
			wallVisual: &scene.BodyVisual{Fill: wallFill, Outline: wallOutline, Width: 1},
		}
		w.scene = scene.New("water", scene.Hooks{
			Update:       w.update,
			RenderBefore: w.renderBefore,
			RenderAfter:  w.renderAfter,
			RenderPost:   w.renderPost,
			Resize:       w.resize,
			Close:        w.close,
		})
		if err := w.init(level); err != nil {
			_ = w.scene.Close()
			return nil, err
		}
		return w.scene, nil
	}
}

// PhysicsConfig converts the settings file section.
func PhysicsConfig(c config.PhysicsConfig) physics.Config {
	return physics.Config{
		Gravity:            common.V(0, c.GravityY),
		Iterations:         c.Iterations,
		SleepTimeThreshold: c.SleepTimeThreshold,
		StepHz:             c.StepHz,
	}
}

func (w *Water) init(level string) error {
	env := w.env
	w.world = w.scene.EnablePhysics(PhysicsConfig(env.Config.Physics))
	w.setBounds(env.Width, env.Height)

	if env.Assets != nil {
		bg, err := env.Assets.Image("background")
		if err != nil {
			return err
		}
		w.background = bg
		face, err := env.Assets.Font("bold", 12)
		if err != nil {
			return err
		}
		w.font = face
	}

	dir := ""
	if env.Debug {
		dir = ShaderDir
	}
	dev, err := postfx.NewGPUDevice(dir)
	if err != nil {
		return err
	}
	w.device = dev
	if env.Debug {
		if err := dev.Watch(); err != nil {
			w.logger.Warn("shader hot reload disabled", "err", err)
		}
	}
	size := env.Config.Water.ParticleRadius * 2 * physics.Scale
	w.pipeline = postfx.NewPipeline[*ebiten.Image](dev, env.Width, env.Height, postfx.Preset(env.Config.Engine.GraphicsQuality, size))

	if level != "" {
		lvl, err := levels.Load(level, levels.Params{
			Width:  float64(env.Width) / physics.Scale,
			Height: float64(env.Height) / physics.Scale,
		})
		if err != nil {
			return err
		}
		for _, r := range lvl.Records {
			if _, err := w.spawnWall(r.Def()); err != nil {
				return err
			}
		}
		w.logger.Info("level loaded", "level", lvl.Name, "walls", len(lvl.Records))
	}
	return nil
}

func (w *Water) setBounds(width, height int) {
	w.scene.SetBounds(common.Rect{W: float64(width), H: float64(height)}.Inset(despawnMargin))
}

func (w *Water) spawnWall(def physics.BodyDef) (*scene.Entity, error) {
	return w.scene.SpawnBody(def, &scene.Entity{Visual: w.wallVisual, Z: 1, Tags: []string{TagWall}})
}

func (w *Water) update(s *scene.Scene, f *scene.Frame) error {
	in := f.Input
	if in.Pressed(keyQuit) {
		f.Control.Stop()
	}
	if in.Pressed(keyDebug) {
		w.debug = !w.debug
	}
	if in.Pressed(keyMenu) {
		if err := f.Control.SwitchScene("menu", SwitchDuration); err != nil {
			return err
		}
	}
	if in.Pressed(keyClearWall) {
		w.tagged = s.AppendTagged(w.tagged[:0], TagWall)
		for _, e := range w.tagged {
			e.Kill()
		}
	}

	mouse := in.Mouse().Add(s.Camera)
	if in.MousePressed(input.ButtonLeft) && in.Held(keyDraw) {
		w.drawing = true
		w.drawStart = mouse
	}
	if in.MouseReleased(input.ButtonLeft) && w.drawing {
		w.drawing = false
		if def, ok := wallBetween(w.drawStart, mouse); ok {
			if _, err := w.spawnWall(def); err != nil {
				return err
			}
		}
	}

	if in.Held(keySpray) {
		if err := w.spray(mouse, in.MouseDelta()); err != nil {
			return err
		}
	}

	w.device.Poll()
	return nil
}

// wallBetween is the static box spanning two screen points.
func wallBetween(a, b common.Vec2) (physics.BodyDef, bool) {
	delta := physics.ToWorld(b.Sub(a))
	if delta.Len() == 0 {
		return physics.BodyDef{}, false
	}
	return physics.BodyDef{
		Position: physics.ToWorld(a).Add(delta.Scale(0.5)),
		Angle:    math.Atan2(delta.Y, delta.X),
		Shape:    physics.Box(delta.Len(), wallThickness),
		Material: physics.Material{Friction: 0, Restitution: 0.15, Density: 1},
		Static:   true,
	}, true
}

func (w *Water) spray(at, mouseDelta common.Vec2) error {
	cfg := w.env.Config.Water
	live := len(w.scene.AppendTagged(w.tagged[:0], TagParticle))
	n := min(cfg.SpawnPerFrame, cfg.MaxParticles-live)
	v := mouseDelta.Scale(sprayVelocity)
	for range n {
		jitter := common.V(w.rng.Float64()*2-1, w.rng.Float64()*2-1).Scale(sprayJitter)
		_, err := w.scene.SpawnBody(physics.BodyDef{
			Position: physics.ToWorld(at).Add(jitter),
			Velocity: v,
			Shape:    physics.Circle(cfg.ParticleRadius),
			Material: physics.Material{Friction: 0, Restitution: particleRestitution, Density: 1},
		}, &scene.Entity{Tags: []string{TagParticle}})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Water) renderBefore(s *scene.Scene, f *scene.Frame) error {
	if w.background == nil {
		return nil
	}
	b := w.background.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(f.Width)/float64(b.Dx()), float64(f.Height)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	f.Surface.DrawImage(w.background, op)
	return nil
}

func (w *Water) renderAfter(s *scene.Scene, f *scene.Frame) error {
	if w.drawing {
		m := f.Input.Mouse()
		a := w.drawStart.Sub(s.Camera)
		vector.StrokeLine(f.Surface, float32(a.X), float32(a.Y), float32(m.X), float32(m.Y), 1, colornames.White, true)
	}
	if !w.debug {
		return nil
	}
	w.world.DebugDraw(f.Surface, s.Camera.X, s.Camera.Y)
	lines := []string{
		"Physics Debug",
		fmt.Sprintf("Step: %.2fms", f.Stats.Snapshot(stats.Physics).Last*1000),
		fmt.Sprintf("Bodies: %d", w.world.Len()),
		fmt.Sprintf("Particles: %d", len(s.AppendTagged(w.tagged[:0], TagParticle))),
	}
	drawLines(f.Surface, w.font, lines, float64(f.Width)/2-60, 5)
	return nil
}

func (w *Water) renderPost(s *scene.Scene, f *scene.Frame, src, dst *ebiten.Image) error {
	w.particles.Reset()
	w.tagged = s.AppendTagged(w.tagged[:0], TagParticle)
	for _, e := range w.tagged {
		w.particles.Append(e.Position.Sub(s.Camera))
	}
	clear(w.tagged)

	b := src.Bounds()
	w.pipeline.Resize(b.Dx(), b.Dy())
	w.pipeline.Run(w.particles.Points(), src, dst, f.Elapsed.Seconds())
	return nil
}

func (w *Water) resize(_ *scene.Scene, width, height int) error {
	w.setBounds(width, height)
	w.pipeline.Resize(width, height)
	return nil
}

func (w *Water) close(*scene.Scene) error {
	if w.pipeline != nil {
		w.pipeline.Close()
	}
	if w.device != nil {
		w.device.Close()
	}
	return nil
}
