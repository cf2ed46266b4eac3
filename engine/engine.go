package engine

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/waterjam/assets"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/config"
	"github.com/milk9111/waterjam/input"
	"github.com/milk9111/waterjam/scene"
	"github.com/milk9111/waterjam/stats"
	"github.com/milk9111/waterjam/transition"
)

var (
	ErrUnknownScene = errors.New("engine: unknown scene")
	ErrNoScene      = errors.New("engine: no active scene")
)

// ClearColor fills the scene target before every render.
var ClearColor = color.RGBA{14, 12, 28, 255}

// Env is what a scene factory gets to build its scene.
type Env struct {
	Config  *config.Config
	Assets  *assets.Library
	Control scene.Control
	Width   int
	Height  int
	Debug   bool
}

// Factory builds a fresh scene. It is called every time the scene becomes
// active.
type Factory func(env Env) (*scene.Scene, error)

type Options struct {
	Config *config.Config
	Assets *assets.Library
	// Input defaults to the ebiten keyboard, mouse and gamepads.
	Input input.Source
	// Clock defaults to time.Now.
	Clock     func() time.Time
	Clipboard Clipboard
	// Width and Height are the render resolution.
	Width, Height int
	Debug         bool
}

// Engine drives the active scene once per tick. It implements ebiten.Game.
type Engine struct {
	cfg    *config.Config
	assets *assets.Library
	clock  func() time.Time
	debug  bool
	logger *log.Logger

	input      *input.State
	stats      *stats.Accumulator
	transition *transition.Machine
	overlay    *Overlay
	clipboard  Clipboard

	factories map[string]Factory
	active    *scene.Scene
	pending   string
	inFrame   bool

	width, height int
	target        *ebiten.Image
	frame         scene.Frame

	start      time.Time
	lastUpdate time.Time
	lastDraw   time.Time
	stopping   bool
	err        error
}

func New(opts Options) *Engine {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Input == nil {
		opts.Input = input.NewEbitenSource()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &SystemClipboard{}
	}
	if opts.Width < 1 || opts.Height < 1 {
		opts.Width, opts.Height = 1280, 720
	}

	acc := stats.NewAccumulator(stats.DefaultWindow)
	acc.SetClock(opts.Clock)

	e := &Engine{
		cfg:        opts.Config,
		assets:     opts.Assets,
		clock:      opts.Clock,
		debug:      opts.Debug,
		logger:     common.WithPrefix("engine"),
		input:      input.NewState(opts.Input),
		stats:      acc,
		transition: transition.NewMachine(),
		clipboard:  opts.Clipboard,
		factories:  make(map[string]Factory),
		width:      opts.Width,
		height:     opts.Height,
	}
	e.overlay = NewOverlay(acc, opts.Assets)
	return e
}

func (e *Engine) Config() *config.Config { return e.cfg }

func (e *Engine) Input() *input.State { return e.input }

func (e *Engine) Stats() *stats.Accumulator { return e.stats }

func (e *Engine) Transition() *transition.Machine { return e.transition }

func (e *Engine) Overlay() *Overlay { return e.overlay }

// Scene returns the active scene, or nil before the first SetScene.
func (e *Engine) Scene() *scene.Scene { return e.active }

// Size is the current render resolution.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// AddScene registers a scene factory under name.
func (e *Engine) AddScene(name string, f Factory) {
	e.factories[name] = f
}

// SetScene replaces the active scene. Called from inside a frame, the swap
// happens at the start of the next one.
func (e *Engine) SetScene(name string) error {
	if _, ok := e.factories[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	if e.inFrame {
		e.pending = name
		return nil
	}
	return e.activate(name)
}

// SwitchScene fades over d to the named scene. The swap happens at the
// midpoint of the fade. A new request replaces one in flight.
func (e *Engine) SwitchScene(name string, d time.Duration) error {
	if _, ok := e.factories[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return e.transition.Request(name, d, e.clock())
}

// Stop ends the run. The current frame still completes.
func (e *Engine) Stop() { e.stopping = true }

// SetTitle changes the window title.
func (e *Engine) SetTitle(title string) {
	e.cfg.Engine.Title = title
	ebiten.SetWindowTitle(title)
}

func (e *Engine) activate(name string) error {
	f := e.factories[name]
	next, err := f(Env{
		Config:  e.cfg,
		Assets:  e.assets,
		Control: e,
		Width:   e.width,
		Height:  e.height,
		Debug:   e.debug,
	})
	if err != nil {
		return fmt.Errorf("engine: build scene %q: %w", name, err)
	}
	prev := e.active
	e.active = next
	e.logger.Info("scene activated", "scene", name)
	if prev != nil {
		if err := prev.Close(); err != nil {
			return fmt.Errorf("engine: close %s: %w", prev, err)
		}
	}
	return nil
}

// Run opens the window and blocks until the engine stops. The active
// scene is closed on return.
func (e *Engine) Run() error {
	if e.active == nil {
		return ErrNoScene
	}
	err := ebiten.RunGame(e)
	if cerr := e.active.Close(); err == nil {
		err = cerr
	}
	return err
}

// Update runs one frame of simulation: input, scene swaps, one physics
// step, entity updates, then the scene's own update.
func (e *Engine) Update() error {
	if e.err != nil {
		return e.err
	}
	if e.stopping {
		return ebiten.Termination
	}
	if e.active == nil {
		return ErrNoScene
	}

	now := e.clock()
	if e.start.IsZero() {
		e.start = now
		e.lastUpdate = now
	}
	elapsed := now.Sub(e.lastUpdate)
	e.lastUpdate = now

	e.inFrame = true
	defer func() { e.inFrame = false }()

	e.input.Update()
	if e.input.Pressed(ebiten.KeyF1) {
		e.overlay.Cycle()
	}
	if e.input.Pressed(ebiten.KeyF3) {
		e.copyStats()
	}

	if e.pending != "" {
		name := e.pending
		e.pending = ""
		if err := e.activate(name); err != nil {
			return err
		}
	}
	if target, swap := e.transition.Advance(now); swap {
		if err := e.activate(target); err != nil {
			return err
		}
	}

	f := e.frameFor(now, elapsed, nil)
	s := e.active

	done := e.stats.Profile(stats.Physics)
	s.StepPhysics()
	done()

	done = e.stats.Profile(stats.Update)
	err := s.Update(f)
	done()
	if err != nil {
		return fmt.Errorf("%s: update: %w", s, err)
	}
	return nil
}

func (e *Engine) frameFor(now time.Time, dt time.Duration, surface *ebiten.Image) *scene.Frame {
	if surface == nil {
		e.frame.Index++
	}
	e.frame = scene.Frame{
		Input:   e.input,
		Stats:   e.stats,
		Assets:  e.assets,
		Control: e,
		DT:      dt.Seconds(),
		Now:     now,
		Elapsed: now.Sub(e.start),
		Index:   e.frame.Index,
		Width:   e.width,
		Height:  e.height,
		Surface: surface,
	}
	return &e.frame
}

// Draw renders the active scene into an offscreen target, composites it
// onto the screen and adds the fade and stats overlays. Errors surface
// from the next Update.
func (e *Engine) Draw(screen *ebiten.Image) {
	e.markFrame(e.clock())
	if e.active == nil || e.err != nil {
		return
	}
	if e.target == nil || e.target.Bounds().Dx() != e.width || e.target.Bounds().Dy() != e.height {
		if e.target != nil {
			e.target.Deallocate()
		}
		e.target = ebiten.NewImage(e.width, e.height)
	}

	now := e.clock()
	f := e.frameFor(now, now.Sub(e.lastUpdate), e.target)
	s := e.active

	done := e.stats.Profile(stats.Render)
	e.target.Fill(ClearColor)
	err := s.Render(f)
	if err == nil {
		err = s.RenderPost(f, e.target, screen)
	}
	done()
	if err != nil {
		e.err = fmt.Errorf("%s: render: %w", s, err)
		return
	}

	if a := e.transition.Alpha(now); a > 0 {
		b := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.NRGBA{A: uint8(a * 255)}, false)
	}
	e.overlay.Draw(screen)
}

// markFrame records the frame and fps series once per presented frame.
// ebiten may run several ticks for one frame, so Update does not sample
// them.
func (e *Engine) markFrame(now time.Time) {
	if e.lastDraw.IsZero() {
		e.lastDraw = now
	}
	elapsed := now.Sub(e.lastDraw)
	e.lastDraw = now
	e.stats.Record(stats.Frame, elapsed)
	e.stats.RecordFPS(elapsed)
}

// Layout fixes the render resolution when hardware scaling is on and
// follows the window otherwise.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if e.cfg.Engine.HardwareScaling {
		return e.width, e.height
	}
	if outsideWidth != e.width || outsideHeight != e.height {
		e.resize(outsideWidth, outsideHeight)
	}
	return e.width, e.height
}

func (e *Engine) resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	e.width, e.height = w, h
	e.logger.Debug("resolution changed", "width", w, "height", h)
	if e.active == nil {
		return
	}
	if err := e.active.Resize(w, h); err != nil && e.err == nil {
		e.err = fmt.Errorf("%s: resize: %w", e.active, err)
	}
}

func (e *Engine) copyStats() {
	if err := e.clipboard.WriteText(e.stats.Report()); err != nil {
		e.logger.Warn("copy stats", "err", err)
		return
	}
	e.logger.Info("stats copied to clipboard")
}
