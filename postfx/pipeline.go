package postfx

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/milk9111/waterjam/common"
)

// Pass identifies one stage of the water pipeline.
type Pass int

const (
	PassRaster Pass = iota
	PassBlur
	PassThreshold
	PassWater
	PassComposite
)

func (p Pass) String() string {
	switch p {
	case PassRaster:
		return "raster"
	case PassBlur:
		return "blur"
	case PassThreshold:
		return "threshold"
	case PassWater:
		return "water"
	case PassComposite:
		return "composite"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// Passes lists every pass in execution order.
var Passes = [...]Pass{PassRaster, PassBlur, PassThreshold, PassWater, PassComposite}

// Device runs the individual passes on render targets of type T. A
// device never clears implicitly; the pipeline calls Clear on every
// destination first.
type Device[T any] interface {
	NewTarget(w, h int) T
	Dispose(t T)
	Clear(t T)

	// Particles draws one opaque disc of diameter size per point.
	Particles(dst T, points []common.Vec2, size float64)
	Blur(dst, src T, k Kernel)
	Threshold(dst, src T, cutoff float64, marker color.RGBA)
	Water(dst, mask, scene T, p WaterParams, elapsed float64)
	EdgeBlur(dst, src, mask T, k Kernel)
}

// Pipeline turns a particle cloud into a refracted water surface over a
// scene render. It owns four intermediate targets sized to the render
// resolution.
type Pipeline[T any] struct {
	dev    Device[T]
	params Params
	logger *log.Logger

	w, h    int
	targets [PassComposite]T
	live    bool
	out     T
}

func NewPipeline[T any](dev Device[T], w, h int, params Params) *Pipeline[T] {
	p := &Pipeline[T]{
		dev:    dev,
		params: params,
		logger: common.WithPrefix("postfx"),
	}
	p.Resize(w, h)
	return p
}

func (p *Pipeline[T]) Params() Params { return p.params }

func (p *Pipeline[T]) SetParams(params Params) { p.params = params }

func (p *Pipeline[T]) Size() (int, int) { return p.w, p.h }

// Resize reallocates the targets when the resolution changed. It reports
// whether anything was reallocated.
func (p *Pipeline[T]) Resize(w, h int) bool {
	if w < 1 || h < 1 {
		panic(fmt.Sprintf("postfx: invalid target size %dx%d", w, h))
	}
	if p.live && w == p.w && h == p.h {
		return false
	}
	p.release()
	for i := range p.targets {
		p.targets[i] = p.dev.NewTarget(w, h)
	}
	p.w, p.h = w, h
	p.live = true
	p.logger.Debug("targets allocated", "width", w, "height", h)
	return true
}

// Run executes the five passes. scene is the finished scene render and
// dst receives the composite. Callers cap points at their particle buffer
// size.
func (p *Pipeline[T]) Run(points []common.Vec2, scene, dst T, elapsed float64) {
	if !p.live {
		panic("postfx: pipeline closed")
	}
	raster, blurred, mask, water := p.targets[PassRaster], p.targets[PassBlur], p.targets[PassThreshold], p.targets[PassWater]

	p.dev.Clear(raster)
	p.dev.Particles(raster, points, p.params.ParticleSize)

	p.dev.Clear(blurred)
	p.dev.Blur(blurred, raster, p.params.Blur.clamped())

	p.dev.Clear(mask)
	p.dev.Threshold(mask, blurred, p.params.Threshold, p.params.Marker)

	p.dev.Clear(water)
	wp := p.params.Water
	wp.Edge = wp.Edge.clamped()
	p.dev.Water(water, mask, scene, wp, elapsed)

	p.dev.Clear(dst)
	p.dev.EdgeBlur(dst, water, mask, p.params.EdgeBlur.clamped())
	p.out = dst
}

// Target returns the output of a pass from the last Run. PassComposite
// returns the dst handed to Run.
func (p *Pipeline[T]) Target(pass Pass) T {
	if pass == PassComposite {
		return p.out
	}
	if pass < PassRaster || pass > PassComposite {
		panic(fmt.Sprintf("postfx: unknown pass %d", int(pass)))
	}
	return p.targets[pass]
}

// Close disposes every target. The pipeline cannot be used afterwards.
func (p *Pipeline[T]) Close() {
	p.release()
}

func (p *Pipeline[T]) release() {
	if !p.live {
		return
	}
	for i, t := range p.targets {
		p.dev.Dispose(t)
		var zero T
		p.targets[i] = zero
	}
	var zero T
	p.out = zero
	p.live = false
}
