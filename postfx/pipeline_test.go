package postfx

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	next     int
	calls    []string
	disposed []string
	kernels  []Kernel
}

func (d *fakeDevice) NewTarget(w, h int) string {
	d.next++
	return fmt.Sprintf("t%d@%dx%d", d.next, w, h)
}

func (d *fakeDevice) Dispose(t string) { d.disposed = append(d.disposed, t) }

func (d *fakeDevice) Clear(t string) { d.calls = append(d.calls, "clear "+t) }

func (d *fakeDevice) Particles(dst string, points []common.Vec2, size float64) {
	d.calls = append(d.calls, fmt.Sprintf("particles %s n=%d size=%g", dst, len(points), size))
}

func (d *fakeDevice) Blur(dst, src string, k Kernel) {
	d.kernels = append(d.kernels, k)
	d.calls = append(d.calls, "blur "+dst+" <- "+src)
}

func (d *fakeDevice) Threshold(dst, src string, cutoff float64, _ color.RGBA) {
	d.calls = append(d.calls, fmt.Sprintf("threshold %s <- %s at %g", dst, src, cutoff))
}

func (d *fakeDevice) Water(dst, mask, scene string, _ WaterParams, _ float64) {
	d.calls = append(d.calls, "water "+dst+" <- "+mask+" + "+scene)
}

func (d *fakeDevice) EdgeBlur(dst, src, mask string, _ Kernel) {
	d.calls = append(d.calls, "edgeblur "+dst+" <- "+src+" + "+mask)
}

func TestPipelineRunsPassesInOrder(t *testing.T) {
	dev := &fakeDevice{}
	p := NewPipeline[string](dev, 64, 32, Preset(config.QualityHigh, 14))

	pts := []common.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}
	p.Run(pts, "scene", "screen", 0)

	assert.Equal(t, []string{
		"clear t1@64x32",
		"particles t1@64x32 n=2 size=14",
		"clear t2@64x32",
		"blur t2@64x32 <- t1@64x32",
		"clear t3@64x32",
		"threshold t3@64x32 <- t2@64x32 at 0.2",
		"clear t4@64x32",
		"water t4@64x32 <- t3@64x32 + scene",
		"clear screen",
		"edgeblur screen <- t4@64x32 + t3@64x32",
	}, dev.calls)

	assert.Equal(t, "t1@64x32", p.Target(PassRaster))
	assert.Equal(t, "t3@64x32", p.Target(PassThreshold))
	assert.Equal(t, "screen", p.Target(PassComposite))
}

func TestPipelineResize(t *testing.T) {
	dev := &fakeDevice{}
	p := NewPipeline[string](dev, 64, 32, Params{})

	assert.False(t, p.Resize(64, 32))
	assert.Empty(t, dev.disposed)

	require.True(t, p.Resize(128, 64))
	assert.Len(t, dev.disposed, 4)
	w, h := p.Size()
	assert.Equal(t, 128, w)
	assert.Equal(t, 64, h)
	assert.Equal(t, "t5@128x64", p.Target(PassRaster))

	assert.Panics(t, func() { p.Resize(0, 10) })
}

func TestPipelineClose(t *testing.T) {
	dev := &fakeDevice{}
	p := NewPipeline[string](dev, 8, 8, Params{})
	p.Close()
	p.Close()

	assert.Len(t, dev.disposed, 4)
	assert.Panics(t, func() { p.Run(nil, "scene", "screen", 0) })
}

func TestPipelineClampsKernels(t *testing.T) {
	dev := &fakeDevice{}
	p := NewPipeline[string](dev, 8, 8, Params{Blur: Kernel{Dirs: 100, Samples: 0, Radius: 3}})
	p.Run(nil, "scene", "screen", 0)

	require.Len(t, dev.kernels, 1)
	assert.Equal(t, Kernel{Dirs: MaxDirs, Samples: 1, Radius: 3}, dev.kernels[0])
}

func TestPresets(t *testing.T) {
	for _, q := range []config.Quality{config.QualityLow, config.QualityMedium, config.QualityHigh} {
		t.Run(string(q), func(t *testing.T) {
			p := Preset(q, 10)
			assert.Equal(t, 10.0, p.ParticleSize)
			assert.Equal(t, 0.2, p.Threshold)
			assert.LessOrEqual(t, p.Blur.Dirs, MaxDirs)
			assert.LessOrEqual(t, p.EdgeBlur.Samples, MaxSamples)
			assert.Equal(t, p.Blur, p.Blur.clamped())
		})
	}
	assert.Greater(t, Preset(config.QualityHigh, 1).Blur.Taps(), Preset(config.QualityLow, 1).Blur.Taps())
}

func TestPassString(t *testing.T) {
	assert.Equal(t, "raster", PassRaster.String())
	assert.Equal(t, "composite", PassComposite.String())
	assert.Equal(t, "Pass(9)", Pass(9).String())
}

func TestParticleBuffer(t *testing.T) {
	b := NewParticleBuffer(2)
	assert.True(t, b.Append(common.V(1, 2)))
	assert.True(t, b.Append(common.V(3, 4)))
	assert.False(t, b.Append(common.V(5, 6)))
	assert.Equal(t, []common.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}}, b.Points())

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Equal(t, 2, b.Cap())
	assert.Empty(t, b.Points())
}
