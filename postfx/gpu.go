package postfx

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/common"
)

const maxParticlesPerBatch = 16000

// GPUDevice runs the pipeline with Kage shaders on ebiten images.
type GPUDevice struct {
	dir     string
	shaders map[string]*ebiten.Shader
	labels  map[*ebiten.Image]string
	watcher *Watcher
	logger  *log.Logger

	vertices []ebiten.Vertex
	indices  []uint16
	uniforms map[string]any
}

var _ Device[*ebiten.Image] = (*GPUDevice)(nil)

// NewGPUDevice compiles every pass shader. Shaders in dir, when dir is not
// empty, take precedence over the embedded ones.
func NewGPUDevice(dir string) (*GPUDevice, error) {
	d := &GPUDevice{
		dir:      dir,
		shaders:  make(map[string]*ebiten.Shader),
		labels:   make(map[*ebiten.Image]string),
		logger:   common.WithPrefix("postfx"),
		uniforms: make(map[string]any),
	}
	for _, name := range shaderNames {
		if err := d.compile(name); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func (d *GPUDevice) compile(name string) error {
	src, err := ShaderSource(d.dir, name)
	if err != nil {
		return err
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("postfx: compile %s: %w", name, err)
	}
	if old := d.shaders[name]; old != nil {
		old.Deallocate()
	}
	d.shaders[name] = sh
	return nil
}

// Watch starts reloading shaders from the override directory when they
// change on disk. Call Poll once per frame to apply the changes.
func (d *GPUDevice) Watch() error {
	if d.dir == "" || d.watcher != nil {
		return nil
	}
	w, err := NewWatcher(d.dir)
	if err != nil {
		return fmt.Errorf("postfx: watch %s: %w", d.dir, err)
	}
	d.watcher = w
	d.logger.Info("watching shaders", "dir", d.dir)
	return nil
}

// Poll applies pending shader reloads. A shader that fails to compile
// keeps its previous version.
func (d *GPUDevice) Poll() {
	if d.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			name := shaderName(path)
			if !slices.Contains(shaderNames, name) {
				continue
			}
			if err := d.compile(name); err != nil {
				d.logger.Error("shader reload failed", "shader", name, "err", err)
				continue
			}
			d.logger.Info("shader reloaded", "shader", name)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("shader watcher", "err", err)
		default:
			return
		}
	}
}

// Close releases the shaders and stops watching.
func (d *GPUDevice) Close() {
	if d.watcher != nil {
		_ = d.watcher.Close()
		d.watcher = nil
	}
	for name, sh := range d.shaders {
		sh.Deallocate()
		delete(d.shaders, name)
	}
}

// Label returns the id assigned to a target, for logs.
func (d *GPUDevice) Label(t *ebiten.Image) string { return d.labels[t] }

func (d *GPUDevice) NewTarget(w, h int) *ebiten.Image {
	t := ebiten.NewImage(w, h)
	id := uuid.NewString()
	d.labels[t] = id
	d.logger.Debug("target created", "id", id, "width", w, "height", h)
	return t
}

func (d *GPUDevice) Dispose(t *ebiten.Image) {
	if t == nil {
		return
	}
	d.logger.Debug("target disposed", "id", d.labels[t])
	delete(d.labels, t)
	t.Deallocate()
}

func (d *GPUDevice) Clear(t *ebiten.Image) { t.Clear() }

func (d *GPUDevice) Particles(dst *ebiten.Image, points []common.Vec2, size float64) {
	h := float32(size / 2)
	for len(points) > 0 {
		n := min(len(points), maxParticlesPerBatch)
		d.vertices = d.vertices[:0]
		d.indices = d.indices[:0]
		for i, p := range points[:n] {
			x, y := float32(p.X), float32(p.Y)
			base := uint16(i * 4)
			d.vertices = append(d.vertices,
				ebiten.Vertex{DstX: x - h, DstY: y - h, ColorR: 0, ColorG: 0, ColorA: 1},
				ebiten.Vertex{DstX: x + h, DstY: y - h, ColorR: 1, ColorG: 0, ColorA: 1},
				ebiten.Vertex{DstX: x - h, DstY: y + h, ColorR: 0, ColorG: 1, ColorA: 1},
				ebiten.Vertex{DstX: x + h, DstY: y + h, ColorR: 1, ColorG: 1, ColorA: 1},
			)
			d.indices = append(d.indices, base, base+1, base+2, base+1, base+3, base+2)
		}
		dst.DrawTrianglesShader(d.vertices, d.indices, d.shaders[ShaderParticle], nil)
		points = points[n:]
	}
}

func (d *GPUDevice) Blur(dst, src *ebiten.Image, k Kernel) {
	u := d.resetUniforms()
	kernelUniforms(u, "", k)
	d.rect(dst, ShaderBlur, src, nil)
}

func (d *GPUDevice) Threshold(dst, src *ebiten.Image, cutoff float64, marker color.RGBA) {
	u := d.resetUniforms()
	u["Cutoff"] = float32(cutoff)
	u["Marker"] = colorUniform(marker)
	d.rect(dst, ShaderThreshold, src, nil)
}

func (d *GPUDevice) Water(dst, mask, scene *ebiten.Image, p WaterParams, elapsed float64) {
	b := dst.Bounds()
	u := d.resetUniforms()
	u["Resolution"] = []float32{float32(b.Dx()), float32(b.Dy())}
	u["Time"] = float32(elapsed)
	u["Speed"] = float32(p.Speed)
	u["SpeedX"] = float32(p.SpeedX)
	u["SpeedY"] = float32(p.SpeedY)
	u["Emboss"] = float32(p.Emboss)
	u["Intensity"] = float32(p.Intensity)
	u["Steps"] = float32(p.Steps)
	u["Frequency"] = float32(p.Frequency)
	u["Angle"] = float32(p.Angle)
	u["Delta"] = float32(p.Delta)
	u["Gain"] = float32(p.Gain)
	u["Tint"] = colorUniform(p.Tint)
	u["EdgeGain"] = float32(p.EdgeGain)
	kernelUniforms(u, "Edge", p.Edge)
	d.rect(dst, ShaderWater, mask, scene)
}

func (d *GPUDevice) EdgeBlur(dst, src, mask *ebiten.Image, k Kernel) {
	u := d.resetUniforms()
	kernelUniforms(u, "", k)
	d.rect(dst, ShaderEdgeBlur, src, mask)
}

func (d *GPUDevice) rect(dst *ebiten.Image, shader string, img0, img1 *ebiten.Image) {
	b := dst.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = img0
	op.Images[1] = img1
	op.Uniforms = d.uniforms
	op.Blend = ebiten.BlendCopy
	dst.DrawRectShader(b.Dx(), b.Dy(), d.shaders[shader], op)
}

func (d *GPUDevice) resetUniforms() map[string]any {
	clear(d.uniforms)
	return d.uniforms
}

func kernelUniforms(u map[string]any, prefix string, k Kernel) {
	u[prefix+"Dirs"] = float32(k.Dirs)
	u[prefix+"Samples"] = float32(k.Samples)
	u[prefix+"Radius"] = float32(k.Radius)
}

func colorUniform(c color.RGBA) []float32 {
	return []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
