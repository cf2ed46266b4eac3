package postfx

import (
	"image"
	"image/color"
	"math"

	"github.com/milk9111/waterjam/common"
)

// SoftDevice runs the pipeline on the CPU over *image.RGBA targets. It
// samples with nearest filtering and reads outside a target as
// transparent, like the shader device.
type SoftDevice struct {
	offsets map[Kernel][]image.Point
}

func NewSoftDevice() *SoftDevice {
	return &SoftDevice{offsets: make(map[Kernel][]image.Point)}
}

var _ Device[*image.RGBA] = (*SoftDevice)(nil)

func (d *SoftDevice) NewTarget(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (d *SoftDevice) Dispose(*image.RGBA) {}

func (d *SoftDevice) Clear(t *image.RGBA) { clear(t.Pix) }

func (d *SoftDevice) Particles(dst *image.RGBA, points []common.Vec2, size float64) {
	r := size / 2
	b := dst.Bounds()
	for _, p := range points {
		x0 := max(int(math.Floor(p.X-r)), b.Min.X)
		x1 := min(int(math.Ceil(p.X+r)), b.Max.X)
		y0 := max(int(math.Floor(p.Y-r)), b.Min.Y)
		y1 := min(int(math.Ceil(p.Y+r)), b.Max.Y)
		for y := y0; y < y1; y++ {
			dy := float64(y) + 0.5 - p.Y
			for x := x0; x < x1; x++ {
				dx := float64(x) + 0.5 - p.X
				if dx*dx+dy*dy < r*r {
					i := dst.PixOffset(x, y)
					copy(dst.Pix[i:i+4], []uint8{255, 255, 255, 255})
				}
			}
		}
	}
}

func (d *SoftDevice) Blur(dst, src *image.RGBA, k Kernel) {
	offs := d.kernelOffsets(k)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			setPixel(dst, x, y, average(src, x, y, offs))
		}
	}
}

func (d *SoftDevice) Threshold(dst, src *image.RGBA, cutoff float64, marker color.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if sample(src, x, y)[3] <= cutoff {
				continue
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = marker.R, marker.G, marker.B, marker.A
		}
	}
}

func (d *SoftDevice) Water(dst, mask, scene *image.RGBA, p WaterParams, elapsed float64) {
	offs := d.kernelOffsets(p.Edge)
	tint := rgbaFloat(p.Tint)
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !inside(mask, x, y) {
				setPixel(dst, x, y, sample(scene, x, y))
				continue
			}
			u := (float64(x-b.Min.X) + 0.5) / w
			v := (float64(y-b.Min.Y) + 0.5) / h
			dx, dy := waveGradient(u, v, w, h, elapsed, p)

			sx := b.Min.X + int(math.Floor((u+dx*2)*w))
			sy := b.Min.Y + int(math.Floor((v+dy*2)*h))
			alpha := 1 + dx*dy*p.Gain
			c := sample(scene, sx, sy)
			for i := range 3 {
				c[i] *= alpha * tint[i]
			}

			gain := 1.0
			for _, o := range offs {
				if !inside(mask, x+o.X, y+o.Y) {
					gain *= p.EdgeGain
				}
			}
			for i := range 3 {
				c[i] = math.Min(c[i]*gain, c[3])
			}
			setPixel(dst, x, y, c)
		}
	}
}

func (d *SoftDevice) EdgeBlur(dst, src, mask *image.RGBA, k Kernel) {
	offs := d.kernelOffsets(k)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if nearEdge(mask, x, y, offs) {
				setPixel(dst, x, y, average(src, x, y, offs))
				continue
			}
			i := src.PixOffset(x, y)
			copy(dst.Pix[dst.PixOffset(x, y):], src.Pix[i:i+4])
		}
	}
}

func (d *SoftDevice) kernelOffsets(k Kernel) []image.Point {
	if offs, ok := d.offsets[k]; ok {
		return offs
	}
	offs := make([]image.Point, 0, k.Dirs*k.Samples)
	for dir := range k.Dirs {
		theta := 2 * math.Pi * float64(dir) / float64(k.Dirs)
		for s := 1; s <= k.Samples; s++ {
			f := k.Radius * float64(s) / float64(k.Samples)
			offs = append(offs, image.Pt(
				int(math.Round(math.Cos(theta)*f)),
				int(math.Round(math.Sin(theta)*f)),
			))
		}
	}
	d.offsets[k] = offs
	return offs
}

// WaveField is the analytic wave height at uv coordinates (x, y).
func WaveField(x, y, t float64, p WaterParams) float64 {
	step := 2 * math.Pi / float64(p.Angle)
	sum := 0.0
	for i := range p.Steps {
		theta := step * float64(i)
		cos, sin := math.Cos(theta), math.Sin(theta)
		ax := x + cos*t*p.Speed + t*p.SpeedX
		ay := y - (sin*t*p.Speed - t*p.SpeedY)
		sum += math.Cos((ax*cos-ay*sin)*p.Frequency) * p.Intensity
	}
	return math.Cos(sum)
}

func waveGradient(u, v, w, h, t float64, p WaterParams) (float64, float64) {
	c := WaveField(u, v, t, p)
	dx := p.Emboss * (c - WaveField(u+w/p.Delta, v, t, p)) / p.Delta
	dy := p.Emboss * (c - WaveField(u, v+h/p.Delta, t, p)) / p.Delta
	return dx, dy
}

type rgba [4]float64

func sample(img *image.RGBA, x, y int) rgba {
	if !(image.Point{x, y}).In(img.Rect) {
		return rgba{}
	}
	i := img.PixOffset(x, y)
	return rgba{
		float64(img.Pix[i]) / 255,
		float64(img.Pix[i+1]) / 255,
		float64(img.Pix[i+2]) / 255,
		float64(img.Pix[i+3]) / 255,
	}
}

func setPixel(img *image.RGBA, x, y int, c rgba) {
	i := img.PixOffset(x, y)
	for k := range 4 {
		img.Pix[i+k] = uint8(math.Round(common.Clamp(c[k], 0, 1) * 255))
	}
}

func average(img *image.RGBA, x, y int, offs []image.Point) rgba {
	sum := sample(img, x, y)
	for _, o := range offs {
		s := sample(img, x+o.X, y+o.Y)
		for k := range 4 {
			sum[k] += s[k]
		}
	}
	n := float64(1 + len(offs))
	for k := range 4 {
		sum[k] /= n
	}
	return sum
}

func inside(mask *image.RGBA, x, y int) bool {
	return sample(mask, x, y)[3] > 0.5
}

func nearEdge(mask *image.RGBA, x, y int, offs []image.Point) bool {
	in := inside(mask, x, y)
	for _, o := range offs {
		if inside(mask, x+o.X, y+o.Y) != in {
			return true
		}
	}
	return false
}

func rgbaFloat(c color.RGBA) rgba {
	return rgba{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}
